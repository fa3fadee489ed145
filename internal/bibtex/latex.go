package bibtex

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// accentMarks maps accent commands to Unicode combining marks.
var accentMarks = map[string]rune{
	"'":  '\u0301',
	"`":  '\u0300',
	"^":  '\u0302',
	"\"": '\u0308',
	"~":  '\u0303',
	"=":  '\u0304',
	".":  '\u0307',
	"u":  '\u0306',
	"v":  '\u030C',
	"H":  '\u030B',
	"c":  '\u0327',
	"k":  '\u0328',
	"r":  '\u030A',
	"d":  '\u0323',
	"b":  '\u0331',
}

var symbols = map[string]string{
	"ss":             "ß",
	"o":              "ø",
	"O":              "Ø",
	"ae":             "æ",
	"AE":             "Æ",
	"oe":             "œ",
	"OE":             "Œ",
	"aa":             "å",
	"AA":             "Å",
	"l":              "ł",
	"L":              "Ł",
	"i":              "ı",
	"j":              "ȷ",
	"textendash":     "–",
	"textemdash":     "—",
	"textquoteright": "’",
	"textquoteleft":  "‘",
	"textregistered": "®",
	"copyright":      "©",
	"dots":           "…",
	"ldots":          "…",
	"LaTeX":          "LaTeX",
	"TeX":            "TeX",
}

var spaceRun = regexp.MustCompile(`[ \t\r\n]+`)

// Decode turns a LaTeX-encoded BibTeX value into plain Unicode text.
// Accents compose (M{\"u}ller becomes Müller), grouping braces and math
// shifts are dropped, "--" and "---" become dashes and "~" a no-break space.
// Unknown commands are removed and their arguments kept.
func Decode(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i := 0; i < len(rs); {
		switch r := rs[i]; {
		case r == '\\':
			i = decodeCommand(rs, i, &b)
		case r == '{' || r == '}' || r == '$':
			i++
		case r == '~':
			b.WriteRune('\u00a0')
			i++
		case r == '-' && i+2 < len(rs) && rs[i+1] == '-' && rs[i+2] == '-':
			b.WriteRune('\u2014')
			i += 3
		case r == '-' && i+1 < len(rs) && rs[i+1] == '-':
			b.WriteRune('\u2013')
			i += 2
		default:
			b.WriteRune(r)
			i++
		}
	}
	out := spaceRun.ReplaceAllString(b.String(), " ")
	return norm.NFC.String(strings.TrimSpace(out))
}

// decodeCommand handles the command starting at rs[i] == '\\' and returns
// the index just past it.
func decodeCommand(rs []rune, i int, b *strings.Builder) int {
	j := i + 1
	if j >= len(rs) {
		return j
	}
	c := rs[j]
	if isLetter(c) {
		k := j
		for k < len(rs) && isLetter(rs[k]) {
			k++
		}
		name := string(rs[j:k])
		if mark, ok := accentMarks[name]; ok {
			k = skipSpaces(rs, k)
			arg, next := readArg(rs, k)
			writeAccent(b, arg, mark)
			return next
		}
		if sym, ok := symbols[name]; ok {
			b.WriteString(sym)
			if k+1 < len(rs) && rs[k] == '{' && rs[k+1] == '}' {
				return k + 2
			}
		}
		return skipSpaces(rs, k)
	}
	if mark, ok := accentMarks[string(c)]; ok {
		arg, next := readArg(rs, j+1)
		if arg == "" {
			b.WriteRune(c)
			return j + 1
		}
		writeAccent(b, arg, mark)
		return next
	}
	switch c {
	case '\\':
		b.WriteRune(' ')
	default:
		b.WriteRune(c)
	}
	return j + 1
}

// readArg reads one accent argument: a braced group, a dotless \i or \j,
// or a single character.
func readArg(rs []rune, k int) (string, int) {
	if k >= len(rs) {
		return "", k
	}
	switch rs[k] {
	case '{':
		depth := 0
		for e := k; e < len(rs); e++ {
			switch rs[e] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return dotless(string(rs[k+1 : e])), e + 1
				}
			}
		}
		return dotless(string(rs[k+1:])), len(rs)
	case '\\':
		if k+1 < len(rs) && (rs[k+1] == 'i' || rs[k+1] == 'j') &&
			(k+2 >= len(rs) || !isLetter(rs[k+2])) {
			return string(rs[k+1]), k + 2
		}
		return "", k
	case '}':
		return "", k
	}
	return string(rs[k]), k + 1
}

func dotless(arg string) string {
	switch strings.TrimSpace(arg) {
	case `\i`:
		return "i"
	case `\j`:
		return "j"
	}
	return Decode(arg)
}

func writeAccent(b *strings.Builder, base string, mark rune) {
	rs := []rune(base)
	if len(rs) == 0 {
		return
	}
	b.WriteRune(rs[0])
	b.WriteRune(mark)
	b.WriteString(string(rs[1:]))
}

func skipSpaces(rs []rune, k int) int {
	for k < len(rs) && (rs[k] == ' ' || rs[k] == '\t' || rs[k] == '\n') {
		k++
	}
	return k
}

func isLetter(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}
