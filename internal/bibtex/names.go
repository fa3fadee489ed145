package bibtex

import (
	"strings"
	"unicode"
)

// Name is one person from an author or editor list, split into the four
// BibTeX name parts. Words are decoded.
type Name struct {
	First []string
	Von   []string
	Last  []string
	Jr    []string
}

// IsOthers reports whether the name is the "others" placeholder used for
// truncated author lists.
func (n Name) IsOthers() bool {
	return len(n.First) == 0 && len(n.Von) == 0 && len(n.Jr) == 0 &&
		len(n.Last) == 1 && n.Last[0] == "others"
}

// Initials returns the first letter of each given name followed by a period,
// "J.R." for "John Ronald". Hyphenated names give one initial per part.
func (n Name) Initials() string {
	parts := make([]string, 0, len(n.First))
	for _, w := range n.First {
		for _, piece := range strings.Split(w, "-") {
			rs := []rune(piece)
			if len(rs) == 0 {
				continue
			}
			parts = append(parts, string(rs[0])+".")
		}
	}
	return strings.Join(parts, "")
}

// Family returns the von and last parts joined with spaces.
func (n Name) Family() string {
	return strings.Join(append(append([]string{}, n.Von...), n.Last...), " ")
}

// SplitPersons splits a raw name list on "and" at brace depth zero.
func SplitPersons(raw string) []string {
	words := splitDepthZero(raw, func(r rune) bool { return unicode.IsSpace(r) })
	var persons []string
	var cur []string
	for _, w := range words {
		if strings.EqualFold(w, "and") {
			if len(cur) > 0 {
				persons = append(persons, strings.Join(cur, " "))
			}
			cur = nil
			continue
		}
		cur = append(cur, w)
	}
	if len(cur) > 0 {
		persons = append(persons, strings.Join(cur, " "))
	}
	return persons
}

// ParseName splits one raw person into name parts using the BibTeX rules
// for the "First von Last", "von Last, First" and "von Last, Jr, First" forms.
func ParseName(raw string) Name {
	commaParts := splitDepthZero(raw, func(r rune) bool { return r == ',' })
	var groups [][]string
	for _, p := range commaParts {
		groups = append(groups, words(p))
	}
	var n Name
	switch len(groups) {
	case 0:
		return n
	case 1:
		w := groups[0]
		if len(w) == 0 {
			return n
		}
		// First von Last: von starts at the first lowercase word, last is
		// everything after the final lowercase word. The last word is
		// always part of Last.
		vonStart, vonEnd := -1, -1
		for i := 0; i < len(w)-1; i++ {
			if isLowerWord(w[i]) {
				if vonStart < 0 {
					vonStart = i
				}
				vonEnd = i + 1
			}
		}
		if vonStart < 0 {
			n.First = w[:len(w)-1]
			n.Last = w[len(w)-1:]
		} else {
			n.First = w[:vonStart]
			n.Von = w[vonStart:vonEnd]
			n.Last = w[vonEnd:]
		}
	default:
		n.Von, n.Last = splitVonLast(groups[0])
		if len(groups) == 2 {
			n.First = groups[1]
		} else {
			n.Jr = groups[1]
			n.First = groups[2]
		}
	}
	n.First = decodeWords(n.First)
	n.Von = decodeWords(n.Von)
	n.Last = decodeWords(n.Last)
	n.Jr = decodeWords(n.Jr)
	return n
}

func splitVonLast(w []string) (von, last []string) {
	if len(w) == 0 {
		return nil, nil
	}
	end := -1
	for i := 0; i < len(w)-1; i++ {
		if isLowerWord(w[i]) {
			end = i + 1
		}
	}
	if end < 0 {
		return nil, w
	}
	return w[:end], w[end:]
}

func decodeWords(w []string) []string {
	if len(w) == 0 {
		return nil
	}
	out := make([]string, len(w))
	for i, s := range w {
		out[i] = Decode(s)
	}
	return out
}

// isLowerWord reports whether the first letter at brace depth zero is
// lowercase. A group opened by "{\" is a special character and counts by
// its first letter after the command.
func isLowerWord(w string) bool {
	rs := []rune(w)
	depth := 0
	for i := 0; i < len(rs); i++ {
		switch r := rs[i]; {
		case r == '{':
			if depth == 0 && i+1 < len(rs) && rs[i+1] == '\\' {
				return specialIsLower(rs[i+2:])
			}
			depth++
		case r == '}':
			depth--
		case depth == 0 && unicode.IsLetter(r):
			return unicode.IsLower(r)
		}
	}
	return false
}

// specialIsLower decides case for a "{\cmd ...}" group from the first
// letter after the command, or from the command name itself.
func specialIsLower(rs []rune) bool {
	k := 0
	cmd := ""
	if k < len(rs) && isLetter(rs[k]) {
		for k < len(rs) && isLetter(rs[k]) {
			k++
		}
		cmd = string(rs[:k])
	} else {
		k++
	}
	for ; k < len(rs) && rs[k] != '}'; k++ {
		if unicode.IsLetter(rs[k]) {
			return unicode.IsLower(rs[k])
		}
	}
	if cmd != "" {
		return unicode.IsLower([]rune(cmd)[0])
	}
	return false
}

func words(s string) []string {
	return splitDepthZero(s, func(r rune) bool { return unicode.IsSpace(r) || r == '~' })
}

// splitDepthZero splits s at separator runes outside braces, dropping
// empty pieces and trimming each one.
func splitDepthZero(s string, sep func(rune) bool) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if t := strings.TrimSpace(cur.String()); t != "" {
			out = append(out, t)
		}
		cur.Reset()
	}
	for _, r := range s {
		switch {
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0 && sep(r):
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return out
}
