package bibtex

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// bibLexer switches into the Entry state at "@type{" and tracks brace depth
// with Braced states. Anything outside an entry is Junk.
var bibLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `(?i)@comment\s*\{[^{}]*\}`},
		{Name: "Head", Pattern: `@\s*[A-Za-z]+\s*\{`, Action: lexer.Push("Entry")},
		{Name: "Junk", Pattern: `[^@]+|@`},
	},
	"Entry": {
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Equals", Pattern: `=`},
		{Name: "Hash", Pattern: `#`},
		{Name: "Quote", Pattern: `"`, Action: lexer.Push("Quoted")},
		{Name: "Open", Pattern: `\{`, Action: lexer.Push("Braced")},
		{Name: "Close", Pattern: `\}`, Action: lexer.Pop()},
		{Name: "Ident", Pattern: `[^\s,={}"#]+`},
	},
	"Braced": {
		{Name: "Open", Pattern: `\{`, Action: lexer.Push("Braced")},
		{Name: "Close", Pattern: `\}`, Action: lexer.Pop()},
		{Name: "Text", Pattern: `[^{}]+`},
	},
	"Quoted": {
		{Name: "Open", Pattern: `\{`, Action: lexer.Push("Braced")},
		{Name: "Quote", Pattern: `"`, Action: lexer.Pop()},
		{Name: "QuotedText", Pattern: `[^{"]+`},
	},
})

type bibFile struct {
	Blocks []*bibBlock `parser:"( @@ | Junk )*"`
}

type bibBlock struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Tokens []lexer.Token

	Head   string      `parser:"@Head"`
	Key    string      `parser:"( @Ident Comma )?"`
	Fields []*bibField `parser:"( @@ ( Comma @@? )* )?"`
	Loose  []*bibValue `parser:"( @@ ( Hash @@ )* )?"`
	End    string      `parser:"@Close"`
}

type bibField struct {
	Name  string      `parser:"@Ident Equals"`
	Value []*bibValue `parser:"@@ ( Hash @@ )*"`
}

type bibValue struct {
	Braced *bibBraced `parser:"  @@"`
	Quoted *bibQuoted `parser:"| @@"`
	Bare   *string    `parser:"| @Ident"`
}

type bibBraced struct {
	Open   string      `parser:"@Open"`
	Pieces []*bibPiece `parser:"@@* Close"`
}

type bibQuoted struct {
	Open   string      `parser:"@Quote"`
	Pieces []*bibPiece `parser:"@@* Quote"`
}

type bibPiece struct {
	Text   *string    `parser:"  ( @Text | @QuotedText )"`
	Nested *bibBraced `parser:"| @@"`
}

var bibParser = participle.MustBuild[bibFile](
	participle.Lexer(bibLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

// kind is the lowercased entry type of a block, "article" for "@Article {".
func (b *bibBlock) kind() string {
	k := strings.TrimPrefix(b.Head, "@")
	k = strings.TrimSuffix(k, "{")
	return strings.ToLower(strings.TrimSpace(k))
}

// raw returns the block's source text, from "@" to the closing brace.
func (b *bibBlock) raw(src string) string {
	start, end := b.Pos.Offset, b.EndPos.Offset
	if end <= start || end > len(src) {
		if n := len(b.Tokens); n > 0 {
			last := b.Tokens[n-1]
			end = last.Pos.Offset + len(last.Value)
		}
	}
	if start < 0 || end > len(src) || end <= start {
		return ""
	}
	return strings.TrimSpace(src[start:end])
}

// text reassembles a delimited value, keeping inner braces.
func piecesText(pieces []*bibPiece) string {
	var sb strings.Builder
	for _, p := range pieces {
		switch {
		case p.Text != nil:
			sb.WriteString(*p.Text)
		case p.Nested != nil:
			sb.WriteByte('{')
			sb.WriteString(piecesText(p.Nested.Pieces))
			sb.WriteByte('}')
		}
	}
	return sb.String()
}
