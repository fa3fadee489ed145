package bibtex

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// Entry is one bibliography record.
type Entry struct {
	Key  string
	Type string
	Raw  string

	fields  map[string]string
	order   []string
	persons map[string][]Name
}

// Field returns the decoded value of a field. Names are case-insensitive.
func (e *Entry) Field(name string) (string, bool) {
	v, ok := e.fields[strings.ToLower(name)]
	return v, ok
}

// FieldNames lists the entry's fields in source order.
func (e *Entry) FieldNames() []string {
	return append([]string(nil), e.order...)
}

// Persons returns the parsed names of a person-list field such as "author"
// or "editor".
func (e *Entry) Persons(field string) []Name {
	return e.persons[strings.ToLower(field)]
}

// Authors is shorthand for Persons("author").
func (e *Entry) Authors() []Name {
	return e.Persons("author")
}

// Library is a parsed bibliography keyed by citation key.
type Library struct {
	entries map[string]*Entry
	keys    []string
}

// Lookup finds an entry by its citation key.
func (l *Library) Lookup(key string) (*Entry, bool) {
	e, ok := l.entries[key]
	return e, ok
}

// Keys returns the citation keys in source order.
func (l *Library) Keys() []string {
	return append([]string(nil), l.keys...)
}

// Len is the number of entries.
func (l *Library) Len() int { return len(l.keys) }

// personFields are split into Names in addition to their decoded text.
var personFields = map[string]bool{"author": true, "editor": true}

// Load reads and parses a .bib file from fsys.
func Load(fsys fs.FS, name string) (*Library, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError(err, "bibliography file not found").
				WithContext("file", name).
				Build()
		}
		return nil, errors.FileSystemError(err, "failed to read bibliography").
			WithContext("file", name).
			Build()
	}
	return Parse(name, string(data))
}

// Parse parses BibTeX source. The filename is only used in error positions.
func Parse(filename, src string) (*Library, error) {
	file, err := bibParser.ParseString(filename, src)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryBibliography, "failed to parse bibliography").
			WithContext("file", filename).
			Build()
	}

	lib := &Library{entries: make(map[string]*Entry)}
	macros := make(map[string]string)
	for _, b := range file.Blocks {
		switch kind := b.kind(); kind {
		case "comment", "preamble":
			continue
		case "string":
			for _, f := range b.Fields {
				macros[strings.ToLower(f.Name)] = joinValues(f.Value, macros)
			}
		default:
			e, err := buildEntry(b, kind, src, macros)
			if err != nil {
				return nil, err
			}
			if _, dup := lib.entries[e.Key]; dup {
				return nil, errors.BibliographyError(nil, "duplicate bibliography key").
					WithContext("file", filename).
					WithContext("key", e.Key).
					WithContext("line", b.Pos.Line).
					Build()
			}
			lib.entries[e.Key] = e
			lib.keys = append(lib.keys, e.Key)
		}
	}
	return lib, nil
}

func buildEntry(b *bibBlock, kind, src string, macros map[string]string) (*Entry, error) {
	key := strings.TrimSpace(b.Key)
	if key == "" && len(b.Fields) == 0 && len(b.Loose) == 1 && b.Loose[0].Bare != nil {
		key = *b.Loose[0].Bare
	}
	if key == "" {
		return nil, errors.BibliographyError(nil, "bibliography entry without a key").
			WithContext("type", kind).
			WithContext("line", b.Pos.Line).
			Build()
	}

	e := &Entry{
		Key:     key,
		Type:    kind,
		Raw:     b.raw(src),
		fields:  make(map[string]string, len(b.Fields)),
		persons: make(map[string][]Name),
	}
	for _, f := range b.Fields {
		name := strings.ToLower(f.Name)
		raw := joinValues(f.Value, macros)
		if _, seen := e.fields[name]; !seen {
			e.order = append(e.order, name)
		}
		switch {
		case personFields[name]:
			persons := SplitPersons(raw)
			names := make([]Name, 0, len(persons))
			for _, p := range persons {
				names = append(names, ParseName(p))
			}
			e.persons[name] = names
			e.fields[name] = Decode(raw)
		case name == "month":
			if m, ok := monthNumber(Decode(raw)); ok {
				e.fields[name] = strconv.Itoa(m)
			} else {
				e.fields[name] = Decode(raw)
			}
		default:
			e.fields[name] = Decode(raw)
		}
	}
	return e, nil
}

// joinValues concatenates the "#"-joined parts of a value. Bare words are
// resolved as macros, then as month names, and otherwise kept as written.
func joinValues(parts []*bibValue, macros map[string]string) string {
	var sb strings.Builder
	for _, v := range parts {
		switch {
		case v.Braced != nil:
			sb.WriteString(piecesText(v.Braced.Pieces))
		case v.Quoted != nil:
			sb.WriteString(piecesText(v.Quoted.Pieces))
		case v.Bare != nil:
			word := *v.Bare
			if m, ok := macros[strings.ToLower(word)]; ok {
				sb.WriteString(m)
			} else if n, ok := monthNumber(word); ok && !isDigits(word) {
				sb.WriteString(strconv.Itoa(n))
			} else {
				sb.WriteString(word)
			}
		}
	}
	return sb.String()
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// monthNumber maps "4", "apr", "Apr." or "April" to 4.
func monthNumber(v string) (int, bool) {
	s := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(v), "."))
	if isDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 12 {
			return 0, false
		}
		return n, true
	}
	if len(s) < 3 {
		return 0, false
	}
	for i, name := range monthNames {
		if strings.HasPrefix(name, s) {
			return i + 1, true
		}
	}
	return 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String summarizes the library for debug logging.
func (l *Library) String() string {
	types := make(map[string]int)
	for _, e := range l.entries {
		types[e.Type]++
	}
	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, t)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, t := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", t, types[t]))
	}
	return fmt.Sprintf("%d entries (%s)", l.Len(), strings.Join(parts, ", "))
}
