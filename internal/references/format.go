package references

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/bibtex"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)


var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// formatter renders one entry. Lookups record the first missing required
// field so formatting code can stay linear.
type formatter struct {
	class   Classification
	entry   *bibtex.Entry
	missing string
}

func (f *formatter) required(field string) string {
	v, ok := f.entry.Field(field)
	if (!ok || strings.TrimSpace(v) == "") && f.missing == "" {
		f.missing = field
	}
	return textEscaper.Replace(v)
}

func (f *formatter) optional(field string) (string, bool) {
	v, ok := f.entry.Field(field)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return textEscaper.Replace(v), true
}

// citation renders the inner text of a citation list item.
func (f *formatter) citation(refPath string) (string, error) {
	authors := f.authors()
	year := f.required("year")
	title := f.required("title")
	venue := f.venue()
	if f.missing != "" {
		return "", errors.ValidationError(
			fmt.Sprintf("bibliography entry %q is missing field %q", f.entry.Key, f.missing)).
			WithContext(logfields.KeyTag, f.entry.Key).
			WithContext(logfields.KeyClassification, string(f.class)).
			WithContext("field", f.missing).
			Build()
	}

	var sb strings.Builder
	sb.WriteString(authors)
	fmt.Fprintf(&sb, "(%s). \"%s.\" ", year, title)
	sb.WriteString(venue)
	if note, ok := f.optional("note"); ok {
		fmt.Fprintf(&sb, "<b>%s</b>. ", note)
	}
	sb.WriteString(f.links(refPath))
	return sb.String(), nil
}

// authors renders the author list followed by a single space.
func (f *formatter) authors() string {
	names := f.entry.Authors()
	if len(names) == 0 {
		if f.missing == "" {
			f.missing = "author"
		}
		return ""
	}
	others := false
	rendered := make([]string, 0, len(names))
	for _, n := range names {
		if n.IsOthers() {
			others = true
			continue
		}
		rendered = append(rendered, textEscaper.Replace(authorName(n)))
	}
	return joinAuthors(rendered, others) + " "
}

// joinAuthors applies the list rules: "A", "A and B", "A, B, and C".
// A truncated list ends in "et al." instead.
func joinAuthors(names []string, others bool) string {
	if others {
		if len(names) == 1 {
			return names[0] + " et al."
		}
		return strings.Join(names, ", ") + ", et al."
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

// authorName renders initials, particle and family name: "L. van Beethoven".
func authorName(n bibtex.Name) string {
	parts := make([]string, 0, 3)
	if in := n.Initials(); in != "" {
		parts = append(parts, in)
	}
	if fam := n.Family(); fam != "" {
		parts = append(parts, fam)
	}
	return strings.Join(parts, " ")
}

// venue renders where the entry appeared, ending in ". ".
func (f *formatter) venue() string {
	var where string
	switch f.class {
	case Journal:
		where = "<i>" + f.required("journal") + "</i>"
		if vol, ok := f.optional("volume"); ok {
			where += ", vol. " + vol
			if num, ok := f.optional("number"); ok {
				where += ", no. " + num
			}
		}
	case Conference, Abstract:
		where = "In <i>" + f.required("booktitle") + "</i>"
	case BookChapter:
		where = "In <i>" + f.required("series") + "</i>, (" + f.required("booktitle") + "). " + f.required("publisher")
	case TechnicalNote:
		where = f.required("type") + ". " + f.required("institution")
	}
	if pages, ok := f.optional("pages"); ok && f.class != TechnicalNote {
		return where + ", pp. " + pages + ". "
	}
	return where + ". "
}

// links renders the pdf and bibtex anchors.
func (f *formatter) links(refPath string) string {
	var sb strings.Builder
	sb.WriteString("(")
	if doi, ok := f.entry.Field("doi"); ok && strings.TrimSpace(doi) != "" {
		fmt.Fprintf(&sb, `<a href="%s" target="_blank">pdf</a>, `, doiHref(doi))
	} else if url, ok := f.entry.Field("url"); ok && strings.TrimSpace(url) != "" {
		fmt.Fprintf(&sb, `<a href="%s" target="_blank">pdf</a>, `, strings.TrimSpace(url))
	} else {
		sb.WriteString("pdf available on request, ")
	}
	fmt.Fprintf(&sb, `<a href="%s#%s" target="_blank">bibtex</a>)`, refPath, f.entry.Key)
	return sb.String()
}

// doiHref is the link target of a DOI field: the value itself, trimmed.
func doiHref(doi string) string {
	return strings.TrimSpace(doi)
}

// rawBlock wraps an entry's source text in a preformatted block keyed by tag.
func rawBlock(e *bibtex.Entry) string {
	return fmt.Sprintf("<pre id=\"%s\">\n%s\n</pre>\n\n", e.Key, textEscaper.Replace(e.Raw))
}
