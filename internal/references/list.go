package references

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/bibtex"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// DefaultReferencePath is where the raw BibTeX page is published, relative
// to the citations page. Citation items link to it as PATH#TAG.
const DefaultReferencePath = "content/references.html"

// List accumulates the citations of one classification in citation order.
type List struct {
	class   Classification
	lib     *bibtex.Library
	refPath string
	tags    []string
	items   strings.Builder
	raw     strings.Builder
}

// NewList creates an empty list. An empty refPath uses DefaultReferencePath.
func NewList(class Classification, lib *bibtex.Library, refPath string) *List {
	if refPath == "" {
		refPath = DefaultReferencePath
	}
	return &List{class: class, lib: lib, refPath: refPath}
}

// Classification returns the list type.
func (l *List) Classification() Classification { return l.class }

// Tags returns the cited tags in order.
func (l *List) Tags() []string { return append([]string(nil), l.tags...) }

// Citations is the concatenated citation list items.
func (l *List) Citations() string { return l.items.String() }

// RawReferences is the concatenated raw reference blocks.
func (l *List) RawReferences() string { return l.raw.String() }

// Cite appends the citation item and raw block for tag. On error the list is
// unchanged.
func (l *List) Cite(tag string) error {
	entry, ok := l.lib.Lookup(tag)
	if !ok {
		return errors.NotFoundError(nil, fmt.Sprintf("unknown bibliography entry %q", tag)).
			WithContext(logfields.KeyTag, tag).
			WithContext(logfields.KeyClassification, string(l.class)).
			Build()
	}
	if entry.Type != l.class.EntryType() {
		return errors.BibliographyError(errors.ErrTypeMismatch,
			fmt.Sprintf("bibliography entry %q is @%s, %s lists need @%s", tag, entry.Type, l.class, l.class.EntryType())).
			WithContext(logfields.KeyTag, tag).
			WithContext(logfields.KeyClassification, string(l.class)).
			WithContext("entry_type", entry.Type).
			Build()
	}

	f := &formatter{class: l.class, entry: entry}
	text, err := f.citation(l.refPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(&l.items, "<li id=\"pub%s\">\n\t%s\n</li>\n", tag, text)
	l.raw.WriteString(rawBlock(entry))
	l.tags = append(l.tags, tag)
	return nil
}

// CiteAll cites tags in order, stopping at the first error.
func (l *List) CiteAll(tags []string) error {
	for _, tag := range tags {
		if err := l.Cite(tag); err != nil {
			return err
		}
	}
	return nil
}
