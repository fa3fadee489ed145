package references

import (
	"fmt"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/normalization"
)

// Classification is one of the fixed reference list kinds.
type Classification string

const (
	Journal       Classification = "journal"
	Conference    Classification = "conference"
	Abstract      Classification = "abstract"
	BookChapter   Classification = "book_chapter"
	TechnicalNote Classification = "technical_note"
)

var classificationSpecs = map[Classification]struct {
	token     string
	entryType string
}{
	Journal:       {"JOURNAL", "article"},
	Conference:    {"CONFERENCE", "inproceedings"},
	Abstract:      {"ABSTRACT", "inproceedings"},
	BookChapter:   {"BOOKCHAP", "incollection"},
	TechnicalNote: {"TECHNOTE", "techreport"},
}

var classificationNames = normalization.NewNormalizer(map[string]Classification{
	"journal":        Journal,
	"conference":     Conference,
	"abstract":       Abstract,
	"book_chapter":   BookChapter,
	"technical_note": TechnicalNote,
}, "")

// All returns every classification in publication-page order.
func All() []Classification {
	return []Classification{Journal, Conference, BookChapter, TechnicalNote, Abstract}
}

// ParseClassification accepts a classification name in any case, with
// "_", "-" or a space as separator.
func ParseClassification(s string) (Classification, error) {
	c, err := classificationNames.NormalizeWithError(s)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, fmt.Sprintf("unknown reference classification %q", s)).
			Fatal().
			WithContext("valid", classificationNames.ValidKeys()).
			Build()
	}
	return c, nil
}

// Token is the template token the classification's output replaces.
func (c Classification) Token() string { return classificationSpecs[c].token }

// EntryType is the BibTeX entry type a cited entry must have.
func (c Classification) EntryType() string { return classificationSpecs[c].entryType }

func (c Classification) String() string { return string(c) }
