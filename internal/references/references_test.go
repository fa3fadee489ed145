package references

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/bibtex"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

const fixtureBib = `
@article{j1,
  author  = {Ludwig van Beethoven and John Ronald Reuel Tolkien and Smith, Jane},
  title   = {Symphonies},
  journal = {Journal of Sound},
  volume  = {3},
  number  = {2},
  pages   = {1--10},
  year    = {2021},
  doi     = {10.1000/abc}
}

@article{j2,
  author  = {Jane Smith},
  title   = {Alone},
  journal = {Solo Letters},
  number  = {9},
  year    = {2020},
  note    = {Best paper},
  url     = {https://example.org/alone.pdf}
}

@inproceedings{c1,
  author    = {Ann Lee and Bob Ray},
  title     = {Meeting},
  booktitle = {Proc. R\&D},
  year      = {2019},
  doi       = {https://doi.org/10.1/x}
}

@incollection{b1,
  author    = {Ann Lee},
  title     = {Chapter},
  series    = {Encyclopedia},
  booktitle = {Systems},
  publisher = {Springer},
  pages     = {5--6},
  year      = {2024}
}

@techreport{t1,
  author      = {Ann Lee and others},
  title       = {Note},
  type        = {Technical note},
  institution = {TU/e},
  pages       = {1--2},
  year        = {2022}
}

@techreport{t2,
  author = {Ann Lee},
  title  = {Incomplete},
  year   = {2022}
}
`

func fixture(t *testing.T) *bibtex.Library {
	t.Helper()
	lib, err := bibtex.Parse("refs.bib", fixtureBib)
	require.NoError(t, err)
	return lib
}

func TestParseClassification(t *testing.T) {
	c, err := ParseClassification("Book-Chapter")
	require.NoError(t, err)
	assert.Equal(t, BookChapter, c)
	assert.Equal(t, "BOOKCHAP", c.Token())
	assert.Equal(t, "incollection", c.EntryType())

	_, err = ParseClassification("poster")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	assert.Len(t, All(), 5)
	for _, c := range All() {
		assert.NotEmpty(t, c.Token())
		assert.NotEmpty(t, c.EntryType())
	}
	assert.Equal(t, Conference.EntryType(), Abstract.EntryType())
}

func TestJoinAuthors(t *testing.T) {
	assert.Equal(t, "", joinAuthors(nil, false))
	assert.Equal(t, "A", joinAuthors([]string{"A"}, false))
	assert.Equal(t, "A and B", joinAuthors([]string{"A", "B"}, false))
	assert.Equal(t, "A, B, and C", joinAuthors([]string{"A", "B", "C"}, false))
	assert.Equal(t, "A, B, C, and D", joinAuthors([]string{"A", "B", "C", "D"}, false))
	assert.Equal(t, "A et al.", joinAuthors([]string{"A"}, true))
	assert.Equal(t, "A, B, et al.", joinAuthors([]string{"A", "B"}, true))
}

func TestCiteJournal(t *testing.T) {
	l := NewList(Journal, fixture(t), "")
	require.NoError(t, l.Cite("j1"))
	require.NoError(t, l.Cite("j2"))

	want := "<li id=\"pubj1\">\n\t" +
		"L. van Beethoven, J.R.R. Tolkien, and J. Smith (2021). \"Symphonies.\" " +
		"<i>Journal of Sound</i>, vol. 3, no. 2, pp. 1–10. " +
		"(<a href=\"10.1000/abc\" target=\"_blank\">pdf</a>, " +
		"<a href=\"content/references.html#j1\" target=\"_blank\">bibtex</a>)\n</li>\n" +
		"<li id=\"pubj2\">\n\t" +
		"J. Smith (2020). \"Alone.\" <i>Solo Letters</i>. <b>Best paper</b>. " +
		"(<a href=\"https://example.org/alone.pdf\" target=\"_blank\">pdf</a>, " +
		"<a href=\"content/references.html#j2\" target=\"_blank\">bibtex</a>)\n</li>\n"
	assert.Equal(t, want, l.Citations())
	assert.Equal(t, []string{"j1", "j2"}, l.Tags())

	assert.Contains(t, l.RawReferences(), "<pre id=\"j1\">\n@article{j1,\n")
	assert.Contains(t, l.RawReferences(), "}\n</pre>\n\n<pre id=\"j2\">")
}

func TestCiteVenues(t *testing.T) {
	lib := fixture(t)

	conf := NewList(Conference, lib, "refs.html")
	require.NoError(t, conf.Cite("c1"))
	assert.Contains(t, conf.Citations(), "A. Lee and B. Ray (2019). \"Meeting.\" In <i>Proc. R&amp;D</i>. ")
	assert.Contains(t, conf.Citations(), `<a href="https://doi.org/10.1/x" target="_blank">pdf</a>`)
	assert.Contains(t, conf.Citations(), `<a href="refs.html#c1" target="_blank">bibtex</a>)`)

	abs := NewList(Abstract, lib, "")
	require.NoError(t, abs.Cite("c1"))

	book := NewList(BookChapter, lib, "")
	require.NoError(t, book.Cite("b1"))
	assert.Contains(t, book.Citations(), "A. Lee (2024). \"Chapter.\" In <i>Encyclopedia</i>, (Systems). Springer, pp. 5–6. (pdf available on request, ")

	note := NewList(TechnicalNote, lib, "")
	require.NoError(t, note.Cite("t1"))
	assert.Contains(t, note.Citations(), "A. Lee et al. (2022). \"Note.\" Technical note. TU/e. (pdf available on request, ")
}

func TestCiteErrors(t *testing.T) {
	lib := fixture(t)

	l := NewList(Journal, lib, "")
	err := l.Cite("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	err = l.Cite("c1")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)
	assert.True(t, errors.HasCategory(err, errors.CategoryBibliography))

	tech := NewList(TechnicalNote, lib, "")
	err = tech.Cite("t2")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	field, _ := ce.Context().GetString("field")
	assert.Equal(t, "type", field)

	assert.Empty(t, l.Citations())
	assert.Empty(t, l.RawReferences())
	assert.Empty(t, tech.Tags())

	require.Error(t, l.CiteAll([]string{"j1", "c1", "j2"}))
	assert.Equal(t, []string{"j1"}, l.Tags())
}

func TestDOIHref(t *testing.T) {
	assert.Equal(t, "10.1/x", doiHref("10.1/x"))
	assert.Equal(t, "doi:10.1/x", doiHref(" doi:10.1/x\n"))
	assert.Equal(t, "https://dx.doi.org/10.1/x", doiHref(" https://dx.doi.org/10.1/x "))
}

func TestPublisher(t *testing.T) {
	fsys := fstest.MapFS{
		"cite.html": {Data: []byte("<ul>$$$JOURNAL$$$</ul>\n<ul>$$$CONFERENCE$$$</ul>\n<!-- lists -->\n")},
		"raw.html":  {Data: []byte("$$$JOURNAL$$$$$$CONFERENCE$$$")},
	}
	out := t.TempDir()
	lib := fixture(t)

	p, err := NewPublisher(fsys,
		Target{Template: "cite.html", Dir: filepath.Join(out, "a"), File: "publications.html"},
		Target{Template: "raw.html", Dir: filepath.Join(out, "b"), File: "references.html"},
		nil)
	require.NoError(t, err)

	j := NewList(Journal, lib, "")
	require.NoError(t, j.Cite("j2"))
	require.NoError(t, p.Add(j))

	// A template left incomplete writes nothing.
	_, err = p.Save()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrIncompleteTemplate)
	assert.NoDirExists(t, filepath.Join(out, "a"))

	require.NoError(t, p.Add(NewList(Conference, lib, "")))
	paths, err := p.Save()
	require.NoError(t, err)
	require.Len(t, paths, 2)

	cite, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(cite), "<ul><li id=\"pubj2\">")
	assert.NotContains(t, string(cite), "lists")

	raw, err := os.ReadFile(filepath.Join(out, "b", "references.html"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<pre id=\"j2\">")

	err = p.Add(NewList(TechnicalNote, lib, ""))
	assert.ErrorIs(t, err, errors.ErrUnknownToken)
}

func TestNewPublisherMissingTemplate(t *testing.T) {
	_, err := NewPublisher(fstest.MapFS{}, Target{Template: "cite.html"}, Target{Template: "raw.html"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
