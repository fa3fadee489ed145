package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

const minimalManifest = `
pages:
  - title: Home
    output: ../Homepage
    items:
      - {file: aboutme.html, name: About me}
      - {name: Back, tag: "#https://example.org/"}
`

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalManifest))
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.BaseDir)
	assert.Equal(t, "{title}", cfg.Site.PageTitle)
	assert.Equal(t, "{title}", cfg.Site.PageDescription)
	assert.Equal(t, "blocks/main.html", cfg.Fragments.Base)
	assert.Equal(t, "blocks/header.html", cfg.Fragments.Header)
	assert.Equal(t, "blocks/footer.html", cfg.Fragments.Footer)
	assert.Equal(t, "articles", cfg.Fragments.ArticlesDir)
	assert.Equal(t, "index.html", cfg.Pages[0].File)
	assert.Nil(t, cfg.Bibliography)
	assert.True(t, cfg.VerifyLinks())
	assert.Equal(t, ".pagesmith/ledger.db", cfg.Ledger.Path)
	assert.Equal(t, "pagesmith.builds", cfg.Notify.Subject)
	assert.Equal(t, "linear", cfg.Notify.Backoff)
	assert.Zero(t, cfg.Notify.RetryPolicy().MaxRetries)
	assert.Equal(t, "Update site", cfg.Publish.Message)
	assert.Equal(t, []string{"**/*.html", "**/*.md", "**/*.bib"}, cfg.Watch.Include)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceDuration())
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)

	items := cfg.Pages[0].Items
	assert.False(t, items[0].IsNavigation())
	assert.True(t, items[1].IsNavigation())
}

func TestParseBibliography(t *testing.T) {
	cfg, err := Parse([]byte(`
bibliography:
  citations: {template: articles/research/references.html, output: articles/research}
  raw: {template: articles/research/bibrefs.html, output: ../SD-research/content}
  lists:
    journal: [a, b]
    Book-Chapter: [c]
verify: false
logging: {level: WARNING, format: JSON}
`))
	require.NoError(t, err)
	bib := cfg.Bibliography
	require.NotNil(t, bib)
	assert.Equal(t, "refs.bib", bib.File)
	assert.Equal(t, "content/references.html", bib.ReferencePath)
	assert.Equal(t, "publications.html", bib.Citations.File)
	assert.Equal(t, "references.html", bib.Raw.File)
	assert.Equal(t, []string{"a", "b"}, bib.Lists["journal"])
	assert.False(t, cfg.VerifyLinks())
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		field    string
	}{
		{"empty", "verify: true\n", "pages"},
		{"missing title", "pages: [{output: out}]\n", "pages[0].title"},
		{"missing output", "pages: [{title: Home}]\n", "pages[0].output"},
		{"nested file", "pages: [{title: Home, output: out, file: a/b.html}]\n", "pages[0].file"},
		{"duplicate output", "pages: [{title: A, output: out}, {title: B, output: out}]\n", "pages[1]"},
		{"nav without tag", "pages: [{title: A, output: out, items: [{name: X}]}]\n", "pages[0].items[0]"},
		{"article without name", "pages: [{title: A, output: out, items: [{file: x.html}]}]\n", "pages[0].items[0].name"},
		{"escaping fragment", "fragments: {base: ../main.html}\npages: [{title: A, output: out}]\n", "fragments.base"},
		{"bad debounce", "pages: [{title: A, output: out}]\nwatch: {debounce: soon}\n", "watch.debounce"},
		{"bad glob", "pages: [{title: A, output: out}]\nwatch: {include: [\"[\"]}\n", "watch.include"},
		{"bad cron", "pages: [{title: A, output: out}]\nwatch: {schedule: \"not a cron\"}\n", "watch.schedule"},
		{"negative retries", "pages: [{title: A, output: out}]\nnotify: {retries: -1}\n", "notify.retries"},
		{"bad backoff", "pages: [{title: A, output: out}]\nnotify: {backoff: random}\n", "notify.backoff"},
		{"publish without author", "pages: [{title: A, output: out}]\npublish: {repositories: [out]}\n", "publish"},
		{
			"unknown list",
			"bibliography:\n  citations: {template: c.html, output: o}\n  raw: {template: r.html, output: o}\n  lists: {posters: [a]}\n",
			"bibliography.lists.posters",
		},
		{
			"duplicate tag",
			"bibliography:\n  citations: {template: c.html, output: o}\n  raw: {template: r.html, output: o}\n  lists: {journal: [a], conference: [a]}\n",
			"bibliography.lists.journal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.manifest))
			require.Error(t, err)
			ce, ok := errors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, errors.CategoryConfig, ce.Category())
			field, _ := ce.Context().GetString("field")
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("pages: [{title: A, output: out}]\ncolour: blue\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoadResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "base_dir: site\n"+minimalManifest)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultPath), cfg.Path())
	assert.Equal(t, filepath.Join(dir, "site"), cfg.Root())
	assert.Equal(t, filepath.Join(dir, "Homepage"), cfg.Resolve("../Homepage"))
	assert.Equal(t, "/abs/out", cfg.Resolve("/abs/out"))
}

func TestLoadExpandsEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAGESMITH_TEST_OWNER", "Jane Doe")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PAGESMITH_TEST_SUBJECT=site.events\nPAGESMITH_TEST_OWNER=Someone Else\n"), 0o600))
	path := writeManifest(t, dir, minimalManifest+`
site:
  page_title: "{title} page of ${PAGESMITH_TEST_OWNER}"
notify:
  subject: ${PAGESMITH_TEST_SUBJECT}
`)
	t.Cleanup(func() { _ = os.Unsetenv("PAGESMITH_TEST_SUBJECT") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "{title} page of Jane Doe", cfg.Site.PageTitle)
	assert.Equal(t, "site.events", cfg.Notify.Subject)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Pages, 2)
	require.NotNil(t, cfg.Bibliography)
	assert.Contains(t, cfg.Bibliography.Lists, "journal")

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, Init(path, true))
}

func TestNormalizeLogging(t *testing.T) {
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel(" DEBUG "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("chatty"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("Json"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat(""))
	assert.Equal(t, "DEBUG", LogLevelDebug.SlogLevel().String())
	assert.Equal(t, "ERROR", LogLevelError.SlogLevel().String())
}
