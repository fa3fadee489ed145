package linkverify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestParsePageReader(t *testing.T) {
	page, err := ParsePageReader(strings.NewReader(`<html><body>
<span><a href="#aboutme" style="font-style: italic;">About <b>me</b></a></span>
<article id="aboutme"><a name="old"></a><img src="me.jpg" alt="Portrait"></article>
<link rel="stylesheet" href="style.css"><p>no links</p>
</body></html>`), "index.html")
	require.NoError(t, err)

	assert.True(t, page.HasAnchor("aboutme"))
	assert.True(t, page.HasAnchor("old"))
	assert.False(t, page.HasAnchor("missing"))

	require.Len(t, page.Links, 3)
	assert.Equal(t, &Link{URL: "#aboutme", Text: "Aboutme", Tag: "a", Attribute: "href"}, page.Links[0])
	assert.Equal(t, &Link{URL: "me.jpg", Text: "Portrait", Tag: "img", Attribute: "src"}, page.Links[1])
	assert.Equal(t, &Link{URL: "style.css", Text: "stylesheet", Tag: "link", Attribute: "href"}, page.Links[2])
}

func TestVerify(t *testing.T) {
	root := t.TempDir()
	index := filepath.Join(root, "index.html")
	research := filepath.Join(root, "research", "index.html")
	refs := filepath.Join(root, "research", "content", "references.html")

	writeFile(t, index, `<a href="#aboutme">About</a><article id="aboutme">
<a href="#nowhere">x</a>
<a href="https://example.org/#frag">ext</a>
<a href="mailto:jane@example.org">mail</a>
<a href="research/">research</a>
<a href="research/index.html#pubs">pubs</a>
<a href="research/index.html#gone">gone</a>
<a href="missing.html">missing</a>
<a href="/absolute.html">absolute</a>
<img src="me.jpg"></article>`)
	writeFile(t, filepath.Join(root, "me.jpg"), "jpg")
	writeFile(t, research, `<article id="pubs"><a href="content/references.html#doe2024" target="_blank">bibtex</a>
<a href="content/references.html#doe2023">bibtex</a></article>`)
	writeFile(t, refs, `<pre id="doe2024">@article{doe2024}</pre>`)

	v := NewVerifier()
	broken, err := v.Verify([]string{index, research})
	require.NoError(t, err)

	got := make([]string, 0, len(broken))
	for _, b := range broken {
		got = append(got, b.URL+" "+string(b.Reason))
	}
	assert.Equal(t, []string{
		"#nowhere missing_anchor",
		"research/index.html#gone missing_anchor",
		"missing.html missing_file",
		"content/references.html#doe2023 missing_anchor",
	}, got)

	assert.Equal(t, index, broken[0].Page)
	assert.Equal(t, filepath.Join(root, "missing.html"), broken[2].Target)
	assert.Contains(t, broken[1].String(), "missing_anchor")

	// Each page is parsed once.
	assert.Equal(t, []string{index, refs, research}, v.Pages())
}

func TestVerifyUnreadablePage(t *testing.T) {
	_, err := NewVerifier().Verify([]string{filepath.Join(t.TempDir(), "none.html")})
	require.Error(t, err)
}
