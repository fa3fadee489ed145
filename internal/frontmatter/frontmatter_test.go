package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	fm, body, had, err := Split([]byte("# Title\n\ntext\n"))
	require.NoError(t, err)
	assert.False(t, had)
	assert.Nil(t, fm)
	assert.Equal(t, "# Title\n\ntext\n", string(body))
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\ntitle: Iceland\n---\n# Hiking\n"))
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: Iceland\n", string(fm))
	assert.Equal(t, "# Hiking\n", string(body))
}

func TestSplit_CRLF(t *testing.T) {
	fm, body, had, err := Split([]byte("---\r\ntag: x\r\n---\r\nbody\r\n"))
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "tag: x\r\n", string(fm))
	assert.Equal(t, "body\r\n", string(body))
}

func TestSplit_EmptyBlock(t *testing.T) {
	fm, body, had, err := Split([]byte("---\n---\nbody\n"))
	require.NoError(t, err)
	assert.True(t, had)
	assert.Empty(t, fm)
	assert.Equal(t, "body\n", string(body))
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, _, err := Split([]byte("---\ntitle: x\nbody\n"))
	assert.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestParseArticle(t *testing.T) {
	meta, body, err := ParseArticle([]byte("---\ntitle: Building this website\ntag: website\n---\nSome *text*.\n"))
	require.NoError(t, err)
	assert.Equal(t, "Building this website", meta.Title)
	assert.Equal(t, "website", meta.Tag)
	assert.Equal(t, "Some *text*.\n", string(body))

	_, _, err = ParseArticle([]byte("---\ntitle: [unclosed\n---\n"))
	assert.Error(t, err)
}
