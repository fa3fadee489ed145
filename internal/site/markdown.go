package site

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/fragment"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// Raw HTML is kept so Markdown articles can embed figures and iframes like the
// HTML ones do.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
)

// AddMarkdownArticle renders a Markdown article and appends it like AddArticle.
// Frontmatter title and tag fill in an empty name or tag.
func (b *Body) AddMarkdownArticle(file, name, tag string) error {
	p := b.layout.ArticleFragment(b.title, file)
	data, err := fs.ReadFile(b.fsys, p)
	if err != nil {
		return errors.NotFoundError(err, fmt.Sprintf("read article %s", p)).
			WithContext(logfields.KeyFragment, p).
			Build()
	}
	meta, src, err := frontmatter.ParseArticle(data)
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, fmt.Sprintf("article %s", p)).
			Fatal().
			WithContext(logfields.KeyFragment, p).
			Build()
	}
	if name == "" {
		name = meta.Title
	}
	if tag == "" {
		tag = meta.Tag
	}
	if name == "" {
		return errors.ValidationError(fmt.Sprintf("article %s has no display name", p)).
			WithContext(logfields.KeyFragment, p).
			Build()
	}

	var out bytes.Buffer
	if err := markdown.Convert(src, &out); err != nil {
		return errors.WrapError(err, errors.CategoryTemplate, fmt.Sprintf("render markdown %s", p)).
			Fatal().
			WithContext(logfields.KeyFragment, p).
			Build()
	}
	doc, err := fragment.New(p, out.String(), fragment.Article)
	if err != nil {
		return err
	}
	text, err := doc.Finalize()
	if err != nil {
		return err
	}
	b.appendArticle(name, tag, text)
	return nil
}
