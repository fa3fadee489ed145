package site

import (
	"fmt"
	"io/fs"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/fragment"
)

// Body is the main content fragment of a page. It collects article fragments
// and the navigation entries they imply.
type Body struct {
	doc      *fragment.Document
	fsys     fs.FS
	layout   Layout
	title    string
	nav      []NavEntry
	articles strings.Builder
	injected bool
}

// NewBody loads the main fragment for title.
func NewBody(fsys fs.FS, layout Layout, title string) (*Body, error) {
	doc, err := fragment.Load(fsys, layout.MainFragment(title), fragment.Body)
	if err != nil {
		return nil, err
	}
	return &Body{doc: doc, fsys: fsys, layout: layout, title: title}, nil
}

// Title is the page title the body was created for.
func (b *Body) Title() string { return b.title }

// Navigation returns the navigation entries in the order they were added.
func (b *Body) Navigation() []NavEntry {
	return append([]NavEntry(nil), b.nav...)
}

// Document exposes the underlying fragment.
func (b *Body) Document() *fragment.Document { return b.doc }

// AddArticle loads an HTML article belonging to this page, finalizes it and
// appends it wrapped in an <article> element. An empty tag defaults to the
// lowercased display name.
func (b *Body) AddArticle(file, name, tag string) error {
	doc, err := fragment.Load(b.fsys, b.layout.ArticleFragment(b.title, file), fragment.Article)
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

func (b *Body) appendArticle(name, tag, text string) {
	if tag == "" {
		tag = strings.ToLower(name)
	}
	b.articles.WriteString(`<article id="` + tag + "\">\n")
	b.articles.WriteString(text)
	b.articles.WriteString("\n</article>\n")
	b.nav = append(b.nav, NavEntry{Name: name, Tag: tag})
}

// AddNavigation records a navigation entry without article content.
func (b *Body) AddNavigation(name, tag string) {
	b.nav = append(b.nav, NavEntry{Name: name, Tag: tag})
}

// FinalizeArticles injects the collected articles. Later calls are no-ops.
func (b *Body) FinalizeArticles() error {
	if b.injected {
		return nil
	}
	if err := b.doc.Replace(TokenArticles, b.articles.String()); err != nil {
		return err
	}
	b.injected = true
	return nil
}

// Reset turns the body into a bare host for its articles: the fragment's other
// content and tokens are dropped.
func (b *Body) Reset() error {
	if b.injected {
		return errors.InternalError(fmt.Sprintf("reset body %q after articles were injected", b.title)).Build()
	}
	return b.doc.Reset(TokenArticles)
}

// Finalize returns the finished body text.
func (b *Body) Finalize() (string, error) { return b.doc.Finalize() }
