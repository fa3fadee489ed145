package site

import (
	"io/fs"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/fragment"
)

// Header is the navigation fragment of a page.
type Header struct {
	doc   *fragment.Document
	items strings.Builder
}

// NewHeader loads the header fragment, sets its title and resolves its style
// tokens: at most one section style is emphasized, every other STYLE token is
// set to the normal value.
func NewHeader(fsys fs.FS, name, title string) (*Header, error) {
	doc, err := fragment.Load(fsys, name, fragment.Header)
	if err != nil {
		return nil, err
	}
	if err := doc.Replace(TokenTitle, title); err != nil {
		return nil, err
	}
	if rule, ok := matchStyle(title); ok {
		if err := doc.Replace(rule.token, StyleEmphasized); err != nil {
			return nil, err
		}
	}
	pending, err := doc.Pending()
	if err != nil {
		return nil, err
	}
	for _, tok := range pending {
		if !strings.Contains(tok, styleCategory) {
			continue
		}
		if err := doc.Replace(tok, StyleNormal); err != nil {
			return nil, err
		}
	}
	return &Header{doc: doc}, nil
}

func matchStyle(title string) (styleRule, bool) {
	for _, r := range styleRules {
		if strings.Contains(title, r.marker) {
			return r, true
		}
	}
	return styleRule{}, false
}

// AddNavigation appends a link to the navigation list.
func (h *Header) AddNavigation(entry NavEntry) {
	h.items.WriteString(entry.render())
}

// FinalizeNavigation injects the navigation list, without its trailing newline.
func (h *Header) FinalizeNavigation() error {
	return h.doc.Replace(TokenItems, strings.TrimSuffix(h.items.String(), "\n"))
}

// Document exposes the underlying fragment.
func (h *Header) Document() *fragment.Document { return h.doc }

// Finalize returns the finished header text.
func (h *Header) Finalize() (string, error) { return h.doc.Finalize() }
