package linkverify

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL       string // The URL or path
	Text      string // Link text/title
	Tag       string // HTML tag (a, img, script, link, etc.)
	Attribute string // Attribute containing the link (href, src, etc.)
}

// Page is a parsed HTML page: its links and the anchors it defines.
type Page struct {
	Path  string
	Links []*Link
	IDs   map[string]bool
}

// HasAnchor reports whether the page defines id (or a named anchor).
func (p *Page) HasAnchor(id string) bool { return p.IDs[id] }

// ParsePage reads and parses an HTML file.
func ParsePage(htmlPath string) (*Page, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.FileSystemError(err, "failed to open HTML file").
			WithContext("html_path", htmlPath).
			Build()
	}
	defer func() {
		_ = file.Close() // Ignore close errors on read-only operation
	}()

	return ParsePageReader(file, htmlPath)
}

// ParsePageReader parses HTML from r. path is recorded on the page.
func ParsePageReader(r io.Reader, path string) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").
			WithContext("html_path", path).
			Build()
	}

	page := &Page{Path: path, IDs: make(map[string]bool)}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := getAttr(n, "id"); id != "" {
				page.IDs[id] = true
			}
			if n.Data == "a" {
				if name := getAttr(n, "name"); name != "" {
					page.IDs[name] = true
				}
			}
			extractElementLinks(n, &page.Links)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return page, nil
}

// linkAttrs lists which attribute carries a link for each element.
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"iframe": "src",
	"video":  "src",
	"audio":  "src",
	"source": "src",
}

// extractElementLinks extracts links from a single HTML element.
func extractElementLinks(n *html.Node, links *[]*Link) {
	attr, ok := linkAttrs[n.Data]
	if !ok {
		return
	}
	val := getAttr(n, attr)
	if val == "" {
		return
	}
	text := ""
	switch n.Data {
	case "a":
		text = extractText(n)
	case "img":
		text = getAttr(n, "alt")
	case "link":
		text = getAttr(n, "rel")
	}
	*links = append(*links, &Link{URL: val, Text: text, Tag: n.Data, Attribute: attr})
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}

	return strings.TrimSpace(text.String())
}
