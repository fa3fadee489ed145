package linkverify

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Reason says why a link is broken.
type Reason string

const (
	ReasonMissingFile   Reason = "missing_file"
	ReasonMissingAnchor Reason = "missing_anchor"
	ReasonInvalidURL    Reason = "invalid_url"
)

// BrokenLink is a link that does not resolve.
type BrokenLink struct {
	Page   string
	URL    string
	Target string
	Reason Reason
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s: %s (%s)", b.Page, b.URL, b.Reason)
}

// Verifier checks pages and caches every page it parses.
type Verifier struct {
	pages map[string]*Page
}

// NewVerifier creates an empty verifier.
func NewVerifier() *Verifier {
	return &Verifier{pages: make(map[string]*Page)}
}

// Verify checks the local links of each page and returns the broken ones in
// page order. A page that cannot be read or parsed is an error.
func (v *Verifier) Verify(paths []string) ([]BrokenLink, error) {
	var broken []BrokenLink
	for _, p := range paths {
		page, err := v.page(p)
		if err != nil {
			return nil, err
		}
		for _, link := range page.Links {
			if b, ok := v.check(page, link); !ok {
				broken = append(broken, b)
			}
		}
	}
	return broken, nil
}

// Pages returns the paths parsed so far, sorted.
func (v *Verifier) Pages() []string {
	out := make([]string, 0, len(v.pages))
	for p := range v.pages {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (v *Verifier) page(path string) (*Page, error) {
	path = filepath.Clean(path)
	if p, ok := v.pages[path]; ok {
		return p, nil
	}
	p, err := ParsePage(path)
	if err != nil {
		return nil, err
	}
	v.pages[path] = p
	return p, nil
}

// check resolves one link. External and special links always pass.
func (v *Verifier) check(page *Page, link *Link) (BrokenLink, bool) {
	broken := func(target string, reason Reason) (BrokenLink, bool) {
		return BrokenLink{Page: page.Path, URL: link.URL, Target: target, Reason: reason}, false
	}
	if isExternal(link.URL) {
		return BrokenLink{}, true
	}
	u, err := url.Parse(link.URL)
	if err != nil {
		return broken("", ReasonInvalidURL)
	}

	target := filepath.Clean(page.Path)
	if u.Path != "" {
		if strings.HasPrefix(u.Path, "/") {
			// Root-relative links depend on the web server's document root.
			return BrokenLink{}, true
		}
		target = filepath.Join(filepath.Dir(page.Path), filepath.FromSlash(u.Path))
		info, err := os.Stat(target)
		if err == nil && info.IsDir() {
			target = filepath.Join(target, "index.html")
			_, err = os.Stat(target)
		}
		if err != nil {
			return broken(target, ReasonMissingFile)
		}
	}

	if u.Fragment == "" || !isHTML(target) {
		return BrokenLink{}, true
	}
	tp, err := v.page(target)
	if err != nil {
		return broken(target, ReasonMissingFile)
	}
	if !tp.HasAnchor(u.Fragment) {
		return broken(target, ReasonMissingAnchor)
	}
	return BrokenLink{}, true
}

func isExternal(link string) bool {
	lower := strings.ToLower(strings.TrimSpace(link))
	if strings.HasPrefix(lower, "//") {
		return true
	}
	for _, scheme := range []string{"http:", "https:", "mailto:", "tel:", "javascript:", "data:", "ftp:"} {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

func isHTML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}
