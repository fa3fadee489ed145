package site

import (
	"path"
	"strings"
)

// Layout maps page titles to fragment paths inside the site's fs.FS.
type Layout struct {
	ArticlesDir string
}

// Section is the directory segment for a page title.
func (l Layout) Section(title string) string {
	return strings.ToLower(title)
}

// MainFragment is the body fragment for a page title.
func (l Layout) MainFragment(title string) string {
	return path.Join(l.articlesDir(), l.Section(title), "main.html")
}

// ArticleFragment is the path of an article file belonging to a page title.
func (l Layout) ArticleFragment(title, file string) string {
	return path.Join(l.articlesDir(), l.Section(title), file)
}

func (l Layout) articlesDir() string {
	if l.ArticlesDir == "" {
		return "articles"
	}
	return l.ArticlesDir
}
