package site

import (
	"io/fs"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/fragment"
)

// DateLayout formats the footer date.
const DateLayout = "2006-01-02"

// NewFooter loads the footer fragment and fills in its date. An empty date
// means today according to now.
func NewFooter(fsys fs.FS, name, date string, now func() time.Time) (*fragment.Document, error) {
	doc, err := fragment.Load(fsys, name, fragment.Footer)
	if err != nil {
		return nil, err
	}
	if date == "" {
		if now == nil {
			now = time.Now
		}
		date = now().Format(DateLayout)
	}
	if err := doc.Replace(TokenDate, date); err != nil {
		return nil, err
	}
	return doc, nil
}
