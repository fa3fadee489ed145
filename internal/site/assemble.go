package site

import (
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/fragment"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// DefaultFile is written when a page does not name its output file.
const DefaultFile = "index.html"

// titlePlaceholder is substituted in the title and description patterns.
const titlePlaceholder = "{title}"

// Fragments names the shared fragments every page is assembled from.
type Fragments struct {
	Base   string
	Header string
	Footer string
}

// Assembler composes a header, a body and a footer into the base fragment.
type Assembler struct {
	FS                 fs.FS
	Fragments          Fragments
	TitlePattern       string
	DescriptionPattern string
	Now                func() time.Time
	Logger             *slog.Logger
}

// PageOptions says where a page goes and which date its footer shows.
type PageOptions struct {
	Dir  string
	File string
	Date string
}

// Assemble builds and saves one page, returning the written path. Any error
// from a nested document aborts the page before anything is written.
func (a *Assembler) Assemble(body *Body, opts PageOptions) (string, error) {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	title := body.Title()

	if err := body.FinalizeArticles(); err != nil {
		return "", err
	}
	header, err := NewHeader(a.FS, a.Fragments.Header, title)
	if err != nil {
		return "", err
	}
	for _, entry := range body.Navigation() {
		header.AddNavigation(entry)
	}
	if err := header.FinalizeNavigation(); err != nil {
		return "", err
	}
	footer, err := NewFooter(a.FS, a.Fragments.Footer, opts.Date, a.Now)
	if err != nil {
		return "", err
	}
	base, err := fragment.Load(a.FS, a.Fragments.Base, fragment.Base)
	if err != nil {
		return "", err
	}

	headerText, err := header.Finalize()
	if err != nil {
		return "", err
	}
	bodyText, err := body.Finalize()
	if err != nil {
		return "", err
	}
	footerText, err := footer.Finalize()
	if err != nil {
		return "", err
	}

	replacements := []struct{ token, text string }{
		{TokenTitle, expand(a.TitlePattern, title)},
		{TokenDescription, expand(a.DescriptionPattern, title)},
		{TokenHeader, headerText},
		{TokenBody, bodyText},
		{TokenFooter, footerText},
	}
	for _, r := range replacements {
		if err := base.Replace(r.token, r.text); err != nil {
			return "", err
		}
	}

	file := opts.File
	if file == "" {
		file = DefaultFile
	}
	path, err := base.Save(opts.Dir, file)
	if err != nil {
		return "", err
	}
	logger.Debug("Page written", logfields.Page(title), logfields.Output(path),
		logfields.Count(len(body.Navigation())))
	return path, nil
}

func expand(pattern, title string) string {
	if pattern == "" {
		return title
	}
	return strings.ReplaceAll(pattern, titlePlaceholder, title)
}
