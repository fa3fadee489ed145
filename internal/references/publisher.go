package references

import (
	"io/fs"
	"log/slog"

	"git.home.luguber.info/inful/pagesmith/internal/fragment"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// Target names a reference template and where its filled copy is written.
type Target struct {
	Template string
	Dir      string
	File     string
}

// Publisher fills the citations template and the raw references template.
type Publisher struct {
	citations  *fragment.Document
	raw        *fragment.Document
	citeTarget Target
	rawTarget  Target
	logger     *slog.Logger
}

// NewPublisher loads both templates from fsys.
func NewPublisher(fsys fs.FS, citations, raw Target, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c, err := fragment.Load(fsys, citations.Template, fragment.References)
	if err != nil {
		return nil, err
	}
	r, err := fragment.Load(fsys, raw.Template, fragment.References)
	if err != nil {
		return nil, err
	}
	return &Publisher{citations: c, raw: r, citeTarget: citations, rawTarget: raw, logger: logger}, nil
}

// Add substitutes a list's two outputs into the templates under the list's
// token.
func (p *Publisher) Add(l *List) error {
	token := l.Classification().Token()
	if err := p.citations.Replace(token, l.Citations()); err != nil {
		return err
	}
	if err := p.raw.Replace(token, l.RawReferences()); err != nil {
		return err
	}
	p.logger.Debug("Added reference list",
		logfields.Classification(string(l.Classification())),
		logfields.Count(len(l.Tags())))
	return nil
}

// Save writes both documents and returns the written paths. Both are
// finalized first, so an incomplete template leaves both outputs untouched.
func (p *Publisher) Save() ([]string, error) {
	if _, err := p.citations.Finalize(); err != nil {
		return nil, err
	}
	if _, err := p.raw.Finalize(); err != nil {
		return nil, err
	}
	citePath, err := p.citations.Save(p.citeTarget.Dir, p.citeTarget.File)
	if err != nil {
		return nil, err
	}
	rawPath, err := p.raw.Save(p.rawTarget.Dir, p.rawTarget.File)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Saved references", logfields.Output(citePath), slog.String("raw_output", rawPath))
	return []string{citePath, rawPath}, nil
}
