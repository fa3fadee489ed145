package config

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/retry"
)

const (
	defaultBaseFragment   = "blocks/main.html"
	defaultHeaderFragment = "blocks/header.html"
	defaultFooterFragment = "blocks/footer.html"
	defaultArticlesDir    = "articles"
	defaultPageFile       = "index.html"
	defaultTitlePattern   = "{title}"
	defaultBibFile        = "refs.bib"
	defaultReferencePath  = "content/references.html"
	defaultCitationsFile  = "publications.html"
	defaultRawFile        = "references.html"
	defaultLedgerPath     = ".pagesmith/ledger.db"
	defaultNotifySubject  = "pagesmith.builds"
	defaultCommitMessage  = "Update site"
	defaultDebounce       = 300 * time.Millisecond
)

func defaultWatchInclude() []string {
	return []string{"**/*.html", "**/*.md", "**/*.bib"}
}

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier runs every domain applier in order.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&SiteDefaultApplier{},
			&PagesDefaultApplier{},
			&BibliographyDefaultApplier{},
			&CollaboratorsDefaultApplier{},
			&WatchDefaultApplier{},
			&LoggingDefaultApplier{},
		},
	}
}

// ApplyDefaults applies every domain's defaults to cfg.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// SiteDefaultApplier handles base dir, patterns and fragment names.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "."
	}
	if cfg.Site.PageTitle == "" {
		cfg.Site.PageTitle = defaultTitlePattern
	}
	if cfg.Site.PageDescription == "" {
		cfg.Site.PageDescription = defaultTitlePattern
	}
	if cfg.Fragments.Base == "" {
		cfg.Fragments.Base = defaultBaseFragment
	}
	if cfg.Fragments.Header == "" {
		cfg.Fragments.Header = defaultHeaderFragment
	}
	if cfg.Fragments.Footer == "" {
		cfg.Fragments.Footer = defaultFooterFragment
	}
	if cfg.Fragments.ArticlesDir == "" {
		cfg.Fragments.ArticlesDir = defaultArticlesDir
	}
	return nil
}

// PagesDefaultApplier fills in page file names.
type PagesDefaultApplier struct{}

func (p *PagesDefaultApplier) Domain() string { return "pages" }

func (p *PagesDefaultApplier) ApplyDefaults(cfg *Config) error {
	for i := range cfg.Pages {
		if cfg.Pages[i].File == "" {
			cfg.Pages[i].File = defaultPageFile
		}
	}
	return nil
}

// BibliographyDefaultApplier fills in reference file names.
type BibliographyDefaultApplier struct{}

func (b *BibliographyDefaultApplier) Domain() string { return "bibliography" }

func (b *BibliographyDefaultApplier) ApplyDefaults(cfg *Config) error {
	bib := cfg.Bibliography
	if bib == nil {
		return nil
	}
	if bib.File == "" {
		bib.File = defaultBibFile
	}
	if bib.ReferencePath == "" {
		bib.ReferencePath = defaultReferencePath
	}
	if bib.Citations.File == "" {
		bib.Citations.File = defaultCitationsFile
	}
	if bib.Raw.File == "" {
		bib.Raw.File = defaultRawFile
	}
	return nil
}

// CollaboratorsDefaultApplier handles ledger, notify and publish.
type CollaboratorsDefaultApplier struct{}

func (c *CollaboratorsDefaultApplier) Domain() string { return "collaborators" }

func (c *CollaboratorsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = defaultLedgerPath
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = defaultNotifySubject
	}
	if cfg.Notify.Backoff == "" {
		cfg.Notify.Backoff = string(retry.ModeLinear)
	}
	if cfg.Publish.Message == "" {
		cfg.Publish.Message = defaultCommitMessage
	}
	return nil
}

// WatchDefaultApplier handles the watch include list and debounce.
type WatchDefaultApplier struct{}

func (w *WatchDefaultApplier) Domain() string { return "watch" }

func (w *WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Watch.Include) == 0 {
		cfg.Watch.Include = defaultWatchInclude()
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = defaultDebounce.String()
	}
	return nil
}

// LoggingDefaultApplier normalizes level and format names.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}
