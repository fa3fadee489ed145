package config

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/robfig/cron/v3"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/references"
	"git.home.luguber.info/inful/pagesmith/internal/retry"
)

// ValidateConfig checks a defaulted configuration.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if len(cv.config.Pages) == 0 && cv.config.Bibliography == nil {
		return invalid("pages", "at least one page or a bibliography must be configured")
	}
	if err := cv.validateFragments(); err != nil {
		return err
	}
	if err := cv.validatePages(); err != nil {
		return err
	}
	if err := cv.validateBibliography(); err != nil {
		return err
	}
	if err := cv.validatePublish(); err != nil {
		return err
	}
	if err := cv.validateNotify(); err != nil {
		return err
	}
	return cv.validateWatch()
}

func (cv *configurationValidator) validateNotify() error {
	n := cv.config.Notify
	if n.Retries < 0 {
		return invalid("notify.retries", "must not be negative")
	}
	if _, err := retry.ParseMode(n.Backoff); err != nil {
		return invalid("notify.backoff", err.Error())
	}
	return nil
}

func (cv *configurationValidator) validateFragments() error {
	f := cv.config.Fragments
	for field, name := range map[string]string{
		"fragments.base":         f.Base,
		"fragments.header":       f.Header,
		"fragments.footer":       f.Footer,
		"fragments.articles_dir": f.ArticlesDir,
	} {
		if err := validFragmentPath(field, name); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validatePages() error {
	seen := make(map[string]int)
	for i, page := range cv.config.Pages {
		field := fmt.Sprintf("pages[%d]", i)
		if strings.TrimSpace(page.Title) == "" {
			return invalid(field+".title", "page title is required")
		}
		if strings.TrimSpace(page.Output) == "" {
			return invalid(field+".output", fmt.Sprintf("page %q needs an output directory", page.Title))
		}
		if strings.ContainsAny(page.File, `/\`) {
			return invalid(field+".file", fmt.Sprintf("page %q file must be a plain file name", page.Title))
		}
		target := page.Output + "/" + page.File
		if prev, dup := seen[target]; dup {
			return invalid(field, fmt.Sprintf("page %q writes the same file as pages[%d]", page.Title, prev))
		}
		seen[target] = i
		for j, item := range page.Items {
			itemField := fmt.Sprintf("%s.items[%d]", field, j)
			if item.IsNavigation() {
				if item.Name == "" || item.Tag == "" {
					return invalid(itemField, "navigation-only items need a name and a tag")
				}
				continue
			}
			if err := validFragmentPath(itemField+".file", item.File); err != nil {
				return err
			}
			if item.Name == "" && !strings.HasSuffix(strings.ToLower(item.File), ".md") {
				return invalid(itemField+".name", fmt.Sprintf("article %q needs a name", item.File))
			}
		}
	}
	return nil
}

func (cv *configurationValidator) validateBibliography() error {
	bib := cv.config.Bibliography
	if bib == nil {
		return nil
	}
	if err := validFragmentPath("bibliography.file", bib.File); err != nil {
		return err
	}
	for field, t := range map[string]TargetConfig{"bibliography.citations": bib.Citations, "bibliography.raw": bib.Raw} {
		if err := validFragmentPath(field+".template", t.Template); err != nil {
			return err
		}
		if strings.TrimSpace(t.Output) == "" {
			return invalid(field+".output", "reference output directory is required")
		}
	}
	names := make([]string, 0, len(bib.Lists))
	for name := range bib.Lists {
		names = append(names, name)
	}
	sort.Strings(names)
	tags := make(map[string]string)
	for _, name := range names {
		list := bib.Lists[name]
		if _, err := references.ParseClassification(name); err != nil {
			return invalid("bibliography.lists."+name, err.Error())
		}
		for _, tag := range list {
			if prev, dup := tags[tag]; dup {
				return invalid("bibliography.lists."+name, fmt.Sprintf("tag %q is already cited in %s", tag, prev))
			}
			tags[tag] = name
		}
	}
	return nil
}

func (cv *configurationValidator) validatePublish() error {
	p := cv.config.Publish
	if len(p.Repositories) == 0 {
		return nil
	}
	if p.Author == "" || p.Email == "" {
		return invalid("publish", "publish needs an author and an email for commits")
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	w := cv.config.Watch
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return invalid("watch.debounce", fmt.Sprintf("invalid duration %q", w.Debounce))
	}
	if d < 0 {
		return invalid("watch.debounce", "debounce must not be negative")
	}
	for _, pattern := range append(append([]string{}, w.Include...), w.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return invalid("watch.include", fmt.Sprintf("invalid glob pattern %q", pattern))
		}
	}
	if w.Schedule != "" {
		if _, err := cron.ParseStandard(w.Schedule); err != nil {
			return invalid("watch.schedule", fmt.Sprintf("invalid cron schedule %q: %v", w.Schedule, err))
		}
	}
	return nil
}

// validFragmentPath requires a slash-separated path inside the base dir.
func validFragmentPath(field, name string) error {
	if name == "" {
		return invalid(field, "path is required")
	}
	if !fs.ValidPath(name) {
		return invalid(field, fmt.Sprintf("%q must be a relative slash-separated path inside base_dir", name))
	}
	return nil
}

func invalid(field, message string) error {
	return errors.ConfigError(message).
		WithContext("field", field).
		Build()
}
