package build

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pagesmith/internal/fragment"
	"git.home.luguber.info/inful/pagesmith/internal/linkverify"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// CheckReport is the result of a dry validation run.
type CheckReport struct {
	Citations   map[string]int
	Fragments   int
	Verified    []string
	BrokenLinks []linkverify.BrokenLink
}

// Check validates sources without writing anything: every shared and main
// fragment parses, every cited key resolves with the right entry type, and
// the links of already generated pages still point somewhere.
func (b *Builder) Check(ctx context.Context) (*CheckReport, error) {
	report := &CheckReport{Citations: map[string]int{}}

	shared := []struct {
		name    string
		variant fragment.Variant
	}{
		{b.cfg.Fragments.Base, fragment.Base},
		{b.cfg.Fragments.Header, fragment.Header},
		{b.cfg.Fragments.Footer, fragment.Footer},
	}
	for _, s := range shared {
		if _, err := fragment.Load(b.fsys, s.name, s.variant); err != nil {
			return report, err
		}
		report.Fragments++
	}
	layout := site.Layout{ArticlesDir: b.cfg.Fragments.ArticlesDir}
	for _, p := range b.cfg.Pages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := site.NewBody(b.fsys, layout, p.Title); err != nil {
			return report, err
		}
		report.Fragments++
	}

	if b.cfg.Bibliography != nil {
		lists, err := b.Lists()
		if err != nil {
			return report, err
		}
		for _, l := range lists {
			report.Citations[string(l.Classification())] = len(l.Tags())
		}
	}

	var existing []string
	for _, p := range b.cfg.Pages {
		existing = append(existing, filepath.Join(b.cfg.Resolve(p.Output), p.File))
	}
	if bib := b.cfg.Bibliography; bib != nil {
		existing = append(existing, filepath.Join(b.cfg.Resolve(bib.Raw.Output), bib.Raw.File))
	}
	for _, p := range existing {
		if _, err := os.Stat(p); err == nil {
			report.Verified = append(report.Verified, p)
		}
	}
	broken, err := b.verify(report.Verified)
	if err != nil {
		return report, err
	}
	report.BrokenLinks = broken
	return report, nil
}
