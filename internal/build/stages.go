package build

import (
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/bibtex"
	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/linkverify"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/references"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// references writes the citations article and the raw references page. Every
// classification is added, so lists absent from the manifest render empty.
func (b *Builder) references(logger *slog.Logger) ([]string, map[string]int, error) {
	bib := b.cfg.Bibliography
	lists, err := b.Lists()
	if err != nil {
		return nil, nil, err
	}
	pub, err := references.NewPublisher(b.fsys, b.citationsTarget(), references.Target{
		Template: bib.Raw.Template,
		Dir:      b.cfg.Resolve(bib.Raw.Output),
		File:     bib.Raw.File,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	counts := make(map[string]int, len(lists))
	for _, l := range lists {
		if err := pub.Add(l); err != nil {
			return nil, nil, err
		}
		counts[string(l.Classification())] = len(l.Tags())
	}
	paths, err := pub.Save()
	if err != nil {
		return nil, nil, err
	}
	return paths, counts, nil
}

// Lists loads the bibliography and cites every configured tag, one list per
// classification in references.All order.
func (b *Builder) Lists() ([]*references.List, error) {
	bib := b.cfg.Bibliography
	lib, err := bibtex.Load(b.fsys, bib.File)
	if err != nil {
		return nil, err
	}
	tags := make(map[references.Classification][]string, len(bib.Lists))
	for name, list := range bib.Lists {
		class, err := references.ParseClassification(name)
		if err != nil {
			return nil, err
		}
		tags[class] = append(tags[class], list...)
	}

	lists := make([]*references.List, 0, len(references.All()))
	for _, class := range references.All() {
		l := references.NewList(class, lib, bib.ReferencePath)
		if err := l.CiteAll(tags[class]); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, nil
}

func (b *Builder) citationsTarget() references.Target {
	bib := b.cfg.Bibliography
	return references.Target{
		Template: bib.Citations.Template,
		Dir:      b.cfg.Resolve(bib.Citations.Output),
		File:     bib.Citations.File,
	}
}

// page assembles one configured page and returns the written path.
func (b *Builder) page(p *config.PageConfig, logger *slog.Logger) (string, error) {
	layout := site.Layout{ArticlesDir: b.cfg.Fragments.ArticlesDir}
	body, err := site.NewBody(b.fsys, layout, p.Title)
	if err != nil {
		return "", err
	}
	if p.Reset {
		if err := body.Reset(); err != nil {
			return "", err
		}
	}
	for _, item := range p.Items {
		switch {
		case item.IsNavigation():
			body.AddNavigation(item.Name, item.Tag)
		case strings.EqualFold(filepath.Ext(item.File), ".md"):
			err = body.AddMarkdownArticle(item.File, item.Name, item.Tag)
		default:
			err = body.AddArticle(item.File, item.Name, item.Tag)
		}
		if err != nil {
			return "", err
		}
	}

	asm := site.Assembler{
		FS: b.fsys,
		Fragments: site.Fragments{
			Base:   b.cfg.Fragments.Base,
			Header: b.cfg.Fragments.Header,
			Footer: b.cfg.Fragments.Footer,
		},
		TitlePattern:       b.cfg.Site.PageTitle,
		DescriptionPattern: b.cfg.Site.PageDescription,
		Now:                b.now,
		Logger:             logger,
	}
	path, err := asm.Assemble(body, site.PageOptions{
		Dir:  b.cfg.Resolve(p.Output),
		File: p.File,
		Date: p.Date,
	})
	if err != nil {
		return "", err
	}
	logger.Info("Page written", logfields.Page(p.Title), logfields.Output(path))
	return path, nil
}

// verifyTargets drops the citations article: it is a fragment whose links
// only resolve once it is embedded in its page.
func (b *Builder) verifyTargets(paths []string) []string {
	skip := ""
	if b.cfg.Bibliography != nil {
		t := b.citationsTarget()
		skip = filepath.Join(t.Dir, t.File)
	}
	targets := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == skip || !strings.EqualFold(filepath.Ext(p), ".html") {
			continue
		}
		targets = append(targets, p)
	}
	return targets
}

func (b *Builder) verify(paths []string) ([]linkverify.BrokenLink, error) {
	return linkverify.NewVerifier().Verify(paths)
}
