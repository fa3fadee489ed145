package commands

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/pagesmith/internal/build"
	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Schedule string `help:"Also rebuild on this cron schedule (overrides watch.schedule)"`
	NoVerify bool   `name:"no-verify" help:"Skip link verification of the written pages"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(g, root)
	if err != nil {
		return err
	}
	defer s.Close()

	schedule := s.cfg.Watch.Schedule
	if w.Schedule != "" {
		schedule = w.Schedule
	}

	watcher, err := watch.New(watch.Options{
		Filter:   watchFilter(s.cfg),
		Debounce: s.cfg.DebounceDuration(),
		Schedule: schedule,
		Initial:  true,
	}, func(ctx context.Context, trigger string) error {
		report, err := s.builder.Run(ctx, build.Request{Trigger: trigger, NoVerify: w.NoVerify})
		if err == nil {
			printReport(g.out(), report)
		}
		return err
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return watcher.Run(ctx)
}

// watchFilter ignores every file a build writes, so a build never triggers
// the next one. The citations article lives among the sources.
func watchFilter(cfg *config.Config) watch.Filter {
	var ignore []string
	for _, p := range cfg.Pages {
		ignore = append(ignore, filepath.Join(cfg.Resolve(p.Output), p.File))
	}
	if bib := cfg.Bibliography; bib != nil {
		ignore = append(ignore,
			filepath.Join(cfg.Resolve(bib.Citations.Output), bib.Citations.File),
			filepath.Join(cfg.Resolve(bib.Raw.Output), bib.Raw.File))
	}
	if cfg.Metrics.Textfile != "" {
		ignore = append(ignore, cfg.Resolve(cfg.Metrics.Textfile))
	}
	if !cfg.Ledger.Disabled {
		db := cfg.Resolve(cfg.Ledger.Path)
		ignore = append(ignore, db, db+"-journal", db+"-wal", db+"-shm")
	}
	for i, p := range ignore {
		if abs, err := filepath.Abs(p); err == nil {
			ignore[i] = abs
		}
	}
	root, err := filepath.Abs(cfg.Root())
	if err != nil {
		root = cfg.Root()
	}
	return watch.Filter{
		Root:    root,
		Include: cfg.Watch.Include,
		Exclude: cfg.Watch.Exclude,
		Ignore:  ignore,
	}
}
