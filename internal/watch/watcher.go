package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// Trigger names passed to the RebuildFunc.
const (
	TriggerInitial  = "initial"
	TriggerChange   = "change"
	TriggerSchedule = "schedule"
)

// Options configure a Watcher.
type Options struct {
	Filter   Filter
	Debounce time.Duration
	// Schedule is an optional standard five-field cron expression.
	Schedule string
	// Initial runs one rebuild before waiting for changes.
	Initial bool
}

// Watcher ties filesystem notifications and an optional cron schedule to a
// Runner.
type Watcher struct {
	opts     Options
	runner   *Runner
	debounce *Debouncer
	fsw      *fsnotify.Watcher
	sched    gocron.Scheduler
}

// New watches opts.Filter.Root recursively.
func New(opts Options, rebuild RebuildFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.FileSystemError(err, "failed to create file watcher").Build()
	}
	w := &Watcher{opts: opts, runner: NewRunner(rebuild), fsw: fsw}
	w.debounce = NewDebouncer(opts.Debounce, func() { w.runner.Request(TriggerChange) })

	if err := w.addDirs(opts.Filter.Root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	if opts.Schedule != "" {
		if err := w.setupSchedule(); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) setupSchedule() error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to create scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.CronJob(w.opts.Schedule, false),
		gocron.NewTask(func() { w.runner.Request(TriggerSchedule) }),
		gocron.WithName("scheduled-rebuild"),
	)
	if err != nil {
		_ = s.Shutdown()
		return errors.WrapError(err, errors.CategoryConfig, "invalid rebuild schedule").
			WithContext("schedule", w.opts.Schedule).
			Build()
	}
	w.sched = s
	return nil
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.debounce.Stop()
		_ = w.fsw.Close()
	}()

	go w.runner.Run(ctx)

	if w.sched != nil {
		w.sched.Start()
		slog.Info("Scheduled rebuilds enabled", slog.String("schedule", w.opts.Schedule))
		defer func() {
			if err := w.sched.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}
	if w.opts.Initial {
		w.runner.Request(TriggerInitial)
	}

	slog.Info("Watching for changes", slog.String("root", w.opts.Filter.Root))
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.addDirs(ev.Name); err != nil {
				slog.Warn("Failed to watch new directory", slog.String("dir", ev.Name), logfields.Error(err))
			}
			return
		}
	}
	if ev.Op == fsnotify.Chmod || !w.opts.Filter.Match(ev.Name) {
		return
	}
	slog.Debug("File change detected", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
	w.debounce.Trigger()
}

func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.FileSystemError(err, "cannot watch directory").
					WithContext("dir", root).
					Build()
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.opts.Filter.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			slog.Warn("Watch add failed", slog.String("dir", path), logfields.Error(err))
		}
		return nil
	})
}
