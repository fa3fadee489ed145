package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// RebuildFunc performs one rebuild. trigger names what caused it.
type RebuildFunc func(ctx context.Context, trigger string) error

// Runner serializes rebuilds: one runs at a time and at most one more is kept
// pending while it runs. Requests arriving during that window collapse into
// the pending one.
type Runner struct {
	rebuild RebuildFunc
	reqs    chan string
}

// NewRunner returns a Runner for fn.
func NewRunner(fn RebuildFunc) *Runner {
	return &Runner{rebuild: fn, reqs: make(chan string, 1)}
}

// Request asks for a rebuild without blocking.
func (r *Runner) Request(trigger string) {
	select {
	case r.reqs <- trigger:
	default:
	}
}

// Run executes requested rebuilds until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trigger := <-r.reqs:
			start := time.Now()
			if err := r.rebuild(ctx, trigger); err != nil {
				slog.Warn("Rebuild failed", slog.String("trigger", trigger), logfields.Error(err))
				continue
			}
			slog.Info("Rebuild finished",
				slog.String("trigger", trigger),
				logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		}
	}
}

// Debouncer delays a request until no further events arrive for the quiet
// window.
type Debouncer struct {
	quiet  time.Duration
	target func()

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer calls target once quiet has elapsed since the last Trigger.
// A non-positive window calls target immediately.
func NewDebouncer(quiet time.Duration, target func()) *Debouncer {
	return &Debouncer{quiet: quiet, target: target}
}

// Trigger records an event.
func (d *Debouncer) Trigger() {
	if d.quiet <= 0 {
		d.target()
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.target)
}

// Stop cancels a pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
