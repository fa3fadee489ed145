package build

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/ledger"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
	"git.home.luguber.info/inful/pagesmith/internal/notify"
)

// Builder is the standard Service implementation.
type Builder struct {
	cfg      *config.Config
	fsys     fs.FS
	store    ledger.Store
	recorder metrics.Recorder
	gatherer prom.Gatherer
	notifier notify.Notifier
	now      func() time.Time
	logger   *slog.Logger
}

// Option customizes a Builder.
type Option func(*Builder)

// WithFS replaces the fragment filesystem (default os.DirFS(cfg.Root())).
func WithFS(fsys fs.FS) Option { return func(b *Builder) { b.fsys = fsys } }

// WithLedger records builds in store.
func WithLedger(store ledger.Store) Option { return func(b *Builder) { b.store = store } }

// WithRecorder counts builds with rec. When g is non-nil and the manifest
// names a textfile, g is exported there after every build.
func WithRecorder(rec metrics.Recorder, g prom.Gatherer) Option {
	return func(b *Builder) {
		b.recorder = rec
		b.gatherer = g
	}
}

// WithNotifier announces finished builds.
func WithNotifier(n notify.Notifier) Option { return func(b *Builder) { b.notifier = n } }

// WithClock fixes the time used for footers and the ledger.
func WithClock(now func() time.Time) Option { return func(b *Builder) { b.now = now } }

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option { return func(b *Builder) { b.logger = l } }

// New returns a Builder for cfg.
func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		notifier: notify.Noop{},
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.fsys == nil {
		b.fsys = os.DirFS(cfg.Root())
	}
	return b
}

// Run executes one build. The returned report is non-nil even on failure.
func (b *Builder) Run(ctx context.Context, req Request) (*Report, error) {
	if req.Trigger == "" {
		req.Trigger = "cli"
	}
	report := &Report{
		BuildID:   uuid.NewString(),
		Trigger:   req.Trigger,
		Started:   b.now(),
		Citations: map[string]int{},
	}
	logger := b.logger.With(logfields.BuildID(report.BuildID))
	logger.Info("Build started", slog.String("trigger", req.Trigger))

	b.startLedger(ctx, report, logger)

	err := b.run(ctx, req, report, logger)
	b.finish(ctx, report, err, logger)
	return report, err
}

func (b *Builder) run(ctx context.Context, req Request, report *Report, logger *slog.Logger) error {
	if !req.SkipReferences && b.cfg.Bibliography != nil {
		err := b.stage(ctx, "references", func() error {
			paths, counts, err := b.references(logger)
			if err != nil {
				return err
			}
			report.Citations = counts
			b.appendEvent(ctx, report.BuildID, ledger.EventReferencesWritten,
				map[string]any{"outputs": paths, "citations": counts}, logger)
			return b.recordOutputs(ctx, report, paths, logger)
		})
		if err != nil {
			return err
		}
	}
	if req.ReferencesOnly {
		return nil
	}

	var pages []string
	err := b.stage(ctx, "pages", func() error {
		for i := range b.cfg.Pages {
			if err := ctx.Err(); err != nil {
				return err
			}
			page := &b.cfg.Pages[i]
			path, err := b.page(page, logger)
			if err != nil {
				return err
			}
			pages = append(pages, path)
			report.Pages++
			b.appendEvent(ctx, report.BuildID, ledger.EventPageWritten,
				map[string]string{"title": page.Title, "output": path}, logger)
			if err := b.recordOutputs(ctx, report, []string{path}, logger); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if req.NoVerify || !b.cfg.VerifyLinks() {
		b.recorder.IncStageResult("verify", metrics.ResultSkipped)
		return nil
	}
	return b.stage(ctx, "verify", func() error {
		broken, err := b.verify(b.verifyTargets(report.Paths()))
		if err != nil {
			return err
		}
		report.BrokenLinks = broken
		for _, bl := range broken {
			logger.Warn("Broken link", logfields.Output(bl.Page),
				slog.String("url", bl.URL), slog.String("reason", string(bl.Reason)))
		}
		return nil
	})
}

// stage times fn and counts its result.
func (b *Builder) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	b.recorder.ObserveStageDuration(name, time.Since(start))
	if err != nil {
		b.recorder.IncStageResult(name, metrics.ResultFailed)
		return err
	}
	b.recorder.IncStageResult(name, metrics.ResultSuccess)
	return nil
}

func (b *Builder) recordOutputs(ctx context.Context, report *Report, paths []string, logger *slog.Logger) error {
	outputs := make([]ledger.Output, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return errors.FileSystemError(err, "failed to read written output").
				WithContext(logfields.KeyOutput, p).
				Build()
		}
		outputs = append(outputs, ledger.Output{Path: p, Fingerprint: ledger.Fingerprint(string(data)), Changed: true})
	}
	if b.store != nil {
		recorded, err := b.store.RecordOutputs(ctx, report.BuildID, outputs)
		if err != nil {
			logger.Warn("Failed to record outputs", logfields.Error(err))
		} else {
			outputs = recorded
		}
	}
	report.Outputs = append(report.Outputs, outputs...)
	return nil
}

func (b *Builder) startLedger(ctx context.Context, report *Report, logger *slog.Logger) {
	if b.store == nil {
		return
	}
	err := b.store.StartBuild(ctx, ledger.Build{
		ID:      report.BuildID,
		Trigger: report.Trigger,
		Started: report.Started,
		Outcome: ledger.OutcomeRunning,
	})
	if err != nil {
		logger.Warn("Failed to record build start", logfields.Error(err))
		return
	}
	b.appendEvent(ctx, report.BuildID, ledger.EventBuildStarted, map[string]string{"trigger": report.Trigger}, logger)
}

func (b *Builder) appendEvent(ctx context.Context, buildID, eventType string, payload any, logger *slog.Logger) {
	if b.store == nil {
		return
	}
	ev, err := ledger.NewEvent(buildID, eventType, payload)
	if err == nil {
		err = b.store.Append(ctx, ev)
	}
	if err != nil {
		logger.Warn("Failed to append build event", slog.String("event_type", eventType), logfields.Error(err))
	}
}

// finish records the outcome everywhere. Failures of the ledger, the
// textfile export or the notifier are logged and never fail the build.
func (b *Builder) finish(ctx context.Context, report *Report, err error, logger *slog.Logger) {
	report.Finished = b.now()
	report.Err = err

	outcome := metrics.BuildOutcomeSuccess
	switch {
	case err == nil:
		report.Status = StatusSuccess
	case stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded):
		report.Status = StatusCanceled
		outcome = metrics.BuildOutcomeCanceled
	default:
		report.Status = StatusFailed
		outcome = metrics.BuildOutcomeFailed
	}

	b.recorder.IncBuildOutcome(outcome)
	b.recorder.ObserveBuildDuration(report.Duration())
	b.recorder.AddPagesWritten(report.Pages)
	for class, n := range report.Citations {
		b.recorder.AddCitations(class, n)
	}
	b.recorder.SetLastBuild(report.Finished)
	if b.gatherer != nil {
		if werr := metrics.WriteTextfile(b.gatherer, b.cfg.Resolve(b.cfg.Metrics.Textfile)); werr != nil {
			logger.Warn("Failed to write metrics textfile", logfields.Error(werr))
		}
	}

	// The ledger and the notifier must still hear about canceled builds.
	bg := context.WithoutCancel(ctx)
	if b.store != nil {
		errText := ""
		if err != nil {
			errText = err.Error()
		}
		ledgerOutcome := ledger.OutcomeSuccess
		if err != nil {
			ledgerOutcome = ledger.OutcomeFailed
		}
		b.appendEvent(bg, report.BuildID, ledger.EventBuildFinished,
			map[string]string{"outcome": string(report.Status), "error": errText}, logger)
		ferr := b.store.FinishBuild(bg, ledger.Build{
			ID:        report.BuildID,
			Trigger:   report.Trigger,
			Started:   report.Started,
			Finished:  report.Finished,
			Outcome:   ledgerOutcome,
			Pages:     report.Pages,
			Citations: report.TotalCitations(),
			Error:     errText,
		})
		if ferr != nil {
			logger.Warn("Failed to record build result", logfields.Error(ferr))
		}
	}

	if nerr := b.notifier.Publish(bg, buildEvent(report)); nerr != nil {
		logger.Warn("Failed to publish build event", logfields.Error(nerr))
	}

	if err != nil {
		logger.Error("Build failed", slog.String("status", string(report.Status)), logfields.Error(err))
		return
	}
	logger.Info("Build finished",
		logfields.Count(len(report.Outputs)),
		slog.Int("changed", len(report.Changed())),
		slog.Int("broken_links", len(report.BrokenLinks)),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))
}

func buildEvent(r *Report) notify.BuildEvent {
	ev := notify.BuildEvent{
		BuildID:    r.BuildID,
		Trigger:    r.Trigger,
		Outcome:    string(r.Status),
		StartedAt:  r.Started,
		FinishedAt: r.Finished,
		DurationMS: r.Duration().Milliseconds(),
		Outputs:    r.Paths(),
		Changed:    r.Changed(),
		Citations:  r.TotalCitations(),
	}
	for _, bl := range r.BrokenLinks {
		ev.BrokenLinks = append(ev.BrokenLinks, bl.String())
	}
	if r.Err != nil {
		ev.Error = r.Err.Error()
	}
	return ev
}
