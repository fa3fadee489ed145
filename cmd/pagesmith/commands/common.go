package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pagesmith/internal/build"
	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/ledger"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
	"git.home.luguber.info/inful/pagesmith/internal/notify"
)

// EnvLogLevel overrides the manifest log level.
const EnvLogLevel = "PAGESMITH_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	// Stdout receives user-facing summaries (default os.Stdout).
	Stdout io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Site manifest path" default:"pagesmith.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Write reference lists and every configured page"`
	Refs    RefsCmd    `cmd:"" help:"Write only the reference lists"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild whenever fragments, articles or the bibliography change"`
	Check   CheckCmd   `cmd:"" help:"Validate fragments, citations and generated links without writing"`
	Tokens  TokensCmd  `cmd:"" help:"List the tokens declared by fragment files"`
	Init    InitCmd    `cmd:"" help:"Write an example site manifest"`
	Publish PublishCmd `cmd:"" help:"Commit changed output repositories"`
	History HistoryCmd `cmd:"" help:"Show recent builds from the ledger"`
}

// AfterApply runs after flag parsing and sets up logging once. The manifest
// may refine the level and format later, see configureLogging.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if lvl, ok := envLevel(); ok {
		level = lvl
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	setLogger(g, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func envLevel() (slog.Level, bool) {
	v := os.Getenv(EnvLogLevel)
	if v == "" {
		return 0, false
	}
	return config.NormalizeLogLevel(v).SlogLevel(), true
}

func setLogger(g *Global, h slog.Handler) {
	logger := slog.New(h)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
}

// configureLogging applies the manifest's logging section. --verbose and
// PAGESMITH_LOG_LEVEL still win over the manifest level.
func configureLogging(g *Global, root *CLI, cfg *config.Config) {
	level := cfg.Logging.Level.SlogLevel()
	if lvl, ok := envLevel(); ok {
		level = lvl
	}
	if root.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == config.LogFormatJSON {
		setLogger(g, slog.NewJSONHandler(os.Stderr, opts))
		return
	}
	setLogger(g, slog.NewTextHandler(os.Stderr, opts))
}

func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	configureLogging(g, root, cfg)
	return cfg, nil
}

// session is a loaded manifest plus the collaborators a build reports to.
type session struct {
	cfg     *config.Config
	builder *build.Builder
	store   ledger.Store
	closers []func() error
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			slog.Warn("Failed to release resource", logfields.Error(err))
		}
	}
}

// openSession wires the ledger, metrics and notifier configured in the
// manifest into a Builder. A NATS server that cannot be reached only
// disables notifications.
func openSession(g *Global, root *CLI) (*session, error) {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg}
	opts := []build.Option{build.WithLogger(slog.Default())}

	if !cfg.Ledger.Disabled {
		store, err := ledger.Open(cfg.Resolve(cfg.Ledger.Path))
		if err != nil {
			return nil, err
		}
		s.store = store
		s.closers = append(s.closers, store.Close)
		opts = append(opts, build.WithLedger(store))
	}

	if cfg.Metrics.Textfile != "" {
		reg := prom.NewRegistry()
		opts = append(opts, build.WithRecorder(metrics.NewPrometheusRecorder(reg), reg))
	}

	notifier, err := notify.New(notify.Options{
		URL:     cfg.Notify.NATSURL,
		Subject: cfg.Notify.Subject,
		Retry:   cfg.Notify.RetryPolicy(),
	})
	if err != nil {
		slog.Warn("Build notifications disabled", logfields.Error(err))
		notifier = notify.Noop{}
	}
	s.closers = append(s.closers, notifier.Close)
	opts = append(opts, build.WithNotifier(notifier))

	s.builder = build.New(cfg, opts...)
	return s, nil
}
