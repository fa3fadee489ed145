// Package config loads the site manifest (pagesmith.yaml) that lists the
// pages to assemble, the bibliography to format and the optional build
// collaborators.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/retry"
)

// DefaultPath is the manifest file name looked up when none is given.
const DefaultPath = "pagesmith.yaml"

// Config is the site manifest.
type Config struct {
	BaseDir      string              `yaml:"base_dir"`
	Site         SiteConfig          `yaml:"site"`
	Fragments    FragmentsConfig     `yaml:"fragments"`
	Pages        []PageConfig        `yaml:"pages"`
	Bibliography *BibliographyConfig `yaml:"bibliography,omitempty"`
	Verify       *bool               `yaml:"verify,omitempty"`
	Ledger       LedgerConfig        `yaml:"ledger"`
	Metrics      MetricsConfig       `yaml:"metrics"`
	Notify       NotifyConfig        `yaml:"notify"`
	Publish      PublishConfig       `yaml:"publish"`
	Watch        WatchConfig         `yaml:"watch"`
	Logging      LoggingConfig       `yaml:"logging"`

	// path is the manifest file the config was loaded from.
	path string
}

// SiteConfig holds the title and description patterns. "{title}" is
// replaced by the page title.
type SiteConfig struct {
	PageTitle       string `yaml:"page_title"`
	PageDescription string `yaml:"page_description"`
}

// FragmentsConfig names the shared fragments, relative to the base dir.
type FragmentsConfig struct {
	Base        string `yaml:"base"`
	Header      string `yaml:"header"`
	Footer      string `yaml:"footer"`
	ArticlesDir string `yaml:"articles_dir"`
}

// PageConfig is one generated page.
type PageConfig struct {
	Title  string       `yaml:"title"`
	Output string       `yaml:"output"`
	File   string       `yaml:"file,omitempty"`
	Date   string       `yaml:"date,omitempty"`
	Reset  bool         `yaml:"reset,omitempty"`
	Items  []ItemConfig `yaml:"items"`
}

// ItemConfig is an article, or a navigation-only entry when File is empty.
type ItemConfig struct {
	File string `yaml:"file,omitempty"`
	Name string `yaml:"name,omitempty"`
	Tag  string `yaml:"tag,omitempty"`
}

// IsNavigation reports whether the item only adds a navigation link.
func (i ItemConfig) IsNavigation() bool { return i.File == "" }

// BibliographyConfig describes the reference pages.
type BibliographyConfig struct {
	File          string              `yaml:"file"`
	ReferencePath string              `yaml:"reference_path"`
	Citations     TargetConfig        `yaml:"citations"`
	Raw           TargetConfig        `yaml:"raw"`
	Lists         map[string][]string `yaml:"lists"`
}

// TargetConfig is a template and where its filled copy goes.
type TargetConfig struct {
	Template string `yaml:"template"`
	Output   string `yaml:"output"`
	File     string `yaml:"file"`
}

// LedgerConfig configures the SQLite build ledger.
type LedgerConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// MetricsConfig configures the Prometheus textfile export. Empty disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// NotifyConfig configures build event publication on NATS. An empty URL
// disables it.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
	// Retries is the number of publish attempts after the first failure.
	Retries int    `yaml:"retries,omitempty"`
	Backoff string `yaml:"backoff,omitempty"`
}

// RetryPolicy is the publish retry policy for notifications.
func (n NotifyConfig) RetryPolicy() retry.Policy {
	mode, err := retry.ParseMode(n.Backoff)
	if err != nil {
		mode = retry.ModeLinear
	}
	return retry.NewPolicy(mode, 0, 0, n.Retries)
}

// PublishConfig lists the output repositories committed by "publish".
type PublishConfig struct {
	Repositories []string `yaml:"repositories"`
	Author       string   `yaml:"author"`
	Email        string   `yaml:"email"`
	Message      string   `yaml:"message"`
}

// WatchConfig configures rebuild-on-change.
type WatchConfig struct {
	Include  []string `yaml:"include"`
	Exclude  []string `yaml:"exclude,omitempty"`
	Debounce string   `yaml:"debounce"`
	Schedule string   `yaml:"schedule,omitempty"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads, expands, defaults and validates the manifest at configPath.
// .env and .env.local next to the manifest are loaded first; variables
// already set in the environment win.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(filepath.Dir(configPath)); err != nil {
		slog.Debug("No .env file loaded", slog.String("error", err.Error()))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError(fmt.Sprintf("configuration file not found: %s", configPath)).
				WithContext("file", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("file", configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("file", configPath)
		}
		return nil, err
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		abs = configPath
	}
	cfg.path = abs
	return cfg, nil
}

// Parse expands ${VAR} references in data and decodes it strictly. Defaults
// are applied before validation.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config").
			Fatal().
			Build()
	}
	if err := NewDefaultApplier().ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the absolute manifest path, or "" for parsed configs.
func (c *Config) Path() string { return c.path }

// Root is the directory fragment names and relative outputs resolve against.
func (c *Config) Root() string {
	if filepath.IsAbs(c.BaseDir) {
		return c.BaseDir
	}
	dir := "."
	if c.path != "" {
		dir = filepath.Dir(c.path)
	}
	return filepath.Join(dir, c.BaseDir)
}

// Resolve returns p relative to Root unless it is absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root(), p)
}

// VerifyLinks reports whether generated pages are link-checked.
func (c *Config) VerifyLinks() bool {
	return c.Verify == nil || *c.Verify
}

// DebounceDuration parses Watch.Debounce. Validation has already checked it.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return defaultDebounce
	}
	return d
}

// Init writes an example manifest to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("file", configPath).
			Build()
	}

	verify := true
	example := Config{
		BaseDir: ".",
		Site: SiteConfig{
			PageTitle:       "{title} page of Jane Doe",
			PageDescription: "Personal webpage of Jane Doe - {title} page",
		},
		Fragments: FragmentsConfig{
			Base:        defaultBaseFragment,
			Header:      defaultHeaderFragment,
			Footer:      defaultFooterFragment,
			ArticlesDir: defaultArticlesDir,
		},
		Pages: []PageConfig{
			{
				Title:  "Home",
				Output: "../Homepage",
				Items: []ItemConfig{
					{File: "aboutme.html", Name: "About me", Tag: "aboutme"},
					{File: "news.md"},
				},
			},
			{
				Title:  "Research",
				Output: "../Homepage/research",
				Items: []ItemConfig{
					{File: "publications.html", Name: "Publications", Tag: "publications"},
					{Name: "Home", Tag: "#../index.html"},
				},
			},
		},
		Bibliography: &BibliographyConfig{
			File:          defaultBibFile,
			ReferencePath: "content/references.html",
			Citations:     TargetConfig{Template: "articles/research/references.html", Output: "articles/research", File: "publications.html"},
			Raw:           TargetConfig{Template: "articles/research/bibrefs.html", Output: "../Homepage/research/content", File: "references.html"},
			Lists: map[string][]string{
				"journal":    {"doe2024journal"},
				"conference": {"doe2023conference"},
			},
		},
		Verify:  &verify,
		Ledger:  LedgerConfig{Path: defaultLedgerPath},
		Notify:  NotifyConfig{NATSURL: "${PAGESMITH_NATS_URL}", Subject: defaultNotifySubject, Retries: 2, Backoff: "linear"},
		Publish: PublishConfig{Repositories: []string{"../Homepage"}, Author: "Jane Doe", Email: "jane@example.org", Message: defaultCommitMessage},
		Watch:   WatchConfig{Include: defaultWatchInclude(), Debounce: defaultDebounce.String()},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Fatal().Build()
	}
	// #nosec G306 -- the manifest is not secret.
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.FileSystemError(err, "failed to write config file").
			Fatal().
			WithContext("file", configPath).
			Build()
	}
	return nil
}
