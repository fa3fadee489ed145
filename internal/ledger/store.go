package ledger

import (
	"context"
	"time"

	"github.com/inful/mdfp"
)

// Outcome is how a build ended.
type Outcome string

const (
	OutcomeRunning Outcome = "running"
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Build is one row of build history.
type Build struct {
	ID        string
	Trigger   string
	Started   time.Time
	Finished  time.Time
	Outcome   Outcome
	Pages     int
	Citations int
	Error     string
}

// Duration is zero for a build that has not finished.
func (b Build) Duration() time.Duration {
	if b.Finished.IsZero() {
		return 0
	}
	return b.Finished.Sub(b.Started)
}

// Output is a file written by a build.
type Output struct {
	Path        string
	Fingerprint string
	Changed     bool
}

// Fingerprint hashes generated content with the same function used for
// Markdown frontmatter fingerprints.
func Fingerprint(content string) string {
	return mdfp.CalculateFingerprintFromParts("", content)
}

// Store persists builds, outputs and events.
type Store interface {
	// StartBuild records a running build.
	StartBuild(ctx context.Context, b Build) error
	// FinishBuild stores the final state of a build started with StartBuild.
	FinishBuild(ctx context.Context, b Build) error
	// RecordOutputs stores the outputs of a build. Changed is computed
	// against the last recorded fingerprint of each path.
	RecordOutputs(ctx context.Context, buildID string, outputs []Output) ([]Output, error)
	// Append adds an event to the log.
	Append(ctx context.Context, e Event) error
	// Recent returns the latest builds, newest first.
	Recent(ctx context.Context, limit int) ([]Build, error)
	// Outputs returns what a build wrote.
	Outputs(ctx context.Context, buildID string) ([]Output, error)
	// Events returns a build's event log in order.
	Events(ctx context.Context, buildID string) ([]Event, error)
	// Close releases the database.
	Close() error
}
