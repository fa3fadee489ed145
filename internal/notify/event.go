// Package notify publishes build results to NATS so other services (a
// deploy hook, a chat bot) can react to site rebuilds.
package notify

import "time"

// BuildEvent is published after every build, successful or not.
type BuildEvent struct {
	BuildID     string    `json:"build_id"`
	Trigger     string    `json:"trigger"`
	Outcome     string    `json:"outcome"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	DurationMS  int64     `json:"duration_ms"`
	Outputs     []string  `json:"outputs,omitempty"`
	Changed     []string  `json:"changed,omitempty"`
	Citations   int       `json:"citations"`
	BrokenLinks []string  `json:"broken_links,omitempty"`
	Error       string    `json:"error,omitempty"`
}
