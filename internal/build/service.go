package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/ledger"
	"git.home.luguber.info/inful/pagesmith/internal/linkverify"
)

// Service is the entry point used by the CLI and the watcher.
type Service interface {
	Run(ctx context.Context, req Request) (*Report, error)
}

// Request selects the stages of one build.
type Request struct {
	// Trigger names what started the build (cli, change, schedule).
	Trigger string
	// SkipReferences reuses the previously written reference pages.
	SkipReferences bool
	// ReferencesOnly stops after the reference pages are written.
	ReferencesOnly bool
	// NoVerify disables link verification for this build.
	NoVerify bool
}

// Status is the outcome of a build.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Report describes a finished build.
type Report struct {
	BuildID     string
	Trigger     string
	Status      Status
	Started     time.Time
	Finished    time.Time
	Outputs     []ledger.Output
	Pages       int
	Citations   map[string]int
	BrokenLinks []linkverify.BrokenLink
	Err         error
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// TotalCitations sums the citations of every list.
func (r *Report) TotalCitations() int {
	n := 0
	for _, c := range r.Citations {
		n += c
	}
	return n
}

// Paths lists the written files in build order.
func (r *Report) Paths() []string {
	paths := make([]string, len(r.Outputs))
	for i, o := range r.Outputs {
		paths[i] = o.Path
	}
	return paths
}

// Changed lists written files whose content differs from the last build.
func (r *Report) Changed() []string {
	var paths []string
	for _, o := range r.Outputs {
		if o.Changed {
			paths = append(paths, o.Path)
		}
	}
	return paths
}
