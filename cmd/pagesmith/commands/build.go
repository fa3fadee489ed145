package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/build"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SkipRefs bool `name:"skip-refs" help:"Reuse the reference pages written by the previous build"`
	NoVerify bool `name:"no-verify" help:"Skip link verification of the written pages"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	return runBuild(g, root, build.Request{
		Trigger:        "cli",
		SkipReferences: b.SkipRefs,
		NoVerify:       b.NoVerify,
	})
}

// RefsCmd implements the 'refs' command.
type RefsCmd struct{}

func (r *RefsCmd) Run(g *Global, root *CLI) error {
	return runBuild(g, root, build.Request{Trigger: "cli", ReferencesOnly: true, NoVerify: true})
}

func runBuild(g *Global, root *CLI, req build.Request) error {
	s, err := openSession(g, root)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := s.builder.Run(ctx, req)
	if err != nil {
		return err
	}
	printReport(g.out(), report)
	return nil
}

func printReport(w io.Writer, r *build.Report) {
	_, _ = fmt.Fprintf(w, "Build %s: %d files written (%d changed), %d pages, %d citations in %s\n",
		r.BuildID[:8], len(r.Outputs), len(r.Changed()), r.Pages, r.TotalCitations(), r.Duration().Round(time.Millisecond))
	for _, p := range r.Changed() {
		_, _ = fmt.Fprintf(w, "  %s\n", p)
	}
	if len(r.BrokenLinks) > 0 {
		_, _ = fmt.Fprintf(w, "%d broken links:\n", len(r.BrokenLinks))
		for _, bl := range r.BrokenLinks {
			_, _ = fmt.Fprintf(w, "  %s\n", bl)
		}
	}
}
