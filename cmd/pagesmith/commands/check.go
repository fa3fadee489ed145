package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/pagesmith/internal/build"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	report, err := build.New(cfg).Check(context.Background())
	if err != nil {
		return err
	}

	w := g.out()
	_, _ = fmt.Fprintf(w, "%d fragments parsed\n", report.Fragments)
	for class, n := range report.Citations {
		if n > 0 {
			_, _ = fmt.Fprintf(w, "%s: %d citations\n", class, n)
		}
	}
	_, _ = fmt.Fprintf(w, "%d generated pages verified\n", len(report.Verified))
	if len(report.BrokenLinks) == 0 {
		return nil
	}
	for _, bl := range report.BrokenLinks {
		_, _ = fmt.Fprintf(w, "  %s\n", bl)
	}
	return errors.ValidationError(fmt.Sprintf("%d broken links", len(report.BrokenLinks))).
		WithContext("broken_links", len(report.BrokenLinks)).
		Build()
}
