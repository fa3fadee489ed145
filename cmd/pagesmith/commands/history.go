package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/ledger"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit  int    `short:"n" help:"Number of builds to show" default:"10"`
	Events string `help:"Show the event log of one build ID instead"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if cfg.Ledger.Disabled {
		return errors.ConfigError("the build ledger is disabled").WithContext("field", "ledger.disabled").Build()
	}
	store, err := ledger.Open(cfg.Resolve(cfg.Ledger.Path))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	tw := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	if h.Events != "" {
		events, err := store.Events(ctx, h.Events)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(tw, "TIME\tEVENT\tPAYLOAD")
		for _, e := range events {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Timestamp.Format(time.RFC3339), e.Type, e.Payload)
		}
		return nil
	}

	builds, err := store.Recent(ctx, h.Limit)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tTRIGGER\tOUTCOME\tPAGES\tCITATIONS\tDURATION")
	for _, b := range builds {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			b.ID, b.Started.Format(time.RFC3339), b.Trigger, b.Outcome,
			b.Pages, b.Citations, b.Duration().Round(time.Millisecond))
	}
	return nil
}
