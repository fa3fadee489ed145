package commands

import (
	"fmt"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/publish"
)

// PublishCmd implements the 'publish' command.
type PublishCmd struct {
	Message string `short:"m" help:"Commit message (default from the manifest)"`
}

func (p *PublishCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if len(cfg.Publish.Repositories) == 0 {
		return errors.ConfigError("no publish.repositories configured").
			WithContext("field", "publish.repositories").
			Build()
	}
	repos := make([]string, len(cfg.Publish.Repositories))
	for i, r := range cfg.Publish.Repositories {
		repos[i] = cfg.Resolve(r)
	}
	msg := cfg.Publish.Message
	if p.Message != "" {
		msg = p.Message
	}

	results, err := publish.Commit(repos, publish.Options{
		Author:  cfg.Publish.Author,
		Email:   cfg.Publish.Email,
		Message: msg,
	})
	w := g.out()
	for _, r := range results {
		if r.Skipped {
			_, _ = fmt.Fprintf(w, "%s: up to date\n", r.Path)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s: committed %d changes as %s\n", r.Path, r.Changed, r.Commit[:8])
	}
	return err
}
