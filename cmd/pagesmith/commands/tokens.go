package commands

import (
	"fmt"
	"os"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/fragment"
)

// TokensCmd implements the 'tokens' command.
type TokensCmd struct {
	Files []string `arg:"" name:"file" help:"Fragment files to inspect"`
}

func (t *TokensCmd) Run(g *Global, _ *CLI) error {
	w := g.out()
	for _, f := range t.Files {
		data, err := os.ReadFile(f)
		if err != nil {
			return errors.NotFoundError(err, fmt.Sprintf("read %s", f)).WithContext("file", f).Build()
		}
		tokens, err := fragment.Extract(string(data))
		if err != nil {
			return errors.WrapError(err, errors.CategoryTemplate, f).WithContext("file", f).Build()
		}
		_, _ = fmt.Fprintf(w, "%s: %s\n", f, strings.Join(tokens, " "))
	}
	return nil
}
