package fragment

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// Delimiter brackets a token name on both sides.
const Delimiter = "$$$"

var tokenPattern = regexp.MustCompile(`(?s)\$\$\$(.*?)\$\$\$`)

// Delimit wraps name in delimiters, producing the literal text a template contains.
func Delimit(name string) string {
	return Delimiter + name + Delimiter
}

// Extract returns every token name in text, in document order with duplicates.
// An odd number of delimiters is reported as errors.ErrMalformedTemplate.
func Extract(text string) ([]string, error) {
	return extract("", text)
}

func extract(source, text string) ([]string, error) {
	if n := strings.Count(text, Delimiter); n%2 != 0 {
		msg := fmt.Sprintf("odd number of %q delimiters (%d)", Delimiter, n)
		if source != "" {
			msg = source + ": " + msg
		}
		b := errors.TemplateError(errors.ErrMalformedTemplate, msg).WithContext("delimiters", n)
		if source != "" {
			b = b.WithContext(logfields.KeyFragment, source)
		}
		return nil, b.Build()
	}
	matches := tokenPattern.FindAllStringSubmatch(text, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names, nil
}

// unique drops repeated names, keeping first appearance.
func unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
