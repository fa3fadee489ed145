package fragment

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// Variant names the role a document plays. All variants share one Document type;
// the site package adds construction logic per variant.
type Variant string

const (
	Plain      Variant = "plain"
	Base       Variant = "base"
	Header     Variant = "header"
	Footer     Variant = "footer"
	Body       Variant = "body"
	Article    Variant = "article"
	References Variant = "references"
)

var commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

// Document is a template buffer plus the tokens it declared when created.
type Document struct {
	variant  Variant
	source   string
	content  string
	declared []string
	known    map[string]struct{}
}

// New creates a document from an in-memory buffer. source is used in errors and logs.
func New(source, text string, variant Variant) (*Document, error) {
	names, err := extract(source, text)
	if err != nil {
		return nil, err
	}
	declared := unique(names)
	known := make(map[string]struct{}, len(declared))
	for _, n := range declared {
		known[n] = struct{}{}
	}
	return &Document{
		variant:  variant,
		source:   source,
		content:  text,
		declared: declared,
		known:    known,
	}, nil
}

// Load reads name from fsys. Paths are resolved against whatever base the caller
// rooted fsys at; a missing or unreadable file is reported as errors.ErrNotFound.
func Load(fsys fs.FS, name string, variant Variant) (*Document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.NotFoundError(err, fmt.Sprintf("read %s fragment %s", variant, name)).
			WithContext(logfields.KeyFragment, name).
			Build()
	}
	return New(name, string(data), variant)
}

// Variant reports the document's role.
func (d *Document) Variant() Variant { return d.variant }

// Source is the fragment path or in-memory name the document was created from.
func (d *Document) Source() string { return d.source }

// Content returns the current buffer without cleanup or validation.
func (d *Document) Content() string { return d.content }

// Tokens returns the declared token names in order of first appearance.
func (d *Document) Tokens() []string {
	return append([]string(nil), d.declared...)
}

// Declares reports whether token was present when the document was created.
func (d *Document) Declares(token string) bool {
	_, ok := d.known[token]
	return ok
}

// Replace substitutes text for every occurrence of token in the current buffer.
func (d *Document) Replace(token, text string) error {
	if !d.Declares(token) {
		return errors.TemplateError(errors.ErrUnknownToken,
			fmt.Sprintf("replace unknown token %q in %s", token, d.source)).
			WithContext(logfields.KeyToken, token).
			WithContext(logfields.KeyFragment, d.source).
			Build()
	}
	d.content = strings.ReplaceAll(d.content, Delimit(token), text)
	return nil
}

// Reset discards the buffer, leaving only the declared token unresolved.
func (d *Document) Reset(token string) error {
	if !d.Declares(token) {
		return errors.TemplateError(errors.ErrUnknownToken,
			fmt.Sprintf("reset to unknown token %q in %s", token, d.source)).
			WithContext(logfields.KeyToken, token).
			WithContext(logfields.KeyFragment, d.source).
			Build()
	}
	d.content = Delimit(token)
	return nil
}

// Pending returns the distinct tokens still present in the current buffer.
func (d *Document) Pending() ([]string, error) {
	names, err := extract(d.source, d.content)
	if err != nil {
		return nil, err
	}
	return unique(names), nil
}

// Cleanup removes HTML comments and whitespace-only lines at both ends, leaving
// exactly one trailing newline. Applying it twice equals applying it once.
func (d *Document) Cleanup() {
	for {
		next := commentPattern.ReplaceAllString(d.content, "")
		if next == d.content {
			break
		}
		d.content = next
	}

	lines := strings.Split(d.content, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	d.content = strings.Join(lines[start:end], "\n") + "\n"
}

// Finalize cleans the buffer and returns it, failing when tokens remain.
func (d *Document) Finalize() (string, error) {
	d.Cleanup()
	remaining, err := d.Pending()
	if err != nil {
		return "", err
	}
	if len(remaining) > 0 {
		return "", errors.TemplateError(errors.ErrIncompleteTemplate,
			fmt.Sprintf("%s has unresolved tokens: %s", d.source, strings.Join(remaining, ", "))).
			WithContext(logfields.KeyFragment, d.source).
			WithContext("tokens", remaining).
			Build()
	}
	return d.content, nil
}

// Save finalizes the document and writes it to dir/filename, creating dir when
// needed. The file is replaced atomically, so a failed run leaves the previous
// output in place. It returns the written path.
func (d *Document) Save(dir, filename string) (string, error) {
	text, err := d.Finalize()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.FileSystemError(err, fmt.Sprintf("create output directory %s", dir)).
			Fatal().
			WithContext(logfields.KeyOutput, dir).
			Build()
	}
	path := filepath.Join(dir, filename)
	if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
		return "", errors.FileSystemError(err, fmt.Sprintf("write %s", path)).
			Fatal().
			WithContext(logfields.KeyOutput, path).
			Build()
	}
	// #nosec G302 -- generated pages are published as-is.
	if err := os.Chmod(path, 0o644); err != nil {
		return "", errors.FileSystemError(err, fmt.Sprintf("chmod %s", path)).
			Fatal().
			WithContext(logfields.KeyOutput, path).
			Build()
	}
	return path, nil
}
