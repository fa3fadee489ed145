package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID        = "build_id"
	KeyPage           = "page"
	KeyFragment       = "fragment"
	KeyToken          = "token"
	KeyTag            = "tag"
	KeyClassification = "classification"
	KeyOutput         = "output"
	KeyDurationMS     = "duration_ms"
	KeyCount          = "count"
	KeyError          = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Page(title string) slog.Attr       { return slog.String(KeyPage, title) }
func Fragment(name string) slog.Attr    { return slog.String(KeyFragment, name) }
func Token(name string) slog.Attr       { return slog.String(KeyToken, name) }
func Tag(tag string) slog.Attr          { return slog.String(KeyTag, tag) }
func Classification(c string) slog.Attr { return slog.String(KeyClassification, c) }
func Output(path string) slog.Attr      { return slog.String(KeyOutput, path) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
