// Package watch rebuilds the site when its sources change and, optionally,
// on a cron schedule.
package watch

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides which changed paths trigger a rebuild. Paths are matched
// relative to Root with forward slashes.
type Filter struct {
	Root    string
	Include []string
	Exclude []string
	// Ignore lists absolute directories or files (generated outputs, the
	// ledger) that never trigger a rebuild.
	Ignore []string
}

// Match reports whether a change at path should trigger a rebuild.
func (f Filter) Match(path string) bool {
	if ignoredName(path) {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, ign := range f.Ignore {
		if within(abs, ign) {
			return false
		}
	}
	rel, err := filepath.Rel(f.Root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range f.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, pattern := range f.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// skipDir reports whether a directory should not be watched at all.
func (f Filter) skipDir(path string) bool {
	base := filepath.Base(path)
	if path != f.Root && strings.HasPrefix(base, ".") {
		return true
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	for _, ign := range f.Ignore {
		if within(abs, ign) {
			return true
		}
	}
	return false
}

func within(path, dir string) bool {
	dir = filepath.Clean(dir)
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// ignoredName filters hidden files and editor temp/swap files.
func ignoredName(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
