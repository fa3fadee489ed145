package site

import "strings"

// EscapeMarker prefixes navigation tags that are used verbatim as link targets.
const EscapeMarker = "#"

// NavEntry is one navigation link: a display name and a tag.
type NavEntry struct {
	Name string
	Tag  string
}

// Href returns the link target. A tag starting with EscapeMarker is passed
// through without the marker; any other tag becomes an in-page anchor.
func (e NavEntry) Href() string {
	if strings.HasPrefix(e.Tag, EscapeMarker) {
		return strings.TrimPrefix(e.Tag, EscapeMarker)
	}
	return EscapeMarker + e.Tag
}

// render produces the anchor element appended to the header's item list.
func (e NavEntry) render() string {
	return `<span><a href="` + e.Href() + `" style="font-style: italic;">` + e.Name + "</a></span>\n"
}
