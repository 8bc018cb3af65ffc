// Package routepath stores canonical HTTP paths for site pages.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root            = "/"
	Health          = "/up"
	NotesPrefix     = "/notes/"
	NotePattern     = NotesPrefix + "{slug}"
	TalksPrefix     = "/talks/"
	ProjectsPrefix  = "/projects/"
	TagPrefix       = "/tag/"
	TagPattern      = TagPrefix + "{id}"
	RSS             = "/rss.xml"
	Support         = "/support"
	StaticPrefix    = "/static/"
	AuthorPhotoPath = StaticPrefix + "photo.svg"
	StylesheetPath  = StaticPrefix + "site.css"
)

// Note returns the page path of a note slug.
func Note(slug string) string {
	return NotesPrefix + url.PathEscape(strings.TrimSpace(slug))
}

// Tag returns the page path of a tag.
func Tag(id string) string {
	return TagPrefix + url.PathEscape(strings.TrimSpace(id))
}

// IsMainPage reports whether path is the site root.
func IsMainPage(path string) bool {
	path = strings.TrimSpace(path)
	return path == "" || path == Root
}
