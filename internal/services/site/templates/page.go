// Package templates renders the site's HTML views as templ components.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

import (
	"strings"

	"github.com/louisbranch/notebook/internal/platform/collection"
	"github.com/louisbranch/notebook/internal/services/shared/i18nhttp"
	"github.com/louisbranch/notebook/internal/services/site/content"
	"github.com/louisbranch/notebook/internal/services/site/feedback"
	"github.com/louisbranch/notebook/internal/services/site/routepath"
	"golang.org/x/text/message"
)

// Page carries the request-scoped values every view needs.
type Page struct {
	Title       string
	Description string
	Path        string
	Lang        string
	SiteName    string
	AuthorName  string
	Languages   []i18nhttp.LanguageOption
	Printer     *message.Printer
}

func (p Page) sprintf(key string, args ...any) string {
	if p.Printer == nil {
		return key
	}
	return p.Printer.Sprintf(key, args...)
}

func (p Page) lang() string {
	if p.Lang == "" {
		return "en"
	}
	return p.Lang
}

func (p Page) description() string {
	if p.Description == "" {
		return p.sprintf("site.description")
	}
	return p.Description
}

// localizer avoids handing feedback a typed nil printer.
func (p Page) localizer() feedback.Localizer {
	if p.Printer == nil {
		return nil
	}
	return p.Printer
}

// ComposePageTitle appends the site name to a page title.
func ComposePageTitle(title, siteName string) string {
	title = strings.TrimSpace(title)
	siteName = strings.TrimSpace(siteName)
	switch {
	case title == "":
		return siteName
	case siteName == "" || title == siteName || strings.HasSuffix(title, " | "+siteName):
		return title
	default:
		return title + " | " + siteName
	}
}

type navItem struct {
	url string
	key string
}

var navItems = []navItem{
	{routepath.NotesPrefix, "site.nav_notes"},
	{routepath.TalksPrefix, "site.nav_talks"},
	{routepath.ProjectsPrefix, "site.nav_projects"},
	{routepath.RSS, "site.nav_rss"},
}

func errorKeys(notFound bool) (title, body string) {
	if notFound {
		return "error.not_found_title", "error.not_found_body"
	}
	return "error.internal_title", "error.internal_body"
}

// TagSections is the content listed on a tag page.
type TagSections struct {
	Notes    []content.Note
	Talks    []content.Talk
	Projects []content.Project
}

func hasEntries(items any) bool {
	size, err := collection.SizeOf(items)
	return err == nil && size > 0
}
