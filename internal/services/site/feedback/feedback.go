// Package feedback builds the outbound links shown after a note.
package feedback

import (
	"golang.org/x/text/message"

	"github.com/louisbranch/notebook/internal/services/site/metadata"
	"github.com/louisbranch/notebook/internal/services/site/routepath"
)

// GitHubLink is the repository where readers discuss notes.
const GitHubLink = "https://github.com/louisbranch/notebook/discussions"

// ActionLink is one labelled feedback link. URL is either absolute or
// site-relative.
type ActionLink struct {
	Label string
	URL   string
}

// Localizer translates message keys; *message.Printer satisfies it.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// CreateActionList returns the five feedback links in display order:
// subscribe, tweet, share, github, support.
func CreateActionList(meta metadata.Metadata, loc Localizer) []ActionLink {
	label := func(key string) string {
		if loc == nil {
			return key
		}
		return loc.Sprintf(key)
	}
	return []ActionLink{
		{Label: label("feedback.subscribe"), URL: routepath.RSS},
		{Label: label("feedback.tweet"), URL: TwitterLink(meta)},
		{Label: label("feedback.share"), URL: FacebookLink(meta)},
		{Label: label("feedback.github"), URL: GitHubLink},
		{Label: label("feedback.support"), URL: routepath.Support},
	}
}
