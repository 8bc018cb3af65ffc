// Package metadata describes the page-level metadata of one content item.
package metadata

import (
	"strings"
	"time"

	"github.com/louisbranch/notebook/internal/services/site/tags"
)

// Metadata is what views and share links need to know about a content item.
type Metadata struct {
	Title       string
	Description string
	Slug        string
	// Path is site-relative, starting with "/".
	Path    string
	Tags    []tags.Kind
	Date    time.Time
	Locale  string
	SiteURL string
}

// AbsoluteURL joins SiteURL and Path. Without a SiteURL the relative path is
// returned.
func (m Metadata) AbsoluteURL() string {
	p := strings.TrimSpace(m.Path)
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	base := strings.TrimRight(strings.TrimSpace(m.SiteURL), "/")
	return base + p
}
