package content

import (
	"strings"

	"github.com/louisbranch/notebook/internal/services/site/metadata"
	"github.com/louisbranch/notebook/internal/services/site/tags"
)

const descriptionLimit = 160

// Note is a published article.
type Note struct {
	Metadata metadata.Metadata
	HTML     string
}

// Talk is a conference or meetup talk.
type Talk struct {
	Metadata metadata.Metadata
	Event    string
	Slides   string
	Video    string
}

// Project is something the author built.
type Project struct {
	Metadata metadata.Metadata
	Link     string
}

// Source identifies where a document was loaded from.
type Source struct {
	Slug    string
	Path    string
	Locale  string
	SiteURL string
}

// MetadataFor builds page metadata from a parsed document. A missing
// description is derived from the rendered body.
func MetadataFor(doc Document, src Source) metadata.Metadata {
	description := strings.TrimSpace(doc.FrontMatter.Description)
	if description == "" {
		description = Excerpt(PlainText(doc.HTML), descriptionLimit)
	}
	return metadata.Metadata{
		Title:       doc.FrontMatter.Title,
		Description: description,
		Slug:        src.Slug,
		Path:        src.Path,
		Tags:        tags.ParseAll(doc.FrontMatter.Tags),
		Date:        doc.Date,
		Locale:      src.Locale,
		SiteURL:     src.SiteURL,
	}
}

// NewNote types a document as a note.
func NewNote(doc Document, src Source) Note {
	return Note{Metadata: MetadataFor(doc, src), HTML: doc.HTML}
}

// NewTalk types a document as a talk.
func NewTalk(doc Document, src Source) Talk {
	return Talk{
		Metadata: MetadataFor(doc, src),
		Event:    strings.TrimSpace(doc.FrontMatter.Event),
		Slides:   strings.TrimSpace(doc.FrontMatter.Slides),
		Video:    strings.TrimSpace(doc.FrontMatter.Video),
	}
}

// NewProject types a document as a project.
func NewProject(doc Document, src Source) Project {
	return Project{
		Metadata: MetadataFor(doc, src),
		Link:     strings.TrimSpace(doc.FrontMatter.Link),
	}
}
