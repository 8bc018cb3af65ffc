package feed

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/notebook/internal/services/site/content"
	"github.com/louisbranch/notebook/internal/services/site/metadata"
	"github.com/louisbranch/notebook/internal/services/site/tags"
)

func TestWriteEncodesNotes(t *testing.T) {
	t.Parallel()

	notes := []content.Note{
		{Metadata: metadata.Metadata{
			Title:       "Newer & better",
			Description: "Second note.",
			Path:        "/notes/newer",
			SiteURL:     "https://example.com",
			Date:        time.Date(2022, 2, 22, 0, 0, 0, 0, time.UTC),
			Tags:        []tags.Kind{tags.Testing},
		}},
		{Metadata: metadata.Metadata{Title: "Undated", Path: "/notes/undated", SiteURL: "https://example.com"}},
	}

	var buf bytes.Buffer
	err := Write(&buf, Channel{Title: "Notes", Description: "All notes", SiteURL: "https://example.com/", Language: "en"}, notes)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, xml.Header) {
		t.Fatalf("missing xml header: %q", out)
	}

	var decoded rss
	if err := xml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if decoded.Version != "2.0" || decoded.Channel.Link != "https://example.com/" {
		t.Fatalf("channel = %+v", decoded.Channel)
	}
	if len(decoded.Channel.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(decoded.Channel.Items))
	}
	first := decoded.Channel.Items[0]
	if first.Title != "Newer & better" || first.Link != "https://example.com/notes/newer" {
		t.Fatalf("first item = %+v", first)
	}
	if first.PubDate != "Tue, 22 Feb 2022 00:00:00 +0000" {
		t.Fatalf("pubDate = %q", first.PubDate)
	}
	if decoded.Channel.LastBuildDate != first.PubDate {
		t.Fatalf("lastBuildDate = %q, want %q", decoded.Channel.LastBuildDate, first.PubDate)
	}
	if len(first.Categories) != 1 || first.Categories[0] != "testing" {
		t.Fatalf("categories = %v", first.Categories)
	}
	if decoded.Channel.Items[1].PubDate != "" {
		t.Fatalf("undated pubDate = %q", decoded.Channel.Items[1].PubDate)
	}
}

func TestWriteEmptyFeed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, Channel{Title: "Notes"}, nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "<channel>") {
		t.Fatalf("feed = %q", buf.String())
	}
}
