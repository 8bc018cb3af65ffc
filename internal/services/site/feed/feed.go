// Package feed renders the notes RSS 2.0 feed.
package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/louisbranch/notebook/internal/services/site/content"
	"github.com/louisbranch/notebook/internal/services/site/metadata"
	"github.com/louisbranch/notebook/internal/services/site/routepath"
)

// ContentType is the RSS media type.
const ContentType = "application/rss+xml; charset=utf-8"

// Channel describes the feed itself.
type Channel struct {
	Title       string
	Description string
	SiteURL     string
	Language    string
}

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Categories  []string `xml:"category"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Write encodes notes as an RSS document. Notes are expected newest first.
func Write(w io.Writer, channel Channel, notes []content.Note) error {
	doc := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       channel.Title,
			Link:        metadata.Metadata{SiteURL: channel.SiteURL, Path: routepath.Root}.AbsoluteURL(),
			Description: channel.Description,
			Language:    channel.Language,
			Items:       make([]rssItem, 0, len(notes)),
		},
	}
	if len(notes) > 0 && !notes[0].Metadata.Date.IsZero() {
		doc.Channel.LastBuildDate = formatDate(notes[0].Metadata.Date)
	}
	for _, note := range notes {
		link := note.Metadata.AbsoluteURL()
		item := rssItem{
			Title:       note.Metadata.Title,
			Link:        link,
			GUID:        rssGUID{IsPermaLink: true, Value: link},
			Description: note.Metadata.Description,
		}
		if !note.Metadata.Date.IsZero() {
			item.PubDate = formatDate(note.Metadata.Date)
		}
		for _, tag := range note.Metadata.Tags {
			item.Categories = append(item.Categories, string(tag))
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write feed header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC1123Z)
}
