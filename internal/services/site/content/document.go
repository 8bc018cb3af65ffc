// Package content parses MDX documents into site content items.
//
// A document is YAML front matter between "---" fences followed by a
// Markdown body. MDX import and export statements are dropped before the
// body is rendered; raw JSX and HTML are omitted by the renderer.
package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/louisbranch/notebook/internal/platform/errors"
)

// DateLayout is the front matter date format.
const DateLayout = "2006-01-02"

const fence = "---"

// FrontMatter is the YAML header of a content document.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`

	// Talks.
	Event  string `yaml:"event"`
	Slides string `yaml:"slides"`
	Video  string `yaml:"video"`

	// Projects.
	Link string `yaml:"link"`
}

// Document is a parsed but not yet typed content file.
type Document struct {
	FrontMatter FrontMatter
	Date        time.Time
	Body        string
	HTML        string
}

// Parse splits front matter from body, decodes it and renders the body.
func Parse(data []byte) (Document, error) {
	header, body, err := splitFrontMatter(data)
	if err != nil {
		return Document{}, err
	}
	var fm FrontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return Document{}, apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("decode front matter: %v", err))
	}
	fm.Title = strings.TrimSpace(fm.Title)
	if fm.Title == "" {
		return Document{}, apperrors.E(apperrors.KindInvalidInput, "front matter title is required")
	}

	doc := Document{FrontMatter: fm, Body: stripMDXStatements(body)}
	if date := strings.TrimSpace(fm.Date); date != "" {
		parsed, err := time.Parse(DateLayout, date)
		if err != nil {
			return Document{}, apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("front matter date %q: %v", date, err))
		}
		doc.Date = parsed
	}
	html, err := RenderMarkdown(doc.Body)
	if err != nil {
		return Document{}, err
	}
	doc.HTML = html
	return doc, nil
}

func splitFrontMatter(data []byte) ([]byte, string, error) {
	text := strings.ReplaceAll(string(bytes.TrimPrefix(data, []byte("\ufeff"))), "\r\n", "\n")
	if !strings.HasPrefix(text, fence+"\n") {
		return nil, "", apperrors.E(apperrors.KindInvalidInput, "document must start with front matter")
	}
	rest := text[len(fence)+1:]
	if strings.HasPrefix(rest, fence) {
		return nil, strings.TrimPrefix(rest[len(fence):], "\n"), nil
	}
	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		return nil, "", apperrors.E(apperrors.KindInvalidInput, "front matter is not closed")
	}
	header := rest[:end]
	body := strings.TrimPrefix(rest[end+1+len(fence):], "\n")
	return []byte(header), body, nil
}

// stripMDXStatements drops top-level import/export lines outside code fences.
func stripMDXStatements(body string) string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	inCode := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
		}
		if !inCode && (strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "export ")) {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimLeft(strings.Join(out, "\n"), "\n")
}
