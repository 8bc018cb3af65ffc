package content

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/louisbranch/notebook/internal/platform/errors"
	"github.com/louisbranch/notebook/internal/services/site/tags"
)

const sampleNote = `---
title: "Clean Architecture on Frontend"
description: "How to split a frontend app into layers."
date: 2021-09-01
tags: [architecture, frontend, cooking]
---

import { Video } from "@components/Video"

# Layers

Domain, *application*, adapters.

` + "```js\nimport x from \"y\"\n```\n"

func TestParseDecodesFrontMatterAndBody(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sampleNote))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.FrontMatter.Title != "Clean Architecture on Frontend" {
		t.Fatalf("title = %q", doc.FrontMatter.Title)
	}
	if want := time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC); !doc.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", doc.Date, want)
	}
	if strings.Contains(doc.Body, "@components/Video") {
		t.Fatalf("expected MDX import to be stripped, body = %q", doc.Body)
	}
	if !strings.Contains(doc.Body, `import x from "y"`) {
		t.Fatalf("expected import inside code fence to be kept, body = %q", doc.Body)
	}
	if !strings.Contains(doc.HTML, `<h1 id="layers">Layers</h1>`) {
		t.Fatalf("html = %q", doc.HTML)
	}
	if !strings.Contains(doc.HTML, "<em>application</em>") {
		t.Fatalf("html = %q", doc.HTML)
	}
}

func TestParseRejectsMalformedDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "no front matter", data: "# Title\n"},
		{name: "unclosed front matter", data: "---\ntitle: x\n"},
		{name: "missing title", data: "---\ndescription: x\n---\nbody\n"},
		{name: "empty front matter", data: "---\n---\nbody\n"},
		{name: "bad date", data: "---\ntitle: x\ndate: yesterday\n---\n"},
		{name: "bad yaml", data: "---\ntitle: [\n---\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if kind := apperrors.KindOf(err); kind != apperrors.KindInvalidInput {
				t.Fatalf("KindOf(err) = %q, want %q", kind, apperrors.KindInvalidInput)
			}
		})
	}
}

func TestParseAcceptsCRLFAndBOM(t *testing.T) {
	t.Parallel()

	data := "\ufeff---\r\ntitle: Hello\r\n---\r\nBody text\r\n"
	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.FrontMatter.Title != "Hello" {
		t.Fatalf("title = %q", doc.FrontMatter.Title)
	}
}

func TestNewNoteBuildsMetadata(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sampleNote))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	note := NewNote(doc, Source{Slug: "clean-architecture", Path: "/notes/clean-architecture", Locale: "en", SiteURL: "https://example.com"})
	if diff := cmp.Diff([]tags.Kind{tags.Architecture, tags.Frontend}, note.Metadata.Tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if note.Metadata.Description != "How to split a frontend app into layers." {
		t.Fatalf("description = %q", note.Metadata.Description)
	}
	if note.Metadata.AbsoluteURL() != "https://example.com/notes/clean-architecture" {
		t.Fatalf("url = %q", note.Metadata.AbsoluteURL())
	}
}

func TestMetadataDerivesDescriptionFromBody(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("---\ntitle: Talk\nevent: FrontendConf\nslides: https://example.com/slides\n---\nA talk about **testing** things.\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	talk := NewTalk(doc, Source{Slug: "talk"})
	if talk.Metadata.Description != "A talk about testing things." {
		t.Fatalf("description = %q", talk.Metadata.Description)
	}
	if talk.Event != "FrontendConf" || talk.Slides != "https://example.com/slides" {
		t.Fatalf("talk = %+v", talk)
	}
}

func TestNewProjectKeepsLink(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("---\ntitle: Tool\nlink: https://example.com/tool\ntags: [tools]\n---\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	project := NewProject(doc, Source{Slug: "tool"})
	if project.Link != "https://example.com/tool" {
		t.Fatalf("link = %q", project.Link)
	}
}
