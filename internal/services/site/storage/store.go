package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/notebook/internal/platform/errors"
	"github.com/louisbranch/notebook/internal/platform/fileext"
	"github.com/louisbranch/notebook/internal/platform/otel"
	"github.com/louisbranch/notebook/internal/services/site/content"
	"github.com/louisbranch/notebook/internal/services/site/routepath"
	"github.com/louisbranch/notebook/internal/services/site/tags"
)

const defaultCacheSize = 512

// Section is a top-level content directory.
type Section string

const (
	SectionNotes    Section = "notes"
	SectionTalks    Section = "talks"
	SectionProjects Section = "projects"
)

// Config holds store settings.
type Config struct {
	// Root is the content directory holding <locale>/<section>/*.mdx.
	Root      string
	SiteURL   string
	CacheSize int
}

// TagContent is everything tagged with one topic.
type TagContent struct {
	Notes    []content.Note
	Talks    []content.Talk
	Projects []content.Project
}

// Store reads content documents and caches parsed results.
type Store struct {
	deps    Dependencies
	root    string
	siteURL string
	cache   *lru.Cache[string, cachedDocument]
	tracer  trace.Tracer
}

// cachedDocument is keyed by path and validated against the file's content
// hash, so an edit that keeps size and mtime still reparses.
type cachedDocument struct {
	sum uint64
	doc content.Document
}

type loadedDocument struct {
	slug string
	doc  content.Document
}

// New builds a store from its dependency bundle.
func New(deps Dependencies, cfg Config) (*Store, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("storage dependencies: %w", err)
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, cachedDocument](size)
	if err != nil {
		return nil, fmt.Errorf("create document cache: %w", err)
	}
	root := strings.TrimSpace(cfg.Root)
	if root == "" {
		root = "."
	}
	return &Store{
		deps:    deps,
		root:    root,
		siteURL: strings.TrimSpace(cfg.SiteURL),
		cache:   cache,
		tracer:  otel.Tracer("notebook/site/storage"),
	}, nil
}

// Invalidate drops every cached document.
func (s *Store) Invalidate() {
	s.cache.Purge()
}

// ListNotes returns published notes, newest first.
func (s *Store) ListNotes(ctx context.Context) ([]content.Note, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListNotes")
	defer span.End()

	docs, locale, err := s.loadSection(ctx, SectionNotes)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	notes := make([]content.Note, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, content.NewNote(d.doc, s.source(d.slug, routepath.Note(d.slug), locale)))
	}
	return notes, nil
}

// Note returns one note by slug.
func (s *Store) Note(ctx context.Context, slug string) (content.Note, error) {
	notes, err := s.ListNotes(ctx)
	if err != nil {
		return content.Note{}, err
	}
	slug = strings.TrimSpace(slug)
	for _, note := range notes {
		if note.Metadata.Slug == slug {
			return note, nil
		}
	}
	return content.Note{}, apperrors.EK(apperrors.KindNotFound, "error.not_found_title", fmt.Sprintf("note %q not found", slug))
}

// ListTalks returns talks, newest first.
func (s *Store) ListTalks(ctx context.Context) ([]content.Talk, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListTalks")
	defer span.End()

	docs, locale, err := s.loadSection(ctx, SectionTalks)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	talks := make([]content.Talk, 0, len(docs))
	for _, d := range docs {
		talks = append(talks, content.NewTalk(d.doc, s.source(d.slug, routepath.TalksPrefix+"#"+d.slug, locale)))
	}
	return talks, nil
}

// ListProjects returns projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]content.Project, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListProjects")
	defer span.End()

	docs, locale, err := s.loadSection(ctx, SectionProjects)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	projects := make([]content.Project, 0, len(docs))
	for _, d := range docs {
		projects = append(projects, content.NewProject(d.doc, s.source(d.slug, routepath.ProjectsPrefix+"#"+d.slug, locale)))
	}
	return projects, nil
}

// ByTag returns all content tagged with kind.
func (s *Store) ByTag(ctx context.Context, kind tags.Kind) (TagContent, error) {
	notes, err := s.ListNotes(ctx)
	if err != nil {
		return TagContent{}, err
	}
	talks, err := s.ListTalks(ctx)
	if err != nil {
		return TagContent{}, err
	}
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return TagContent{}, err
	}

	var out TagContent
	for _, note := range notes {
		if tags.Contains(note.Metadata.Tags, kind) {
			out.Notes = append(out.Notes, note)
		}
	}
	for _, talk := range talks {
		if tags.Contains(talk.Metadata.Tags, kind) {
			out.Talks = append(out.Talks, talk)
		}
	}
	for _, project := range projects {
		if tags.Contains(project.Metadata.Tags, kind) {
			out.Projects = append(out.Projects, project)
		}
	}
	return out, nil
}

func (s *Store) source(slug, pagePath, locale string) content.Source {
	return content.Source{Slug: slug, Path: pagePath, Locale: locale, SiteURL: s.siteURL}
}

// loadSection reads every MDX document of a section for the active locale.
// Drafts are skipped. Results are sorted newest first, then by slug.
func (s *Store) loadSection(ctx context.Context, section Section) ([]loadedDocument, string, error) {
	locale := s.deps.Locale(ctx).String()
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("locale", locale), attribute.String("section", string(section)))

	dir := s.deps.Path.Join(s.root, locale, string(section))
	entries, err := s.deps.System.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, locale, nil
		}
		return nil, locale, fmt.Errorf("read %s: %w", dir, err)
	}

	seen := make(map[string]bool, len(entries))
	docs := make([]loadedDocument, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !fileext.OnlyMDX(name) {
			continue
		}
		slug := slugOf(name)
		if slug == "" || seen[slug] {
			log.Printf("storage: skipping %s: duplicate or empty slug %q", s.deps.Path.Join(dir, name), slug)
			continue
		}
		// A draft still claims its slug so a backup copy cannot publish it.
		seen[slug] = true
		doc, err := s.readDocument(s.deps.Path.Join(dir, name))
		if err != nil {
			return nil, locale, err
		}
		if doc.FrontMatter.Draft {
			continue
		}
		docs = append(docs, loadedDocument{slug: slug, doc: doc})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].doc.Date.Equal(docs[j].doc.Date) {
			return docs[i].doc.Date.After(docs[j].doc.Date)
		}
		return docs[i].slug < docs[j].slug
	})
	span.SetAttributes(attribute.Int("documents", len(docs)))
	return docs, locale, nil
}

func (s *Store) readDocument(p string) (content.Document, error) {
	data, err := s.deps.System.ReadFile(p)
	if err != nil {
		return content.Document{}, fmt.Errorf("read %s: %w", p, err)
	}
	sum := xxhash.Sum64(data)
	if cached, ok := s.cache.Get(p); ok && cached.sum == sum {
		return cached.doc, nil
	}
	doc, err := content.Parse(data)
	if err != nil {
		// Not wrapped: a broken file must map to 500, not the parse error's kind.
		return content.Document{}, fmt.Errorf("parse %s: %v", p, err)
	}
	s.cache.Add(p, cachedDocument{sum: sum, doc: doc})
	return doc, nil
}

// slugOf returns the file name up to its first MDX extension tag.
func slugOf(name string) string {
	slug, _, _ := strings.Cut(name, "."+string(fileext.MDX))
	return strings.TrimSpace(slug)
}

// CacheLen reports how many parsed documents are cached.
func (s *Store) CacheLen() int {
	return s.cache.Len()
}
