package storage

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	apperrors "github.com/louisbranch/notebook/internal/platform/errors"
	"github.com/louisbranch/notebook/internal/platform/requestctx"
	"github.com/louisbranch/notebook/internal/services/site/tags"
)

func file(body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(body), ModTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func testContent() fstest.MapFS {
	return fstest.MapFS{
		"content/en/notes/older.mdx":       file("---\ntitle: Older\ndate: 2020-01-01\ntags: [testing]\n---\nOld body.\n"),
		"content/en/notes/newer.mdx":       file("---\ntitle: Newer\ndate: 2022-02-22\ntags: [architecture, testing]\n---\nNew body.\n"),
		"content/en/notes/draft.mdx":       file("---\ntitle: Draft\ndraft: true\n---\n"),
		"content/en/notes/newer.mdx.bak":   file("---\ntitle: Backup\n---\n"),
		"content/en/notes/readme.txt":      file("not content"),
		"content/en/notes/Component.tsx":   file("export const X = 1"),
		"content/en/talks/conf.mdx":        file("---\ntitle: Conf talk\ndate: 2021-05-05\nevent: Conf\ntags: [architecture]\n---\n"),
		"content/en/projects/tool.mdx":     file("---\ntitle: Tool\nlink: https://example.com\ntags: [tools]\n---\n"),
		"content/ru/notes/zametka.mdx":     file("---\ntitle: Заметка\ndate: 2021-01-01\n---\nТекст.\n"),
		"content/en/notes/nested.mdx/x.md": file("ignored"),
	}
}

func newTestStore(t *testing.T, fsys fs.FS) *Store {
	t.Helper()
	store, err := New(NewFSDependencies(fsys, language.English), Config{Root: "content", SiteURL: "https://example.com"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return store
}

func noteTitles(t *testing.T, store *Store, ctx context.Context) []string {
	t.Helper()
	notes, err := store.ListNotes(ctx)
	if err != nil {
		t.Fatalf("ListNotes() error = %v", err)
	}
	titles := make([]string, 0, len(notes))
	for _, note := range notes {
		titles = append(titles, note.Metadata.Title)
	}
	return titles
}

func TestListNotesFiltersSortsAndSkipsDrafts(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testContent())
	got := noteTitles(t, store, context.Background())
	want := []string{"Newer", "Older"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}
}

func TestListNotesUsesRequestLocale(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testContent())
	ctx := requestctx.WithLocale(context.Background(), language.Russian)
	got := noteTitles(t, store, ctx)
	if diff := cmp.Diff([]string{"Заметка"}, got); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}
}

func TestListReturnsEmptyForMissingSection(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testContent())
	ctx := requestctx.WithLocale(context.Background(), language.Russian)
	talks, err := store.ListTalks(ctx)
	if err != nil {
		t.Fatalf("ListTalks() error = %v", err)
	}
	if len(talks) != 0 {
		t.Fatalf("len(talks) = %d, want 0", len(talks))
	}
}

func TestNoteFindsBySlug(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testContent())
	note, err := store.Note(context.Background(), "newer")
	if err != nil {
		t.Fatalf("Note() error = %v", err)
	}
	if note.Metadata.Path != "/notes/newer" || note.Metadata.AbsoluteURL() != "https://example.com/notes/newer" {
		t.Fatalf("metadata = %+v", note.Metadata)
	}
	if note.Metadata.Locale != "en" {
		t.Fatalf("locale = %q, want en", note.Metadata.Locale)
	}
}

func TestNoteMissingIsNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testContent())
	_, err := store.Note(context.Background(), "draft")
	if err == nil {
		t.Fatal("expected not found error")
	}
	if got := apperrors.HTTPStatus(err); got != http.StatusNotFound {
		t.Fatalf("HTTPStatus(err) = %d, want %d", got, http.StatusNotFound)
	}
}

func TestByTagGroupsContent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, testContent())
	got, err := store.ByTag(context.Background(), tags.Architecture)
	if err != nil {
		t.Fatalf("ByTag() error = %v", err)
	}
	if len(got.Notes) != 1 || got.Notes[0].Metadata.Title != "Newer" {
		t.Fatalf("notes = %+v", got.Notes)
	}
	if len(got.Talks) != 1 || got.Talks[0].Event != "Conf" {
		t.Fatalf("talks = %+v", got.Talks)
	}
	if len(got.Projects) != 0 {
		t.Fatalf("projects = %+v", got.Projects)
	}
}

func TestStoreCachesUntilFileChanges(t *testing.T) {
	t.Parallel()

	fsys := testContent()
	store := newTestStore(t, fsys)
	if _, err := store.ListNotes(context.Background()); err != nil {
		t.Fatalf("ListNotes() error = %v", err)
	}
	if store.CacheLen() == 0 {
		t.Fatal("expected parsed documents to be cached")
	}

	edited := file("---\ntitle: Older, edited\ndate: 2020-01-01\n---\nOld body, edited.\n")
	edited.ModTime = edited.ModTime.Add(time.Hour)
	fsys["content/en/notes/older.mdx"] = edited
	got := noteTitles(t, store, context.Background())
	if diff := cmp.Diff([]string{"Newer", "Older, edited"}, got); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}

	store.Invalidate()
	if store.CacheLen() != 0 {
		t.Fatalf("CacheLen() = %d after Invalidate, want 0", store.CacheLen())
	}
}

func TestStoreReparsesSameSizeEditWithUnchangedModTime(t *testing.T) {
	t.Parallel()

	fsys := testContent()
	store := newTestStore(t, fsys)
	if got := noteTitles(t, store, context.Background()); !cmp.Equal([]string{"Newer", "Older"}, got) {
		t.Fatalf("titles = %v", got)
	}

	before := fsys["content/en/notes/older.mdx"]
	after := file("---\ntitle: OLDER\ndate: 2020-01-01\ntags: [testing]\n---\nOld body.\n")
	if len(after.Data) != len(before.Data) || !after.ModTime.Equal(before.ModTime) {
		t.Fatal("fixture edit must keep size and modification time")
	}
	fsys["content/en/notes/older.mdx"] = after

	got := noteTitles(t, store, context.Background())
	if diff := cmp.Diff([]string{"Newer", "OLDER"}, got); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}
}

func TestDraftClaimsSlugOverBackupCopy(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"content/en/notes/post.mdx":     file("---\ntitle: Work in progress\ndraft: true\n---\n"),
		"content/en/notes/post.mdx.bak": file("---\ntitle: Stale backup\n---\n"),
		"content/en/notes/other.mdx":    file("---\ntitle: Other\n---\n"),
	}
	store := newTestStore(t, fsys)
	if diff := cmp.Diff([]string{"Other"}, noteTitles(t, store, context.Background())); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}
	_, err := store.Note(context.Background(), "post")
	if got := apperrors.HTTPStatus(err); got != http.StatusNotFound {
		t.Fatalf("Note(post) status = %d, want %d", got, http.StatusNotFound)
	}
}

func TestBrokenDocumentFailsListing(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"content/en/notes/bad.mdx": file("no front matter")}
	store := newTestStore(t, fsys)
	_, err := store.ListNotes(context.Background())
	if err == nil {
		t.Fatal("expected parse error")
	}
	if got := apperrors.HTTPStatus(err); got != http.StatusInternalServerError {
		t.Fatalf("HTTPStatus(err) = %d, want %d", got, http.StatusInternalServerError)
	}
}

func TestNewRejectsIncompleteDependencies(t *testing.T) {
	t.Parallel()

	_, err := New(Dependencies{Path: SlashPath{}}, Config{})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDependenciesAreStable(t *testing.T) {
	t.Parallel()

	deps := NewDependencies(language.English)
	if err := deps.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if _, ok := deps.System.(OSFileSystem); !ok {
		t.Fatalf("System = %T, want OSFileSystem", deps.System)
	}
	if got := deps.Path.Join("content", "en", "notes"); got != "content/en/notes" {
		t.Fatalf("Join() = %q", got)
	}
	if got := deps.Locale(context.Background()); got != language.English {
		t.Fatalf("Locale() = %v, want en", got)
	}
	if got := deps.Locale(requestctx.WithLocale(context.Background(), language.Russian)); got != language.Russian {
		t.Fatalf("Locale() = %v, want ru", got)
	}
}

type failingFS struct{ FSFileSystem }

func (failingFS) ReadDir(string) ([]fs.DirEntry, error) { return nil, errors.New("disk on fire") }

func TestReadDirErrorsPropagate(t *testing.T) {
	t.Parallel()

	deps := NewFSDependencies(fstest.MapFS{}, language.English)
	deps.System = failingFS{}
	store, err := New(deps, Config{Root: "content"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := store.ListProjects(context.Background()); err == nil {
		t.Fatal("expected read error")
	}
}

func TestSlugOf(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"post.mdx":     "post",
		"post.mdx.bak": "post",
		"a.b.mdx":      "a.b",
	}
	for name, want := range tests {
		if got := slugOf(name); got != want {
			t.Fatalf("slugOf(%q) = %q, want %q", name, got, want)
		}
	}
}
