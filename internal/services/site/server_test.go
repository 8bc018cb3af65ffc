package site

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/louisbranch/notebook/internal/services/site/content"
	"github.com/louisbranch/notebook/internal/services/site/storage"
	"github.com/louisbranch/notebook/internal/services/site/tags"
)

func file(body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(body), ModTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	fsys := fstest.MapFS{
		"content/en/notes/first.mdx":   file("---\ntitle: First note\ndate: 2022-02-22\ntags: [testing]\n---\nHello **world**.\n"),
		"content/en/talks/conf.mdx":    file("---\ntitle: Conf talk\nevent: GopherCon\ntags: [architecture]\n---\n"),
		"content/en/projects/tool.mdx": file("---\ntitle: Tool\nlink: https://example.com/tool\n---\n"),
		"content/ru/notes/zametka.mdx": file("---\ntitle: Заметка\ndate: 2021-01-01\n---\nТекст.\n"),
	}
	store, err := storage.New(storage.NewFSDependencies(fsys, language.English), storage.Config{Root: "content", SiteURL: "https://example.com"})
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	handler, err := NewHandler(Config{SiteName: "Notebook", SiteURL: "https://example.com", AuthorName: "Louis", Store: store})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return handler
}

type failingStore struct{}

var errStoreDown = errors.New("disk unavailable")

func (failingStore) ListNotes(context.Context) ([]content.Note, error) { return nil, errStoreDown }
func (failingStore) Note(context.Context, string) (content.Note, error) {
	return content.Note{}, errStoreDown
}
func (failingStore) ListTalks(context.Context) ([]content.Talk, error) { return nil, errStoreDown }
func (failingStore) ListProjects(context.Context) ([]content.Project, error) {
	return nil, errStoreDown
}
func (failingStore) ByTag(context.Context, tags.Kind) (storage.TagContent, error) {
	return storage.TagContent{}, errStoreDown
}

func get(t *testing.T, h http.Handler, target string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, fn := range mutate {
		fn(req)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func assertContains(t *testing.T, body string, markers ...string) {
	t.Helper()
	for _, marker := range markers {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q in %q", marker, body)
		}
	}
}

func TestNewHandlerRequiresStore(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Config{}); err == nil {
		t.Fatalf("expected error for missing store")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rr := get(t, newTestHandler(t), "/up")
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("health = %d %q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestPagesRender(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	for _, tc := range []struct {
		path    string
		markers []string
	}{
		{"/", []string{`<h1 class="author-name">Louis</h1>`, `href="/notes/first"`, "<title>Notebook</title>"}},
		{"/notes/", []string{"<title>Notes | Notebook</title>", "First note"}},
		{"/notes/first", []string{"<h1>First note</h1>", "<strong>world</strong>", "Subscribe to the blog", `<span class="author-name">Louis</span>`}},
		{"/talks/", []string{"Conf talk", "GopherCon"}},
		{"/projects/", []string{`href="https://example.com/tool"`}},
		{"/tag/architecture", []string{"Notes, talks, and projects about architecture", `class="tag-talks"`, "Conf talk"}},
		{"/support", []string{"Support the author"}},
	} {
		rr := get(t, h, tc.path)
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want %d", tc.path, rr.Code, http.StatusOK)
		}
		if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
			t.Fatalf("GET %s content-type = %q", tc.path, got)
		}
		assertContains(t, rr.Body.String(), tc.markers...)
	}
}

func TestTagPageOmitsEmptySections(t *testing.T) {
	t.Parallel()

	rr := get(t, newTestHandler(t), "/tag/testing")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	assertContains(t, body, `class="tag-notes"`, "First note")
	if strings.Contains(body, `class="tag-talks"`) || strings.Contains(body, `class="tag-projects"`) {
		t.Fatalf("empty sections rendered: %q", body)
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	for _, path := range []string{"/notes/missing", "/tag/unknown", "/nope", "/notes/a/b"} {
		rr := get(t, h, path)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("GET %s status = %d, want %d", path, rr.Code, http.StatusNotFound)
		}
		assertContains(t, rr.Body.String(), "Page not found")
	}
}

func TestStoreFailureRendersInternalError(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(Config{SiteName: "Notebook", Store: failingStore{}})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	for _, path := range []string{"/", "/notes/x", "/talks/", "/projects/", "/tag/tools", "/rss.xml"} {
		rr := get(t, h, path)
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("GET %s status = %d, want %d", path, rr.Code, http.StatusInternalServerError)
		}
		assertContains(t, rr.Body.String(), "Something went wrong")
	}
}

func TestRenderUsesStatusAndContentType(t *testing.T) {
	t.Parallel()

	h := &handlers{}
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rr := httptest.NewRecorder()
	h.render(rr, req, http.StatusNotFound, templ.Raw("<p>gone</p>"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	if got := rr.Body.String(); got != "<p>gone</p>" {
		t.Fatalf("body = %q", got)
	}
}

func TestRenderFailureWritesCleanInternalError(t *testing.T) {
	t.Parallel()

	broken := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "<p>partial")
		return errors.New("template exploded")
	})
	h := &handlers{}
	req := httptest.NewRequest(http.MethodGet, "/notes/", nil)
	rr := httptest.NewRecorder()
	h.render(rr, req, http.StatusOK, broken)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rr.Body.String(), "partial") {
		t.Fatalf("partial render leaked: %q", rr.Body.String())
	}
}

func TestWritesAreRejected(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/notes/", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestLanguageQuerySetsCookieAndLocale(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rr := get(t, h, "/?lang=ru")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	assertContains(t, rr.Body.String(), `<html lang="ru">`, "Заметка")
	if strings.Contains(rr.Body.String(), "First note") {
		t.Fatalf("english note leaked into russian listing")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "nb_lang" || cookies[0].Value != "ru" {
		t.Fatalf("cookies = %v", cookies)
	}

	withCookie := get(t, h, "/notes/", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "nb_lang", Value: "ru"})
	})
	assertContains(t, withCookie.Body.String(), "Заметка")
	if len(withCookie.Result().Cookies()) != 0 {
		t.Fatalf("cookie should only be set from the query parameter")
	}
}

func TestAcceptLanguageSelectsLocale(t *testing.T) {
	t.Parallel()

	rr := get(t, newTestHandler(t), "/notes/", func(r *http.Request) {
		r.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")
	})
	assertContains(t, rr.Body.String(), `<html lang="ru">`)
}

func TestRSSFeed(t *testing.T) {
	t.Parallel()

	rr := get(t, newTestHandler(t), "/rss.xml")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/rss+xml; charset=utf-8" {
		t.Fatalf("content-type = %q", got)
	}
	assertContains(t, rr.Body.String(),
		"<title>Notes | Notebook</title>",
		"<link>https://example.com/notes/first</link>",
		"<language>en</language>",
	)
}

func TestStaticAssets(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	for _, path := range []string{"/static/site.css", "/static/photo.svg"} {
		if rr := get(t, h, path); rr.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, rr.Code)
		}
	}
}

func TestNewServerRequiresAddress(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(context.Background(), Config{Store: failingStore{}}); err == nil {
		t.Fatalf("expected error for missing http address")
	}
	if _, err := NewServer(context.Background(), Config{HTTPAddr: "127.0.0.1:0"}); err == nil {
		t.Fatalf("expected error for missing store")
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	server, err := NewServer(context.Background(), Config{HTTPAddr: "127.0.0.1:0", Store: failingStore{}})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if server.Addr() != "127.0.0.1:0" {
		t.Fatalf("Addr() = %q", server.Addr())
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("ListenAndServe did not stop")
	}
	server.Close()
}

func TestNilServerSafety(t *testing.T) {
	t.Parallel()

	var server *Server
	if err := server.ListenAndServe(context.Background()); err == nil {
		t.Fatalf("expected nil server error")
	}
	server.Close()
	if server.Addr() != "" {
		t.Fatalf("nil Addr() = %q", server.Addr())
	}
}
