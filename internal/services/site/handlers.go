package site

import (
	"bytes"
	"context"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	apperrors "github.com/louisbranch/notebook/internal/platform/errors"
	platformi18n "github.com/louisbranch/notebook/internal/platform/i18n"
	"github.com/louisbranch/notebook/internal/platform/requestctx"
	"github.com/louisbranch/notebook/internal/services/shared/i18nhttp"
	"github.com/louisbranch/notebook/internal/services/site/content"
	"github.com/louisbranch/notebook/internal/services/site/feed"
	"github.com/louisbranch/notebook/internal/services/site/platform/httpx"
	"github.com/louisbranch/notebook/internal/services/site/storage"
	"github.com/louisbranch/notebook/internal/services/site/tags"
	"github.com/louisbranch/notebook/internal/services/site/templates"
)

// ContentStore is the read side the handlers need.
type ContentStore interface {
	ListNotes(ctx context.Context) ([]content.Note, error)
	Note(ctx context.Context, slug string) (content.Note, error)
	ListTalks(ctx context.Context) ([]content.Talk, error)
	ListProjects(ctx context.Context) ([]content.Project, error)
	ByTag(ctx context.Context, kind tags.Kind) (storage.TagContent, error)
}

type handlers struct {
	store      ContentStore
	siteName   string
	siteURL    string
	authorName string
}

// withLanguage resolves the request language once and stores it on the context.
func withLanguage() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag, persist := i18nhttp.ResolveTag(r)
			if persist {
				i18nhttp.SetLanguageCookie(w, tag)
			}
			ctx := requestctx.WithLocale(r.Context(), tag)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestTag(r *http.Request) language.Tag {
	if tag, ok := requestctx.LocaleFromContext(httpx.RequestContext(r)); ok {
		return tag
	}
	return platformi18n.DefaultTag()
}

func (h *handlers) page(r *http.Request, title, description string) templates.Page {
	tag := requestTag(r)
	p := i18nhttp.Printer(tag)
	return templates.Page{
		Title:       title,
		Description: description,
		Path:        r.URL.Path,
		Lang:        tag.String(),
		SiteName:    h.siteName,
		AuthorName:  h.authorName,
		Languages:   i18nhttp.BuildLanguageOptions(r, tag, p),
		Printer:     p,
	}
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.ListNotes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, templates.NotesPage(h.page(r, "", ""), notes))
}

func (h *handlers) notes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.ListNotes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p := i18nhttp.Printer(requestTag(r))
	page := h.page(r, p.Sprintf("pages.notes_title"), p.Sprintf("pages.notes_description"))
	h.render(w, r, http.StatusOK, templates.NotesPage(page, notes))
}

func (h *handlers) note(w http.ResponseWriter, r *http.Request) {
	note, err := h.store.Note(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page := h.page(r, note.Metadata.Title, note.Metadata.Description)
	h.render(w, r, http.StatusOK, templates.NotePage(page, note))
}

func (h *handlers) talks(w http.ResponseWriter, r *http.Request) {
	talks, err := h.store.ListTalks(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p := i18nhttp.Printer(requestTag(r))
	page := h.page(r, p.Sprintf("pages.talks_title"), p.Sprintf("pages.talks_description"))
	h.render(w, r, http.StatusOK, templates.TalksPage(page, talks))
}

func (h *handlers) projects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p := i18nhttp.Printer(requestTag(r))
	page := h.page(r, p.Sprintf("pages.projects_title"), p.Sprintf("pages.projects_description"))
	h.render(w, r, http.StatusOK, templates.ProjectsPage(page, projects))
}

func (h *handlers) tag(w http.ResponseWriter, r *http.Request) {
	kind, ok := tags.Parse(r.PathValue("id"))
	if !ok {
		h.notFound(w, r)
		return
	}
	found, err := h.store.ByTag(r.Context(), kind)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p := i18nhttp.Printer(requestTag(r))
	label := tags.ValueOf(kind, p)
	page := h.page(r, label, p.Sprintf("tagpage.summary", label))
	h.render(w, r, http.StatusOK, templates.TagPage(page, kind, templates.TagSections{
		Notes:    found.Notes,
		Talks:    found.Talks,
		Projects: found.Projects,
	}))
}

func (h *handlers) support(w http.ResponseWriter, r *http.Request) {
	p := i18nhttp.Printer(requestTag(r))
	page := h.page(r, p.Sprintf("pages.support_title"), p.Sprintf("pages.support_body"))
	h.render(w, r, http.StatusOK, templates.SupportPage(page))
}

func (h *handlers) rss(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.ListNotes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tag := requestTag(r)
	p := i18nhttp.Printer(tag)
	var buf bytes.Buffer
	err = feed.Write(&buf, feed.Channel{
		Title:       p.Sprintf("site.feed_title", h.siteName),
		Description: p.Sprintf("site.description"),
		SiteURL:     h.siteURL,
		Language:    tag.String(),
	}, notes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", feed.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, apperrors.EK(apperrors.KindNotFound, "error.not_found_title", "page not found"))
}

// writeError renders the error page matching the typed status of err.
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("render page path=%s err=%v", r.URL.Path, err)
	}
	p := i18nhttp.Printer(requestTag(r))
	notFound := status == http.StatusNotFound
	titleKey := "error.internal_title"
	if notFound {
		titleKey = "error.not_found_title"
	}
	h.render(w, r, status, templates.ErrorPage(h.page(r, p.Sprintf(titleKey), ""), notFound))
}

// render serves c with status. Rendering is buffered by templ, so a failed
// render still yields a clean 500.
func (h *handlers) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c,
		templ.WithStatus(status),
		templ.WithErrorHandler(renderFailed),
	).ServeHTTP(w, r)
}

func renderFailed(_ *http.Request, err error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("render template path=%s err=%v", r.URL.Path, err)
		httpx.WriteError(w, err)
	})
}
