// Package site hosts the browser-facing notebook service.
package site

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/notebook/internal/platform/otel"
	"github.com/louisbranch/notebook/internal/platform/timeouts"
	"github.com/louisbranch/notebook/internal/services/site/platform/httpx"
	"github.com/louisbranch/notebook/internal/services/site/routepath"
	sitestatic "github.com/louisbranch/notebook/internal/services/site/static"
)

// Config defines startup inputs for the site service.
type Config struct {
	HTTPAddr   string
	SiteName   string
	SiteURL    string
	AuthorName string
	Store      ContentStore
}

// Server hosts the site HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds the root handler with every page route.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("content store is required")
	}
	h := &handlers{
		store:      cfg.Store,
		siteName:   strings.TrimSpace(cfg.SiteName),
		siteURL:    strings.TrimSpace(cfg.SiteURL),
		authorName: strings.TrimSpace(cfg.AuthorName),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(routepath.Root+"{$}", h.home)
	mux.HandleFunc(routepath.NotesPrefix+"{$}", h.notes)
	mux.HandleFunc(routepath.NotePattern, h.note)
	mux.HandleFunc(routepath.TalksPrefix+"{$}", h.talks)
	mux.HandleFunc(routepath.ProjectsPrefix+"{$}", h.projects)
	mux.HandleFunc(routepath.TagPattern, h.tag)
	mux.HandleFunc(routepath.RSS, h.rss)
	mux.HandleFunc(routepath.Support, h.support)
	mux.HandleFunc(routepath.Health, h.health)
	mux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(sitestatic.FS))))
	mux.HandleFunc(routepath.Root, h.notFound)

	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.Trace(otel.Tracer("notebook/site/http")),
		httpx.RequestLogger(log.Default()),
		httpx.ReadOnly(),
		withLanguage(),
	), nil
}

// NewServer validates config and constructs a site server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose site handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("site server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown site http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve site http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
