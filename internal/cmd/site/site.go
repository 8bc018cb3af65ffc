// Package site parses site service flags and launches the service.
package site

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	entrypoint "github.com/louisbranch/notebook/internal/platform/cmd"
	platformi18n "github.com/louisbranch/notebook/internal/platform/i18n"
	sitesvc "github.com/louisbranch/notebook/internal/services/site"
	"github.com/louisbranch/notebook/internal/services/site/storage"
)

// Config holds the site command configuration.
type Config struct {
	HTTPAddr      string `env:"SITE_HTTP_ADDR"      envDefault:"localhost:8080"`
	SiteName      string `env:"SITE_NAME"           envDefault:"Notebook"`
	SiteURL       string `env:"SITE_URL"            envDefault:"http://localhost:8080"`
	AuthorName    string `env:"SITE_AUTHOR"         envDefault:"Louis Branch"`
	ContentDir    string `env:"SITE_CONTENT_DIR"    envDefault:"content"`
	DefaultLocale string `env:"SITE_DEFAULT_LOCALE" envDefault:"en"`
	CacheSize     int    `env:"SITE_CACHE_SIZE"     envDefault:"512"`
	Watch         bool   `env:"SITE_WATCH"          envDefault:"false"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	bindFlags(fs, &cfg)
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.SiteName, "site-name", cfg.SiteName, "Site name used in titles and the feed")
	fs.StringVar(&cfg.SiteURL, "site-url", cfg.SiteURL, "Public base URL for share links and the feed")
	fs.StringVar(&cfg.AuthorName, "author", cfg.AuthorName, "Author name shown in the header")
	fs.StringVar(&cfg.ContentDir, "content-dir", cfg.ContentDir, "Directory holding <locale>/<section>/*.mdx")
	fs.StringVar(&cfg.DefaultLocale, "default-locale", cfg.DefaultLocale, "Locale used when the request names none")
	fs.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "Parsed document cache capacity")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "Reload content when files change")
}

// Run starts the site HTTP service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSite, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	fallback, ok := platformi18n.ParseTag(cfg.DefaultLocale)
	if !ok {
		return fmt.Errorf("unsupported default locale %q", strings.TrimSpace(cfg.DefaultLocale))
	}

	deps := storage.NewDependencies(fallback)
	store, err := storage.New(deps, storage.Config{
		Root:      cfg.ContentDir,
		SiteURL:   cfg.SiteURL,
		CacheSize: cfg.CacheSize,
	})
	if err != nil {
		return fmt.Errorf("init content store: %w", err)
	}

	server, err := sitesvc.NewServer(ctx, sitesvc.Config{
		HTTPAddr:   cfg.HTTPAddr,
		SiteName:   cfg.SiteName,
		SiteURL:    cfg.SiteURL,
		AuthorName: cfg.AuthorName,
		Store:      store,
	})
	if err != nil {
		return fmt.Errorf("init site server: %w", err)
	}
	defer server.Close()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Watch {
		watcher, err := storage.NewWatcher(cfg.ContentDir, store)
		if err != nil {
			return fmt.Errorf("init content watcher: %w", err)
		}
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}
	g.Go(func() error {
		if err := server.ListenAndServe(gctx); err != nil {
			return fmt.Errorf("serve site: %w", err)
		}
		return nil
	})
	return g.Wait()
}
