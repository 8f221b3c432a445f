// Package catblog is a category-filtered markdown blog built with Go, Echo,
// and templ. It indexes markdown posts into SQLite and serves a post index,
// per-category listings and post pages, live or as an exported static site.
package catblog

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/catblog/content"
	"github.com/eringen/catblog/markdown"
	"github.com/eringen/catblog/views"
)

// App is the central catblog application. It wires together the loader,
// store, cache, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache

	loader         *content.Loader
	refreshLimiter *RefreshLimiter
	refreshMax     int
	refreshWindow  time.Duration
	customRoutes   []func(*App)
	staticDir      string
	opened         bool
}

// New creates a new catblog App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:        cfg,
		Echo:          echo.New(),
		staticDir:     "public",
		refreshMax:    5,
		refreshWindow: time.Minute,
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(cfg.logLevel())

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Open validates the config, opens the content index, performs the first
// content sync and registers middleware and routes. Start calls it when
// the app has not been opened yet.
func (a *App) Open(ctx context.Context) error {
	if a.opened {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("catblog: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.loader = content.NewLoader(a.Config.ContentDir, markdown.NewRenderer(), a.Config.ExcerptLength)

	if _, err := a.Sync(ctx); err != nil {
		return err
	}

	a.refreshLimiter = NewRefreshLimiter(a.refreshMax, a.refreshWindow)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.opened = true
	return nil
}

// Start opens the app if needed and serves HTTP until Shutdown is called.
func (a *App) Start() error {
	if err := a.Open(context.Background()); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/style.css", a.handleStylesheet)
	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.POST("/__refresh", a.handleRefresh)

	e.GET("/", a.handleIndex)
	// Categories and post slugs share the top-level namespace.
	e.GET("/*", a.handlePage)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.refreshLimiter != nil {
		a.refreshLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) site() views.Site {
	return a.Config.site()
}

func (a *App) stylesheet() ([]byte, error) {
	return fs.ReadFile(EmbeddedAssets, "embedded/style.css")
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
