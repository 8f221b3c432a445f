package catblog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"gopkg.in/yaml.v3"

	"github.com/eringen/catblog/markdown"
	"github.com/eringen/catblog/views"
)

// DefaultEmptyMessage is shown on listings when the content root holds no posts.
const DefaultEmptyMessage = `No blog posts found. Add markdown posts to "content/blog" (or the directory you set as CONTENT_DIR).`

// SiteConfig holds all configuration for a catblog site.
type SiteConfig struct {
	Title       string // Site title (default "Title")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for the bio and JSON-LD
	Bio         string // Short author blurb

	// Canonical URL (default "http://localhost:3000")
	URL string `validate:"required,url"`

	Addr         string `validate:"required"` // default ":3000"
	ContentDir   string `validate:"required"` // default "content/blog"
	DatabasePath string `validate:"required"` // default "data/catblog.db"

	ExcerptLength int    `validate:"gt=0"` // runes, default 150
	EmptyMessage  string // Listing text when there are no posts

	// RefreshToken enables POST /__refresh when set.
	RefreshToken string

	LogLevel     string        `validate:"oneof=debug info warn error off"` // default "info"
	PostCacheTTL time.Duration // default 5min
}

func (c *SiteConfig) setDefaults() {
	if c.Title == "" {
		c.Title = "Title"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/blog"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/catblog.db"
	}
	if c.ExcerptLength == 0 {
		c.ExcerptLength = markdown.DefaultExcerptLength
	}
	if c.EmptyMessage == "" {
		c.EmptyMessage = DefaultEmptyMessage
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Validate checks the configuration after defaults are applied.
func (c SiteConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("catblog: invalid config: %w", err)
	}
	return nil
}

func (c SiteConfig) site() views.Site {
	return views.Site{
		Title:        c.Title,
		Description:  c.Description,
		Author:       c.Author,
		URL:          strings.TrimRight(c.URL, "/"),
		Bio:          c.Bio,
		EmptyMessage: c.EmptyMessage,
	}
}

func (c SiteConfig) logLevel() log.Lvl {
	switch c.LogLevel {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}

// SiteMetadata is the site.yaml file: the site-wide fields authors edit
// alongside their posts.
type SiteMetadata struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	SiteURL     string `yaml:"siteUrl"`
	Author      struct {
		Name    string `yaml:"name"`
		Summary string `yaml:"summary"`
	} `yaml:"author"`
	EmptyMessage string `yaml:"emptyMessage"`
}

// LoadSiteMetadata reads a site.yaml file. A missing file returns the
// zero value and no error.
func LoadSiteMetadata(path string) (SiteMetadata, error) {
	var m SiteMetadata
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("catblog: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("catblog: parse %s: %w", path, err)
	}
	return m, nil
}

// ApplyMetadata fills unset config fields from site metadata.
func (c *SiteConfig) ApplyMetadata(m SiteMetadata) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = strings.TrimSpace(v)
		}
	}
	fill(&c.Title, m.Title)
	fill(&c.Description, m.Description)
	fill(&c.URL, m.SiteURL)
	fill(&c.Author, m.Author.Name)
	fill(&c.Bio, m.Author.Summary)
	fill(&c.EmptyMessage, m.EmptyMessage)
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithRefreshLimit sets how many refresh requests one IP may make per window.
func WithRefreshLimit(max int, window time.Duration) Option {
	return func(a *App) {
		a.refreshMax = max
		a.refreshWindow = window
	}
}
