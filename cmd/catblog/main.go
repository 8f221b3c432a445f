package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/eringen/catblog"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			log.Fatalf("catblog: %v", err)
		}
	case "build":
		out := "public_html"
		if len(os.Args) >= 3 {
			out = os.Args[2]
		}
		if err := runBuild(out); err != nil {
			log.Fatalf("catblog: %v", err)
		}
	case "new":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: catblog new <project-name>")
			os.Exit(1)
		}
		if err := runNew(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("catblog %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// loadConfig builds the site config from environment variables, then
// fills the gaps from site.yaml.
func loadConfig() (catblog.SiteConfig, error) {
	excerpt, err := strconv.Atoi(catblog.EnvOr("EXCERPT_LENGTH", "0"))
	if err != nil {
		return catblog.SiteConfig{}, fmt.Errorf("EXCERPT_LENGTH: %w", err)
	}
	cfg := catblog.SiteConfig{
		Title:         os.Getenv("SITE_TITLE"),
		URL:           os.Getenv("SITE_URL"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Author:        os.Getenv("SITE_AUTHOR"),
		Addr:          catblog.EnvOr("ADDR", ":3000"),
		ContentDir:    catblog.EnvOr("CONTENT_DIR", "content/blog"),
		DatabasePath:  catblog.EnvOr("DATABASE_PATH", "data/catblog.db"),
		ExcerptLength: excerpt,
		RefreshToken:  os.Getenv("REFRESH_TOKEN"),
		LogLevel:      catblog.EnvOr("LOG_LEVEL", "info"),
	}
	meta, err := catblog.LoadSiteMetadata(catblog.EnvOr("SITE_CONFIG", "site.yaml"))
	if err != nil {
		return cfg, err
	}
	cfg.ApplyMetadata(meta)
	return cfg, nil
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app := catblog.New(cfg, catblog.WithStaticDir(catblog.EnvOr("STATIC_DIR", "public")))
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

func runBuild(out string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app := catblog.New(cfg, catblog.WithStaticDir(catblog.EnvOr("STATIC_DIR", "public")))
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := app.Build(ctx, out)
	if err != nil {
		return err
	}
	fmt.Printf("Built %d posts in %d categories (%d files) into %s\n", res.Posts, res.Categories, res.Files, out)
	return nil
}

func printUsage() {
	fmt.Println(`catblog - A category-filtered markdown blog built with Go, Echo, and templ

Usage:
  catblog <command> [arguments]

Commands:
  serve         Serve the site over HTTP
  build [dir]   Export the site as static files (default "public_html")
  new <name>    Create a new catblog site
  version       Print the catblog version
  help          Show this help message

Environment:
  SITE_URL, SITE_TITLE, SITE_DESCRIPTION, SITE_AUTHOR, SITE_CONFIG,
  ADDR, CONTENT_DIR, DATABASE_PATH, STATIC_DIR, EXCERPT_LENGTH,
  REFRESH_TOKEN, LOG_LEVEL

Examples:
  catblog new myblog
  catblog build dist`)
}
