package catblog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/natefinch/atomic"

	"github.com/eringen/catblog/content"
	"github.com/eringen/catblog/views"
)

// BuildResult summarizes a static export.
type BuildResult struct {
	Posts      int
	Categories int
	Files      int
}

// Build exports the whole site as static files under outDir. Every file is
// replaced atomically, so a server reading outDir never sees a partial page.
// When a category and a post share a path, the category listing wins, as it
// does when serving live.
func (a *App) Build(ctx context.Context, outDir string) (BuildResult, error) {
	var res BuildResult
	if err := a.Open(ctx); err != nil {
		return res, err
	}

	all, err := a.Cache.AllPosts(ctx)
	if err != nil {
		return res, err
	}
	listed, err := a.Cache.ListPosts(ctx, content.All())
	if err != nil {
		return res, err
	}
	categories, err := a.Cache.ListCategories(ctx)
	if err != nil {
		return res, err
	}
	site := a.site()

	b := &builder{ctx: ctx, out: outDir}

	for _, p := range all {
		previous, next := content.Neighbors(all, p.Slug)
		b.component(slugPath(p.Slug), views.PostPage(site, p, previous, next))
	}
	for _, c := range categories {
		b.component(filepath.Join(c, "index.html"), views.ListingPage(views.Listing{
			Site: site, Posts: listed, Categories: categories, Selection: content.Only(c),
		}))
	}
	b.component("index.html", views.ListingPage(views.Listing{
		Site: site, Posts: listed, Categories: categories, Selection: content.All(),
	}))
	b.component("404.html", views.NotFound(site))
	b.file("sitemap.xml", func(w io.Writer) error { return a.writeSitemap(w, all, categories) })
	b.file("feed.xml", func(w io.Writer) error { return a.writeRSS(w, all) })
	b.file("robots.txt", func(w io.Writer) error {
		_, err := io.WriteString(w, a.robots())
		return err
	})
	b.file(filepath.Join("public", "style.css"), func(w io.Writer) error {
		css, err := a.stylesheet()
		if err != nil {
			return err
		}
		_, err = w.Write(css)
		return err
	})
	b.copyDir(a.staticDir, "public")

	if b.err != nil {
		return res, fmt.Errorf("catblog: build: %w", b.err)
	}
	res = BuildResult{Posts: len(all), Categories: len(categories), Files: b.files}
	a.Echo.Logger.Infof("built %d files (%d posts, %d categories) into %s", res.Files, res.Posts, res.Categories, outDir)
	return res, nil
}

var errOutsideOutput = errors.New("path escapes the output directory")

// slugPath maps "/a/b/" to "a/b/index.html".
func slugPath(slug string) string {
	return filepath.Join(filepath.FromSlash(strings.Trim(slug, "/")), "index.html")
}

// builder writes files under out and keeps the first error.
type builder struct {
	ctx   context.Context
	out   string
	files int
	err   error
}

func (b *builder) file(rel string, write func(w io.Writer) error) {
	if b.err != nil {
		return
	}
	if b.err = b.ctx.Err(); b.err != nil {
		return
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		b.err = fmt.Errorf("%s: %w", rel, err)
		return
	}
	dst, err := b.path(rel)
	if err != nil {
		b.err = err
		return
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		b.err = err
		return
	}
	if err := atomic.WriteFile(dst, &buf); err != nil {
		b.err = fmt.Errorf("%s: %w", rel, err)
		return
	}
	b.files++
}

// path joins rel onto out and refuses anything that would land outside it.
func (b *builder) path(rel string) (string, error) {
	out := filepath.Clean(b.out)
	dst := filepath.Join(out, rel)
	r, err := filepath.Rel(out, dst)
	if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%s: %w", rel, errOutsideOutput)
	}
	return dst, nil
}

func (b *builder) component(rel string, c templ.Component) {
	b.file(rel, func(w io.Writer) error { return c.Render(b.ctx, w) })
}

// copyDir copies the user's static directory into the export. A missing
// directory is skipped. The embedded stylesheet is not overwritten.
func (b *builder) copyDir(src, dstRel string) {
	if b.err != nil {
		return
	}
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return
	}
	b.err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if filepath.ToSlash(rel) == "style.css" {
			return nil
		}
		b.file(filepath.Join(dstRel, rel), func(w io.Writer) error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			_, err = io.Copy(w, f)
			return err
		})
		return b.err
	})
}
