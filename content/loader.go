package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/eringen/catblog/markdown"
)

// Loader reads every markdown post under Root.
type Loader struct {
	Root          string
	ExcerptLength int

	renderer *markdown.Renderer
	validate *validator.Validate
}

// NewLoader returns a Loader for root. excerptLength <= 0 uses
// markdown.DefaultExcerptLength.
func NewLoader(root string, renderer *markdown.Renderer, excerptLength int) *Loader {
	if renderer == nil {
		renderer = markdown.NewRenderer()
	}
	if excerptLength <= 0 {
		excerptLength = markdown.DefaultExcerptLength
	}
	return &Loader{
		Root:          root,
		ExcerptLength: excerptLength,
		renderer:      renderer,
		validate:      NewValidator(),
	}
}

// Load walks Root and returns the published posts sorted by date
// descending. A missing root yields no posts. Any malformed file aborts
// the load.
func (l *Loader) Load(ctx context.Context) ([]Post, error) {
	if _, err := os.Stat(l.Root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var posts []Post
	seen := make(map[string]string)
	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != l.Root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(name) {
			return nil
		}
		rel, err := filepath.Rel(l.Root, path)
		if err != nil {
			return err
		}
		post, ok, err := l.LoadFile(rel)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if prev, dup := seen[post.Slug]; dup {
			return fmt.Errorf("content: %s and %s share slug %s", prev, rel, post.Slug)
		}
		seen[post.Slug] = rel
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortPosts(posts)
	return posts, nil
}

// LoadFile reads a single post at rel, relative to Root. ok is false for
// drafts.
func (l *Loader) LoadFile(rel string) (post Post, ok bool, err error) {
	full := filepath.Join(l.Root, rel)
	source, err := os.ReadFile(full)
	if err != nil {
		return Post{}, false, fmt.Errorf("content: read %s: %w", rel, err)
	}
	fm, body, err := ParseFrontMatter(l.validate, source)
	if err != nil {
		return Post{}, false, fmt.Errorf("content: %s: %w", rel, err)
	}
	if fm.Draft {
		return Post{}, false, nil
	}

	var slug string
	if fm.Slug != "" {
		slug, err = NormalizeSlug(fm.Slug)
	} else {
		slug, err = SlugFromPath(rel)
	}
	if err != nil {
		return Post{}, false, fmt.Errorf("content: %s: %w", rel, err)
	}

	date, err := l.postDate(fm.Date, full)
	if err != nil {
		return Post{}, false, fmt.Errorf("content: %s: %w", rel, err)
	}

	doc, err := l.renderer.Render(body)
	if err != nil {
		return Post{}, false, fmt.Errorf("content: %s: %w", rel, err)
	}

	return Post{
		Slug:        slug,
		Title:       fm.Title,
		Date:        date,
		Description: fm.Description,
		Category:    fm.Category,
		Excerpt:     markdown.Excerpt(doc.Text, l.ExcerptLength),
		HTML:        doc.HTML,
		Source:      filepath.ToSlash(rel),
	}, true, nil
}

func (l *Loader) postDate(raw, full string) (t time.Time, err error) {
	if raw != "" {
		return ParseDate(raw)
	}
	info, err := os.Stat(full)
	if err != nil {
		return t, err
	}
	return info.ModTime().UTC(), nil
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
