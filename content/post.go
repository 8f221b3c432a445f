// Package content loads markdown posts from disk and holds the pure
// projections the pages are built from: category derivation and
// selection filtering.
package content

import (
	"net/url"
	"time"
)

// DateLayout is the display and storage format for publication dates.
const DateLayout = "2006-01-02"

// Post is a loaded markdown post. Posts are immutable once loaded.
type Post struct {
	Slug        string // "/hello-world/"
	Title       string
	Date        time.Time
	Description string
	Category    string // empty means the post has no category
	Excerpt     string // escaped excerpt markup
	HTML        string
	Source      string // path relative to the content root
}

// DisplayTitle returns the title, falling back to the slug.
func (p Post) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Slug
}

// DateString formats the publication date as YYYY-MM-DD.
func (p Post) DateString() string {
	if p.Date.IsZero() {
		return ""
	}
	return p.Date.Format(DateLayout)
}

// Href returns the escaped URL path of the post.
func (p Post) Href() string {
	return (&url.URL{Path: p.Slug}).EscapedPath()
}

// CategoryHref returns the listing path for a category.
func CategoryHref(category string) string {
	return "/" + url.PathEscape(category) + "/"
}
