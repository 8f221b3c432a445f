package views

// Site holds site-wide metadata every page template needs.
type Site struct {
	Title       string // site.yaml title (default "Title")
	Description string
	Author      string
	URL         string // canonical base URL
	Bio         string // short author blurb shown on listings

	// EmptyMessage is shown instead of a listing when there are no posts.
	EmptyMessage string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
	IsRoot      bool // the index page renders the site title as <h1>
}
