package views

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// Layout wraps body in the document shell shared by every page.
func Layout(site Site, meta PageMeta, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		title := site.Title
		if meta.Title != "" && meta.Title != site.Title {
			title = meta.Title + " | " + site.Title
		}
		description := meta.Description
		if description == "" {
			description = site.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title>`)
		if description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", description)
			h.raw(`>`)
		}
		if meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", meta.URL)
			h.raw(`><meta property="og:url"`)
			h.attr("content", meta.URL)
			h.raw(`>`)
		}
		h.raw(`<meta property="og:title"`)
		h.attr("content", title)
		h.raw(`><meta property="og:type"`)
		h.attr("content", ogType)
		h.raw(`>`)
		h.raw(`<link rel="stylesheet" href="/public/style.css">`)
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"`)
		h.attr("title", site.Title)
		h.raw(`>`)
		if meta.JSONLD != "" {
			// json.Marshal escapes <, > and &, so the payload cannot close the tag.
			h.raw(`<script type="application/ld+json">`, meta.JSONLD, `</script>`)
		}
		h.raw(`</head><body><div class="global-wrapper"`)
		h.attr("data-is-root-path", strconv.FormatBool(meta.IsRoot))
		h.raw(`><header class="global-header">`)
		if meta.IsRoot {
			h.raw(`<h1 class="main-heading"><a href="/">`)
			h.text(site.Title)
			h.raw(`</a></h1>`)
		} else {
			h.raw(`<a class="header-link-home" href="/">`)
			h.text(site.Title)
			h.raw(`</a>`)
		}
		h.raw(`</header><main>`)
		h.component(ctx, body)
		h.raw(`</main><footer>© `, strconv.Itoa(time.Now().Year()), `, `)
		h.text(site.Title)
		h.raw(`</footer></div></body></html>`)
	})
}

// Bio renders the author blurb. It renders nothing without an author.
func Bio(site Site) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		if site.Author == "" {
			return
		}
		h.raw(`<div class="bio"><p>Written by <strong>`)
		h.text(site.Author)
		h.raw(`</strong>`)
		if site.Bio != "" {
			h.raw(` `)
			h.text(site.Bio)
		}
		h.raw(`</p></div>`)
	})
}
