package views

import (
	"context"

	"github.com/a-h/templ"
)

// NotFound renders the 404 page, served for unknown paths and exported as
// 404.html.
func NotFound(site Site) templ.Component {
	return Layout(site, PageMeta{Title: "404: Not Found"}, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>404: Not Found</h1><p>You just hit a route that doesn&#39;t exist.</p><p><a href="/">Back to all posts</a></p>`)
	}))
}

// ServerError renders the page shown when a handler fails with a 5xx.
func ServerError(site Site) templ.Component {
	return Layout(site, PageMeta{Title: "Server Error"}, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Something went wrong</h1><p>Please try again in a moment.</p>`)
	}))
}
