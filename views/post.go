package views

import (
	"context"
	"html"

	"github.com/a-h/templ"

	"github.com/eringen/catblog/content"
	"github.com/eringen/catblog/markdown"
)

// PostPage renders a single post with links to its newer and older
// neighbours. Either neighbour may be nil.
func PostPage(site Site, post content.Post, previous, next *content.Post) templ.Component {
	description := post.Description
	if description == "" {
		description = html.UnescapeString(post.Excerpt)
	}
	meta := PageMeta{
		Title:       post.DisplayTitle(),
		Description: description,
		URL:         buildURL(site.URL, post.Slug),
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(site, post),
	}
	return Layout(site, meta, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<article class="blog-post" itemscope itemtype="http://schema.org/Article"><header><h1 itemprop="headline">`)
		h.text(post.DisplayTitle())
		h.raw(`</h1><p>`)
		h.text(post.DateString())
		if post.Category != "" {
			h.raw(` · <a`)
			h.attr("href", content.CategoryHref(post.Category))
			h.raw(`>`)
			h.text(post.Category)
			h.raw(`</a>`)
		}
		h.raw(`</p></header><section itemprop="articleBody">`)
		h.component(ctx, markdown.HTML(post.HTML))
		h.raw(`</section><hr/><footer>`)
		h.component(ctx, Bio(site))
		h.raw(`</footer></article>`)

		h.raw(`<nav class="blog-post-nav"><ul><li>`)
		if previous != nil {
			h.raw(`<a rel="prev"`)
			h.attr("href", previous.Href())
			h.raw(`>← `)
			h.text(previous.DisplayTitle())
			h.raw(`</a>`)
		}
		h.raw(`</li><li>`)
		if next != nil {
			h.raw(`<a rel="next"`)
			h.attr("href", next.Href())
			h.raw(`>`)
			h.text(next.DisplayTitle())
			h.raw(` →</a>`)
		}
		h.raw(`</li></ul></nav>`)
	}))
}
