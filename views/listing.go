package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/catblog/content"
)

// Listing is everything a post index or category page renders from.
type Listing struct {
	Site       Site
	Posts      []content.Post // categorized posts, newest first
	Categories []string
	Selection  content.Selection
}

// ListingPage renders a full index or category page.
func ListingPage(l Listing) templ.Component {
	meta := PageMeta{
		Title:  "All posts",
		URL:    buildURL(l.Site.URL),
		OGType: "website",
		JSONLD: WebsiteJsonLD(l.Site),
		IsRoot: l.Selection.IsAll(),
	}
	if c, ok := l.Selection.Category(); ok {
		meta.Title = c
		meta.URL = buildURL(l.Site.URL, c)
	}
	return Layout(l.Site, meta, ListingBody(l))
}

// ListingBody renders the bio, the category navigation and the filtered
// post list. An empty post list renders the site's empty message instead,
// whatever the selection.
func ListingBody(l Listing) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.component(ctx, Bio(l.Site))
		if len(l.Posts) == 0 {
			h.raw(`<p class="empty">`)
			h.text(l.Site.EmptyMessage)
			h.raw(`</p>`)
			return
		}
		h.component(ctx, CategoryNav(l.Categories, l.Selection))
		h.component(ctx, PostList(content.FilterPosts(l.Posts, l.Selection)))
	})
}

// CategoryNav renders "All" followed by one link per category, with the
// selected entry in bold.
func CategoryNav(categories []string, sel content.Selection) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="cat_nav">`)
		h.raw(`<p style="font-weight: `, NavWeight(sel.IsAll()), `"><a href="/">All</a></p>`)
		for _, c := range categories {
			h.raw(`<p style="font-weight: `, NavWeight(sel.Selects(c)), `"><a`)
			h.attr("href", content.CategoryHref(c))
			h.raw(`>`)
			h.text(c)
			h.raw(`</a></p>`)
		}
		h.raw(`</div>`)
	})
}

// PostList renders post summaries as an unstyled ordered list.
func PostList(posts []content.Post) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<ol style="list-style: none">`)
		for _, p := range posts {
			h.component(ctx, PostSummary(p))
		}
		h.raw(`</ol>`)
	})
}

// PostSummary renders one list entry: headline, date and excerpt inside a
// link to the post.
func PostSummary(p content.Post) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<li><article class="post-list-item" itemscope itemtype="http://schema.org/Article"><a`)
		h.attr("href", p.Href())
		h.raw(` itemprop="url"><header><h2><span itemprop="headline">`)
		h.text(p.DisplayTitle())
		h.raw(`</span></h2><small>`)
		h.text(p.DateString())
		h.raw(`</small></header><section><p itemprop="excerpt">`)
		h.raw(p.Excerpt)
		h.raw(`</p></section></a></article></li>`)
	})
}
