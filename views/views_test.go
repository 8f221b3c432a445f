package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/catblog/content"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return buf.String()
}

func testSite() Site {
	return Site{
		Title:        "Dev Log",
		URL:          "https://example.com",
		Author:       "Kim",
		Bio:          "writes about Go.",
		EmptyMessage: "No blog posts found.",
	}
}

func testPosts() []content.Post {
	d := func(s string) time.Time {
		t, _ := time.Parse(content.DateLayout, s)
		return t
	}
	return []content.Post{
		{Slug: "/third/", Title: "Third", Category: "go", Date: d("2024-03-01"), Excerpt: "third &amp; last"},
		{Slug: "/second/", Title: "", Category: "life", Date: d("2024-02-01"), Excerpt: "second"},
		{Slug: "/first/", Title: "First", Category: "go", Date: d("2024-01-01"), Excerpt: "first"},
	}
}

func TestListingAllShowsEveryPost(t *testing.T) {
	posts := testPosts()
	got := render(t, ListingPage(Listing{
		Site:       testSite(),
		Posts:      posts,
		Categories: content.DistinctCategories(posts),
		Selection:  content.All(),
	}))

	for _, want := range []string{`href="/third/"`, `href="/second/"`, `href="/first/"`} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s", want)
		}
	}
	if !strings.Contains(got, `<p style="font-weight: bold"><a href="/">All</a></p>`) {
		t.Errorf("All should be bold when nothing is selected")
	}
	if !strings.Contains(got, `<p style="font-weight: normal"><a href="/go/">go</a></p>`) {
		t.Errorf("category link should be normal weight: %s", got)
	}
	if !strings.Contains(got, `<h1 class="main-heading">`) {
		t.Errorf("index should render the root heading")
	}
	if !strings.Contains(got, "<title>All posts | Dev Log</title>") {
		t.Errorf("unexpected title")
	}
}

func TestListingCategoryFiltersInOrder(t *testing.T) {
	posts := testPosts()
	got := render(t, ListingBody(Listing{
		Site:       testSite(),
		Posts:      posts,
		Categories: content.DistinctCategories(posts),
		Selection:  content.Only("go"),
	}))

	if strings.Contains(got, `href="/second/"`) {
		t.Errorf("life post should be filtered out")
	}
	third := strings.Index(got, `href="/third/"`)
	first := strings.Index(got, `href="/first/"`)
	if third < 0 || first < 0 || third > first {
		t.Errorf("expected /third/ before /first/, got %d and %d", third, first)
	}
	if !strings.Contains(got, `<p style="font-weight: bold"><a href="/go/">go</a></p>`) {
		t.Errorf("selected category should be bold")
	}
	if !strings.Contains(got, `<p style="font-weight: normal"><a href="/">All</a></p>`) {
		t.Errorf("All should be normal weight when a category is selected")
	}
}

func TestListingEmptyShowsMessageForAnySelection(t *testing.T) {
	for _, sel := range []content.Selection{content.All(), content.Only("go")} {
		got := render(t, ListingBody(Listing{Site: testSite(), Selection: sel}))
		if !strings.Contains(got, `<p class="empty">No blog posts found.</p>`) {
			t.Errorf("empty message missing: %s", got)
		}
		if strings.Contains(got, "cat_nav") || strings.Contains(got, "<ol") {
			t.Errorf("empty listing must not render nav or list")
		}
	}
}

func TestPostSummaryMarkup(t *testing.T) {
	got := render(t, PostSummary(testPosts()[1]))
	want := `<li><article class="post-list-item" itemscope itemtype="http://schema.org/Article">` +
		`<a href="/second/" itemprop="url"><header><h2><span itemprop="headline">/second/</span></h2>` +
		`<small>2024-02-01</small></header><section><p itemprop="excerpt">second</p></section></a></article></li>`
	if got != want {
		t.Errorf("PostSummary =\n%s\nwant\n%s", got, want)
	}
}

func TestPostSummaryKeepsExcerptMarkup(t *testing.T) {
	got := render(t, PostSummary(testPosts()[0]))
	if !strings.Contains(got, "third &amp; last") {
		t.Errorf("excerpt should be written as-is: %s", got)
	}
}

func TestCategoryNavEscapes(t *testing.T) {
	got := render(t, CategoryNav([]string{`a"b`, "개발"}, content.All()))
	if !strings.Contains(got, `href="/a%22b/"`) {
		t.Errorf("category href not escaped: %s", got)
	}
	if !strings.Contains(got, `>a&#34;b</a>`) {
		t.Errorf("category text not escaped: %s", got)
	}
	if !strings.Contains(got, `href="/%EA%B0%9C%EB%B0%9C/"`) {
		t.Errorf("non-ascii category not escaped: %s", got)
	}
}

func TestPostPageNeighbors(t *testing.T) {
	posts := testPosts()
	prev, next := content.Neighbors(posts, "/second/")
	p := posts[1]
	p.HTML = "<p>Body</p>"
	got := render(t, PostPage(testSite(), p, prev, next))

	if !strings.Contains(got, `<section itemprop="articleBody"><p>Body</p></section>`) {
		t.Errorf("body missing: %s", got)
	}
	if !strings.Contains(got, `<a rel="prev" href="/third/">← Third</a>`) {
		t.Errorf("prev link missing: %s", got)
	}
	if !strings.Contains(got, `<a rel="next" href="/first/">First →</a>`) {
		t.Errorf("next link missing: %s", got)
	}
	if !strings.Contains(got, `<a href="/life/">life</a>`) {
		t.Errorf("category link missing")
	}
	if !strings.Contains(got, `class="header-link-home"`) {
		t.Errorf("post page should use the small header")
	}
}

func TestBioOmittedWithoutAuthor(t *testing.T) {
	if got := render(t, Bio(Site{})); got != "" {
		t.Errorf("Bio = %q, want empty", got)
	}
}

func TestNotFound(t *testing.T) {
	got := render(t, NotFound(testSite()))
	if !strings.Contains(got, "404: Not Found") {
		t.Errorf("not found page missing heading")
	}
}

func TestServerError(t *testing.T) {
	got := render(t, ServerError(testSite()))
	if !strings.Contains(got, "<title>Server Error") {
		t.Errorf("server error page missing title: %s", got)
	}
	if !strings.Contains(got, "Something went wrong") {
		t.Errorf("server error page missing heading")
	}
}

func TestWebsiteJsonLD(t *testing.T) {
	got := WebsiteJsonLD(testSite())
	if !strings.Contains(got, `"url":"https://example.com"`) {
		t.Errorf("unexpected JSON-LD: %s", got)
	}
	if !strings.Contains(got, `"name":"Kim"`) {
		t.Errorf("author missing: %s", got)
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	got := BlogPostingJsonLD(testSite(), testPosts()[0])
	if !strings.Contains(got, `"url":"https://example.com/third/"`) {
		t.Errorf("unexpected post url: %s", got)
	}
	if !strings.Contains(got, `"articleSection":"go"`) {
		t.Errorf("category missing: %s", got)
	}
}
