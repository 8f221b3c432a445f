package catblog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eringen/catblog/content"
)

var testContent = map[string]string{
	"go-generics/index.md": "---\ntitle: Go Generics\ndate: 2024-03-01\ncategory: go\n---\nType parameters **arrived**.\n",
	"daily-life.md":        "---\ntitle: Daily Life\ndate: 2024-02-01\ncategory: life\n---\nA walk in the park.\n",
	"go-errors.md":         "---\ntitle: Go Errors\ndate: 2024-01-01\ncategory: go\n---\nWrap with %w.\n",
	"about.md":             "---\ntitle: About\ndate: 2023-12-01\n---\nNo category here.\n",
	"draft.md":             "---\ntitle: Draft\ndraft: true\ncategory: go\n---\nSecret.\n",
}

func newTestApp(t *testing.T, files map[string]string, opts ...Option) *App {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	for rel, body := range files {
		full := filepath.Join(contentDir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	opts = append([]Option{WithStaticDir(filepath.Join(dir, "public"))}, opts...)
	a := New(SiteConfig{
		Title:        "Test Blog",
		URL:          "https://blog.example.com",
		Author:       "Tester",
		ContentDir:   contentDir,
		DatabasePath: filepath.Join(dir, "data", "blog.db"),
		LogLevel:     "off",
		RefreshToken: "secret",
	}, opts...)
	if err := a.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func doRequest(a *App, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestIndexListsCategorizedPosts(t *testing.T) {
	a := newTestApp(t, testContent)
	rec := doRequest(a, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()

	for _, want := range []string{"Go Generics", "Daily Life", "Go Errors", `href="/go/"`, `href="/life/"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if strings.Contains(body, `href="/about/" itemprop="url"`) {
		t.Error("uncategorized post should not be listed")
	}
	if strings.Contains(body, "Draft") {
		t.Error("draft should not be listed")
	}
	if strings.Index(body, "Go Generics") > strings.Index(body, "Go Errors") {
		t.Error("posts should be newest first")
	}
}

func TestCategoryPageFilters(t *testing.T) {
	a := newTestApp(t, testContent)
	rec := doRequest(a, http.MethodGet, "/go/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, `<span itemprop="headline">Daily Life</span>`) {
		t.Error("life post should be filtered out of /go/")
	}
	if !strings.Contains(body, `<p style="font-weight: bold"><a href="/go/">go</a></p>`) {
		t.Error("go should be bold on its own page")
	}
	if !strings.Contains(body, `<a href="/life/">life</a>`) {
		t.Error("other categories should still be navigable")
	}
}

func TestCategoryRedirectsToTrailingSlash(t *testing.T) {
	a := newTestApp(t, testContent)
	rec := doRequest(a, http.MethodGet, "/go", nil)
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/go/" {
		t.Errorf("Location = %q, want /go/", loc)
	}
}

func TestCategoryLinksWithEscapedNames(t *testing.T) {
	a := newTestApp(t, map[string]string{
		"percent.md": "---\ntitle: Percent\ndate: 2024-01-03\ncategory: \"100%\"\n---\nAll of it.\n",
		"korean.md":  "---\ntitle: Korean\ndate: 2024-01-02\ncategory: 개발\n---\n안녕.\n",
		"literal.md": "---\ntitle: Literal\ndate: 2024-01-01\ncategory: a%20b\n---\nNot a space.\n",
	})
	index := doRequest(a, http.MethodGet, "/", nil).Body.String()

	tests := []struct {
		category string
		title    string
	}{
		{"100%", "Percent"},
		{"개발", "Korean"},
		{"a%20b", "Literal"},
	}
	for _, tt := range tests {
		href := content.CategoryHref(tt.category)
		if !strings.Contains(index, `href="`+href+`"`) {
			t.Errorf("index missing nav link %q", href)
			continue
		}
		rec := doRequest(a, http.MethodGet, href, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d, want 200", href, rec.Code)
			continue
		}
		body := rec.Body.String()
		if !strings.Contains(body, `<span itemprop="headline">`+tt.title+`</span>`) {
			t.Errorf("GET %s: missing post %q", href, tt.title)
		}
		if !strings.Contains(body, `<p style="font-weight: bold"><a href="`+href+`">`) {
			t.Errorf("GET %s: category should be bold", href)
		}
	}

	if rec := doRequest(a, http.MethodGet, "/a%20b/", nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET /a%%20b/: status = %d, want 404", rec.Code)
	}
}

func TestPostPage(t *testing.T) {
	a := newTestApp(t, testContent)
	rec := doRequest(a, http.MethodGet, "/go-generics/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>arrived</strong>") {
		t.Errorf("post body missing: %s", body)
	}
	if !strings.Contains(body, `rel="next" href="/daily-life/"`) {
		t.Error("next link should point at the older post")
	}

	rec = doRequest(a, http.MethodGet, "/about/", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("uncategorized post page status = %d, want 200", rec.Code)
	}
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	a := newTestApp(t, testContent)
	rec := doRequest(a, http.MethodGet, "/nothing-here/", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "404: Not Found") {
		t.Error("expected not found page")
	}
}

func TestEmptyContentShowsMessage(t *testing.T) {
	a := newTestApp(t, nil)
	rec := doRequest(a, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No blog posts found.") {
		t.Error("expected empty message")
	}
}

func TestFeedAndSitemap(t *testing.T) {
	a := newTestApp(t, testContent)

	rec := doRequest(a, http.MethodGet, "/feed.xml", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<link>https://blog.example.com/go-generics/</link>") {
		t.Errorf("feed missing post link: %s", rec.Body.String())
	}

	rec = doRequest(a, http.MethodGet, "/sitemap.xml", nil)
	body := rec.Body.String()
	if !strings.Contains(body, "<loc>https://blog.example.com/go/</loc>") {
		t.Errorf("sitemap missing category: %s", body)
	}
	if !strings.Contains(body, "<lastmod>2024-03-01</lastmod>") {
		t.Errorf("sitemap missing lastmod: %s", body)
	}
}

func TestRobots(t *testing.T) {
	a := newTestApp(t, testContent)
	rec := doRequest(a, http.MethodGet, "/robots.txt", nil)
	if !strings.Contains(rec.Body.String(), "Sitemap: https://blog.example.com/sitemap.xml") {
		t.Errorf("unexpected robots.txt: %s", rec.Body.String())
	}
}

func TestStylesheet(t *testing.T) {
	a := newTestApp(t, testContent)
	rec := doRequest(a, http.MethodGet, "/public/style.css", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), ".cat_nav") {
		t.Error("stylesheet content missing")
	}
}

func TestRefreshPicksUpNewPosts(t *testing.T) {
	a := newTestApp(t, testContent)
	path := filepath.Join(a.Config.ContentDir, "fresh.md")
	if err := os.WriteFile(path, []byte("---\ntitle: Fresh\ndate: 2024-05-01\ncategory: news\n---\nNew.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(a, http.MethodPost, "/__refresh", map[string]string{"X-Refresh-Token": "secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"posts":5`) {
		t.Errorf("unexpected refresh body: %s", rec.Body.String())
	}

	rec = doRequest(a, http.MethodGet, "/news/", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Fresh") {
		t.Errorf("new category not served after refresh: %d", rec.Code)
	}
}

func TestRefreshRejectsBadToken(t *testing.T) {
	a := newTestApp(t, testContent)
	rec := doRequest(a, http.MethodPost, "/__refresh", map[string]string{"X-Refresh-Token": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRefreshRateLimited(t *testing.T) {
	a := newTestApp(t, testContent, WithRefreshLimit(1, time.Minute))
	hdr := map[string]string{"X-Refresh-Token": "secret"}
	if rec := doRequest(a, http.MethodPost, "/__refresh", hdr); rec.Code != http.StatusOK {
		t.Fatalf("first refresh status = %d", rec.Code)
	}
	if rec := doRequest(a, http.MethodPost, "/__refresh", hdr); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second refresh status = %d, want 429", rec.Code)
	}
}

func TestRefreshDisabledWithoutToken(t *testing.T) {
	a := newTestApp(t, testContent)
	a.Config.RefreshToken = ""
	rec := doRequest(a, http.MethodPost, "/__refresh", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestOpenFailsOnBadContent(t *testing.T) {
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(contentDir, "bad.md"), []byte("---\ndate: someday\n---\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := New(SiteConfig{ContentDir: contentDir, DatabasePath: filepath.Join(dir, "blog.db"), LogLevel: "off"})
	defer a.Close()
	if err := a.Open(context.Background()); err == nil {
		t.Fatal("expected Open to fail on malformed post")
	}
}
