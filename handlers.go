package catblog

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/catblog/content"
	"github.com/eringen/catblog/views"
)

func (a *App) handleIndex(c echo.Context) error {
	return a.renderListing(c, content.All())
}

// handlePage resolves /<name>/ to a category listing first, then to a post.
func (a *App) handlePage(c echo.Context) error {
	ctx := c.Request().Context()
	name, err := url.PathUnescape(strings.Trim(c.Request().URL.EscapedPath(), "/"))
	if err != nil {
		return echo.ErrNotFound
	}
	if name == "" {
		return a.renderListing(c, content.All())
	}

	if !strings.Contains(name, "/") {
		ok, err := a.Cache.HasCategory(ctx, name)
		if err != nil {
			return err
		}
		if ok {
			return a.renderListing(c, content.Only(name))
		}
	}

	post, previous, next, err := a.Cache.GetPost(ctx, "/"+name+"/")
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return Render(c, views.PostPage(a.site(), post, previous, next))
}

func (a *App) listing(c echo.Context, sel content.Selection) (views.Listing, error) {
	ctx := c.Request().Context()
	posts, err := a.Cache.ListPosts(ctx, content.All())
	if err != nil {
		return views.Listing{}, err
	}
	categories, err := a.Cache.ListCategories(ctx)
	if err != nil {
		return views.Listing{}, err
	}
	return views.Listing{
		Site:       a.site(),
		Posts:      posts,
		Categories: categories,
		Selection:  sel,
	}, nil
}

func (a *App) renderListing(c echo.Context, sel content.Selection) error {
	l, err := a.listing(c, sel)
	if err != nil {
		return err
	}
	return Render(c, views.ListingPage(l))
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := a.Cache.AllPosts(ctx)
	if err != nil {
		return err
	}
	categories, err := a.Cache.ListCategories(ctx)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return a.writeSitemap(c.Response(), posts, categories)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.AllPosts(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return a.writeRSS(c.Response(), posts)
}

// handleRobots generates robots.txt dynamically using the site URL.
func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, a.robots())
}

func (a *App) robots() string {
	return fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /__refresh\n\nSitemap: %s/sitemap.xml\n", strings.TrimRight(a.Config.URL, "/"))
}

func (a *App) handleStylesheet(c echo.Context) error {
	css, err := a.stylesheet()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", css)
}

// handleRefresh re-reads the content directory. It is only routed to a
// real handler when a refresh token is configured.
func (a *App) handleRefresh(c echo.Context) error {
	if a.Config.RefreshToken == "" {
		return echo.ErrNotFound
	}
	if !a.refreshLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many refresh requests. Try again later.")
	}
	token := c.Request().Header.Get("X-Refresh-Token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.Config.RefreshToken)) != 1 {
		return c.String(http.StatusUnauthorized, "Unauthorized")
	}
	n, err := a.Sync(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"posts": n})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
