package catblog

import (
	"context"
	"fmt"

	"github.com/eringen/catblog/content"
)

// Sync reloads every post from the content directory into the store and
// drops the cache. The previous index stays in place when loading fails.
func (a *App) Sync(ctx context.Context) (int, error) {
	posts, err := a.loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("catblog: load content: %w", err)
	}
	if err := a.Store.ReplaceAll(ctx, posts); err != nil {
		return 0, fmt.Errorf("catblog: index content: %w", err)
	}
	a.Cache.Invalidate()
	a.Echo.Logger.Infof("indexed %d posts (%d listed) from %s", len(posts), len(content.Categorized(posts)), a.Config.ContentDir)
	return len(posts), nil
}
