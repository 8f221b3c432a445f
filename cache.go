package catblog

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/catblog/content"
)

// PostCache is an in-memory cache of the content index with TTL. Listings
// are filtered in memory.
type PostCache struct {
	mu         sync.RWMutex
	all        []content.Post
	listed     []content.Post
	categories []string
	loaded     bool
	fetched    time.Time
	ttl        time.Duration
	store      *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.loaded && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.all, c.listed, c.categories = nil, nil, nil
	c.loaded = false
	c.mu.Unlock()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	all, err := c.store.ListAllPosts(ctx)
	if err != nil {
		return err
	}
	listed, err := c.store.ListPosts(ctx)
	if err != nil {
		return err
	}
	categories, err := c.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	c.all, c.listed, c.categories = all, listed, categories
	c.loaded = true
	c.fetched = time.Now()
	return nil
}

type snapshot struct {
	all        []content.Post
	listed     []content.Post
	categories []string
}

// ensureLoaded returns the cached index after ensuring it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) (snapshot, error) {
	c.mu.RLock()
	if c.valid() {
		s := snapshot{c.all, c.listed, c.categories}
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return snapshot{}, err
	}
	return snapshot{c.all, c.listed, c.categories}, nil
}

// ListPosts returns the categorized posts matching sel, newest first.
func (c *PostCache) ListPosts(ctx context.Context, sel content.Selection) ([]content.Post, error) {
	s, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return content.FilterPosts(s.listed, sel), nil
}

// AllPosts returns every post, categorized or not, newest first.
func (c *PostCache) AllPosts(ctx context.Context) ([]content.Post, error) {
	s, err := c.ensureLoaded(ctx)
	return s.all, err
}

// ListCategories returns the distinct categories of the listed posts.
func (c *PostCache) ListCategories(ctx context.Context) ([]string, error) {
	s, err := c.ensureLoaded(ctx)
	return s.categories, err
}

// HasCategory reports whether category has at least one post.
func (c *PostCache) HasCategory(ctx context.Context, category string) (bool, error) {
	cats, err := c.ListCategories(ctx)
	if err != nil {
		return false, err
	}
	for _, cat := range cats {
		if cat == category {
			return true, nil
		}
	}
	return false, nil
}

// GetPost returns a post by slug together with its newer and older
// neighbours in the full post list. A slug the snapshot lacks is checked
// against the store, and a hit there reloads the snapshot before answering.
func (c *PostCache) GetPost(ctx context.Context, slug string) (post content.Post, previous, next *content.Post, err error) {
	s, err := c.ensureLoaded(ctx)
	if err != nil {
		return content.Post{}, nil, nil, err
	}
	if p, ok := findPost(s.all, slug); ok {
		previous, next = content.Neighbors(s.all, slug)
		return p, previous, next, nil
	}

	if _, err := c.store.GetPost(ctx, slug); err != nil {
		return content.Post{}, nil, nil, err
	}
	c.Invalidate()
	if s, err = c.ensureLoaded(ctx); err != nil {
		return content.Post{}, nil, nil, err
	}
	p, ok := findPost(s.all, slug)
	if !ok {
		return content.Post{}, nil, nil, ErrNotFound
	}
	previous, next = content.Neighbors(s.all, slug)
	return p, previous, next, nil
}

func findPost(posts []content.Post, slug string) (content.Post, bool) {
	for _, p := range posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return content.Post{}, false
}
