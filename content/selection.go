package content

import (
	"slices"
	"sort"
	"strings"
)

// Selection is the category a listing is narrowed to. The zero value
// selects all posts.
type Selection struct {
	category string
	set      bool
}

// All returns the selection that shows every post.
func All() Selection {
	return Selection{}
}

// Only selects a single category. Blank categories select all posts.
func Only(category string) Selection {
	category = strings.TrimSpace(category)
	if category == "" {
		return All()
	}
	return Selection{category: category, set: true}
}

// Category returns the selected category and whether one is set.
func (s Selection) Category() (string, bool) {
	return s.category, s.set
}

// IsAll reports whether no category is selected.
func (s Selection) IsAll() bool {
	return !s.set
}

// Selects reports whether category is the selected one.
func (s Selection) Selects(category string) bool {
	return s.set && s.category == category
}

// Matches reports whether p belongs in a listing under this selection.
func (s Selection) Matches(p Post) bool {
	return !s.set || p.Category == s.category
}

// FilterPosts returns the posts matching sel in their original order.
// The input slice is never modified.
func FilterPosts(posts []Post, sel Selection) []Post {
	if sel.IsAll() {
		return slices.Clone(posts)
	}
	var out []Post
	for _, p := range posts {
		if sel.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Categorized returns the posts that carry a category, preserving order.
func Categorized(posts []Post) []Post {
	var out []Post
	for _, p := range posts {
		if strings.TrimSpace(p.Category) != "" {
			out = append(out, p)
		}
	}
	return out
}

// DistinctCategories returns the sorted set of non-empty categories.
func DistinctCategories(posts []Post) []string {
	set := make(map[string]struct{})
	for _, p := range posts {
		if c := strings.TrimSpace(p.Category); c != "" {
			set[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// SortPosts orders posts by date descending, then slug ascending.
func SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Slug < posts[j].Slug
	})
}

// Neighbors returns the posts before and after slug in posts. Previous is
// the newer post, next the older one. Either may be nil.
func Neighbors(posts []Post, slug string) (previous, next *Post) {
	for i := range posts {
		if posts[i].Slug != slug {
			continue
		}
		if i > 0 {
			previous = &posts[i-1]
		}
		if i+1 < len(posts) {
			next = &posts[i+1]
		}
		return previous, next
	}
	return nil, nil
}
