package content

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidSlug is returned for slugs that cannot be used as a URL path.
var ErrInvalidSlug = errors.New("invalid slug")

// SlugFromPath derives a post slug from a path relative to the content
// root: "hello-world/index.md" and "hello-world.md" both become
// "/hello-world/".
func SlugFromPath(rel string) (string, error) {
	p := filepath.ToSlash(rel)
	p = strings.TrimSuffix(p, path.Ext(p))
	if path.Base(p) == "index" {
		p = path.Dir(p)
	}
	return NormalizeSlug(p)
}

// NormalizeSlug cleans s into the "/a/b/" form. The root slug and any
// slug containing "." or ".." segments are rejected.
func NormalizeSlug(s string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(s), "/")
	if trimmed == "" || trimmed == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlug, s)
	}
	for _, seg := range strings.Split(trimmed, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidSlug, s)
		}
	}
	return "/" + trimmed + "/", nil
}
