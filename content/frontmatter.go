package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/go-playground/validator/v10"
)

// FrontMatter is the metadata block at the top of a post file.
type FrontMatter struct {
	Title       string `yaml:"title" validate:"max=300"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Category    string `yaml:"category" validate:"omitempty,max=64,excludesall=/?#,category"`
	Slug        string `yaml:"slug" validate:"omitempty,excludesall=?#"`
	Draft       bool   `yaml:"draft"`
}

// reservedCategories are names a category listing cannot take because the
// site already serves or exports something at that path.
var reservedCategories = []string{
	".", "..", "public", "index.html", "404.html",
	"feed.xml", "sitemap.xml", "robots.txt", "__refresh",
}

// NewValidator returns a validator that knows the "category" tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return ValidCategory(fl.Field().String())
	})
	return v
}

// ValidCategory reports whether name can be used as the single path segment
// of a category listing.
func ValidCategory(name string) bool {
	if name == "" || strings.ContainsAny(name, "/\\?#") {
		return false
	}
	for _, r := range reservedCategories {
		if strings.EqualFold(name, r) {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseFrontMatter splits source into validated metadata and the markdown
// body. A file without a frontmatter block yields empty metadata.
func ParseFrontMatter(v *validator.Validate, source []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &fm)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	fm.Title = strings.TrimSpace(fm.Title)
	fm.Category = strings.TrimSpace(fm.Category)
	fm.Date = strings.TrimSpace(fm.Date)
	if err := v.Struct(fm); err != nil {
		return FrontMatter{}, nil, fmt.Errorf("validate frontmatter: %w", err)
	}
	return fm, body, nil
}

// ParseDate accepts a calendar date, RFC 3339, or a space separated
// date-time. Dates without a zone are UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
