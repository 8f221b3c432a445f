// Package markdown renders post bodies to HTML and derives plain-text excerpts.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// DefaultExcerptLength is the excerpt size in runes, omission included.
const DefaultExcerptLength = 150

// Omission is appended to truncated excerpts.
const Omission = "…"

// Document is the result of rendering a markdown body.
type Document struct {
	HTML string
	// Text is the visible prose of the body with code blocks and raw HTML
	// left out and whitespace collapsed.
	Text string
}

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a Renderer with GFM, linkify and auto heading IDs.
// Raw HTML in posts is passed through.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(goldhtml.WithUnsafe()),
		),
	}
}

// Render parses src once and returns both its HTML and its plain text.
func (r *Renderer) Render(src []byte) (Document, error) {
	doc := r.md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return Document{}, fmt.Errorf("markdown render: %w", err)
	}
	plain, err := plainText(doc, src)
	if err != nil {
		return Document{}, fmt.Errorf("markdown text: %w", err)
	}
	return Document{HTML: buf.String(), Text: plain}, nil
}

func plainText(doc ast.Node, src []byte) (string, error) {
	var b strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				b.Write(node.Label(src))
			}
			return ast.WalkSkipChildren, nil
		}
		if !entering && n.Type() == ast.TypeBlock {
			b.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}

// Truncate cuts s to at most n runes. When s is longer, the result keeps
// n-1 runes and ends with Omission. Whitespace before the cut is kept,
// so "hello world" cut to 7 gives "hello …". n <= 0 falls back to DefaultExcerptLength.
func Truncate(s string, n int) string {
	if n <= 0 {
		n = DefaultExcerptLength
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	keep := n - utf8.RuneCountInString(Omission)
	if keep < 0 {
		keep = 0
	}
	i := 0
	for pos := range s {
		if i == keep {
			return s[:pos] + Omission
		}
		i++
	}
	return s
}

// Excerpt returns the excerpt markup for plain text: truncated to n runes
// and HTML-escaped.
func Excerpt(plain string, n int) string {
	return html.EscapeString(Truncate(plain, n))
}

// HTML returns a templ.Component that writes trusted, already-rendered HTML.
func HTML(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
}
