package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkOptions configures a GoldmarkConverter.
type GoldmarkOptions struct {
	Highlight      bool   // chroma syntax highlighting for fenced code
	HighlightStyle string // chroma style name, used only for inline colors
}

// GoldmarkConverter converts Markdown to HTML using goldmark (CommonMark + GFM).
// Raw HTML is rendered and then filtered by the strict policy, so passthrough
// never bypasses sanitization.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions.
func NewGoldmarkConverter(opts GoldmarkOptions) *GoldmarkConverter {
	extensions := []goldmark.Extender{
		extension.GFM, // Tables, strikethrough, autolinks, task lists
	}
	if opts.Highlight {
		hlOpts := []highlighting.Option{
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true), // styled by the page stylesheet
			),
		}
		if opts.HighlightStyle != "" {
			hlOpts = append(hlOpts, highlighting.WithStyle(opts.HighlightStyle))
		}
		extensions = append(extensions, highlighting.NewHighlighting(hlOpts...))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(), // filtered by StrictSanitize below
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to a sanitized HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: strings.TrimSpace(StrictSanitize(buf.String()))}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
