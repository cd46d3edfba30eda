// Package highlight renders fenced code with chroma, using CSS classes so
// the colors live in one stylesheet instead of every span.
package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// ErrUnknownStyle indicates the chroma style name is not registered.
var ErrUnknownStyle = errors.New("unknown highlight style")

// Highlighter renders code as class-annotated spans without a surrounding
// <pre>. It is safe for concurrent use.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New creates a Highlighter for the named chroma style. An empty name
// selects DefaultStyle.
func New(styleName string) (*Highlighter, error) {
	if styleName == "" {
		styleName = DefaultStyle
	}
	style, ok := styles.Registry[styleName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, styleName)
	}

	return &Highlighter{
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}, nil
}

// Highlight renders code written in lang. It returns false when no lexer
// matches lang or tokenizing fails; callers then emit the code escaped.
func (h *Highlighter) Highlight(lang, code string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return "", false
	}
	return buf.String(), true
}

// CSS returns the stylesheet for the highlighter's style.
func (h *Highlighter) CSS() (string, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}

// Styles returns the registered style names, sorted.
func Styles() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}
