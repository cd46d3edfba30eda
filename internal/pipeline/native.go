package pipeline

import (
	"context"
	"strings"
)

// NativeConverter renders Markdown with the built-in two-phase parser.
// It holds no mutable state and is safe for concurrent use.
type NativeConverter struct {
	hl Highlighter
}

// NewNativeConverter creates a NativeConverter. hl may be nil.
func NewNativeConverter(hl Highlighter) *NativeConverter {
	return &NativeConverter{hl: hl}
}

// Render converts Markdown to an HTML fragment. It never fails: input that
// matches no rule is emitted as text.
func (c *NativeConverter) Render(content string) string {
	out, _ := c.render(context.Background(), content)
	return out
}

// ToHTML implements HTMLConverter. A done ctx stops the conversion between
// stages and between blocks.
func (c *NativeConverter) ToHTML(ctx context.Context, content string) (string, error) {
	return c.render(ctx, content)
}

// render runs the stages in a fixed order: fenced code is lifted out first
// so nothing after it sees code bodies, the text is sanitized before and
// after block parsing, and code is put back last.
func (c *NativeConverter) render(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if content == "" {
		return "", nil
	}

	table := &codeTable{}
	content = normalize(content)
	content = extractCodeBlocks(content, table)
	content = Sanitize(content)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out, err := renderBlocks(ctx, scanBlocks(splitLines(content)))
	if err != nil {
		return "", err
	}

	out = Sanitize(out)
	out = reinsert(out, table, c.hl)
	return strings.TrimSpace(out), nil
}

// Render converts Markdown to an HTML fragment with default settings.
func Render(content string) string {
	return defaultNative.Render(content)
}

var defaultNative = NewNativeConverter(nil)
