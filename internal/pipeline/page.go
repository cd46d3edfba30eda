package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
)

// ErrPageRender indicates the page template failed to render.
var ErrPageRender = errors.New("page template rendering failed")

// PageData holds the values of a standalone HTML page.
type PageData struct {
	Title string
	Lang  string
	CSS   string // concatenated stylesheets, sanitized before insertion
	Body  string // rendered, sanitized fragment
}

// pageView is what the template sees: trusted values are typed so
// html/template does not escape them again.
type pageView struct {
	Title string
	Lang  string
	CSS   template.CSS
	Body  template.HTML
}

// PageWrapper wraps a rendered fragment in a complete HTML5 document.
type PageWrapper struct {
	tmpl *template.Template
}

// NewPageWrapper creates a PageWrapper from template content.
// Returns error if the template cannot be parsed.
func NewPageWrapper(tmplContent string) (*PageWrapper, error) {
	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &PageWrapper{tmpl: tmpl}, nil
}

// Wrap renders the page. An empty title falls back to the text of the first
// <h1> in the body, then to "Document".
func (p *PageWrapper) Wrap(ctx context.Context, data PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	title := data.Title
	if title == "" {
		title = DocumentTitle(data.Body)
	}
	if title == "" {
		title = "Document"
	}
	lang := data.Lang
	if lang == "" {
		lang = "en"
	}

	view := pageView{
		Title: title,
		Lang:  lang,
		CSS:   template.CSS(sanitizeCSS(data.CSS)), // #nosec G203 -- closing sequences escaped
		Body:  template.HTML(data.Body),            // #nosec G203 -- body is sanitized by the converter
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// h1Pattern matches the first level-one heading and captures its inner HTML.
var h1Pattern = regexp.MustCompile(`(?is)<h1(?:\s[^>]*)?>(.*?)</h1>`)

// htmlTagPattern matches HTML tags for stripping from heading text.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// DocumentTitle returns the plain text of the first <h1> in fragment, or "".
func DocumentTitle(fragment string) string {
	m := h1Pattern.FindStringSubmatch(fragment)
	if m == nil {
		return ""
	}
	return stripHTMLTags(m[1])
}

// stripHTMLTags removes tags, decodes entities and trims whitespace.
// Decoding keeps the text from being double-encoded when the template
// escapes it again.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}
