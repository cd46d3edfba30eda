package pipeline

import "strings"

// Highlighter renders the body of a fenced code block as highlighted HTML.
// It returns false when it cannot handle the language; the body is then
// escaped and emitted as plain text.
type Highlighter interface {
	Highlight(lang, code string) (string, bool)
}

// reinsert replaces every placeholder token in html with its code block in
// one pass. Tokens that no longer occur are dropped silently.
func reinsert(html string, table *codeTable, hl Highlighter) string {
	if table.Len() == 0 {
		return html
	}

	rendered := make(map[int]string, table.Len())
	var b strings.Builder
	b.Grow(len(html))
	for {
		start := strings.Index(html, PlaceholderStart)
		if start < 0 {
			b.WriteString(html)
			break
		}
		b.WriteString(html[:start])
		html = html[start:]

		id, n := parsePlaceholder(html)
		if n == 0 || id >= table.Len() {
			b.WriteString(PlaceholderStart)
			html = html[len(PlaceholderStart):]
			continue
		}
		out, ok := rendered[id]
		if !ok {
			out = codeBlockHTML(table.entries[id], hl)
			rendered[id] = out
		}
		b.WriteString(out)
		html = html[n:]
	}
	return b.String()
}

// parsePlaceholder reads the token at the start of s and returns its id and
// length, or a zero length.
func parsePlaceholder(s string) (int, int) {
	k := len(PlaceholderStart)
	id := 0
	for k < len(s) && s[k] >= '0' && s[k] <= '9' && k-len(PlaceholderStart) < 9 {
		id = id*10 + int(s[k]-'0')
		k++
	}
	if k == len(PlaceholderStart) || !strings.HasPrefix(s[k:], PlaceholderEnd) {
		return 0, 0
	}
	return id, k + len(PlaceholderEnd)
}

// codeBlockHTML renders one protected block. Its body is escaped exactly
// once, here, so Markdown syntax inside fences is never interpreted.
func codeBlockHTML(e codeEntry, hl Highlighter) string {
	body := ""
	highlighted := false
	if hl != nil && e.Language != "" {
		body, highlighted = hl.Highlight(e.Language, e.Raw)
	}
	if !highlighted {
		body = escapeCodeBody(e.Raw)
	}

	var b strings.Builder
	b.Grow(len(body) + 48)
	b.WriteString(`<pre><code class="language-`)
	b.WriteString(EscapeAttr(e.Language))
	b.WriteString(`">`)
	b.WriteString(body)
	b.WriteString("</code></pre>")
	return b.String()
}
