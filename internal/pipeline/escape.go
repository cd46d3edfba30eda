package pipeline

import (
	"regexp"
	"strings"
)

// escapeMap maps every character that may not appear raw in a final
// attribute value or code body to its entity form.
var escapeMap = map[byte]string{
	'<':  "&lt;",
	'>':  "&gt;",
	'&':  "&amp;",
	'"':  "&quot;",
	'\'': "&#39;",
	'[':  "&#91;",
	']':  "&#93;",
	'(':  "&#40;",
	')':  "&#41;",
}

// entityPattern matches a complete character reference at the start of a string.
var entityPattern = regexp.MustCompile(`^&(?:[A-Za-z][A-Za-z0-9]{1,31}|#[0-9]{1,7}|#[xX][0-9A-Fa-f]{1,6});`)

// entityAt returns the length of the character reference starting at s[i],
// or 0 if s[i] does not start one.
func entityAt(s string, i int) int {
	if i >= len(s) || s[i] != '&' {
		return 0
	}
	end := i + 40
	if end > len(s) {
		end = len(s)
	}
	return len(entityPattern.FindString(s[i:end]))
}

// escapeWith replaces every byte listed in set using escapeMap.
// An '&' that already starts a character reference is kept, so text
// escaped earlier is never escaped twice.
func escapeWith(s, set string) string {
	if !strings.ContainsAny(s, set) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(set, c) < 0 {
			b.WriteByte(c)
			continue
		}
		if c == '&' {
			if n := entityAt(s, i); n > 0 {
				b.WriteString(s[i : i+n])
				i += n - 1
				continue
			}
		}
		b.WriteString(escapeMap[c])
	}
	return b.String()
}

// attrEscapeSet is the whole map: brackets and parentheses included.
const attrEscapeSet = `<>&"'[]()`

// EscapeAttr escapes a value placed inside a double-quoted attribute.
func EscapeAttr(s string) string {
	return escapeWith(s, attrEscapeSet)
}

// EscapeCode escapes inline code spans and tag text. Spans have been through
// sanitization, so entities already in them are kept.
func EscapeCode(s string) string {
	return escapeWith(s, `<>&"'`)
}

// escapeRaw escapes every byte listed in set, '&' included. s is raw source
// or decoded text, so an entity in it is text to show, not markup.
func escapeRaw(s, set string) string {
	if !strings.ContainsAny(s, set) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(set, s[i]) >= 0 {
			b.WriteString(escapeMap[s[i]])
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// escapeCodeBody escapes a fenced code body taken straight from the source.
func escapeCodeBody(s string) string {
	return escapeRaw(s, `<>&"'`)
}
