package pipeline

import (
	"html"
	"regexp"
	"strings"
)

// maxTagLen bounds how far a single tag is searched for its closing '>'.
// Longer tag-like runs are treated as malformed and escaped.
const maxTagLen = 8 << 10

var (
	startTagPattern = regexp.MustCompile(`^<([A-Za-z][A-Za-z0-9:-]*)((?:\s+[^\s"'<>/=]+(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'=<>` + "`" + `]+))?)*)\s*(/?)>$`)
	endTagPattern   = regexp.MustCompile(`^</([A-Za-z][A-Za-z0-9:-]*)\s*>$`)
	attrPattern     = regexp.MustCompile(`([^\s"'<>/=]+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+)))?`)
)

// executableElements never pass through: their tags are escaped into text
// while their content is kept.
var executableElements = map[string]bool{
	"script":   true,
	"iframe":   true,
	"frame":    true,
	"frameset": true,
	"object":   true,
	"embed":    true,
	"applet":   true,
	"base":     true,
	"meta":     true,
}

// blockedSchemes are URI schemes that execute when followed.
var blockedSchemes = []string{"javascript", "vbscript", "data"}

// safeDataImages are the data: URIs left usable in attribute values.
var safeDataImages = []string{"data:image/png", "data:image/gif", "data:image/jpeg", "data:image/webp"}

// Sanitize neutralizes script elements, event handler attributes and
// executable URI schemes in s while keeping every other tag intact.
// It never fails: anything that does not parse as a tag is escaped.
func Sanitize(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	t := newTagScanner(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		j := strings.IndexByte(s[i:], '<')
		if j < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+j])
		i += j

		n, out := t.sanitizeAt(i)
		b.WriteString(out)
		i += n
	}
	return b.String()
}

// tagScanner finds tags and comments in one string. The next "-->" is
// remembered between lookups, so a run of comment openers is read once.
type tagScanner struct {
	s           string
	commentFrom int // offset the cached search started at, -1 before any
	commentEnd  int // first "-->" at or after commentFrom, -1 if none
}

func newTagScanner(s string) *tagScanner {
	return &tagScanner{s: s, commentFrom: -1, commentEnd: -1}
}

// window returns the text a tag starting at s[i] may span.
func (t *tagScanner) window(i int) string {
	w := t.s[i:]
	if len(w) > maxTagLen {
		w = w[:maxTagLen]
	}
	return w
}

// commentLen returns the length of the complete comment starting at s[i],
// or 0.
func (t *tagScanner) commentLen(i int) int {
	if !strings.HasPrefix(t.s[i:], "<!--") {
		return 0
	}
	from := i + 4
	if t.commentFrom < 0 || from < t.commentFrom || (t.commentEnd >= 0 && from > t.commentEnd) {
		t.commentFrom = from
		t.commentEnd = -1
		if k := strings.Index(t.s[from:], "-->"); k >= 0 {
			t.commentEnd = from + k
		}
	}
	if t.commentEnd < 0 {
		return 0
	}
	n := t.commentEnd + 3 - i
	if n > maxTagLen {
		return 0
	}
	return n
}

// tagLen returns the length of the tag or comment starting at s[i], or 0.
func (t *tagScanner) tagLen(i int) int {
	if n := t.commentLen(i); n > 0 {
		return n
	}
	w := t.window(i)
	end := tagEnd(w)
	if end < 0 {
		return 0
	}
	candidate := w[:end+1]
	if endTagPattern.MatchString(candidate) || startTagPattern.MatchString(candidate) {
		return len(candidate)
	}
	return 0
}

// sanitizeAt handles the tag-like text starting at s[i] (a '<'). It returns
// how many bytes were consumed and their replacement.
func (t *tagScanner) sanitizeAt(i int) (int, string) {
	if n := t.commentLen(i); n > 0 {
		return n, "<!--" + Sanitize(t.s[i+4:i+n-3]) + "-->"
	}

	window := t.window(i)
	end := tagEnd(window)
	if end < 0 {
		return escapeMalformed(window)
	}
	candidate := window[:end+1]

	if m := endTagPattern.FindStringSubmatch(candidate); m != nil {
		if executableElements[strings.ToLower(m[1])] {
			return len(m[0]), EscapeCode(m[0])
		}
		return len(m[0]), m[0]
	}

	if m := startTagPattern.FindStringSubmatch(candidate); m != nil {
		if executableElements[strings.ToLower(m[1])] {
			return len(m[0]), EscapeCode(m[0])
		}
		return len(m[0]), rebuildTag(m[0], m[1], m[2], m[3] == "/")
	}

	return escapeMalformed(window)
}

// tagEnd returns the index of the '>' closing the tag-like run at the start
// of s, or -1. Quoted runs are skipped and an unquoted '<' ends the search,
// so each attempt reads no further than the next tag.
func tagEnd(s string) int {
	var quote byte
	for k := 1; k < len(s); k++ {
		c := s[k]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return k
		case c == '<':
			return -1
		}
	}
	return -1
}

// escapeMalformed escapes a tag-like run that failed to parse. Payloads such
// as <img src=x onerror=alert("1")> carry quotes and brackets that defeat
// attribute parsing, so the whole run up to '>' is escaped per character
// instead of being dropped or passed through.
func escapeMalformed(window string) (int, string) {
	if len(window) < 2 || !isTagStart(window[1]) {
		return 1, "&lt;"
	}
	limit := len(window)
	if next := strings.IndexByte(window[1:], '<'); next >= 0 {
		limit = next + 1
	}
	end := strings.IndexByte(window[:limit], '>')
	if end < 0 {
		return 1, "&lt;"
	}
	return end + 1, EscapeCode(window[:end+1])
}

func isTagStart(c byte) bool {
	return c == '/' || c == '!' || c == '?' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// rebuildTag drops event handler attributes and neutralizes executable URIs.
// Untouched attributes keep their source text; an untouched tag is returned
// verbatim.
func rebuildTag(raw, name, attrs string, selfClosing bool) string {
	if attrs == "" {
		return raw
	}

	changed := false
	kept := make([]string, 0, 4)
	for _, m := range attrPattern.FindAllStringSubmatch(attrs, -1) {
		key := strings.ToLower(m[1])
		if strings.HasPrefix(key, "on") {
			changed = true
			continue
		}
		value := m[2] + m[3] + m[4]
		if safe, ok := neutralizeURI(value); ok {
			changed = true
			kept = append(kept, m[1]+`="`+safe+`"`)
			continue
		}
		// Brackets in values are legal but read as markup by naive filters.
		if strings.ContainsAny(value, "<>") {
			changed = true
			kept = append(kept, m[1]+`="`+escapeWith(value, `<>"`)+`"`)
			continue
		}
		kept = append(kept, m[0])
	}
	if !changed {
		return raw
	}

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(name)
	for _, a := range kept {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	if selfClosing {
		b.WriteString(" /")
	}
	b.WriteByte('>')
	return b.String()
}

// neutralizeURI reports whether value carries an executable URI scheme
// anywhere in it and, if so, returns an attribute-ready replacement. Each
// such scheme is prefixed with '#' and its colon entity-escaped, so the
// browser reads a fragment reference. Entity-encoded, mixed-case and
// whitespace-split schemes are detected; one already behind '#' is left
// alone.
func neutralizeURI(value string) (string, bool) {
	decoded := html.UnescapeString(value)

	var b strings.Builder
	last, found := 0, false
	for i := 0; i < len(decoded); i++ {
		scheme, n := blockedSchemeAt(decoded, i)
		if n == 0 {
			continue
		}
		if !found {
			b.Grow(len(decoded) + 16)
			found = true
		}
		b.WriteString(escapeRaw(decoded[last:i], attrEscapeSet))
		b.WriteString("#" + scheme + "&#58;")
		i += n - 1
		last = i + 1
	}
	if !found {
		return "", false
	}
	b.WriteString(escapeRaw(decoded[last:], attrEscapeSet))
	return b.String(), true
}

// blockedSchemeAt returns the blocked scheme starting at s[i] and the length
// of its text up to and including the colon, or 0.
func blockedSchemeAt(s string, i int) (string, int) {
	for _, scheme := range blockedSchemes {
		n := schemeLen(s[i:], scheme)
		if n == 0 {
			continue
		}
		prev := previousVisible(s, i)
		if prev == '#' {
			return "", 0
		}
		if scheme == "data" && (isSchemeChar(prev) || isSafeDataImage(compactURI(s[i:]))) {
			continue
		}
		return scheme, n
	}
	return "", 0
}

// schemeLen matches scheme followed by ':' at the start of s, ignoring case
// and the blanks and control characters browsers drop from URLs.
func schemeLen(s, scheme string) int {
	k := 0
	for j := 0; j < len(scheme); j++ {
		if j > 0 {
			k = skipInvisible(s, k)
		}
		if k >= len(s) || s[k]|0x20 != scheme[j] {
			return 0
		}
		k++
	}
	k = skipInvisible(s, k)
	if k >= len(s) || s[k] != ':' {
		return 0
	}
	return k + 1
}

func skipInvisible(s string, k int) int {
	for k < len(s) && isInvisible(s[k]) {
		k++
	}
	return k
}

func isInvisible(c byte) bool {
	return c <= ' ' || c == 0x7f
}

// previousVisible returns the last byte before s[i] that is not blank, or 0.
func previousVisible(s string, i int) byte {
	for k := i - 1; k >= 0; k-- {
		if !isInvisible(s[k]) {
			return s[k]
		}
	}
	return 0
}

func isSchemeChar(c byte) bool {
	return isAlnum(c) || c == '+' || c == '-' || c == '.'
}

// compactURI lowercases the head of a URI and drops blanks from it.
func compactURI(s string) string {
	if len(s) > 64 {
		s = s[:64]
	}
	return strings.ToLower(strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, s))
}

func isSafeDataImage(uri string) bool {
	for _, prefix := range safeDataImages {
		if strings.HasPrefix(uri, prefix) {
			return true
		}
	}
	return false
}

// SafeURL returns an attribute-ready form of a Markdown link or image
// destination.
func SafeURL(dest string) string {
	if safe, ok := neutralizeURI(dest); ok {
		return safe
	}
	return EscapeAttr(dest)
}
