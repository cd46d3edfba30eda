package pipeline

import "strings"

// maxLabelLen bounds the search for the closing bracket of a link label.
const maxLabelLen = 1 << 10

// closerKind selects which delimiter run lengths may close a span.
type closerKind int

const (
	closeEmphasis closerKind = iota // any run but a double one
	closeStrong                     // runs of two or more
	closeStrongEmphasis             // runs of three or more
	closeStrike                     // runs of exactly two
)

func (k closerKind) accepts(n int) bool {
	switch k {
	case closeStrong:
		return n >= 2
	case closeStrongEmphasis:
		return n >= 3
	case closeStrike:
		return n == 2
	default:
		return n != 2
	}
}

type missKey struct {
	c    byte
	kind closerKind
}

// inline renders the inline constructs of one line.
// A closer search that failed from position p fails from every later
// position too, so misses are remembered to keep long lines linear.
type inline struct {
	src      string
	inLink   bool
	miss     map[missKey]int
	tags     *tagScanner
	destEnds []int // built on the first link target, see targetEnds
}

// renderInline renders one line of inline Markdown to HTML.
func renderInline(s string) string {
	return renderSpan(s, false)
}

func renderSpan(s string, inLink bool) string {
	p := &inline{src: s, inLink: inLink, tags: newTagScanner(s)}
	return p.render()
}

func (p *inline) render() string {
	s := p.src
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)

	for i := 0; i < len(s); {
		c := s[i]
		switch c {
		case '\\':
			// An escaped '<' or '&' was already turned into an entity by
			// sanitization; keep it as is.
			if n := entityAt(s, i+1); n > 0 {
				b.WriteString(s[i+1 : i+1+n])
				i += 1 + n
				continue
			}
			if i+1 < len(s) && isASCIIPunct(s[i+1]) {
				b.WriteString(literal(s[i+1]))
				i += 2
				continue
			}

		case '`':
			if n, out := codeSpan(s, i); n > 0 {
				b.WriteString(out)
				i += n
				continue
			}
			n := runLength(s, i, '`')
			b.WriteString(s[i : i+n])
			i += n
			continue

		case '<':
			if n := p.tags.tagLen(i); n > 0 {
				b.WriteString(s[i : i+n])
				i += n
				continue
			}
			b.WriteString("&lt;")
			i++
			continue

		case '&':
			if n := entityAt(s, i); n > 0 {
				b.WriteString(s[i : i+n])
				i += n
				continue
			}
			b.WriteString("&amp;")
			i++
			continue

		case '!':
			if i+1 < len(s) && s[i+1] == '[' {
				if n, out := p.image(i); n > 0 {
					b.WriteString(out)
					i += n
					continue
				}
			}

		case '[':
			if !p.inLink {
				if n, out := p.link(i); n > 0 {
					b.WriteString(out)
					i += n
					continue
				}
			}

		case '*', '_', '~':
			if n, out := p.delimited(i); n > 0 {
				b.WriteString(out)
				i += n
				continue
			}
			n := runLength(s, i, c)
			b.WriteString(s[i : i+n])
			i += n
			continue
		}

		b.WriteByte(c)
		i++
	}

	return b.String()
}

// delimited renders a strong, emphasis or strike span opened at i.
// Strong is tried before emphasis: a triple run yields strong outside and
// emphasis inside, and a single delimiter inside a double run cannot close
// it.
func (p *inline) delimited(i int) (int, string) {
	s := p.src
	c := s[i]
	n := runLength(s, i, c)
	if !canOpen(s, i, n) {
		return 0, ""
	}

	if c == '~' {
		if n != 2 {
			return 0, ""
		}
		return p.span(i, 2, closeStrike, "<del>", "</del>")
	}

	switch n {
	case 1:
		return p.span(i, 1, closeEmphasis, "<em>", "</em>")
	case 2:
		return p.span(i, 2, closeStrong, "<strong>", "</strong>")
	case 3:
		if k, out := p.span(i, 3, closeStrongEmphasis, "<strong><em>", "</em></strong>"); k > 0 {
			return k, out
		}
		// No triple closer: keep one delimiter as text and retry as strong.
		if k, out := p.span(i+1, 2, closeStrong, "<strong>", "</strong>"); k > 0 {
			return k + 1, string(c) + out
		}
	}
	return 0, ""
}

// span closes an opener of width w at i with the first acceptable closer.
func (p *inline) span(i, w int, kind closerKind, openTag, closeTag string) (int, string) {
	j := p.findCloser(i+w, p.src[i], kind)
	if j < 0 {
		return 0, ""
	}
	inner := renderSpan(p.src[i+w:j], p.inLink)
	return j + w - i, openTag + inner + closeTag
}

// findCloser returns the index of the first closing run of c at or after
// from (with non-empty content before it), or -1. Code spans, tags and
// escaped characters are skipped.
func (p *inline) findCloser(from int, c byte, kind closerKind) int {
	key := missKey{c: c, kind: kind}
	if failed, ok := p.miss[key]; ok && from >= failed {
		return -1
	}

	s := p.src
	for k := from; k < len(s); {
		switch s[k] {
		case '\\':
			k += 2
			continue
		case '`':
			if n, _ := codeSpan(s, k); n > 0 {
				k += n
				continue
			}
			k += runLength(s, k, '`')
			continue
		case '<':
			if n := p.tags.tagLen(k); n > 0 {
				k += n
				continue
			}
		case c:
			m := runLength(s, k, c)
			if k > from && kind.accepts(m) && canClose(s, k, m) {
				return k
			}
			k += m
			continue
		}
		k++
	}

	if p.miss == nil {
		p.miss = make(map[missKey]int)
	}
	p.miss[key] = from
	return -1
}

// link renders [text](dest "title") at i.
func (p *inline) link(i int) (int, string) {
	s := p.src
	end := p.labelEnd(i)
	if end < 0 {
		return 0, ""
	}
	dest, title, n, ok := p.parseTarget(end + 1)
	if !ok {
		return 0, ""
	}

	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(SafeURL(dest))
	b.WriteByte('"')
	if title != "" {
		b.WriteString(` title="`)
		b.WriteString(EscapeAttr(title))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(renderSpan(s[i+1:end], true))
	b.WriteString("</a>")
	return end + 1 + n - i, b.String()
}

// image renders ![alt](src "title") at i.
func (p *inline) image(i int) (int, string) {
	s := p.src
	end := p.labelEnd(i + 1)
	if end < 0 {
		return 0, ""
	}
	src, title, n, ok := p.parseTarget(end + 1)
	if !ok {
		return 0, ""
	}

	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(SafeURL(src))
	b.WriteString(`" alt="`)
	b.WriteString(EscapeAttr(unescapePunct(s[i+2 : end])))
	b.WriteByte('"')
	if title != "" {
		b.WriteString(` title="`)
		b.WriteString(EscapeAttr(title))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return end + 1 + n - i, b.String()
}

// labelEnd returns the index of the ']' matching the '[' at i, or -1.
func (p *inline) labelEnd(i int) int {
	s := p.src
	limit := i + maxLabelLen
	if limit > len(s) {
		limit = len(s)
	}

	depth := 0
	for k := i; k < limit; k++ {
		switch s[k] {
		case '\\':
			k++
		case '`':
			if n, _ := codeSpan(s, k); n > 0 {
				k += n - 1
			}
		case '<':
			if n := p.tags.tagLen(k); n > 0 {
				k += n - 1
			}
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

// parseTarget parses "(dest)" or "(dest "title")" starting at s[i] and
// returns the destination, the title and the number of bytes consumed.
// The destination stops at the first blank, so a title is never folded
// into the URL.
func (p *inline) parseTarget(i int) (dest, title string, n int, ok bool) {
	s := p.src
	if i >= len(s) || s[i] != '(' {
		return "", "", 0, false
	}
	k := skipBlanks(s, i+1)

	start := k
	if start == i+1 {
		k = p.targetEnd(i)
	} else {
		k = scanDest(s, start)
	}
	rawDest := s[start:k]

	k = skipBlanks(s, k)
	if k < len(s) && (s[k] == '"' || s[k] == '\'') {
		q := s[k]
		closeAt := strings.IndexByte(s[k+1:], q)
		if closeAt < 0 {
			return "", "", 0, false
		}
		title = unescapePunct(s[k+1 : k+1+closeAt])
		k = skipBlanks(s, k+closeAt+2)
	}

	if k >= len(s) || s[k] != ')' {
		return "", "", 0, false
	}
	return unescapePunct(rawDest), title, k + 1 - i, true
}

// scanDest returns where a destination starting at s[k] ends: the first
// blank, the ')' that leaves its parentheses unbalanced, or len(s).
func scanDest(s string, k int) int {
	depth := 0
	for ; k < len(s); k++ {
		switch s[k] {
		case '\\':
			k++
		case ' ', '\t':
			return k
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return k
			}
			depth--
		}
	}
	return len(s)
}

// targetEnd returns scanDest(s, i+1) for the '(' at i.
// The answers for every '(' of the line come from one pass that pairs
// parentheses and closes every open one at a blank, so a line full of link
// openers is not rescanned per opener. The '(' of a target follows a ']',
// never a backslash, so escapes line up with a scan started after it.
func (p *inline) targetEnd(i int) int {
	if p.destEnds == nil {
		p.destEnds = targetEnds(p.src)
	}
	return p.destEnds[i]
}

func targetEnds(s string) []int {
	ends := make([]int, len(s))
	var open []int
	for k := 0; k < len(s); k++ {
		switch s[k] {
		case '\\':
			k++
		case ' ', '\t':
			for _, o := range open {
				ends[o] = k
			}
			open = open[:0]
		case '(':
			open = append(open, k)
		case ')':
			if n := len(open); n > 0 {
				ends[open[n-1]] = k
				open = open[:n-1]
			}
		}
	}
	for _, o := range open {
		ends[o] = len(s)
	}
	return ends
}

// codeSpan renders the code span opened by the backtick run at i. The
// closing run must have the same length. It returns 0 when unclosed.
func codeSpan(s string, i int) (int, string) {
	n := runLength(s, i, '`')
	for k := i + n; k < len(s); {
		j := strings.IndexByte(s[k:], '`')
		if j < 0 {
			return 0, ""
		}
		k += j
		m := runLength(s, k, '`')
		if m == n {
			content := s[i+n : k]
			if strings.TrimSpace(content) == "" {
				return 0, ""
			}
			if len(content) > 2 && content[0] == ' ' && content[len(content)-1] == ' ' {
				content = content[1 : len(content)-1]
			}
			return k + m - i, "<code>" + EscapeCode(content) + "</code>"
		}
		k += m
	}
	return 0, ""
}

// canOpen reports whether the run of n delimiters at i may open a span.
func canOpen(s string, i, n int) bool {
	if i+n >= len(s) || isSpace(s[i+n]) {
		return false
	}
	if s[i] == '_' && i > 0 && isAlnum(s[i-1]) {
		return false
	}
	return true
}

// canClose reports whether the run of n delimiters at i may close a span.
func canClose(s string, i, n int) bool {
	if i == 0 || isSpace(s[i-1]) {
		return false
	}
	if s[i] == '_' && i+n < len(s) && isAlnum(s[i+n]) {
		return false
	}
	return true
}

func runLength(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}

func skipBlanks(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

// literal renders an escaped punctuation character as text.
func literal(c byte) string {
	switch c {
	case '<', '>', '&':
		return escapeMap[c]
	}
	return string(c)
}

// unescapePunct removes backslashes that escape ASCII punctuation.
func unescapePunct(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
