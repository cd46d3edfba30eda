package pipeline

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockBare                // marker-led line that is no block construct
	blockHeading
	blockQuote
	blockRule
	blockList
	blockHTML
	blockStyle
	blockCode
	blockBreak
)

// srcLine is one normalized source line.
type srcLine struct {
	text      string
	hardBreak bool
}

// block is one document-level construct produced by scanBlocks.
type block struct {
	kind    blockKind
	level   int  // heading level
	ordered bool // list kind
	lines   []srcLine
}

var (
	quotePattern    = regexp.MustCompile(`^>[ \t]?(.*)$`)
	headingPattern  = regexp.MustCompile(`^(#{1,6})[ \t]+(.+?)(?:[ \t]+#+)?$`)
	underline       = regexp.MustCompile(`^(?:=+|-+)$`)
	rulePattern     = regexp.MustCompile(`^(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)
	bulletPattern   = regexp.MustCompile(`^[-+*][ \t]+(.+)$`)
	orderedPattern  = regexp.MustCompile(`^[0-9]{1,9}[.)][ \t]+(.+)$`)
	checkboxPattern = regexp.MustCompile(`^\[([ xX])\]([ \t]|$)`)
	styleOpen       = regexp.MustCompile(`(?i)^<style(?:\s[^>]*)?>`)
	styleClose      = regexp.MustCompile(`(?i)</style\s*>`)
)

// paragraphMarkers are the leading characters that keep a line from
// starting a paragraph.
const paragraphMarkers = "-><#0123456789+_*[!{"

// splitLines trims every line and records hard break markers.
func splitLines(content string) []srcLine {
	raw := strings.Split(content, "\n")
	lines := make([]srcLine, len(raw))
	for i, l := range raw {
		text, hardBreak := trimLine(l)
		lines[i] = srcLine{text: text, hardBreak: hardBreak}
	}
	return lines
}

// listItem reports whether text is a list item, its kind and its content.
func listItem(text string) (content string, ordered, ok bool) {
	if rulePattern.MatchString(text) {
		return "", false, false
	}
	if m := bulletPattern.FindStringSubmatch(text); m != nil {
		return m[1], false, true
	}
	if m := orderedPattern.FindStringSubmatch(text); m != nil {
		return m[1], true, true
	}
	return "", false, false
}

// isConstruct reports whether text opens a block other than a paragraph.
// Such lines end a running paragraph and cannot carry a setext underline.
func isConstruct(text string) bool {
	if text == "" {
		return false
	}
	if isPlaceholder(text) || text[0] == '<' || text[0] == '>' {
		return true
	}
	if headingPattern.MatchString(text) || rulePattern.MatchString(text) {
		return true
	}
	_, _, ok := listItem(text)
	return ok
}

// setextLevel reports the heading level when lines[i] is setext heading text.
func setextLevel(lines []srcLine, i int) int {
	if i+1 >= len(lines) || lines[i].text == "" || isConstruct(lines[i].text) {
		return 0
	}
	next := lines[i+1].text
	if !underline.MatchString(next) {
		return 0
	}
	if next[0] == '=' {
		return 1
	}
	return 2
}

// startsParagraph reports whether a line may open a paragraph.
func startsParagraph(text string) bool {
	return text != "" && !strings.HasPrefix(text, PlaceholderStart) &&
		strings.IndexByte(paragraphMarkers, text[0]) < 0
}

// scanBlocks groups normalized lines into blocks. Rules are tried in a fixed
// order and the first match wins: blockquote, ATX heading, setext heading,
// horizontal rule, list item, raw HTML, paragraph.
func scanBlocks(lines []srcLine) []block {
	var blocks []block
	blank := 0
	noStyleClose := len(lines) // no closing style tag at or after this line

	emit := func(b block) {
		if blank >= 2 && len(blocks) > 0 {
			blocks = append(blocks, block{kind: blockBreak})
		}
		blank = 0
		blocks = append(blocks, b)
	}

	for i := 0; i < len(lines); i++ {
		l := lines[i]
		text := l.text

		switch {
		case text == "":
			blank++

		case isPlaceholder(text):
			emit(block{kind: blockCode, lines: []srcLine{l}})

		case styleOpen.MatchString(text):
			end := -1
			if i < noStyleClose {
				end = styleEnd(lines, i)
				if end < 0 {
					noStyleClose = i
				}
			}
			if end < 0 {
				// Left open, the element would turn the rest of the page
				// into CSS: its opener is shown as text instead.
				open := styleOpen.FindString(text)
				emit(block{kind: blockHTML, lines: []srcLine{{text: EscapeCode(open) + text[len(open):]}}})
				continue
			}
			emit(block{kind: blockStyle, lines: lines[i : end+1]})
			i = end

		case quotePattern.MatchString(text):
			m := quotePattern.FindStringSubmatch(text)
			emit(block{kind: blockQuote, lines: []srcLine{{text: m[1]}}})

		case headingPattern.MatchString(text):
			m := headingPattern.FindStringSubmatch(text)
			emit(block{kind: blockHeading, level: len(m[1]), lines: []srcLine{{text: m[2]}}})

		case setextLevel(lines, i) > 0:
			emit(block{kind: blockHeading, level: setextLevel(lines, i), lines: []srcLine{{text: text}}})
			i++

		case rulePattern.MatchString(text):
			emit(block{kind: blockRule})

		default:
			if content, ordered, ok := listItem(text); ok {
				items := []srcLine{{text: content}}
				for i+1 < len(lines) {
					next, nextOrdered, nextOK := listItem(lines[i+1].text)
					if !nextOK || nextOrdered != ordered {
						break
					}
					items = append(items, srcLine{text: next})
					i++
				}
				emit(block{kind: blockList, ordered: ordered, lines: items})
				continue
			}

			if text[0] == '<' {
				emit(block{kind: blockHTML, lines: []srcLine{l}})
				continue
			}

			if !startsParagraph(text) {
				emit(block{kind: blockBare, lines: []srcLine{l}})
				continue
			}

			para := []srcLine{l}
			for i+1 < len(lines) {
				next := lines[i+1]
				if next.text == "" || isConstruct(next.text) || setextLevel(lines, i+1) > 0 {
					break
				}
				para = append(para, next)
				i++
			}
			emit(block{kind: blockParagraph, lines: para})
		}
	}

	return blocks
}

// styleEnd returns the line closing the style element opened on lines[i],
// or -1.
func styleEnd(lines []srcLine, i int) int {
	for end := i; end < len(lines); end++ {
		if styleClose.MatchString(lines[end].text) {
			return end
		}
	}
	return -1
}

// renderBlocks renders blocks to HTML, one block per line. It stops early
// when ctx is done.
func renderBlocks(ctx context.Context, blocks []block) (string, error) {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out = append(out, renderBlock(b))
	}
	return strings.Join(out, "\n"), nil
}

func renderBlock(b block) string {
	switch b.kind {
	case blockHeading:
		tag := "h" + strconv.Itoa(b.level)
		return "<" + tag + ">" + renderInline(b.lines[0].text) + "</" + tag + ">"

	case blockQuote:
		return "<blockquote>" + renderInline(b.lines[0].text) + "</blockquote>"

	case blockRule:
		return "<hr>"

	case blockBreak:
		return "<br>"

	case blockList:
		tag := "ul"
		if b.ordered {
			tag = "ol"
		}
		var sb strings.Builder
		sb.WriteString("<" + tag + ">")
		for _, item := range b.lines {
			sb.WriteString("<li>")
			sb.WriteString(renderWithCheckbox(item.text))
			sb.WriteString("</li>")
		}
		sb.WriteString("</" + tag + ">")
		return sb.String()

	case blockParagraph:
		var sb strings.Builder
		sb.WriteString("<p>")
		for i, l := range b.lines {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(renderInline(l.text))
			// A break on the paragraph's last line is dropped: the
			// paragraph end already breaks the line.
			if l.hardBreak && i < len(b.lines)-1 {
				sb.WriteString("<br>")
			}
		}
		sb.WriteString("</p>")
		return sb.String()

	case blockBare:
		return renderWithCheckbox(b.lines[0].text)

	case blockStyle:
		texts := make([]string, len(b.lines))
		for i, l := range b.lines {
			texts[i] = l.text
		}
		return strings.Join(texts, "\n")

	case blockCode:
		return b.lines[0].text

	default: // blockHTML
		return renderInline(b.lines[0].text)
	}
}

// checkboxHTML returns the disabled task checkbox markup.
func checkboxHTML(checked bool) string {
	if checked {
		return `<input type="checkbox" disabled checked>`
	}
	return `<input type="checkbox" disabled>`
}

// renderWithCheckbox renders text whose leading [ ] / [x] token, if any,
// becomes a checkbox.
func renderWithCheckbox(text string) string {
	m := checkboxPattern.FindStringSubmatch(text)
	if m == nil {
		return renderInline(text)
	}
	token := len("[x]")
	return checkboxHTML(m[1] != " ") + renderInline(text[token:])
}
