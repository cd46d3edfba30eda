package pipeline

import (
	"strconv"
	"strings"
)

// fence is the only delimiter that opens or closes a code block.
const fence = "```"

// codeEntry is one protected fenced code block.
type codeEntry struct {
	ID       int
	Language string
	Raw      string
}

// codeTable is the per-call arena of protected code blocks.
// IDs are assigned from a counter local to the table and never reused.
type codeTable struct {
	entries []codeEntry
	next    int
}

// add stores a code block and returns its placeholder token.
func (t *codeTable) add(lang, body string) string {
	id := t.next
	t.next++
	t.entries = append(t.entries, codeEntry{ID: id, Language: lang, Raw: body})
	return placeholder(id)
}

// Len returns the number of protected blocks.
func (t *codeTable) Len() int {
	return len(t.entries)
}

// placeholder returns the token standing in for code block id.
func placeholder(id int) string {
	return PlaceholderStart + strconv.Itoa(id) + PlaceholderEnd
}

// isPlaceholder reports whether a (trimmed) line is exactly one placeholder token.
func isPlaceholder(line string) bool {
	if !strings.HasPrefix(line, PlaceholderStart) || !strings.HasSuffix(line, PlaceholderEnd) {
		return false
	}
	digits := line[len(PlaceholderStart) : len(line)-len(PlaceholderEnd)]
	if digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

// openingFence reports whether line opens a fenced block and returns its
// language. Exactly three backticks are required; the info string may not
// contain a backtick, so "````" and "``````" are plain text.
func openingFence(line string) (string, bool) {
	trimmed := strings.Trim(line, " \t")
	if !strings.HasPrefix(trimmed, fence) {
		return "", false
	}
	info := trimmed[len(fence):]
	if strings.Contains(info, "`") {
		return "", false
	}
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return "", true
	}
	return fields[0], true
}

// closingFence reports whether line closes a fenced block.
func closingFence(line string) bool {
	return strings.Trim(line, " \t") == fence
}

// extractCodeBlocks replaces every terminated fenced code block with a
// placeholder line and records it in table. Unterminated fences are left
// untouched.
func extractCodeBlocks(content string, table *codeTable) string {
	if !strings.Contains(content, fence) {
		return content
	}

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	noClose := len(lines) // no closing fence at or after this line

	for i := 0; i < len(lines); i++ {
		lang, ok := openingFence(lines[i])
		if !ok {
			out = append(out, lines[i])
			continue
		}

		end := -1
		for j := i + 1; j < noClose; j++ {
			if closingFence(lines[j]) {
				end = j
				break
			}
		}
		if end < 0 {
			noClose = min(noClose, i+1)
			out = append(out, lines[i])
			continue
		}

		var body strings.Builder
		for _, l := range lines[i+1 : end] {
			body.WriteString(l)
			body.WriteByte('\n')
		}
		out = append(out, table.add(lang, body.String()))
		i = end
	}

	return strings.Join(out, "\n")
}
