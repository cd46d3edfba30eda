package pipeline

import (
	"regexp"
	"strings"
)

// Code block placeholders use Unicode Private Use Area characters.
// They never appear in rendered output: input occurrences are removed by
// normalize, so a placeholder in the working text is always one we created.
const (
	PlaceholderStart = "\uE000" // U+E000: Private Use Area start
	PlaceholderEnd   = "\uE001" // U+E001: Private Use Area end
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Placeholder sentinels smuggled in by the input
	sentinelChars = strings.NewReplacer(PlaceholderStart, "", PlaceholderEnd, "")
)

// normalize prepares raw input for extraction: invalid UTF-8 becomes U+FFFD,
// line endings become \n and placeholder sentinels are dropped. Removing
// whole runes from valid UTF-8 cannot assemble a new sentinel.
func normalize(content string) string {
	content = strings.ToValidUTF8(content, "\uFFFD")
	content = normalizeLineEndings(content)
	return sentinelChars.Replace(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// trimLine strips leading and trailing spaces and tabs from one line and
// reports whether the line ended with a hard break marker (two or more
// trailing spaces).
func trimLine(line string) (string, bool) {
	hardBreak := strings.HasSuffix(line, "  ")
	return strings.Trim(line, " \t"), hardBreak
}
