// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"strings"
)

// maxListed caps how many names a hint enumerates.
const maxListed = 8

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when one was searched, the user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-md2html") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the available page styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + listNames(available))
}

// ForHighlightStyle lists a few of the available chroma styles.
func ForHighlightStyle(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("highlight styles include: " + listNames(available))
}

// ForEngine lists the valid engine names.
func ForEngine(engines []string) string {
	return format("use --engine " + strings.Join(engines, " or "))
}

// ForBaseURL returns a hint for rejected --base-url values.
func ForBaseURL() string {
	return format("use an absolute URL such as https://example.com/docs/")
}

// ForInputTooLarge returns hints for documents over the size limit.
func ForInputTooLarge() string {
	return formatHints([]string{
		"split the document",
		"raise maxInputSize in the config file",
	})
}

func listNames(names []string) string {
	if len(names) <= maxListed {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(names[:maxListed], ", "), len(names)-maxListed)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
