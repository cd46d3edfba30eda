package main

import (
	"errors"
	"os"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/assets"
	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/highlight"
	"github.com/alnah/go-md2html/internal/hints"
)

// Exit codes for the md2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitFixtures = 4 // At least one fixture did not match
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrFixturesFailed) {
		return ExitFixtures
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, md2html.ErrUnknownEngine) ||
		errors.Is(err, md2html.ErrInvalidStyle) ||
		errors.Is(err, md2html.ErrInvalidAssetPath) ||
		errors.Is(err, md2html.ErrInvalidBaseURL) ||
		errors.Is(err, md2html.ErrInputTooLarge) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrReadFixtures) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for well-known failures, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths("md2html"))
	case errors.Is(err, md2html.ErrUnknownEngine):
		return hints.ForEngine(md2html.Engines())
	case errors.Is(err, highlight.ErrUnknownStyle):
		return hints.ForHighlightStyle(highlight.Styles())
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.Styles())
	case errors.Is(err, md2html.ErrConversionTimeout):
		return hints.ForTimeout()
	case errors.Is(err, md2html.ErrInvalidBaseURL):
		return hints.ForBaseURL()
	case errors.Is(err, md2html.ErrInputTooLarge):
		return hints.ForInputTooLarge()
	case errors.Is(err, ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}
