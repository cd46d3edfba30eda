// Package fileutil provides file and path helpers shared by the library and
// the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// markdownExtensions lists the extensions treated as Markdown sources.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".md2html-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ValidateExtension checks that an extension (without the dot) is a bare name.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// ReplaceExtension swaps the extension of path for extension (without the dot).
func ReplaceExtension(path, extension string) (string, error) {
	if err := ValidateExtension(extension); err != nil {
		return "", err
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + extension, nil
}

// IsMarkdown reports whether path has a Markdown extension (case-insensitive).
func IsMarkdown(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "plain" -> false (name)
//   - "./custom.css" -> true (relative path)
//   - "/absolute/path.css" -> true (absolute)
//   - "C:\windows\path.css" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsCSS returns true if the string looks like inline CSS rather than a name
// or path.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}

// IsURL returns true if the string looks like an http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
