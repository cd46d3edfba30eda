package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed styles/*.css
var styleFS embed.FS

//go:embed templates/*.html
var templateFS embed.FS

// EmbeddedLoader serves the assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return readEmbedded(styleFS, "styles", name, ".css", ErrStyleNotFound)
}

// LoadTemplate loads a page template from embedded assets by name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return readEmbedded(templateFS, "templates", name, ".html", ErrTemplateNotFound)
}

// Styles returns the embedded style names, sorted, without extension.
func (e *EmbeddedLoader) Styles() []string {
	entries, err := fs.ReadDir(styleFS, "styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".css"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func readEmbedded(fsys embed.FS, dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := fsys.ReadFile(dir + "/" + name + ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}
	return string(content), nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
