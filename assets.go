package md2html

import (
	"fmt"

	"github.com/alnah/go-md2html/internal/assets"
)

// Compile-time interface implementation check.
var _ AssetLoader = (*assets.AssetResolver)(nil)

// Asset name constants for built-in styles and templates.
const (
	// DefaultStyle is the name of the built-in page style.
	DefaultStyle = assets.DefaultStyleName

	// DefaultTemplate is the name of the built-in page template.
	DefaultTemplate = assets.DefaultTemplateName
)

// Errors returned by asset loaders, re-exported for errors.Is.
var (
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrTemplateNotFound = assets.ErrTemplateNotFound
)

// AssetLoader defines the contract for loading page styles and templates
// used by standalone output.
//
// The library provides NewAssetLoader for filesystem-based loading with
// fallback to embedded defaults. Implement this interface for other backends.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a page template by name (without .html extension).
	// The template receives Title, Lang, CSS and Body.
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, the loader serves embedded assets only; otherwise
// basePath/styles/{name}.css and basePath/templates/{name}.html take
// precedence over the embedded files.
//
// Returns ErrInvalidAssetPath if basePath is set but not a readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, wrapAssetPathError(err)
	}
	return resolver, nil
}

// Styles lists the built-in page style names.
func Styles() []string {
	return assets.Styles()
}

// WithAssetLoader sets the loader used for page styles and templates.
// It takes precedence over WithAssetPath.
func WithAssetLoader(l AssetLoader) Option {
	return func(c *Converter) {
		c.assetLoader = l
	}
}

// assetSource names where a loader reads from, for debug logs.
func assetSource(l AssetLoader) string {
	r, ok := l.(*assets.AssetResolver)
	switch {
	case !ok:
		return "custom loader"
	case r.HasCustomLoader():
		return "directory with embedded fallback"
	default:
		return "embedded"
	}
}

func wrapAssetPathError(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidAssetPath, err)
}
