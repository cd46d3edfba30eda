package assets

import "errors"

// AssetResolver tries a custom directory first and falls back to the
// embedded assets when the custom directory lacks the requested asset.
type AssetResolver struct {
	custom   AssetLoader // nil when no custom path is configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath uses
// only embedded assets.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}
	return resolver, nil
}

// LoadStyle loads a CSS style, custom directory first.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadStyle(name)
	})
}

// LoadTemplate loads a page template, custom directory first.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadTemplate(name)
	})
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

func (r *AssetResolver) loadWithFallback(loadFn func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return loadFn(r.embedded)
	}

	content, err := loadFn(r.custom)
	if err == nil {
		return content, nil
	}

	// Validation and I/O errors are reported, only absence falls back.
	if !isNotFoundError(err) {
		return "", err
	}
	return loadFn(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

var _ AssetLoader = (*AssetResolver)(nil)
