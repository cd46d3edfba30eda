package assets

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "default"

// DefaultTemplateName is the name of the built-in page template.
const DefaultTemplateName = "page"

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in CSS style by name, without the .css extension.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in page template by name, without the .html
// extension.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// Styles lists the built-in style names.
func Styles() []string {
	return defaultLoader.Styles()
}
