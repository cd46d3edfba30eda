package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName reports whether name is usable as a bare file name.
// Separators and dots are rejected so a name can neither leave the asset
// directory nor change the extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
