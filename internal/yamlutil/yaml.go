// Package yamlutil wraps goccy/go-yaml so callers share one size limit and
// one error style for config files and fixture files.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// DefaultMaxSize limits YAML input to prevent memory exhaustion (1 MiB).
const DefaultMaxSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// Decoder decodes YAML documents under a size limit.
type Decoder struct {
	MaxSize int  // bytes; zero or less means DefaultMaxSize
	Strict  bool // reject keys that match no field
}

// Decode parses data into v.
func (d Decoder) Decode(data []byte, v any) error {
	maxSize := d.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > maxSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), maxSize)
	}
	if v == nil {
		return ErrNilDestination
	}

	var opts []yaml.DecodeOption
	if d.Strict {
		opts = append(opts, yaml.Strict())
	}
	if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Unmarshal parses data into v, ignoring unknown keys.
func Unmarshal(data []byte, v any) error {
	return Decoder{}.Decode(data, v)
}

// UnmarshalStrict parses data into v and rejects unknown keys.
func UnmarshalStrict(data []byte, v any) error {
	return Decoder{Strict: true}.Decode(data, v)
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// FormatError renders a decode error with the offending source lines when
// the underlying parser reported a position. Other errors are returned as is.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return yaml.FormatError(err, false, true)
}
