// Package config loads and validates the YAML configuration read by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxTitleLength  = 200
	MaxLangLength   = 35 // longest practical BCP 47 tag
	MaxStyleLength  = 4096
	MaxPathLength   = 4096
	MaxURLLength    = 2048
	MaxWorkers      = 64
	MaxMaxInputSize = 1 << 30
)

// Valid engine names.
var engines = []string{"native", "goldmark"}

// Config holds all configuration for HTML generation.
type Config struct {
	Engine       string          `yaml:"engine"`       // "native" (default) or "goldmark"
	Workers      int             `yaml:"workers"`      // 0 = auto
	MaxInputSize int64           `yaml:"maxInputSize"` // bytes, 0 = library default
	Input        InputConfig     `yaml:"input"`
	Output       OutputConfig    `yaml:"output"`
	Highlight    HighlightConfig `yaml:"highlight"`
	Sanitize     SanitizeConfig  `yaml:"sanitize"`
	Links        LinksConfig     `yaml:"links"`
	Assets       AssetsConfig    `yaml:"assets"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // used when no input argument is given
}

// OutputConfig defines output destination and page options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
	Standalone bool   `yaml:"standalone"` // wrap fragments in a full HTML document
	Style      string `yaml:"style"`      // style name, CSS file path, or CSS content
	Title      string `yaml:"title"`      // empty = first <h1>
	Lang       string `yaml:"lang"`       // empty = "en"
}

// HighlightConfig defines syntax highlighting options.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"` // chroma style name, empty = "github"
}

// SanitizeConfig defines sanitization options.
type SanitizeConfig struct {
	Strict bool `yaml:"strict"` // run the allow-list policy over native output
}

// LinksConfig defines link rewriting options.
type LinksConfig struct {
	BaseURL string `yaml:"baseURL"` // absolute URL for relative links and images
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// Validate checks values and field lengths.
// Called by LoadConfig, and usable on a Config built by hand.
func (c *Config) Validate() error {
	if c.Engine != "" && !isEngine(c.Engine) {
		return fmt.Errorf("%w: engine %q (must be %s)", ErrInvalidValue, c.Engine, strings.Join(engines, " or "))
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}
	if c.MaxInputSize < 0 || c.MaxInputSize > MaxMaxInputSize {
		return fmt.Errorf("%w: maxInputSize must be between 0 and %d, got %d", ErrInvalidValue, MaxMaxInputSize, c.MaxInputSize)
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"output.style", c.Output.Style, MaxStyleLength},
		{"output.title", c.Output.Title, MaxTitleLength},
		{"output.lang", c.Output.Lang, MaxLangLength},
		{"highlight.style", c.Highlight.Style, MaxTitleLength},
		{"links.baseURL", c.Links.BaseURL, MaxURLLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	return nil
}

func isEngine(name string) bool {
	for _, e := range engines {
		if strings.EqualFold(name, e) {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Engine: "native",
		Highlight: HighlightConfig{
			Enabled: false,
			Style:   "github",
		},
		Output: OutputConfig{Style: "default"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// A value with a path separator is a file path; otherwise it is a name
// searched in the current directory, then in the user config directory.
// A missing file is an error, never a silent fallback.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s\n%s", ErrConfigParse, configPath, yamlutil.FormatError(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists the files tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-md2html", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
