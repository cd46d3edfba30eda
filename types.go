package md2html

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Engine selects the Markdown renderer.
type Engine string

// Available engines.
const (
	// EngineNative is the built-in rule set: fenced code protection, a fixed
	// block and inline precedence, and raw HTML passthrough behind a sanitizer.
	EngineNative Engine = "native"

	// EngineGoldmark renders CommonMark with GFM extensions and filters the
	// result through a strict allow-list policy.
	EngineGoldmark Engine = "goldmark"
)

// Engines lists the valid engine names.
func Engines() []string {
	return []string{string(EngineNative), string(EngineGoldmark)}
}

// ParseEngine maps a case-insensitive name to an Engine.
// An empty name selects EngineNative.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(EngineNative):
		return EngineNative, nil
	case string(EngineGoldmark):
		return EngineGoldmark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEngine, name)
}

// Defaults applied by NewConverter.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxInputSize = 10 << 20 // 10 MiB
	DefaultLang         = "en"
)

// Input is one conversion request.
type Input struct {
	Markdown string

	// BaseURL, when set, resolves relative link and image targets against
	// an absolute URL.
	BaseURL string

	// Standalone wraps the fragment in a complete HTML document.
	Standalone bool
	Title      string // page title; defaults to the first <h1>
	Lang       string // page language; defaults to "en"
	CSS        string // appended after the converter style
}

// Result holds the conversion output.
type Result struct {
	HTML  []byte
	Title string // explicit title or the first <h1> text, may be empty
}

// Option configures a Converter.
type Option func(*Converter)

// WithEngine selects the Markdown engine.
func WithEngine(e Engine) Option {
	return func(c *Converter) {
		c.cfg.engine = e
	}
}

// WithHighlighting enables chroma syntax highlighting of fenced code.
func WithHighlighting(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.highlight = enabled
	}
}

// WithHighlightStyle sets the chroma style used for highlighting CSS.
func WithHighlightStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = name
	}
}

// WithStrictSanitize runs the final HTML through an allow-list policy.
// The goldmark engine always does this.
func WithStrictSanitize(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.strict = enabled
	}
}

// WithLogger sets the logger for debug records. Nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxInputSize limits Markdown input in bytes. Zero or less disables the limit.
func WithMaxInputSize(n int64) Option {
	return func(c *Converter) {
		c.cfg.maxInputSize = n
	}
}

// WithTimeout sets the per-conversion timeout. Zero or less disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStyle sets the page style for standalone output: a built-in name,
// a path to a CSS file, or CSS content.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.style = style
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// built-in assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}
