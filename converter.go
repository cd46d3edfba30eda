package md2html

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/highlight"
	"github.com/alnah/go-md2html/internal/logging"
	"github.com/alnah/go-md2html/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.NativeConverter)(nil)
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.Highlighter   = (*highlight.Highlighter)(nil)
)

// Render converts Markdown to a sanitized HTML fragment with the native
// engine and default settings. Empty input yields empty output.
func Render(markdown string) string {
	return pipeline.Render(markdown)
}

// Converter converts Markdown documents to HTML.
// Create with NewConverter. A Converter is safe for concurrent use.
type Converter struct {
	cfg           converterConfig
	logger        *slog.Logger
	assetLoader   AssetLoader
	highlighter   *highlight.Highlighter
	htmlConverter pipeline.HTMLConverter
	page          *pipeline.PageWrapper
	pageCSS       string
}

type converterConfig struct {
	engine         Engine
	highlight      bool
	highlightStyle string
	strict         bool
	maxInputSize   int64
	timeout        time.Duration
	style          string
	assetPath      string
}

// NewConverter creates a Converter. Without options it uses the native
// engine, no highlighting, the default page style and a 30s timeout.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			engine:       EngineNative,
			timeout:      DefaultTimeout,
			maxInputSize: DefaultMaxInputSize,
		},
		logger: logging.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	engine, err := ParseEngine(string(c.cfg.engine))
	if err != nil {
		return nil, err
	}
	c.cfg.engine = engine

	if c.cfg.highlight {
		hl, err := highlight.New(c.cfg.highlightStyle)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidStyle, err)
		}
		c.highlighter = hl
	}

	switch engine {
	case EngineGoldmark:
		c.htmlConverter = pipeline.NewGoldmarkConverter(pipeline.GoldmarkOptions{
			Highlight:      c.cfg.highlight,
			HighlightStyle: c.cfg.highlightStyle,
		})
	default:
		// A nil *Highlighter must not reach the interface.
		if c.highlighter != nil {
			c.htmlConverter = pipeline.NewNativeConverter(c.highlighter)
		} else {
			c.htmlConverter = pipeline.NewNativeConverter(nil)
		}
	}

	if c.assetLoader == nil {
		c.assetLoader, err = NewAssetLoader(c.cfg.assetPath)
		if err != nil {
			return nil, err
		}
	}

	if err := c.loadPage(); err != nil {
		return nil, err
	}

	c.logger.Debug("converter ready",
		"engine", c.cfg.engine,
		"highlight", c.cfg.highlight,
		"strict", c.cfg.strict,
		"assets", assetSource(c.assetLoader),
	)
	return c, nil
}

// loadPage resolves the page template and the stylesheet for standalone output.
func (c *Converter) loadPage() error {
	tmpl, err := c.assetLoader.LoadTemplate(DefaultTemplate)
	if err != nil {
		return fmt.Errorf("loading page template: %w", err)
	}
	c.page, err = pipeline.NewPageWrapper(tmpl)
	if err != nil {
		return fmt.Errorf("initializing page template: %w", err)
	}

	css, err := c.resolveStyle()
	if err != nil {
		return err
	}
	if c.highlighter != nil {
		hlCSS, err := c.highlighter.CSS()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidStyle, err)
		}
		css += "\n" + hlCSS
	}
	c.pageCSS = css
	return nil
}

// resolveStyle turns the style option (name, path, or CSS content) into CSS.
func (c *Converter) resolveStyle() (string, error) {
	input := c.cfg.style
	if input == "" {
		input = DefaultStyle
	}

	if fileutil.IsCSS(input) {
		return input, nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: loading style file %q: %w", ErrInvalidStyle, input, err)
		}
		return string(content), nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidStyle, err)
	}
	return css, nil
}

// Render converts Markdown to an HTML fragment using the converter's engine
// and settings, without size limit or timeout. Goldmark failures yield "".
func (c *Converter) Render(markdown string) string {
	out, err := c.fragment(context.Background(), markdown)
	if err != nil {
		c.logger.Debug("render failed", "engine", c.cfg.engine, "error", err)
		return ""
	}
	return out
}

// Convert converts one document. The context is used for cancellation; the
// converter timeout, when set, bounds the whole call.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrHTMLConversion, r)
		}
	}()

	if c.cfg.maxInputSize > 0 && int64(len(input.Markdown)) > c.cfg.maxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrInputTooLarge, len(input.Markdown), c.cfg.maxInputSize)
	}

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	start := time.Now()

	htmlContent, err := c.runFragment(ctx, input.Markdown)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %w", ErrConversionTimeout, c.cfg.timeout, err)
		}
		return nil, err
	}

	if input.BaseURL != "" {
		htmlContent, err = pipeline.RebaseLinks(htmlContent, input.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("rebasing links: %w", err)
		}
	}

	title := input.Title
	if title == "" {
		title = pipeline.DocumentTitle(htmlContent)
	}

	if input.Standalone {
		htmlContent, err = c.wrapPage(ctx, input, title, htmlContent)
		if err != nil {
			return nil, err
		}
	}

	c.logger.DebugContext(ctx, "converted markdown",
		"engine", c.cfg.engine,
		"inputBytes", len(input.Markdown),
		"outputBytes", len(htmlContent),
		"standalone", input.Standalone,
		"duration", time.Since(start),
	)

	return &Result{HTML: []byte(htmlContent), Title: title}, nil
}

// runFragment runs the engine in a goroutine so a deadline can interrupt
// the wait even though the engines do not poll the context.
func (c *Converter) runFragment(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: internal error: %v", ErrHTMLConversion, r)}
			}
		}()
		out, err := c.fragment(ctx, markdown)
		done <- result{html: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// fragment renders Markdown with the configured engine and policy.
func (c *Converter) fragment(ctx context.Context, markdown string) (string, error) {
	out, err := c.htmlConverter.ToHTML(ctx, markdown)
	if err != nil {
		return "", err
	}
	// Goldmark output has already been through the strict policy.
	if c.cfg.strict && c.cfg.engine == EngineNative {
		out = pipeline.StrictSanitize(out)
	}
	return out, nil
}

func (c *Converter) wrapPage(ctx context.Context, input Input, title, body string) (string, error) {
	css := c.pageCSS
	if input.CSS != "" {
		css += "\n" + input.CSS
	}
	lang := input.Lang
	if lang == "" {
		lang = DefaultLang
	}

	page, err := c.page.Wrap(ctx, pipeline.PageData{
		Title: title,
		Lang:  lang,
		CSS:   css,
		Body:  body,
	})
	if err != nil {
		return "", fmt.Errorf("wrapping page: %w", err)
	}
	return page, nil
}
