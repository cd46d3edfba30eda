package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/logging"
)

// ErrInvalidTimeout indicates a malformed or non-positive --timeout value.
var ErrInvalidTimeout = errors.New("invalid timeout")

// stdinArg selects standard input as the markdown source.
const stdinArg = "-"

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig(env.Getenv)
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}

	// CLI wins over env and file
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Links.BaseURL != "" && !fileutil.IsURL(cfg.Links.BaseURL) {
		return fmt.Errorf("%w: %q", md2html.ErrInvalidBaseURL, cfg.Links.BaseURL)
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg)
	if err != nil {
		return err
	}

	logger := logging.BuildLogger(env.Stderr, logLevel(flags.common))
	conv, err := newConverter(cfg, timeout, logger)
	if err != nil {
		return err
	}

	params := &conversionParams{
		standalone: cfg.Output.Standalone,
		title:      cfg.Output.Title,
		lang:       cfg.Output.Lang,
		baseURL:    cfg.Links.BaseURL,
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}

	if inputPath == stdinArg {
		return convertStream(ctx, conv, env.Stdin, env.Stdout, params)
	}

	files, err := discoverFiles(inputPath, resolveOutputDir(flags.output, cfg))
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	workers := md2html.ResolveWorkers(cfg.Workers)
	logger.Debug("starting conversion", "files", len(files), "workers", workers, "engine", cfg.Engine)

	results := convertBatch(ctx, conv, files, params, workers)

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}

	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.changed["workers"] {
		cfg.Workers = flags.workers
	}

	mergeRenderFlags(&flags.render, flags.changed, cfg)

	if flags.changed["standalone"] {
		cfg.Output.Standalone = flags.page.standalone
	}
	if flags.page.style != "" {
		cfg.Output.Style = flags.page.style
	}
	if flags.page.title != "" {
		cfg.Output.Title = flags.page.title
	}
	if flags.page.lang != "" {
		cfg.Output.Lang = flags.page.lang
	}
	if flags.page.baseURL != "" {
		cfg.Links.BaseURL = flags.page.baseURL
	}
	if flags.page.assetPath != "" {
		cfg.Assets.BasePath = flags.page.assetPath
	}
}

// mergeRenderFlags merges engine and sanitizer flags into config.
func mergeRenderFlags(f *renderFlags, changed map[string]bool, cfg *config.Config) {
	if f.engine != "" {
		cfg.Engine = f.engine
	}
	if changed["highlight"] {
		cfg.Highlight.Enabled = f.highlight
	}
	if f.highlightStyle != "" {
		cfg.Highlight.Style = f.highlightStyle
	}
	if changed["strict"] {
		cfg.Sanitize.Strict = f.strict
	}
}

// newConverter builds a library converter from the merged config.
func newConverter(cfg *config.Config, timeout time.Duration, logger *slog.Logger) (*md2html.Converter, error) {
	engine, err := md2html.ParseEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}

	opts := []md2html.Option{
		md2html.WithEngine(engine),
		md2html.WithHighlighting(cfg.Highlight.Enabled),
		md2html.WithHighlightStyle(cfg.Highlight.Style),
		md2html.WithStrictSanitize(cfg.Sanitize.Strict),
		md2html.WithStyle(cfg.Output.Style),
		md2html.WithAssetPath(cfg.Assets.BasePath),
		md2html.WithLogger(logger),
		md2html.WithTimeout(timeout),
	}
	if cfg.MaxInputSize > 0 {
		opts = append(opts, md2html.WithMaxInputSize(cfg.MaxInputSize))
	}

	return md2html.NewConverter(opts...)
}

// resolveTimeout returns the --timeout value, then MD2HTML_TIMEOUT, then the default.
func resolveTimeout(flagValue string, env *envConfig) (time.Duration, error) {
	if flagValue == "" {
		if env.Timeout > 0 {
			return env.Timeout, nil
		}
		return md2html.DefaultTimeout, nil
	}

	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// resolveInputPath returns the positional input, or the config default directory.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	}
	if len(args) == 1 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns the --output value, or the config default directory.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// logLevel maps --quiet and --verbose to a log level.
func logLevel(f commonFlags) string {
	switch {
	case f.verbose:
		return "debug"
	case f.quiet:
		return "error"
	default:
		return "warn"
	}
}
