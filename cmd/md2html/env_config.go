package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2html/internal/config"
)

// envPrefix is the prefix of every environment variable read by the CLI.
const envPrefix = "MD2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MD2HTML_CONFIG: config file name or path
	Engine     string        // MD2HTML_ENGINE: native or goldmark
	Style      string        // MD2HTML_STYLE: CSS style name or path
	Timeout    time.Duration // MD2HTML_TIMEOUT: per-document timeout
	InputDir   string        // MD2HTML_INPUT_DIR: default input directory
	OutputDir  string        // MD2HTML_OUTPUT_DIR: default output directory
	BaseURL    string        // MD2HTML_BASE_URL: base for relative links
	Lang       string        // MD2HTML_LANG: page language
	Workers    int           // MD2HTML_WORKERS: parallel workers
}

// knownEnvVars lists valid MD2HTML_* environment variables.
var knownEnvVars = map[string]bool{
	"MD2HTML_CONFIG":     true,
	"MD2HTML_ENGINE":     true,
	"MD2HTML_STYLE":      true,
	"MD2HTML_TIMEOUT":    true,
	"MD2HTML_INPUT_DIR":  true,
	"MD2HTML_OUTPUT_DIR": true,
	"MD2HTML_BASE_URL":   true,
	"MD2HTML_LANG":       true,
	"MD2HTML_WORKERS":    true,
}

// loadEnvConfig reads MD2HTML_* values through getenv.
// Malformed durations and counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("MD2HTML_CONFIG"),
		Engine:     getenv("MD2HTML_ENGINE"),
		Style:      getenv("MD2HTML_STYLE"),
		InputDir:   getenv("MD2HTML_INPUT_DIR"),
		OutputDir:  getenv("MD2HTML_OUTPUT_DIR"),
		BaseURL:    getenv("MD2HTML_BASE_URL"),
		Lang:       getenv("MD2HTML_LANG"),
	}

	if timeout := getenv("MD2HTML_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("MD2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized MD2HTML_* variable.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config values with set environment variables.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Engine != "" {
		cfg.Engine = env.Engine
	}
	if env.Style != "" {
		cfg.Output.Style = env.Style
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.BaseURL != "" {
		cfg.Links.BaseURL = env.BaseURL
	}
	if env.Lang != "" {
		cfg.Output.Lang = env.Lang
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}

// loadConfig loads the named config (or MD2HTML_CONFIG) over the defaults
// and applies the environment.
func loadConfig(name string, env *envConfig) (*config.Config, error) {
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}
