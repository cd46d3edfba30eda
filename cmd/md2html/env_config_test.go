package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-md2html/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment Parsing
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"MD2HTML_CONFIG":     "site",
		"MD2HTML_ENGINE":     "goldmark",
		"MD2HTML_STYLE":      "plain",
		"MD2HTML_TIMEOUT":    "90s",
		"MD2HTML_INPUT_DIR":  "docs",
		"MD2HTML_OUTPUT_DIR": "public",
		"MD2HTML_BASE_URL":   "https://example.com/",
		"MD2HTML_LANG":       "de",
		"MD2HTML_WORKERS":    "4",
	}
	env := loadEnvConfig(func(k string) string { return vars[k] })

	want := envConfig{
		ConfigPath: "site",
		Engine:     "goldmark",
		Style:      "plain",
		Timeout:    90 * time.Second,
		InputDir:   "docs",
		OutputDir:  "public",
		BaseURL:    "https://example.com/",
		Lang:       "de",
		Workers:    4,
	}
	if *env != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *env, want)
	}
}

func TestLoadEnvConfig_MalformedIgnored(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"MD2HTML_TIMEOUT": "soon",
		"MD2HTML_WORKERS": "-2",
	}
	env := loadEnvConfig(func(k string) string { return vars[k] })
	if env.Timeout != 0 || env.Workers != 0 {
		t.Errorf("malformed values kept: timeout=%v workers=%d", env.Timeout, env.Workers)
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"MD2HTML_STYLE=plain",
		"MD2HTML_STYEL=plain",
		"HOME=/root",
	})

	out := buf.String()
	if !strings.Contains(out, "MD2HTML_STYEL") {
		t.Errorf("output = %q, want warning for MD2HTML_STYEL", out)
	}
	if strings.Contains(out, "MD2HTML_STYLE ") || strings.Contains(out, "HOME") {
		t.Errorf("output = %q, warned about a valid variable", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Precedence
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("env overrides file values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output.Style = "from-file"
		applyEnvConfig(&envConfig{Style: "plain", Engine: "goldmark", Workers: 2}, cfg)

		if cfg.Output.Style != "plain" || cfg.Engine != "goldmark" || cfg.Workers != 2 {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("unset env keeps file values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output.Lang = "fr"
		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Output.Lang != "fr" || cfg.Engine != "native" {
			t.Errorf("cfg = %+v", cfg)
		}
	})
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"site.yaml": "engine: goldmark\nworkers: 3\n"})

	cfg, err := loadConfig("", &envConfig{ConfigPath: filepath.Join(dir, "site.yaml"), Workers: 5})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Engine != "goldmark" {
		t.Errorf("Engine = %q, want goldmark", cfg.Engine)
	}
	if cfg.Workers != 5 {
		t.Errorf("Workers = %d, want env value 5", cfg.Workers)
	}

	_, err = loadConfig(filepath.Join(dir, "missing.yaml"), &envConfig{})
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
}
