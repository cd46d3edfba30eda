package config

// Notes:
// - TestLoadConfig_ByName changes the working directory with t.Chdir and
//   cannot run in parallel.
// - Permission-denied reads are not tested: they behave differently as root.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes content to dir/name and returns the path.
func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestDefaultConfig
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Engine != "native" {
		t.Errorf("Engine = %q, want native", cfg.Engine)
	}
	if cfg.Highlight.Enabled {
		t.Error("Highlight.Enabled = true, want false")
	}
	if cfg.Output.Style != "default" {
		t.Errorf("Output.Style = %q, want default", cfg.Output.Style)
	}
	if cfg.Sanitize.Strict {
		t.Error("Sanitize.Strict = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Values and Field Lengths
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"defaults", func(c *Config) {}, nil},
		{"empty engine allowed", func(c *Config) { c.Engine = "" }, nil},
		{"goldmark engine", func(c *Config) { c.Engine = "goldmark" }, nil},
		{"engine case-insensitive", func(c *Config) { c.Engine = "Native" }, nil},
		{"unknown engine", func(c *Config) { c.Engine = "pandoc" }, ErrInvalidValue},
		{"negative workers", func(c *Config) { c.Workers = -1 }, ErrInvalidValue},
		{"too many workers", func(c *Config) { c.Workers = MaxWorkers + 1 }, ErrInvalidValue},
		{"max workers", func(c *Config) { c.Workers = MaxWorkers }, nil},
		{"negative max input", func(c *Config) { c.MaxInputSize = -1 }, ErrInvalidValue},
		{"huge max input", func(c *Config) { c.MaxInputSize = MaxMaxInputSize + 1 }, ErrInvalidValue},
		{"title at limit", func(c *Config) { c.Output.Title = strings.Repeat("t", MaxTitleLength) }, nil},
		{"title too long", func(c *Config) { c.Output.Title = strings.Repeat("t", MaxTitleLength+1) }, ErrFieldTooLong},
		{"lang too long", func(c *Config) { c.Output.Lang = strings.Repeat("a", MaxLangLength+1) }, ErrFieldTooLong},
		{"base url too long", func(c *Config) { c.Links.BaseURL = "https://x/" + strings.Repeat("a", MaxURLLength) }, ErrFieldTooLong},
		{"asset path too long", func(c *Config) { c.Assets.BasePath = strings.Repeat("a", MaxPathLength+1) }, ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFieldLength_Message(t *testing.T) {
	t.Parallel()

	err := validateFieldLength("output.title", "abcdef", 3)
	if !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("error = %v, want ErrFieldTooLong", err)
	}
	if !strings.Contains(err.Error(), "output.title (6 chars, max 3)") {
		t.Errorf("error = %q, want field name and sizes", err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File Loading
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "site.yaml", `engine: goldmark
workers: 4
maxInputSize: 2048
input:
  defaultDir: ./docs
output:
  defaultDir: ./public
  standalone: true
  style: plain
  title: Handbook
  lang: fr
highlight:
  enabled: true
  style: monokai
sanitize:
  strict: true
links:
  baseURL: https://example.com/docs/
assets:
  basePath: ./theme
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		checks := []struct {
			field string
			got   any
			want  any
		}{
			{"Engine", cfg.Engine, "goldmark"},
			{"Workers", cfg.Workers, 4},
			{"MaxInputSize", cfg.MaxInputSize, int64(2048)},
			{"Input.DefaultDir", cfg.Input.DefaultDir, "./docs"},
			{"Output.DefaultDir", cfg.Output.DefaultDir, "./public"},
			{"Output.Standalone", cfg.Output.Standalone, true},
			{"Output.Style", cfg.Output.Style, "plain"},
			{"Output.Title", cfg.Output.Title, "Handbook"},
			{"Output.Lang", cfg.Output.Lang, "fr"},
			{"Highlight.Enabled", cfg.Highlight.Enabled, true},
			{"Highlight.Style", cfg.Highlight.Style, "monokai"},
			{"Sanitize.Strict", cfg.Sanitize.Strict, true},
			{"Links.BaseURL", cfg.Links.BaseURL, "https://example.com/docs/"},
			{"Assets.BasePath", cfg.Assets.BasePath, "./theme"},
		}
		for _, c := range checks {
			if c.got != c.want {
				t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
			}
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "partial.yaml", "workers: 2\n")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Engine != "native" || cfg.Output.Style != "default" || cfg.Highlight.Style != "github" {
			t.Errorf("defaults lost: %+v", cfg)
		}
	})

	t.Run("nonexistent path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing.yaml")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "bad.yaml", "engine: [unclosed")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "typo.yaml", "engine: native\nfooter:\n  enabled: true\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "engine.yaml", "engine: pandoc\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "site.yml", "engine: goldmark\n")
	t.Chdir(dir)

	cfg, err := LoadConfig("site")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Engine != "goldmark" {
		t.Errorf("Engine = %q, want goldmark", cfg.Engine)
	}

	_, err = LoadConfig("nothing-here")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
	if err != nil && !strings.Contains(err.Error(), "nothing-here.yaml") {
		t.Errorf("error = %q, want tried paths", err)
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("site")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least local paths", paths)
	}
	if paths[0] != "site.yaml" || paths[1] != "site.yml" {
		t.Errorf("SearchPaths() local order = %v", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, filepath.Join("go-md2html", "site")) {
			t.Errorf("user path %q not under go-md2html", p)
		}
	}
}
