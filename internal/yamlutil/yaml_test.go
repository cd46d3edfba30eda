package yamlutil_test

// Notes:
// - Marshal error branch: not tested because yaml.Marshal only fails with
//   unmarshalable types (channels, functions).

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-md2html/internal/yamlutil"
)

type testConfig struct {
	Engine    string `yaml:"engine"`
	Workers   int    `yaml:"workers"`
	Highlight bool   `yaml:"highlight"`
}

// ---------------------------------------------------------------------------
// TestDecoder - Size limit, strictness, nil checks
// ---------------------------------------------------------------------------

func TestDecoder_Decode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		decoder yamlutil.Decoder
		data    []byte
		dest    any
		wantErr error
	}{
		{"valid", yamlutil.Decoder{}, []byte("engine: native\nworkers: 2"), &testConfig{}, nil},
		{"nil data", yamlutil.Decoder{}, nil, &testConfig{}, yamlutil.ErrNilData},
		{"nil destination", yamlutil.Decoder{}, []byte("engine: x"), nil, yamlutil.ErrNilDestination},
		{"at limit", yamlutil.Decoder{MaxSize: 14}, []byte("engine: native"), &testConfig{}, nil},
		{"over limit", yamlutil.Decoder{MaxSize: 13}, []byte("engine: native"), &testConfig{}, yamlutil.ErrInputTooLarge},
		{"unknown key allowed", yamlutil.Decoder{}, []byte("other: 1"), &testConfig{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.decoder.Decode(tt.data, tt.dest)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecoder_SizeMessage(t *testing.T) {
	t.Parallel()

	err := yamlutil.Decoder{MaxSize: 50}.Decode(make([]byte, 100), &testConfig{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if msg := err.Error(); !strings.Contains(msg, "100 bytes") || !strings.Contains(msg, "max 50") {
		t.Errorf("error = %q, want sizes", msg)
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshal / TestUnmarshalStrict - Package-level helpers
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	if err := yamlutil.Unmarshal([]byte("engine: goldmark\nworkers: 4\nhighlight: true\nextra: x"), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Engine != "goldmark" || cfg.Workers != 4 || !cfg.Highlight {
		t.Errorf("Unmarshal() = %+v", cfg)
	}
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("known keys", func(t *testing.T) {
		t.Parallel()

		var cfg testConfig
		if err := yamlutil.UnmarshalStrict([]byte("engine: native"), &cfg); err != nil {
			t.Errorf("UnmarshalStrict() error = %v", err)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		t.Parallel()

		var cfg testConfig
		err := yamlutil.UnmarshalStrict([]byte("engine: native\ntypo: 1"), &cfg)
		if err == nil {
			t.Fatal("UnmarshalStrict() expected error for unknown key")
		}
		if !strings.HasPrefix(err.Error(), "yamlutil:") {
			t.Errorf("error = %q, want prefix 'yamlutil:'", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestMarshal / TestFormatError
// ---------------------------------------------------------------------------

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	original := testConfig{Engine: "native", Workers: 3, Highlight: true}
	data, err := yamlutil.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded testConfig
	if err := yamlutil.UnmarshalStrict(data, &decoded); err != nil {
		t.Fatalf("UnmarshalStrict() error = %v", err)
	}
	if decoded != original {
		t.Errorf("round trip = %+v, want %+v", decoded, original)
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if got := yamlutil.FormatError(nil); got != "" {
		t.Errorf("FormatError(nil) = %q, want empty", got)
	}

	err := yamlutil.Unmarshal([]byte("engine: [unclosed"), &testConfig{})
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if got := yamlutil.FormatError(err); got == "" {
		t.Error("FormatError() returned empty string for syntax error")
	}

	plain := errors.New("plain")
	if got := yamlutil.FormatError(plain); got != "plain" {
		t.Errorf("FormatError(plain) = %q, want %q", got, "plain")
	}
}
