package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestLoadFixtures - YAML Fixture Files
// ---------------------------------------------------------------------------

func TestLoadFixtures(t *testing.T) {
	t.Parallel()

	t.Run("testdata", func(t *testing.T) {
		t.Parallel()

		fixtures, err := loadFixtures(filepath.Join("testdata", "fixtures.yaml"))
		if err != nil {
			t.Fatalf("loadFixtures() error = %v", err)
		}
		if len(fixtures) != 6 {
			t.Fatalf("len(fixtures) = %d, want 6", len(fixtures))
		}
		if fixtures[0].Name != "heading" || fixtures[0].Sample != "# Heading 1" {
			t.Errorf("fixtures[0] = %+v", fixtures[0])
		}
	})

	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "- name: a\n  sample: x\n  expected: y\n  skip: true\n"},
		{"missing name", "- sample: x\n  expected: y\n"},
		{"not a list", "name: a\n"},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := setupTestDir(t, map[string]string{"f.yaml": tt.content})
			_, err := loadFixtures(filepath.Join(dir, "f.yaml"))
			if !errors.Is(err, ErrReadFixtures) {
				t.Errorf("loadFixtures() error = %v, want ErrReadFixtures", err)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := loadFixtures(filepath.Join(t.TempDir(), "none.yaml"))
		if !errors.Is(err, ErrReadFixtures) {
			t.Errorf("loadFixtures() error = %v, want ErrReadFixtures", err)
		}
	})
}

func TestFilterFixtures(t *testing.T) {
	t.Parallel()

	all := []Fixture{{Name: "inline code"}, {Name: "fenced code"}, {Name: "heading"}}
	if got := filterFixtures(all, ""); len(got) != 3 {
		t.Errorf("empty pattern kept %d, want 3", len(got))
	}
	if got := filterFixtures(all, "code"); len(got) != 2 {
		t.Errorf("\"code\" kept %d, want 2", len(got))
	}
}

// ---------------------------------------------------------------------------
// TestCheckFixtures - Comparison
// ---------------------------------------------------------------------------

func TestCheckFixtures(t *testing.T) {
	t.Parallel()

	fixtures := []Fixture{
		{Name: " match ", Sample: "  a  ", Expected: "\n<p>a</p>\n"},
		{Name: "mismatch", Sample: "b", Expected: "<p>c</p>"},
	}

	mock := &mockConverter{}
	results := checkFixtures(context.Background(), mock, fixtures)

	if !results[0].Passed() || results[0].Name != "match" {
		t.Errorf("results[0] = %+v, want trimmed pass", results[0])
	}
	if results[1].Passed() {
		t.Errorf("results[1] passed, want failure")
	}
	if calls := mock.getCalls(); calls[0].Markdown != "a" {
		t.Errorf("sample not trimmed: %q", calls[0].Markdown)
	}

	failing := &mockConverter{err: errors.New("boom")}
	results = checkFixtures(context.Background(), failing, fixtures[:1])
	if results[0].Passed() || results[0].Err == nil {
		t.Errorf("converter error not recorded: %+v", results[0])
	}
}

func TestReportFixtures(t *testing.T) {
	t.Parallel()

	results := []FixtureResult{
		{Name: "ok", Got: "<p>a</p>", Expected: "<p>a</p>"},
		{Name: "bad", Got: "<p>b</p>", Expected: "<p>c</p>"},
	}

	var buf bytes.Buffer
	failed := reportFixtures(&buf, results, 1500*time.Microsecond, false, true)
	if failed != 1 {
		t.Errorf("reportFixtures() = %d, want 1", failed)
	}
	out := buf.String()
	for _, want := range []string{"Passed 1", "  ok", "Failed 1", "  bad", `expected: "<p>c</p>"`, "Finished in 2ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	reportFixtures(&buf, results[:1], time.Millisecond, true, false)
	if buf.Len() != 0 {
		t.Errorf("quiet output with no failures = %q, want empty", buf.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunFixtures - End to End
// ---------------------------------------------------------------------------

func TestRunFixtures(t *testing.T) {
	t.Parallel()

	t.Run("testdata passes", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv("", nil)
		err := runFixtures(context.Background(), []string{filepath.Join("testdata", "fixtures.yaml")}, env)
		if err != nil {
			t.Fatalf("runFixtures() error = %v\n%s", err, stdout.String())
		}
		if !strings.Contains(stdout.String(), "Passed 6") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("failure exits with fixtures code", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{
			"f.yaml": "- name: wrong\n  sample: '# A'\n  expected: '<h2>A</h2>'\n",
		})
		env, stdout, _ := testEnv("", nil)
		err := runFixtures(context.Background(), []string{filepath.Join(dir, "f.yaml")}, env)
		if !errors.Is(err, ErrFixturesFailed) {
			t.Fatalf("runFixtures() error = %v, want ErrFixturesFailed", err)
		}
		if exitCodeFor(err) != ExitFixtures {
			t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitFixtures)
		}
		if !strings.Contains(stdout.String(), "wrong") {
			t.Errorf("stdout = %q, want failed name", stdout.String())
		}
	})

	t.Run("run filter", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv("", nil)
		err := runFixtures(context.Background(), []string{filepath.Join("testdata", "fixtures.yaml"), "--run", "code"}, env)
		if err != nil {
			t.Fatalf("runFixtures() error = %v", err)
		}
		if !strings.Contains(stdout.String(), "Passed 2") {
			t.Errorf("stdout = %q, want 2 passed", stdout.String())
		}
	})

	t.Run("needs one file", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("", nil)
		if err := runFixtures(context.Background(), nil, env); !errors.Is(err, ErrUsage) {
			t.Errorf("runFixtures() error = %v, want ErrUsage", err)
		}
	})
}
