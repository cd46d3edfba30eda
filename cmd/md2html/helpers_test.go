package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	md2html "github.com/alnah/go-md2html"
)

// testEnv returns an Environment reading stdin and vars, with captured output.
func testEnv(stdin string, vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	env := &Environment{
		Now:    func() time.Time { return fixed },
		Stdin:  strings.NewReader(stdin),
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
	}
	return env, stdout, stderr
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

// readFile returns a file's content or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

// mockConverter records inputs and returns canned output or an error.
type mockConverter struct {
	mu     sync.Mutex
	calls  []md2html.Input
	output string
	err    error
}

func (m *mockConverter) Convert(_ context.Context, input md2html.Input) (*md2html.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	out := m.output
	if out == "" {
		out = "<p>" + input.Markdown + "</p>"
	}
	return &md2html.Result{HTML: []byte(out)}, nil
}

func (m *mockConverter) getCalls() []md2html.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]md2html.Input(nil), m.calls...)
}
