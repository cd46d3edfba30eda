package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		opts         GoldmarkOptions
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "heading with id",
			input:        "# Hi",
			wantContains: []string{`<h1 id="hi">Hi</h1>`},
		},
		{
			name:         "fragment, not a document",
			input:        "text",
			wantContains: []string{"<p>text</p>"},
			wantExcludes: []string{"<html", "<body"},
		},
		{
			name:         "raw script removed",
			input:        "<script>alert(1)</script>\n\ntext",
			wantContains: []string{"text"},
			wantExcludes: []string{"<script", "alert(1)"},
		},
		{
			name:         "event handler removed",
			input:        `<img src="x.png" onerror="alert(1)">`,
			wantContains: []string{`src="x.png"`},
			wantExcludes: []string{"onerror"},
		},
		{
			name:         "javascript link dropped",
			input:        "[x](javascript:alert(1))",
			wantExcludes: []string{"javascript:"},
		},
		{
			name:         "task list checkbox kept",
			input:        "- [x] done",
			wantContains: []string{`type="checkbox"`, "done"},
		},
		{
			name:         "strikethrough",
			input:        "~~gone~~",
			wantContains: []string{"<del>gone</del>"},
		},
		{
			name:         "plain code block keeps language class",
			input:        "```go\nfunc main() {}\n```",
			wantContains: []string{`class="language-go"`, "func main() {}"},
		},
		{
			name:         "highlighted code block",
			opts:         GoldmarkOptions{Highlight: true},
			input:        "```go\nfunc main() {}\n```",
			wantContains: []string{`class="chroma"`, "func"},
			wantExcludes: []string{"style="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewGoldmarkConverter(tt.opts)
			got, err := c.ToHTML(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML(%q) = %q, want to contain %q", tt.input, got, want)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("ToHTML(%q) = %q, should not contain %q", tt.input, got, exclude)
				}
			}
		})
	}
}

func TestGoldmarkConverter_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter(GoldmarkOptions{}).ToHTML(ctx, "# Hi")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}

func TestGoldmarkConverter_Payloads(t *testing.T) {
	t.Parallel()

	c := NewGoldmarkConverter(GoldmarkOptions{})
	for _, payload := range xssPayloads {
		out, err := c.ToHTML(context.Background(), payload)
		if err != nil {
			t.Fatalf("ToHTML(%q) error = %v", payload, err)
		}
		if problem := findExecutable(t, out); problem != "" {
			t.Errorf("ToHTML(%q) = %q: %s", payload, out, problem)
		}
	}
}
