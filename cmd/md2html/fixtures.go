package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/logging"
	"github.com/alnah/go-md2html/internal/yamlutil"
)

// Sentinel errors for the fixtures command.
var (
	ErrReadFixtures   = errors.New("failed to read fixtures")
	ErrFixturesFailed = errors.New("fixtures failed")
)

// maxFixturesSize bounds the fixture file read by the fixtures command.
const maxFixturesSize = 8 << 20

// Fixture is one named rendering expectation.
type Fixture struct {
	Name     string `yaml:"name"`
	Sample   string `yaml:"sample"`
	Expected string `yaml:"expected"`
}

// FixtureResult holds the outcome of one fixture.
type FixtureResult struct {
	Name     string
	Got      string
	Expected string
	Err      error
}

// Passed reports whether the rendered output matched.
func (r FixtureResult) Passed() bool {
	return r.Err == nil && r.Got == r.Expected
}

// runFixtures renders every fixture of a YAML file and reports mismatches.
func runFixtures(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseFixturesFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: fixtures expects one file, got %d", ErrUsage, len(positional))
	}

	fixtures, err := loadFixtures(positional[0])
	if err != nil {
		return err
	}
	fixtures = filterFixtures(fixtures, flags.run)

	cfg, err := loadConfig(flags.common.config, loadEnvConfig(env.Getenv))
	if err != nil {
		return err
	}
	mergeRenderFlags(&flags.render, flags.changed, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.BuildLogger(env.Stderr, logLevel(flags.common))
	conv, err := newConverter(cfg, md2html.DefaultTimeout, logger)
	if err != nil {
		return err
	}

	start := env.Now()
	results := checkFixtures(ctx, conv, fixtures)
	elapsed := env.Now().Sub(start)

	failed := reportFixtures(env.Stdout, results, elapsed, flags.common.quiet, flags.common.verbose)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFixturesFailed, failed, len(results))
	}
	return nil
}

// loadFixtures reads a YAML list of fixtures. Unknown keys are rejected.
func loadFixtures(path string) ([]Fixture, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFixtures, err)
	}

	var fixtures []Fixture
	dec := yamlutil.Decoder{MaxSize: maxFixturesSize, Strict: true}
	if err := dec.Decode(data, &fixtures); err != nil {
		return nil, fmt.Errorf("%w: %s\n%s", ErrReadFixtures, path, yamlutil.FormatError(err))
	}

	for i, f := range fixtures {
		if strings.TrimSpace(f.Name) == "" {
			return nil, fmt.Errorf("%w: %s: fixture %d has no name", ErrReadFixtures, path, i+1)
		}
	}
	return fixtures, nil
}

// filterFixtures keeps fixtures whose name contains pattern.
func filterFixtures(fixtures []Fixture, pattern string) []Fixture {
	if pattern == "" {
		return fixtures
	}
	var kept []Fixture
	for _, f := range fixtures {
		if strings.Contains(f.Name, pattern) {
			kept = append(kept, f)
		}
	}
	return kept
}

// checkFixtures renders each trimmed sample and compares it with the
// trimmed expected output.
func checkFixtures(ctx context.Context, conv CLIConverter, fixtures []Fixture) []FixtureResult {
	results := make([]FixtureResult, 0, len(fixtures))
	for _, f := range fixtures {
		r := FixtureResult{
			Name:     strings.TrimSpace(f.Name),
			Expected: strings.TrimSpace(f.Expected),
		}
		res, err := conv.Convert(ctx, md2html.Input{Markdown: strings.TrimSpace(f.Sample)})
		if err != nil {
			r.Err = err
		} else {
			r.Got = strings.TrimSpace(string(res.HTML))
		}
		results = append(results, r)
	}
	return results
}

// reportFixtures prints passed and failed names and returns the failure count.
func reportFixtures(w io.Writer, results []FixtureResult, elapsed time.Duration, quiet, verbose bool) int {
	var passed, failed []FixtureResult
	for _, r := range results {
		if r.Passed() {
			passed = append(passed, r)
		} else {
			failed = append(failed, r)
		}
	}

	if !quiet {
		fmt.Fprintf(w, "Passed %d\n", len(passed))
		for _, r := range passed {
			fmt.Fprintf(w, "  %s\n", r.Name)
		}
	}

	if len(failed) > 0 || !quiet {
		fmt.Fprintf(w, "Failed %d\n", len(failed))
	}
	for _, r := range failed {
		fmt.Fprintf(w, "  %s\n", r.Name)
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "    error: %v\n", r.Err)
		case verbose:
			fmt.Fprintf(w, "    expected: %q\n", r.Expected)
			fmt.Fprintf(w, "    got:      %q\n", r.Got)
		}
	}

	if !quiet {
		fmt.Fprintf(w, "\nFinished in %v\n", elapsed.Round(time.Millisecond))
	}
	return len(failed)
}
