package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput         = errors.New("no input specified")
	ErrReadMarkdown    = errors.New("failed to read markdown file")
	ErrWriteHTML       = errors.New("failed to write HTML file")
	ErrCreateOutputDir = errors.New("failed to create output directory")
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input md2html.Input) (*md2html.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*md2html.Converter)(nil)

// conversionParams groups per-document settings shared across a batch.
type conversionParams struct {
	standalone bool
	title      string
	lang       string
	baseURL    string
}

// input builds the converter input for one document.
func (p *conversionParams) input(markdown string) md2html.Input {
	return md2html.Input{
		Markdown:   markdown,
		BaseURL:    p.baseURL,
		Standalone: p.standalone,
		Title:      p.title,
		Lang:       p.lang,
	}
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// convertBatch converts files with at most workers conversions in flight,
// all sharing one converter. Results keep the order of files; a failed file
// never stops the others.
func convertBatch(ctx context.Context, conv CLIConverter, files []FileToConvert, params *conversionParams, workers int) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]ConversionResult, len(files))

	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = ConversionResult{InputPath: f.InputPath, Err: err}
				return nil
			}
			results[i] = convertFile(ctx, conv, f, params)
			return nil
		})
	}
	_ = g.Wait() // per-file errors are in results

	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadMarkdown, err))
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrCreateOutputDir, err))
	}

	res, err := conv.Convert(ctx, params.input(string(content)))
	if err != nil {
		return fail(err)
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, withNewline(res.HTML), filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWriteHTML, err))
	}

	result.Duration = time.Since(start)
	return result
}

// convertStream converts one document from r to w.
func convertStream(ctx context.Context, conv CLIConverter, r io.Reader, w io.Writer, params *conversionParams) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: stdin: %w", ErrReadMarkdown, err)
	}

	res, err := conv.Convert(ctx, params.input(string(content)))
	if err != nil {
		return err
	}

	if _, err := w.Write(withNewline(res.HTML)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteHTML, err)
	}
	return nil
}

// withNewline terminates non-empty output with a newline.
func withNewline(html []byte) []byte {
	if len(html) == 0 || html[len(html)-1] == '\n' {
		return html
	}
	return append(html, '\n')
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
