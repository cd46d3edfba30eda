package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks flag parsing and argument errors.
var ErrUsage = errors.New("usage error")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags that shape the generated HTML.
type renderFlags struct {
	engine         string
	highlight      bool
	highlightStyle string
	strict         bool
}

// pageFlags holds standalone page flags.
type pageFlags struct {
	standalone bool
	style      string
	title      string
	lang       string
	baseURL    string
	assetPath  string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	timeout string
	render  renderFlags
	page    pageFlags

	// changed records flags set on the command line, so that false and
	// zero values can still override the config file.
	changed map[string]bool
}

// fixturesFlags holds flags for the fixtures command.
type fixturesFlags struct {
	common  commonFlags
	render  renderFlags
	run     string
	changed map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRenderFlags adds engine and sanitizer flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "markdown engine: native, goldmark")
	fs.BoolVar(&f.highlight, "highlight", false, "highlight fenced code with chroma")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style name (default github)")
	fs.BoolVar(&f.strict, "strict", false, "run the allow-list sanitizer over the output")
}

// addPageFlags adds standalone page flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "wrap output in a complete HTML document")
	fs.StringVar(&f.style, "style", "", "CSS style name, file path, or content")
	fs.StringVar(&f.title, "title", "", "page title (\"\" = first H1)")
	fs.StringVar(&f.lang, "lang", "", "page language (default en)")
	fs.StringVar(&f.baseURL, "base-url", "", "absolute URL for relative links and images")
	fs.StringVar(&f.assetPath, "assets", "", "directory overriding built-in styles and templates")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 5s, 1m)")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addPageFlags(fs, &f.page)

	if err := parse(fs, args, stderr, printConvertUsage); err != nil {
		return nil, nil, err
	}
	f.changed = changedFlags(fs)

	return f, fs.Args(), nil
}

// parseFixturesFlags parses fixtures command flags and returns positional args.
func parseFixturesFlags(args []string, stderr io.Writer) (*fixturesFlags, []string, error) {
	fs := flag.NewFlagSet("fixtures", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &fixturesFlags{}

	fs.StringVar(&f.run, "run", "", "only run fixtures whose name contains this text")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := parse(fs, args, stderr, printFixturesUsage); err != nil {
		return nil, nil, err
	}
	f.changed = changedFlags(fs)
	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, stderr io.Writer) (*commonFlags, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &commonFlags{}
	addCommonFlags(fs, f)

	if err := parse(fs, args, stderr, printConfigUsage); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

// parse runs fs.Parse, printing usage on -h and wrapping other errors as ErrUsage.
func parse(fs *flag.FlagSet, args []string, stderr io.Writer, usage func(io.Writer)) error {
	err := fs.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		usage(stderr)
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}

// changedFlags returns the names of the flags set on the command line.
func changedFlags(fs *flag.FlagSet) map[string]bool {
	changed := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { changed[fl.Name] = true })
	return changed
}
