package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert markdown files to HTML")
	fmt.Fprintln(w, "  fixtures   Check rendering against a YAML fixture file")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2html help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>          Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>            Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>            Per-document timeout (e.g., 5s, 1m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -e, --engine <s>             Engine: native, goldmark")
	fmt.Fprintln(w, "      --highlight              Highlight fenced code")
	fmt.Fprintln(w, "      --highlight-style <s>    Chroma style (default github)")
	fmt.Fprintln(w, "      --strict                 Allow-list sanitizer over the output")
	fmt.Fprintln(w, "      --base-url <url>         Resolve relative links against a URL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --standalone             Emit a complete HTML document")
	fmt.Fprintln(w, "      --style <s>              Style name, CSS file, or CSS content")
	fmt.Fprintln(w, "      --title <s>              Page title (\"\" = first H1)")
	fmt.Fprintln(w, "      --lang <s>               Page language (default en)")
	fmt.Fprintln(w, "      --assets <dir>           Override built-in styles and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                  Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                Show detailed timing")
}

// printFixturesUsage prints usage for the fixtures command.
func printFixturesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html fixtures <file.yaml> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render each fixture sample and compare it with the expected HTML.")
	fmt.Fprintln(w, "The file is a YAML list of {name, sample, expected} entries.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --run <s>                Only fixtures whose name contains s")
	fmt.Fprintln(w, "  -e, --engine <s>             Engine: native, goldmark")
	fmt.Fprintln(w, "      --highlight              Highlight fenced code")
	fmt.Fprintln(w, "      --strict                 Allow-list sanitizer over the output")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet                  Only show failures")
	fmt.Fprintln(w, "  -v, --verbose                Show expected and actual output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exits with status 4 when any fixture fails.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html config [-c <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after applying the config file and")
	fmt.Fprintln(w, "MD2HTML_* environment variables.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "fixtures":
		printFixturesUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
