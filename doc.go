// Package md2html converts Markdown documents to sanitized HTML.
//
// # Quick Start
//
// For a fragment with default settings:
//
//	html := md2html.Render("# Hello\n\nWorld")
//
// For engine selection, limits and standalone pages, create a Converter:
//
//	conv, err := md2html.NewConverter(
//	    md2html.WithHighlighting(true),
//	    md2html.WithTimeout(5 * time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, md2html.Input{
//	    Markdown:   content,
//	    Standalone: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.html", result.HTML, 0644)
//
// # Conversion Pipeline
//
// The native engine runs these stages on every call:
//
//  1. Fenced code blocks are lifted out and replaced by private-use tokens
//  2. Raw text is sanitized (script-like elements escaped, on* attributes
//     dropped, javascript: URIs neutralized)
//  3. Block scanning and inline rendering, in a fixed precedence
//  4. The generated markup is sanitized again
//  5. Code blocks are put back as <pre><code class="language-X">
//
// The goldmark engine renders CommonMark with GFM extensions instead and
// filters the result through a bluemonday allow-list policy.
//
// # Output
//
// Output is a fragment meant to be inserted into a page as-is. With
// Input.Standalone the fragment is wrapped in an HTML5 document using the
// converter's style; Input.BaseURL resolves relative links and images.
//
// # Concurrency
//
// Render and Converter methods hold no shared mutable state and may be
// called from multiple goroutines. ResolveWorkers picks a worker count for
// batch conversion.
package md2html
