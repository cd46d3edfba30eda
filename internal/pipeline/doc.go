// Package pipeline implements the Markdown-to-HTML conversion pipeline.
//
// The native converter runs these stages in order:
//   - Normalization: line endings become \n, placeholder sentinels are removed
//   - Extraction: fenced code blocks are replaced by placeholder tokens
//   - Sanitization: script-like tags, event handlers and executable URIs are
//     neutralized
//   - Block scanning: lines are grouped into headings, quotes, rules, lists,
//     raw HTML, style blocks and paragraphs
//   - Inline rendering: code spans, links, images, emphasis and strike
//   - Sanitization again, over the generated markup
//   - Reinsertion: placeholders are replaced by escaped (or highlighted) code
//
// The goldmark converter is a CommonMark/GFM alternative whose output is
// filtered by a bluemonday allow-list policy.
//
// Page wrapping and link rebasing operate on the rendered fragment and are
// used by the CLI for standalone output.
package pipeline
