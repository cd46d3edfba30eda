package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidBaseURL indicates the base URL is not absolute.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// RebaseLinks resolves relative image sources and link targets against
// baseURL, so a fragment rendered from a source tree keeps working once
// embedded in a page served elsewhere. If baseURL is empty, returns the
// HTML unchanged.
//
// Rewrites:
//   - img[src]
//   - a[href]
//
// Leaves alone:
//   - fragment-only references (#section)
//   - absolute and protocol-relative URLs
//   - neutralized executable URIs (they start with '#')
//   - the contents of <pre> and <code>
func RebaseLinks(htmlContent, baseURL string) (string, error) {
	if baseURL == "" {
		return htmlContent, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	// A base without a trailing slash would resolve siblings of its last
	// segment instead of its children.
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rebaseNode(doc, base)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node and whether it was a fragment.
func parseHTML(content string) (*html.Node, bool, error) {
	lower := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse in body context to avoid wrapping
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the tree back to a string. Fragments render their
// children only.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rebaseNode(n *html.Node, base *url.URL) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rebaseAttr(n, "src", base)
		case atom.A:
			rebaseAttr(n, "href", base)
		case atom.Pre, atom.Code:
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rebaseNode(c, base)
	}
}

func rebaseAttr(n *html.Node, key string, base *url.URL) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativeRef(attr.Val) {
			continue
		}
		ref, err := url.Parse(attr.Val)
		if err != nil {
			continue // leave unparsable references untouched
		}
		n.Attr[i].Val = base.ResolveReference(ref).String()
	}
}

// isRelativeRef reports whether ref is a path relative to the document.
func isRelativeRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
