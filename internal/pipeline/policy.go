package pipeline

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	languageClass = regexp.MustCompile(`^language-[A-Za-z0-9_+#.-]*$`)
	chromaClass   = regexp.MustCompile(`^[a-z0-9]{1,4}(?: [a-z0-9]{1,4})*$`)
	checkboxType  = regexp.MustCompile(`^checkbox$`)
	chromaPre     = regexp.MustCompile(`^chroma$`)
)

// strictPolicy is built once; a bluemonday policy is safe for concurrent
// use after construction.
var strictPolicy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(languageClass).OnElements("code")
	p.AllowAttrs("class").Matching(chromaClass).OnElements("span")
	p.AllowAttrs("class").Matching(chromaPre).OnElements("pre")
	p.AllowAttrs("type").Matching(checkboxType).OnElements("input")
	p.AllowAttrs("disabled", "checked").OnElements("input")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return p
})

// StrictSanitize filters html through an allow-list policy. Everything the
// converters emit survives; any other element or attribute is removed.
func StrictSanitize(html string) string {
	return strictPolicy().Sanitize(html)
}
