// Package htmlsanitize provides HTML sanitization for post content written in
// the editor. It uses bluemonday to strip dangerous HTML while preserving the
// formatting the blog editor emits.
package htmlsanitize

import (
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// UGC policy keeps headings, lists, emphasis, links, images.
		policy = bluemonday.UGCPolicy()

		// Post content also uses code blocks and inline figures.
		policy.AllowElements("figure", "figcaption", "u", "s", "sub", "sup", "mark")
		policy.AllowAttrs("class").OnElements("pre", "code", "figure")
	})
	return policy
}

// Sanitize cleans HTML content, removing dangerous elements and attributes.
// Runs on every blog create and on updates that touch the content field,
// before any derivation reads it.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return getPolicy().Sanitize(html)
}

// SanitizeToHTML sanitizes content and returns it as template.HTML, safe to
// render directly in templates without escaping.
func SanitizeToHTML(html string) template.HTML {
	return template.HTML(Sanitize(html))
}
