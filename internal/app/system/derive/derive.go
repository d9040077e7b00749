// internal/app/system/derive/derive.go

// Package derive computes the blog fields that are derived from other fields
// rather than supplied by the author: slug, summary, and reading time. All
// functions are pure so a pipeline can re-run them and get identical output.
package derive

import (
	"strings"
	"unicode/utf8"
)

// SummaryLength is the number of characters of content used for an
// auto-derived summary. The cut may split mid-word; that is accepted and not
// corrected.
const SummaryLength = 160

// WordsPerMinute is the assumed reading speed for ReadingTime.
const WordsPerMinute = 200

// Slug derives a URL slug from a title: lowercase, trimmed, everything but
// letters, digits, spaces, and hyphens stripped, whitespace runs collapsed to
// a single hyphen, repeated hyphens collapsed. A title of only special
// characters yields "".
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		}
	}

	parts := strings.Fields(b.String())
	slug := strings.Join(parts, "-")

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return slug
}

// Summary returns the first SummaryLength characters of content, or all of
// it when shorter. The count is runes, not bytes, so multi-byte content is
// never split mid-character.
func Summary(content string) string {
	if utf8.RuneCountInString(content) <= SummaryLength {
		return content
	}
	return string([]rune(content)[:SummaryLength])
}

// ReadingTime returns max(1, ceil(words/WordsPerMinute)) where a word is a
// maximal run of non-whitespace.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
