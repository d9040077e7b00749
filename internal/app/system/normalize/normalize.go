// Package normalize provides helper functions for consistent string
// normalization across the application. Use these helpers instead of scattered
// strings.ToLower and strings.TrimSpace calls to ensure consistent behavior.
package normalize

import "strings"

// Email normalizes an email address by trimming whitespace and converting to
// lowercase. This is the canonical way to normalize emails before storage or
// comparison.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Field normalizes a plain form field by trimming whitespace.
func Field(s string) string {
	return strings.TrimSpace(s)
}

// Name normalizes a name by trimming whitespace.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Hobbies coerces submitted hobby values into the stored form: blanks are
// dropped after trimming, order is preserved, and the result is never nil so
// the document always carries an array. A single-valued form post arrives as
// a one-element slice from r.Form and passes through unchanged.
func Hobbies(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Tags coerces submitted tag values the same way Hobbies does.
func Tags(values []string) []string {
	return Hobbies(values)
}
