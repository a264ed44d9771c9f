// Package sanitize strips markup from free text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// bluemonday policies are safe for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// Text removes every HTML tag from s and trims surrounding whitespace.
// Entities escaped by the policy are turned back into plain characters,
// so "5 < 6 & 7" is stored as written.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
