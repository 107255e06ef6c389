// internal/app/system/sanitize/sanitize.go

// Package sanitize strips markup from user-supplied text before it is
// stored. Group names, post and comment content, and report details all
// pass through the strict policy.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
