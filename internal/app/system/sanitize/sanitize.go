// internal/app/system/sanitize/sanitize.go

// Package sanitize strips markup from caller-supplied text before it is
// stored. Product descriptions and chat messages are rendered back to other
// users, so they go through a strict bluemonday policy.
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
