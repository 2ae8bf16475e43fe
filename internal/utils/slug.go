package utils

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL-safe key: lower-cased, every run of
// characters outside [a-z0-9] replaced by a single hyphen, edge hyphens trimmed.
func Slugify(s string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}
