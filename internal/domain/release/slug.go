package release

import (
	"regexp"
	"strings"
)

// nonAlphanumeric matches every run of characters a slug cannot contain.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, collapses every run of non-alphanumeric characters
// into one hyphen and trims hyphens from both ends.
// Slugify(Slugify(s)) == Slugify(s) for any s.
func Slugify(name string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-")

	return strings.Trim(slug, "-")
}
