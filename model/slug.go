package model

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// SanitizeSlug trims and validates a URL slug: lowercase letters, digits and
// hyphens only, at most 100 characters. Anything else fails with a
// ValidationError before it reaches a lookup.
func SanitizeSlug(slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", invalid("slug", "must not be empty")
	}
	if len(slug) > 100 {
		return "", invalid("slug", "must be at most 100 characters")
	}
	if !slugPattern.MatchString(slug) {
		return "", invalid("slug", "may only contain lowercase letters, digits and hyphens")
	}
	return slug, nil
}
