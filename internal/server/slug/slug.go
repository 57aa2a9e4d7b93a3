// Package slug derives stable, URL-safe project identifiers from titles.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Fallback is used when a title has no letters or digits at all.
const Fallback = "project"

var stripRe = regexp.MustCompile(`[^\p{L}\p{N}-]+`)

// Make lowercases title, turns spaces into hyphens and drops every other
// character that is not a letter, a digit or a hyphen.
func Make(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "-")
	s = stripRe.ReplaceAllString(s, "")
	if strings.Trim(s, "-") == "" {
		return Fallback
	}
	return s
}

// WithSuffix disambiguates base with a base-36 rendering of t.
func WithSuffix(base string, t time.Time) string {
	return base + "-" + strconv.FormatInt(t.UnixNano(), 36)
}
