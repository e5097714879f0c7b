// Package names normalizes player display names so roster entries and stored
// players compare equal.
package names

import (
	"regexp"
	"strings"
)

var (
	clanTag      = regexp.MustCompile(`\[.*?\]`)
	playerPrefix = regexp.MustCompile(`^player\s+`)
)

// Normalizer maps a raw display name to its comparison key
type Normalizer func(string) string

// Normalize case-folds and trims a name
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeTagged additionally strips bracketed clan tags and a leading
// "player " prefix.
func NormalizeTagged(name string) string {
	n := Normalize(clanTag.ReplaceAllString(name, ""))
	return strings.TrimSpace(playerPrefix.ReplaceAllString(n, ""))
}

// For returns the normalizer selected by configuration
func For(stripClanTags bool) Normalizer {
	if stripClanTags {
		return NormalizeTagged
	}
	return Normalize
}
