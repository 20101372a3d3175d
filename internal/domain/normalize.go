package domain

import (
	"regexp"
	"strings"
)

var (
	// punctRe strips everything that is not a word character or whitespace,
	// e.g. "St. James Stevedoring, Wharf #2" -> "St James Stevedoring Wharf 2".
	punctRe = regexp.MustCompile(`[^\w\s]`)

	// spaceRe collapses runs of whitespace left behind by stripping.
	spaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeKey reduces a free-text label to its join key: lowercased,
// punctuation stripped, whitespace collapsed, trimmed. Zone labels and vessel
// names share the same key space so the dictionary join and the name index
// agree on what counts as equal.
func NormalizeKey(s string) string {
	s = strings.ToLower(s)
	s = punctRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
