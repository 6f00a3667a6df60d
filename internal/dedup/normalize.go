// Package dedup implements the three-layer duplicate detection used by the
// ingestion pipeline: exact source-id identity, content-hash fingerprinting,
// and fuzzy title matching gated by date and city.
package dedup

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
)

// NormalizeText canonicalizes free text for comparison: lower-case, trimmed,
// whitespace runs collapsed to single spaces, everything that is neither a
// word character nor whitespace removed. The steps run in exactly this order
// so fingerprints stay stable.
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRe.ReplaceAllString(s, " ")
	return nonWordRe.ReplaceAllString(s, "")
}

// NormalizeDate reduces a date-like value to its first 10 characters after
// trimming, which yields YYYY-MM-DD for anything ISO-shaped. Empty input
// stays empty.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if runes := []rune(s); len(runes) > 10 {
		return string(runes[:10])
	}
	return s
}
