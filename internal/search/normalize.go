// Package search builds in-memory token indexes over the unified holdings
// table and answers ranked fund/security queries.
package search

import (
	"strings"
	"unicode"
)

// minTokenLen excludes one-character fragments from indexing to avoid
// excessive fan-out.
const minTokenLen = 2

// Normalize lowercases a string, replaces punctuation with spaces and
// collapses runs of whitespace. Index keys and queries go through the same
// normalization so lookups are exact byte comparisons.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// Tokenize splits a normalized string into index tokens, dropping tokens
// shorter than minTokenLen.
func Tokenize(s string) []string {
	fields := strings.Fields(Normalize(s))
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
