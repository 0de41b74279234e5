// Package wordlist provides word list filtering helpers.
package wordlist

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// KeepAll accepts every entry.
func KeepAll(string) bool { return true }

// SingleTokenShorterThan accepts entries with no inner whitespace and fewer
// than maxLen characters.
func SingleTokenShorterThan(maxLen int) FilterFunc {
	return func(word string) bool {
		if word == "" {
			return false
		}
		if len(strings.Fields(word)) != 1 {
			return false
		}
		return utf8.RuneCountInString(word) < maxLen
	}
}

// Filter returns the entries accepted by keep, preserving order.
func Filter(words []string, keep FilterFunc) []string {
	return lo.Filter(words, func(w string, _ int) bool {
		return keep(w)
	})
}

// Normalize lower-cases entries and drops duplicates, keeping first occurrences.
func Normalize(words []string) []string {
	return lo.Uniq(lo.Map(words, func(w string, _ int) string {
		return strings.ToLower(strings.TrimSpace(w))
	}))
}
