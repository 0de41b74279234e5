// Package diff classifies a submitted word against its target.
package diff

import "github.com/verte-zerg/typetest/internal/model"

// Diff compares submitted and target position by position.
//
// Overlapping positions count as correct or incorrect. Surplus submitted
// characters count as extra and a shortfall counts as missed. An inserted
// character shifts every later position; there is no alignment.
func Diff(submitted, target []rune) model.LetterCount {
	var out model.LetterCount
	n := min(len(submitted), len(target))
	for i := 0; i < n; i++ {
		if submitted[i] == target[i] {
			out.Correct++
		} else {
			out.Incorrect++
		}
	}
	if len(submitted) > len(target) {
		out.Extra = len(submitted) - len(target)
	}
	if len(submitted) < len(target) {
		out.Missed = len(target) - len(submitted)
	}
	return out
}

// Words is Diff over strings, compared rune by rune.
func Words(submitted, target string) model.LetterCount {
	return Diff([]rune(submitted), []rune(target))
}
