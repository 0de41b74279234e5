package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/typetest/internal/model"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		submitted string
		want      model.LetterCount
	}{
		{"exact", "hello", "hello", model.LetterCount{Correct: 5}},
		{"one wrong", "hello", "helxo", model.LetterCount{Correct: 4, Incorrect: 1}},
		{"extra", "cat", "catss", model.LetterCount{Correct: 3, Extra: 2}},
		{"missed", "world", "wor", model.LetterCount{Correct: 3, Missed: 2}},
		{"insertion shifts", "abc", "xabc", model.LetterCount{Incorrect: 3, Extra: 1}},
		{"empty submitted", "abc", "", model.LetterCount{Missed: 3}},
		{"empty target", "", "ab", model.LetterCount{Extra: 2}},
		{"multibyte runes", "naïve", "naive", model.LetterCount{Correct: 4, Incorrect: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.submitted, tt.target))
		})
	}
}

func TestDiffCountsCoverBothWords(t *testing.T) {
	words := []string{"", "a", "ab", "abc", "abd", "abcdef", "zzz", "bca"}
	for _, submitted := range words {
		for _, target := range words {
			got := Words(submitted, target)
			ls, lt := len(submitted), len(target)
			assert.Equal(t, min(ls, lt), got.Correct+got.Incorrect, "%q vs %q", submitted, target)
			assert.Equal(t, max(0, ls-lt), got.Extra, "%q vs %q", submitted, target)
			assert.Equal(t, max(0, lt-ls), got.Missed, "%q vs %q", submitted, target)
		}
	}
}
