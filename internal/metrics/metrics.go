// Package metrics derives speed and accuracy from accumulated letter counts.
package metrics

import (
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/verte-zerg/typetest/internal/model"
)

// charsPerWord is the standard word length used for WPM.
const charsPerWord = 5

// Input is the running state the aggregator reads.
type Input struct {
	Counts           model.LetterCount
	CompletedWords   []string
	ElapsedSeconds   int
	Mode             model.Mode
	TimeLimitSeconds int
}

// SpaceCount is the number of separators between completed words.
func SpaceCount(completed []string) int {
	if len(completed) == 0 {
		return 0
	}
	return len(completed) - 1
}

// TotalChars counts every submitted rune plus the separators between words.
func TotalChars(completed []string) int {
	chars := lo.SumBy(completed, func(w string) int {
		return utf8.RuneCountInString(w)
	})
	return chars + SpaceCount(completed)
}

// Final computes end-of-session stats. Time mode uses the configured limit as
// the time basis; words mode uses the elapsed seconds.
func Final(in Input) model.Stats {
	seconds := in.ElapsedSeconds
	if in.Mode == model.ModeTime {
		seconds = in.TimeLimitSeconds
	}
	wpm, raw := speed(in.Counts, in.CompletedWords, seconds)
	return model.Stats{
		WPM:         wpm,
		RawWPM:      raw,
		Accuracy:    Accuracy(in.Counts, in.CompletedWords),
		LetterCount: in.Counts,
	}
}

// Sample computes a progress point from the elapsed time so far, regardless of mode.
func Sample(counts model.LetterCount, completed []string, elapsedSeconds int) model.WPMSample {
	wpm, raw := speed(counts, completed, elapsedSeconds)
	return model.WPMSample{TimeMark: elapsedSeconds, WPM: wpm, RawWPM: raw}
}

// Accuracy is the floored percentage of typed characters, separators
// included, that were correct.
func Accuracy(counts model.LetterCount, completed []string) int {
	total := TotalChars(completed)
	if total <= 0 {
		return 0
	}
	correct := counts.Correct + SpaceCount(completed)
	return clamp(correct*100/total, 0, 100)
}

// speed works in integer arithmetic: units/minutes is chars*60/(5*seconds),
// so flooring is exact.
func speed(counts model.LetterCount, completed []string, seconds int) (wpm, raw int) {
	if seconds <= 0 {
		return 0, 0
	}
	den := charsPerWord * seconds
	correct := max(0, counts.Correct+SpaceCount(completed))
	wpm = correct * 60 / den
	raw = TotalChars(completed) * 60 / den
	return wpm, raw
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
