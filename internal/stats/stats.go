// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/verte-zerg/typetest/internal/model"
)

// Summary aggregates a set of stored results.
type Summary struct {
	Sessions     int
	AvgWPM       float64
	AvgRawWPM    float64
	AvgAccuracy  float64
	BestWPM      int
	TotalSeconds int
}

// Summarize computes averages and the best WPM over results.
func Summarize(results []model.ResultAggregate) Summary {
	if len(results) == 0 {
		return Summary{}
	}
	n := float64(len(results))
	best := lo.MaxBy(results, func(a, b model.ResultAggregate) bool { return a.WPM > b.WPM })
	return Summary{
		Sessions:     len(results),
		AvgWPM:       float64(lo.SumBy(results, func(r model.ResultAggregate) int { return r.WPM })) / n,
		AvgRawWPM:    float64(lo.SumBy(results, func(r model.ResultAggregate) int { return r.RawWPM })) / n,
		AvgAccuracy:  float64(lo.SumBy(results, func(r model.ResultAggregate) int { return r.Accuracy })) / n,
		BestWPM:      best.WPM,
		TotalSeconds: lo.SumBy(results, func(r model.ResultAggregate) int { return r.DurationSeconds }),
	}
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// ModeLabel describes a mode configuration, e.g. "time 15s" or "words 25".
func ModeLabel(mode model.Mode, timeLimit, wordCount int) string {
	if mode == model.ModeTime {
		return fmt.Sprintf("time %ds", timeLimit)
	}
	return fmt.Sprintf("words %d", wordCount)
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// RenderSummary prints a summary of results.
func RenderSummary(w io.Writer, results []model.ResultAggregate) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	s := Summarize(results)
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %d", s.Sessions),
		fmt.Sprintf("Time typing: %s", FormatDuration(s.TotalSeconds)),
		fmt.Sprintf("Avg WPM: %.2f", s.AvgWPM),
		fmt.Sprintf("Avg Raw WPM: %.2f", s.AvgRawWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", s.AvgAccuracy),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves plots moving averages of WPM and accuracy across results.
func RenderCurves(w io.Writer, results []model.ResultAggregate, window int, opts PlotOptions) error {
	if len(results) == 0 {
		return nil
	}
	wpms := lo.Map(results, func(r model.ResultAggregate, _ int) float64 { return float64(r.WPM) })
	accs := lo.Map(results, func(r model.ResultAggregate, _ int) float64 { return float64(r.Accuracy) })
	if opts.Title == "" {
		opts.Title = "Learning Curves"
	}
	opts.XStart = "first"
	opts.XEnd = "latest"
	return Plot(w, []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
	}, opts)
}

// RenderSamples plots the per-second samples of a single test.
func RenderSamples(w io.Writer, samples []model.WPMSample, opts PlotOptions) error {
	if len(samples) == 0 {
		return nil
	}
	wpm := lo.Map(samples, func(s model.WPMSample, _ int) float64 { return float64(s.WPM) })
	raw := lo.Map(samples, func(s model.WPMSample, _ int) float64 { return float64(s.RawWPM) })
	opts.XStart = fmt.Sprintf("%ds", samples[0].TimeMark)
	opts.XEnd = fmt.Sprintf("%ds", samples[len(samples)-1].TimeMark)
	return Plot(w, []Series{
		{Name: "wpm", Values: wpm},
		{Name: "raw", Values: raw},
	}, opts)
}

// RenderHistory prints one row per result, newest first.
func RenderHistory(w io.Writer, results []model.ResultAggregate) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "History"); err != nil {
		return err
	}
	headers, rows := HistoryRows(results)
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// HistoryRows builds the history table cells, newest first.
func HistoryRows(results []model.ResultAggregate) ([]string, [][]string) {
	headers := []string{"Date", "Mode", "WPM", "Raw", "Acc", "Chars", "Time"}
	rows := make([][]string, 0, len(results))
	for _, r := range lo.Reverse(append([]model.ResultAggregate(nil), results...)) {
		rows = append(rows, []string{
			r.FinishedAt.Format("2006-01-02 15:04"),
			ModeLabel(r.Mode, r.TimeLimitSeconds, r.WordCount),
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%d", r.RawWPM),
			fmt.Sprintf("%d%%", r.Accuracy),
			CharsLabel(r.LetterCount),
			FormatDuration(r.DurationSeconds),
		})
	}
	return headers, rows
}

// CharsLabel renders letter counts as correct/incorrect/extra/missed.
func CharsLabel(c model.LetterCount) string {
	return fmt.Sprintf("%d/%d/%d/%d", c.Correct, c.Incorrect, c.Extra, c.Missed)
}

// RenderBests prints the personal best per mode configuration.
func RenderBests(w io.Writer, bests []model.PersonalBest) error {
	if len(bests) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Personal Bests"); err != nil {
		return err
	}
	headers := []string{"Mode", "WPM", "Acc", "Tests"}
	rows := lo.Map(bests, func(pb model.PersonalBest, _ int) []string {
		return []string{
			ModeLabel(pb.Mode, pb.TimeLimitSeconds, pb.WordCount),
			fmt.Sprintf("%d", pb.WPM),
			fmt.Sprintf("%d%%", pb.Accuracy),
			fmt.Sprintf("%d", pb.Sessions),
		}
	})
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
