package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typetest/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "typetest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return st
}

func testResult(at time.Time, mode model.Mode, wpm, acc int) model.Result {
	return model.Result{
		ID:               uuid.NewString(),
		FinishedAt:       at,
		Mode:             mode,
		TimeLimitSeconds: 15,
		WordCount:        10,
		WordSet:          "common200",
		DurationSeconds:  15,
		Stats: model.Stats{
			WPM:         wpm,
			RawWPM:      wpm + 5,
			Accuracy:    acc,
			LetterCount: model.LetterCount{Correct: 40, Incorrect: 2, Extra: 1, Missed: 3},
		},
		Samples: []model.WPMSample{
			{TimeMark: 1, WPM: wpm - 10, RawWPM: wpm},
			{TimeMark: 2, WPM: wpm, RawWPM: wpm + 5},
		},
	}
}

func TestInsertAndListResults(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := testResult(base, model.ModeTime, 60, 95)
	second := testResult(base.Add(time.Hour), model.ModeWords, 70, 97)
	for _, res := range []model.Result{second, first} {
		if err := st.InsertResult(ctx, res); err != nil {
			t.Fatalf("insert result: %v", err)
		}
	}

	results, err := st.ListResults(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != first.ID || results[1].ID != second.ID {
		t.Fatalf("results not ordered by finish time")
	}
	got := results[0]
	if got.Stats != first.Stats || got.Mode != model.ModeTime || got.WordSet != "common200" {
		t.Fatalf("unexpected round trip: %+v", got)
	}
	if !got.FinishedAt.Equal(base) {
		t.Fatalf("unexpected finished_at: %v", got.FinishedAt)
	}

	samples, err := st.ListSamples(ctx, first.ID)
	if err != nil {
		t.Fatalf("list samples: %v", err)
	}
	if len(samples) != 2 || samples[1] != first.Samples[1] {
		t.Fatalf("unexpected samples: %+v", samples)
	}
}

func TestListResultsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, mode := range []model.Mode{model.ModeTime, model.ModeWords, model.ModeTime} {
		if err := st.InsertResult(ctx, testResult(base.Add(time.Duration(i)*24*time.Hour), mode, 50+i, 90)); err != nil {
			t.Fatalf("insert result: %v", err)
		}
	}

	timeOnly, err := st.ListResults(ctx, model.StatsConfig{Mode: model.ModeTime})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(timeOnly) != 2 {
		t.Fatalf("expected 2 time results, got %d", len(timeOnly))
	}

	since := base.Add(36 * time.Hour)
	recent, err := st.ListResults(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(recent) != 1 || recent[0].WPM != 52 {
		t.Fatalf("unexpected since filter: %+v", recent)
	}
}

func TestPersonalBests(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	fast := testResult(base, model.ModeTime, 80, 91)
	slow := testResult(base.Add(time.Minute), model.ModeTime, 60, 99)
	longer := testResult(base.Add(2*time.Minute), model.ModeTime, 70, 93)
	longer.TimeLimitSeconds = 30
	words := testResult(base.Add(3*time.Minute), model.ModeWords, 65, 96)
	for _, res := range []model.Result{fast, slow, longer, words} {
		if err := st.InsertResult(ctx, res); err != nil {
			t.Fatalf("insert result: %v", err)
		}
	}

	bests, err := st.PersonalBests(ctx)
	if err != nil {
		t.Fatalf("personal bests: %v", err)
	}
	want := []model.PersonalBest{
		{Mode: model.ModeTime, TimeLimitSeconds: 15, WPM: 80, Accuracy: 91, Sessions: 2},
		{Mode: model.ModeTime, TimeLimitSeconds: 30, WPM: 70, Accuracy: 93, Sessions: 1},
		{Mode: model.ModeWords, WordCount: 10, WPM: 65, Accuracy: 96, Sessions: 1},
	}
	if len(bests) != len(want) {
		t.Fatalf("expected %d bests, got %+v", len(want), bests)
	}
	for i := range want {
		if bests[i] != want[i] {
			t.Fatalf("best %d: got %+v want %+v", i, bests[i], want[i])
		}
	}
}

func TestInsertResultDuplicateID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	res := testResult(time.Now(), model.ModeWords, 40, 90)
	if err := st.InsertResult(ctx, res); err != nil {
		t.Fatalf("insert result: %v", err)
	}
	if err := st.InsertResult(ctx, res); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	samples, err := st.ListSamples(ctx, res.ID)
	if err != nil {
		t.Fatalf("list samples: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("rollback should keep original samples only, got %d", len(samples))
	}
}
