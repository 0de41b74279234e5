package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typetest/internal/engine"
	"github.com/verte-zerg/typetest/internal/model"
)

type cycleSource struct {
	sets map[string][]string
}

func (s cycleSource) Has(setID string) bool {
	_, ok := s.sets[setID]
	return ok
}

func (s cycleSource) Generate(count int, setID string) []string {
	words, ok := s.sets[setID]
	if !ok || count <= 0 {
		return nil
	}
	out := make([]string, count)
	for i := range out {
		out[i] = words[i%len(words)]
	}
	return out
}

type fakeStore struct {
	inserted []model.Result
	bests    []model.PersonalBest
	err      error
}

func (s *fakeStore) InsertResult(_ context.Context, res model.Result) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, res)
	return nil
}

func (s *fakeStore) PersonalBests(context.Context) ([]model.PersonalBest, error) {
	return s.bests, nil
}

func newTestModel(t *testing.T, cfg model.Config, st ResultStore) *Model {
	t.Helper()
	src := cycleSource{sets: map[string][]string{
		"common200": {"ab", "cd"},
		"other":     {"xy"},
	}}
	m := NewModel(cfg, st, src, []string{"common200", "other"})
	m.tickInterval = time.Millisecond
	return m
}

func wordsConfig(n int) model.Config {
	return model.Config{Mode: model.ModeWords, Words: n, Time: 15, WordSet: "common200", Save: true}
}

func typeText(m *Model, text string) tea.Cmd {
	var last tea.Cmd
	for _, r := range text {
		var msg tea.KeyMsg
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		}
		_, cmd := m.Update(msg)
		if cmd != nil {
			last = cmd
		}
	}
	return last
}

// runCmd executes cmd and flattens batches into their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func deliverSaved(m *Model, cmd tea.Cmd) {
	for _, msg := range runCmd(cmd) {
		if saved, ok := msg.(savedMsg); ok {
			m.Update(saved)
		}
	}
}

func TestFirstKeystrokeSchedulesTick(t *testing.T) {
	m := newTestModel(t, wordsConfig(2), &fakeStore{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if cmd == nil {
		t.Fatalf("expected tick command on start")
	}
	if m.snap.Status != model.StatusDuring || m.snap.InputBuffer != "a" {
		t.Fatalf("unexpected snapshot: %+v", m.snap)
	}
	msgs := runCmd(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one tick message, got %d", len(msgs))
	}
	tick, ok := msgs[0].(tickMsg)
	if !ok || tick.generation != m.ctl.Generation() {
		t.Fatalf("unexpected tick message: %#v", msgs[0])
	}
	_, _ = m.Update(tick)
	if m.snap.Seconds != 1 || len(m.snap.Samples) != 1 {
		t.Fatalf("expected one second elapsed, got %+v", m.snap)
	}
}

func TestWordsModeFinishSavesResult(t *testing.T) {
	st := &fakeStore{}
	m := newTestModel(t, wordsConfig(2), st)
	cmd := typeText(m, "ab cd")
	if m.snap.Status != model.StatusAfter || m.result == nil {
		t.Fatalf("expected finished test, got %+v", m.snap)
	}
	if m.save != savePending {
		t.Fatalf("expected pending save, got %v", m.save)
	}
	deliverSaved(m, cmd)
	if m.save != saveDone || len(st.inserted) != 1 {
		t.Fatalf("expected saved result, state %v inserted %d", m.save, len(st.inserted))
	}
	if st.inserted[0].WordCount != 2 || st.inserted[0].Correct != 4 {
		t.Fatalf("unexpected stored result: %+v", st.inserted[0])
	}
	if len(m.bests) != 1 || m.bests[0].Sessions != 1 {
		t.Fatalf("expected merged personal best, got %+v", m.bests)
	}
	if !strings.Contains(m.View(), "saved") {
		t.Fatalf("expected saved status in result view")
	}

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.snap.Status != model.StatusAfter {
		t.Fatalf("typing after the end must be ignored")
	}
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.snap.Status != model.StatusBefore || m.result != nil {
		t.Fatalf("expected restart after tab, got %+v", m.snap)
	}
	if m.last == nil {
		t.Fatalf("expected last result to survive restart")
	}
}

func TestSaveToggleSkipsPersistence(t *testing.T) {
	st := &fakeStore{}
	m := newTestModel(t, wordsConfig(1), st)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.config.Save {
		t.Fatalf("expected save to be toggled off")
	}
	cmd := typeText(m, "ab")
	deliverSaved(m, cmd)
	if m.save != saveSkipped || len(st.inserted) != 0 {
		t.Fatalf("expected skipped save, state %v inserted %d", m.save, len(st.inserted))
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	st := &fakeStore{err: errors.New("disk full")}
	m := newTestModel(t, wordsConfig(1), st)
	deliverSaved(m, typeText(m, "ab"))
	if m.save != saveFailed {
		t.Fatalf("expected failed save, got %v", m.save)
	}
	if !strings.Contains(m.View(), "save failed: disk full") {
		t.Fatalf("expected failure in view")
	}
}

func TestBackspaceReopensPreviousWord(t *testing.T) {
	m := newTestModel(t, wordsConfig(3), &fakeStore{})
	typeText(m, "ax ")
	if m.snap.CurrentWordIndex != 1 {
		t.Fatalf("expected second word, got %d", m.snap.CurrentWordIndex)
	}
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.snap.CurrentWordIndex != 0 || m.snap.InputBuffer != "ax" {
		t.Fatalf("expected reopened word, got %+v", m.snap)
	}
	if m.snap.Counts != (model.LetterCount{}) {
		t.Fatalf("expected counts reverted, got %+v", m.snap.Counts)
	}
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.snap.InputBuffer != "a" {
		t.Fatalf("expected one rune removed, got %q", m.snap.InputBuffer)
	}
}

func TestInputIsCappedAtMaxWordLen(t *testing.T) {
	m := newTestModel(t, wordsConfig(2), &fakeStore{})
	typeText(m, strings.Repeat("z", maxWordLen+5))
	if got := len([]rune(m.snap.InputBuffer)); got != maxWordLen {
		t.Fatalf("expected %d runes, got %d", maxWordLen, got)
	}
}

func TestTimeModeExpiresOnTicks(t *testing.T) {
	st := &fakeStore{}
	cfg := wordsConfig(10)
	cfg.Mode = model.ModeTime
	m := newTestModel(t, cfg, st)
	if len(m.snap.SampleWords) != engine.WordsForTime(15) {
		t.Fatalf("expected words sized for 15s, got %d", len(m.snap.SampleWords))
	}
	typeText(m, "ab")

	var cmd tea.Cmd
	for i := 0; i < 15; i++ {
		_, cmd = m.Update(tickMsg{generation: m.ctl.Generation()})
	}
	if m.snap.Status != model.StatusAfter || m.result == nil {
		t.Fatalf("expected expiry after 15 ticks, got %+v", m.snap)
	}
	deliverSaved(m, cmd)
	if len(st.inserted) != 1 || len(st.inserted[0].Samples) != 15 {
		t.Fatalf("expected one saved result with 15 samples")
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	m := newTestModel(t, wordsConfig(2), &fakeStore{})
	typeText(m, "a")
	_, cmd := m.Update(tickMsg{generation: m.ctl.Generation() + 7})
	if cmd != nil {
		t.Fatalf("stale tick must not reschedule")
	}
	if m.snap.Seconds != 0 {
		t.Fatalf("stale tick must not advance the clock")
	}
}

func TestConfigKeys(t *testing.T) {
	m := newTestModel(t, wordsConfig(10), &fakeStore{})

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.snap.Options.WordCount != 25 {
		t.Fatalf("expected next word preset, got %d", m.snap.Options.WordCount)
	}
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.snap.Options.Mode != model.ModeTime || m.snap.Options.TimeLimitSeconds != 15 {
		t.Fatalf("expected time mode defaults, got %+v", m.snap.Options)
	}
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.snap.Options.TimeLimitSeconds != 30 || m.snap.Options.WordCount != 75 {
		t.Fatalf("expected 30s preset, got %+v", m.snap.Options)
	}
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.snap.Options.WordSet != "other" || m.snap.SampleWords[0] != "xy" {
		t.Fatalf("expected next word set, got %+v", m.snap.Options)
	}
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.snap.Options.WordSet != "common200" {
		t.Fatalf("expected word set to wrap, got %s", m.snap.Options.WordSet)
	}
}

func TestFooterShowsPersonalBest(t *testing.T) {
	st := &fakeStore{bests: []model.PersonalBest{
		{Mode: model.ModeWords, WordCount: 10, WPM: 80, Accuracy: 97, Sessions: 3},
		{Mode: model.ModeTime, TimeLimitSeconds: 15, WPM: 90, Accuracy: 95, Sessions: 1},
	}}
	m := newTestModel(t, wordsConfig(10), st)
	out := m.renderFooter()
	if !strings.Contains(out, "PB 80 WPM · 97%") {
		t.Fatalf("footer missing personal best: %s", out)
	}
	if strings.Contains(out, "PB 90") {
		t.Fatalf("footer shows best of another configuration: %s", out)
	}
}

func TestNextPreset(t *testing.T) {
	presets := []int{15, 30, 60}
	if nextPreset(presets, 15) != 30 || nextPreset(presets, 60) != 15 || nextPreset(presets, 20) != 30 {
		t.Fatalf("unexpected preset cycling")
	}
}

func TestMergeBest(t *testing.T) {
	bests := []model.PersonalBest{{Mode: model.ModeTime, TimeLimitSeconds: 15, WPM: 60, Accuracy: 90, Sessions: 2}}
	bests = mergeBest(bests, model.Result{Mode: model.ModeTime, TimeLimitSeconds: 15, Stats: model.Stats{WPM: 70, Accuracy: 93}})
	if bests[0].WPM != 70 || bests[0].Accuracy != 93 || bests[0].Sessions != 3 {
		t.Fatalf("unexpected merged best: %+v", bests[0])
	}
	bests = mergeBest(bests, model.Result{Mode: model.ModeWords, WordCount: 25, Stats: model.Stats{WPM: 50}})
	if len(bests) != 2 || bests[1].WordCount != 25 || bests[1].TimeLimitSeconds != 0 {
		t.Fatalf("expected new configuration entry: %+v", bests)
	}
}
