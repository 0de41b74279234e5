// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/verte-zerg/typetest/internal/engine"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/wordsource"
)

const (
	// maxWordLen caps the input buffer; longer keystrokes are dropped.
	maxWordLen  = 15
	saveTimeout = 5 * time.Second
)

// ResultStore persists finished tests and reports personal bests.
type ResultStore interface {
	InsertResult(ctx context.Context, res model.Result) error
	PersonalBests(ctx context.Context) ([]model.PersonalBest, error)
}

type saveState int

const (
	saveNone saveState = iota
	saveSkipped
	savePending
	saveDone
	saveFailed
)

// tickMsg carries the clock generation it was scheduled for.
type tickMsg struct {
	generation uint64
}

type savedMsg struct {
	id  string
	err error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config model.Config
	store  ResultStore
	ctl    *engine.Controller
	sets   []string
	keys   keyMap
	help   help.Model

	tickInterval time.Duration

	width  int
	height int

	snap model.Snapshot
	// pending is set by the finish hook and consumed after each engine call.
	pending *model.Result

	result    *model.Result
	last      *model.Result
	save      saveState
	saveErr   error
	bests     []model.PersonalBest
	prevBest  int
	hasPrevPB bool
}

// NewModel constructs a typing TUI model. sets lists the word set ids the
// user can cycle through; st may be nil to disable persistence.
func NewModel(cfg model.Config, st ResultStore, src wordsource.Source, sets []string) *Model {
	m := &Model{
		config:       cfg,
		store:        st,
		sets:         sets,
		keys:         defaultKeys(),
		help:         help.New(),
		tickInterval: time.Second,
	}
	m.ctl = engine.New(src, optionsFor(cfg), engine.Hooks{
		OnSnapshot: func(s model.Snapshot) { m.snap = s },
		OnFinish:   func(res model.Result) { m.pending = &res },
	})
	m.snap = m.ctl.Snapshot()
	m.loadBests()
	return m
}

func optionsFor(cfg model.Config) model.Options {
	opts := model.Options{
		Mode:             cfg.Mode,
		WordCount:        cfg.Words,
		TimeLimitSeconds: cfg.Time,
		WordSet:          cfg.WordSet,
	}
	if cfg.Mode == model.ModeTime {
		opts.WordCount = engine.WordsForTime(cfg.Time)
	}
	return opts
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case savedMsg:
		m.handleSaved(msg)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	generation := m.ctl.Generation()
	switch {
	case key.Matches(msg, m.keys.Restart):
		m.clearResult()
		m.ctl.Reset()
		return nil
	case key.Matches(msg, m.keys.Mode):
		next := model.ModeTime
		if m.snap.Options.Mode == model.ModeTime {
			next = model.ModeWords
		}
		m.reconfigure(model.Reconfigure{Mode: &next})
		return nil
	case key.Matches(msg, m.keys.Length):
		m.cycleLength()
		return nil
	case key.Matches(msg, m.keys.WordSet):
		m.cycleWordSet()
		return nil
	case key.Matches(msg, m.keys.Save):
		m.config.Save = !m.config.Save
		return nil
	case key.Matches(msg, m.keys.ClearWord):
		m.ctl.InputChanged("")
		return nil
	}

	switch msg.Type {
	case tea.KeySpace:
		m.ctl.WordSubmitted()
	case tea.KeyBackspace:
		m.backspace()
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		for _, r := range msg.Runes {
			m.typeRune(r)
		}
	}
	return m.afterEngine(generation)
}

func (m *Model) typeRune(r rune) {
	if string(r) == engine.Separator {
		m.ctl.WordSubmitted()
		return
	}
	if utf8.RuneCountInString(m.snap.InputBuffer) >= maxWordLen {
		return
	}
	m.ctl.InputChanged(m.snap.InputBuffer + string(r))
}

func (m *Model) backspace() {
	if m.snap.InputBuffer == "" {
		m.ctl.BackspaceAtWordStart()
		return
	}
	runes := []rune(m.snap.InputBuffer)
	m.ctl.InputChanged(string(runes[:len(runes)-1]))
}

// afterEngine starts ticking when a keystroke started the clock and hands a
// finished result to the store.
func (m *Model) afterEngine(prevGeneration uint64) tea.Cmd {
	var cmds []tea.Cmd
	if m.snap.Status == model.StatusDuring && m.ctl.Generation() != prevGeneration {
		cmds = append(cmds, m.scheduleTick())
	}
	cmds = append(cmds, m.takeFinished())
	return tea.Batch(cmds...)
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	stale := msg.generation != m.ctl.Generation()
	m.ctl.Tick(msg.generation)
	if stale {
		return nil
	}
	var cmds []tea.Cmd
	if m.snap.Status == model.StatusDuring {
		cmds = append(cmds, m.scheduleTick())
	}
	cmds = append(cmds, m.takeFinished())
	return tea.Batch(cmds...)
}

func (m *Model) takeFinished() tea.Cmd {
	res := m.pending
	if res == nil {
		return nil
	}
	m.pending = nil
	return m.finish(*res)
}

func (m *Model) scheduleTick() tea.Cmd {
	generation := m.ctl.Generation()
	return tea.Tick(m.tickInterval, func(time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}

func (m *Model) finish(res model.Result) tea.Cmd {
	m.result = &res
	m.last = &res
	m.prevBest, m.hasPrevPB = bestFor(m.bests, res)
	if !m.config.Save || m.store == nil {
		m.save = saveSkipped
		return nil
	}
	m.save = savePending
	return saveResultCmd(m.store, res)
}

func saveResultCmd(st ResultStore, res model.Result) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return savedMsg{id: res.ID, err: st.InsertResult(ctx, res)}
	}
}

func (m *Model) handleSaved(msg savedMsg) {
	if m.result == nil || m.result.ID != msg.id {
		return
	}
	if msg.err != nil {
		m.save = saveFailed
		m.saveErr = msg.err
		logErrf("failed to save result: %v\n", msg.err)
		return
	}
	m.save = saveDone
	m.bests = mergeBest(m.bests, *m.result)
}

func (m *Model) reconfigure(r model.Reconfigure) {
	m.clearResult()
	m.ctl.Reconfigure(r)
}

func (m *Model) cycleLength() {
	opts := m.snap.Options
	if opts.Mode == model.ModeTime {
		next := nextPreset(engine.TimeLimitPresets, opts.TimeLimitSeconds)
		m.reconfigure(model.Reconfigure{TimeLimitSeconds: &next})
		return
	}
	next := nextPreset(engine.WordCountPresets, opts.WordCount)
	m.reconfigure(model.Reconfigure{WordCount: &next})
}

func (m *Model) cycleWordSet() {
	if len(m.sets) == 0 {
		return
	}
	idx := lo.IndexOf(m.sets, m.snap.Options.WordSet)
	next := m.sets[(idx+1)%len(m.sets)]
	m.reconfigure(model.Reconfigure{WordSet: &next})
}

func (m *Model) clearResult() {
	m.result = nil
	m.pending = nil
	m.save = saveNone
	m.saveErr = nil
}

func (m *Model) loadBests() {
	if m.store == nil {
		return
	}
	bests, err := m.store.PersonalBests(context.Background())
	if err != nil {
		logErrf("failed to load personal bests: %v\n", err)
		return
	}
	m.bests = bests
}

// nextPreset returns the first preset above current, wrapping to the first.
func nextPreset(presets []int, current int) int {
	for _, p := range presets {
		if p > current {
			return p
		}
	}
	return presets[0]
}

func sameConfig(pb model.PersonalBest, res model.Result) bool {
	if pb.Mode != res.Mode {
		return false
	}
	if res.Mode == model.ModeTime {
		return pb.TimeLimitSeconds == res.TimeLimitSeconds
	}
	return pb.WordCount == res.WordCount
}

func bestFor(bests []model.PersonalBest, res model.Result) (int, bool) {
	pb, ok := lo.Find(bests, func(pb model.PersonalBest) bool { return sameConfig(pb, res) })
	return pb.WPM, ok
}

// mergeBest folds a saved result into the in-memory personal bests.
func mergeBest(bests []model.PersonalBest, res model.Result) []model.PersonalBest {
	for i := range bests {
		if !sameConfig(bests[i], res) {
			continue
		}
		bests[i].Sessions++
		if res.WPM > bests[i].WPM {
			bests[i].WPM = res.WPM
			bests[i].Accuracy = res.Accuracy
		}
		return bests
	}
	pb := model.PersonalBest{Mode: res.Mode, WPM: res.WPM, Accuracy: res.Accuracy, Sessions: 1}
	if res.Mode == model.ModeTime {
		pb.TimeLimitSeconds = res.TimeLimitSeconds
	} else {
		pb.WordCount = res.WordCount
	}
	return append(bests, pb)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
