// Package engine implements the typing-test session state machine.
//
// A Controller owns one session. Every command runs to completion before it
// returns, so a host that serializes input events and clock ticks through a
// single loop never observes a half-applied word submission.
package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typetest/internal/clock"
	"github.com/verte-zerg/typetest/internal/diff"
	"github.com/verte-zerg/typetest/internal/metrics"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/wordsource"
)

// Separator submits the current word.
const Separator = " "

const (
	// DefaultWordCount is the words-mode length applied on a switch to words mode.
	DefaultWordCount = 10
	// DefaultTimeLimit is the countdown, in seconds, applied on a switch to time mode.
	DefaultTimeLimit = 15
	// DefaultTimeWordCount is the smallest word list generated in time mode.
	DefaultTimeWordCount = 50
)

var (
	// WordCountPresets are the word counts offered in words mode.
	WordCountPresets = []int{10, 25, 50, 100}
	// TimeLimitPresets are the durations, in seconds, offered in time mode.
	TimeLimitPresets = []int{15, 30, 60}
)

// WordsForTime sizes the word list for a countdown of limitSeconds: two and a
// half words per second, never fewer than DefaultTimeWordCount.
func WordsForTime(limitSeconds int) int {
	return max(limitSeconds*5/2, DefaultTimeWordCount)
}

// Hooks receive engine output. Both are optional and called synchronously.
type Hooks struct {
	// OnSnapshot runs after every state mutation.
	OnSnapshot func(model.Snapshot)
	// OnFinish runs once per session on the transition to after.
	OnFinish func(model.Result)
}

// Controller is the session state machine.
type Controller struct {
	src   wordsource.Source
	hooks Hooks

	opts      model.Options
	status    model.Status
	words     []string
	completed []string
	// deltas[i] is the diff folded into counts when completed[i] was submitted.
	deltas  []model.LetterCount
	input   string
	counts  model.LetterCount
	clock   *clock.Clock
	samples []model.WPMSample
	final   *model.Stats
}

// New creates a controller in the before state with freshly generated words.
func New(src wordsource.Source, opts model.Options, hooks Hooks) *Controller {
	c := &Controller{
		src:   src,
		hooks: hooks,
		opts:  normalizeOptions(opts),
	}
	c.clock = clock.New(c.opts.Mode, c.opts.TimeLimitSeconds)
	c.words = src.Generate(c.opts.WordCount, c.opts.WordSet)
	c.status = model.StatusBefore
	return c
}

func normalizeOptions(opts model.Options) model.Options {
	if !opts.Mode.Valid() {
		opts.Mode = model.ModeWords
	}
	if opts.TimeLimitSeconds <= 0 {
		opts.TimeLimitSeconds = DefaultTimeLimit
	}
	if opts.WordCount <= 0 {
		if opts.Mode == model.ModeTime {
			opts.WordCount = WordsForTime(opts.TimeLimitSeconds)
		} else {
			opts.WordCount = DefaultWordCount
		}
	}
	if opts.WordSet == "" {
		opts.WordSet = wordsource.SetCommon200
	}
	return opts
}

// InputChanged replaces the in-progress word. The first non-empty input
// starts the session. Text containing the separator is ignored; hosts send
// WordSubmitted for it instead.
func (c *Controller) InputChanged(text string) model.Snapshot {
	if c.status == model.StatusAfter || len(c.words) == 0 {
		return c.Snapshot()
	}
	if strings.Contains(text, Separator) {
		return c.Snapshot()
	}
	if c.status.Idle() {
		if text == "" {
			return c.Snapshot()
		}
		c.start()
	}
	c.input = text

	last := len(c.words) - 1
	if len(c.completed) == last && text == c.words[last] {
		c.submit()
		c.finish()
	}
	return c.emit()
}

// WordSubmitted folds the current word into the counts and advances.
// It is a no-op with an empty buffer or outside a running session.
func (c *Controller) WordSubmitted() model.Snapshot {
	if c.status != model.StatusDuring || c.input == "" {
		return c.Snapshot()
	}
	if len(c.completed) >= len(c.words) {
		return c.Snapshot()
	}
	c.submit()
	if len(c.completed) == len(c.words) {
		c.finish()
	}
	return c.emit()
}

// BackspaceAtWordStart reopens the previous word and reverses exactly the
// counts its submission added. It is a no-op unless the buffer is empty and
// at least one word was completed.
func (c *Controller) BackspaceAtWordStart() model.Snapshot {
	if c.status != model.StatusDuring || c.input != "" || len(c.completed) == 0 {
		return c.Snapshot()
	}
	last := len(c.completed) - 1
	c.input = c.completed[last]
	c.counts = c.counts.Sub(c.deltas[last])
	c.completed = c.completed[:last]
	c.deltas = c.deltas[:last]
	return c.emit()
}

// Reset regenerates the words and clears progress. Resetting an idle session
// reports StatusRestart so hosts can replay their reset visuals.
func (c *Controller) Reset() model.Snapshot {
	wasIdle := c.status.Idle()
	c.clock.Reset(c.opts.Mode, c.opts.TimeLimitSeconds)
	c.words = c.src.Generate(c.opts.WordCount, c.opts.WordSet)
	c.completed = nil
	c.deltas = nil
	c.input = ""
	c.counts = model.LetterCount{}
	c.samples = nil
	c.final = nil
	if wasIdle {
		c.status = model.StatusRestart
	} else {
		c.status = model.StatusBefore
	}
	return c.emit()
}

// Reconfigure applies an options change and resets. Switching mode applies
// that mode's defaults unless the change sets them explicitly; a new time
// limit resizes the word list. Invalid values are ignored.
func (c *Controller) Reconfigure(r model.Reconfigure) model.Snapshot {
	next := c.opts
	if r.Mode != nil && r.Mode.Valid() && *r.Mode != next.Mode {
		next.Mode = *r.Mode
		if next.Mode == model.ModeTime {
			next.TimeLimitSeconds = DefaultTimeLimit
			next.WordCount = WordsForTime(DefaultTimeLimit)
		} else {
			next.WordCount = DefaultWordCount
		}
	}
	if r.TimeLimitSeconds != nil && *r.TimeLimitSeconds > 0 {
		next.TimeLimitSeconds = *r.TimeLimitSeconds
		if next.Mode == model.ModeTime {
			next.WordCount = WordsForTime(next.TimeLimitSeconds)
		}
	}
	if r.WordCount != nil && *r.WordCount > 0 {
		next.WordCount = *r.WordCount
	}
	if r.WordSet != nil && *r.WordSet != "" && *r.WordSet != next.WordSet {
		if c.src.Has(*r.WordSet) {
			next.WordSet = *r.WordSet
		}
	}
	c.opts = next
	return c.Reset()
}

// Tick advances the clock by one second and records a speed sample. Ticks
// whose generation does not match the running clock are dropped.
func (c *Controller) Tick(generation uint64) model.Snapshot {
	if c.status != model.StatusDuring || generation != c.clock.Generation() {
		return c.Snapshot()
	}
	tick, ok := c.clock.Advance()
	if !ok {
		return c.Snapshot()
	}
	c.samples = append(c.samples, metrics.Sample(c.counts, c.completed, tick.Elapsed))
	if tick.Expired {
		c.finish()
	}
	return c.emit()
}

// Generation identifies the running clock; hosts tag scheduled ticks with it.
func (c *Controller) Generation() uint64 {
	return c.clock.Generation()
}

// Status returns the current lifecycle state.
func (c *Controller) Status() model.Status {
	return c.status
}

// Options returns the current configuration.
func (c *Controller) Options() model.Options {
	return c.opts
}

// Snapshot returns a copy of the session for rendering.
func (c *Controller) Snapshot() model.Snapshot {
	snap := model.Snapshot{
		Status:           c.status,
		Options:          c.opts,
		SampleWords:      append([]string(nil), c.words...),
		CompletedWords:   append([]string(nil), c.completed...),
		CurrentWordIndex: len(c.completed),
		InputBuffer:      c.input,
		Seconds:          c.clock.Seconds(),
		Elapsed:          c.clock.Elapsed(),
		Counts:           c.counts,
		Samples:          append([]model.WPMSample(nil), c.samples...),
	}
	if c.final != nil {
		stats := *c.final
		snap.FinalStats = &stats
	}
	return snap
}

func (c *Controller) start() {
	c.status = model.StatusDuring
	c.clock.Start()
}

func (c *Controller) submit() {
	idx := len(c.completed)
	delta := diff.Words(c.input, c.words[idx])
	c.completed = append(c.completed, c.input)
	c.deltas = append(c.deltas, delta)
	c.counts = c.counts.Add(delta)
	c.input = ""
}

// finish is guarded by status so a late expiry cannot complete twice.
func (c *Controller) finish() {
	if c.status != model.StatusDuring {
		return
	}
	c.clock.Stop()
	stats := metrics.Final(metrics.Input{
		Counts:           c.counts,
		CompletedWords:   c.completed,
		ElapsedSeconds:   c.clock.Elapsed(),
		Mode:             c.opts.Mode,
		TimeLimitSeconds: c.opts.TimeLimitSeconds,
	})
	c.final = &stats
	c.status = model.StatusAfter
	if c.hooks.OnFinish != nil {
		c.hooks.OnFinish(c.result(stats))
	}
}

func (c *Controller) result(stats model.Stats) model.Result {
	return model.Result{
		ID:               uuid.NewString(),
		FinishedAt:       time.Now(),
		Mode:             c.opts.Mode,
		TimeLimitSeconds: c.opts.TimeLimitSeconds,
		WordCount:        c.opts.WordCount,
		WordSet:          c.opts.WordSet,
		DurationSeconds:  c.clock.Elapsed(),
		Stats:            stats,
		Samples:          append([]model.WPMSample(nil), c.samples...),
	}
}

func (c *Controller) emit() model.Snapshot {
	snap := c.Snapshot()
	if c.hooks.OnSnapshot != nil {
		c.hooks.OnSnapshot(snap)
	}
	return snap
}
