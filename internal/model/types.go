// Package model defines shared data structures.
package model

import "time"

// Mode selects how a session ends.
type Mode string

const (
	// ModeWords ends after a fixed number of words; the clock counts up.
	ModeWords Mode = "words"
	// ModeTime ends after a fixed duration; the clock counts down.
	ModeTime Mode = "time"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeWords || m == ModeTime
}

// Status is the session lifecycle state.
type Status string

const (
	StatusBefore Status = "before"
	StatusDuring Status = "during"
	StatusAfter  Status = "after"
	// StatusRestart is a reset issued while already idle. Hosts treat it as
	// StatusBefore but replay their reset visuals.
	StatusRestart Status = "restart"
)

// Idle reports whether the session is waiting for the first keystroke.
func (s Status) Idle() bool {
	return s == StatusBefore || s == StatusRestart
}

// LetterCount holds per-character classification totals.
type LetterCount struct {
	Correct   int
	Incorrect int
	Extra     int
	Missed    int
}

// Add returns the element-wise sum of c and o.
func (c LetterCount) Add(o LetterCount) LetterCount {
	return LetterCount{
		Correct:   c.Correct + o.Correct,
		Incorrect: c.Incorrect + o.Incorrect,
		Extra:     c.Extra + o.Extra,
		Missed:    c.Missed + o.Missed,
	}
}

// Sub returns the element-wise difference of c and o.
func (c LetterCount) Sub(o LetterCount) LetterCount {
	return LetterCount{
		Correct:   c.Correct - o.Correct,
		Incorrect: c.Incorrect - o.Incorrect,
		Extra:     c.Extra - o.Extra,
		Missed:    c.Missed - o.Missed,
	}
}

// Stats are the final metrics of a finished session.
type Stats struct {
	WPM      int
	RawWPM   int
	Accuracy int
	LetterCount
}

// WPMSample is one point of the per-second speed series.
type WPMSample struct {
	TimeMark int
	WPM      int
	RawWPM   int
}

// Options is the session configuration owned by the controller.
type Options struct {
	Mode             Mode
	WordCount        int
	TimeLimitSeconds int
	WordSet          string
}

// Reconfigure carries a partial options change. Nil fields are left as-is.
type Reconfigure struct {
	Mode             *Mode
	WordCount        *int
	TimeLimitSeconds *int
	WordSet          *string
}

// Snapshot is a read-only copy of session state for rendering.
type Snapshot struct {
	Status           Status
	Options          Options
	SampleWords      []string
	CompletedWords   []string
	CurrentWordIndex int
	InputBuffer      string
	Seconds          int
	Elapsed          int
	Counts           LetterCount
	Samples          []WPMSample
	FinalStats       *Stats
}

// Result is the terminal record emitted when a session finishes.
type Result struct {
	ID               string
	FinishedAt       time.Time
	Mode             Mode
	TimeLimitSeconds int
	WordCount        int
	WordSet          string
	DurationSeconds  int
	Stats
	Samples []WPMSample
}

// Config defines practice settings resolved from defaults, file, env and flags.
type Config struct {
	Mode      Mode
	Words     int
	Time      int
	WordSet   string
	WordsFile string
	Save      bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Mode        Mode
	Since       *time.Time
	Last        int
	CurveWindow int
}

// ResultAggregate summarizes a stored result for reporting.
type ResultAggregate struct {
	ID               string
	FinishedAt       time.Time
	Mode             Mode
	TimeLimitSeconds int
	WordCount        int
	WordSet          string
	DurationSeconds  int
	Stats
}

// PersonalBest is the fastest stored result for one mode configuration.
type PersonalBest struct {
	Mode             Mode
	TimeLimitSeconds int
	WordCount        int
	WPM              int
	Accuracy         int
	Sessions         int
}
