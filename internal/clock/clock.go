// Package clock implements the per-session second counter.
//
// The clock does not own a timer. A host calls Advance once per wall-clock
// second while the clock is running; Generation lets the host drop ticks
// that were scheduled before a Stop or Reset.
package clock

import "github.com/verte-zerg/typetest/internal/model"

// Tick reports the clock state after one second has passed.
type Tick struct {
	// Seconds is the displayed value: elapsed in words mode, remaining in time mode.
	Seconds int
	// Elapsed is the number of seconds since Start.
	Elapsed int
	// Expired is true only on the tick where a countdown reaches zero.
	Expired bool
}

// Clock counts up in words mode and down in time mode.
type Clock struct {
	mode       model.Mode
	limit      int
	seconds    int
	elapsed    int
	running    bool
	expired    bool
	generation uint64
}

// New returns a stopped clock reset for the given mode.
func New(mode model.Mode, limitSeconds int) *Clock {
	c := &Clock{}
	c.Reset(mode, limitSeconds)
	return c
}

// Reset stops the clock and rewinds it to 0 or to the time limit.
func (c *Clock) Reset(mode model.Mode, limitSeconds int) {
	c.Stop()
	c.mode = mode
	c.limit = max(0, limitSeconds)
	c.elapsed = 0
	c.expired = false
	if mode == model.ModeTime {
		c.seconds = c.limit
	} else {
		c.seconds = 0
	}
}

// Start begins a new run. Starting a running clock is a no-op.
func (c *Clock) Start() {
	if c.running {
		return
	}
	c.running = true
	c.generation++
}

// Stop cancels the run. It is safe to call on a stopped or never-started clock.
func (c *Clock) Stop() {
	if !c.running {
		return
	}
	c.running = false
	c.generation++
}

// Advance moves the clock forward one second. It returns false when the
// clock is not running.
func (c *Clock) Advance() (Tick, bool) {
	if !c.running {
		return Tick{}, false
	}
	c.elapsed++
	expired := false
	switch c.mode {
	case model.ModeTime:
		c.seconds = max(0, c.seconds-1)
		if c.seconds == 0 && !c.expired {
			c.expired = true
			expired = true
		}
	default:
		c.seconds++
	}
	return Tick{Seconds: c.seconds, Elapsed: c.elapsed, Expired: expired}, true
}

// Seconds is the displayed value.
func (c *Clock) Seconds() int { return c.seconds }

// Elapsed is the number of seconds since Start.
func (c *Clock) Elapsed() int { return c.elapsed }

// Running reports whether ticks are accepted.
func (c *Clock) Running() bool { return c.running }

// Generation identifies the current run. It changes on every Start and Stop.
func (c *Clock) Generation() uint64 { return c.generation }
