// Package clock provides the monotonic frame time source.
package clock

import "time"

// State is the time snapshot seen by one frame.
type State struct {
	Elapsed time.Duration // Since construction
	Delta   time.Duration // Since the previous Tick
}

// Seconds returns Elapsed in seconds.
func (s State) Seconds() float64 {
	return s.Elapsed.Seconds()
}

// DeltaSeconds returns Delta in seconds.
func (s State) DeltaSeconds() float64 {
	return s.Delta.Seconds()
}

// Clock tracks elapsed and delta time. It is reset only at construction.
type Clock struct {
	now   func() time.Time
	start time.Time
	last  time.Time
	state State
}

// New creates a clock reading wall time.
func New() *Clock {
	return NewWithSource(time.Now)
}

// NewWithSource creates a clock reading the given time source (tests use a fake).
func NewWithSource(now func() time.Time) *Clock {
	t := now()
	return &Clock{now: now, start: t, last: t}
}

// Tick advances the clock and returns the new state.
// A source that steps backwards yields a zero delta; Elapsed never decreases.
func (c *Clock) Tick() State {
	t := c.now()
	c.state = Advance(c.state, t.Sub(c.last))
	if t.After(c.last) {
		c.last = t
	}
	return c.state
}

// State returns the state produced by the last Tick.
func (c *Clock) State() State {
	return c.state
}

// Now returns the elapsed time at the current source reading without
// advancing the frame state. It is never less than State().Elapsed.
func (c *Clock) Now() time.Duration {
	return c.state.Elapsed + max(c.now().Sub(c.last), 0)
}

// Advance is the pure update: add a step, ignoring negative steps.
func Advance(s State, step time.Duration) State {
	if step < 0 {
		step = 0
	}
	return State{Elapsed: s.Elapsed + step, Delta: step}
}
