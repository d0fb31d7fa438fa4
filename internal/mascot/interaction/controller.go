// Package interaction decides when auto-rotation may run around user input.
package interaction

import "time"

// Mode is the controller state.
type Mode int

const (
	// Idle allows auto-rotation.
	Idle Mode = iota
	// Active means a pointer is down.
	Active
	// ActivePendingResume means the pointer was released and the resume timer runs.
	ActivePendingResume
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case ActivePendingResume:
		return "active-pending-resume"
	default:
		return "unknown"
	}
}

// DefaultResumeDelay is the quiet period after release before auto-rotation resumes.
const DefaultResumeDelay = 3 * time.Second

// Timer is a one-shot deadline on the viewer clock.
type Timer struct {
	at   time.Duration
	live bool
}

// Cancel disarms the timer. Canceling a fired or canceled timer is a no-op,
// as is canceling a nil one.
func (t *Timer) Cancel() {
	if t != nil {
		t.live = false
	}
}

// Live reports whether the timer is armed.
func (t *Timer) Live() bool {
	return t != nil && t.live
}

// Deadline returns the clock time the timer fires at.
func (t *Timer) Deadline() time.Duration {
	return t.at
}

func (t *Timer) due(now time.Duration) bool {
	return t.Live() && now >= t.at
}

// Controller is the Idle / Active / ActivePendingResume state machine. Times
// are elapsed durations from the viewer clock; the controller never reads
// wall time itself.
type Controller struct {
	mode  Mode
	delay time.Duration
	timer *Timer
}

// New creates a controller in Idle. A non-positive delay uses DefaultResumeDelay.
func New(delay time.Duration) *Controller {
	if delay <= 0 {
		delay = DefaultResumeDelay
	}
	return &Controller{mode: Idle, delay: delay}
}

// Mode returns the current state.
func (c *Controller) Mode() Mode {
	return c.mode
}

// AutoRotate reports whether auto-rotation is allowed right now.
func (c *Controller) AutoRotate() bool {
	return c.mode == Idle
}

// Timer returns the pending resume timer, or nil.
func (c *Controller) Timer() *Timer {
	return c.timer
}

// PointerDown enters Active from any state and cancels a pending resume.
func (c *Controller) PointerDown() {
	c.timer.Cancel()
	c.timer = nil
	c.mode = Active
}

// PointerUp (re)starts the resume timer. A release with no preceding press
// leaves Idle untouched.
func (c *Controller) PointerUp(now time.Duration) {
	if c.mode == Idle {
		return
	}
	c.timer.Cancel()
	c.timer = &Timer{at: now + c.delay, live: true}
	c.mode = ActivePendingResume
}

// Advance fires the resume timer if its deadline has passed and reports
// whether the controller returned to Idle.
func (c *Controller) Advance(now time.Duration) bool {
	if c.mode != ActivePendingResume || !c.timer.due(now) {
		return false
	}
	c.timer.Cancel()
	c.timer = nil
	c.mode = Idle
	return true
}

// Reset cancels any pending timer and returns to Idle.
func (c *Controller) Reset() {
	c.timer.Cancel()
	c.timer = nil
	c.mode = Idle
}
