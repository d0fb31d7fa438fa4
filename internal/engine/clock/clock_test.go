package clock

import (
	"testing"
	"time"
)

type fakeSource struct {
	t time.Time
}

func (f *fakeSource) now() time.Time { return f.t }

func TestTick(t *testing.T) {
	src := &fakeSource{t: time.Unix(1000, 0)}
	c := NewWithSource(src.now)

	if s := c.Tick(); s.Elapsed != 0 || s.Delta != 0 {
		t.Errorf("first tick without time passing = %+v, want zero", s)
	}

	src.t = src.t.Add(16 * time.Millisecond)
	s := c.Tick()
	if s.Delta != 16*time.Millisecond {
		t.Errorf("Delta = %v, want 16ms", s.Delta)
	}
	if s.Elapsed != 16*time.Millisecond {
		t.Errorf("Elapsed = %v, want 16ms", s.Elapsed)
	}

	src.t = src.t.Add(34 * time.Millisecond)
	s = c.Tick()
	if s.Elapsed != 50*time.Millisecond {
		t.Errorf("Elapsed = %v, want 50ms", s.Elapsed)
	}
	if c.State() != s {
		t.Errorf("State() = %+v, want %+v", c.State(), s)
	}
}

func TestTickBackwardsSource(t *testing.T) {
	src := &fakeSource{t: time.Unix(1000, 0)}
	c := NewWithSource(src.now)

	src.t = src.t.Add(time.Second)
	c.Tick()

	src.t = src.t.Add(-500 * time.Millisecond)
	s := c.Tick()
	if s.Delta != 0 {
		t.Errorf("Delta after backwards step = %v, want 0", s.Delta)
	}
	if s.Elapsed != time.Second {
		t.Errorf("Elapsed after backwards step = %v, want 1s", s.Elapsed)
	}

	// Forward progress is measured from the latest time seen, not the rewound one.
	src.t = src.t.Add(600 * time.Millisecond)
	s = c.Tick()
	if s.Delta != 100*time.Millisecond {
		t.Errorf("Delta after recovery = %v, want 100ms", s.Delta)
	}
}

func TestAdvance(t *testing.T) {
	s := Advance(State{}, 250*time.Millisecond)
	s = Advance(s, -time.Second)
	if s.Elapsed != 250*time.Millisecond || s.Delta != 0 {
		t.Errorf("Advance = %+v, want elapsed 250ms delta 0", s)
	}
	if got := Advance(State{}, 1500*time.Millisecond).Seconds(); got != 1.5 {
		t.Errorf("Seconds() = %v, want 1.5", got)
	}
}

func TestNowBetweenTicks(t *testing.T) {
	src := &fakeSource{t: time.Unix(1000, 0)}
	c := NewWithSource(src.now)

	src.t = src.t.Add(100 * time.Millisecond)
	c.Tick()
	src.t = src.t.Add(40 * time.Millisecond)

	if got := c.Now(); got != 140*time.Millisecond {
		t.Errorf("Now() = %v, want 140ms", got)
	}
	if c.State().Elapsed != 100*time.Millisecond {
		t.Errorf("Now() advanced the frame state to %v", c.State().Elapsed)
	}

	src.t = src.t.Add(-time.Second)
	if got := c.Now(); got != 100*time.Millisecond {
		t.Errorf("Now() after a backwards step = %v, want 100ms", got)
	}
}
