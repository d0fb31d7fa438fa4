// Package input translates SDL2 events into the viewer's pointer, resize and
// quit events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventResize
	EventPointerDown
	EventPointerUp
	EventPointerMove
	EventKeyDown
)

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventResize:
		return "resize"
	case EventPointerDown:
		return "pointer-down"
	case EventPointerUp:
		return "pointer-up"
	case EventPointerMove:
		return "pointer-move"
	case EventKeyDown:
		return "key-down"
	default:
		return "none"
	}
}

// Event is one processed input event. X and Y are logical window coordinates.
type Event struct {
	Type EventType
	X    float32
	Y    float32
	Key  sdl.Scancode
}

// Quits reports whether the event closes the viewer: a window close or Escape.
func (e Event) Quits() bool {
	return e.Type == EventQuit || (e.Type == EventKeyDown && e.Key == sdl.SCANCODE_ESCAPE)
}

// Input collects events once per frame.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them. Returns true if the window
// should close.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e, ok := Translate(event)
		if !ok {
			continue
		}
		i.events = append(i.events, e)
		if e.Quits() {
			quit = true
		}
	}
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Translate maps one SDL event. Only the primary (left) button drives the
// pointer; other buttons and unrelated events are dropped.
func Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{Type: EventResize, X: float32(e.Data1), Y: float32(e.Data2)}, true
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Type: EventQuit}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{Type: EventPointerMove, X: float32(e.X), Y: float32(e.Y)}, true

	case *sdl.MouseButtonEvent:
		if e.Button != sdl.BUTTON_LEFT {
			return Event{}, false
		}
		t := EventPointerUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = EventPointerDown
		}
		return Event{Type: t, X: float32(e.X), Y: float32(e.Y)}, true
	}
	return Event{}, false
}

// Dispatch forwards pointer and resize events to a target.
func Dispatch(events []Event, t Target) {
	for _, e := range events {
		switch e.Type {
		case EventPointerDown:
			t.PointerDown(e.X, e.Y)
		case EventPointerUp:
			t.PointerUp(e.X, e.Y)
		case EventPointerMove:
			t.PointerMove(e.X, e.Y)
		case EventResize:
			t.Resize()
		}
	}
}

// Target receives dispatched events.
type Target interface {
	PointerDown(x, y float32)
	PointerUp(x, y float32)
	PointerMove(x, y float32)
	Resize()
}
