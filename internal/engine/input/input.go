// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
)

// Key is a viewer control key.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPlus
	KeyMinus
	KeyMode
	KeyPrecisionDown
	KeyPrecisionUp
	KeyScreenshot
	KeyEscape
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			if key := translateKey(e.Keysym.Scancode); key != KeyUnknown {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: key})
			}
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

func translateKey(code sdl.Scancode) Key {
	switch code {
	case sdl.SCANCODE_LEFT:
		return KeyLeft
	case sdl.SCANCODE_RIGHT:
		return KeyRight
	case sdl.SCANCODE_UP:
		return KeyUp
	case sdl.SCANCODE_DOWN:
		return KeyDown
	case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
		return KeyPlus
	case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
		return KeyMinus
	case sdl.SCANCODE_M:
		return KeyMode
	case sdl.SCANCODE_LEFTBRACKET:
		return KeyPrecisionDown
	case sdl.SCANCODE_RIGHTBRACKET:
		return KeyPrecisionUp
	case sdl.SCANCODE_F12:
		return KeyScreenshot
	case sdl.SCANCODE_ESCAPE:
		return KeyEscape
	default:
		return KeyUnknown
	}
}
