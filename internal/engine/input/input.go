// Package input translates SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/globe/internal/events"
)

// DensityFunc reports the current device-pixel ratio of the window.
type DensityFunc func() float64

// Input polls SDL and buffers translated events.
type Input struct {
	events   []events.Event
	density  DensityFunc
	snapshot bool
}

// New creates an input handler. density may be nil, meaning 1.
func New(density DensityFunc) *Input {
	if density == nil {
		density = func() float64 { return 1 }
	}
	return &Input{
		events:  make([]events.Event, 0, 16),
		density: density,
	}
}

// Update drains the SDL queue. Returns true if a quit was requested.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.snapshot = false
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, events.Event{Type: events.Quit})
			quit = true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				i.events = append(i.events, events.Event{
					Type:    events.Resize,
					Width:   int(e.Data1),
					Height:  int(e.Data2),
					Density: i.density(),
				})
			case sdl.WINDOWEVENT_LEAVE:
				i.events = append(i.events, events.Event{Type: events.PointerLeave})
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			if e.Keysym.Scancode == sdl.SCANCODE_F12 {
				i.snapshot = true
				continue
			}
			i.events = append(i.events, events.Event{Type: events.KeyDown, Key: translateKey(e.Keysym.Scancode)})

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, events.Event{Type: events.PointerMove, X: float32(e.X), Y: float32(e.Y)})

		case *sdl.MouseButtonEvent:
			if e.Button != sdl.BUTTON_LEFT {
				continue
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				if e.Clicks == 2 {
					i.events = append(i.events, events.Event{Type: events.DoubleClick})
				}
				i.events = append(i.events, events.Event{Type: events.PointerDown, X: float32(e.X), Y: float32(e.Y)})
			} else {
				i.events = append(i.events, events.Event{Type: events.PointerUp, X: float32(e.X), Y: float32(e.Y)})
			}

		case *sdl.MouseWheelEvent:
			delta := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				delta = -delta
			}
			i.events = append(i.events, events.Event{Type: events.Scroll, Scroll: delta})
		}
	}
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []events.Event {
	return i.events
}

// SnapshotRequested reports whether F12 was pressed during the last Update.
func (i *Input) SnapshotRequested() bool {
	return i.snapshot
}

func translateKey(sc sdl.Scancode) events.Key {
	switch sc {
	case sdl.SCANCODE_RETURN, sdl.SCANCODE_KP_ENTER:
		return events.KeyEnter
	case sdl.SCANCODE_ESCAPE:
		return events.KeyEscape
	default:
		return events.KeyOther
	}
}
