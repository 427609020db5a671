// Package events defines the host signals the viewer reacts to and routes
// them to the orbit controller and the viewport reactor.
package events

import (
	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/logger"
)

// Type identifies a host signal.
type Type int

const (
	None Type = iota
	Quit
	Resize
	PointerDown
	PointerMove
	PointerUp
	PointerLeave
	Scroll
	KeyDown
	DoubleClick
)

// Key names the keys the viewer binds.
type Key int

const (
	KeyOther Key = iota
	KeyEnter
	KeyEscape
)

// Event is a host signal with its payload. Only the fields relevant to Type
// are set.
type Event struct {
	Type Type

	Width, Height int
	Density       float64

	X, Y   float32
	Scroll float32
	Key    Key
}

// Orbit receives pointer input.
type Orbit interface {
	PointerDown(x, y float32)
	PointerMove(x, y float32)
	PointerUp()
	PointerLeave()
	Scroll(delta float32)
}

// Viewport receives resize and fullscreen requests.
type Viewport interface {
	Resize(width, height int, density float64) bool
	ToggleFullscreen() error
}

// Router dispatches events. It runs on the render thread between ticks.
type Router struct {
	orbit    Orbit
	viewport Viewport
	quit     bool
}

// NewRouter creates a router.
func NewRouter(orbit Orbit, viewport Viewport) *Router {
	return &Router{orbit: orbit, viewport: viewport}
}

// QuitRequested reports whether a Quit event or Escape was seen.
func (r *Router) QuitRequested() bool { return r.quit }

// Dispatch routes a batch of events in order.
func (r *Router) Dispatch(evs []Event) {
	for _, e := range evs {
		r.handle(e)
	}
}

func (r *Router) handle(e Event) {
	switch e.Type {
	case Quit:
		r.quit = true
	case Resize:
		r.viewport.Resize(e.Width, e.Height, e.Density)
	case PointerDown:
		r.orbit.PointerDown(e.X, e.Y)
	case PointerMove:
		r.orbit.PointerMove(e.X, e.Y)
	case PointerUp:
		r.orbit.PointerUp()
	case PointerLeave:
		r.orbit.PointerLeave()
	case Scroll:
		r.orbit.Scroll(e.Scroll)
	case DoubleClick:
		r.toggleFullscreen()
	case KeyDown:
		switch e.Key {
		case KeyEnter:
			r.toggleFullscreen()
		case KeyEscape:
			r.quit = true
		}
	}
}

func (r *Router) toggleFullscreen() {
	if err := r.viewport.ToggleFullscreen(); err != nil {
		logger.Warn("fullscreen toggle failed", zap.Error(err))
	}
}
