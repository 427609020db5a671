// Package viewport keeps the camera projection and the output surface in step
// with the host window, and toggles fullscreen.
package viewport

import (
	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/engine/camera"
	"github.com/Faultbox/globe/internal/logger"
)

// Surface is the render target whose size follows the window.
type Surface interface {
	SetSize(width, height int)
	SetPixelRatio(ratio float64)
}

// Display controls the window's display mode.
type Display interface {
	IsFullscreen() bool
	SetFullscreen(on bool) error
}

// Reactor applies host resize and fullscreen requests.
type Reactor struct {
	cam           *camera.Camera
	surface       Surface
	display       Display
	maxPixelRatio float64

	width, height int
	pixelRatio    float64
}

// New creates a reactor. maxPixelRatio caps the density passed to the surface;
// zero means no cap.
func New(cam *camera.Camera, surface Surface, display Display, maxPixelRatio float64) *Reactor {
	return &Reactor{
		cam:           cam,
		surface:       surface,
		display:       display,
		maxPixelRatio: maxPixelRatio,
	}
}

// Size returns the last accepted size and pixel ratio.
func (r *Reactor) Size() (width, height int, pixelRatio float64) {
	return r.width, r.height, r.pixelRatio
}

// Resize handles a viewport signal. Non-positive dimensions or density are
// ignored and the previous projection is kept. It reports whether anything
// changed.
func (r *Reactor) Resize(width, height int, density float64) bool {
	if width <= 0 || height <= 0 || !(density > 0) {
		logger.Warn("ignoring invalid viewport",
			zap.Int("width", width),
			zap.Int("height", height),
			zap.Float64("density", density),
		)
		return false
	}

	ratio := density
	if r.maxPixelRatio > 0 && ratio > r.maxPixelRatio {
		ratio = r.maxPixelRatio
	}
	if width == r.width && height == r.height && ratio == r.pixelRatio {
		return false
	}
	r.width, r.height, r.pixelRatio = width, height, ratio

	r.cam.Aspect = float32(width) / float32(height)
	r.cam.UpdateProjection()

	if r.surface != nil {
		r.surface.SetSize(width, height)
		r.surface.SetPixelRatio(ratio)
	}

	logger.Debug("viewport resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float64("pixel_ratio", ratio),
	)
	return true
}

// ToggleFullscreen enters fullscreen when windowed and leaves it otherwise.
func (r *Reactor) ToggleFullscreen() error {
	if r.display == nil {
		return nil
	}
	next := !r.display.IsFullscreen()
	if err := r.display.SetFullscreen(next); err != nil {
		return err
	}
	logger.Info("display mode changed", zap.Bool("fullscreen", next))
	return nil
}
