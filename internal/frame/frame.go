// Package frame drives the viewer: a render context that advances time and
// state by explicit deltas, and a driver that feeds it the host clock once
// per display refresh.
package frame

import (
	"time"

	"github.com/Faultbox/globe/internal/engine/camera"
	"github.com/Faultbox/globe/internal/engine/scene"
)

// Clock is the elapsed time since start and the delta of the last tick.
// Durations are integer nanoseconds, so the running sum is exact.
type Clock struct {
	Elapsed time.Duration
	Delta   time.Duration
	Ticks   uint64
}

// Context bundles all mutable per-run state: the scene, the orbit controller
// and the clock. Every component gets it explicitly; nothing is global.
type Context struct {
	Scene        *scene.Scene
	Orbit        *camera.Orbit
	RotationRate float32 // globe spin, radians per second

	clock Clock
}

// NewContext creates a context at time zero.
func NewContext(s *scene.Scene, orbit *camera.Orbit, rotationRate float32) *Context {
	return &Context{Scene: s, Orbit: orbit, RotationRate: rotationRate}
}

// Clock returns a copy of the clock.
func (c *Context) Clock() Clock { return c.clock }

// GlobeRotation returns the spin angle at elapsed time d.
func (c *Context) GlobeRotation(d time.Duration) float32 {
	return float32(d.Seconds() * float64(c.RotationRate))
}

// Advance moves the world forward by delta and returns the frame to draw.
// Negative deltas are treated as zero.
func (c *Context) Advance(delta time.Duration) scene.RenderCommands {
	if delta < 0 {
		delta = 0
	}
	c.clock.Delta = delta
	c.clock.Elapsed += delta
	c.clock.Ticks++

	c.Scene.SetGlobeRotation(c.GlobeRotation(c.clock.Elapsed))
	if c.Orbit != nil {
		c.Orbit.Update()
	}
	return c.Scene.Commands(c.clock.Elapsed)
}
