// Package camera provides the perspective camera and the damped orbit
// controller that moves it around the globe.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera that always looks at Target.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	FOV    float32 // vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32

	projection mgl32.Mat4
}

// New creates a camera and computes its projection.
func New(fov, aspect, near, far float32) *Camera {
	c := &Camera{
		Up:     mgl32.Vec3{0, 1, 0},
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	c.UpdateProjection()
	return c
}

// UpdateProjection recomputes the projection matrix after FOV, Aspect, Near
// or Far changed.
func (c *Camera) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Projection returns the projection computed by the last UpdateProjection.
func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}
