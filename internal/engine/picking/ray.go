// Package picking casts rays from screen pixels into the scene and intersects
// them with spheres.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line in world space with a unit direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay converts pixel coordinates to a world-space ray starting on the
// near plane. invViewProj is the inverse of projection * view.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, -1}, invViewProj)
	far := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, 1}, invViewProj)

	dir := far.Sub(near)
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return Ray{Origin: near, Direction: dir}
}

// SphereRoots intersects r with a sphere of the given radius centered at the
// origin and returns both ray parameters, nearest first.
func (r Ray) SphereRoots(radius float32) (near, far float32, ok bool) {
	oc := r.Origin
	a := r.Direction.Dot(r.Direction)
	halfB := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return 0, 0, false
	}
	sqrtD := float32(math.Sqrt(float64(discriminant)))
	return (-halfB - sqrtD) / a, (-halfB + sqrtD) / a, true
}

// IntersectFront returns where the ray enters the sphere (its outside face).
func (r Ray) IntersectFront(radius, tMin float32) (float32, bool) {
	near, _, ok := r.SphereRoots(radius)
	if !ok || near < tMin {
		return 0, false
	}
	return near, true
}

// IntersectBack returns where the ray leaves the sphere (its inside face).
func (r Ray) IntersectBack(radius, tMin float32) (float32, bool) {
	_, far, ok := r.SphereRoots(radius)
	if !ok || far < tMin {
		return 0, false
	}
	return far, true
}
