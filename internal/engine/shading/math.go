package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Smoothstep is the GLSL smoothstep: 0 below edge0, 1 above edge1 and a
// cubic Hermite ramp in between.
func Smoothstep(edge0, edge1, x float32) float32 {
	t := mgl32.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Mix is the GLSL mix for vectors.
func Mix(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// Reflect is the GLSL reflect: incident i mirrored about normal n.
func Reflect(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

func pow(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

func clampVec3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{mgl32.Clamp(v[0], 0, 1), mgl32.Clamp(v[1], 0, 1), mgl32.Clamp(v[2], 0, 1)}
}
