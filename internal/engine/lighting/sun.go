// Package lighting converts sun positions into light directions.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Default sun position: on the equator, half a radian east of +Z.
const (
	DefaultSunPolar   = math.Pi / 2
	DefaultSunAzimuth = 0.5
)

// SunDirection converts a spherical position to a unit direction pointing
// toward the sun. polar is measured from +Y; azimuth turns around Y starting
// at +Z toward +X.
func SunDirection(polar, azimuth float64) mgl32.Vec3 {
	sinPolar := math.Sin(polar)
	return mgl32.Vec3{
		float32(sinPolar * math.Sin(azimuth)),
		float32(math.Cos(polar)),
		float32(sinPolar * math.Cos(azimuth)),
	}
}

// DefaultSunDirection is SunDirection at the default position.
func DefaultSunDirection() mgl32.Vec3 {
	return SunDirection(DefaultSunPolar, DefaultSunAzimuth)
}
