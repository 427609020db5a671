package shading

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/globe/internal/engine/uniform"
)

// DefaultFresnelPower controls how fast the shell fades toward its center.
const DefaultFresnelPower = 2

// FresnelPowerKey is an optional scalar uniform overriding DefaultFresnelPower.
const FresnelPowerKey = "fresnelPower"

// AtmosphereRequirements lists the uniforms the atmosphere program reads.
var AtmosphereRequirements = []uniform.Requirement{
	{Key: uniform.AtmosphereDayColor, Kind: uniform.KindColor},
	{Key: uniform.AtmosphereTwilightColor, Kind: uniform.KindColor},
	{Key: uniform.SunDirection, Kind: uniform.KindVector},
}

// AtmosphereInput describes one shell fragment. Normal is the outward shell
// normal; View points from the fragment toward the eye. Only far-side (back)
// fragments are drawn, so the fresnel term uses the normal flipped toward the
// viewer while the sun term keeps the outward one.
type AtmosphereInput struct {
	Normal mgl32.Vec3
	Sun    mgl32.Vec3
	View   mgl32.Vec3
}

// Fresnel returns the edge weight for a fragment: 0 when the shell is seen
// head-on and 1 at the silhouette.
func Fresnel(normal, view mgl32.Vec3, power float32) float32 {
	return pow(1-max(normal.Dot(view), 0), power)
}

// Atmosphere returns the premultiplied-by-fresnel color of a shell fragment
// and its alpha.
func Atmosphere(in AtmosphereInput, set *uniform.Set) mgl32.Vec4 {
	facing := in.Normal
	if facing.Dot(in.View) < 0 {
		facing = facing.Mul(-1)
	}
	f := Fresnel(facing, in.View, set.Scalar(FresnelPowerKey, DefaultFresnelPower))
	sunDot := in.Normal.Dot(in.Sun)

	hue := Mix(
		set.Color(uniform.AtmosphereTwilightColor).Vec3(),
		set.Color(uniform.AtmosphereDayColor).Vec3(),
		AtmosphereMix(sunDot),
	)
	rgb := clampVec3(hue.Mul(f))
	alpha := mgl32.Clamp(f*Smoothstep(-0.5, 1, sunDot), 0, 1)
	return rgb.Vec4(alpha)
}
