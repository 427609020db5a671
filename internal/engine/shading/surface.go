// Package shading holds the two per-pixel color models of the globe and the
// GLSL programs that implement them on the GPU. The Go functions mirror the
// fragment shaders line for line; the software rasterizer and the tests use
// them directly.
package shading

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/globe/internal/engine/uniform"
)

// Terminator band half-width, in units of dot(normal, sun).
const TerminatorWidth = 0.25

// SpecularShininess is the Phong exponent of ocean glints.
const SpecularShininess = 32

// SurfaceRequirements lists the uniforms the globe program reads.
var SurfaceRequirements = []uniform.Requirement{
	{Key: uniform.DayTexture, Kind: uniform.KindTexture},
	{Key: uniform.NightTexture, Kind: uniform.KindTexture},
	{Key: uniform.SpecularCloudsTexture, Kind: uniform.KindTexture},
	{Key: uniform.AtmosphereDayColor, Kind: uniform.KindColor},
	{Key: uniform.AtmosphereTwilightColor, Kind: uniform.KindColor},
	{Key: uniform.SunDirection, Kind: uniform.KindVector},
}

// SurfaceInput describes one globe fragment. All vectors are unit length and
// in world space; View points from the surface toward the eye.
type SurfaceInput struct {
	Normal mgl32.Vec3
	Sun    mgl32.Vec3
	View   mgl32.Vec3
	UV     mgl32.Vec2
}

// DayMix is the day/night blend weight for a given dot(normal, sun):
// 0 on the night side, 1 on the day side, 0.5 on the terminator.
func DayMix(sunDot float32) float32 {
	return Smoothstep(-TerminatorWidth, TerminatorWidth, sunDot)
}

// AtmosphereMix weights the twilight and day hues of the atmosphere.
func AtmosphereMix(sunDot float32) float32 {
	return Smoothstep(-0.25, 0.75, sunDot)
}

// Surface returns the RGB color of a globe fragment, each channel in [0, 1].
func Surface(in SurfaceInput, set *uniform.Set) mgl32.Vec3 {
	sunDot := in.Normal.Dot(in.Sun)
	dayMix := DayMix(sunDot)

	day := sample(set, uniform.DayTexture, in.UV)
	night := sample(set, uniform.NightTexture, in.UV)
	color := Mix(night, day, dayMix)

	mask := sample(set, uniform.SpecularCloudsTexture, in.UV)
	specularMask, cloudMask := mask[0], mask[1]

	cloudAlpha := Smoothstep(0.5, 1, cloudMask) * dayMix
	color = Mix(color, mgl32.Vec3{1, 1, 1}, cloudAlpha)

	// Atmosphere seen edge-on tints the rim of the globe.
	fresnel := pow(1-max(in.Normal.Dot(in.View), 0), 2)
	atmosphereColor := Mix(
		set.Color(uniform.AtmosphereTwilightColor).Vec3(),
		set.Color(uniform.AtmosphereDayColor).Vec3(),
		AtmosphereMix(sunDot),
	)
	color = Mix(color, atmosphereColor, fresnel*Smoothstep(-0.5, 1, sunDot))

	reflection := Reflect(in.Sun.Mul(-1), in.Normal)
	specular := pow(max(reflection.Dot(in.View), 0), SpecularShininess)
	specular *= specularMask * Smoothstep(0, 0.1, sunDot)
	specularColor := Mix(mgl32.Vec3{1, 1, 1}, atmosphereColor, fresnel)
	color = color.Add(specularColor.Mul(specular))

	return clampVec3(color)
}

// sample reads an RGB texel, or black when nothing is bound yet.
func sample(set *uniform.Set, key string, uv mgl32.Vec2) mgl32.Vec3 {
	tex := set.Texture(key)
	if tex == nil {
		return mgl32.Vec3{}
	}
	return tex.Sample(uv[0], uv[1]).Vec3()
}
