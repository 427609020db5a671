package shading

import (
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/globe/internal/engine/texture"
	"github.com/Faultbox/globe/internal/engine/uniform"
)

const eps = 1e-4

func near(a, b, tol float32) bool {
	return float32(math.Abs(float64(a-b))) <= tol
}

// flatGlobe binds a white day side, black night side and the given mask.
func flatGlobe(t *testing.T, mask color.RGBA) *uniform.Set {
	t.Helper()
	set := uniform.NewSet("globe")
	set.SetTexture(uniform.DayTexture, texture.Solid("day", color.RGBA{255, 255, 255, 255}))
	set.SetTexture(uniform.NightTexture, texture.Solid("night", color.RGBA{0, 0, 0, 255}))
	set.SetTexture(uniform.SpecularCloudsTexture, texture.Solid("mask", mask))
	mustColor(t, set, uniform.AtmosphereDayColor, uniform.Color{R: 0, G: 0.67, B: 1})
	mustColor(t, set, uniform.AtmosphereTwilightColor, uniform.Color{R: 1, G: 0.4, B: 0})
	set.SetVector(uniform.SunDirection, mgl32.Vec3{0, 0, 1})
	return set
}

func mustColor(t *testing.T, set *uniform.Set, key string, c uniform.Color) {
	t.Helper()
	if err := set.SetColor(key, c); err != nil {
		t.Fatalf("SetColor(%s): %v", key, err)
	}
}

func sunAt(angle float64) mgl32.Vec3 {
	// angle measured from the surface normal (0,0,1) toward +X
	return mgl32.Vec3{float32(math.Sin(angle)), 0, float32(math.Cos(angle))}
}

func TestDayMixTerminatorMidpoint(t *testing.T) {
	if got := DayMix(0); !near(got, 0.5, 1e-6) {
		t.Errorf("DayMix(0) = %v, want 0.5", got)
	}
	if got := DayMix(-1); got != 0 {
		t.Errorf("DayMix(-1) = %v, want 0", got)
	}
	if got := DayMix(1); got != 1 {
		t.Errorf("DayMix(1) = %v, want 1", got)
	}
}

func TestDayMixContinuous(t *testing.T) {
	const step = 1e-3
	prev := DayMix(-1)
	for x := float32(-1) + step; x <= 1; x += step {
		cur := DayMix(x)
		if cur < prev {
			t.Fatalf("DayMix not monotonic at %v", x)
		}
		if cur-prev > 0.01 {
			t.Fatalf("DayMix jumps by %v at %v", cur-prev, x)
		}
		prev = cur
	}
}

func TestSurfaceTerminator(t *testing.T) {
	set := flatGlobe(t, color.RGBA{0, 0, 0, 255})
	normal := mgl32.Vec3{0, 0, 1}
	in := SurfaceInput{Normal: normal, View: normal, Sun: mgl32.Vec3{1, 0, 0}}

	got := Surface(in, set)
	for i := 0; i < 3; i++ {
		if !near(got[i], 0.5, eps) {
			t.Fatalf("terminator color = %v, want mid grey", got)
		}
	}

	// Just above and below the terminator the color barely moves.
	above := Surface(SurfaceInput{Normal: normal, View: normal, Sun: sunAt(math.Pi/2 - 1e-4)}, set)
	below := Surface(SurfaceInput{Normal: normal, View: normal, Sun: sunAt(math.Pi/2 + 1e-4)}, set)
	if d := above.Sub(below).Len(); d > 0.01 {
		t.Errorf("discontinuity of %v across the terminator", d)
	}
	if above[0] <= below[0] {
		t.Errorf("lit side should be brighter: above=%v below=%v", above, below)
	}
}

func TestSurfaceDayAndNight(t *testing.T) {
	set := flatGlobe(t, color.RGBA{0, 0, 0, 255})
	normal := mgl32.Vec3{0, 0, 1}

	day := Surface(SurfaceInput{Normal: normal, View: normal, Sun: normal}, set)
	if !near(day[0], 1, eps) || !near(day[1], 1, eps) || !near(day[2], 1, eps) {
		t.Errorf("full day = %v, want white", day)
	}

	night := Surface(SurfaceInput{Normal: normal, View: normal, Sun: normal.Mul(-1)}, set)
	if night.Len() > eps {
		t.Errorf("full night = %v, want black", night)
	}
}

func TestSurfaceCloudsOnlyOnDaySide(t *testing.T) {
	set := flatGlobe(t, color.RGBA{0, 255, 0, 255})
	// Make the day texture dark so clouds are visible against it.
	set.SetTexture(uniform.DayTexture, texture.Solid("day", color.RGBA{0, 0, 80, 255}))
	normal := mgl32.Vec3{0, 0, 1}

	lit := Surface(SurfaceInput{Normal: normal, View: normal, Sun: normal}, set)
	if !near(lit[0], 1, eps) {
		t.Errorf("fully clouded day side = %v, want white", lit)
	}

	dark := Surface(SurfaceInput{Normal: normal, View: normal, Sun: normal.Mul(-1)}, set)
	if dark.Len() > eps {
		t.Errorf("clouds should not show on the night side, got %v", dark)
	}
}

func TestSurfaceSpecularClamped(t *testing.T) {
	set := flatGlobe(t, color.RGBA{255, 0, 0, 255})
	normal := mgl32.Vec3{0, 0, 1}

	// Mirror configuration: the reflected sun ray points straight at the eye.
	got := Surface(SurfaceInput{Normal: normal, View: normal, Sun: normal}, set)
	for i := 0; i < 3; i++ {
		if got[i] < 0 || got[i] > 1 {
			t.Fatalf("channel %d = %v outside [0,1]", i, got[i])
		}
	}

	// No highlight on the night side even with a perfect mirror angle.
	set.SetTexture(uniform.DayTexture, texture.Solid("day", color.RGBA{0, 0, 0, 255}))
	back := normal.Mul(-1)
	dark := Surface(SurfaceInput{Normal: normal, View: back, Sun: back}, set)
	if dark.Len() > eps {
		t.Errorf("specular leaked onto the night side: %v", dark)
	}
}

func TestSurfaceWithoutTextures(t *testing.T) {
	set := uniform.NewSet("globe")
	normal := mgl32.Vec3{0, 0, 1}
	got := Surface(SurfaceInput{Normal: normal, View: normal, Sun: normal}, set)
	for i := 0; i < 3; i++ {
		if got[i] < 0 || got[i] > 1 || math.IsNaN(float64(got[i])) {
			t.Fatalf("unbound render produced %v", got)
		}
	}
}

func TestFresnel(t *testing.T) {
	n := mgl32.Vec3{0, 0, 1}
	if got := Fresnel(n, n, 2); got != 0 {
		t.Errorf("head-on fresnel = %v, want 0", got)
	}
	if got := Fresnel(n, mgl32.Vec3{1, 0, 0}, 2); got != 1 {
		t.Errorf("grazing fresnel = %v, want 1", got)
	}
	mid := Fresnel(n, mgl32.Vec3{0, float32(math.Sqrt(0.5)), float32(math.Sqrt(0.5))}, 2)
	if mid <= 0 || mid >= 1 {
		t.Errorf("45 degree fresnel = %v, want in (0,1)", mid)
	}
}

func TestAtmosphereDayAndTwilight(t *testing.T) {
	set := flatGlobe(t, color.RGBA{})
	day := set.Color(uniform.AtmosphereDayColor).Vec3()
	twilight := set.Color(uniform.AtmosphereTwilightColor).Vec3()
	grazing := mgl32.Vec3{1, 0, 0}

	lit := Atmosphere(AtmosphereInput{
		Normal: mgl32.Vec3{0, 0, 1},
		Sun:    mgl32.Vec3{0, 0, 1},
		View:   grazing,
	}, set)
	if d := lit.Vec3().Sub(day).Len(); d > 0.01 {
		t.Errorf("lit grazing color = %v, want close to day %v", lit.Vec3(), day)
	}
	if lit[3] < 0.95 {
		t.Errorf("lit grazing alpha = %v, want near 1", lit[3])
	}

	unlit := Atmosphere(AtmosphereInput{
		Normal: mgl32.Vec3{0, 0, -1},
		Sun:    mgl32.Vec3{0, 0, 1},
		View:   grazing,
	}, set)
	if d := unlit.Vec3().Sub(twilight).Len(); d > 0.01 {
		t.Errorf("antipodal color = %v, want close to twilight %v", unlit.Vec3(), twilight)
	}
	if unlit[3] >= lit[3] {
		t.Errorf("antipodal alpha %v should be below lit alpha %v", unlit[3], lit[3])
	}
}

func TestAtmosphereFadesTowardCenter(t *testing.T) {
	set := flatGlobe(t, color.RGBA{})
	sun := mgl32.Vec3{0, 1, 0}

	// Far side of the shell seen head-on: outward normal points away from the eye.
	center := Atmosphere(AtmosphereInput{Normal: mgl32.Vec3{0, 0, -1}, Sun: sun, View: mgl32.Vec3{0, 0, 1}}, set)
	edge := Atmosphere(AtmosphereInput{Normal: mgl32.Vec3{0, 0.2, -0.98}.Normalize(), Sun: sun, View: mgl32.Vec3{0, 0, 1}}, set)
	if center[3] != 0 {
		t.Errorf("head-on alpha = %v, want 0", center[3])
	}
	if edge[3] <= center[3] {
		t.Errorf("alpha should grow toward the silhouette: center=%v edge=%v", center[3], edge[3])
	}
}

func TestAtmosphereFresnelPowerOverride(t *testing.T) {
	set := flatGlobe(t, color.RGBA{})
	in := AtmosphereInput{
		Normal: mgl32.Vec3{0, 0, -1},
		Sun:    mgl32.Vec3{0, 0, -1},
		View:   mgl32.Vec3{0, float32(math.Sqrt(0.5)), -float32(math.Sqrt(0.5))},
	}
	soft := Atmosphere(in, set)
	set.SetScalar(FresnelPowerKey, 8)
	sharp := Atmosphere(in, set)
	if sharp[3] >= soft[3] {
		t.Errorf("higher fresnel power should thin the shell: power2=%v power8=%v", soft[3], sharp[3])
	}
}

func TestProgramSourcesDeclareUniforms(t *testing.T) {
	for _, p := range Programs {
		vert, frag := p.Sources()
		if !strings.Contains(vert, "#version 410 core") {
			t.Errorf("%s vertex shader missing version header", p)
		}
		for _, req := range p.Requirements() {
			if !strings.Contains(frag, " "+req.Key+";") {
				t.Errorf("%s fragment shader does not declare %s", p, req.Key)
			}
		}
	}
}
