package world

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/globe/internal/config"
	"github.com/Faultbox/globe/internal/engine/shading"
	"github.com/Faultbox/globe/internal/engine/texture"
	"github.com/Faultbox/globe/internal/engine/uniform"
)

func build(t *testing.T, cfg *config.Config) *World {
	t.Helper()
	w, err := Build(cfg, 16.0/9)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return w
}

func TestBuildDefault(t *testing.T) {
	w := build(t, config.Default())

	if w.Camera.Position != (mgl32.Vec3{12, 5, 4}) {
		t.Errorf("camera at %v", w.Camera.Position)
	}
	if got := w.Scene.Atmosphere.Scale; got != 1.04 {
		t.Errorf("atmosphere scale %v", got)
	}
	if err := w.Scene.Validate(); err != nil {
		t.Errorf("scene incomplete: %v", err)
	}
	day := w.Scene.Atmosphere.Uniforms.Color(uniform.AtmosphereDayColor)
	if day.Hex() != "#00aaff" {
		t.Errorf("day color %s", day.Hex())
	}
}

func TestBuildRejectsBadColor(t *testing.T) {
	cfg := config.Default()
	cfg.Atmosphere.TwilightColor = "orange"
	if _, err := Build(cfg, 1); !errors.Is(err, uniform.ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
}

func TestSceneConfigFresnelFallback(t *testing.T) {
	cfg := config.Default()
	cfg.Atmosphere.FresnelPower = 0
	sc, err := SceneConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if sc.FresnelPower != shading.DefaultFresnelPower {
		t.Errorf("fresnel power %v", sc.FresnelPower)
	}
}

func TestOrbitConfigFromCamera(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.MinDistance = 5
	cfg.Camera.Damping = 0.2
	oc := OrbitConfig(cfg)
	if oc.MinDistance != 5 || oc.Damping != 0.2 || oc.MaxDistance != 30 {
		t.Errorf("orbit config %+v", oc)
	}
}

func TestReloadPropagatesColors(t *testing.T) {
	w := build(t, config.Default())

	cfg := config.Default()
	cfg.Atmosphere.TwilightColor = "#ff0000"
	cfg.Atmosphere.DayColor = "not a color"
	w.Reload(cfg)

	for _, set := range []*uniform.Set{w.Scene.Globe.Uniforms, w.Scene.Atmosphere.Uniforms} {
		if got := set.Color(uniform.AtmosphereTwilightColor).Hex(); got != "#ff0000" {
			t.Errorf("%s twilight = %s, want #ff0000", set.Name(), got)
		}
		if got := set.Color(uniform.AtmosphereDayColor).Hex(); got != "#00aaff" {
			t.Errorf("%s day = %s, bad value should be ignored", set.Name(), got)
		}
	}
}

func TestReloadSunAndRate(t *testing.T) {
	w := build(t, config.Default())

	cfg := config.Default()
	cfg.Globe.SunDirection = [3]float32{0, 0, 2}
	cfg.Globe.RotationRate = 0.5
	cfg.Atmosphere.FresnelPower = 4
	w.Reload(cfg)

	if w.Scene.Sun.Direction != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("sun %v", w.Scene.Sun.Direction)
	}
	if got := w.Scene.Atmosphere.Uniforms.Scalar(shading.FresnelPowerKey, 0); got != 4 {
		t.Errorf("fresnel power %v", got)
	}
	w.Context.Advance(2 * time.Second)
	if got := w.Scene.Globe.Rotation; got != 1 {
		t.Errorf("rotation %v, want 1", got)
	}
}

func TestBindTexturesSkipsFailures(t *testing.T) {
	w := build(t, config.Default())
	placeholder := w.Scene.Globe.Uniforms.Texture(uniform.NightTexture)
	lights := texture.Solid("lights", color.RGBA{R: 255, G: 200, A: 255})

	w.BindTextures([]texture.Result{
		{Key: uniform.DayTexture, Path: "day.jpg", Texture: lights},
		{Key: uniform.NightTexture, Path: "night.jpg", Err: errors.New("not found")},
	})

	if got := w.Scene.Globe.Uniforms.Texture(uniform.DayTexture); got != uniform.Texture(lights) {
		t.Errorf("day texture not bound: %v", got)
	}
	if got := w.Scene.Globe.Uniforms.Texture(uniform.NightTexture); got != placeholder {
		t.Error("failed load replaced the placeholder")
	}
}

func TestTextureRequests(t *testing.T) {
	reqs := TextureRequests(config.Default())
	if len(reqs) != 3 {
		t.Fatalf("got %d requests", len(reqs))
	}
	if reqs[2].Key != uniform.SpecularCloudsTexture || reqs[2].Path != "static/earth/specularClouds.jpg" {
		t.Errorf("unexpected request %+v", reqs[2])
	}
}
