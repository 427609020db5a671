// Package world wires a config into the pure, display-independent parts of
// the viewer: camera, orbit controller, scene, parameter binder and frame
// context. Both the windowed viewer and the headless snapshot tool start here.
package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/config"
	"github.com/Faultbox/globe/internal/engine/camera"
	"github.com/Faultbox/globe/internal/engine/scene"
	"github.com/Faultbox/globe/internal/engine/shading"
	"github.com/Faultbox/globe/internal/engine/texture"
	"github.com/Faultbox/globe/internal/engine/uniform"
	"github.com/Faultbox/globe/internal/frame"
	"github.com/Faultbox/globe/internal/logger"
	"github.com/Faultbox/globe/internal/params"
)

// World is everything a frame is computed from.
type World struct {
	Camera  *camera.Camera
	Orbit   *camera.Orbit
	Scene   *scene.Scene
	Binder  *params.Binder
	Context *frame.Context
}

// Build creates the world for cfg. aspect is the initial viewport aspect.
func Build(cfg *config.Config, aspect float32) (*World, error) {
	sceneCfg, err := SceneConfig(cfg)
	if err != nil {
		return nil, err
	}

	cam := camera.New(cfg.Camera.FOV, aspect, cfg.Camera.Near, cfg.Camera.Far)
	cam.Position = mgl32.Vec3(cfg.Camera.Position)
	orbit := camera.NewOrbit(cam, OrbitConfig(cfg))

	s, err := scene.Assemble(sceneCfg, cam)
	if err != nil {
		return nil, fmt.Errorf("assembling scene: %w", err)
	}

	binder, err := params.NewBinder(sceneCfg.DayColor, sceneCfg.TwilightColor)
	if err != nil {
		return nil, err
	}
	if err := binder.Register(s.Globe.Uniforms, s.Atmosphere.Uniforms); err != nil {
		return nil, err
	}

	return &World{
		Camera:  cam,
		Orbit:   orbit,
		Scene:   s,
		Binder:  binder,
		Context: frame.NewContext(s, orbit, cfg.Globe.RotationRate),
	}, nil
}

// SceneConfig maps the config file onto the scene topology.
func SceneConfig(cfg *config.Config) (scene.Config, error) {
	day, err := uniform.ParseHex(cfg.Atmosphere.DayColor)
	if err != nil {
		return scene.Config{}, fmt.Errorf("atmosphere day color: %w", err)
	}
	twilight, err := uniform.ParseHex(cfg.Atmosphere.TwilightColor)
	if err != nil {
		return scene.Config{}, fmt.Errorf("atmosphere twilight color: %w", err)
	}

	fresnel := cfg.Atmosphere.FresnelPower
	if fresnel <= 0 {
		fresnel = shading.DefaultFresnelPower
	}
	return scene.Config{
		Radius:          cfg.Globe.Radius,
		WidthSegments:   cfg.Globe.WidthSegments,
		HeightSegments:  cfg.Globe.HeightSegments,
		AtmosphereScale: cfg.Globe.AtmosphereScale,
		SunDirection:    mgl32.Vec3(cfg.Globe.SunDirection),
		FresnelPower:    fresnel,
		DayColor:        day,
		TwilightColor:   twilight,
	}, nil
}

// OrbitConfig maps the config file onto the orbit controller.
func OrbitConfig(cfg *config.Config) camera.OrbitConfig {
	oc := camera.DefaultOrbitConfig()
	oc.MinDistance = cfg.Camera.MinDistance
	oc.MaxDistance = cfg.Camera.MaxDistance
	oc.Damping = cfg.Camera.Damping
	oc.RotateSpeed = cfg.Camera.RotateSpeed
	oc.ZoomSpeed = cfg.Camera.ZoomSpeed
	return oc
}

// TextureRequests lists the surface images to load.
func TextureRequests(cfg *config.Config) []texture.Request {
	return []texture.Request{
		{Key: uniform.DayTexture, Path: cfg.Textures.Day},
		{Key: uniform.NightTexture, Path: cfg.Textures.Night},
		{Key: uniform.SpecularCloudsTexture, Path: cfg.Textures.SpecularClouds},
	}
}

// BindTextures binds loaded textures to the globe. A failed load keeps the
// placeholder and is logged.
func (w *World) BindTextures(results []texture.Result) {
	for _, res := range results {
		if res.Err != nil {
			logger.Warn("texture load failed, keeping placeholder",
				zap.String("key", res.Key),
				zap.String("path", res.Path),
				zap.Error(res.Err),
			)
			continue
		}
		w.Scene.BindTexture(res.Key, res.Texture)
		logger.Info("texture bound", zap.String("key", res.Key), zap.String("path", res.Path))
	}
}

// Reload applies the live-tunable parts of a changed config: atmosphere
// colors, sun direction, fresnel power and rotation rate. Topology changes
// need a restart.
func (w *World) Reload(cfg *config.Config) {
	w.Binder.Apply(cfg.Atmosphere.DayColor, cfg.Atmosphere.TwilightColor)

	if sun := mgl32.Vec3(cfg.Globe.SunDirection); sun.Len() > 0 {
		w.Scene.SetSunDirection(sun)
	}
	if cfg.Atmosphere.FresnelPower > 0 {
		w.Scene.Atmosphere.Uniforms.SetScalar(shading.FresnelPowerKey, cfg.Atmosphere.FresnelPower)
	}
	w.Context.RotationRate = cfg.Globe.RotationRate
	logger.Info("config reloaded")
}
