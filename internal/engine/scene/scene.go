// Package scene assembles the fixed globe scene: a textured sphere, a
// concentric atmosphere shell sharing its geometry, one directional light and
// the camera.
package scene

import (
	"fmt"
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/globe/internal/engine/camera"
	"github.com/Faultbox/globe/internal/engine/lighting"
	"github.com/Faultbox/globe/internal/engine/shading"
	"github.com/Faultbox/globe/internal/engine/texture"
	"github.com/Faultbox/globe/internal/engine/uniform"
)

// Side selects which faces of a mesh are rasterized.
type Side int

const (
	FrontSide Side = iota
	BackSide
)

// Mesh is one drawable object of the scene.
type Mesh struct {
	Name     string
	Geometry *Geometry
	Program  shading.Program
	Uniforms *uniform.Set

	Scale    float32
	Rotation float32 // around the Y axis, radians

	Side        Side
	Transparent bool
}

// ModelMatrix returns the object-to-world transform.
func (m *Mesh) ModelMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(m.Rotation).Mul4(mgl32.Scale3D(m.Scale, m.Scale, m.Scale))
}

// Light is a directional light. Direction points from the scene toward the
// light and is unit length.
type Light struct {
	Direction mgl32.Vec3
}

// Config describes the scene topology.
type Config struct {
	Radius          float32
	WidthSegments   int
	HeightSegments  int
	AtmosphereScale float32
	SunDirection    mgl32.Vec3
	FresnelPower    float32
	DayColor        uniform.Color
	TwilightColor   uniform.Color
}

// DefaultConfig returns the stock earth scene.
func DefaultConfig() Config {
	return Config{
		Radius:          2,
		WidthSegments:   64,
		HeightSegments:  64,
		AtmosphereScale: 1.04,
		SunDirection:    lighting.DefaultSunDirection(),
		FresnelPower:    shading.DefaultFresnelPower,
		DayColor:        uniform.Color{R: 0, G: 170.0 / 255, B: 1},
		TwilightColor:   uniform.Color{R: 1, G: 102.0 / 255, B: 0},
	}
}

// Placeholder colors bound until the real textures load: a neutral day side
// and no lights, specular or clouds.
var (
	placeholderDay   = color.RGBA{R: 40, G: 60, B: 90, A: 255}
	placeholderBlack = color.RGBA{A: 255}
)

// Scene holds every entity of the render. It is created once at startup.
type Scene struct {
	Geometry   *Geometry
	Globe      *Mesh
	Atmosphere *Mesh
	Sun        Light
	Camera     *camera.Camera

	frame uint64
}

// Assemble builds the globe, the shell and the light around cam.
func Assemble(cfg Config, cam *camera.Camera) (*Scene, error) {
	geometry := NewSphere(cfg.Radius, cfg.WidthSegments, cfg.HeightSegments)

	globe := &Mesh{
		Name:     "globe",
		Geometry: geometry,
		Program:  shading.ProgramSurface,
		Uniforms: uniform.NewSet("globe"),
		Scale:    1,
		Side:     FrontSide,
	}
	globe.Uniforms.SetTexture(uniform.DayTexture, texture.Solid("placeholder-day", placeholderDay))
	globe.Uniforms.SetTexture(uniform.NightTexture, texture.Solid("placeholder-night", placeholderBlack))
	globe.Uniforms.SetTexture(uniform.SpecularCloudsTexture, texture.Solid("placeholder-mask", placeholderBlack))

	atmosphere := &Mesh{
		Name:        "atmosphere",
		Geometry:    geometry,
		Program:     shading.ProgramAtmosphere,
		Uniforms:    uniform.NewSet("atmosphere"),
		Scale:       cfg.AtmosphereScale,
		Side:        BackSide,
		Transparent: true,
	}
	atmosphere.Uniforms.SetScalar(shading.FresnelPowerKey, cfg.FresnelPower)

	s := &Scene{
		Geometry:   geometry,
		Globe:      globe,
		Atmosphere: atmosphere,
		Camera:     cam,
	}
	s.SetSunDirection(cfg.SunDirection)

	for _, m := range s.Meshes() {
		if err := m.Uniforms.SetColor(uniform.AtmosphereDayColor, cfg.DayColor); err != nil {
			return nil, err
		}
		if err := m.Uniforms.SetColor(uniform.AtmosphereTwilightColor, cfg.TwilightColor); err != nil {
			return nil, err
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Meshes returns the meshes in draw order: opaque first, then transparent.
func (s *Scene) Meshes() []*Mesh {
	return []*Mesh{s.Globe, s.Atmosphere}
}

// Validate checks that every mesh has the uniforms its program reads.
func (s *Scene) Validate() error {
	for _, m := range s.Meshes() {
		if err := m.Uniforms.Require(m.Program.Requirements()); err != nil {
			return fmt.Errorf("mesh %s: %w", m.Name, err)
		}
	}
	return nil
}

// SetSunDirection points the light and updates both uniform sets.
func (s *Scene) SetSunDirection(dir mgl32.Vec3) {
	s.Sun.Direction = dir.Normalize()
	for _, m := range s.Meshes() {
		m.Uniforms.SetVector(uniform.SunDirection, s.Sun.Direction)
	}
}

// BindTexture binds a loaded surface texture to the globe.
func (s *Scene) BindTexture(key string, tex uniform.Texture) {
	s.Globe.Uniforms.SetTexture(key, tex)
}

// SetGlobeRotation sets the globe's spin around Y.
func (s *Scene) SetGlobeRotation(angle float32) {
	s.Globe.Rotation = angle
}

// DrawCommand is one mesh draw with the state it needs.
type DrawCommand struct {
	Mesh       *Mesh
	Model      mgl32.Mat4
	Cull       Side // faces that are discarded
	Blend      bool
	DepthWrite bool
}

// RenderCommands is a complete, self-contained description of one frame.
type RenderCommands struct {
	Frame          uint64
	Elapsed        time.Duration
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	CameraPosition mgl32.Vec3
	Sun            mgl32.Vec3
	Draws          []DrawCommand
}

// Commands snapshots the current state of the scene into a frame.
func (s *Scene) Commands(elapsed time.Duration) RenderCommands {
	s.frame++
	cmds := RenderCommands{
		Frame:          s.frame,
		Elapsed:        elapsed,
		View:           s.Camera.ViewMatrix(),
		Projection:     s.Camera.Projection(),
		CameraPosition: s.Camera.Position,
		Sun:            s.Sun.Direction,
		Draws:          make([]DrawCommand, 0, 2),
	}
	for _, m := range s.Meshes() {
		cull := BackSide
		if m.Side == BackSide {
			cull = FrontSide
		}
		cmds.Draws = append(cmds.Draws, DrawCommand{
			Mesh:       m,
			Model:      m.ModelMatrix(),
			Cull:       cull,
			Blend:      m.Transparent,
			DepthWrite: !m.Transparent,
		})
	}
	return cmds
}
