// Package raster is a CPU renderer for scene.RenderCommands. It casts one ray
// per pixel against the analytic spheres behind each mesh and shades hits with
// the same color models the GPU programs use. It backs headless snapshots and
// lets tests check whole frames without a display.
package raster

import (
	"errors"
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/globe/internal/engine/picking"
	"github.com/Faultbox/globe/internal/engine/scene"
	"github.com/Faultbox/globe/internal/engine/shading"
	"github.com/Faultbox/globe/internal/engine/uniform"
)

// ErrSingularCamera is returned for frames whose view-projection cannot be
// inverted.
var ErrSingularCamera = errors.New("view-projection matrix is not invertible")

const tMin = 1e-4

// Renderer draws frames into an RGBA image.
type Renderer struct {
	img        *image.RGBA
	background mgl32.Vec3
	workers    int
}

// New creates a renderer with a black background.
func New(width, height int) *Renderer {
	return &Renderer{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		workers: runtime.NumCPU(),
	}
}

// SetBackground sets the clear color.
func (r *Renderer) SetBackground(c uniform.Color) { r.background = c.Vec3() }

// Image returns the last rendered frame.
func (r *Renderer) Image() *image.RGBA { return r.img }

// SetSize reallocates the target. Invalid sizes are ignored.
func (r *Renderer) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b := r.img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return
	}
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// SetPixelRatio is a no-op; the image is always sized in device pixels.
func (r *Renderer) SetPixelRatio(float64) {}

// Submit renders cmds. Rows are split across workers.
func (r *Renderer) Submit(cmds scene.RenderCommands) error {
	viewProj := cmds.Projection.Mul4(cmds.View)
	if viewProj.Det() == 0 {
		return ErrSingularCamera
	}
	inv := viewProj.Inv()

	width, height := r.img.Bounds().Dx(), r.img.Bounds().Dy()
	draws := prepare(cmds.Draws)

	rows := make(chan int, height)
	for y := 0; y < height; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	for w := 0; w < max(r.workers, 1); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				for x := 0; x < width; x++ {
					ray := picking.ScreenToRay(float32(x)+0.5, float32(y)+0.5, float32(width), float32(height), inv)
					c := r.shadePixel(ray, cmds.CameraPosition, draws)
					r.img.SetRGBA(x, y, toRGBA(c))
				}
			}
		}()
	}
	wg.Wait()
	return nil
}

// draw is a DrawCommand resolved to what the ray caster needs.
type draw struct {
	cmd      scene.DrawCommand
	radius   float32
	toObject mgl32.Mat4
}

func prepare(cmds []scene.DrawCommand) []draw {
	out := make([]draw, 0, len(cmds))
	for _, c := range cmds {
		if c.Mesh == nil || c.Mesh.Geometry == nil {
			continue
		}
		out = append(out, draw{
			cmd:      c,
			radius:   c.Mesh.Geometry.Radius * c.Mesh.Scale,
			toObject: mgl32.HomogRotate3DY(-c.Mesh.Rotation),
		})
	}
	return out
}

// shadePixel runs every draw in order against one ray with a depth test and
// source-over blending, the way the GPU pipeline would.
func (r *Renderer) shadePixel(ray picking.Ray, eye mgl32.Vec3, draws []draw) mgl32.Vec3 {
	dst := r.background
	depth := float32(math.MaxFloat32)

	for _, d := range draws {
		var t float32
		var ok bool
		if d.cmd.Cull == scene.BackSide {
			t, ok = ray.IntersectFront(d.radius, tMin)
		} else {
			t, ok = ray.IntersectBack(d.radius, tMin)
		}
		if !ok || t >= depth {
			continue
		}

		p := ray.At(t)
		normal := p.Normalize()
		view := eye.Sub(p).Normalize()
		set := d.cmd.Mesh.Uniforms
		sun := set.Vector(uniform.SunDirection)

		switch d.cmd.Mesh.Program {
		case shading.ProgramSurface:
			local := mgl32.TransformNormal(normal, d.toObject).Normalize()
			c := shading.Surface(shading.SurfaceInput{
				Normal: normal,
				Sun:    sun,
				View:   view,
				UV:     scene.UVAt(local),
			}, set)
			dst = blend(dst, c.Vec4(1), d.cmd.Blend)
		case shading.ProgramAtmosphere:
			c := shading.Atmosphere(shading.AtmosphereInput{
				Normal: normal,
				Sun:    sun,
				View:   view,
			}, set)
			dst = blend(dst, c, d.cmd.Blend)
		default:
			continue
		}
		if d.cmd.DepthWrite {
			depth = t
		}
	}
	return dst
}

func blend(dst mgl32.Vec3, src mgl32.Vec4, enabled bool) mgl32.Vec3 {
	if !enabled {
		return src.Vec3()
	}
	a := src[3]
	return src.Vec3().Mul(a).Add(dst.Mul(1 - a))
}

func toRGBA(c mgl32.Vec3) color.RGBA {
	return color.RGBA{R: channel(c[0]), G: channel(c[1]), B: channel(c[2]), A: 255}
}

func channel(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}
