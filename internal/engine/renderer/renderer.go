// Package renderer draws scene.RenderCommands with OpenGL 4.1.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/engine/framebuffer"
	"github.com/Faultbox/globe/internal/engine/scene"
	"github.com/Faultbox/globe/internal/engine/shader"
	"github.com/Faultbox/globe/internal/engine/shading"
	"github.com/Faultbox/globe/internal/engine/uniform"
	"github.com/Faultbox/globe/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width, Height int
	PixelRatio    float64
	// Samples is the MSAA sample count of the offscreen target; 0 or 1
	// renders single-sampled.
	Samples int
	// DrawableSize reports the window's framebuffer size in pixels.
	DrawableSize func() (width, height int)
}

// pixelSource is a texture the GPU can take as-is.
type pixelSource interface {
	Width() int
	Height() int
	FlippedPixels() []byte
}

type mesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// Renderer owns every GL object of the viewer.
type Renderer struct {
	config Config

	programs map[shading.Program]*shader.Program
	meshes   map[*scene.Geometry]*mesh
	textures map[uniform.Texture]uint32
	skipped  map[uniform.Texture]bool

	target *framebuffer.Framebuffer
	log    *zap.Logger
}

// New initializes GL and compiles both programs. It must be called after the
// GL context exists, on the thread that owns it. A program that fails to
// compile is logged and its draws are skipped.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		config:   cfg,
		meshes:   make(map[*scene.Geometry]*mesh),
		textures: make(map[uniform.Texture]uint32),
		skipped:  make(map[uniform.Texture]bool),
		log:      logger.Named("renderer"),
	}
	if r.config.PixelRatio <= 0 {
		r.config.PixelRatio = 1
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0, 0, 0, 1)

	r.programs = compilePrograms(shading.Programs, shader.Compile, r.log)
	if len(r.programs) == 0 {
		r.log.Error("no shader program compiled, frames will only be cleared")
	}

	w, h := r.targetSize()
	target, err := framebuffer.New(w, h, int32(cfg.Samples))
	if err != nil {
		r.Close()
		return nil, err
	}
	r.target = target
	r.log.Info("render target created",
		zap.Int32("width", w), zap.Int32("height", h), zap.Int32("samples", target.Samples()))
	return r, nil
}

type compileFunc func(name, vertex, fragment string) (*shader.Program, error)

// compilePrograms returns the programs that compiled. Failures are logged
// and left out so their draws are skipped.
func compilePrograms(programs []shading.Program, compile compileFunc, log *zap.Logger) map[shading.Program]*shader.Program {
	out := make(map[shading.Program]*shader.Program, len(programs))
	for _, p := range programs {
		vert, frag := p.Sources()
		prog, err := compile(p.String(), vert, frag)
		if err != nil {
			log.Error("shader program unavailable", zap.Stringer("program", p), zap.Error(err))
			continue
		}
		out[p] = prog
	}
	return out
}

// SetSize records the logical viewport size.
func (r *Renderer) SetSize(width, height int) {
	r.config.Width, r.config.Height = width, height
	r.resizeTarget()
}

// SetPixelRatio records the device-pixel ratio the frame is rendered at.
func (r *Renderer) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		return
	}
	r.config.PixelRatio = ratio
	r.resizeTarget()
}

func (r *Renderer) targetSize() (int32, int32) {
	return int32(float64(r.config.Width) * r.config.PixelRatio),
		int32(float64(r.config.Height) * r.config.PixelRatio)
}

func (r *Renderer) resizeTarget() {
	if r.target == nil {
		return
	}
	w, h := r.targetSize()
	r.target.Resize(w, h)
	r.log.Debug("render target resized", zap.Int32("width", w), zap.Int32("height", h))
}

// Submit draws one frame into the offscreen target and scales it onto the
// window.
func (r *Renderer) Submit(cmds scene.RenderCommands) error {
	r.target.Bind()
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	for _, d := range cmds.Draws {
		prog, ok := r.programs[d.Mesh.Program]
		if !ok {
			continue
		}
		m, err := r.meshFor(d.Mesh.Geometry)
		if err != nil {
			return err
		}

		applyState(d)
		prog.Use()
		prog.SetMat4("uModel", d.Model)
		prog.SetMat4("uView", cmds.View)
		prog.SetMat4("uProjection", cmds.Projection)
		prog.SetVec3("uCameraPosition", cmds.CameraPosition)
		r.bindUniforms(prog, d.Mesh.Uniforms)

		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	sw, sh := r.config.Width, r.config.Height
	if r.config.DrawableSize != nil {
		sw, sh = r.config.DrawableSize()
	}
	r.target.BlitToScreen(int32(sw), int32(sh))

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x in frame %d", e, cmds.Frame)
	}
	return nil
}

// ReadPixels returns the last frame as bottom-up RGBA rows and its size.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.target.Size()
	return r.target.ReadPixels(), int(w), int(h)
}

func applyState(d scene.DrawCommand) {
	gl.Enable(gl.CULL_FACE)
	if d.Cull == scene.FrontSide {
		gl.CullFace(gl.FRONT)
	} else {
		gl.CullFace(gl.BACK)
	}
	if d.Blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}
	gl.DepthMask(d.DepthWrite)
}

// bindUniforms uploads every value of set under its key name. Texture units
// are assigned in key order.
func (r *Renderer) bindUniforms(prog *shader.Program, set *uniform.Set) {
	var unit int32
	for _, key := range set.Keys() {
		v, _ := set.Get(key)
		switch v.Kind {
		case uniform.KindTexture:
			gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
			gl.BindTexture(gl.TEXTURE_2D, r.textureFor(v.Texture))
			prog.SetInt(key, unit)
			unit++
		case uniform.KindColor:
			prog.SetVec3(key, v.Color.Vec3())
		case uniform.KindVector:
			prog.SetVec3(key, v.Vector)
		case uniform.KindScalar:
			prog.SetFloat(key, v.Scalar)
		}
	}
}

// textureFor uploads tex on first use.
func (r *Renderer) textureFor(tex uniform.Texture) uint32 {
	if id, ok := r.textures[tex]; ok {
		return id
	}
	src, ok := tex.(pixelSource)
	if !ok {
		if !r.skipped[tex] {
			r.log.Warn("texture has no pixel data, drawing black", zap.String("texture", tex.Name()))
			r.skipped[tex] = true
		}
		return 0
	}

	pixels := src.FlippedPixels()
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(src.Width()), int32(src.Height()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	r.textures[tex] = id
	r.log.Debug("texture uploaded",
		zap.String("texture", tex.Name()),
		zap.Int("width", src.Width()),
		zap.Int("height", src.Height()),
	)
	return id
}

// meshFor uploads g on first use. Vertices are interleaved position, normal,
// uv at attribute locations 0, 1 and 2.
func (r *Renderer) meshFor(g *scene.Geometry) (*mesh, error) {
	if m, ok := r.meshes[g]; ok {
		return m, nil
	}
	if len(g.Indices) == 0 {
		return nil, fmt.Errorf("geometry has no triangles")
	}

	vertices := g.Interleaved()
	m := &mesh{count: int32(len(g.Indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, unsafe.Pointer(&g.Indices[0]), gl.STATIC_DRAW)

	const stride = 8 * 4
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.meshes[g] = m
	r.log.Debug("mesh uploaded",
		zap.Int("vertices", g.VertexCount()),
		zap.Int32("indices", m.count),
	)
	return m, nil
}

// Close releases all GL objects.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, m := range r.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
	}
	for _, id := range r.textures {
		gl.DeleteTextures(1, &id)
	}
	for _, p := range r.programs {
		p.Delete()
	}
	if r.target != nil {
		r.target.Destroy()
	}
}
