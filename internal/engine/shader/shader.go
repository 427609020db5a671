// Package shader compiles GLSL programs and caches their uniform locations.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/logger"
)

// Program is a linked shader program.
type Program struct {
	ID   uint32
	name string

	locations map[string]int32
}

// Compile compiles vertex and fragment sources and links them.
func Compile(name, vertexSrc, fragmentSrc string) (*Program, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(id, logLen, nil, &log[0])
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("%s: link: %s", name, gl.GoStr(&log[0]))
	}

	logger.Debug("shader program linked", zap.String("program", name), zap.Uint32("id", id))
	return &Program{ID: id, name: name, locations: make(map[string]int32)}, nil
}

func compileShader(source string, shaderType uint32, stage string) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(sh, logLen, nil, &log[0])
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("%s shader: %s", stage, gl.GoStr(&log[0]))
	}
	return sh, nil
}

// Name returns the program's name.
func (p *Program) Name() string { return p.name }

// Use binds the program.
func (p *Program) Use() { gl.UseProgram(p.ID) }

// Location returns the location of a uniform, or -1 when the program does not
// use it. Lookups are cached.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	if loc < 0 {
		logger.Debug("inactive uniform", zap.String("program", p.name), zap.String("uniform", name))
	}
	p.locations[name] = loc
	return loc
}

// SetMat4 sets a mat4 uniform on the bound program.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.Location(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// SetVec3 sets a vec3 uniform on the bound program.
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.Location(name); loc >= 0 {
		gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

// SetFloat sets a float uniform on the bound program.
func (p *Program) SetFloat(name string, v float32) {
	if loc := p.Location(name); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

// SetInt sets an int or sampler uniform on the bound program.
func (p *Program) SetInt(name string, v int32) {
	if loc := p.Location(name); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}
