package shading

import (
	"fmt"

	"github.com/Faultbox/globe/internal/engine/shading/shaders"
	"github.com/Faultbox/globe/internal/engine/uniform"
)

// Program identifies one of the two shader programs of the scene.
type Program int

const (
	ProgramSurface Program = iota
	ProgramAtmosphere
)

// Programs lists every program in draw order.
var Programs = []Program{ProgramSurface, ProgramAtmosphere}

func (p Program) String() string {
	switch p {
	case ProgramSurface:
		return "surface"
	case ProgramAtmosphere:
		return "atmosphere"
	default:
		return fmt.Sprintf("Program(%d)", int(p))
	}
}

// Sources returns the vertex and fragment GLSL of the program.
func (p Program) Sources() (vertex, fragment string) {
	switch p {
	case ProgramAtmosphere:
		return shaders.AtmosphereVertexShader, shaders.AtmosphereFragmentShader
	default:
		return shaders.SurfaceVertexShader, shaders.SurfaceFragmentShader
	}
}

// Requirements returns the uniforms the program needs bound before it draws.
func (p Program) Requirements() []uniform.Requirement {
	if p == ProgramAtmosphere {
		return AtmosphereRequirements
	}
	return SurfaceRequirements
}
