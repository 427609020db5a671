// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SurfaceVertexShader is the vertex shader for the globe.
//
//go:embed surface.vert
var SurfaceVertexShader string

// SurfaceFragmentShader blends the day, night and cloud layers of the globe.
//
//go:embed surface.frag
var SurfaceFragmentShader string

// AtmosphereVertexShader is the vertex shader for the atmosphere shell.
//
//go:embed atmosphere.vert
var AtmosphereVertexShader string

// AtmosphereFragmentShader shades the far side of the atmosphere shell.
//
//go:embed atmosphere.frag
var AtmosphereFragmentShader string
