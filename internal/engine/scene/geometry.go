package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is an indexed UV sphere. It is built once and never modified;
// meshes share it by pointer.
type Geometry struct {
	Radius         float32
	WidthSegments  int
	HeightSegments int

	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

// NewSphere builds a sphere with the same vertex layout as the common WebGL
// sphere primitive: u runs with longitude, v=1 at the north pole, and the seam
// vertices are duplicated so the texture wraps cleanly.
func NewSphere(radius float32, widthSegments, heightSegments int) *Geometry {
	g := &Geometry{
		Radius:         radius,
		WidthSegments:  widthSegments,
		HeightSegments: heightSegments,
	}

	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		theta := float64(v) * math.Pi
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			phi := float64(u) * 2 * math.Pi

			n := mgl32.Vec3{
				float32(-math.Cos(phi) * math.Sin(theta)),
				float32(math.Cos(theta)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			g.Normals = append(g.Normals, n)
			g.Positions = append(g.Positions, n.Mul(radius))
			g.UVs = append(g.UVs, mgl32.Vec2{u, 1 - v})
		}
	}

	stride := uint32(widthSegments + 1)
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(iy)*stride + uint32(ix) + 1
			b := uint32(iy)*stride + uint32(ix)
			c := uint32(iy+1)*stride + uint32(ix)
			d := uint32(iy+1)*stride + uint32(ix) + 1

			// The pole rows collapse to points; skip their degenerate triangles.
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int { return len(g.Positions) }

// Interleaved packs position, normal and uv per vertex (8 floats) for upload.
func (g *Geometry) Interleaved() []float32 {
	out := make([]float32, 0, len(g.Positions)*8)
	for i := range g.Positions {
		p, n, uv := g.Positions[i], g.Normals[i], g.UVs[i]
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	return out
}

// UVAt returns the texture coordinate of a point on the unit sphere given in
// the sphere's own frame, matching the vertex layout of NewSphere.
func UVAt(n mgl32.Vec3) mgl32.Vec2 {
	theta := math.Acos(float64(mgl32.Clamp(n[1], -1, 1)))
	phi := math.Atan2(float64(n[2]), float64(-n[0]))
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return mgl32.Vec2{float32(phi / (2 * math.Pi)), float32(1 - theta/math.Pi)}
}
