package uniform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Color is a linear RGB triple with channels in [0, 1].
type Color struct {
	R, G, B float32
}

// Vec3 returns the color as a vector for shader math.
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

// Valid reports whether every channel is finite and normalized.
func (c Color) Valid() bool {
	for _, v := range [3]float32{c.R, c.G, c.B} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) || v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	to8 := func(v float32) int { return int(math.Round(float64(v) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

// ParseHex parses "#rrggbb", "#rgb" or the same without the leading '#'.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
	}, nil
}
