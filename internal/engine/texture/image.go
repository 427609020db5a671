// Package texture decodes surface images and resolves them asynchronously
// into bindable textures.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"math"

	"github.com/go-gl/mathgl/mgl32"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Image is a decoded RGBA texture. Row 0 of Pix is the top of the picture;
// texture coordinate v=0 addresses the bottom row, as with a vertically
// flipped GL upload.
type Image struct {
	name string
	RGBA *image.RGBA
}

// New wraps an already decoded image.
func New(name string, img image.Image) *Image {
	return &Image{name: name, RGBA: ToRGBA(img)}
}

// Solid returns a 1x1 texture of a single color, used as a placeholder until
// the real asset arrives.
func Solid(name string, c color.RGBA) *Image {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return &Image{name: name, RGBA: img}
}

// Decode decodes PNG, JPEG, BMP, TIFF or WebP data.
func Decode(name string, data []byte) (*Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decoding %s: empty %s image", name, format)
	}
	return New(name, img), nil
}

// Name returns the resource name the texture was created from.
func (t *Image) Name() string { return t.name }

// Width returns the width in pixels.
func (t *Image) Width() int { return t.RGBA.Bounds().Dx() }

// Height returns the height in pixels.
func (t *Image) Height() int { return t.RGBA.Bounds().Dy() }

// Sample returns the bilinearly filtered color at (u, v) with repeat wrapping
// in u and clamping in v. Channels are in [0, 1].
func (t *Image) Sample(u, v float32) mgl32.Vec4 {
	w, h := t.Width(), t.Height()

	fx := wrap(u)*float32(w) - 0.5
	fy := (1-clamp01(v))*float32(h) - 0.5

	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	c00 := t.texel(x0, y0)
	c10 := t.texel(x0+1, y0)
	c01 := t.texel(x0, y0+1)
	c11 := t.texel(x0+1, y0+1)

	top := c00.Mul(1 - tx).Add(c10.Mul(tx))
	bottom := c01.Mul(1 - tx).Add(c11.Mul(tx))
	return top.Mul(1 - ty).Add(bottom.Mul(ty))
}

// texel reads one pixel, wrapping x and clamping y.
func (t *Image) texel(x, y int) mgl32.Vec4 {
	w, h := t.Width(), t.Height()
	x %= w
	if x < 0 {
		x += w
	}
	if y < 0 {
		y = 0
	} else if y >= h {
		y = h - 1
	}
	i := t.RGBA.PixOffset(t.RGBA.Rect.Min.X+x, t.RGBA.Rect.Min.Y+y)
	p := t.RGBA.Pix[i : i+4 : i+4]
	return mgl32.Vec4{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
}

// FlippedPixels returns the pixel rows bottom-up, the order glTexImage2D
// expects for v=0 at the bottom.
func (t *Image) FlippedPixels() []byte {
	w, h := t.Width(), t.Height()
	stride := w * 4
	out := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		src := t.RGBA.PixOffset(t.RGBA.Rect.Min.X, t.RGBA.Rect.Min.Y+y)
		copy(out[(h-1-y)*stride:(h-y)*stride], t.RGBA.Pix[src:src+stride])
	}
	return out
}

// ToRGBA converts any image to a zero-origin *image.RGBA.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

func wrap(u float32) float32 {
	u -= float32(math.Floor(float64(u)))
	return u
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
