package headless

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"testing"
	"time"

	"github.com/Faultbox/globe/internal/config"
	"github.com/Faultbox/globe/internal/engine/scene"
	"github.com/Faultbox/globe/internal/world"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Snapshot.Width = 48
	cfg.Snapshot.Height = 27
	cfg.Globe.WidthSegments = 8
	cfg.Globe.HeightSegments = 6
	return cfg
}

func solidPNG(c color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func TestRenderSize(t *testing.T) {
	cfg := smallConfig()
	missing := func(string) ([]byte, error) { return nil, os.ErrNotExist }

	img, err := Render(cfg, 0, missing)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 27 {
		t.Errorf("bounds = %v, want 48x27", b)
	}
}

func TestRenderDrawsGlobeInCenter(t *testing.T) {
	cfg := smallConfig()
	green := solidPNG(color.RGBA{G: 255, A: 255})
	read := func(path string) ([]byte, error) {
		if path == cfg.Textures.Day {
			return green, nil
		}
		return solidPNG(color.RGBA{A: 255}), nil
	}

	img, err := Render(cfg, 3*time.Second, read)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	center := img.RGBAAt(24, 13)
	if center.G < 100 || center.R > center.G {
		t.Errorf("center = %v, want the green day side", center)
	}
	if corner := img.RGBAAt(0, 0); corner.R+corner.G+corner.B != 0 {
		t.Errorf("corner = %v, want black", corner)
	}
}

func TestRenderRejectsEmptySize(t *testing.T) {
	cfg := smallConfig()
	cfg.Snapshot.Width = 0
	if _, err := Render(cfg, 0, nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

// countingTarget records every frame it is asked to draw.
type countingTarget struct {
	frames []scene.RenderCommands
}

func (c *countingTarget) Submit(cmds scene.RenderCommands) error {
	c.frames = append(c.frames, cmds)
	return nil
}

func TestRenderAtSubmitsOneFrame(t *testing.T) {
	cfg := smallConfig()
	w, err := world.Build(cfg, 16.0/9.0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	target := &countingTarget{}

	cmds, err := renderAt(w.Context, target, 5*time.Second)
	if err != nil {
		t.Fatalf("renderAt: %v", err)
	}
	if len(target.frames) != 1 {
		t.Fatalf("submitted %d frames, want 1", len(target.frames))
	}
	if cmds.Elapsed != 5*time.Second {
		t.Errorf("elapsed = %v, want 5s", cmds.Elapsed)
	}
	want := 5 * cfg.Globe.RotationRate
	if got := w.Scene.Globe.Rotation; math.Abs(float64(got-want)) > 1e-5 {
		t.Errorf("rotation = %v, want %v", got, want)
	}
}
