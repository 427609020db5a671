package viewport

import (
	"errors"
	"testing"

	"github.com/Faultbox/globe/internal/engine/camera"
)

type fakeSurface struct {
	width, height int
	ratio         float64
	calls         int
}

func (s *fakeSurface) SetSize(w, h int)        { s.width, s.height = w, h; s.calls++ }
func (s *fakeSurface) SetPixelRatio(r float64) { s.ratio = r }

type fakeDisplay struct {
	fullscreen bool
	err        error
}

func (d *fakeDisplay) IsFullscreen() bool { return d.fullscreen }
func (d *fakeDisplay) SetFullscreen(on bool) error {
	if d.err != nil {
		return d.err
	}
	d.fullscreen = on
	return nil
}

func newReactor() (*Reactor, *camera.Camera, *fakeSurface, *fakeDisplay) {
	cam := camera.New(25, 1, 0.1, 100)
	surface := &fakeSurface{}
	display := &fakeDisplay{}
	return New(cam, surface, display, 2), cam, surface, display
}

func TestResizeUpdatesAspectOnly(t *testing.T) {
	r, cam, surface, _ := newReactor()

	if !r.Resize(1920, 1080, 1) {
		t.Fatal("expected a change")
	}
	if cam.Aspect != float32(1920)/float32(1080) {
		t.Errorf("aspect = %v, want %v", cam.Aspect, float32(1920)/float32(1080))
	}
	if cam.FOV != 25 || cam.Near != 0.1 || cam.Far != 100 {
		t.Errorf("fov/near/far changed: %v %v %v", cam.FOV, cam.Near, cam.Far)
	}
	if surface.width != 1920 || surface.height != 1080 {
		t.Errorf("surface = %dx%d", surface.width, surface.height)
	}

	proj := cam.Projection()
	if want := proj[5] / cam.Aspect; proj[0] != want {
		t.Errorf("projection x scale = %v, want %v", proj[0], want)
	}
}

func TestResizeIgnoresInvalid(t *testing.T) {
	r, cam, surface, _ := newReactor()
	r.Resize(800, 600, 1)
	aspect, proj := cam.Aspect, cam.Projection()

	for _, c := range []struct {
		w, h int
		d    float64
	}{
		{0, 600, 1},
		{800, 0, 1},
		{-5, 600, 1},
		{800, 600, 0},
		{800, 600, -1},
	} {
		if r.Resize(c.w, c.h, c.d) {
			t.Errorf("Resize(%d, %d, %v) reported a change", c.w, c.h, c.d)
		}
	}
	if cam.Aspect != aspect || cam.Projection() != proj {
		t.Error("invalid resize altered the projection")
	}
	if surface.calls != 1 {
		t.Errorf("surface resized %d times, want 1", surface.calls)
	}
}

func TestResizeIdempotent(t *testing.T) {
	r, _, surface, _ := newReactor()
	r.Resize(640, 480, 1)
	if r.Resize(640, 480, 1) {
		t.Error("same size should not report a change")
	}
	if surface.calls != 1 {
		t.Errorf("surface resized %d times, want 1", surface.calls)
	}
}

func TestPixelRatioCapped(t *testing.T) {
	r, _, surface, _ := newReactor()
	r.Resize(640, 480, 3)
	if surface.ratio != 2 {
		t.Errorf("ratio = %v, want capped at 2", surface.ratio)
	}
	if _, _, ratio := r.Size(); ratio != 2 {
		t.Errorf("Size ratio = %v", ratio)
	}
}

func TestToggleFullscreenTwiceRestores(t *testing.T) {
	r, _, _, display := newReactor()

	if err := r.ToggleFullscreen(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !display.fullscreen {
		t.Error("first toggle should enter fullscreen")
	}
	if err := r.ToggleFullscreen(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if display.fullscreen {
		t.Error("second toggle should return to windowed mode")
	}
}

func TestToggleFullscreenError(t *testing.T) {
	r, _, _, display := newReactor()
	display.err = errors.New("denied")
	if err := r.ToggleFullscreen(); err == nil {
		t.Error("expected error to propagate")
	}
	if display.fullscreen {
		t.Error("mode changed despite error")
	}
}
