package frame

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Faultbox/globe/internal/engine/camera"
	"github.com/Faultbox/globe/internal/engine/scene"
)

func newTestContext(t *testing.T, rate float32) *Context {
	t.Helper()
	cam := camera.New(25, 16.0/9, 0.1, 100)
	cam.Position[0], cam.Position[1], cam.Position[2] = 12, 5, 4
	s, err := scene.Assemble(scene.DefaultConfig(), cam)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return NewContext(s, camera.NewOrbit(cam, camera.DefaultOrbitConfig()), rate)
}

type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) source() TimeSource {
	return func() time.Duration { return c.now }
}

type countingSubmitter struct {
	frames []scene.RenderCommands
	err    error
}

func (s *countingSubmitter) Submit(cmds scene.RenderCommands) error {
	s.frames = append(s.frames, cmds)
	return s.err
}

func TestAdvanceAccumulatesElapsed(t *testing.T) {
	ctx := newTestContext(t, 0.1)
	deltas := []time.Duration{16 * time.Millisecond, 17 * time.Millisecond, 0, 33 * time.Millisecond, 250 * time.Millisecond}

	var sum time.Duration
	for _, d := range deltas {
		sum += d
		cmds := ctx.Advance(d)
		if cmds.Elapsed != sum {
			t.Fatalf("elapsed %v, want %v", cmds.Elapsed, sum)
		}
	}
	if got := ctx.Clock().Ticks; got != uint64(len(deltas)) {
		t.Errorf("ticks = %d, want %d", got, len(deltas))
	}
}

func TestAdvanceRotationFollowsElapsed(t *testing.T) {
	ctx := newTestContext(t, 0.1)
	for i := 0; i < 100; i++ {
		ctx.Advance(10 * time.Millisecond)
	}

	want := float32(0.1)
	got := ctx.Scene.Globe.Rotation
	if math.Abs(float64(got-want)) > 1e-5 {
		t.Errorf("rotation after 1s = %v, want %v", got, want)
	}
}

func TestAdvanceRotationIndependentOfStepSize(t *testing.T) {
	coarse := newTestContext(t, 0.1)
	fine := newTestContext(t, 0.1)

	coarse.Advance(2 * time.Second)
	for i := 0; i < 120; i++ {
		fine.Advance(2 * time.Second / 120)
	}
	a, b := coarse.Scene.Globe.Rotation, fine.Scene.Globe.Rotation
	if math.Abs(float64(a-b)) > 1e-5 {
		t.Errorf("rotation differs by step size: %v vs %v", a, b)
	}
}

func TestAdvanceIgnoresNegativeDelta(t *testing.T) {
	ctx := newTestContext(t, 0.1)
	ctx.Advance(time.Second)
	cmds := ctx.Advance(-500 * time.Millisecond)
	if cmds.Elapsed != time.Second {
		t.Errorf("elapsed %v after negative delta, want 1s", cmds.Elapsed)
	}
	if ctx.Clock().Delta != 0 {
		t.Errorf("delta %v, want 0", ctx.Clock().Delta)
	}
}

func TestAdvanceOnlySpinsGlobe(t *testing.T) {
	ctx := newTestContext(t, 0.1)
	cmds := ctx.Advance(3 * time.Second)
	if ctx.Scene.Atmosphere.Rotation != 0 {
		t.Errorf("atmosphere rotated: %v", ctx.Scene.Atmosphere.Rotation)
	}
	if len(cmds.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(cmds.Draws))
	}
}

func TestDriverSubmitsOncePerTick(t *testing.T) {
	ctx := newTestContext(t, 0.1)
	clock := &fakeClock{now: 5 * time.Second}
	sub := &countingSubmitter{}
	d := NewDriver(ctx, sub, nil, clock.source())

	for i := 0; i < 10; i++ {
		d.Tick()
		clock.now += 16 * time.Millisecond
	}
	if len(sub.frames) != 10 {
		t.Fatalf("submitted %d frames, want 10", len(sub.frames))
	}
	for i, f := range sub.frames {
		if f.Frame != uint64(i+1) {
			t.Errorf("frame %d numbered %d", i, f.Frame)
		}
	}
}

func TestDriverFirstTickHasZeroDelta(t *testing.T) {
	ctx := newTestContext(t, 0.1)
	clock := &fakeClock{now: time.Hour}
	d := NewDriver(ctx, nil, nil, clock.source())

	cmds := d.Tick()
	if cmds.Elapsed != 0 {
		t.Errorf("first tick elapsed %v, want 0", cmds.Elapsed)
	}

	clock.now += 40 * time.Millisecond
	cmds = d.Tick()
	if cmds.Elapsed != 40*time.Millisecond {
		t.Errorf("second tick elapsed %v, want 40ms", cmds.Elapsed)
	}
}

func TestDriverKeepsGoingAfterSubmitError(t *testing.T) {
	ctx := newTestContext(t, 0.1)
	clock := &fakeClock{}
	sub := &countingSubmitter{err: errors.New("device lost")}
	d := NewDriver(ctx, sub, nil, clock.source())

	d.Tick()
	clock.now += time.Millisecond
	d.Tick()
	if len(sub.frames) != 2 {
		t.Errorf("submitted %d frames, want 2", len(sub.frames))
	}
}

type scriptedHost struct {
	remaining int
	presented int
}

func (h *scriptedHost) PumpEvents() bool {
	if h.remaining == 0 {
		return true
	}
	h.remaining--
	return false
}

func (h *scriptedHost) Present() { h.presented++ }

func TestDriverRunStopsOnQuit(t *testing.T) {
	ctx := newTestContext(t, 0.1)
	clock := &fakeClock{}
	sub := &countingSubmitter{}
	host := &scriptedHost{remaining: 4}

	NewDriver(ctx, sub, host, clock.source()).Run()

	if len(sub.frames) != 4 || host.presented != 4 {
		t.Errorf("frames=%d presented=%d, want 4 each", len(sub.frames), host.presented)
	}
}
