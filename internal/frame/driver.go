package frame

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/engine/scene"
	"github.com/Faultbox/globe/internal/logger"
)

// TimeSource returns a monotonic timestamp. Only differences are used.
type TimeSource func() time.Duration

// MonotonicSince returns a TimeSource measuring from start using the
// monotonic reading of time.Now.
func MonotonicSince(start time.Time) TimeSource {
	return func() time.Duration { return time.Since(start) }
}

// Submitter draws a frame.
type Submitter interface {
	Submit(cmds scene.RenderCommands) error
}

// Host is the windowing side of the loop. PumpEvents handles pending input
// and reports whether the viewer should stop; Present shows the frame and
// blocks until the next refresh when vsync is on.
type Host interface {
	PumpEvents() (quit bool)
	Present()
}

// Driver owns the tick loop.
type Driver struct {
	ctx    *Context
	submit Submitter
	host   Host
	now    TimeSource

	started bool
	last    time.Duration

	fpsFrames int
	fpsStart  time.Duration
}

// NewDriver creates a driver. host may be nil when ticks are driven manually.
func NewDriver(ctx *Context, submit Submitter, host Host, now TimeSource) *Driver {
	return &Driver{ctx: ctx, submit: submit, host: host, now: now}
}

// Tick runs exactly one frame: sample the clock, advance, submit.
// A failed submission is logged and does not stop the loop.
func (d *Driver) Tick() scene.RenderCommands {
	now := d.now()
	var delta time.Duration
	if d.started {
		delta = now - d.last
	} else {
		d.started = true
		d.fpsStart = now
	}
	d.last = now

	cmds := d.ctx.Advance(delta)
	if d.submit != nil {
		if err := d.submit.Submit(cmds); err != nil {
			logger.Error("frame submission failed", zap.Uint64("frame", cmds.Frame), zap.Error(err))
		}
	}

	d.fpsFrames++
	if now-d.fpsStart >= time.Second {
		logger.Debug("fps", zap.Int("frames", d.fpsFrames), zap.Duration("dt", delta))
		d.fpsFrames = 0
		d.fpsStart = now
	}
	return cmds
}

// Run ticks until the host asks to quit. Each iteration pumps events, draws
// one frame and presents it.
func (d *Driver) Run() {
	logger.Info("starting render loop")
	for !d.host.PumpEvents() {
		d.Tick()
		d.host.Present()
	}
	logger.Info("render loop stopped", zap.Uint64("frames", d.ctx.Clock().Ticks))
}
