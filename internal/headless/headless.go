// Package headless renders single frames of the globe without a display.
package headless

import (
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/config"
	"github.com/Faultbox/globe/internal/engine/scene"
	"github.com/Faultbox/globe/internal/engine/texture"
	"github.com/Faultbox/globe/internal/frame"
	"github.com/Faultbox/globe/internal/logger"
	"github.com/Faultbox/globe/internal/raster"
	"github.com/Faultbox/globe/internal/viewport"
	"github.com/Faultbox/globe/internal/world"
)

// Render loads the textures, advances the world to at and rasterizes one
// frame of cfg.Snapshot.Width by cfg.Snapshot.Height pixels. read may be nil
// to read textures from disk.
func Render(cfg *config.Config, at time.Duration, read texture.ReadFunc) (*image.RGBA, error) {
	width, height := cfg.Snapshot.Width, cfg.Snapshot.Height
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: snapshot size %dx%d", config.ErrInvalid, width, height)
	}

	w, err := world.Build(cfg, float32(width)/float32(height))
	if err != nil {
		return nil, err
	}

	loader := texture.NewLoader(read)
	loader.Load(world.TextureRequests(cfg)...)
	loader.Wait()
	w.BindTextures(loader.Poll())

	target := raster.New(width, height)
	viewport.New(w.Camera, target, nil, 0).Resize(width, height, 1)

	cmds, err := renderAt(w.Context, target, at)
	if err != nil {
		return nil, err
	}

	logger.Info("snapshot rendered",
		zap.Duration("elapsed", cmds.Elapsed),
		zap.Float32("rotation", w.Scene.Globe.Rotation),
		zap.Int("width", width),
		zap.Int("height", height),
	)
	return target.Image(), nil
}

// renderAt advances ctx by at in one step and submits that single frame. The
// orbit starts settled, so no intermediate ticks are needed.
func renderAt(ctx *frame.Context, target frame.Submitter, at time.Duration) (scene.RenderCommands, error) {
	cmds := ctx.Advance(at)
	if err := target.Submit(cmds); err != nil {
		return cmds, fmt.Errorf("rasterizing frame at %v: %w", at, err)
	}
	return cmds, nil
}
