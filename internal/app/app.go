// Package app runs the interactive globe viewer in an SDL2 window.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/config"
	"github.com/Faultbox/globe/internal/engine/input"
	"github.com/Faultbox/globe/internal/engine/renderer"
	"github.com/Faultbox/globe/internal/engine/texture"
	"github.com/Faultbox/globe/internal/engine/window"
	"github.com/Faultbox/globe/internal/events"
	"github.com/Faultbox/globe/internal/frame"
	"github.com/Faultbox/globe/internal/logger"
	"github.com/Faultbox/globe/internal/snapshot"
	"github.com/Faultbox/globe/internal/viewport"
	"github.com/Faultbox/globe/internal/world"
)

const title = "Globe"

// App is the viewer instance.
type App struct {
	config *config.Config

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	world    *world.World
	reactor  *viewport.Reactor
	router   *events.Router
	loader   *texture.Loader
	watcher  *config.Watcher
	snapshot *snapshot.Writer
	driver   *frame.Driver
}

// New creates the window, the GL renderer and the scene. configPath is
// watched for changes when watch is set.
func New(cfg *config.Config, configPath string, watch bool) (*App, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	a := &App{config: cfg}

	var err error
	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	width, height := a.window.Size()
	a.renderer, err = renderer.New(renderer.Config{
		Width:        width,
		Height:       height,
		PixelRatio:   1,
		Samples:      cfg.Graphics.MSAA,
		DrawableSize: a.window.DrawableSize,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.world, err = world.Build(cfg, float32(width)/float32(height))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.reactor = viewport.New(a.world.Camera, a.renderer, a.window, cfg.Graphics.MaxPixelRatio)
	a.reactor.Resize(width, height, a.window.Density())
	a.router = events.NewRouter(a.world.Orbit, a.reactor)
	a.input = input.New(a.window.Density)

	a.loader = texture.NewLoader(nil)
	a.loader.Load(world.TextureRequests(cfg)...)

	if watch && configPath != "" {
		a.watcher, err = config.Watch(configPath)
		if err != nil {
			logger.Warn("config watching disabled", zap.String("path", configPath), zap.Error(err))
		} else {
			logger.Info("watching config", zap.String("path", configPath))
		}
	}

	a.snapshot = snapshot.NewWriter(cfg.Snapshot.OutputDir, "globe")
	a.driver = frame.NewDriver(a.world.Context, a.renderer, a, frame.MonotonicSince(time.Now()))

	logger.Info("viewer initialized")
	return a, nil
}

// PumpEvents handles input and any asynchronous results that arrived since
// the previous frame. It reports whether the viewer should stop.
func (a *App) PumpEvents() bool {
	quit := a.input.Update()
	a.router.Dispatch(a.input.Events())

	a.world.BindTextures(a.loader.Poll())
	if a.watcher != nil {
		if cfg := a.watcher.Poll(); cfg != nil {
			a.world.Reload(cfg)
		}
	}
	return quit || a.router.QuitRequested()
}

// Present shows the frame drawn by the last tick.
func (a *App) Present() {
	if a.input.SnapshotRequested() {
		pixels, w, h := a.renderer.ReadPixels()
		if _, err := a.snapshot.FromPixels(pixels, w, h); err != nil {
			logger.Warn("snapshot failed", zap.Error(err))
		}
	}
	a.window.SwapBuffers()
}

// Run blocks until the window is closed.
func (a *App) Run() error {
	a.driver.Run()
	return nil
}

// Close releases everything New created.
func (a *App) Close() {
	logger.Info("closing viewer")
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			logger.Warn("closing config watcher", zap.Error(err))
		}
	}
	if a.loader != nil {
		a.loader.Wait()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
