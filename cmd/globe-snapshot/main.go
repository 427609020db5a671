// Package main renders one frame of the globe to a PNG without opening a
// window.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/config"
	"github.com/Faultbox/globe/internal/headless"
	"github.com/Faultbox/globe/internal/logger"
	"github.com/Faultbox/globe/internal/snapshot"
)

var (
	flagTime   = flag.Duration("time", -1, "Elapsed time to render, e.g. 30s (default from config)")
	flagOut    = flag.String("out", "", "Output directory (default from config)")
	flagWidth  = flag.Int("snapshot-width", 0, "Image width in pixels")
	flagHeight = flag.Int("snapshot-height", 0, "Image height in pixels")
)

func main() {
	config.ParseFlags()

	cfg, path, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *flagOut != "" {
		cfg.Snapshot.OutputDir = *flagOut
	}
	if *flagWidth > 0 {
		cfg.Snapshot.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Snapshot.Height = *flagHeight
	}
	at := time.Duration(cfg.Snapshot.Time * float64(time.Second))
	if *flagTime >= 0 {
		at = *flagTime
	}

	logger.Info("rendering snapshot", zap.String("config", path), zap.Duration("time", at))

	img, err := headless.Render(cfg, at, nil)
	if err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}

	name, err := snapshot.NewWriter(cfg.Snapshot.OutputDir, "globe").FromImage(img)
	if err != nil {
		logger.Error("saving snapshot failed", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println(name)
}
