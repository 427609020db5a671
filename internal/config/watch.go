package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/logger"
)

// Watcher reloads a config file when it changes on disk. Reloads happen on the
// watcher goroutine; the render thread picks up the latest result with Poll.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *Config
	done    chan struct{}
}

// Watch starts watching path. The parent directory is watched so that editors
// which replace the file by rename are still noticed.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		watcher: fw,
		updates: make(chan *Config, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			cfg, err := LoadFile(w.path)
			if err != nil {
				logger.Warn("config reload failed", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.publish(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

// publish keeps only the newest config in the channel.
func (w *Watcher) publish(cfg *Config) {
	for {
		select {
		case w.updates <- cfg:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}

// Poll returns the most recently reloaded config, or nil if nothing changed
// since the last call. It never blocks.
func (w *Watcher) Poll() *Config {
	select {
	case cfg := <-w.updates:
		return cfg
	default:
		return nil
	}
}

// Close stops the watcher goroutine.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
