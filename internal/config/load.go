package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by Validate for any out-of-range setting.
var ErrInvalid = errors.New("invalid config")

// Load loads configuration with priority: defaults < file < flags.
// The returned path is the file that was read, or "" when none was found.
func Load() (*Config, string, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, "", fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, configPath, nil
}

// LoadFile reads a config file on top of the defaults without applying flags.
// Used when reloading a watched file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the renderer cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	case c.Graphics.MSAA < 0 || c.Graphics.MSAA > 16:
		return fmt.Errorf("%w: msaa %d must be in [0, 16]", ErrInvalid, c.Graphics.MSAA)
	case c.Globe.Radius <= 0:
		return fmt.Errorf("%w: globe radius %v", ErrInvalid, c.Globe.Radius)
	case c.Globe.WidthSegments < 3 || c.Globe.HeightSegments < 2:
		return fmt.Errorf("%w: globe segments %dx%d", ErrInvalid, c.Globe.WidthSegments, c.Globe.HeightSegments)
	case c.Globe.AtmosphereScale < 1:
		return fmt.Errorf("%w: atmosphere scale %v must be >= 1", ErrInvalid, c.Globe.AtmosphereScale)
	case c.Globe.SunDirection == [3]float32{}:
		return fmt.Errorf("%w: sun direction must be non-zero", ErrInvalid)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera near/far %v/%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: camera fov %v", ErrInvalid, c.Camera.FOV)
	case c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance:
		return fmt.Errorf("%w: camera distance range [%v, %v]", ErrInvalid, c.Camera.MinDistance, c.Camera.MaxDistance)
	case c.Camera.Damping <= 0 || c.Camera.Damping > 1:
		return fmt.Errorf("%w: camera damping %v must be in (0, 1]", ErrInvalid, c.Camera.Damping)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Globe")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Globe")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "globe")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "globe")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
