// Package config handles viewer configuration loading and management.
package config

import "github.com/Faultbox/globe/internal/engine/lighting"

// Config holds all viewer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Globe      GlobeConfig      `yaml:"globe"`
	Atmosphere AtmosphereConfig `yaml:"atmosphere"`
	Camera     CameraConfig     `yaml:"camera"`
	Textures   TexturesConfig   `yaml:"textures"`
	Snapshot   SnapshotConfig   `yaml:"snapshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Fullscreen    bool    `yaml:"fullscreen"`
	VSync         bool    `yaml:"vsync"`
	MaxPixelRatio float64 `yaml:"max_pixel_ratio"`
	MSAA          int     `yaml:"msaa"` // samples; 0 or 1 disables
}

// GlobeConfig holds the globe mesh and its animation.
type GlobeConfig struct {
	Radius          float32    `yaml:"radius"`
	WidthSegments   int        `yaml:"width_segments"`
	HeightSegments  int        `yaml:"height_segments"`
	RotationRate    float32    `yaml:"rotation_rate"` // radians per second
	AtmosphereScale float32    `yaml:"atmosphere_scale"`
	SunDirection    [3]float32 `yaml:"sun_direction"`
}

// AtmosphereConfig holds the colors exposed to the parameter binder.
type AtmosphereConfig struct {
	DayColor      string  `yaml:"day_color"`
	TwilightColor string  `yaml:"twilight_color"`
	FresnelPower  float32 `yaml:"fresnel_power"`
}

// CameraConfig holds the perspective camera and orbit controls.
type CameraConfig struct {
	FOV         float32    `yaml:"fov"` // vertical, degrees
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Position    [3]float32 `yaml:"position"`
	MinDistance float32    `yaml:"min_distance"`
	MaxDistance float32    `yaml:"max_distance"`
	Damping     float32    `yaml:"damping"`
	RotateSpeed float32    `yaml:"rotate_speed"` // radians per pixel
	ZoomSpeed   float32    `yaml:"zoom_speed"`
}

// TexturesConfig holds the three surface image paths.
type TexturesConfig struct {
	Day            string `yaml:"day"`
	Night          string `yaml:"night"`
	SpecularClouds string `yaml:"specular_clouds"`
}

// SnapshotConfig holds headless rendering settings.
type SnapshotConfig struct {
	OutputDir string  `yaml:"output_dir"`
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Time      float64 `yaml:"time"` // elapsed seconds to render
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			MaxPixelRatio: 2,
			MSAA:          4,
		},
		Globe: GlobeConfig{
			Radius:          2,
			WidthSegments:   64,
			HeightSegments:  64,
			RotationRate:    0.1,
			AtmosphereScale: 1.04,
			SunDirection:    [3]float32(lighting.DefaultSunDirection()),
		},
		Atmosphere: AtmosphereConfig{
			DayColor:      "#00aaff",
			TwilightColor: "#ff6600",
			FresnelPower:  2,
		},
		Camera: CameraConfig{
			FOV:         25,
			Near:        0.1,
			Far:         100,
			Position:    [3]float32{12, 5, 4},
			MinDistance: 4,
			MaxDistance: 30,
			Damping:     0.05,
			RotateSpeed: 0.005,
			ZoomSpeed:   0.1,
		},
		Textures: TexturesConfig{
			Day:            "static/earth/day.jpg",
			Night:          "static/earth/night.jpg",
			SpecularClouds: "static/earth/specularClouds.jpg",
		},
		Snapshot: SnapshotConfig{
			OutputDir: "snapshots",
			Width:     640,
			Height:    360,
			Time:      0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
