// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Asset   AssetConfig   `yaml:"asset"`
	Camera  CameraConfig  `yaml:"camera"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds host surface settings.
type WindowConfig struct {
	Title         string  `yaml:"title"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Fullscreen    bool    `yaml:"fullscreen"`
	VSync         bool    `yaml:"vsync"`
	MaxPixelRatio float32 `yaml:"max_pixel_ratio"`
}

// AssetConfig holds the mascot asset settings.
type AssetConfig struct {
	Path       string  `yaml:"path"`
	TargetSize float32 `yaml:"target_size"` // Largest extent after normalization
}

// CameraConfig holds projection and orbit settings. Angles are radians.
type CameraConfig struct {
	FOV             float32       `yaml:"fov"` // Vertical field of view, degrees
	Near            float32       `yaml:"near"`
	Far             float32       `yaml:"far"`
	Distance        float32       `yaml:"distance"`
	Damping         float32       `yaml:"damping"`
	RotateSpeed     float32       `yaml:"rotate_speed"`
	MinPolar        float32       `yaml:"min_polar"`
	MaxPolar        float32       `yaml:"max_polar"`
	MinAzimuth      float32       `yaml:"min_azimuth"`
	MaxAzimuth      float32       `yaml:"max_azimuth"`
	AutoRotate      bool          `yaml:"auto_rotate"`
	AutoRotateSpeed float32       `yaml:"auto_rotate_speed"`
	ResumeDelay     time.Duration `yaml:"resume_delay"`
}

// RenderConfig holds output settings.
type RenderConfig struct {
	Exposure   float32    `yaml:"exposure"`
	ClearColor [4]float32 `yaml:"clear_color"`
	Samples    int        `yaml:"samples"` // MSAA samples requested on the GL context
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"` // JSON lines in the log file
}

// Default returns a Config with the stock mascot settings.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "Tux",
			Width:         800,
			Height:        800,
			Fullscreen:    false,
			VSync:         true,
			MaxPixelRatio: 2,
		},
		Asset: AssetConfig{
			Path:       "assets/models/tux.glb",
			TargetSize: 2.5,
		},
		Camera: CameraConfig{
			FOV:             45,
			Near:            0.1,
			Far:             1000,
			Distance:        5,
			Damping:         0.05,
			RotateSpeed:     1,
			MinPolar:        math.Pi / 3,
			MaxPolar:        math.Pi / 1.8,
			MinAzimuth:      -math.Pi / 4,
			MaxAzimuth:      math.Pi / 4,
			AutoRotate:      false,
			AutoRotateSpeed: 2,
			ResumeDelay:     3 * time.Second,
		},
		Render: RenderConfig{
			Exposure:   1.2,
			ClearColor: [4]float32{0, 0, 0, 0},
			Samples:    4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.MaxPixelRatio <= 0 {
		errs = append(errs, fmt.Errorf("max_pixel_ratio %v must be positive", c.Window.MaxPixelRatio))
	}
	if c.Asset.TargetSize <= 0 {
		errs = append(errs, fmt.Errorf("asset target_size %v must be positive", c.Asset.TargetSize))
	}
	if c.Camera.MinPolar > c.Camera.MaxPolar {
		errs = append(errs, fmt.Errorf("camera polar window [%v, %v] is inverted", c.Camera.MinPolar, c.Camera.MaxPolar))
	}
	if c.Camera.MinAzimuth > c.Camera.MaxAzimuth {
		errs = append(errs, fmt.Errorf("camera azimuth window [%v, %v] is inverted", c.Camera.MinAzimuth, c.Camera.MaxAzimuth))
	}
	if c.Camera.Damping <= 0 || c.Camera.Damping > 1 {
		errs = append(errs, fmt.Errorf("camera damping %v must be in (0, 1]", c.Camera.Damping))
	}
	if c.Camera.Distance <= 0 {
		errs = append(errs, fmt.Errorf("camera distance %v must be positive", c.Camera.Distance))
	}
	if c.Camera.ResumeDelay < 0 {
		errs = append(errs, fmt.Errorf("camera resume_delay %v must not be negative", c.Camera.ResumeDelay))
	}
	return errors.Join(errs...)
}
