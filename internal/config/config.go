// Package config handles floor viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/midgard-floor/internal/engine/floor"
)

var (
	// ErrInvalidMode is returned for an unknown floor mode name.
	ErrInvalidMode = errors.New("invalid floor mode")
	// ErrInvalidColor is returned for a background color that is not a hex string.
	ErrInvalidColor = errors.New("invalid background color")
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Floor    FloorConfig    `yaml:"floor"`
	Resize   ResizeConfig   `yaml:"resize"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Debug    DebugConfig    `yaml:"debug"`
	Watch    WatchConfig    `yaml:"watch"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// FloorConfig holds the animation parameters.
type FloorConfig struct {
	BackgroundColor string  `yaml:"background_color"`
	Pitch           float32 `yaml:"pitch"`
	Yaw             float32 `yaml:"yaw"`
	Scale           float32 `yaml:"scale"`
	Mode            string  `yaml:"mode"` // "noise" or "sin"
	Precision       float32 `yaml:"precision"`
}

// ResizeConfig controls window resize handling.
type ResizeConfig struct {
	Listen          bool          `yaml:"listen"`
	DebounceTimeout time.Duration `yaml:"debounce_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// MetricsConfig holds the prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// DebugConfig holds development switches.
type DebugConfig struct {
	StrictNumerics bool   `yaml:"strict_numerics"` // panic on NaN/Inf in vector math
	ScreenshotDir  string `yaml:"screenshot_dir"`
}

// WatchConfig controls config hot reload.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Title:      "Midgard Floor",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Floor: FloorConfig{
			BackgroundColor: "#000",
			Pitch:           0,
			Yaw:             3.05,
			Scale:           60,
			Mode:            "noise",
			Precision:       1,
		},
		Resize: ResizeConfig{
			Listen:          true,
			DebounceTimeout: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 250 * time.Millisecond,
		},
	}
}

// Validate checks values that the viewer cannot recover from at runtime.
func (c *Config) Validate() error {
	if _, err := floor.ParseMode(c.Floor.Mode); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Floor.Mode)
	}
	if _, err := colorful.Hex(c.Floor.BackgroundColor); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c.Floor.BackgroundColor)
	}
	if c.Resize.DebounceTimeout < 0 {
		return fmt.Errorf("resize debounce_timeout must not be negative, got %v", c.Resize.DebounceTimeout)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative, got %v", c.Watch.Debounce)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	return nil
}

// FloorMode returns the parsed floor mode. Call Validate first.
func (c *Config) FloorMode() floor.Mode {
	m, _ := floor.ParseMode(c.Floor.Mode)
	return m
}
