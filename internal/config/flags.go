package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging and strict numerics")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagScale       = flag.Float64("scale", 0, "Grid cell size in pixels")
	flagMode        = flag.String("mode", "", "Shading mode (noise, sin)")
	flagMetricsAddr = flag.String("metrics-addr", "", "Prometheus listen address, e.g. :9102")
	flagWatch       = flag.Bool("watch", false, "Reload the config file on change")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Debug.StrictNumerics = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagScale > 0 {
		cfg.Floor.Scale = float32(*flagScale)
	}
	if *flagMode != "" {
		cfg.Floor.Mode = *flagMode
	}
	if *flagMetricsAddr != "" {
		cfg.Metrics.Addr = *flagMetricsAddr
	}
	if *flagWatch {
		cfg.Watch.Enabled = true
	}
}
