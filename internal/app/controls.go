package app

import (
	"github.com/Faultbox/midgard-floor/internal/config"
	"github.com/Faultbox/midgard-floor/internal/engine/floor"
	"github.com/Faultbox/midgard-floor/internal/engine/input"
)

// Keyboard steps.
const (
	AngleStep     = 0.05 // radians
	ScaleFactor   = 1.1
	PrecisionStep = 0.1
)

// Control applies a key press to cfg and returns the new configuration.
// quit is set for Escape.
func Control(key input.Key, cfg config.FloorConfig) (next config.FloorConfig, quit bool) {
	next = cfg
	switch key {
	case input.KeyLeft:
		next.Yaw -= AngleStep
	case input.KeyRight:
		next.Yaw += AngleStep
	case input.KeyUp:
		next.Pitch += AngleStep
	case input.KeyDown:
		next.Pitch -= AngleStep
	case input.KeyPlus:
		next.Scale *= ScaleFactor
	case input.KeyMinus:
		next.Scale /= ScaleFactor
	case input.KeyMode:
		mode, err := floor.ParseMode(cfg.Mode)
		if err != nil {
			mode = floor.ModeNoise
		}
		next.Mode = mode.Toggle().String()
	case input.KeyPrecisionDown:
		next.Precision -= PrecisionStep
	case input.KeyPrecisionUp:
		next.Precision += PrecisionStep
	case input.KeyEscape:
		quit = true
	}
	return next, quit
}
