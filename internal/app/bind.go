package app

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-floor/internal/config"
	"github.com/Faultbox/midgard-floor/internal/engine/floor"
	"github.com/Faultbox/midgard-floor/internal/pipeline"
)

// Setters is the pipeline's configuration surface.
type Setters interface {
	SetBackgroundColor(hex string) error
	SetPitch(pitch float32)
	SetYaw(yaw float32)
	SetScale(scale float32) error
	SetMode(mode floor.Mode)
	SetPrecision(precision float32)
}

var _ Setters = (*pipeline.Pipeline)(nil)

// Bind forwards every field that differs between prev and next to target,
// in scale, yaw, pitch, color, mode, precision order. Rejected values are
// reported together; the others are still applied.
func Bind(prev, next config.FloorConfig, target Setters) error {
	var errs []error

	if prev.Scale != next.Scale {
		if err := target.SetScale(next.Scale); err != nil {
			errs = append(errs, err)
		}
	}
	if prev.Yaw != next.Yaw {
		target.SetYaw(next.Yaw)
	}
	if prev.Pitch != next.Pitch {
		target.SetPitch(next.Pitch)
	}
	if prev.BackgroundColor != next.BackgroundColor {
		if err := target.SetBackgroundColor(next.BackgroundColor); err != nil {
			errs = append(errs, err)
		}
	}
	if prev.Mode != next.Mode {
		mode, err := floor.ParseMode(next.Mode)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", config.ErrInvalidMode, err))
		} else {
			target.SetMode(mode)
		}
	}
	if prev.Precision != next.Precision {
		target.SetPrecision(next.Precision)
	}

	return errors.Join(errs...)
}

// Settings converts the config section into pipeline settings.
func Settings(cfg config.FloorConfig) (pipeline.Settings, error) {
	mode, err := floor.ParseMode(cfg.Mode)
	if err != nil {
		return pipeline.Settings{}, fmt.Errorf("%w: %w", config.ErrInvalidMode, err)
	}
	return pipeline.Settings{
		BackgroundColor: cfg.BackgroundColor,
		Pitch:           cfg.Pitch,
		Yaw:             cfg.Yaw,
		Scale:           cfg.Scale,
		Mode:            mode,
		Precision:       cfg.Precision,
	}, nil
}

// FloorConfig converts pipeline settings back into the config section.
func FloorConfig(s pipeline.Settings) config.FloorConfig {
	return config.FloorConfig{
		BackgroundColor: s.BackgroundColor,
		Pitch:           s.Pitch,
		Yaw:             s.Yaw,
		Scale:           s.Scale,
		Mode:            s.Mode.String(),
		Precision:       s.Precision,
	}
}
