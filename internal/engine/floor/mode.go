package floor

import (
	"fmt"
	"strings"
)

// Mode selects the shader's height function.
type Mode int32

const (
	// ModeNoise drives elevation from simplex noise.
	ModeNoise Mode = 0
	// ModeSin drives elevation from a per-vertex sine wave.
	ModeSin Mode = 1
)

func (m Mode) String() string {
	switch m {
	case ModeNoise:
		return "noise"
	case ModeSin:
		return "sin"
	default:
		return fmt.Sprintf("mode(%d)", int32(m))
	}
}

// ParseMode accepts "noise", "sin" (any case) or their numeric values.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "noise", "0", "":
		return ModeNoise, nil
	case "sin", "1":
		return ModeSin, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeSin {
		return ModeNoise
	}
	return ModeSin
}
