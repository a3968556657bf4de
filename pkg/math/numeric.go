package math

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrInvalidNumeric is raised (as a panic value) when strict mode catches
// a NaN or infinite component.
var ErrInvalidNumeric = errors.New("invalid numeric value")

var strict atomic.Bool

// SetStrict toggles the development-time numeric assertion. When enabled,
// any checked operation producing NaN or Inf panics instead of letting the
// value reach the GPU.
func SetStrict(enabled bool) {
	strict.Store(enabled)
}

// Strict reports whether numeric assertions are enabled.
func Strict() bool {
	return strict.Load()
}

// CheckFinite returns v unchanged, panicking in strict mode if v has a
// non-finite component.
func CheckFinite(v Vec3) Vec3 {
	if strict.Load() && !v.IsFinite() {
		panic(fmt.Errorf("%w: vector (%v, %v, %v)", ErrInvalidNumeric, v.X, v.Y, v.Z))
	}
	return v
}
