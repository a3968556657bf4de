// Package camera provides the floor's view box: viewport size plus a
// pitch/yaw orbit camera aimed at the origin.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-floor/pkg/math"
)

const (
	// ZoomFactor scales the orientation direction into the eye position.
	ZoomFactor = 0.5

	// FieldOfView is the vertical field of view in radians.
	FieldOfView = gomath.Pi / 4

	// Near and Far are the projection clip planes.
	Near = 1e-5
	Far  = 10
)

// Up is the camera up vector. The floor lies in the XY plane, so Z is up.
var Up = math.Vec3{X: 0, Y: 0, Z: 1}

// ViewBox holds viewport dimensions and the camera derived from them.
// Every mutation recomputes the matrices synchronously.
type ViewBox struct {
	width  int
	height int

	orientation math.Orientation

	world      math.Mat4
	view       math.Mat4
	projection math.Mat4

	version uint64
}

// New creates a view box and computes its matrices.
func New(width, height int, pitch, yaw float32) *ViewBox {
	vb := &ViewBox{
		width:       clampSize(width),
		height:      clampSize(height),
		orientation: math.Orientation{Pitch: pitch, Yaw: yaw},
		world:       math.Identity(),
		projection:  math.Identity(),
	}
	vb.calculate()
	return vb
}

// SetSize updates the viewport size.
func (vb *ViewBox) SetSize(width, height int) {
	vb.width = clampSize(width)
	vb.height = clampSize(height)
	vb.calculate()
}

// SetPitch updates the pitch angle (radians).
func (vb *ViewBox) SetPitch(pitch float32) {
	vb.orientation.Pitch = pitch
	vb.calculate()
}

// SetYaw updates the yaw angle (radians).
func (vb *ViewBox) SetYaw(yaw float32) {
	vb.orientation.Yaw = yaw
	vb.calculate()
}

// Width returns the viewport width in pixels.
func (vb *ViewBox) Width() int { return vb.width }

// Height returns the viewport height in pixels.
func (vb *ViewBox) Height() int { return vb.height }

// Orientation returns the current pitch/yaw.
func (vb *ViewBox) Orientation() math.Orientation { return vb.orientation }

// Eye returns the camera position.
func (vb *ViewBox) Eye() math.Vec3 {
	return vb.orientation.Direction().Scale(ZoomFactor)
}

// World returns the world matrix (identity for the floor).
func (vb *ViewBox) World() math.Mat4 { return vb.world }

// View returns the look-at matrix.
func (vb *ViewBox) View() math.Mat4 { return vb.view }

// Projection returns the perspective matrix.
func (vb *ViewBox) Projection() math.Mat4 { return vb.projection }

// ResolutionVector returns (width, height, max(width, height)).
func (vb *ViewBox) ResolutionVector() [3]float32 {
	w, h := float32(vb.width), float32(vb.height)
	return [3]float32{w, h, max(w, h)}
}

// Version increments on every recompute. Callers compare versions to tell
// whether camera state changed.
func (vb *ViewBox) Version() uint64 { return vb.version }

// Degenerate reports whether either viewport dimension is zero.
func (vb *ViewBox) Degenerate() bool {
	return vb.width == 0 || vb.height == 0
}

func (vb *ViewBox) calculate() {
	vb.view = math.LookAt(vb.Eye(), math.Vec3{}, Up)

	// Keep the previous projection rather than dividing by a zero height.
	if !vb.Degenerate() {
		aspect := float32(vb.width) / float32(vb.height)
		vb.projection = math.Perspective(FieldOfView, aspect, Near, Far)
	}
	vb.version++
}

func clampSize(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
