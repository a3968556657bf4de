package math

import "math"

// Orientation is a pitch/yaw pair in radians.
type Orientation struct {
	Pitch float32
	Yaw   float32
}

// Direction converts the orientation to a direction vector:
// (cos(yaw)*cos(pitch), sin(pitch), sin(yaw)*cos(pitch)).
func (o Orientation) Direction() Vec3 {
	sp, cp := math.Sincos(float64(o.Pitch))
	sy, cy := math.Sincos(float64(o.Yaw))
	return CheckFinite(Vec3{
		X: float32(cy * cp),
		Y: float32(sp),
		Z: float32(sy * cp),
	})
}
