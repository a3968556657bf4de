// Package math provides the small vector and matrix toolkit used by the floor camera.
package math

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 {
	return CheckFinite(Vec3{v.X * s, v.Y * s, v.Z * s})
}

// Div returns v / s. Dividing by zero yields Inf/NaN components, which
// CheckFinite reports in strict mode.
func (v Vec3) Div(s float32) Vec3 {
	return CheckFinite(Vec3{v.X / s, v.Y / s, v.Z / s})
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the euclidean norm.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns a unit vector, or the zero vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Unit divides v by its length without special-casing zero.
// A zero-length vector trips the strict numeric check.
func (v Vec3) Unit() Vec3 {
	return v.Div(v.Length())
}

// Components returns the vector as an array, in X, Y, Z order.
func (v Vec3) Components() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float32) bool {
	d := float64(f)
	return !math.IsNaN(d) && !math.IsInf(d, 0)
}
