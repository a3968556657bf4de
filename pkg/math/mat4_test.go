package math

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 2, 0.1, 10)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestPerspectiveMatchesMathgl(t *testing.T) {
	tests := []struct {
		name        string
		fov, aspect float32
		near, far   float32
	}{
		{"floor defaults", float32(math.Pi / 4), 16.0 / 9.0, 1e-5, 10},
		{"square", float32(math.Pi / 4), 1, 0.1, 100},
		{"portrait", float32(math.Pi / 3), 0.5, 1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Perspective(tt.fov, tt.aspect, tt.near, tt.far)
			want := mgl32.Perspective(tt.fov, tt.aspect, tt.near, tt.far)
			for i := range got {
				if !approx(got[i], want[i], 1e-4) {
					t.Errorf("element %d: got %f, want %f", i, got[i], want[i])
				}
			}
		})
	}
}

func TestLookAtMatchesMathgl(t *testing.T) {
	eye := Orientation{Pitch: 0.3, Yaw: 3.05}.Direction().Scale(0.5)
	up := Vec3{0, 0, 1}

	got := LookAt(eye, Vec3{}, up)
	want := mgl32.LookAtV(
		mgl32.Vec3{eye.X, eye.Y, eye.Z},
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 0, 1},
	)
	for i := range got {
		if !approx(got[i], want[i], 1e-5) {
			t.Errorf("element %d: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	p := m.TransformPoint(eye)
	if !approx(p.X, 0, 1e-6) || !approx(p.Y, 0, 1e-6) || !approx(p.Z, 0, 1e-6) {
		t.Errorf("eye should map to the origin, got %v", p)
	}
	center := m.TransformPoint(Vec3{})
	if !approx(center.Z, -5, 1e-5) {
		t.Errorf("center should sit 5 units down -Z, got %v", center)
	}
}

func TestLookAtDegenerateUp(t *testing.T) {
	// Eye on the up axis: zero rows, no NaN.
	SetStrict(false)

	m := LookAt(Vec3{0, 0, 0.5}, Vec3{}, Vec3{0, 0, 1})
	for i, v := range m {
		if !isFinite(v) {
			t.Fatalf("element %d is not finite: %f", i, v)
		}
	}
}

func TestLookAtDegenerateStrict(t *testing.T) {
	tests := []struct {
		name   string
		eye    Vec3
		center Vec3
	}{
		{"eye on up axis", Vec3{0, 0, 0.5}, Vec3{}},
		{"eye at center", Vec3{1, 2, 3}, Vec3{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetStrict(true)
			defer SetStrict(false)

			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrInvalidNumeric) {
					t.Errorf("expected ErrInvalidNumeric panic, got %v", r)
				}
			}()

			LookAt(tt.eye, tt.center, Vec3{0, 0, 1})
		})
	}
}

func TestLookAtStrictRegularBasis(t *testing.T) {
	SetStrict(true)
	defer SetStrict(false)

	got := LookAt(Vec3{3, 4, 5}, Vec3{}, Vec3{0, 1, 0})
	SetStrict(false)
	want := LookAt(Vec3{3, 4, 5}, Vec3{}, Vec3{0, 1, 0})
	for i := range got {
		if !approx(got[i], want[i], 1e-6) {
			t.Errorf("element %d: strict %f, relaxed %f", i, got[i], want[i])
		}
	}
}

func approx(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}
