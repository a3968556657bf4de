// Package floor builds the procedural grid mesh and drives the filled
// surface program.
package floor

import (
	"errors"
	"fmt"
	gomath "math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
)

// MaxVertices is the largest grid addressable by 16-bit indices.
const MaxVertices = 1 << 16

// ErrTooManyVertices is returned when a grid would overflow 16-bit indices.
var ErrTooManyVertices = errors.New("grid exceeds 16-bit index range")

// SeedLuminance is the relative luminance the white color seed is dimmed to.
const SeedLuminance = 0.01

// Mesh is an interleaved vertex buffer (gpu.VertexStride floats per vertex)
// with its triangle index list.
type Mesh struct {
	Vertices []float32
	Indices  []uint16
	Cols     int
	Rows     int
}

// VertexCount returns the number of vertices in the mesh.
func (m Mesh) VertexCount() int {
	return len(m.Vertices) / gpu.VertexStride
}

// GridSize returns floor(2*width/scale) x floor(2*height/scale).
// A non-positive (or NaN) scale yields 0 x 0.
func GridSize(width, height int, scale float32) (cols, rows int) {
	c, r := gridSize(width, height, scale)
	return int(min(c, gomath.MaxInt32)), int(min(r, gomath.MaxInt32))
}

func gridSize(width, height int, scale float32) (cols, rows float64) {
	if !(scale > 0) {
		return 0, 0
	}
	s := float64(scale)
	cols = gomath.Floor(float64(2*max(width, 0)) / s)
	rows = gomath.Floor(float64(2*max(height, 0)) / s)
	return cols, rows
}

// BuildGrid lays out a cols x rows lattice centered on the viewport. Each
// vertex gets a random z jitter within ±height/20 and a small random
// velocity bias; rng is the only source of randomness.
func BuildGrid(width, height int, scale float32, rng *rand.Rand) (Mesh, error) {
	c, r := gridSize(width, height, scale)
	if c*r > MaxVertices {
		return Mesh{}, fmt.Errorf("%w: %.0fx%.0f grid", ErrTooManyVertices, c, r)
	}
	cols, rows := int(c), int(r)

	mesh := Mesh{
		Vertices: make([]float32, 0, cols*rows*gpu.VertexStride),
		Cols:     cols,
		Rows:     rows,
	}

	shade := SeedColor()
	w, h := float64(width), float64(height)
	for i := 0; i < cols*rows; i++ {
		row := i / cols
		col := i % cols

		x := float64(col)*float64(scale) - w
		y := float64(row)*float64(scale) - h
		z := rng.Float64()*(h/10) - h/20
		velocity := rng.Float64()*0.001 + 0.0005

		mesh.Vertices = append(mesh.Vertices,
			float32(x), float32(y), float32(z),
			shade[0], shade[1], shade[2],
			0, 0, float32(velocity),
		)
	}

	mesh.Indices = triangleIndices(cols, rows)
	return mesh, nil
}

// triangleIndices emits two triangles per cell, skipping the last row and
// column so the grid does not wrap.
func triangleIndices(cols, rows int) []uint16 {
	cells := max(cols-1, 0) * max(rows-1, 0)
	indices := make([]uint16, 0, cells*6)

	for i := 0; i < cols*rows; i++ {
		row := i / cols
		col := i % cols
		if row >= rows-1 || col >= cols-1 {
			continue
		}

		nextRow := i + cols
		nextCol := i + 1
		nextRowNextCol := nextRow + 1
		indices = append(indices,
			uint16(nextRow), uint16(i), uint16(nextCol),
			uint16(nextRow), uint16(nextCol), uint16(nextRowNextCol),
		)
	}
	return indices
}

// SeedColor returns white dimmed to SeedLuminance, quantized to 8-bit
// channels and normalized back to [0, 1].
func SeedColor() [3]float32 {
	white := colorful.Color{R: 1, G: 1, B: 1}
	lr, lg, lb := white.LinearRgb()
	lum := 0.2126*lr + 0.7152*lg + 0.0722*lb
	k := SeedLuminance / lum

	r, g, b := colorful.LinearRgb(lr*k, lg*k, lb*k).Clamped().RGB255()
	return [3]float32{float32(r) / 255, float32(g) / 255, float32(b) / 255}
}
