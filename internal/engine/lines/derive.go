// Package lines derives the wireframe overlay from the surface grid and
// drives the line program.
package lines

import (
	"github.com/Faultbox/midgard-floor/internal/engine/floor"
	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
)

// Source is the read-only view of the surface the wireframe follows.
type Source interface {
	Vertices() []float32
	Cols() int
	Rows() int
	Mode() floor.Mode
	Precision() float32
}

// DeriveVertices copies the surface buffer with every color seed forced
// to white. Position and velocity floats are kept as is.
func DeriveVertices(surface []float32) []float32 {
	out := make([]float32, len(surface))
	copy(out, surface)
	for i := gpu.ColorSeedOffset; i < len(out); i += gpu.VertexStride {
		end := min(i+3, len(out))
		for j := i; j < end; j++ {
			out[j] = 1
		}
	}
	return out
}

// DeriveIndices emits line pairs for a cols x rows grid: the vertical and
// horizontal edges of every vertex plus the cell diagonals.
func DeriveIndices(cols, rows int) []uint16 {
	var indices []uint16
	for i := 0; i < cols*rows; i++ {
		row := i / cols
		col := i % cols
		nextRow := i + cols
		nextCol := i + 1
		nextRowNextCol := nextRow + 1

		hasRow := row < rows-1
		hasCol := col < cols-1
		if hasRow {
			indices = append(indices, uint16(nextRow), uint16(i))
		}
		if hasCol {
			indices = append(indices, uint16(i), uint16(nextCol))
		}
		if hasRow && hasCol {
			// The nextCol/nextRow diagonal appears in both directions.
			indices = append(indices,
				uint16(nextCol), uint16(nextRow),
				uint16(nextRow), uint16(nextCol),
				uint16(nextCol), uint16(nextRowNextCol),
				uint16(nextRowNextCol), uint16(nextRow),
			)
		}
	}
	return indices
}
