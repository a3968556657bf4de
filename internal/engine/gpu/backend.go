// Package gpu defines the renderer backend capability the floor programs
// draw through, plus the per-program state shared by both passes.
package gpu

import "github.com/Faultbox/midgard-floor/pkg/math"

// Target selects the buffer binding point.
type Target int

const (
	ArrayBuffer Target = iota
	ElementArrayBuffer
)

// Usage is a buffer upload hint.
type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
)

// DrawMode is the primitive topology for DrawElements.
type DrawMode int

const (
	Triangles DrawMode = iota
	Lines
)

func (m DrawMode) String() string {
	switch m {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	default:
		return "unknown"
	}
}

// Buffer is a backend buffer handle.
type Buffer uint32

// Backend is the low-level graphics capability. Implementations are not
// safe for concurrent use; all calls happen on the render thread.
type Backend interface {
	// Setup performs one-time state: depth test and back-face culling.
	Setup()
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear()

	CreateBuffer() Buffer
	DeleteBuffer(b Buffer)
	BindBuffer(target Target, b Buffer)
	BufferFloat32(target Target, data []float32, usage Usage)
	BufferUint16(target Target, data []uint16, usage Usage)

	// CreateProgram compiles and links a program and resolves the named
	// attribute and uniform slots.
	CreateProgram(vertexSrc, fragmentSrc string, attrs, uniforms []string) (*Program, error)
	DeleteProgram(p *Program)
	UseProgram(p *Program)

	EnableVertexAttribArray(loc int32)
	VertexAttribPointer(loc, size, stride int32, offset int)

	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform3fv(loc int32, v [3]float32)
	UniformMatrix4fv(loc int32, m math.Mat4)

	DrawElements(mode DrawMode, count int32, offset int)

	// ReadPixels returns the RGBA framebuffer region, bottom row first.
	ReadPixels(x, y, width, height int32) []byte
}
