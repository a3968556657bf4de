// Package glbackend implements gpu.Backend on OpenGL 4.1 core via go-gl.
package glbackend

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
	"github.com/Faultbox/midgard-floor/internal/logger"
	"github.com/Faultbox/midgard-floor/pkg/math"
)

// Backend drives the current OpenGL context.
// IMPORTANT: New must be called AFTER the GL context is created and made current.
type Backend struct {
	vao uint32
	log *zap.Logger
}

// New loads GL function pointers and binds the vertex array object all
// attribute state is recorded into (core profile has no default VAO).
func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}

	b := &Backend{log: logger.Named("glbackend")}
	b.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	return b, nil
}

// Close releases the vertex array object.
func (b *Backend) Close() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}

func (b *Backend) Setup() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
}

func (b *Backend) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (b *Backend) ClearColor(r, g, bl, a float32) {
	gl.ClearColor(r, g, bl, a)
}

func (b *Backend) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *Backend) ReadPixels(x, y, width, height int32) []byte {
	if width <= 0 || height <= 0 {
		return nil
	}
	pixels := make([]byte, int(width)*int(height)*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func (b *Backend) CreateBuffer() gpu.Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	return gpu.Buffer(id)
}

func (b *Backend) DeleteBuffer(buf gpu.Buffer) {
	id := uint32(buf)
	if id != 0 {
		gl.DeleteBuffers(1, &id)
	}
}

func (b *Backend) BindBuffer(target gpu.Target, buf gpu.Buffer) {
	gl.BindBuffer(glTarget(target), uint32(buf))
}

func (b *Backend) BufferFloat32(target gpu.Target, data []float32, usage gpu.Usage) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(glTarget(target), len(data)*4, ptr, glUsage(usage))
}

func (b *Backend) BufferUint16(target gpu.Target, data []uint16, usage gpu.Usage) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(glTarget(target), len(data)*2, ptr, glUsage(usage))
}

func (b *Backend) UseProgram(p *gpu.Program) {
	gl.UseProgram(p.ID)
}

func (b *Backend) DeleteProgram(p *gpu.Program) {
	if p != nil && p.ID != 0 {
		gl.DeleteProgram(p.ID)
	}
}

func (b *Backend) EnableVertexAttribArray(loc int32) {
	gl.EnableVertexAttribArray(uint32(loc))
}

func (b *Backend) VertexAttribPointer(loc, size, stride int32, offset int) {
	gl.VertexAttribPointer(uint32(loc), size, gl.FLOAT, false, stride, gl.PtrOffset(offset))
}

func (b *Backend) Uniform1f(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (b *Backend) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (b *Backend) Uniform3fv(loc int32, v [3]float32) {
	gl.Uniform3fv(loc, 1, &v[0])
}

func (b *Backend) UniformMatrix4fv(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
}

func (b *Backend) DrawElements(mode gpu.DrawMode, count int32, offset int) {
	if count == 0 {
		return
	}
	gl.DrawElements(glMode(mode), count, gl.UNSIGNED_SHORT, gl.PtrOffset(offset))
}

func glTarget(t gpu.Target) uint32 {
	if t == gpu.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func glUsage(u gpu.Usage) uint32 {
	if u == gpu.DynamicDraw {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

func glMode(m gpu.DrawMode) uint32 {
	if m == gpu.Lines {
		return gl.LINES
	}
	return gl.TRIANGLES
}

var _ gpu.Backend = (*Backend)(nil)
