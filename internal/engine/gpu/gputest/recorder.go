// Package gputest provides a recording gpu.Backend for tests.
package gputest

import (
	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
	"github.com/Faultbox/midgard-floor/pkg/math"
)

// Call is one recorded backend call.
type Call struct {
	Name string
	Args []any
}

// Recorder implements gpu.Backend by recording every call.
type Recorder struct {
	Calls []Call

	// ProgramErr, when set, is returned by CreateProgram.
	ProgramErr error
	// Inactive lists attribute or uniform names the "linker" optimized out.
	Inactive map[string]bool

	nextBuffer  gpu.Buffer
	nextProgram uint32
	current     *gpu.Program
	uniformOf   map[int32]string
	programs    map[uint32]*gpu.Program
}

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{
		Inactive:  make(map[string]bool),
		uniformOf: make(map[int32]string),
		programs:  make(map[uint32]*gpu.Program),
	}
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

// Reset drops the recorded calls.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Count returns how many calls with the given name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Named returns the recorded calls with the given name, in order.
func (r *Recorder) Named(name string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// UniformPushes returns the uniform names pushed, in order, each prefixed
// by the program id it was pushed to.
func (r *Recorder) UniformPushes() []UniformPush {
	var out []UniformPush
	for _, c := range r.Calls {
		switch c.Name {
		case "Uniform1f", "Uniform1i", "Uniform3fv", "UniformMatrix4fv":
			out = append(out, UniformPush{
				Program: c.Args[0].(uint32),
				Name:    c.Args[1].(string),
				Value:   c.Args[2],
			})
		}
	}
	return out
}

// UniformPush is a decoded uniform call.
type UniformPush struct {
	Program uint32
	Name    string
	Value   any
}

// Program returns the program created with the given id.
func (r *Recorder) Program(id uint32) *gpu.Program {
	return r.programs[id]
}

func (r *Recorder) Setup() { r.record("Setup") }

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
}

func (r *Recorder) Clear() { r.record("Clear") }

func (r *Recorder) CreateBuffer() gpu.Buffer {
	r.nextBuffer++
	r.record("CreateBuffer", r.nextBuffer)
	return r.nextBuffer
}

func (r *Recorder) DeleteBuffer(b gpu.Buffer) { r.record("DeleteBuffer", b) }

func (r *Recorder) BindBuffer(target gpu.Target, b gpu.Buffer) {
	r.record("BindBuffer", target, b)
}

func (r *Recorder) BufferFloat32(target gpu.Target, data []float32, usage gpu.Usage) {
	r.record("BufferFloat32", target, len(data), usage)
}

func (r *Recorder) BufferUint16(target gpu.Target, data []uint16, usage gpu.Usage) {
	r.record("BufferUint16", target, len(data), usage)
}

func (r *Recorder) CreateProgram(vertexSrc, fragmentSrc string, attrs, uniforms []string) (*gpu.Program, error) {
	r.record("CreateProgram", len(vertexSrc), len(fragmentSrc))
	if r.ProgramErr != nil {
		return nil, r.ProgramErr
	}

	r.nextProgram++
	id := r.nextProgram
	attrLocs := make(map[string]int32, len(attrs))
	for i, name := range attrs {
		if !r.Inactive[name] {
			attrLocs[name] = int32(i)
		}
	}
	uniLocs := make(map[string]int32, len(uniforms))
	for i, name := range uniforms {
		if r.Inactive[name] {
			continue
		}
		loc := int32(id)*100 + int32(i)
		uniLocs[name] = loc
		r.uniformOf[loc] = name
	}

	p := gpu.NewProgram(id, attrLocs, uniLocs)
	r.programs[id] = p
	return p, nil
}

func (r *Recorder) DeleteProgram(p *gpu.Program) { r.record("DeleteProgram", p.ID) }

func (r *Recorder) UseProgram(p *gpu.Program) {
	r.current = p
	r.record("UseProgram", p.ID)
}

func (r *Recorder) EnableVertexAttribArray(loc int32) {
	r.record("EnableVertexAttribArray", loc)
}

func (r *Recorder) VertexAttribPointer(loc, size, stride int32, offset int) {
	r.record("VertexAttribPointer", loc, size, stride, offset)
}

func (r *Recorder) Uniform1f(loc int32, v float32) {
	r.record("Uniform1f", r.currentID(), r.uniformOf[loc], v)
}

func (r *Recorder) Uniform1i(loc int32, v int32) {
	r.record("Uniform1i", r.currentID(), r.uniformOf[loc], v)
}

func (r *Recorder) Uniform3fv(loc int32, v [3]float32) {
	r.record("Uniform3fv", r.currentID(), r.uniformOf[loc], v)
}

func (r *Recorder) UniformMatrix4fv(loc int32, m math.Mat4) {
	r.record("UniformMatrix4fv", r.currentID(), r.uniformOf[loc], m)
}

func (r *Recorder) DrawElements(mode gpu.DrawMode, count int32, offset int) {
	r.record("DrawElements", r.currentID(), mode, count)
}

// ReadPixels returns a zeroed buffer of the requested size.
func (r *Recorder) ReadPixels(x, y, width, height int32) []byte {
	r.record("ReadPixels", x, y, width, height)
	if width <= 0 || height <= 0 {
		return nil
	}
	return make([]byte, int(width)*int(height)*4)
}

func (r *Recorder) currentID() uint32 {
	if r.current == nil {
		return 0
	}
	return r.current.ID
}

var _ gpu.Backend = (*Recorder)(nil)
