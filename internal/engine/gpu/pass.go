package gpu

import (
	"fmt"

	"github.com/Faultbox/midgard-floor/pkg/math"
)

// Uniforms carries the values a pass may push on a frame.
type Uniforms struct {
	Time       float32
	Resolution [3]float32
	World      math.Mat4
	View       math.Mat4
	Projection math.Mat4
	Mode       int32
	Precision  float32
}

// Observer receives pass activity. Metrics hook in here.
type Observer interface {
	UniformPushed(pass, uniform string)
	BuffersUploaded(pass string, vertexFloats, indices int)
	DrawIssued(pass string, mode DrawMode, count int)
	MeshRebuilt(pass string, vertexFloats, indices int)
}

// Pass owns one program's GPU state: the linked program, its two dynamic
// buffers and its dirty flags.
type Pass struct {
	Name  string
	Dirty Dirty

	backend  Backend
	program  *Program
	vertices Buffer
	indices  Buffer
	observer Observer
}

// NewPass compiles the program and allocates its buffers. All dirty flags
// start raised.
func NewPass(name string, backend Backend, vertexSrc, fragmentSrc string, observer Observer) (*Pass, error) {
	program, err := backend.CreateProgram(vertexSrc, fragmentSrc, AttributeNames, UniformNames)
	if err != nil {
		return nil, fmt.Errorf("%s program: %w", name, err)
	}
	backend.UseProgram(program)

	p := &Pass{
		Name:     name,
		backend:  backend,
		program:  program,
		vertices: backend.CreateBuffer(),
		indices:  backend.CreateBuffer(),
		observer: observer,
	}
	for _, attr := range AttributeNames {
		if loc := program.Attr(attr); loc >= 0 {
			backend.EnableVertexAttribArray(loc)
		}
	}
	p.Dirty.MarkAll()
	return p, nil
}

// Program returns the linked program.
func (p *Pass) Program() *Program { return p.program }

// Sync pushes uniforms and re-uploads both buffers. Time is pushed every
// call; the other uniforms only when flagged, clearing the flag after.
func (p *Pass) Sync(u Uniforms, vertices []float32, indices []uint16) {
	b := p.backend
	b.UseProgram(p.program)

	b.Uniform1f(p.program.Uniform(UniformTime), u.Time)
	p.pushed(UniformTime)

	if p.Dirty.Resolution {
		b.Uniform3fv(p.program.Uniform(UniformResolution), u.Resolution)
		p.pushed(UniformResolution)
		p.Dirty.Resolution = false
	}

	if p.Dirty.Camera {
		b.UniformMatrix4fv(p.program.Uniform(UniformWorld), u.World)
		b.UniformMatrix4fv(p.program.Uniform(UniformView), u.View)
		b.UniformMatrix4fv(p.program.Uniform(UniformProjection), u.Projection)
		p.pushed(UniformWorld)
		p.pushed(UniformView)
		p.pushed(UniformProjection)
		p.Dirty.Camera = false
	}

	if p.Dirty.Mode {
		b.Uniform1i(p.program.Uniform(UniformMode), u.Mode)
		p.pushed(UniformMode)
		p.Dirty.Mode = false
	}

	if p.Dirty.Precision {
		b.Uniform1f(p.program.Uniform(UniformPrecision), u.Precision)
		p.pushed(UniformPrecision)
		p.Dirty.Precision = false
	}

	b.BindBuffer(ArrayBuffer, p.vertices)
	b.BufferFloat32(ArrayBuffer, vertices, StaticDraw)

	stride := int32(VertexStride * bytesPerFloat)
	p.attribPointer(AttrPosition, stride, PositionOffset)
	p.attribPointer(AttrColorSeed, stride, ColorSeedOffset)
	p.attribPointer(AttrVelocitySeed, stride, VelocitySeedOffset)

	b.BindBuffer(ElementArrayBuffer, p.indices)
	b.BufferUint16(ElementArrayBuffer, indices, StaticDraw)

	if p.observer != nil {
		p.observer.BuffersUploaded(p.Name, len(vertices), len(indices))
	}
}

// Draw issues the element draw for count indices.
func (p *Pass) Draw(mode DrawMode, count int) {
	p.backend.UseProgram(p.program)
	p.backend.DrawElements(mode, int32(count), 0)
	if p.observer != nil {
		p.observer.DrawIssued(p.Name, mode, count)
	}
}

// Close releases the buffers and the program.
func (p *Pass) Close() {
	p.backend.DeleteBuffer(p.vertices)
	p.backend.DeleteBuffer(p.indices)
	p.backend.DeleteProgram(p.program)
}

func (p *Pass) attribPointer(name string, stride int32, offsetFloats int) {
	loc := p.program.Attr(name)
	if loc < 0 {
		return
	}
	p.backend.VertexAttribPointer(loc, 3, stride, offsetFloats*bytesPerFloat)
}

func (p *Pass) pushed(uniform string) {
	if p.observer != nil {
		p.observer.UniformPushed(p.Name, uniform)
	}
}
