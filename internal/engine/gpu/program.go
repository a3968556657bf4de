package gpu

// Program is a linked GPU program with its slots resolved at link time.
type Program struct {
	ID       uint32
	attrs    map[string]int32
	uniforms map[string]int32
}

// NewProgram wraps a linked program id and its resolved locations.
func NewProgram(id uint32, attrs, uniforms map[string]int32) *Program {
	return &Program{ID: id, attrs: attrs, uniforms: uniforms}
}

// Attr returns the attribute location, or -1 if the attribute is inactive.
func (p *Program) Attr(name string) int32 {
	if loc, ok := p.attrs[name]; ok {
		return loc
	}
	return -1
}

// Uniform returns the uniform location, or -1 if the uniform is inactive.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}
