package gpu

// Dirty marks cached uniforms that must be re-pushed on the next frame.
// Setters raise flags; the owning program clears each one after pushing.
type Dirty struct {
	Camera     bool
	Resolution bool
	Mode       bool
	Precision  bool
}

// MarkAll raises every flag.
func (d *Dirty) MarkAll() {
	d.Camera = true
	d.Resolution = true
	d.Mode = true
	d.Precision = true
}

// Any reports whether at least one flag is raised.
func (d Dirty) Any() bool {
	return d.Camera || d.Resolution || d.Mode || d.Precision
}
