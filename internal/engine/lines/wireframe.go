package lines

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-floor/internal/engine/camera"
	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
	"github.com/Faultbox/midgard-floor/internal/engine/shaders"
	"github.com/Faultbox/midgard-floor/internal/logger"
)

// PassName labels the wireframe program in logs and metrics.
const PassName = "lines"

var (
	// ErrNotInitialized is returned when updating or drawing before Init.
	ErrNotInitialized = errors.New("wireframe program not initialized")
	// ErrNoSource is returned when deriving without a surface.
	ErrNoSource = errors.New("wireframe has no source surface")
)

// Wireframe draws the grid edges over the surface. Mode and precision are
// read from the source on every push.
type Wireframe struct {
	backend  gpu.Backend
	viewBox  *camera.ViewBox
	observer gpu.Observer
	log      *zap.Logger

	source   Source
	vertices []float32
	indices  []uint16
	pass     *gpu.Pass
}

// New creates the wireframe program. observer may be nil.
func New(backend gpu.Backend, viewBox *camera.ViewBox, observer gpu.Observer) *Wireframe {
	return &Wireframe{
		backend:  backend,
		viewBox:  viewBox,
		observer: observer,
		log:      logger.Named(PassName),
	}
}

// SetSource attaches the surface and derives the wireframe from it.
func (w *Wireframe) SetSource(src Source) error {
	w.source = src
	return w.Recalculate()
}

// Init compiles the program and raises all dirty flags.
func (w *Wireframe) Init() error {
	pass, err := gpu.NewPass(PassName, w.backend, shaders.LinesVertexShader, shaders.LinesFragmentShader, w.observer)
	if err != nil {
		return fmt.Errorf("init wireframe: %w", err)
	}
	w.pass = pass
	return nil
}

// Recalculate re-derives vertices and indices from the source surface.
func (w *Wireframe) Recalculate() error {
	if w.source == nil {
		return ErrNoSource
	}
	w.vertices = DeriveVertices(w.source.Vertices())
	w.indices = DeriveIndices(w.source.Cols(), w.source.Rows())

	w.log.Debug("wireframe derived",
		zap.Int("vertices", len(w.vertices)/gpu.VertexStride),
		zap.Int("indices", len(w.indices)),
	)
	if w.observer != nil {
		w.observer.MeshRebuilt(PassName, len(w.vertices), len(w.indices))
	}
	return nil
}

// MarkCameraDirty schedules a camera uniform push.
func (w *Wireframe) MarkCameraDirty() {
	if w.pass != nil {
		w.pass.Dirty.Camera = true
	}
}

// MarkResolutionDirty schedules a resolution uniform push.
func (w *Wireframe) MarkResolutionDirty() {
	if w.pass != nil {
		w.pass.Dirty.Resolution = true
	}
}

// MarkModeDirty schedules a mode uniform push.
func (w *Wireframe) MarkModeDirty() {
	if w.pass != nil {
		w.pass.Dirty.Mode = true
	}
}

// MarkPrecisionDirty schedules a precision uniform push.
func (w *Wireframe) MarkPrecisionDirty() {
	if w.pass != nil {
		w.pass.Dirty.Precision = true
	}
}

// Update pushes uniforms and re-uploads the derived mesh.
func (w *Wireframe) Update(deltaT float64, t float32) error {
	if w.pass == nil {
		return ErrNotInitialized
	}
	if w.source == nil {
		return ErrNoSource
	}

	u := gpu.Uniforms{
		Time:       t,
		Resolution: w.viewBox.ResolutionVector(),
		World:      w.viewBox.World(),
		View:       w.viewBox.View(),
		Projection: w.viewBox.Projection(),
		Mode:       int32(w.source.Mode()),
		Precision:  w.source.Precision(),
	}
	w.pass.Sync(u, w.vertices, w.indices)
	return nil
}

// Draw issues the line draw.
func (w *Wireframe) Draw() error {
	if w.pass == nil {
		return ErrNotInitialized
	}
	w.pass.Draw(gpu.Lines, len(w.indices))
	return nil
}

// Close releases GPU resources.
func (w *Wireframe) Close() {
	if w.pass != nil {
		w.pass.Close()
		w.pass = nil
	}
}

// Vertices returns the derived vertex buffer.
func (w *Wireframe) Vertices() []float32 { return w.vertices }

// Indices returns the line index pairs.
func (w *Wireframe) Indices() []uint16 { return w.indices }

// Dirty returns a copy of the pending uniform flags.
func (w *Wireframe) Dirty() gpu.Dirty {
	if w.pass == nil {
		return gpu.Dirty{}
	}
	return w.pass.Dirty
}
