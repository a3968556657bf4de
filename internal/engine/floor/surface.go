package floor

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-floor/internal/engine/camera"
	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
	"github.com/Faultbox/midgard-floor/internal/engine/shaders"
	"github.com/Faultbox/midgard-floor/internal/logger"
)

// PassName labels the surface program in logs and metrics.
const PassName = "surface"

// ErrNotInitialized is returned when drawing before Init.
var ErrNotInitialized = errors.New("surface program not initialized")

// Config is the surface's initial configuration.
type Config struct {
	Scale     float32
	Mode      Mode
	Precision float32

	// Rand seeds the per-vertex jitter. Nil uses a randomly seeded PCG.
	Rand *rand.Rand
	// Observer receives pass and rebuild activity. Optional.
	Observer gpu.Observer
}

// Surface is the filled floor program: it owns the grid mesh and pushes it
// to the GPU every frame.
type Surface struct {
	backend gpu.Backend
	viewBox *camera.ViewBox

	scale     float32
	mode      Mode
	precision float32

	rng      *rand.Rand
	observer gpu.Observer
	log      *zap.Logger

	mesh    Mesh
	version uint64
	pass    *gpu.Pass
}

// New creates the surface program. Geometry is built by Init.
func New(backend gpu.Backend, viewBox *camera.ViewBox, cfg Config) *Surface {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Surface{
		backend:   backend,
		viewBox:   viewBox,
		scale:     cfg.Scale,
		mode:      cfg.Mode,
		precision: cfg.Precision,
		rng:       rng,
		observer:  cfg.Observer,
		log:       logger.Named(PassName),
	}
}

// Init builds the grid, compiles the program and raises all dirty flags.
func (s *Surface) Init() error {
	if err := s.rebuild(s.scale); err != nil {
		return err
	}

	pass, err := gpu.NewPass(PassName, s.backend, shaders.FloorVertexShader, shaders.FloorFragmentShader, s.observer)
	if err != nil {
		return fmt.Errorf("init surface: %w", err)
	}
	s.pass = pass
	return nil
}

// SetScale changes the cell size and rebuilds the grid. On error the
// previous scale and mesh stay in place.
func (s *Surface) SetScale(scale float32) error {
	if err := s.rebuild(scale); err != nil {
		return err
	}
	s.scale = scale
	return nil
}

// Recalculate rebuilds the grid for the current view box size.
func (s *Surface) Recalculate() error {
	return s.rebuild(s.scale)
}

// SetMode switches the shading mode. Geometry is untouched.
func (s *Surface) SetMode(mode Mode) {
	s.mode = mode
	if s.pass != nil {
		s.pass.Dirty.Mode = true
	}
}

// SetPrecision changes the shader precision. Geometry is untouched.
func (s *Surface) SetPrecision(precision float32) {
	s.precision = precision
	if s.pass != nil {
		s.pass.Dirty.Precision = true
	}
}

// MarkCameraDirty schedules a camera uniform push.
func (s *Surface) MarkCameraDirty() {
	if s.pass != nil {
		s.pass.Dirty.Camera = true
	}
}

// MarkResolutionDirty schedules a resolution uniform push.
func (s *Surface) MarkResolutionDirty() {
	if s.pass != nil {
		s.pass.Dirty.Resolution = true
	}
}

// Update pushes uniforms and re-uploads the mesh. t is the frame
// timestamp in milliseconds.
func (s *Surface) Update(deltaT float64, t float32) error {
	if s.pass == nil {
		return ErrNotInitialized
	}
	s.pass.Sync(s.uniforms(t), s.mesh.Vertices, s.mesh.Indices)
	return nil
}

// Draw issues the triangle draw.
func (s *Surface) Draw() error {
	if s.pass == nil {
		return ErrNotInitialized
	}
	s.pass.Draw(gpu.Triangles, len(s.mesh.Indices))
	return nil
}

// Close releases GPU resources.
func (s *Surface) Close() {
	if s.pass != nil {
		s.pass.Close()
		s.pass = nil
	}
}

// Vertices returns the interleaved vertex buffer. Callers must not modify it.
func (s *Surface) Vertices() []float32 { return s.mesh.Vertices }

// Indices returns the triangle index list.
func (s *Surface) Indices() []uint16 { return s.mesh.Indices }

// Cols returns the grid column count.
func (s *Surface) Cols() int { return s.mesh.Cols }

// Rows returns the grid row count.
func (s *Surface) Rows() int { return s.mesh.Rows }

// Mode returns the shading mode.
func (s *Surface) Mode() Mode { return s.mode }

// Precision returns the shader precision.
func (s *Surface) Precision() float32 { return s.precision }

// Scale returns the cell size.
func (s *Surface) Scale() float32 { return s.scale }

// Version increments on every geometry rebuild.
func (s *Surface) Version() uint64 { return s.version }

// Dirty returns a copy of the pending uniform flags.
func (s *Surface) Dirty() gpu.Dirty {
	if s.pass == nil {
		return gpu.Dirty{}
	}
	return s.pass.Dirty
}

func (s *Surface) rebuild(scale float32) error {
	mesh, err := BuildGrid(s.viewBox.Width(), s.viewBox.Height(), scale, s.rng)
	if err != nil {
		s.log.Warn("grid rebuild rejected",
			zap.Float32("scale", scale),
			zap.Int("width", s.viewBox.Width()),
			zap.Int("height", s.viewBox.Height()),
			zap.Error(err),
		)
		return err
	}

	s.mesh = mesh
	s.version++
	s.log.Debug("grid rebuilt",
		zap.Int("cols", mesh.Cols),
		zap.Int("rows", mesh.Rows),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("indices", len(mesh.Indices)),
	)
	if s.observer != nil {
		s.observer.MeshRebuilt(PassName, len(mesh.Vertices), len(mesh.Indices))
	}
	return nil
}

func (s *Surface) uniforms(t float32) gpu.Uniforms {
	return gpu.Uniforms{
		Time:       t,
		Resolution: s.viewBox.ResolutionVector(),
		World:      s.viewBox.World(),
		View:       s.viewBox.View(),
		Projection: s.viewBox.Projection(),
		Mode:       int32(s.mode),
		Precision:  s.precision,
	}
}
