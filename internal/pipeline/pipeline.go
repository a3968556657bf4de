// Package pipeline drives the surface and wireframe programs: it owns the
// view box and the frame clock, buffers configuration until the GPU is
// ready and pushes changes to both programs through their dirty flags.
package pipeline

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-floor/internal/engine/camera"
	"github.com/Faultbox/midgard-floor/internal/engine/floor"
	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
	"github.com/Faultbox/midgard-floor/internal/engine/lines"
	"github.com/Faultbox/midgard-floor/internal/logger"
)

var (
	// ErrBackendUnavailable is returned when the canvas cannot provide a
	// GPU context.
	ErrBackendUnavailable = errors.New("graphics backend unavailable")
	// ErrNotInitialized is returned by operations that need Initialize first.
	ErrNotInitialized = errors.New("pipeline not initialized")
	// ErrAlreadyInitialized is returned by a second Initialize.
	ErrAlreadyInitialized = errors.New("pipeline already initialized")
)

// Status is the pipeline lifecycle state.
type Status int

const (
	NotReady Status = iota
	Initialized
	Running
)

func (s Status) String() string {
	switch s {
	case NotReady:
		return "not_ready"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Canvas is the drawing surface: its pixel size and its GPU context.
type Canvas interface {
	Size() (width, height int)
	Context() (gpu.Backend, error)
}

// FrameFunc is a frame callback. now is a timestamp in milliseconds.
type FrameFunc func(now float64)

// Scheduler runs a callback on the next frame. The pipeline re-arms after
// every frame until stopped.
type Scheduler interface {
	RequestFrame(fn FrameFunc)
}

// Metrics observes pass activity and frame timing.
type Metrics interface {
	gpu.Observer
	FrameObserved(delta float64, clamped bool)
}

// Settings is the user-facing configuration.
type Settings struct {
	BackgroundColor string
	Pitch           float32
	Yaw             float32
	Scale           float32
	Mode            floor.Mode
	Precision       float32
}

// DefaultSettings returns the stock view: black background looking
// across the floor at yaw 3.05.
func DefaultSettings() Settings {
	return Settings{
		BackgroundColor: "#000",
		Pitch:           0,
		Yaw:             3.05,
		Scale:           60,
		Mode:            floor.ModeNoise,
		Precision:       1,
	}
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics attaches a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithRand sets the mesh jitter source.
func WithRand(rng *rand.Rand) Option {
	return func(p *Pipeline) { p.rng = rng }
}

// WithNow overrides the timestamp source used to seed the clock.
func WithNow(now func() float64) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithSettings replaces the initial settings.
func WithSettings(s Settings) Option {
	return func(p *Pipeline) { p.settings = s }
}

// Pipeline orchestrates the two programs. It is not safe for concurrent
// use; every method runs on the render thread.
type Pipeline struct {
	canvas    Canvas
	scheduler Scheduler
	metrics   Metrics
	rng       *rand.Rand
	now       func() float64
	log       *zap.Logger

	settings   Settings
	background [3]float32
	status     Status
	running    bool
	armed      bool
	clock      Clock

	backend   gpu.Backend
	viewBox   *camera.ViewBox
	surface   *floor.Surface
	wireframe *lines.Wireframe
}

// New creates a pipeline in the NotReady state.
func New(canvas Canvas, scheduler Scheduler, opts ...Option) (*Pipeline, error) {
	start := time.Now()
	p := &Pipeline{
		canvas:    canvas,
		scheduler: scheduler,
		settings:  DefaultSettings(),
		now: func() float64 {
			return float64(time.Since(start)) / float64(time.Millisecond)
		},
		log: logger.Named("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.SetBackgroundColor(p.settings.BackgroundColor); err != nil {
		return nil, err
	}
	return p, nil
}

// SetBackgroundColor sets the clear color from a CSS hex string.
// An invalid color is rejected and the previous one kept.
func (p *Pipeline) SetBackgroundColor(hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("background color %q: %w", hex, err)
	}
	p.settings.BackgroundColor = hex
	p.background = [3]float32{float32(c.R), float32(c.G), float32(c.B)}
	return nil
}

// SetPitch sets the camera pitch in radians.
func (p *Pipeline) SetPitch(pitch float32) {
	p.settings.Pitch = pitch
	if p.status == NotReady {
		return
	}
	p.viewBox.SetPitch(pitch)
	p.markCameraDirty()
}

// SetYaw sets the camera yaw in radians.
func (p *Pipeline) SetYaw(yaw float32) {
	p.settings.Yaw = yaw
	if p.status == NotReady {
		return
	}
	p.viewBox.SetYaw(yaw)
	p.markCameraDirty()
}

// SetScale sets the grid cell size and rebuilds both meshes. If the
// rebuild is rejected the previous scale stays in effect.
func (p *Pipeline) SetScale(scale float32) error {
	if p.status == NotReady {
		p.settings.Scale = scale
		return nil
	}
	if err := p.surface.SetScale(scale); err != nil {
		return fmt.Errorf("set scale %v: %w", scale, err)
	}
	p.settings.Scale = scale
	return p.wireframe.Recalculate()
}

// SetMode sets the shading mode. Geometry is not rebuilt.
func (p *Pipeline) SetMode(mode floor.Mode) {
	p.settings.Mode = mode
	if p.status == NotReady {
		return
	}
	p.surface.SetMode(mode)
	p.wireframe.MarkModeDirty()
}

// SetPrecision sets the shader precision. Geometry is not rebuilt.
func (p *Pipeline) SetPrecision(precision float32) {
	p.settings.Precision = precision
	if p.status == NotReady {
		return
	}
	p.surface.SetPrecision(precision)
	p.wireframe.MarkPrecisionDirty()
}

// Initialize acquires the GPU context, builds both meshes and compiles
// both programs.
func (p *Pipeline) Initialize() error {
	if p.status != NotReady {
		return ErrAlreadyInitialized
	}

	backend, err := p.canvas.Context()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	if backend == nil {
		return ErrBackendUnavailable
	}

	width, height := p.canvas.Size()
	backend.Setup()
	backend.Viewport(0, 0, int32(width), int32(height))

	s := p.settings
	viewBox := camera.New(width, height, s.Pitch, s.Yaw)

	var observer gpu.Observer
	if p.metrics != nil {
		observer = p.metrics
	}

	surface := floor.New(backend, viewBox, floor.Config{
		Scale:     s.Scale,
		Mode:      s.Mode,
		Precision: s.Precision,
		Rand:      p.rng,
		Observer:  observer,
	})
	if err := surface.Init(); err != nil {
		return fmt.Errorf("initialize surface: %w", err)
	}

	wireframe := lines.New(backend, viewBox, observer)
	if err := wireframe.Init(); err != nil {
		surface.Close()
		return fmt.Errorf("initialize wireframe: %w", err)
	}
	if err := wireframe.SetSource(surface); err != nil {
		surface.Close()
		wireframe.Close()
		return fmt.Errorf("initialize wireframe: %w", err)
	}

	p.backend = backend
	p.viewBox = viewBox
	p.surface = surface
	p.wireframe = wireframe
	p.status = Initialized

	p.log.Info("pipeline initialized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("cols", surface.Cols()),
		zap.Int("rows", surface.Rows()),
		zap.Stringer("mode", s.Mode),
	)
	return nil
}

// Start seeds the clock and schedules the first frame. If a frame from an
// earlier run is still pending it resumes that chain instead.
func (p *Pipeline) Start() error {
	switch p.status {
	case NotReady:
		return ErrNotInitialized
	case Running:
		return nil
	}

	p.clock.Seed(p.now())
	p.running = true
	p.status = Running
	if !p.armed {
		p.arm()
	}
	return nil
}

// Stop declines to schedule further frames. A frame already scheduled
// still runs once.
func (p *Pipeline) Stop() {
	if p.status != Running {
		return
	}
	p.running = false
	p.status = Initialized
}

func (p *Pipeline) arm() {
	p.armed = true
	p.scheduler.RequestFrame(p.frame)
}

func (p *Pipeline) frame(now float64) {
	p.armed = false
	if p.status == NotReady {
		return
	}

	delta, clamped := p.clock.Advance(now)
	if p.metrics != nil {
		p.metrics.FrameObserved(delta, clamped)
	}

	bg := p.background
	p.backend.ClearColor(bg[0], bg[1], bg[2], 1)
	p.backend.Clear()

	t := float32(p.clock.Current())
	if err := p.surface.Update(delta, t); err != nil {
		p.log.Error("surface update", zap.Error(err))
	} else if err := p.surface.Draw(); err != nil {
		p.log.Error("surface draw", zap.Error(err))
	}
	if err := p.wireframe.Update(delta, t); err != nil {
		p.log.Error("wireframe update", zap.Error(err))
	} else if err := p.wireframe.Draw(); err != nil {
		p.log.Error("wireframe draw", zap.Error(err))
	}

	if p.running {
		p.arm()
	}
}

// Recalculate handles a resize: if the canvas size changed it updates the
// viewport and the view box and rebuilds both meshes.
func (p *Pipeline) Recalculate() error {
	if p.status == NotReady {
		return nil
	}

	width, height := p.canvas.Size()
	if width == p.viewBox.Width() && height == p.viewBox.Height() {
		return nil
	}

	p.backend.Viewport(0, 0, int32(width), int32(height))
	p.viewBox.SetSize(width, height)
	p.markCameraDirty()
	p.surface.MarkResolutionDirty()
	p.wireframe.MarkResolutionDirty()

	p.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))

	if err := p.surface.Recalculate(); err != nil {
		return fmt.Errorf("resize to %dx%d: %w", width, height, err)
	}
	return p.wireframe.Recalculate()
}

// Close stops scheduling and releases GPU resources.
func (p *Pipeline) Close() {
	p.Stop()
	if p.status == NotReady {
		return
	}
	p.wireframe.Close()
	p.surface.Close()
	p.status = NotReady
}

// ReadFrame reads back the current framebuffer as RGBA, bottom row first.
func (p *Pipeline) ReadFrame() (pixels []byte, width, height int, err error) {
	if p.status == NotReady {
		return nil, 0, 0, ErrNotInitialized
	}
	width, height = p.viewBox.Width(), p.viewBox.Height()
	return p.backend.ReadPixels(0, 0, int32(width), int32(height)), width, height, nil
}

// Status returns the lifecycle state.
func (p *Pipeline) Status() Status { return p.status }

// Settings returns the current configuration.
func (p *Pipeline) Settings() Settings { return p.settings }

// BackgroundColor returns the cached clear color.
func (p *Pipeline) BackgroundColor() [3]float32 { return p.background }

// Clock returns a copy of the frame clock.
func (p *Pipeline) Clock() Clock { return p.clock }

// ViewBox returns the camera, or nil before Initialize.
func (p *Pipeline) ViewBox() *camera.ViewBox { return p.viewBox }

// Surface returns the surface program, or nil before Initialize.
func (p *Pipeline) Surface() *floor.Surface { return p.surface }

// Wireframe returns the wireframe program, or nil before Initialize.
func (p *Pipeline) Wireframe() *lines.Wireframe { return p.wireframe }

func (p *Pipeline) markCameraDirty() {
	p.surface.MarkCameraDirty()
	p.wireframe.MarkCameraDirty()
}
