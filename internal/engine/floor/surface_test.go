package floor

import (
	"errors"
	"testing"

	"github.com/Faultbox/midgard-floor/internal/engine/camera"
	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
	"github.com/Faultbox/midgard-floor/internal/engine/gpu/gputest"
)

type rebuildCounter struct{ rebuilds int }

func (c *rebuildCounter) UniformPushed(string, string) {}
func (c *rebuildCounter) BuffersUploaded(string, int, int) {}
func (c *rebuildCounter) DrawIssued(string, gpu.DrawMode, int) {}
func (c *rebuildCounter) MeshRebuilt(string, int, int) { c.rebuilds++ }

func newSurface(t *testing.T, rec *gputest.Recorder, obs gpu.Observer) *Surface {
	t.Helper()
	vb := camera.New(200, 100, 0, 3.05)
	s := New(rec, vb, Config{Scale: 100, Mode: ModeNoise, Precision: 1, Rand: testRand(), Observer: obs})
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestSurfaceInit(t *testing.T) {
	rec := gputest.New()
	obs := &rebuildCounter{}
	s := newSurface(t, rec, obs)

	if s.Cols() != 4 || s.Rows() != 2 {
		t.Errorf("grid = %dx%d, want 4x2", s.Cols(), s.Rows())
	}
	if len(s.Indices()) != 18 {
		t.Errorf("indices = %d, want 18", len(s.Indices()))
	}
	if !s.Dirty().Any() {
		t.Error("all flags should be raised after Init")
	}
	if obs.rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", obs.rebuilds)
	}
	if s.Version() != 1 {
		t.Errorf("version = %d, want 1", s.Version())
	}
}

func TestSurfaceNotInitialized(t *testing.T) {
	s := New(gputest.New(), camera.New(10, 10, 0, 0), Config{Scale: 1})
	if err := s.Update(0, 0); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Update before Init: got %v", err)
	}
	if err := s.Draw(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Draw before Init: got %v", err)
	}
}

func TestSurfaceModeSwitchSkipsRebuild(t *testing.T) {
	rec := gputest.New()
	obs := &rebuildCounter{}
	s := newSurface(t, rec, obs)
	if err := s.Update(1/60.0, 16); err != nil {
		t.Fatalf("Update: %v", err)
	}
	rec.Reset()

	s.SetMode(ModeSin)
	if err := s.Update(1/60.0, 32); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var modePushes int
	for _, p := range rec.UniformPushes() {
		if p.Name == gpu.UniformMode {
			modePushes++
			if p.Value.(int32) != int32(ModeSin) {
				t.Errorf("pushed mode %v, want %d", p.Value, ModeSin)
			}
		}
	}
	if modePushes != 1 {
		t.Errorf("mode pushes = %d, want 1", modePushes)
	}
	if obs.rebuilds != 1 {
		t.Errorf("mode switch rebuilt the mesh (%d rebuilds)", obs.rebuilds)
	}

	rec.Reset()
	if err := s.Update(1/60.0, 48); err != nil {
		t.Fatalf("Update: %v", err)
	}
	for _, p := range rec.UniformPushes() {
		if p.Name != gpu.UniformTime {
			t.Errorf("unexpected push of %s on a clean frame", p.Name)
		}
	}
}

func TestSurfaceSetScale(t *testing.T) {
	rec := gputest.New()
	s := newSurface(t, rec, nil)

	if err := s.SetScale(50); err != nil {
		t.Fatalf("SetScale: %v", err)
	}
	if s.Cols() != 8 || s.Rows() != 4 {
		t.Errorf("grid = %dx%d, want 8x4", s.Cols(), s.Rows())
	}
	if s.Version() != 2 {
		t.Errorf("version = %d, want 2", s.Version())
	}
}

func TestSurfaceSetScaleOverflowKeepsMesh(t *testing.T) {
	rec := gputest.New()
	s := newSurface(t, rec, nil)
	before := len(s.Indices())

	if err := s.SetScale(0.01); !errors.Is(err, ErrTooManyVertices) {
		t.Fatalf("expected ErrTooManyVertices, got %v", err)
	}
	if s.Scale() != 100 {
		t.Errorf("scale = %v, want previous 100", s.Scale())
	}
	if len(s.Indices()) != before || s.Version() != 1 {
		t.Error("previous mesh should be kept")
	}
}

func TestSurfaceDrawTriangles(t *testing.T) {
	rec := gputest.New()
	s := newSurface(t, rec, nil)
	rec.Reset()

	if err := s.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	draws := rec.Named("DrawElements")
	if len(draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(draws))
	}
	if draws[0].Args[1] != gpu.Triangles || draws[0].Args[2] != int32(18) {
		t.Errorf("draw args = %v, want triangles x18", draws[0].Args)
	}
}

func TestSurfaceClose(t *testing.T) {
	rec := gputest.New()
	s := newSurface(t, rec, nil)
	s.Close()
	s.Close()

	if n := rec.Count("DeleteProgram"); n != 1 {
		t.Errorf("DeleteProgram calls = %d, want 1", n)
	}
	if n := rec.Count("DeleteBuffer"); n != 2 {
		t.Errorf("DeleteBuffer calls = %d, want 2", n)
	}
}
