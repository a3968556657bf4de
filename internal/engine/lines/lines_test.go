package lines

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/Faultbox/midgard-floor/internal/engine/camera"
	"github.com/Faultbox/midgard-floor/internal/engine/floor"
	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
	"github.com/Faultbox/midgard-floor/internal/engine/gpu/gputest"
)

var _ Source = (*floor.Surface)(nil)

type fakeSource struct {
	vertices   []float32
	cols, rows int
	mode       floor.Mode
	precision  float32
}

func (f *fakeSource) Vertices() []float32 { return f.vertices }
func (f *fakeSource) Cols() int { return f.cols }
func (f *fakeSource) Rows() int { return f.rows }
func (f *fakeSource) Mode() floor.Mode { return f.mode }
func (f *fakeSource) Precision() float32 { return f.precision }

func TestDeriveIndicesFourByTwo(t *testing.T) {
	want := []uint16{
		4, 0, 0, 1, 1, 4, 4, 1, 1, 5, 5, 4,
		5, 1, 1, 2, 2, 5, 5, 2, 2, 6, 6, 5,
		6, 2, 2, 3, 3, 6, 6, 3, 3, 7, 7, 6,
		7, 3,
		4, 5,
		5, 6,
		6, 7,
	}

	got := DeriveIndices(4, 2)
	if len(got) != 44 {
		t.Fatalf("expected 44 indices, got %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDeriveIndicesCount(t *testing.T) {
	tests := []struct {
		cols, rows int
		want       int
	}{
		{0, 0, 0},
		{1, 1, 0},
		{3, 1, 4},
		{1, 3, 4},
		{2, 2, 2*2 + 12},
		{4, 2, 44},
	}

	for _, tt := range tests {
		if got := len(DeriveIndices(tt.cols, tt.rows)); got != tt.want {
			t.Errorf("DeriveIndices(%d, %d) = %d indices, want %d", tt.cols, tt.rows, got, tt.want)
		}
	}
}

func TestDeriveIndicesPairsInRange(t *testing.T) {
	const cols, rows = 21, 13
	got := DeriveIndices(cols, rows)
	if len(got)%2 != 0 {
		t.Fatalf("odd index count %d", len(got))
	}
	for i, idx := range got {
		if int(idx) >= cols*rows {
			t.Fatalf("index[%d] = %d out of range", i, idx)
		}
	}
}

func TestDeriveVertices(t *testing.T) {
	mesh, err := floor.BuildGrid(200, 100, 100, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}

	got := DeriveVertices(mesh.Vertices)
	if len(got) != len(mesh.Vertices) {
		t.Fatalf("length = %d, want %d", len(got), len(mesh.Vertices))
	}
	for i := range got {
		k := i % gpu.VertexStride
		if k >= gpu.ColorSeedOffset && k < gpu.VelocitySeedOffset {
			if got[i] != 1 {
				t.Errorf("float %d (color) = %v, want 1", i, got[i])
			}
			continue
		}
		if got[i] != mesh.Vertices[i] {
			t.Errorf("float %d = %v, want %v", i, got[i], mesh.Vertices[i])
		}
	}

	if mesh.Vertices[gpu.ColorSeedOffset] == 1 {
		t.Error("source buffer was modified")
	}
}

func newWireframe(t *testing.T, rec *gputest.Recorder, src Source) *Wireframe {
	t.Helper()
	w := New(rec, camera.New(200, 100, 0, 3.05), nil)
	if err := w.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := w.SetSource(src); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	return w
}

func TestWireframeRequiresSource(t *testing.T) {
	w := New(gputest.New(), camera.New(10, 10, 0, 0), nil)
	if err := w.Recalculate(); !errors.Is(err, ErrNoSource) {
		t.Errorf("Recalculate without source: got %v", err)
	}
	if err := w.Draw(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Draw before Init: got %v", err)
	}
}

func TestWireframeReadsModeFromSource(t *testing.T) {
	rec := gputest.New()
	src := &fakeSource{vertices: make([]float32, 8*gpu.VertexStride), cols: 4, rows: 2, mode: floor.ModeSin, precision: 0.5}
	w := newWireframe(t, rec, src)
	rec.Reset()

	if err := w.Update(0, 10); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var mode, precision int
	for _, p := range rec.UniformPushes() {
		switch p.Name {
		case gpu.UniformMode:
			mode++
			if p.Value.(int32) != int32(floor.ModeSin) {
				t.Errorf("mode = %v, want sin", p.Value)
			}
		case gpu.UniformPrecision:
			precision++
			if p.Value.(float32) != 0.5 {
				t.Errorf("precision = %v, want 0.5", p.Value)
			}
		}
	}
	if mode != 1 || precision != 1 {
		t.Errorf("mode pushes = %d, precision pushes = %d, want 1 each", mode, precision)
	}

	src.mode = floor.ModeNoise
	rec.Reset()
	w.MarkModeDirty()
	if err := w.Update(0, 20); err != nil {
		t.Fatalf("Update: %v", err)
	}
	for _, p := range rec.UniformPushes() {
		if p.Name == gpu.UniformMode && p.Value.(int32) != int32(floor.ModeNoise) {
			t.Errorf("mode = %v, want noise", p.Value)
		}
	}
}

func TestWireframeDrawLines(t *testing.T) {
	rec := gputest.New()
	src := &fakeSource{vertices: make([]float32, 8*gpu.VertexStride), cols: 4, rows: 2}
	w := newWireframe(t, rec, src)
	rec.Reset()

	if err := w.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	draws := rec.Named("DrawElements")
	if len(draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(draws))
	}
	if draws[0].Args[1] != gpu.Lines || draws[0].Args[2] != int32(44) {
		t.Errorf("draw args = %v, want lines x44", draws[0].Args)
	}
}

func TestWireframeFollowsSurfaceRebuild(t *testing.T) {
	rec := gputest.New()
	vb := camera.New(200, 100, 0, 3.05)
	surface := floor.New(rec, vb, floor.Config{Scale: 100, Precision: 1, Rand: rand.New(rand.NewPCG(1, 2))})
	if err := surface.Init(); err != nil {
		t.Fatalf("surface Init: %v", err)
	}
	w := newWireframe(t, rec, surface)

	if err := surface.SetScale(50); err != nil {
		t.Fatalf("SetScale: %v", err)
	}
	if err := w.Recalculate(); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if want := DeriveIndices(8, 4); len(w.Indices()) != len(want) {
		t.Errorf("indices = %d, want %d", len(w.Indices()), len(want))
	}
	if len(w.Vertices()) != len(surface.Vertices()) {
		t.Errorf("vertices = %d, want %d", len(w.Vertices()), len(surface.Vertices()))
	}
}
