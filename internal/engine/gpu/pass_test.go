package gpu_test

import (
	"errors"
	"testing"

	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
	"github.com/Faultbox/midgard-floor/internal/engine/gpu/gputest"
	"github.com/Faultbox/midgard-floor/pkg/math"
)

func newPass(t *testing.T, rec *gputest.Recorder) *gpu.Pass {
	t.Helper()
	p, err := gpu.NewPass("test", rec, "vs", "fs", nil)
	if err != nil {
		t.Fatalf("NewPass: %v", err)
	}
	return p
}

func TestNewPassMarksAllDirty(t *testing.T) {
	rec := gputest.New()
	p := newPass(t, rec)

	want := gpu.Dirty{Camera: true, Resolution: true, Mode: true, Precision: true}
	if p.Dirty != want {
		t.Errorf("dirty = %+v, want all raised", p.Dirty)
	}
	if n := rec.Count("EnableVertexAttribArray"); n != 3 {
		t.Errorf("expected 3 enabled attributes, got %d", n)
	}
	if n := rec.Count("CreateBuffer"); n != 2 {
		t.Errorf("expected 2 buffers, got %d", n)
	}
}

func TestNewPassProgramError(t *testing.T) {
	rec := gputest.New()
	rec.ProgramErr = errors.New("link failed")

	if _, err := gpu.NewPass("test", rec, "vs", "fs", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestSyncPushesDirtyOnce(t *testing.T) {
	rec := gputest.New()
	p := newPass(t, rec)
	rec.Reset()

	u := gpu.Uniforms{Time: 1, World: math.Identity(), Mode: 1, Precision: 2}
	p.Sync(u, make([]float32, 18), make([]uint16, 6))

	// time + resolution + 3 matrices + mode + precision
	if n := len(rec.UniformPushes()); n != 7 {
		t.Errorf("first sync should push 7 uniforms, got %d", n)
	}
	if p.Dirty.Any() {
		t.Errorf("flags should be cleared, got %+v", p.Dirty)
	}

	rec.Reset()
	p.Sync(u, make([]float32, 18), make([]uint16, 6))
	pushes := rec.UniformPushes()
	if len(pushes) != 1 || pushes[0].Name != gpu.UniformTime {
		t.Errorf("second sync should push only time, got %+v", pushes)
	}
	if rec.Count("BufferFloat32") != 1 || rec.Count("BufferUint16") != 1 {
		t.Error("buffers should be re-uploaded every sync")
	}
}

func TestSyncSkipsInactiveAttribute(t *testing.T) {
	rec := gputest.New()
	rec.Inactive[gpu.AttrColorSeed] = true
	p := newPass(t, rec)

	if n := rec.Count("EnableVertexAttribArray"); n != 2 {
		t.Errorf("inactive attribute should not be enabled, got %d enables", n)
	}

	rec.Reset()
	p.Sync(gpu.Uniforms{}, nil, nil)
	if n := rec.Count("VertexAttribPointer"); n != 2 {
		t.Errorf("expected 2 attribute pointers, got %d", n)
	}
	for _, c := range rec.Named("VertexAttribPointer") {
		if stride := c.Args[2].(int32); stride != 36 {
			t.Errorf("stride = %d, want 36", stride)
		}
	}
}

func TestDrawUsesMode(t *testing.T) {
	rec := gputest.New()
	p := newPass(t, rec)
	rec.Reset()

	p.Draw(gpu.Lines, 44)
	calls := rec.Named("DrawElements")
	if len(calls) != 1 {
		t.Fatalf("expected one draw, got %d", len(calls))
	}
	if calls[0].Args[1] != gpu.Lines || calls[0].Args[2] != int32(44) {
		t.Errorf("draw args = %v", calls[0].Args)
	}
}

type countingObserver struct {
	pushes  map[string]int
	uploads int
	draws   int
}

func (o *countingObserver) UniformPushed(pass, uniform string) { o.pushes[uniform]++ }
func (o *countingObserver) BuffersUploaded(pass string, v, i int) { o.uploads++ }
func (o *countingObserver) DrawIssued(pass string, mode gpu.DrawMode, count int) { o.draws++ }
func (o *countingObserver) MeshRebuilt(pass string, v, i int) {}

func TestObserverReceivesActivity(t *testing.T) {
	rec := gputest.New()
	obs := &countingObserver{pushes: make(map[string]int)}
	p, err := gpu.NewPass("surface", rec, "vs", "fs", obs)
	if err != nil {
		t.Fatal(err)
	}

	p.Sync(gpu.Uniforms{}, nil, nil)
	p.Sync(gpu.Uniforms{}, nil, nil)
	p.Draw(gpu.Triangles, 0)

	if obs.pushes[gpu.UniformTime] != 2 {
		t.Errorf("time pushes = %d, want 2", obs.pushes[gpu.UniformTime])
	}
	if obs.pushes[gpu.UniformMode] != 1 {
		t.Errorf("mode pushes = %d, want 1", obs.pushes[gpu.UniformMode])
	}
	if obs.uploads != 2 || obs.draws != 1 {
		t.Errorf("uploads=%d draws=%d", obs.uploads, obs.draws)
	}
}
