package shaders

import (
	"strings"
	"testing"

	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
)

func TestComposeReplacesPlaceholders(t *testing.T) {
	for name, src := range map[string]string{
		"floor": FloorVertexShader,
		"lines": LinesVertexShader,
	} {
		for _, ph := range []string{"{defines}", "{properties}", "{functions}", "{body}"} {
			if strings.Contains(src, ph) {
				t.Errorf("%s: placeholder %s left in source", name, ph)
			}
		}
		if !strings.HasPrefix(strings.TrimSpace(src), "#version") {
			t.Errorf("%s: #version must come first", name)
		}
	}
}

func TestShadersDeclareSlots(t *testing.T) {
	for _, name := range append(append([]string{}, gpu.AttributeNames...), gpu.UniformNames...) {
		if !strings.Contains(FloorVertexShader, name) {
			t.Errorf("floor shader missing %s", name)
		}
		if !strings.Contains(LinesVertexShader, name) {
			t.Errorf("lines shader missing %s", name)
		}
	}
}

func TestLinesOffsetTowardCamera(t *testing.T) {
	if !strings.Contains(LinesVertexShader, "z += .002") {
		t.Error("wireframe should be lifted above the surface")
	}
}
