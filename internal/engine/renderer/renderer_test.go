package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tux-viewer/internal/engine/scenegraph"
)

func TestInterleave(t *testing.T) {
	mesh := &scenegraph.Mesh{
		Positions: []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}},
		Normals:   []mgl32.Vec3{{0, 0, 1}},
	}
	got := interleave(mesh)
	want := []float32{1, 2, 3, 0, 0, 1, 4, 5, 6, 0, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNormalMatrix(t *testing.T) {
	world := mgl32.Scale3D(2, 1, 1)
	n := normalMatrix(world)
	v := n.Mul3x1(mgl32.Vec3{1, 1, 0})
	want := mgl32.Vec3{0.5, 1, 0}
	if v.Sub(want).Len() > 1e-6 {
		t.Errorf("scaled normal = %v, want {0.5 1 0}", v)
	}

	if got := normalMatrix(mgl32.Scale3D(0, 1, 1)); got != mgl32.Ident3() {
		t.Errorf("singular world should give identity, got %v", got)
	}
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		ratio        float32
		wantW, wantH int32
	}{
		{"unit", 800, 600, 1, 800, 600},
		{"retina", 800, 600, 2, 1600, 1200},
		{"fractional", 801, 601, 1.5, 1202, 902},
		{"zero ratio", 640, 480, 0, 640, 480},
		{"degenerate", 0, 0, 2, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := scaledSize(tt.w, tt.h, tt.ratio)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("scaledSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
