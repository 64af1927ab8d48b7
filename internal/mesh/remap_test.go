package mesh

import (
	"testing"

	"github.com/AntiCG/AliceVision/internal/geom"
)

func TestRemapVisibilities_Permuted(t *testing.T) {
	ref := testQuad()
	refVis := PointVisibility{{0}, {1}, {2}, {0, 1}}

	// Same positions in reverse vertex order.
	dst := &Mesh{
		Points: []geom.Vec3{
			ref.Points[3],
			ref.Points[2],
			ref.Points[1],
			ref.Points[0],
		},
		Tris: [][3]int{{3, 2, 1}, {3, 1, 0}},
	}

	got := RemapVisibilities(ref, refVis, dst)
	if len(got) != 4 {
		t.Fatalf("got %d entries, want 4", len(got))
	}
	want := PointVisibility{{0, 1}, {2}, {1}, {0}}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Errorf("entry %d: got %v, want %v", i, got[i], want[i])
			continue
		}
		for k := range want[i] {
			if got[i][k] != want[i][k] {
				t.Errorf("entry %d: got %v, want %v", i, got[i], want[i])
			}
		}
	}
}

func TestRemapVisibilities_SplitVertices(t *testing.T) {
	// A destination with duplicated vertices (UV seam splitting) assigns each
	// copy the cameras of the shared source position.
	ref := &Mesh{
		Points: []geom.Vec3{{0, 0, 0}, {5, 0, 0}},
		Tris:   nil,
	}
	refVis := PointVisibility{{7}, {3, 4}}

	dst := &Mesh{
		Points: []geom.Vec3{{0, 0, 0}, {0, 0, 0}, {5, 0, 0}},
	}

	got := RemapVisibilities(ref, refVis, dst)
	if len(got[0]) != 1 || got[0][0] != 7 {
		t.Errorf("split copy 0: got %v", got[0])
	}
	if len(got[1]) != 1 || got[1][0] != 7 {
		t.Errorf("split copy 1: got %v", got[1])
	}
	if len(got[2]) != 2 || got[2][0] != 3 {
		t.Errorf("entry 2: got %v", got[2])
	}
}

func TestRemapVisibilities_NearbyNotExact(t *testing.T) {
	ref := &Mesh{Points: []geom.Vec3{{0, 0, 0}, {10, 10, 10}}}
	refVis := PointVisibility{{1}, {2}}

	// Slightly perturbed positions, as an external round-trip produces.
	dst := &Mesh{Points: []geom.Vec3{{0.0001, 0, 0}, {9.9999, 10, 10}}}

	got := RemapVisibilities(ref, refVis, dst)
	if len(got[0]) != 1 || got[0][0] != 1 {
		t.Errorf("entry 0: got %v", got[0])
	}
	if len(got[1]) != 1 || got[1][0] != 2 {
		t.Errorf("entry 1: got %v", got[1])
	}
}

func TestRemapVisibilities_EmptyRef(t *testing.T) {
	dst := &Mesh{Points: []geom.Vec3{{1, 2, 3}}}
	got := RemapVisibilities(&Mesh{}, nil, dst)
	if len(got) != 1 || got[0] != nil {
		t.Errorf("expected one empty entry, got %v", got)
	}
}
