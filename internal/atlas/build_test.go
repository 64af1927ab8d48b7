package atlas

import (
	"errors"
	"reflect"
	"testing"

	"github.com/AntiCG/AliceVision/internal/camera"
	"github.com/AntiCG/AliceVision/internal/geom"
	"github.com/AntiCG/AliceVision/internal/mesh"
)

// orthoCam projects (x, y, z) to (s*x+tx, s*y+ty) for any z.
func orthoCam(s, tx, ty float64, w, h int) camera.Camera {
	return camera.Camera{
		Width:  w,
		Height: h,
		Image:  "unused.png",
		P: [3][4]float64{
			{s, 0, 0, tx},
			{0, s, 0, ty},
			{0, 0, 0, 1},
		},
	}
}

func quadMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Points: []geom.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Tris:   [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

// triangleCounts tallies how often each triangle id appears over all charts.
func triangleCounts(atlases []Atlas) map[int]int {
	counts := map[int]int{}
	for _, a := range atlases {
		for _, c := range a.Charts {
			for _, t := range c.Triangles {
				counts[t]++
			}
		}
	}
	return counts
}

func assertEachTriangleOnce(t *testing.T, atlases []Atlas, ntris int) {
	t.Helper()
	counts := triangleCounts(atlases)
	for i := 0; i < ntris; i++ {
		if counts[i] != 1 {
			t.Errorf("triangle %d appears %d times, want 1", i, counts[i])
		}
	}
	if len(counts) != ntris {
		t.Errorf("atlases contain %d distinct triangles, want %d", len(counts), ntris)
	}
}

func TestBuildTwoCameras(t *testing.T) {
	m := quadMesh()
	vis := mesh.PointVisibility{{0}, {0}, {1}, {1}}
	rig := &camera.Rig{Cameras: []camera.Camera{
		orthoCam(10, 0, 0, 100, 100),
		orthoCam(10, 0, 0, 100, 100),
	}}

	atlases, err := Build(m, vis, rig, 64, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertEachTriangleOnce(t, atlases, 2)

	refCams := map[int]bool{}
	for _, a := range atlases {
		for _, c := range a.Charts {
			refCams[c.RefCamera] = true
			if c.TargetLU.X < 2 || c.TargetLU.Y < 2 {
				t.Errorf("chart placed inside padding margin at %v", c.TargetLU)
			}
			if c.TargetLU.X+c.Width() > 62 || c.TargetLU.Y+c.Height() > 62 {
				t.Errorf("chart exceeds usable area: %v + %dx%d", c.TargetLU, c.Width(), c.Height())
			}
		}
	}
	if !refCams[0] || !refCams[1] {
		t.Errorf("reference cameras = %v, want 0 and 1", refCams)
	}

	// Packed charts must not overlap.
	for _, a := range atlases {
		for i := range a.Charts {
			for j := i + 1; j < len(a.Charts); j++ {
				ci, cj := &a.Charts[i], &a.Charts[j]
				if rectsOverlap(ci, cj) {
					t.Errorf("charts %d and %d overlap", i, j)
				}
			}
		}
	}
}

func rectsOverlap(a, b *Chart) bool {
	return a.TargetLU.X < b.TargetLU.X+b.Width() &&
		b.TargetLU.X < a.TargetLU.X+a.Width() &&
		a.TargetLU.Y < b.TargetLU.Y+b.Height() &&
		b.TargetLU.Y < a.TargetLU.Y+a.Height()
}

func TestBuildTieBreaksLowerCamera(t *testing.T) {
	m := quadMesh()
	vis := mesh.PointVisibility{{1, 0}, {1, 0}, {1, 0}, {1, 0}}
	rig := &camera.Rig{Cameras: []camera.Camera{
		orthoCam(10, 0, 0, 100, 100),
		orthoCam(10, 0, 0, 100, 100),
	}}

	atlases, err := Build(m, vis, rig, 64, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, a := range atlases {
		for _, c := range a.Charts {
			if c.RefCamera != 0 {
				t.Errorf("RefCamera = %d, want tie broken to 0", c.RefCamera)
			}
		}
	}
}

func TestBuildNoCameraChart(t *testing.T) {
	m := quadMesh()
	vis := mesh.PointVisibility{{}, {}, {}, {}}
	rig := &camera.Rig{Cameras: []camera.Camera{orthoCam(10, 0, 0, 100, 100)}}

	atlases, err := Build(m, vis, rig, 64, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertEachTriangleOnce(t, atlases, 2)
	if len(atlases) != 1 || len(atlases[0].Charts) != 1 {
		t.Fatalf("want a single chart, got %+v", atlases)
	}
	c := atlases[0].Charts[0]
	if c.RefCamera != -1 {
		t.Errorf("RefCamera = %d, want -1", c.RefCamera)
	}
	if c.Width() != 1 || c.Height() != 1 {
		t.Errorf("no-camera chart size = %dx%d, want 1x1", c.Width(), c.Height())
	}
}

func TestBuildSplitsOversized(t *testing.T) {
	// A strip of quads spanning 64 texels in a 16-texel atlas.
	m := &mesh.Mesh{}
	nquads := 32
	for i := 0; i <= nquads; i++ {
		x := float64(i * 2)
		m.Points = append(m.Points, geom.Vec3{x, 0, 0}, geom.Vec3{x, 1, 0})
	}
	for i := 0; i < nquads; i++ {
		a, b, c, d := 2*i, 2*i+1, 2*i+2, 2*i+3
		m.Tris = append(m.Tris, [3]int{a, c, b}, [3]int{b, c, d})
	}
	vis := make(mesh.PointVisibility, len(m.Points))
	for i := range vis {
		vis[i] = []int{0}
	}
	rig := &camera.Rig{Cameras: []camera.Camera{orthoCam(1, 0, 0, 100, 100)}}

	atlases, err := Build(m, vis, rig, 16, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertEachTriangleOnce(t, atlases, len(m.Tris))

	ncharts := 0
	for _, a := range atlases {
		for _, c := range a.Charts {
			ncharts++
			if c.Width() > 16 || c.Height() > 16 {
				t.Errorf("chart size %dx%d exceeds atlas side", c.Width(), c.Height())
			}
		}
	}
	if ncharts < 4 {
		t.Errorf("charts = %d, want at least 4 after splitting", ncharts)
	}
}

func TestBuildDemotesUnsplittable(t *testing.T) {
	// One triangle alone spans more than the atlas side.
	m := &mesh.Mesh{
		Points: []geom.Vec3{{0, 0, 0}, {20, 0, 0}, {10, 1, 0}},
		Tris:   [][3]int{{0, 1, 2}},
	}
	vis := mesh.PointVisibility{{0}, {0}, {0}}
	rig := &camera.Rig{Cameras: []camera.Camera{orthoCam(1, 0, 0, 100, 100)}}

	atlases, err := Build(m, vis, rig, 8, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertEachTriangleOnce(t, atlases, 1)
	c := atlases[0].Charts[0]
	if c.RefCamera != -1 {
		t.Errorf("oversized triangle kept camera %d, want demotion to -1", c.RefCamera)
	}
}

func TestBuildDemotesBehindCamera(t *testing.T) {
	// Perspective camera at the origin looking down +Z; the second triangle
	// sits behind it.
	persp := camera.Camera{
		Width: 100, Height: 100, Image: "unused.png",
		P: [3][4]float64{
			{50, 0, 50, 0},
			{0, 50, 50, 0},
			{0, 0, 1, 0},
		},
	}
	m := &mesh.Mesh{
		Points: []geom.Vec3{
			{0, 0, 1}, {0.2, 0, 1}, {0, 0.2, 1},
			{0, 0, -1}, {0.2, 0, -1}, {0, 0.2, -1},
		},
		Tris: [][3]int{{0, 1, 2}, {3, 4, 5}},
	}
	vis := mesh.PointVisibility{{0}, {0}, {0}, {0}, {0}, {0}}
	rig := &camera.Rig{Cameras: []camera.Camera{persp}}

	atlases, err := Build(m, vis, rig, 64, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertEachTriangleOnce(t, atlases, 2)
	for _, a := range atlases {
		for _, c := range a.Charts {
			for _, tri := range c.Triangles {
				switch tri {
				case 0:
					if c.RefCamera != 0 {
						t.Errorf("front triangle RefCamera = %d, want 0", c.RefCamera)
					}
				case 1:
					if c.RefCamera != -1 {
						t.Errorf("behind triangle RefCamera = %d, want -1", c.RefCamera)
					}
				}
			}
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	m := quadMesh()
	vis := mesh.PointVisibility{{0, 1}, {0}, {1}, {0, 1}}
	rig := &camera.Rig{Cameras: []camera.Camera{
		orthoCam(10, 0, 0, 100, 100),
		orthoCam(8, 2, 2, 100, 100),
	}}

	a, err := Build(m, vis, rig, 64, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(m, vis, rig, 64, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two builds of identical input differ")
	}
}

func TestBuildErrors(t *testing.T) {
	rig := &camera.Rig{Cameras: []camera.Camera{orthoCam(1, 0, 0, 10, 10)}}
	if _, err := Build(nil, nil, rig, 64, 2); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("nil mesh err = %v, want ErrEmptyMesh", err)
	}
	empty := &mesh.Mesh{Points: []geom.Vec3{{0, 0, 0}}}
	if _, err := Build(empty, nil, rig, 64, 2); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("no-triangle err = %v, want ErrEmptyMesh", err)
	}
	if _, err := Build(quadMesh(), mesh.PointVisibility{{0}, {0}, {0}, {0}}, rig, 4, 2); !errors.Is(err, ErrBadTextureSide) {
		t.Errorf("side/padding err = %v, want ErrBadTextureSide", err)
	}
}
