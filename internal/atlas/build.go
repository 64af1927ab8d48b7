package atlas

import (
	"errors"
	"math"
	"sort"

	"github.com/AntiCG/AliceVision/internal/camera"
	"github.com/AntiCG/AliceVision/internal/geom"
	"github.com/AntiCG/AliceVision/internal/mesh"
)

// ErrBadTextureSide reports a texture side too small for the padding.
var ErrBadTextureSide = errors.New("texture side too small for padding")

// triProj is one triangle with its corner projections in the reference
// camera's pixel space.
type triProj struct {
	idx      int
	min, max geom.Vec2
	centroid geom.Vec2
}

// Build groups the mesh triangles into charts by reference camera and packs
// the charts into square atlases of the given side. Each triangle lands in
// exactly one chart. The result is deterministic for identical input.
func Build(m *mesh.Mesh, vis mesh.PointVisibility, rig *camera.Rig, textureSide, padding int) ([]Atlas, error) {
	if m == nil || len(m.Tris) == 0 {
		return nil, ErrEmptyMesh
	}
	usable := textureSide - 2*padding
	if usable < 1 {
		return nil, ErrBadTextureSide
	}

	ncams := 0
	if rig != nil {
		ncams = len(rig.Cameras)
	}

	groups := make(map[int][]int)
	var noCamera []int
	for t, tri := range m.Tris {
		cam := bestCamera(tri, vis, ncams)
		if cam < 0 {
			noCamera = append(noCamera, t)
		} else {
			groups[cam] = append(groups[cam], t)
		}
	}

	camIDs := make([]int, 0, len(groups))
	for cam := range groups {
		camIDs = append(camIDs, cam)
	}
	sort.Ints(camIDs)

	var charts []Chart
	for _, cam := range camIDs {
		projs := make([]triProj, 0, len(groups[cam]))
		for _, t := range groups[cam] {
			tp, ok := projectTriangle(m, t, &rig.Cameras[cam])
			if !ok {
				noCamera = append(noCamera, t)
				continue
			}
			projs = append(projs, tp)
		}
		charts = append(charts, splitToFit(projs, cam, usable, &noCamera)...)
	}

	if len(noCamera) > 0 {
		sort.Ints(noCamera)
		charts = append(charts, Chart{
			Triangles: noCamera,
			SourceLU:  geom.Pixel{X: 0, Y: 0},
			SourceRD:  geom.Pixel{X: 1, Y: 1},
			RefCamera: -1,
		})
	}

	return pack(charts, textureSide, padding), nil
}

// bestCamera picks the camera observing the most corners of the triangle,
// breaking ties toward the lower camera id. Returns -1 when no camera
// observes any corner.
func bestCamera(tri [3]int, vis mesh.PointVisibility, ncams int) int {
	counts := make(map[int]int, 8)
	for _, p := range tri {
		if p >= len(vis) {
			continue
		}
		for _, cam := range vis[p] {
			if cam >= 0 && cam < ncams {
				counts[cam]++
			}
		}
	}
	best, bestN := -1, 0
	for cam, n := range counts {
		if n > bestN || (n == bestN && cam < best) {
			best, bestN = cam, n
		}
	}
	return best
}

func projectTriangle(m *mesh.Mesh, t int, cam *camera.Camera) (triProj, bool) {
	tp := triProj{idx: t}
	var sum geom.Vec2
	for k, p := range m.Tris[t] {
		pix, ok := cam.Project(m.Points[p])
		if !ok {
			return tp, false
		}
		if k == 0 {
			tp.min, tp.max = pix, pix
		} else {
			tp.min[0] = math.Min(tp.min[0], pix[0])
			tp.min[1] = math.Min(tp.min[1], pix[1])
			tp.max[0] = math.Max(tp.max[0], pix[0])
			tp.max[1] = math.Max(tp.max[1], pix[1])
		}
		sum = sum.Add(pix)
	}
	tp.centroid = sum.Scale(1.0 / 3.0)
	return tp, true
}

// splitToFit turns a camera group into charts no larger than usable on
// either axis, bisecting oversized groups at the triangle-centroid median
// of the longer axis. Single triangles that still exceed the limit are
// demoted to the no-camera group.
func splitToFit(projs []triProj, cam, usable int, noCamera *[]int) []Chart {
	var out []Chart
	queue := [][]triProj{projs}
	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if len(cur) == 0 {
			continue
		}

		lu, rd := groupBounds(cur)
		w, h := rd.X-lu.X, rd.Y-lu.Y
		if w <= usable && h <= usable {
			out = append(out, makeChart(cur, cam, lu, rd))
			continue
		}
		if len(cur) == 1 {
			*noCamera = append(*noCamera, cur[0].idx)
			continue
		}

		axis := 0
		if h > w {
			axis = 1
		}
		sort.Slice(cur, func(i, j int) bool {
			if cur[i].centroid[axis] != cur[j].centroid[axis] {
				return cur[i].centroid[axis] < cur[j].centroid[axis]
			}
			return cur[i].idx < cur[j].idx
		})
		mid := len(cur) / 2
		queue = append(queue, cur[:mid], cur[mid:])
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Triangles[0] < out[j].Triangles[0]
	})
	return out
}

func groupBounds(projs []triProj) (lu, rd geom.Pixel) {
	min, max := projs[0].min, projs[0].max
	for _, tp := range projs[1:] {
		min[0] = math.Min(min[0], tp.min[0])
		min[1] = math.Min(min[1], tp.min[1])
		max[0] = math.Max(max[0], tp.max[0])
		max[1] = math.Max(max[1], tp.max[1])
	}
	lu = geom.Pixel{X: int(math.Floor(min[0])), Y: int(math.Floor(min[1]))}
	rd = geom.Pixel{X: int(math.Ceil(max[0])), Y: int(math.Ceil(max[1]))}
	if rd.X <= lu.X {
		rd.X = lu.X + 1
	}
	if rd.Y <= lu.Y {
		rd.Y = lu.Y + 1
	}
	return lu, rd
}

func makeChart(projs []triProj, cam int, lu, rd geom.Pixel) Chart {
	tris := make([]int, len(projs))
	for i, tp := range projs {
		tris[i] = tp.idx
	}
	sort.Ints(tris)
	return Chart{Triangles: tris, SourceLU: lu, SourceRD: rd, RefCamera: cam}
}

// pack shelf-packs the charts in decreasing height order, opening a new
// atlas when the current one has no room left.
func pack(charts []Chart, textureSide, padding int) []Atlas {
	order := make([]int, len(charts))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ca, cb := &charts[order[a]], &charts[order[b]]
		if ca.Height() != cb.Height() {
			return ca.Height() > cb.Height()
		}
		if ca.Width() != cb.Width() {
			return ca.Width() > cb.Width()
		}
		if ca.RefCamera != cb.RefCamera {
			return ca.RefCamera < cb.RefCamera
		}
		return ca.Triangles[0] < cb.Triangles[0]
	})

	var atlases []Atlas
	cur := Atlas{}
	x, y, rowH := padding, padding, 0
	for _, i := range order {
		c := charts[i]
		w, h := c.Width(), c.Height()
		if x+w > textureSide-padding {
			x = padding
			y += rowH + padding
			rowH = 0
		}
		if y+h > textureSide-padding {
			atlases = append(atlases, cur)
			cur = Atlas{}
			x, y, rowH = padding, padding, 0
		}
		c.TargetLU = geom.Pixel{X: x, Y: y}
		cur.Charts = append(cur.Charts, c)
		x += w + padding
		if h > rowH {
			rowH = h
		}
	}
	if len(cur.Charts) > 0 {
		atlases = append(atlases, cur)
	}
	return atlases
}
