package mesh

import (
	"math"

	"github.com/AntiCG/AliceVision/internal/geom"
)

// RemapVisibilities transfers per-point visibility from a reference mesh onto
// a re-parameterized mesh whose vertices may have been renumbered, merged or
// split. Correspondence is nearest 3D position: each destination point takes
// the cameras of the closest reference point. Vertex splitting changes point
// identity, so the mapping is best effort, never exact.
func RemapVisibilities(ref *Mesh, refVis PointVisibility, dst *Mesh) PointVisibility {
	out := make(PointVisibility, len(dst.Points))
	if len(ref.Points) == 0 {
		return out
	}

	grid := newPointGrid(ref.Points)
	for i, p := range dst.Points {
		j := grid.nearest(p)
		if j < 0 || j >= len(refVis) {
			continue
		}
		if cams := refVis[j]; len(cams) > 0 {
			out[i] = append([]int(nil), cams...)
		}
	}
	return out
}

// pointGrid is a uniform spatial hash over a point cloud, sized so that
// lookups only need the cell of the query and its 26 neighbors.
type pointGrid struct {
	points   []geom.Vec3
	cells    map[[3]int][]int
	origin   geom.Vec3
	cellSize float64
}

func newPointGrid(points []geom.Vec3) *pointGrid {
	lo := points[0]
	hi := points[0]
	for _, p := range points[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], p[k])
			hi[k] = math.Max(hi[k], p[k])
		}
	}
	diag := hi.Sub(lo).Len()
	// Roughly one point per cell for uniformly spread clouds.
	size := diag / math.Max(1, math.Cbrt(float64(len(points))))
	if size <= 0 {
		size = 1
	}

	g := &pointGrid{
		points:   points,
		cells:    make(map[[3]int][]int),
		origin:   lo,
		cellSize: size,
	}
	for i, p := range points {
		c := g.cellOf(p)
		g.cells[c] = append(g.cells[c], i)
	}
	return g
}

func (g *pointGrid) cellOf(p geom.Vec3) [3]int {
	return [3]int{
		int(math.Floor((p[0] - g.origin[0]) / g.cellSize)),
		int(math.Floor((p[1] - g.origin[1]) / g.cellSize)),
		int(math.Floor((p[2] - g.origin[2]) / g.cellSize)),
	}
}

// nearest returns the index of the closest stored point, searching the query
// cell's neighborhood first and the whole cloud only when that comes up empty.
func (g *pointGrid) nearest(p geom.Vec3) int {
	c := g.cellOf(p)
	best := -1
	bestDist := math.Inf(1)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				for _, i := range g.cells[[3]int{c[0] + dx, c[1] + dy, c[2] + dz}] {
					if d := g.points[i].Sub(p).Dot(g.points[i].Sub(p)); d < bestDist {
						bestDist = d
						best = i
					}
				}
			}
		}
	}
	if best >= 0 {
		return best
	}
	for i, q := range g.points {
		if d := q.Sub(p).Dot(q.Sub(p)); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
