// Package mesh holds the triangle mesh and per-point camera visibility that
// the texturing pipeline operates on, plus their binary file codecs.
package mesh

import (
	"fmt"

	"github.com/AntiCG/AliceVision/internal/geom"
)

// Mesh is an indexed triangle mesh. It is replaced wholesale when the
// pipeline re-parameterizes, never mutated in place.
type Mesh struct {
	Points []geom.Vec3
	Tris   [][3]int
}

// PointVisibility maps each mesh point to the ids of the cameras that
// observed it. One entry per point; nil or empty means unobserved.
type PointVisibility [][]int

// Validate checks that every triangle references a valid point.
func (m *Mesh) Validate() error {
	n := len(m.Points)
	for i, tri := range m.Tris {
		for _, v := range tri {
			if v < 0 || v >= n {
				return fmt.Errorf("mesh: triangle %d references point %d of %d", i, v, n)
			}
		}
	}
	return nil
}

// FlipOrientations reverses the winding of every triangle.
func (m *Mesh) FlipOrientations() {
	for i := range m.Tris {
		m.Tris[i][1], m.Tris[i][2] = m.Tris[i][2], m.Tris[i][1]
	}
}

// Clone returns a deep copy of the visibility table.
func (pv PointVisibility) Clone() PointVisibility {
	out := make(PointVisibility, len(pv))
	for i, cams := range pv {
		if len(cams) == 0 {
			continue
		}
		out[i] = append([]int(nil), cams...)
	}
	return out
}

// ToArrays flattens the mesh into plain vertex and index arrays, the
// interchange form expected by external mesh-processing libraries.
func (m *Mesh) ToArrays() (vertices []float64, facets []uint32) {
	vertices = make([]float64, 0, len(m.Points)*3)
	for _, p := range m.Points {
		vertices = append(vertices, p[0], p[1], p[2])
	}
	facets = make([]uint32, 0, len(m.Tris)*3)
	for _, t := range m.Tris {
		facets = append(facets, uint32(t[0]), uint32(t[1]), uint32(t[2]))
	}
	return vertices, facets
}

// FromArrays rebuilds a mesh from flat vertex and index arrays.
func FromArrays(vertices []float64, facets []uint32) (*Mesh, error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("mesh: vertex array length %d not a multiple of 3", len(vertices))
	}
	if len(facets)%3 != 0 {
		return nil, fmt.Errorf("mesh: facet array length %d not a multiple of 3", len(facets))
	}
	m := &Mesh{
		Points: make([]geom.Vec3, len(vertices)/3),
		Tris:   make([][3]int, len(facets)/3),
	}
	for i := range m.Points {
		m.Points[i] = geom.Vec3{vertices[i*3], vertices[i*3+1], vertices[i*3+2]}
	}
	for i := range m.Tris {
		m.Tris[i] = [3]int{int(facets[i*3]), int(facets[i*3+1]), int(facets[i*3+2])}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
