package texturing

import (
	"fmt"
	"strings"

	"github.com/AntiCG/AliceVision/internal/atlas"
	"github.com/AntiCG/AliceVision/internal/camera"
	"github.com/AntiCG/AliceVision/internal/geom"
	"github.com/AntiCG/AliceVision/internal/logger"
	"github.com/AntiCG/AliceVision/internal/mesh"
	"github.com/AntiCG/AliceVision/internal/obj"
)

// EUnwrapMethod selects how UV coordinates are generated.
type EUnwrapMethod int

// Unwrap methods.
const (
	UnwrapBasic EUnwrapMethod = iota
	UnwrapABF
	UnwrapLSCM
)

// ParseUnwrapMethod converts a method name to its enum value.
func ParseUnwrapMethod(s string) (EUnwrapMethod, error) {
	switch {
	case strings.EqualFold(s, "basic"):
		return UnwrapBasic, nil
	case strings.EqualFold(s, "abf"):
		return UnwrapABF, nil
	case strings.EqualFold(s, "lscm"):
		return UnwrapLSCM, nil
	}
	return UnwrapBasic, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}

func (m EUnwrapMethod) String() string {
	switch m {
	case UnwrapBasic:
		return "Basic"
	case UnwrapABF:
		return "ABF"
	case UnwrapLSCM:
		return "LSCM"
	}
	return fmt.Sprintf("EUnwrapMethod(%d)", int(m))
}

// Parameterizer computes a UV parameterization for a flattened mesh and
// returns the re-parameterized, textured model.
type Parameterizer interface {
	Parameterize(method EUnwrapMethod, positions []float64, indices []uint32) (*obj.Model, error)
}

// Unwrap generates UV coordinates and atlases for the loaded mesh using the
// configured method. ABF and LSCM delegate the parameterization to p.
func (t *Texturing) Unwrap(rig *camera.Rig, p Parameterizer) error {
	switch t.Params.UnwrapMethod {
	case UnwrapBasic:
		return t.generateUVsBasic(rig)
	case UnwrapABF, UnwrapLSCM:
		return t.unwrapExternal(p)
	}
	return fmt.Errorf("%w: %v", ErrUnsupportedMethod, t.Params.UnwrapMethod)
}

// generateUVsBasic projects each triangle through its chart's reference
// camera and packs the charts into atlases. The mesh is rebuilt so that
// every chart gets its own UV entries: points shared across charts are
// duplicated in UV space, not in geometry.
func (t *Texturing) generateUVsBasic(rig *camera.Rig) error {
	if t.Me == nil || len(t.Me.Tris) == 0 {
		return ErrMissingMesh
	}
	if len(t.Vis) != len(t.Me.Points) {
		return fmt.Errorf("%w: %d points, %d visibility entries", ErrSizeMismatch, len(t.Me.Points), len(t.Vis))
	}
	logger.Infof("Generating UVs (textureSide: %d; padding: %d).",
		t.Params.TextureSide, t.Params.Padding)

	atlases, err := atlas.Build(t.Me, t.Vis, rig, t.Params.TextureSide, t.Params.Padding)
	if err != nil {
		return fmt.Errorf("build atlases: %w", err)
	}

	side := float64(t.Params.TextureSide)
	newMesh := &mesh.Mesh{
		Points: make([]geom.Vec3, 0, len(t.Me.Points)),
		Tris:   make([][3]int, 0, len(t.Me.Tris)),
	}
	newVis := make(mesh.PointVisibility, 0, len(t.Me.Points))
	uvs := make([]geom.Vec2, 0, len(t.Me.Points))
	trisUV := make([][3]int, 0, len(t.Me.Tris))
	pages := make([][]int, len(atlases))

	vertexCache := make(map[int]int, len(t.Me.Points))
	triangleCount := 0

	for ai := range atlases {
		for ci := range atlases[ai].Charts {
			chart := &atlases[ai].Charts[ci]
			var cam *camera.Camera
			if chart.RefCamera >= 0 && chart.RefCamera < len(rig.Cameras) {
				cam = &rig.Cameras[chart.RefCamera]
			}

			// UV entries are scoped to the chart: the same new vertex gets
			// distinct UVs in distinct charts (texture seams).
			uvCache := make(map[int]int)

			for _, triID := range chart.Triangles {
				pages[ai] = append(pages[ai], triangleCount)

				var tv, tuv [3]int
				for k, pid := range t.Me.Tris[triID] {
					var uvPix geom.Vec2
					if cam != nil {
						pix, ok := cam.Project(t.Me.Points[pid])
						if ok && cam.IsInImage(geom.Pixel{X: int(pix[0]), Y: int(pix[1])}) {
							// Chart-local pixel, translated to its atlas placement.
							u := (pix[0] - float64(chart.SourceLU.X) + float64(chart.TargetLU.X)) / side
							v := (pix[1] - float64(chart.SourceLU.Y) + float64(chart.TargetLU.Y)) / side
							if u >= 0 && u <= 1 && v >= 0 && v <= 1 {
								uvPix = geom.Vec2{u, 1 - v}
							}
						}
					}

					newID, seen := vertexCache[pid]
					if !seen {
						newMesh.Points = append(newMesh.Points, t.Me.Points[pid])
						newID = len(newMesh.Points) - 1
						newVis = append(newVis, append([]int(nil), t.Vis[pid]...))
						vertexCache[pid] = newID
					}
					tv[k] = newID

					uvID, ok := uvCache[newID]
					if !ok {
						uvs = append(uvs, uvPix)
						uvID = len(uvs) - 1
						uvCache[newID] = uvID
					}
					tuv[k] = uvID
				}
				newMesh.Tris = append(newMesh.Tris, tv)
				trisUV = append(trisUV, tuv)
				triangleCount++
			}
		}
	}

	t.Me = newMesh
	t.Vis = newVis
	t.UVs = uvs
	t.TrisUVIds = trisUV
	t.Atlases = pages
	logger.Infof("Generated %d UV coordinates over %d atlases.", len(uvs), len(pages))
	return nil
}

// unwrapExternal flattens the mesh, hands it to the parameterizer and adopts
// the returned model, carrying visibilities over by nearest 3D position.
func (t *Texturing) unwrapExternal(p Parameterizer) error {
	if t.Me == nil || len(t.Me.Tris) == 0 {
		return ErrMissingMesh
	}
	if p == nil {
		return fmt.Errorf("%w: no parameterizer for %v", ErrUnsupportedMethod, t.Params.UnwrapMethod)
	}
	logger.Infof("Unwrapping mesh (method: %v).", t.Params.UnwrapMethod)

	positions, indices := t.Me.ToArrays()
	model, err := p.Parameterize(t.Params.UnwrapMethod, positions, indices)
	if err != nil {
		return fmt.Errorf("parameterize mesh: %w", err)
	}
	return t.adoptParameterized(model)
}

func (t *Texturing) adoptParameterized(model *obj.Model) error {
	if len(model.UVs) == 0 {
		return fmt.Errorf("parameterized mesh has no texture coordinates")
	}
	m := &mesh.Mesh{
		Points: model.Positions,
		Tris:   make([][3]int, len(model.Faces)),
	}
	uvIds := make([][3]int, len(model.Faces))
	for i, f := range model.Faces {
		if f.T[0] < 0 || f.T[1] < 0 || f.T[2] < 0 {
			return fmt.Errorf("parameterized mesh: face %d has no texture coordinates", i)
		}
		m.Tris[i] = f.V
		uvIds[i] = f.T
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("parameterized mesh: %w", err)
	}

	vis := mesh.RemapVisibilities(t.Me, t.Vis, m)
	if len(vis) != len(m.Points) {
		return fmt.Errorf("%w: remapped %d entries for %d points", ErrSizeMismatch, len(vis), len(m.Points))
	}

	t.Me = m
	t.Vis = vis
	t.UVs = model.UVs
	t.TrisUVIds = uvIds
	t.updateAtlases(model.Faces, len(model.Materials))
	return nil
}
