// Package texturing bakes multi-view photographs onto a UV-mapped mesh and
// exports the textured result.
package texturing

import (
	"errors"
	"fmt"

	"github.com/AntiCG/AliceVision/internal/geom"
	"github.com/AntiCG/AliceVision/internal/imgio"
	"github.com/AntiCG/AliceVision/internal/mesh"
	"github.com/AntiCG/AliceVision/internal/obj"
)

// Pipeline errors.
var (
	ErrMissingMesh       = errors.New("no mesh loaded")
	ErrInvalidAtlasIndex = errors.New("invalid atlas index")
	ErrSizeMismatch      = errors.New("mesh and visibilities size mismatch")
	ErrUnsupportedMethod = errors.New("unsupported unwrap method")
)

// TexParams controls texture generation.
type TexParams struct {
	TextureSide  int
	Padding      int
	Downscale    int
	FillHoles    bool
	UnwrapMethod EUnwrapMethod
	TextureType  imgio.Format
	Workers      int
}

// Texturing holds the pipeline state: the mesh being textured, its per-point
// camera visibilities, the UV table and the per-page triangle lists.
type Texturing struct {
	Params TexParams

	Me        *mesh.Mesh
	Vis       mesh.PointVisibility
	UVs       []geom.Vec2
	TrisUVIds [][3]int
	Atlases   [][]int
}

// New creates an empty pipeline with the given parameters.
func New(p TexParams) *Texturing {
	return &Texturing{Params: p}
}

// Clear drops the mesh, visibilities, UVs and atlases.
func (t *Texturing) Clear() {
	t.Me = nil
	t.Vis = nil
	t.UVs = nil
	t.TrisUVIds = nil
	t.Atlases = nil
}

// LoadFromMeshing reads a reconstructed mesh and its per-point visibility
// file. The visibility entry count must match the mesh point count.
func (t *Texturing) LoadFromMeshing(meshPath, visPath string) error {
	m, err := mesh.Load(meshPath)
	if err != nil {
		return fmt.Errorf("load mesh %s: %w", meshPath, err)
	}
	vis, err := mesh.LoadVisibility(visPath)
	if err != nil {
		return fmt.Errorf("load visibilities %s: %w", visPath, err)
	}
	if len(vis) != len(m.Points) {
		return fmt.Errorf("%w: %d points, %d visibility entries", ErrSizeMismatch, len(m.Points), len(vis))
	}
	t.Clear()
	t.Me = m
	t.Vis = vis
	return nil
}

// LoadFromOBJ reads a textured OBJ: triangles carry UVs and each material
// becomes one atlas (a single atlas when the file has no materials).
// Visibilities start empty; remap them from a reference mesh before baking.
func (t *Texturing) LoadFromOBJ(path string, flipNormals bool) error {
	model, err := obj.ParseFile(path)
	if err != nil {
		return fmt.Errorf("load obj %s: %w", path, err)
	}

	m := &mesh.Mesh{
		Points: model.Positions,
		Tris:   make([][3]int, len(model.Faces)),
	}
	uvIds := make([][3]int, len(model.Faces))
	for i, f := range model.Faces {
		if f.T[0] < 0 || f.T[1] < 0 || f.T[2] < 0 {
			return fmt.Errorf("load obj %s: face %d has no texture coordinates", path, i)
		}
		m.Tris[i] = f.V
		uvIds[i] = f.T
	}
	if flipNormals {
		m.FlipOrientations()
		for i := range uvIds {
			uvIds[i][1], uvIds[i][2] = uvIds[i][2], uvIds[i][1]
		}
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("load obj %s: %w", path, err)
	}

	t.Clear()
	t.Me = m
	t.Vis = make(mesh.PointVisibility, len(m.Points))
	t.UVs = model.UVs
	t.TrisUVIds = uvIds
	t.updateAtlases(model.Faces, len(model.Materials))
	return nil
}

// ReplaceMesh swaps the current mesh for the one in the OBJ file, carrying
// the visibilities over by nearest 3D position. UVs are taken from the file
// when present, dropped otherwise.
func (t *Texturing) ReplaceMesh(path string, flipNormals bool) error {
	if t.Me == nil {
		return ErrMissingMesh
	}
	model, err := obj.ParseFile(path)
	if err != nil {
		return fmt.Errorf("replace mesh %s: %w", path, err)
	}

	m := &mesh.Mesh{
		Points: model.Positions,
		Tris:   make([][3]int, len(model.Faces)),
	}
	textured := len(model.UVs) > 0
	uvIds := make([][3]int, len(model.Faces))
	for i, f := range model.Faces {
		m.Tris[i] = f.V
		uvIds[i] = f.T
		if f.T[0] < 0 || f.T[1] < 0 || f.T[2] < 0 {
			textured = false
		}
	}
	if flipNormals {
		m.FlipOrientations()
		for i := range uvIds {
			uvIds[i][1], uvIds[i][2] = uvIds[i][2], uvIds[i][1]
		}
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("replace mesh %s: %w", path, err)
	}

	vis := mesh.RemapVisibilities(t.Me, t.Vis, m)
	if len(vis) != len(m.Points) {
		return fmt.Errorf("%w: remapped %d entries for %d points", ErrSizeMismatch, len(vis), len(m.Points))
	}

	t.Me = m
	t.Vis = vis
	if textured {
		t.UVs = model.UVs
		t.TrisUVIds = uvIds
		t.updateAtlases(model.Faces, len(model.Materials))
	} else {
		t.UVs = nil
		t.TrisUVIds = nil
		t.Atlases = nil
	}
	return nil
}

// RemapVisibilitiesFrom carries the reference mesh's visibilities onto the
// current mesh by nearest 3D position.
func (t *Texturing) RemapVisibilitiesFrom(ref *mesh.Mesh, refVis mesh.PointVisibility) error {
	if t.Me == nil {
		return ErrMissingMesh
	}
	vis := mesh.RemapVisibilities(ref, refVis, t.Me)
	if len(vis) != len(t.Me.Points) {
		return fmt.Errorf("%w: remapped %d entries for %d points", ErrSizeMismatch, len(vis), len(t.Me.Points))
	}
	t.Vis = vis
	return nil
}

// updateAtlases assigns one atlas page per material, all triangles to page 0
// when there are no materials.
func (t *Texturing) updateAtlases(faces []obj.Face, nmtls int) {
	pages := nmtls
	if pages < 1 {
		pages = 1
	}
	t.Atlases = make([][]int, pages)
	for i, f := range faces {
		page := 0
		if nmtls > 0 && f.Material >= 0 {
			page = f.Material
		}
		t.Atlases[page] = append(t.Atlases[page], i)
	}
}
