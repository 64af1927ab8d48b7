// Package obj reads and writes Wavefront OBJ geometry and its companion MTL
// material files.
package obj

import (
	"errors"

	"github.com/AntiCG/AliceVision/internal/geom"
)

// Parse errors.
var (
	ErrMalformedVertex = errors.New("malformed vertex line")
	ErrMalformedFace   = errors.New("malformed face line")
	ErrIndexOutOfRange = errors.New("face index out of range")
)

// Face is one triangle of a parsed model. T and N entries are -1 when the
// face carries no texture or normal references. Material indexes into
// Model.Materials, -1 when the face precedes any usemtl statement.
type Face struct {
	V        [3]int
	T        [3]int
	N        [3]int
	Material int
}

// Model is the parsed content of an OBJ file. Faces with more than three
// corners are fan-triangulated during parsing.
type Model struct {
	Positions []geom.Vec3
	UVs       []geom.Vec2
	Normals   []geom.Vec3
	Faces     []Face
	Materials []string // usemtl names in first-use order
	MtlLib    string
}

// Textured is the writable form of a UV-mapped mesh: shared position and UV
// pools plus one face group per material.
type Textured struct {
	Positions []geom.Vec3
	UVs       []geom.Vec2
	Groups    []Group
}

// Group is a run of faces sharing one material.
type Group struct {
	Material string
	Faces    []FaceRef
}

// FaceRef references one triangle by 0-based position and UV indices;
// writing converts them to the format's 1-based convention.
type FaceRef struct {
	V [3]int
	T [3]int
}

// MaterialDef is one MTL material block pointing at a texture file.
type MaterialDef struct {
	Name        string
	TextureFile string
}
