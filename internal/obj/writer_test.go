package obj

import (
	"strings"
	"testing"

	"github.com/AntiCG/AliceVision/internal/geom"
)

func testTextured() *Textured {
	return &Textured{
		Positions: []geom.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		UVs:       []geom.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
		Groups: []Group{
			{Material: "TextureAtlas_0", Faces: []FaceRef{
				{V: [3]int{0, 1, 2}, T: [3]int{0, 1, 2}},
				{V: [3]int{0, 2, 3}, T: [3]int{0, 2, 3}},
			}},
		},
	}
}

func TestWriteTextured(t *testing.T) {
	var sb strings.Builder
	if err := WriteTextured(&sb, "mesh.mtl", testTextured()); err != nil {
		t.Fatalf("WriteTextured: %v", err)
	}
	out := sb.String()
	for _, want := range []string{
		"# Wavefront OBJ file\n",
		"mtllib mesh.mtl\n",
		"g TexturedMesh\n",
		"v 0.000000 0.000000 0.000000\n",
		"vt 0.000000 1.000000\n",
		"usemtl TextureAtlas_0\n",
		"f 1/1 2/2 3/3\n",
		"f 1/1 3/3 4/4\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// Vertices must precede faces.
	if strings.Index(out, "v 0.000000") > strings.Index(out, "f 1/1") {
		t.Error("vertices emitted after faces")
	}
}

func TestWriteTexturedRoundTrip(t *testing.T) {
	src := testTextured()
	var sb strings.Builder
	if err := WriteTextured(&sb, "mesh.mtl", src); err != nil {
		t.Fatalf("WriteTextured: %v", err)
	}
	m, err := Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Positions) != len(src.Positions) || len(m.UVs) != len(src.UVs) {
		t.Fatalf("pool sizes changed: %d/%d", len(m.Positions), len(m.UVs))
	}
	if len(m.Faces) != 2 {
		t.Fatalf("faces = %d, want 2", len(m.Faces))
	}
	for i, f := range m.Faces {
		ref := src.Groups[0].Faces[i]
		if f.V != ref.V || f.T != ref.T {
			t.Errorf("face %d = %+v, want %+v", i, f, ref)
		}
	}
	if m.MtlLib != "mesh.mtl" {
		t.Errorf("mtllib = %q", m.MtlLib)
	}
}

func TestWriteMaterials(t *testing.T) {
	var sb strings.Builder
	mats := []MaterialDef{
		{Name: "TextureAtlas_0", TextureFile: "texture_0.png"},
		{Name: "TextureAtlas_1", TextureFile: "texture_1.png"},
	}
	if err := WriteMaterials(&sb, mats); err != nil {
		t.Fatalf("WriteMaterials: %v", err)
	}
	out := sb.String()
	for _, want := range []string{
		"# Wavefront material file\n",
		"newmtl TextureAtlas_0\n",
		"map_Kd texture_0.png\n",
		"newmtl TextureAtlas_1\n",
		"map_Kd texture_1.png\n",
		"Kd  0.6 0.6 0.6\n",
		"illum 2\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
