package texturing

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AntiCG/AliceVision/internal/imgio"
	"github.com/AntiCG/AliceVision/internal/logger"
	"github.com/AntiCG/AliceVision/internal/obj"
)

// SaveAsOBJ writes the textured mesh as <basename>.obj next to a
// <basename>.mtl declaring one material per texture atlas.
func (t *Texturing) SaveAsOBJ(dir, basename string) error {
	if t.Me == nil {
		return ErrMissingMesh
	}
	if len(t.Atlases) == 0 || len(t.TrisUVIds) != len(t.Me.Tris) {
		return fmt.Errorf("mesh has no texture coordinates")
	}

	logger.Infof("Writing obj and mtl file.")
	objPath := filepath.Join(dir, basename+".obj")
	mtlName := basename + ".mtl"
	mtlPath := filepath.Join(dir, mtlName)

	textured := &obj.Textured{
		Positions: t.Me.Points,
		UVs:       t.UVs,
		Groups:    make([]obj.Group, len(t.Atlases)),
	}
	mats := make([]obj.MaterialDef, len(t.Atlases))
	for i, tris := range t.Atlases {
		name := fmt.Sprintf("TextureAtlas_%d", i)
		g := obj.Group{Material: name, Faces: make([]obj.FaceRef, 0, len(tris))}
		for _, triID := range tris {
			g.Faces = append(g.Faces, obj.FaceRef{V: t.Me.Tris[triID], T: t.TrisUVIds[triID]})
		}
		textured.Groups[i] = g
		mats[i] = obj.MaterialDef{Name: name, TextureFile: imgio.TextureName(i, t.Params.TextureType)}
	}

	of, err := os.Create(objPath)
	if err != nil {
		return fmt.Errorf("write obj %s: %w", objPath, err)
	}
	if err := obj.WriteTextured(of, mtlName, textured); err != nil {
		of.Close()
		return fmt.Errorf("write obj %s: %w", objPath, err)
	}
	if err := of.Close(); err != nil {
		return fmt.Errorf("write obj %s: %w", objPath, err)
	}

	mf, err := os.Create(mtlPath)
	if err != nil {
		return fmt.Errorf("write mtl %s: %w", mtlPath, err)
	}
	if err := obj.WriteMaterials(mf, mats); err != nil {
		mf.Close()
		return fmt.Errorf("write mtl %s: %w", mtlPath, err)
	}
	if err := mf.Close(); err != nil {
		return fmt.Errorf("write mtl %s: %w", mtlPath, err)
	}

	logger.Infof("Mesh written to %s.", objPath)
	return nil
}
