package obj

import (
	"bufio"
	"fmt"
	"io"

	"github.com/AntiCG/AliceVision/internal/geom"
)

// WriteGeometry writes bare geometry (v and f statements only), the exchange
// form used with external tools.
func WriteGeometry(w io.Writer, positions []geom.Vec3, tris [][3]int) error {
	bw := bufio.NewWriter(w)
	for _, p := range positions {
		fmt.Fprintf(bw, "v %f %f %f\n", p[0], p[1], p[2])
	}
	for _, t := range tris {
		fmt.Fprintf(bw, "f %d %d %d\n", t[0]+1, t[1]+1, t[2]+1)
	}
	return bw.Flush()
}

// WriteTextured writes a UV-mapped mesh as an OBJ document: a shared vertex
// and texture-coordinate pool followed by one usemtl block per group. Face
// indices are emitted 1-based in the v/vt form.
func WriteTextured(w io.Writer, mtlLib string, t *Textured) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# \n")
	fmt.Fprintf(bw, "# Wavefront OBJ file\n")
	fmt.Fprintf(bw, "# Created with AliceVision\n")
	fmt.Fprintf(bw, "# \n")
	fmt.Fprintf(bw, "mtllib %s\n\n", mtlLib)
	fmt.Fprintf(bw, "g TexturedMesh\n")
	for _, p := range t.Positions {
		fmt.Fprintf(bw, "v %f %f %f\n", p[0], p[1], p[2])
	}
	for _, uv := range t.UVs {
		fmt.Fprintf(bw, "vt %f %f\n", uv[0], uv[1])
	}
	for _, g := range t.Groups {
		fmt.Fprintf(bw, "usemtl %s\n", g.Material)
		for _, f := range g.Faces {
			fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n",
				f.V[0]+1, f.T[0]+1,
				f.V[1]+1, f.T[1]+1,
				f.V[2]+1, f.T[2]+1)
		}
	}
	return bw.Flush()
}

// WriteMaterials writes the companion MTL document, one diffuse-only material
// block per entry.
func WriteMaterials(w io.Writer, mats []MaterialDef) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# \n")
	fmt.Fprintf(bw, "# Wavefront material file\n")
	fmt.Fprintf(bw, "# Created with AliceVision\n")
	fmt.Fprintf(bw, "# \n")
	for _, m := range mats {
		fmt.Fprintf(bw, "\n")
		fmt.Fprintf(bw, "newmtl %s\n", m.Name)
		fmt.Fprintf(bw, "Ka  0.6 0.6 0.6\n")
		fmt.Fprintf(bw, "Kd  0.6 0.6 0.6\n")
		fmt.Fprintf(bw, "Ks  0.0 0.0 0.0\n")
		fmt.Fprintf(bw, "d  1.0\n")
		fmt.Fprintf(bw, "Ns  0.0\n")
		fmt.Fprintf(bw, "illum 2\n")
		fmt.Fprintf(bw, "map_Kd %s\n", m.TextureFile)
	}
	return bw.Flush()
}
