package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/AntiCG/AliceVision/internal/mesh"
	"github.com/AntiCG/AliceVision/internal/obj"
)

func main() {
	visFile := flag.String("vis", "", "Visibility file to report against the mesh")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: meshinfo [-vis file] mesh.bin|mesh.obj ...")
		os.Exit(1)
	}

	exit := 0
	for _, arg := range flag.Args() {
		m, err := loadMesh(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exit = 1
			continue
		}
		printMesh(arg, m)

		if *visFile != "" {
			vis, err := mesh.LoadVisibility(*visFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exit = 1
				continue
			}
			printVisibility(m, vis)
		}
	}
	os.Exit(exit)
}

func loadMesh(path string) (*mesh.Mesh, error) {
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		model, err := obj.ParseFile(path)
		if err != nil {
			return nil, err
		}
		m := &mesh.Mesh{
			Points: model.Positions,
			Tris:   make([][3]int, len(model.Faces)),
		}
		for i, f := range model.Faces {
			m.Tris[i] = f.V
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		return m, nil
	}
	return mesh.Load(path)
}

func printMesh(path string, m *mesh.Mesh) {
	fmt.Printf("\n=== %s (points=%d triangles=%d) ===\n", path, len(m.Points), len(m.Tris))
	if len(m.Points) == 0 {
		return
	}
	minP, maxP := m.Points[0], m.Points[0]
	for _, p := range m.Points[1:] {
		for k := 0; k < 3; k++ {
			minP[k] = math.Min(minP[k], p[k])
			maxP[k] = math.Max(maxP[k], p[k])
		}
	}
	fmt.Printf("  bbox min=(%.3f,%.3f,%.3f) max=(%.3f,%.3f,%.3f) size=(%.3f,%.3f,%.3f)\n",
		minP[0], minP[1], minP[2],
		maxP[0], maxP[1], maxP[2],
		maxP[0]-minP[0], maxP[1]-minP[1], maxP[2]-minP[2])
}

func printVisibility(m *mesh.Mesh, vis mesh.PointVisibility) {
	if len(vis) != len(m.Points) {
		fmt.Printf("  visibilities: %d entries for %d points (MISMATCH)\n", len(vis), len(m.Points))
		return
	}
	seen, total, maxCam := 0, 0, -1
	for _, cams := range vis {
		if len(cams) > 0 {
			seen++
		}
		total += len(cams)
		for _, c := range cams {
			if c > maxCam {
				maxCam = c
			}
		}
	}
	avg := 0.0
	if len(vis) > 0 {
		avg = float64(total) / float64(len(vis))
	}
	fmt.Printf("  visibilities: %d/%d points seen, avg %.1f cameras/point, max camera id %d\n",
		seen, len(vis), avg, maxCam)
}
