package texturing

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/AntiCG/AliceVision/internal/logger"
	"github.com/AntiCG/AliceVision/internal/mesh"
	"github.com/AntiCG/AliceVision/internal/obj"
)

// ExternalParameterizer runs a standalone unwrapping tool, exchanging meshes
// as OBJ files in a scratch directory. The tool is expected to read the input
// mesh, compute a parameterization and write a textured OBJ to the output
// path it was given.
type ExternalParameterizer struct {
	// Tool is the executable to invoke.
	Tool string
	// WorkDir hosts the exchange files. Empty means a fresh temp directory
	// that is removed afterwards.
	WorkDir string
}

const (
	externInName  = "mesh_in.obj"
	externOutName = "mesh_uv.obj"
)

// Parameterize implements Parameterizer by shelling out to the tool.
func (e *ExternalParameterizer) Parameterize(method EUnwrapMethod, vertices []float64, facets []uint32) (*obj.Model, error) {
	if e.Tool == "" {
		return nil, fmt.Errorf("%w: no tool configured for %s", ErrUnsupportedMethod, method)
	}
	m, err := mesh.FromArrays(vertices, facets)
	if err != nil {
		return nil, err
	}

	dir := e.WorkDir
	if dir == "" {
		dir, err = os.MkdirTemp("", "unwrap-")
		if err != nil {
			return nil, fmt.Errorf("unwrap scratch dir: %w", err)
		}
		defer os.RemoveAll(dir)
	}
	inPath := filepath.Join(dir, externInName)
	outPath := filepath.Join(dir, externOutName)

	f, err := os.Create(inPath)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", inPath, err)
	}
	if err := obj.WriteGeometry(f, m.Points, m.Tris); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s: %w", inPath, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("write %s: %w", inPath, err)
	}

	args := externArgs(method, inPath, outPath)
	logger.Debugf("Running %s %v", e.Tool, args)
	out, err := exec.Command(e.Tool, args...).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w: %s", e.Tool, err, out)
	}

	model, err := obj.ParseFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read parameterized mesh: %w", err)
	}
	return model, nil
}

// externArgs builds the tool command line for one exchange.
func externArgs(method EUnwrapMethod, inPath, outPath string) []string {
	return []string{"--method", method.String(), "--input", inPath, "--output", outPath}
}
