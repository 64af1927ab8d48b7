// Package atlas groups mesh triangles into per-camera charts and packs the
// charts into square texture atlases.
package atlas

import (
	"errors"

	"github.com/AntiCG/AliceVision/internal/geom"
)

// Build errors.
var (
	ErrEmptyMesh = errors.New("mesh has no triangles")
)

// Chart is a set of triangles textured from one reference camera. SourceLU/
// SourceRD bound the triangles' projected pixels in that camera's image;
// TargetLU is the chart's placement in its atlas. RefCamera is -1 for
// triangles no camera observes.
type Chart struct {
	Triangles []int
	SourceLU  geom.Pixel
	SourceRD  geom.Pixel
	TargetLU  geom.Pixel
	RefCamera int
}

// Width returns the chart width in texels.
func (c *Chart) Width() int { return c.SourceRD.X - c.SourceLU.X }

// Height returns the chart height in texels.
func (c *Chart) Height() int { return c.SourceRD.Y - c.SourceLU.Y }

// Offset is the translation from source to target texel space.
func (c *Chart) Offset() geom.Pixel {
	return c.TargetLU.Sub(c.SourceLU)
}

// Atlas is one square texture page holding packed charts.
type Atlas struct {
	Charts []Chart
}

// TriangleCount returns the number of triangles over all charts.
func (a *Atlas) TriangleCount() int {
	n := 0
	for i := range a.Charts {
		n += len(a.Charts[i].Triangles)
	}
	return n
}
