// Package camera models the pinhole cameras of a reconstruction rig.
package camera

import (
	"github.com/AntiCG/AliceVision/internal/geom"
)

// Camera is one pinhole camera: a 3x4 projection matrix mapping world
// coordinates to homogeneous image coordinates, the image dimensions and the
// path of the photograph it captured.
type Camera struct {
	Name   string
	P      [3][4]float64
	Width  int
	Height int
	Image  string
}

// Rig is the ordered camera list. Visibility data indexes into it.
type Rig struct {
	Cameras []Camera
}

// Project maps a world-space point to pixel coordinates. The second return
// is false when the point lies on or behind the camera plane.
func (c *Camera) Project(p geom.Vec3) (geom.Vec2, bool) {
	x := c.P[0][0]*p[0] + c.P[0][1]*p[1] + c.P[0][2]*p[2] + c.P[0][3]
	y := c.P[1][0]*p[0] + c.P[1][1]*p[1] + c.P[1][2]*p[2] + c.P[1][3]
	w := c.P[2][0]*p[0] + c.P[2][1]*p[1] + c.P[2][2]*p[2] + c.P[2][3]
	if w <= 0 {
		return geom.Vec2{}, false
	}
	return geom.Vec2{x / w, y / w}, true
}

// IsInImage reports whether pix lies inside the image bounds.
func (c *Camera) IsInImage(pix geom.Pixel) bool {
	return pix.X >= 0 && pix.X < c.Width && pix.Y >= 0 && pix.Y < c.Height
}
