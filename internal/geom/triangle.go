package geom

import "math"

// PointTriangleDistance2 returns the squared distance from p to the closest
// point of triangle (a, b, c), together with that closest point and its
// barycentric coordinates (l1 for a, l2 for b, l3 for c, summing to 1).
// A point inside the triangle has distance 0 and its own barycentrics.
func PointTriangleDistance2(p, a, b, c Vec2) (dist2 float64, closest Vec2, l1, l2, l3 float64) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		closest = a
		return p.Sub(closest).Dot(p.Sub(closest)), closest, 1, 0, 0
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		closest = b
		return p.Sub(closest).Dot(p.Sub(closest)), closest, 0, 1, 0
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		closest = a.Add(ab.Scale(v))
		return p.Sub(closest).Dot(p.Sub(closest)), closest, 1 - v, v, 0
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		closest = c
		return p.Sub(closest).Dot(p.Sub(closest)), closest, 0, 0, 1
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		closest = a.Add(ac.Scale(w))
		return p.Sub(closest).Dot(p.Sub(closest)), closest, 1 - w, 0, w
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		closest = b.Add(c.Sub(b).Scale(w))
		return p.Sub(closest).Dot(p.Sub(closest)), closest, 0, 1 - w, w
	}

	denom := va + vb + vc
	if denom == 0 || math.IsNaN(denom) {
		// Degenerate (collinear) triangle: report an unreachable distance so
		// callers exclude the pixel.
		return math.Inf(1), p, 0, 0, 0
	}
	inv := 1 / denom
	v := vb * inv
	w := vc * inv
	closest = a.Add(ab.Scale(v)).Add(ac.Scale(w))
	return p.Sub(closest).Dot(p.Sub(closest)), closest, 1 - v - w, v, w
}

// BarycentricCoords holds the interpolation weights produced by the
// pixel-in-triangle test: X weighs the triangle's third corner and Y its
// second, matching t0 + (t2-t0)*X + (t1-t0)*Y.
type BarycentricCoords struct {
	X, Y float64
}

// Barycentric2 interpolates a 2D triangle at the given coordinates.
func Barycentric2(tri *[3]Vec2, bc BarycentricCoords) Vec2 {
	return tri[0].Add(tri[2].Sub(tri[0]).Scale(bc.X)).Add(tri[1].Sub(tri[0]).Scale(bc.Y))
}

// Barycentric3 interpolates a 3D triangle at the given coordinates.
func Barycentric3(tri *[3]Vec3, bc BarycentricCoords) Vec3 {
	return tri[0].Add(tri[2].Sub(tri[0]).Scale(bc.X)).Add(tri[1].Sub(tri[0]).Scale(bc.Y))
}

// pixelTolerance is the squared-distance bound under which a pixel center
// still counts as inside the triangle. Admitting edge-adjacent pixels on both
// sides of a shared edge keeps seams closed.
const pixelTolerance = 0.5

// PixelInTriangle reports whether the center of pixel px intersects the
// triangle, with a half-pixel tolerance on the edges, and returns the
// barycentric coordinates of that center relative to the triangle.
func PixelInTriangle(tri *[3]Vec2, px Pixel) (BarycentricCoords, bool) {
	center := Vec2{float64(px.X) + 0.5, float64(px.Y) + 0.5}
	dist2, _, _, l2, l3 := PointTriangleDistance2(center, tri[0], tri[1], tri[2])
	bc := BarycentricCoords{X: l3, Y: l2}
	return bc, dist2 < pixelTolerance+eps
}

const eps = 0x1p-52 // float64 machine epsilon
