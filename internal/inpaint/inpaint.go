// Package inpaint fills unsampled texels of a baked texture by pull-push
// diffusion from the sampled ones.
package inpaint

import (
	"github.com/AntiCG/AliceVision/internal/imgio"
)

// FillHoles replaces every texel whose alpha is 0 with a color diffused from
// the valid texels. Valid texels keep their exact color. A buffer with no
// valid texel is left untouched.
func FillHoles(colors []imgio.Color, alpha []float32, side int) {
	if side <= 1 || len(colors) < side*side || len(alpha) < side*side {
		return
	}
	fillLevel(colors, alpha, side)
}

// fillLevel pulls an alpha-weighted half-resolution level, fills it
// recursively, then pushes its colors into this level's holes.
func fillLevel(colors []imgio.Color, alpha []float32, side int) {
	if side <= 1 {
		return
	}
	half := (side + 1) / 2
	cc := make([]imgio.Color, half*half)
	ca := make([]float32, half*half)

	for y := 0; y < half; y++ {
		for x := 0; x < half; x++ {
			var sum imgio.Color
			var w float32
			for dy := 0; dy < 2; dy++ {
				sy := 2*y + dy
				if sy >= side {
					continue
				}
				for dx := 0; dx < 2; dx++ {
					sx := 2*x + dx
					if sx >= side {
						continue
					}
					i := sy*side + sx
					a := alpha[i]
					if a > 0 {
						sum[0] += colors[i][0] * a
						sum[1] += colors[i][1] * a
						sum[2] += colors[i][2] * a
						w += a
					}
				}
			}
			if w > 0 {
				p := y*half + x
				cc[p] = imgio.Color{sum[0] / w, sum[1] / w, sum[2] / w}
				ca[p] = 1
			}
		}
	}

	fillLevel(cc, ca, half)

	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			i := y*side + x
			if alpha[i] > 0 {
				continue
			}
			p := (y/2)*half + x/2
			if ca[p] > 0 {
				colors[i] = cc[p]
				alpha[i] = 1
			}
		}
	}
}
