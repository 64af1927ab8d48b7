package texturing

import (
	"github.com/AntiCG/AliceVision/internal/imgio"
)

// AccuColor accumulates the color samples of one texel across cameras.
type AccuColor struct {
	Sum   imgio.Color
	Count uint32
}

// Add accumulates one RGB sample.
func (a *AccuColor) Add(r, g, b float64) {
	a.Sum[0] += float32(r)
	a.Sum[1] += float32(g)
	a.Sum[2] += float32(b)
	a.Count++
}

// Average returns the mean of the accumulated samples, black when empty.
func (a *AccuColor) Average() imgio.Color {
	if a.Count == 0 {
		return imgio.Color{}
	}
	n := float32(a.Count)
	return imgio.Color{a.Sum[0] / n, a.Sum[1] / n, a.Sum[2] / n}
}
