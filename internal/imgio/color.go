// Package imgio converts baked color buffers to images, rescales them and
// writes them to disk.
package imgio

import (
	"image"
)

// Color is one RGB texel with channels in [0,255].
type Color [3]float32

// ToNRGBA converts a row-major side*side color buffer into an opaque image.
// Channel values are rounded and clamped to byte range.
func ToNRGBA(colors []Color, side int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i, c := range colors {
		off := (i/side)*img.Stride + (i%side)*4
		img.Pix[off] = clampByte(c[0])
		img.Pix[off+1] = clampByte(c[1])
		img.Pix[off+2] = clampByte(c[2])
		img.Pix[off+3] = 255
	}
	return img
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
