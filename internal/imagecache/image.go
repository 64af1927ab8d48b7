package imagecache

import (
	"github.com/AntiCG/AliceVision/internal/geom"
)

// Image is a decoded photograph in a layout suited to tight sampling loops.
// Channel values are float64 in [0,255].
type Image struct {
	pix    []uint8
	stride int
	w, h   int
}

// Width returns the image width in pixels.
func (im *Image) Width() int { return im.w }

// Height returns the image height in pixels.
func (im *Image) Height() int { return im.h }

// At returns the RGB value at (x, y), clamped to the image bounds.
func (im *Image) At(x, y int) (r, g, b float64) {
	if x < 0 {
		x = 0
	} else if x >= im.w {
		x = im.w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= im.h {
		y = im.h - 1
	}
	i := y*im.stride + x*4
	return float64(im.pix[i]), float64(im.pix[i+1]), float64(im.pix[i+2])
}

// Sample bilinearly interpolates the RGB value at a sub-pixel position.
func (im *Image) Sample(p geom.Vec2) (r, g, b float64) {
	xp, yp := int(p[0]), int(p[1])
	u := p[0] - float64(xp)
	v := p[1] - float64(yp)

	lur, lug, lub := im.At(xp, yp)
	rur, rug, rub := im.At(xp+1, yp)
	ldr, ldg, ldb := im.At(xp, yp+1)
	rdr, rdg, rdb := im.At(xp+1, yp+1)

	upr := lur + (rur-lur)*u
	upg := lug + (rug-lug)*u
	upb := lub + (rub-lub)*u
	dnr := ldr + (rdr-ldr)*u
	dng := ldg + (rdg-ldg)*u
	dnb := ldb + (rdb-ldb)*u

	return upr + (dnr-upr)*v, upg + (dng-upg)*v, upb + (dnb-upb)*v
}
