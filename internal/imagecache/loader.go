// Package imagecache loads, converts and caches the source photographs and
// offers sub-pixel sampling over them.
package imagecache

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
)

// Load reads a photograph (JPEG/PNG/TGA/BMP) and converts it to a sampleable
// image.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("image: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("image: decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage wraps a decoded image, converting to NRGBA with origin bounds
// when needed.
func FromImage(src image.Image) *Image {
	n, ok := src.(*image.NRGBA)
	if !ok || n.Bounds().Min != (image.Point{}) {
		b := src.Bounds()
		n = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(n, n.Bounds(), src, b.Min, draw.Src)
	}
	return &Image{
		pix:    n.Pix,
		stride: n.Stride,
		w:      n.Rect.Dx(),
		h:      n.Rect.Dy(),
	}
}
