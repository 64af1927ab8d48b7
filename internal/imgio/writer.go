package imgio

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/HugoSmits86/nativewebp"
)

// ErrUnknownFormat reports an unsupported texture file type.
var ErrUnknownFormat = errors.New("unknown texture file type")

// Format selects the texture output encoding.
type Format string

// Supported texture formats.
const (
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatWebP Format = "webp"
)

const jpegQuality = 95

// ParseFormat validates a texture file type string.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPG, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// TextureName returns the file name of an atlas texture.
func TextureName(atlasID int, f Format) string {
	return fmt.Sprintf("texture_%d.%s", atlasID, f)
}

// Write encodes the image to path in the given format.
func Write(path string, img image.Image, f Format) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write texture %s: %w", path, err)
	}
	defer out.Close()

	switch f {
	case FormatPNG:
		err = png.Encode(out, img)
	case FormatJPG:
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: jpegQuality})
	case FormatWebP:
		err = nativewebp.Encode(out, img, nil)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("write texture %s: %w", path, err)
	}
	return nil
}
