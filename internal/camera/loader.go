package camera

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Rig file errors.
var (
	ErrNoCameras     = errors.New("rig has no cameras")
	ErrBadProjection = errors.New("projection must have 12 values")
	ErrBadDimensions = errors.New("image dimensions must be positive")
	ErrMissingImage  = errors.New("camera has no image path")
)

// rigFile matches the JSON schema of a rig file. Projection is the 3x4
// matrix in row-major order.
type rigFile struct {
	Cameras []struct {
		Name       string    `json:"name"`
		Image      string    `json:"image"`
		Width      int       `json:"width"`
		Height     int       `json:"height"`
		Projection []float64 `json:"projection"`
	} `json:"cameras"`
}

// Load reads a camera rig from a JSON file. Relative image paths are
// resolved against the rig file's directory.
func Load(path string) (*Rig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file rigFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse rig %s: %w", path, err)
	}
	if len(file.Cameras) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoCameras)
	}

	dir := filepath.Dir(path)
	rig := &Rig{Cameras: make([]Camera, len(file.Cameras))}
	for i, fc := range file.Cameras {
		if len(fc.Projection) != 12 {
			return nil, fmt.Errorf("camera %d (%s): %w", i, fc.Name, ErrBadProjection)
		}
		if fc.Width <= 0 || fc.Height <= 0 {
			return nil, fmt.Errorf("camera %d (%s): %w", i, fc.Name, ErrBadDimensions)
		}
		if fc.Image == "" {
			return nil, fmt.Errorf("camera %d (%s): %w", i, fc.Name, ErrMissingImage)
		}
		img := fc.Image
		if !filepath.IsAbs(img) {
			img = filepath.Join(dir, img)
		}
		c := Camera{
			Name:   fc.Name,
			Width:  fc.Width,
			Height: fc.Height,
			Image:  img,
		}
		for r := 0; r < 3; r++ {
			for col := 0; col < 4; col++ {
				c.P[r][col] = fc.Projection[r*4+col]
			}
		}
		rig.Cameras[i] = c
	}
	return rig, nil
}
