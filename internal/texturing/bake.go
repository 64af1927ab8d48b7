package texturing

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"

	"github.com/AntiCG/AliceVision/internal/batch"
	"github.com/AntiCG/AliceVision/internal/camera"
	"github.com/AntiCG/AliceVision/internal/geom"
	"github.com/AntiCG/AliceVision/internal/imagecache"
	"github.com/AntiCG/AliceVision/internal/imgio"
	"github.com/AntiCG/AliceVision/internal/inpaint"
	"github.com/AntiCG/AliceVision/internal/logger"
)

// GenerateTextures bakes every atlas on a worker pool and writes one texture
// image per atlas into outDir. The first failing atlas aborts the run.
func (t *Texturing) GenerateTextures(rig *camera.Rig, cache *imagecache.Cache, outDir string) error {
	if t.Me == nil || len(t.Me.Tris) == 0 {
		return ErrMissingMesh
	}
	logger.Infof("Generating %d textures (side: %d, padding: %d, downscale: %d).",
		len(t.Atlases), t.Params.TextureSide, t.Params.Padding, t.Params.Downscale)
	return batch.Run(len(t.Atlases), t.Params.Workers, func(atlasID int) error {
		return t.GenerateTexture(rig, cache, atlasID, outDir)
	})
}

// GenerateTexture bakes one atlas, repairs its unsampled texels and writes
// the texture image.
func (t *Texturing) GenerateTexture(rig *camera.Rig, cache *imagecache.Cache, atlasID int, outDir string) error {
	colors, alpha, err := t.bakeAtlas(rig, cache, atlasID)
	if err != nil {
		return err
	}

	if t.Params.FillHoles {
		logger.Infof("Atlas %d: filling texture holes.", atlasID)
		inpaint.FillHoles(colors, alpha, t.Params.TextureSide)
	}

	img := imgio.ToNRGBA(colors, t.Params.TextureSide)
	if t.Params.Downscale > 1 {
		logger.Infof("Atlas %d: downscaling texture (%dx).", atlasID, t.Params.Downscale)
		img = imgio.Downscale(img, t.Params.Downscale)
	}

	path := filepath.Join(outDir, imgio.TextureName(atlasID, t.Params.TextureType))
	logger.Infof("Atlas %d: writing %s.", atlasID, path)
	return imgio.Write(path, img, t.Params.TextureType)
}

// bakeAtlas rasterizes the atlas' triangles once per observing camera,
// averaging all samples per texel, then pads the chart edges. The returned
// alpha mask (1 = sampled) is non-nil only when hole filling is enabled.
func (t *Texturing) bakeAtlas(rig *camera.Rig, cache *imagecache.Cache, atlasID int) ([]imgio.Color, []float32, error) {
	if t.Me == nil || len(t.Me.Tris) == 0 {
		return nil, nil, ErrMissingMesh
	}
	if atlasID < 0 || atlasID >= len(t.Atlases) {
		return nil, nil, fmt.Errorf("%w: %d of %d", ErrInvalidAtlasIndex, atlasID, len(t.Atlases))
	}
	if len(t.UVs) == 0 || len(t.TrisUVIds) != len(t.Me.Tris) {
		return nil, nil, fmt.Errorf("atlas %d: mesh has no texture coordinates", atlasID)
	}

	side := t.Params.TextureSide
	texels := side * side

	logger.Infof("Generating texture for atlas %d/%d (%d triangles).",
		atlasID+1, len(t.Atlases), len(t.Atlases[atlasID]))

	// Register each triangle under every camera observing one of its corners.
	ncams := len(rig.Cameras)
	camTris := make([][]int, ncams)
	for _, triID := range t.Atlases[atlasID] {
		cams := t.triangleCameras(triID, ncams)
		if len(cams) == 0 {
			logger.Debugf("Triangle %d without visibility.", triID)
			continue
		}
		for _, camID := range cams {
			camTris[camID] = append(camTris[camID], triID)
		}
	}

	accu := make([]AccuColor, texels)
	kind := make([]uint8, texels)
	ref := make([]int32, texels)

	for camID, tris := range camTris {
		if len(tris) == 0 {
			continue
		}
		cam := &rig.Cameras[camID]
		img, err := cache.Get(cam.Image)
		if err != nil {
			return nil, nil, err
		}
		logger.Debugf("Atlas %d: camera %d/%d with %d triangles.", atlasID, camID+1, ncams, len(tris))

		for _, triID := range tris {
			t.rasterizeTriangle(triID, cam, img, accu, kind, ref)
		}
	}

	if !t.Params.FillHoles && t.Params.Padding > 0 {
		logger.Debugf("Atlas %d: edge padding (%d pixels).", atlasID, t.Params.Padding)
		padEdges(kind, ref, side, t.Params.Padding)
	}

	colors := make([]imgio.Color, texels)
	var alpha []float32
	if t.Params.FillHoles {
		alpha = make([]float32, texels)
	}
	for i := range colors {
		if kind[i] == texelValid {
			colors[i] = accu[ref[i]].Average()
			if alpha != nil {
				alpha[i] = 1
			}
		}
	}
	return colors, alpha, nil
}

// triangleCameras unions the corner visibilities of a triangle into a sorted
// set of camera ids.
func (t *Texturing) triangleCameras(triID, ncams int) []int {
	cams := make([]int, 0, 8)
	for _, pid := range t.Me.Tris[triID] {
		if pid >= len(t.Vis) {
			continue
		}
		for _, c := range t.Vis[pid] {
			if c >= 0 && c < ncams {
				cams = append(cams, c)
			}
		}
	}
	if len(cams) == 0 {
		return nil
	}
	sort.Ints(cams)
	uniq := cams[:1]
	for _, c := range cams[1:] {
		if c != uniq[len(uniq)-1] {
			uniq = append(uniq, c)
		}
	}
	return uniq
}

// rasterizeTriangle walks the triangle's texel bounding box and accumulates
// one photograph sample per covered texel. Texel rows are stored bottom-up
// to match the UV origin.
func (t *Texturing) rasterizeTriangle(triID int, cam *camera.Camera, img *imagecache.Image, accu []AccuColor, kind []uint8, ref []int32) {
	side := t.Params.TextureSide
	fside := float64(side)

	var triPix [3]geom.Vec2
	var triPts [3]geom.Vec3
	for k, pid := range t.Me.Tris[triID] {
		triPts[k] = t.Me.Points[pid]
		uv := t.UVs[t.TrisUVIds[triID][k]]
		triPix[k] = geom.Vec2{uv[0] * fside, uv[1] * fside}
	}

	lux := clampInt(int(math.Floor(math.Min(math.Min(triPix[0][0], triPix[1][0]), triPix[2][0]))), 0, side)
	luy := clampInt(int(math.Floor(math.Min(math.Min(triPix[0][1], triPix[1][1]), triPix[2][1]))), 0, side)
	rdx := clampInt(int(math.Ceil(math.Max(math.Max(triPix[0][0], triPix[1][0]), triPix[2][0]))), 0, side)
	rdy := clampInt(int(math.Ceil(math.Max(math.Max(triPix[0][1], triPix[1][1]), triPix[2][1]))), 0, side)

	for y := luy; y < rdy; y++ {
		for x := lux; x < rdx; x++ {
			bc, ok := geom.PixelInTriangle(&triPix, geom.Pixel{X: x, Y: y})
			if !ok {
				continue
			}
			pt := geom.Barycentric3(&triPts, bc)
			pixRC, ok := cam.Project(pt)
			if !ok {
				continue
			}
			if !cam.IsInImage(geom.Pixel{X: int(pixRC[0]), Y: int(pixRC[1])}) {
				continue
			}
			r, g, b := img.Sample(pixRC)

			xy := (side-1-y)*side + x
			accu[xy].Add(r, g, b)
			kind[xy] = texelValid
			ref[xy] = int32(xy)
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
