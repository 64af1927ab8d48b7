package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/AntiCG/AliceVision/internal/camera"
	"github.com/AntiCG/AliceVision/internal/config"
	"github.com/AntiCG/AliceVision/internal/imagecache"
	"github.com/AntiCG/AliceVision/internal/imgio"
	"github.com/AntiCG/AliceVision/internal/logger"
	"github.com/AntiCG/AliceVision/internal/texturing"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.yaml file")
	meshFile := flag.String("mesh", "", "Binary mesh file")
	visFile := flag.String("vis", "", "Binary per-point visibility file")
	objFile := flag.String("obj", "", "Textured OBJ input (alternative to -mesh/-vis)")
	flipNormals := flag.Bool("flip-normals", false, "Flip triangle orientations on load")
	rigFile := flag.String("rig", "", "Camera rig JSON file")
	imageDir := flag.String("images", "", "Photograph directory (default: paths from the rig)")
	outDir := flag.String("output", "", "Output directory (default: current directory)")
	basename := flag.String("basename", "", "Output mesh basename (default: texturedMesh)")
	side := flag.Int("side", 0, "Texture side in texels, power of two (default: 8192)")
	padding := flag.Int("padding", 0, "Gutter padding in texels (default: 5)")
	downscale := flag.Int("downscale", 0, "Output downscale factor (default: 1)")
	fillHoles := flag.Bool("fill-holes", false, "Fill unmapped texels instead of edge padding")
	method := flag.String("unwrap", "", "Unwrap method: basic, abf or lscm (default: basic)")
	unwrapTool := flag.String("unwrap-tool", "", "External parameterization tool for abf/lscm")
	format := flag.String("format", "", "Texture format: png, jpg or webp (default: png)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error")
	logFile := flag.String("log-file", "", "Optional rotating log file")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Mesh:         *meshFile,
		Visibilities: *visFile,
		OBJ:          *objFile,
		FlipNormals:  *flipNormals,
		Rig:          *rigFile,
		ImageDir:     *imageDir,
		OutDir:       *outDir,
		Basename:     *basename,
		Side:         *side,
		Padding:      *padding,
		Downscale:    *downscale,
		FillHoles:    *fillHoles,
		UnwrapMethod: *method,
		UnwrapTool:   *unwrapTool,
		Format:       *format,
		Workers:      *workers,
		LogLevel:     *logLevel,
		LogFile:      *logFile,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	method, err := texturing.ParseUnwrapMethod(cfg.Texture.UnwrapMethod)
	if err != nil {
		return err
	}
	format, err := imgio.ParseFormat(cfg.Texture.Format)
	if err != nil {
		return err
	}

	rig, err := camera.Load(cfg.Input.Rig)
	if err != nil {
		return err
	}
	logger.Infof("Cameras: %d loaded from %s.", len(rig.Cameras), cfg.Input.Rig)

	var index *imagecache.Index
	if cfg.Input.ImageDir != "" {
		index = imagecache.BuildIndex(cfg.Input.ImageDir)
		if index.Len() == 0 {
			logger.Warnf("No photographs found under %s.", cfg.Input.ImageDir)
		} else {
			logger.Infof("Photographs: %d indexed under %s.", index.Len(), cfg.Input.ImageDir)
		}
	}
	cache := imagecache.NewCache(index)

	tx := texturing.New(texturing.TexParams{
		TextureSide:  cfg.Texture.Side,
		Padding:      cfg.Texture.Padding,
		Downscale:    cfg.Texture.Downscale,
		FillHoles:    cfg.Texture.FillHoles,
		UnwrapMethod: method,
		TextureType:  format,
		Workers:      cfg.Texture.Workers,
	})

	start := time.Now()
	if cfg.Input.OBJ != "" {
		if err := tx.LoadFromOBJ(cfg.Input.OBJ, cfg.Input.FlipNormals); err != nil {
			return err
		}
	} else {
		if err := tx.LoadFromMeshing(cfg.Input.Mesh, cfg.Input.Visibilities); err != nil {
			return err
		}
	}
	logger.Infof("Mesh: %d points, %d triangles.", len(tx.Me.Points), len(tx.Me.Tris))

	// An OBJ input may already carry a parameterization.
	if len(tx.UVs) == 0 {
		var p texturing.Parameterizer
		if method != texturing.UnwrapBasic {
			p = &texturing.ExternalParameterizer{Tool: cfg.Texture.UnwrapTool}
		}
		if err := tx.Unwrap(rig, p); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output dir %s: %w", cfg.Output.Dir, err)
	}
	if err := tx.GenerateTextures(rig, cache, cfg.Output.Dir); err != nil {
		return err
	}
	if err := tx.SaveAsOBJ(cfg.Output.Dir, cfg.Output.Basename); err != nil {
		return err
	}

	logger.Infof("Done in %.1fs.", time.Since(start).Seconds())
	return nil
}
