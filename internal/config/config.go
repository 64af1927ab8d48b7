// Package config loads the pipeline configuration from a YAML file and
// overlays CLI flags on top.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds all pipeline paths and texture settings.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Texture TextureConfig `yaml:"texture"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig names the reconstruction inputs. Either a textured OBJ or a
// binary mesh with its visibility file must be given.
type InputConfig struct {
	Mesh         string `yaml:"mesh"`
	Visibilities string `yaml:"visibilities"`
	OBJ          string `yaml:"obj"`
	FlipNormals  bool   `yaml:"flip_normals"`
	Rig          string `yaml:"rig"`
	ImageDir     string `yaml:"image_dir"`
}

// OutputConfig names the generated files.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Basename string `yaml:"basename"`
}

// TextureConfig holds the texture generation settings.
type TextureConfig struct {
	Side         int    `yaml:"side"`
	Padding      int    `yaml:"padding"`
	Downscale    int    `yaml:"downscale"`
	FillHoles    bool   `yaml:"fill_holes"`
	UnwrapMethod string `yaml:"unwrap_method"`
	UnwrapTool   string `yaml:"unwrap_tool"`
	Format       string `yaml:"format"`
	Workers      int    `yaml:"workers"`
}

// LoggingConfig holds the log level and optional log file.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Mesh         string
	Visibilities string
	OBJ          string
	FlipNormals  bool
	Rig          string
	ImageDir     string
	OutDir       string
	Basename     string

	Side         int
	Padding      int
	Downscale    int
	FillHoles    bool
	UnwrapMethod string
	UnwrapTool   string
	Format       string
	Workers      int

	LogLevel string
	LogFile  string
}

// Resolve overlays the CLI flags onto the config and fills the remaining
// gaps with defaults. Flags take priority over the file.
func (c *Config) Resolve(flags Flags) {
	if flags.Mesh != "" {
		c.Input.Mesh = flags.Mesh
	}
	if flags.Visibilities != "" {
		c.Input.Visibilities = flags.Visibilities
	}
	if flags.OBJ != "" {
		c.Input.OBJ = flags.OBJ
	}
	if flags.FlipNormals {
		c.Input.FlipNormals = true
	}
	if flags.Rig != "" {
		c.Input.Rig = flags.Rig
	}
	if flags.ImageDir != "" {
		c.Input.ImageDir = flags.ImageDir
	}
	if flags.OutDir != "" {
		c.Output.Dir = flags.OutDir
	}
	if flags.Basename != "" {
		c.Output.Basename = flags.Basename
	}
	if flags.Side > 0 {
		c.Texture.Side = flags.Side
	}
	if flags.Padding > 0 {
		c.Texture.Padding = flags.Padding
	}
	if flags.Downscale > 0 {
		c.Texture.Downscale = flags.Downscale
	}
	if flags.FillHoles {
		c.Texture.FillHoles = true
	}
	if flags.UnwrapMethod != "" {
		c.Texture.UnwrapMethod = flags.UnwrapMethod
	}
	if flags.UnwrapTool != "" {
		c.Texture.UnwrapTool = flags.UnwrapTool
	}
	if flags.Format != "" {
		c.Texture.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Texture.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.Logging.Level = flags.LogLevel
	}
	if flags.LogFile != "" {
		c.Logging.File = flags.LogFile
	}

	// Defaults for anything still unset.
	if c.Texture.Side <= 0 {
		c.Texture.Side = 8192
	}
	if c.Texture.Padding <= 0 {
		c.Texture.Padding = 5
	}
	if c.Texture.Downscale <= 0 {
		c.Texture.Downscale = 1
	}
	if c.Texture.UnwrapMethod == "" {
		c.Texture.UnwrapMethod = "basic"
	}
	if c.Texture.Format == "" {
		c.Texture.Format = "png"
	}
	if c.Texture.Workers <= 0 {
		c.Texture.Workers = runtime.NumCPU()
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Output.Basename == "" {
		c.Output.Basename = "texturedMesh"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the resolved settings before the pipeline starts.
func (c *Config) Validate() error {
	if s := c.Texture.Side; s <= 0 || s&(s-1) != 0 {
		return fmt.Errorf("config: texture side %d is not a power of two", s)
	}
	if 2*c.Texture.Padding >= c.Texture.Side {
		return fmt.Errorf("config: padding %d leaves no usable area at texture side %d",
			c.Texture.Padding, c.Texture.Side)
	}
	if c.Texture.Downscale < 1 {
		return fmt.Errorf("config: downscale %d, want 1 or greater", c.Texture.Downscale)
	}
	if c.Input.OBJ == "" && (c.Input.Mesh == "" || c.Input.Visibilities == "") {
		return fmt.Errorf("config: need either an input obj or a mesh with visibilities")
	}
	if c.Input.Rig == "" {
		return fmt.Errorf("config: no camera rig configured")
	}
	return nil
}
