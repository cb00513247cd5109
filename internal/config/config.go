// Package config handles roundbox configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/roundbox/pkg/math"
	"github.com/Faultbox/roundbox/pkg/roundbox"
)

// Config holds all settings shared by the roundbox tools.
type Config struct {
	Box       BoxConfig       `yaml:"box"`
	Generator GeneratorConfig `yaml:"generator"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Export    ExportConfig    `yaml:"export"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// BoxConfig describes the rounded box to generate.
type BoxConfig struct {
	Size           [3]float32 `yaml:"size,flow"`
	Radius         float32    `yaml:"radius"`
	Subdivisions   int        `yaml:"subdivisions"`
	GenerateUV     bool       `yaml:"generate_uv"`
	GenerateFaceID bool       `yaml:"generate_face_id"`
}

// Spec converts the box settings to a generator spec.
func (b BoxConfig) Spec() roundbox.Spec {
	return roundbox.Spec{
		Size:         math.Vec3{X: b.Size[0], Y: b.Size[1], Z: b.Size[2]},
		Radius:       b.Radius,
		Subdivisions: b.Subdivisions,
		Options: roundbox.Options{
			GenerateUV:     b.GenerateUV,
			GenerateFaceID: b.GenerateFaceID,
		},
	}
}

// GeneratorConfig holds mesh generation settings.
type GeneratorConfig struct {
	Workers int `yaml:"workers"` // Stack evaluation goroutines, <2 is sequential
}

// Shading modes understood by the viewer.
const (
	ShadingFace   = "face"
	ShadingUV     = "uv"
	ShadingNormal = "normal"
)

// ViewerConfig holds display and animation settings.
type ViewerConfig struct {
	Width         int        `yaml:"width"`
	Height        int        `yaml:"height"`
	VSync         bool       `yaml:"vsync"`
	Shading       string     `yaml:"shading"`
	RotationSpeed float32    `yaml:"rotation_speed"` // Phase advance in radians per second
	Wireframe     bool       `yaml:"wireframe"`
	Background    [3]float32 `yaml:"background,flow"`
	Texture       string     `yaml:"texture"`        // Image for uv shading, empty for the built-in test pattern
	ScreenshotDir string     `yaml:"screenshot_dir"` // Where screenshots are written
}

// Export formats understood by the CLI.
const (
	FormatOBJ = "obj"
	FormatSTL = "stl"
)

// ExportConfig holds mesh export settings.
type ExportConfig struct {
	Format    string `yaml:"format"`
	Output    string `yaml:"output"`
	UVMapSize int    `yaml:"uv_map_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Box: BoxConfig{
			Size:           [3]float32{2, 2, 2},
			Radius:         0.4,
			Subdivisions:   4,
			GenerateUV:     true,
			GenerateFaceID: true,
		},
		Generator: GeneratorConfig{
			Workers: 1,
		},
		Viewer: ViewerConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			Shading:       ShadingFace,
			RotationSpeed: 0.5,
			Background:    [3]float32{0.1, 0.1, 0.12},
			ScreenshotDir: "screenshots",
		},
		Export: ExportConfig{
			Format:    FormatOBJ,
			Output:    "roundbox.obj",
			UVMapSize: 1024,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks settings that cannot be caught by the YAML decoder.
func (c *Config) Validate() error {
	if err := c.Box.Spec().Validate(); err != nil {
		return fmt.Errorf("box: %w", err)
	}
	switch c.Viewer.Shading {
	case ShadingFace, ShadingUV, ShadingNormal:
	default:
		return fmt.Errorf("viewer: unknown shading %q", c.Viewer.Shading)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("viewer: invalid window size %dx%d", c.Viewer.Width, c.Viewer.Height)
	}
	switch c.Export.Format {
	case FormatOBJ, FormatSTL:
	default:
		return fmt.Errorf("export: unknown format %q", c.Export.Format)
	}
	if c.Export.UVMapSize <= 0 {
		return fmt.Errorf("export: invalid uv map size %d", c.Export.UVMapSize)
	}
	return nil
}
