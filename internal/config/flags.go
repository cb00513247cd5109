package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// Flags holds the command-line overrides shared by the roundbox tools.
type Flags struct {
	Config       string
	Debug        bool
	Size         vec3Flag
	Radius       float64
	Subdivisions int
	UV           bool
	FaceID       bool
	Workers      int
	Output       string
	Format       string
	Width        int
	Height       int
	Shading      string
	Texture      string

	set map[string]bool
}

// RegisterFlags registers the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.Var(&f.Size, "size", "Box size as X,Y,Z")
	fs.Float64Var(&f.Radius, "radius", 0, "Fillet radius")
	fs.IntVar(&f.Subdivisions, "subdivisions", 0, "Segments per quarter arc")
	fs.BoolVar(&f.UV, "uv", false, "Generate texture coordinates")
	fs.BoolVar(&f.FaceID, "face-id", false, "Generate face ids")
	fs.IntVar(&f.Workers, "workers", 0, "Vertex evaluation goroutines")
	fs.StringVar(&f.Output, "o", "", "Output file")
	fs.StringVar(&f.Format, "format", "", "Export format (obj, stl)")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.StringVar(&f.Shading, "shading", "", "Viewer shading (face, uv, normal)")
	fs.StringVar(&f.Texture, "texture", "", "Viewer texture image (PNG, JPEG or BMP)")
	return f
}

// markSet records which flags were given explicitly, so boolean flags can
// override a config file in both directions.
func (f *Flags) markSet(fs *flag.FlagSet) {
	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.set["size"] {
		cfg.Box.Size = f.Size
	}
	if f.Radius > 0 {
		cfg.Box.Radius = float32(f.Radius)
	}
	if f.Subdivisions > 0 {
		cfg.Box.Subdivisions = f.Subdivisions
	}
	if f.set["uv"] {
		cfg.Box.GenerateUV = f.UV
	}
	if f.set["face-id"] {
		cfg.Box.GenerateFaceID = f.FaceID
	}
	if f.Workers > 0 {
		cfg.Generator.Workers = f.Workers
	}
	if f.Output != "" {
		cfg.Export.Output = f.Output
	}
	if f.Format != "" {
		cfg.Export.Format = f.Format
	}
	if f.Width > 0 {
		cfg.Viewer.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Viewer.Height = f.Height
	}
	if f.Shading != "" {
		cfg.Viewer.Shading = f.Shading
	}
	if f.Texture != "" {
		cfg.Viewer.Texture = f.Texture
	}
}

// vec3Flag parses "X,Y,Z" or a single value used for all three axes.
type vec3Flag [3]float32

func (v *vec3Flag) String() string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", v[0], v[1], v[2])
}

func (v *vec3Flag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 1 && len(parts) != 3 {
		return fmt.Errorf("expected X,Y,Z or a single value, got %q", s)
	}
	var out [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("invalid component %q: %w", p, err)
		}
		out[i] = float32(f)
	}
	if len(parts) == 1 {
		out[1], out[2] = out[0], out[0]
	}
	*v = out
	return nil
}
