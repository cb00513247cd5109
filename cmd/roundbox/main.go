// roundbox is a CLI utility for generating and inspecting rounded box meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/roundbox/internal/config"
	"github.com/Faultbox/roundbox/internal/export"
	"github.com/Faultbox/roundbox/internal/logger"
	"github.com/Faultbox/roundbox/pkg/roundbox"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "export", "x":
		err = cmdExport(args)
	case "uvmap":
		err = cmdUVMap(args)
	case "check":
		err = cmdCheck(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`roundbox - rounded box mesh generator

Usage:
  roundbox <command> [options]

Commands:
  info                 Show vertex/triangle counts and grid layout
  export               Write the mesh as Wavefront OBJ or binary STL
  uvmap                Render the texture layout to a PNG
  check                Generate the mesh and verify its invariants
  config               Print the effective configuration as YAML

Common options:
  -size X,Y,Z          Box size (or a single value for a cube)
  -radius R            Fillet radius
  -subdivisions N      Segments per quarter arc
  -uv, -face-id        Generate texture coordinates / face ids
  -workers N           Parallel vertex evaluation
  -config FILE         Config file (default ./roundbox.yaml)
  -debug               Debug logging

Examples:
  roundbox info -subdivisions 3 -uv
  roundbox export -size 2,1,1 -radius 0.25 -o box.obj
  roundbox export -format stl -o box.stl
  roundbox uvmap -o layout.png -edges`)
}

// setup parses the shared flags plus any command-specific ones registered by
// extra, loads the configuration and initializes logging.
func setup(name string, args []string, extra func(fs *flag.FlagSet)) (*config.Config, *flag.FlagSet, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	if extra != nil {
		extra(fs)
	}
	fs.Parse(args)

	cfg, err := config.Load(fs, flags)
	if err != nil {
		return nil, nil, err
	}
	if err := initLogging(cfg.Logging); err != nil {
		return nil, nil, err
	}
	return cfg, fs, nil
}

func initLogging(cfg config.LoggingConfig) error {
	fileCfg := logger.FileConfig{}
	if cfg.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.LogFile)
		fileCfg.JSON = cfg.JSON
	}
	if err := logger.InitWithWriters(cfg.Level, fileCfg, os.Stderr); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	return nil
}

func generate(cfg *config.Config) (*roundbox.Mesh, error) {
	gen := roundbox.Generator{
		Logger:  logger.Named("roundbox"),
		Workers: cfg.Generator.Workers,
	}
	return gen.Generate(cfg.Box.Spec())
}

func cmdInfo(args []string) error {
	cfg, _, err := setup("info", args, nil)
	if err != nil {
		return err
	}

	spec := cfg.Box.Spec()
	grid, err := spec.Grid()
	if err != nil {
		return err
	}
	core := spec.CoreSize()

	fmt.Printf("Size:          %g x %g x %g\n", spec.Size.X, spec.Size.Y, spec.Size.Z)
	fmt.Printf("Radius:        %g\n", spec.Radius)
	fmt.Printf("Core:          %g x %g x %g\n", core.X, core.Y, core.Z)
	fmt.Printf("Subdivisions:  %d (effective %d)\n", spec.Subdivisions, grid.Subdivisions())
	fmt.Printf("Split seams:   %t\n", grid.Split())
	fmt.Println()
	fmt.Printf("Vertices:      %d\n", grid.VertexCount())
	fmt.Printf("Triangles:     %d\n", grid.TriangleCount())
	fmt.Printf("Indices:       %d\n", grid.IndexCount())
	fmt.Println()
	fmt.Printf("Logical grid:  %d sectors x %d stacks\n", grid.LogicalSectors(), grid.LogicalStacks())
	fmt.Printf("Physical:      %d stacks, ring size %d\n", grid.Stacks(), grid.RingSize())
	fmt.Println()
	fmt.Println("Stacks:")
	for ps := 0; ps < grid.Stacks(); ps++ {
		st := grid.Stack(ps)
		seam := ""
		if grid.SeamStack(ps) {
			seam = " seam"
		}
		fmt.Printf("  %3d  %-12s %-6s step %-3d %-4s %4d verts @ %d%s\n",
			ps, st.Class, st.Pole, st.Step, regionName(grid, st), grid.Width(ps), grid.Offset(ps), seam)
	}
	return nil
}

func regionName(g roundbox.Grid, st roundbox.Stack) string {
	if !g.Split() {
		return "-"
	}
	return st.Region.String()
}

func cmdExport(args []string) error {
	cfg, _, err := setup("export", args, nil)
	if err != nil {
		return err
	}

	m, err := generate(cfg)
	if err != nil {
		return err
	}

	out := cfg.Export.Output
	format := cfg.Export.Format
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), "."); ext == config.FormatOBJ || ext == config.FormatSTL {
		format = ext
	}

	switch format {
	case config.FormatSTL:
		err = export.SaveSTL(out, m)
	default:
		name := strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
		err = export.SaveOBJ(out, m, name)
	}
	if err != nil {
		return err
	}

	logger.Info("mesh exported",
		zap.String("path", out),
		zap.String("format", format),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
	)
	fmt.Printf("Wrote %s (%d vertices, %d triangles)\n", out, m.VertexCount(), m.TriangleCount())
	return nil
}

func cmdUVMap(args []string) error {
	var cell int
	var edges bool
	cfg, fs, err := setup("uvmap", args, func(fs *flag.FlagSet) {
		fs.IntVar(&cell, "cell", 0, "Pixel size of one face chart (default from config)")
		fs.BoolVar(&edges, "edges", false, "Stroke triangle edges")
	})
	if err != nil {
		return err
	}

	// The layout is grouped by face and needs both channels.
	cfg.Box.GenerateUV = true
	cfg.Box.GenerateFaceID = true
	if cell <= 0 {
		cell = cfg.Export.UVMapSize
	}

	out := "uvmap.png"
	setOutput := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "o" {
			setOutput = true
		}
	})
	if setOutput {
		out = cfg.Export.Output
	}

	m, err := generate(cfg)
	if err != nil {
		return err
	}
	if err := export.SaveUVMap(out, m, export.UVMapOptions{CellSize: cell, Edges: edges}); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func cmdCheck(args []string) error {
	cfg, _, err := setup("check", args, nil)
	if err != nil {
		return err
	}

	split := cfg.Box.GenerateUV || cfg.Box.GenerateFaceID
	wantV := roundbox.VertexCount(cfg.Box.Subdivisions, split)
	wantT := roundbox.TriangleCount(cfg.Box.Subdivisions, split)

	m, err := generate(cfg)
	if err != nil {
		if errors.Is(err, roundbox.ErrInvariant) {
			return fmt.Errorf("invariant violated: %w", err)
		}
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}

	b := m.Bounds
	fmt.Printf("Vertices:   %d (expected %d)\n", m.VertexCount(), wantV)
	fmt.Printf("Triangles:  %d (expected %d)\n", m.TriangleCount(), wantT)
	fmt.Printf("Bounds:     (%g, %g, %g) - (%g, %g, %g)\n", b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	fmt.Printf("Channels:  ")
	for _, a := range m.Channels() {
		fmt.Printf(" %s", a.Name())
	}
	fmt.Println()
	fmt.Println("OK")
	return nil
}

func cmdConfig(args []string) error {
	var save bool
	cfg, _, err := setup("config", args, func(fs *flag.FlagSet) {
		fs.BoolVar(&save, "save", false, "Write to the user config directory")
	})
	if err != nil {
		return err
	}
	if save {
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
		return nil
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	os.Stdout.Write(data)
	return nil
}
