package roundbox

import (
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/roundbox/pkg/math"
)

// Generator builds rounded box meshes.
type Generator struct {
	// Logger receives a debug summary of every generated mesh. Nil disables
	// logging.
	Logger *zap.Logger

	// Workers is the number of goroutines evaluating vertex stacks. Values
	// below 2 evaluate on the calling goroutine. The result does not depend
	// on the worker count.
	Workers int
}

// Generate builds the mesh of s with a sequential default Generator.
func Generate(s Spec) (*Mesh, error) {
	var g Generator
	return g.Generate(s)
}

// Generate validates s and builds its mesh. The mesh is checked against the
// closed-form counts and the structural invariants before it is returned.
func (g *Generator) Generate(s Spec) (*Mesh, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	grid, err := s.Grid()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	n := grid.VertexCount()
	mesh := &Mesh{
		Positions: make([]math.Vec3, n),
		Normals:   make([]math.Vec3, n),
	}
	if s.Options.GenerateUV {
		mesh.UVs = make([]math.Vec2, n)
	}
	if s.Options.GenerateFaceID {
		mesh.FaceIDs = make([]uint32, n)
	}

	ev := evaluator{
		grid:    grid,
		surface: newSurface(s, grid),
		unwrap:  newUnwrap(s, grid),
		mesh:    mesh,
	}
	if g.Workers > 1 {
		if err := ev.parallel(g.Workers); err != nil {
			return nil, fmt.Errorf("evaluate stacks: %w", err)
		}
	} else {
		for ps := 0; ps < grid.Stacks(); ps++ {
			ev.stack(ps)
		}
	}

	mesh.Indices = grid.Indices()
	mesh.Bounds = computeBounds(mesh.Positions)

	split := s.Options.SplitSeams()
	if got, want := mesh.VertexCount(), VertexCount(s.Subdivisions, split); got != want {
		return nil, fmt.Errorf("%w: generated %d vertices, expected %d", ErrInvariant, got, want)
	}
	if got, want := mesh.TriangleCount(), TriangleCount(s.Subdivisions, split); got != want {
		return nil, fmt.Errorf("%w: generated %d triangles, expected %d", ErrInvariant, got, want)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	size := s.Size.Array()
	g.logger().Debug("Generated rounded box",
		zap.Float32s("size", size[:]),
		zap.Float32("radius", s.Radius),
		zap.Int("subdivisions", grid.Subdivisions()),
		zap.Bool("split_seams", split),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("workers", g.Workers),
		zap.Duration("elapsed", time.Since(start)))

	return mesh, nil
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// evaluator fills the vertex channels of a mesh one physical stack at a time.
// Stacks own disjoint index ranges, so they can be filled concurrently.
type evaluator struct {
	grid    Grid
	surface surface
	unwrap  unwrap
	mesh    *Mesh
}

func (ev *evaluator) stack(ps int) {
	st := ev.grid.Stack(ps)
	base := ev.grid.Offset(ps)
	for e := 0; e < ev.grid.Width(ps); e++ {
		sec := ev.grid.Sector(ps, e)
		i := base + e

		ev.mesh.Positions[i], ev.mesh.Normals[i] = ev.surface.vertex(st, sec)
		if ev.mesh.UVs != nil {
			ev.mesh.UVs[i] = ev.unwrap.uv(st, sec)
		}
		if ev.mesh.FaceIDs != nil {
			ev.mesh.FaceIDs[i] = uint32(ev.grid.Face(st, sec))
		}
	}
}

func (ev *evaluator) parallel(workers int) error {
	pool := pond.NewPool(workers)
	defer pool.Stop()

	group := pool.NewGroup()
	for ps := 0; ps < ev.grid.Stacks(); ps++ {
		group.Submit(func() {
			ev.stack(ps)
		})
	}
	return group.Wait()
}
