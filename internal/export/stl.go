package export

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Faultbox/roundbox/pkg/math"
	"github.com/Faultbox/roundbox/pkg/roundbox"
)

// Triangles converts m to the triangle soup used by sdfx.
func Triangles(m *roundbox.Mesh) []*sdf.Triangle3 {
	out := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for i := 0; i < len(m.Indices); i += 3 {
		out = append(out, &sdf.Triangle3{
			toVec(m.Positions[m.Indices[i]]),
			toVec(m.Positions[m.Indices[i+1]]),
			toVec(m.Positions[m.Indices[i+2]]),
		})
	}
	return out
}

// SaveSTL writes m to a binary STL file at path. STL has no vertex channels,
// so only positions are kept.
func SaveSTL(path string, m *roundbox.Mesh) error {
	if err := render.SaveSTL(path, Triangles(m)); err != nil {
		return fmt.Errorf("save stl %s: %w", path, err)
	}
	return nil
}

func toVec(p math.Vec3) v3.Vec {
	return v3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}
