// Package debug provides overlay geometry and screenshots for the viewer.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roundbox/pkg/roundbox"
)

// BoundsVertexCount is the number of line vertices of a box outline (12 edges x 2).
const BoundsVertexCount = 24

// BoundsLines returns the 12 edges of an axis-aligned box as line vertices,
// format [x, y, z] per vertex. pad grows the box on all sides.
func BoundsLines(b roundbox.Bounds, pad float32) []float32 {
	lo := mgl32.Vec3(b.Min.Array()).Sub(mgl32.Vec3{pad, pad, pad})
	hi := mgl32.Vec3(b.Max.Array()).Add(mgl32.Vec3{pad, pad, pad})

	corner := func(i int) mgl32.Vec3 {
		c := lo
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				c[axis] = hi[axis]
			}
		}
		return c
	}

	out := make([]float32, 0, 3*BoundsVertexCount)
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			bit := 1 << axis
			if i&bit != 0 {
				continue
			}
			p, q := corner(i), corner(i|bit)
			out = append(out, p[0], p[1], p[2], q[0], q[1], q[2])
		}
	}
	return out
}

// NormalLines returns one segment per vertex from the position along its
// normal, scaled by length.
func NormalLines(m *roundbox.Mesh, length float32) []float32 {
	out := make([]float32, 0, 6*m.VertexCount())
	for i, p := range m.Positions {
		q := p.Add(m.Normals[i].Scale(length))
		out = append(out, p.X, p.Y, p.Z, q.X, q.Y, q.Z)
	}
	return out
}
