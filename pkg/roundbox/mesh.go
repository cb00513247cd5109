package roundbox

import (
	"fmt"

	"github.com/Faultbox/roundbox/pkg/attrib"
	"github.com/Faultbox/roundbox/pkg/math"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the extent of the bounds along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Mesh is an indexed triangle list with per-vertex channels.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	// UVs is nil unless texture coordinates were requested.
	UVs []math.Vec2
	// FaceIDs is nil unless face ids were requested. Values are Face labels.
	FaceIDs []uint32
	Indices []uint32
	Bounds  Bounds
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Channels returns the attribute channels present in the mesh, ordered by
// shader location.
func (m *Mesh) Channels() []attrib.Attribute {
	channels := []attrib.Attribute{attrib.Position, attrib.Normal}
	if m.UVs != nil {
		channels = append(channels, attrib.UV)
	}
	if m.FaceIDs != nil {
		channels = append(channels, attrib.FaceID)
	}
	return channels
}

// Floats returns the flattened data of a float channel, or nil if the mesh
// does not carry it.
func (m *Mesh) Floats(a attrib.Attribute) []float32 {
	switch a.Name() {
	case attrib.Position.Name():
		return flatten3(m.Positions)
	case attrib.Normal.Name():
		return flatten3(m.Normals)
	case attrib.UV.Name():
		if m.UVs == nil {
			return nil
		}
		out := make([]float32, 0, 2*len(m.UVs))
		for _, v := range m.UVs {
			out = append(out, v.X, v.Y)
		}
		return out
	}
	return nil
}

// Uint32s returns the data of an integer channel, or nil if the mesh does not
// carry it.
func (m *Mesh) Uint32s(a attrib.Attribute) []uint32 {
	if a.Name() == attrib.FaceID.Name() {
		return m.FaceIDs
	}
	return nil
}

func flatten3(vs []math.Vec3) []float32 {
	out := make([]float32, 0, 3*len(vs))
	for _, v := range vs {
		out = append(out, v.X, v.Y, v.Z)
	}
	return out
}

// Validate checks the structural invariants of the mesh: aligned channels,
// a whole number of triangles, indices in range and no triangle repeating a
// vertex. Errors wrap ErrInvariant.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if len(m.Normals) != n {
		return fmt.Errorf("%w: %d normals for %d positions", ErrInvariant, len(m.Normals), n)
	}
	if m.UVs != nil && len(m.UVs) != n {
		return fmt.Errorf("%w: %d uvs for %d positions", ErrInvariant, len(m.UVs), n)
	}
	if m.FaceIDs != nil && len(m.FaceIDs) != n {
		return fmt.Errorf("%w: %d face ids for %d positions", ErrInvariant, len(m.FaceIDs), n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvariant, len(m.Indices))
	}
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(a) >= n || int(b) >= n || int(c) >= n {
			return fmt.Errorf("%w: triangle %d (%d, %d, %d) out of range for %d vertices",
				ErrInvariant, i/3, a, b, c, n)
		}
		if !distinct(a, b, c) {
			return fmt.Errorf("%w: triangle %d (%d, %d, %d) is degenerate", ErrInvariant, i/3, a, b, c)
		}
	}
	for i, f := range m.FaceIDs {
		if f >= FaceCount {
			return fmt.Errorf("%w: vertex %d has face id %d", ErrInvariant, i, f)
		}
	}
	return nil
}

func computeBounds(ps []math.Vec3) Bounds {
	if len(ps) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: ps[0], Max: ps[0]}
	for _, p := range ps[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}
