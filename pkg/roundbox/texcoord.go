package roundbox

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/roundbox/pkg/math"
)

// unwrap maps vertices of a split grid onto per-face texture coordinates.
//
// Every face is unwrapped on its own into [0,1]². A face spans its flat core
// plus half of each fillet that borders it, measured as arc length, so texel
// density is uniform across the flat part and the rounded part. Caps are
// unwrapped radially from their centre; the bottom cap is mirrored in v so it
// reads correctly when seen from below.
//
// The ultimate pole always maps to the cap centre (0.5, 0.5). The triangles
// fanning out of it span a whole cap quadrant, so texture detail near the
// pole is interpolated across them.
type unwrap struct {
	grid    Grid
	core    math.Vec3
	arc     float32
	halfArc float32
}

func newUnwrap(s Spec, g Grid) unwrap {
	m := float32(g.Subdivisions())
	arc := (math32.Pi / 2) * s.Radius / m
	return unwrap{
		grid:    g,
		core:    s.CoreSize(),
		arc:     arc,
		halfArc: arc * m / 2,
	}
}

// uv returns the texture coordinates of a decoded vertex.
func (w unwrap) uv(st Stack, s Sector) math.Vec2 {
	face := w.grid.Face(st, s)
	if face.IsSide() {
		return w.side(face, st, s)
	}
	return w.cap(st, s)
}

func (w unwrap) cap(st Stack, s Sector) math.Vec2 {
	var p math.Vec2
	if st.Class != Ultimate {
		sign := quadrantSign[s.Quadrant]
		p = math.Vec2{X: sign.X * w.core.X / 2, Y: sign.Y * w.core.Y / 2}
	}
	if st.Class == Ordinary {
		az := float32(w.grid.LogicalSector(s)) * (math32.Pi / 2) / float32(w.grid.Subdivisions())
		sinA, cosA := math32.Sincos(az)
		d := float32(st.Step) * w.arc
		p = p.Add(math.Vec2{X: d * cosA, Y: d * sinA})
	}

	u := 0.5 + p.X/(w.core.X+2*w.halfArc)
	v := p.Y / (w.core.Y + 2*w.halfArc)
	if st.Pole == Top {
		return math.Vec2{X: u, Y: 0.5 - v}
	}
	return math.Vec2{X: u, Y: 0.5 + v}
}

func (w unwrap) side(face Face, st Stack, s Sector) math.Vec2 {
	half := w.grid.Subdivisions() / 2

	width := w.core.X
	if face == FacePosX || face == FaceNegX {
		width = w.core.Y
	}

	var du float32
	if s.Half == 1 {
		du = float32(s.Step-half) * w.arc
	} else {
		du = w.halfArc + width + float32(s.Step)*w.arc
	}

	var dv float32
	if st.Pole == Top {
		dv = float32(st.Step-half) * w.arc
	} else {
		dv = w.halfArc + w.core.Z + float32(w.grid.Subdivisions()-st.Step)*w.arc
	}

	return math.Vec2{
		X: du / (width + 2*w.halfArc),
		Y: dv / (w.core.Z + 2*w.halfArc),
	}
}
