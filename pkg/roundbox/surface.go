package roundbox

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/roundbox/pkg/math"
)

// quadrantSign holds the X/Y sign of each box corner, counter-clockwise from
// (+X, +Y).
var quadrantSign = [4]math.Vec2{
	{X: 1, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: -1},
	{X: 1, Y: -1},
}

// surface evaluates positions and normals of one rounded box.
type surface struct {
	grid   Grid
	radius float32
	half   math.Vec3
	step   float32
}

func newSurface(s Spec, g Grid) surface {
	return surface{
		grid:   g,
		radius: s.Radius,
		half:   s.CoreSize().Scale(0.5),
		step:   (math32.Pi / 2) / float32(g.Subdivisions()),
	}
}

// azimuth returns the angle of sector s around +Z, measured from +X.
func (f surface) azimuth(s Sector) float32 {
	return float32(f.grid.LogicalSector(s)) * f.step
}

// normal returns the unit sphere direction of a decoded vertex.
func (f surface) normal(st Stack, s Sector) math.Vec3 {
	polar := float32(st.Step) * f.step
	sinP, cosP := math32.Sincos(polar)
	if st.Class == Ultimate || st.Class == Penultimate {
		sinP, cosP = 0, 1
	}
	sinA, cosA := math32.Sincos(f.azimuth(s))
	return math.Vec3{
		X: sinP * cosA,
		Y: sinP * sinA,
		Z: st.Pole.sign() * cosP,
	}
}

// corner returns the centre of the fillet sphere a vertex is swept from.
func (f surface) corner(st Stack, s Sector) math.Vec3 {
	c := math.Vec3{Z: st.Pole.sign() * f.half.Z}
	if st.Class != Ultimate {
		sign := quadrantSign[s.Quadrant]
		c.X = sign.X * f.half.X
		c.Y = sign.Y * f.half.Y
	}
	return c
}

// vertex returns the position and normal of a decoded vertex.
func (f surface) vertex(st Stack, s Sector) (position, normal math.Vec3) {
	normal = f.normal(st, s)
	position = f.corner(st, s).Add(normal.Scale(f.radius))
	return position, normal
}
