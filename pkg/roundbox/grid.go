package roundbox

import "fmt"

// StackClass tells how many physical vertices a stack keeps.
type StackClass uint8

const (
	// Ultimate is the pole itself: a single vertex.
	Ultimate StackClass = iota
	// Penultimate is the ring next to a pole. Its sectors collapse onto the
	// four corners of the flat cap, one vertex per quadrant (or per quadrant
	// half when seams are split).
	Penultimate
	// Ordinary stacks keep a vertex for every physical sector.
	Ordinary
)

func (c StackClass) String() string {
	switch c {
	case Ultimate:
		return "ultimate"
	case Penultimate:
		return "penultimate"
	case Ordinary:
		return "ordinary"
	default:
		return fmt.Sprintf("StackClass(%d)", uint8(c))
	}
}

// Pole is the hemisphere a stack belongs to.
type Pole uint8

const (
	Top Pole = iota
	Bottom
)

func (p Pole) String() string {
	if p == Bottom {
		return "bottom"
	}
	return "top"
}

// sign returns +1 for the top pole and -1 for the bottom pole.
func (p Pole) sign() float32 {
	if p == Bottom {
		return -1
	}
	return 1
}

// Region is the face family a stack belongs to.
type Region uint8

const (
	// RegionCap stacks belong to the top or bottom face.
	RegionCap Region = iota
	// RegionSide stacks belong to one of the four side faces.
	RegionSide
)

func (r Region) String() string {
	if r == RegionSide {
		return "side"
	}
	return "cap"
}

// Stack is the decoded form of a physical stack.
type Stack struct {
	Class StackClass
	Pole  Pole
	// Step is the number of logical stack steps from the stack's own pole,
	// in [0, m]. Penultimate stacks sit at step 0 like the pole, only
	// pushed out to the cap corners.
	Step int
	// Region is the face family. When seams are split the ring halfway down
	// each fillet exists twice, once per region.
	Region Region
}

// Sector is the decoded form of a physical sector.
type Sector struct {
	// Quadrant is the box corner the sector belongs to, counter-clockwise
	// from (+X, +Y).
	Quadrant int
	// Step is the position along the corner arc, in [0, m].
	Step int
	// Half is 0 for the leading half of the quadrant and 1 for the trailing
	// half. Always 0 unless seams are split.
	Half int
}

// Grid maps the logical sector/stack lattice of a rounded box onto a dense
// physical vertex index space.
//
// Physical stacks run from the top pole to the bottom pole: ultimate,
// penultimate, the ordinary rings, penultimate, ultimate. Ordinary rings
// hold 4·(m+1) vertices, the arc of each quadrant including both of its
// ends, so the flat faces between quadrants come from the quadrant offsets.
// With split seams every quadrant holds one more vertex (its arc midpoint
// twice) and each hemisphere one more ring (its fillet midpoint twice).
type Grid struct {
	m     int
	split bool
}

// NewGrid returns the grid for the given subdivision count. Split mode rounds
// the count up to an even number so that every seam falls on a grid line.
func NewGrid(subdivisions int, split bool) (Grid, error) {
	if subdivisions < 1 {
		return Grid{}, &ConfigError{Field: "subdivisions", Value: subdivisions, Reason: "must be at least 1"}
	}
	return Grid{m: EffectiveSubdivisions(subdivisions, split), split: split}, nil
}

// Subdivisions returns the effective number of segments per quarter arc.
func (g Grid) Subdivisions() int { return g.m }

// Split reports whether face seams own separate vertices.
func (g Grid) Split() bool { return g.split }

// LogicalSectors returns the number of logical sector steps in a full turn.
func (g Grid) LogicalSectors() int { return 4 * g.m }

// LogicalStacks returns the number of logical stack steps from pole to pole.
func (g Grid) LogicalStacks() int { return 2 * g.m }

func (g Grid) extra() int {
	if g.split {
		return 1
	}
	return 0
}

func (g Grid) quadrantSize() int { return g.m + 1 + g.extra() }

func (g Grid) penultimateSize() int { return 4 * (1 + g.extra()) }

func (g Grid) ordinaryRings() int { return 2*g.m + 2*g.extra() }

// RingSize returns the number of physical sectors in a full ring.
func (g Grid) RingSize() int { return 4 * g.quadrantSize() }

// Stacks returns the number of physical stacks.
func (g Grid) Stacks() int { return g.ordinaryRings() + 4 }

// VertexCount returns the number of physical vertices.
func (g Grid) VertexCount() int {
	return 2 + 2*g.penultimateSize() + g.ordinaryRings()*g.RingSize()
}

// TriangleCount returns the number of non-degenerate triangles.
func (g Grid) TriangleCount() int {
	return 16 * (g.m*g.m + g.m + 1)
}

// IndexCount returns the length of the triangle index buffer.
func (g Grid) IndexCount() int { return 3 * g.TriangleCount() }

// Stack decodes physical stack ps.
func (g Grid) Stack(ps int) Stack {
	n := g.Stacks()
	st := Stack{Pole: Top}
	local := ps
	if ps >= n/2 {
		st.Pole = Bottom
		local = n - 1 - ps
	}

	switch local {
	case 0:
		st.Class = Ultimate
	case 1:
		st.Class = Penultimate
	default:
		ring := local - 2
		st.Class = Ordinary
		st.Step = ring + 1
		switch {
		case !g.split:
			if 2*st.Step > g.m {
				st.Region = RegionSide
			}
		case ring >= g.m/2:
			st.Step = ring
			st.Region = RegionSide
		}
	}
	return st
}

// LogicalStack returns the logical stack of st counted from the top pole,
// in [0, 2m].
func (g Grid) LogicalStack(st Stack) int {
	if st.Pole == Bottom {
		return 2*g.m - st.Step
	}
	return st.Step
}

// LogicalSector returns the logical sector of s, in [0, 4m].
func (g Grid) LogicalSector(s Sector) int {
	return s.Quadrant*g.m + s.Step
}

// Width returns the number of physical vertices in stack ps.
func (g Grid) Width(ps int) int {
	switch g.Stack(ps).Class {
	case Ultimate:
		return 1
	case Penultimate:
		return g.penultimateSize()
	default:
		return g.RingSize()
	}
}

// Offset returns the physical index of the first vertex of stack ps.
func (g Grid) Offset(ps int) int {
	n := g.Stacks()
	switch {
	case ps <= 0:
		return 0
	case ps == 1:
		return 1
	case ps < n-1:
		return 1 + g.penultimateSize() + (ps-2)*g.RingSize()
	default:
		return 1 + 2*g.penultimateSize() + g.ordinaryRings()*g.RingSize()
	}
}

// ringSector decodes ring position p in [0, RingSize).
func (g Grid) ringSector(p int) Sector {
	q := g.quadrantSize()
	s := Sector{Quadrant: p / q, Step: p % q}
	if g.split && s.Step > g.m/2 {
		s.Step--
		s.Half = 1
	}
	return s
}

// Sector decodes the e-th physical vertex of stack ps. Collapsed vertices
// report a representative logical sector: the quadrant start, or the
// quadrant end for a trailing half.
func (g Grid) Sector(ps, e int) Sector {
	switch g.Stack(ps).Class {
	case Ultimate:
		return Sector{}
	case Penultimate:
		per := 1 + g.extra()
		s := Sector{Quadrant: e / per, Half: e % per}
		s.Step = s.Half * g.m
		return s
	default:
		return g.ringSector(e)
	}
}

// Index returns the physical vertex index of ring position sector on
// physical stack stack. Positions on collapsed stacks alias each other.
func (g Grid) Index(sector, stack int) uint32 {
	base := g.Offset(stack)
	switch g.Stack(stack).Class {
	case Ultimate:
		return uint32(base)
	case Penultimate:
		s := g.ringSector(sector)
		return uint32(base + s.Quadrant*(1+g.extra()) + s.Half)
	default:
		return uint32(base + sector)
	}
}

// SeamSector reports whether ring positions p and p+1 are the two copies of
// a split corner midpoint.
func (g Grid) SeamSector(p int) bool {
	return g.split && p%g.quadrantSize() == g.m/2
}

// SeamStack reports whether physical stacks ps and ps+1 are the two copies
// of a split fillet midpoint.
func (g Grid) SeamStack(ps int) bool {
	if !g.split {
		return false
	}
	a, b := g.Stack(ps), g.Stack(ps+1)
	return a.Class == Ordinary && b.Class == Ordinary && a.Region != b.Region
}

// Face returns the face a vertex belongs to. It is only meaningful for a
// split grid, where every vertex lies on exactly one face.
func (g Grid) Face(st Stack, s Sector) Face {
	if st.Class != Ordinary || st.Region == RegionCap {
		if st.Pole == Bottom {
			return FaceBottom
		}
		return FaceTop
	}
	return sideFace(s.Quadrant + s.Half)
}
