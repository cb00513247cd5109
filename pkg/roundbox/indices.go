package roundbox

// AppendIndices appends the triangle list of g to dst and returns the
// extended slice. Each quad of the logical grid yields up to two triangles;
// a triangle is emitted only if its three corners are distinct vertices, so
// quads touching a collapsed stack degrade to a single triangle or vanish.
// Quads spanning a split seam are skipped. Triangles wind counter-clockwise
// seen from outside the box.
func (g Grid) AppendIndices(dst []uint32) []uint32 {
	ring := g.RingSize()
	stacks := g.Stacks()

	for ps := 0; ps < stacks-1; ps++ {
		if g.SeamStack(ps) {
			continue
		}
		for p := 0; p < ring; p++ {
			if g.SeamSector(p) {
				continue
			}
			pn := (p + 1) % ring

			jj := g.Index(p, ps)
			jk := g.Index(p, ps+1)
			kj := g.Index(pn, ps)
			kk := g.Index(pn, ps+1)

			if distinct(jj, jk, kj) {
				dst = append(dst, jj, jk, kj)
			}
			if distinct(kj, jk, kk) {
				dst = append(dst, kj, jk, kk)
			}
		}
	}
	return dst
}

// Indices returns the triangle list of g.
func (g Grid) Indices() []uint32 {
	return g.AppendIndices(make([]uint32, 0, g.IndexCount()))
}

func distinct(a, b, c uint32) bool {
	return a != b && b != c && a != c
}
