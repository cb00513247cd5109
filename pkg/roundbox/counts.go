package roundbox

// EffectiveSubdivisions returns the subdivision count the grid actually uses.
// Split grids need an even count so the seam ring and seam sector fall on a
// grid line.
func EffectiveSubdivisions(n int, split bool) int {
	if split && n%2 != 0 {
		return n + 1
	}
	return n
}

// VertexCount returns the number of vertices generated for n subdivisions.
//
//	V = 2 + 2·4(1+s) + (2m+2s)·4(m+1+s)
//
// where m is the effective subdivision count and s is 1 for split grids.
func VertexCount(n int, split bool) int {
	m := EffectiveSubdivisions(n, split)
	s := 0
	if split {
		s = 1
	}
	return 2 + 8*(1+s) + (2*m+2*s)*4*(m+1+s)
}

// TriangleCount returns the number of triangles generated for n subdivisions.
// Splitting seams adds vertices but no triangles, so only the effective
// subdivision count matters.
//
//	T = 16(m² + m + 1)
func TriangleCount(n int, split bool) int {
	m := EffectiveSubdivisions(n, split)
	return 16 * (m*m + m + 1)
}

// IndexCount returns the length of the index buffer for n subdivisions.
func IndexCount(n int, split bool) int {
	return 3 * TriangleCount(n, split)
}
