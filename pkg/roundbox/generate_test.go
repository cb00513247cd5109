package roundbox

import (
	"errors"
	"fmt"
	stdmath "math"
	"slices"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/roundbox/pkg/math"
)

func cubeSpec(n int, opts Options) Spec {
	return Spec{Size: math.Splat(1), Radius: 0.1, Subdivisions: n, Options: opts}
}

func allOptions() []Options {
	return []Options{
		{},
		{GenerateUV: true},
		{GenerateFaceID: true},
		{GenerateUV: true, GenerateFaceID: true},
	}
}

func mustGenerate(t *testing.T, s Spec) *Mesh {
	t.Helper()
	m, err := Generate(s)
	if err != nil {
		t.Fatalf("Generate(%+v): %v", s, err)
	}
	return m
}

// roundedBoxSDF builds an independent distance field for s.
func roundedBoxSDF(t *testing.T, s Spec) sdf.SDF3 {
	t.Helper()
	box, err := sdf.Box3D(v3.Vec{X: float64(s.Size.X), Y: float64(s.Size.Y), Z: float64(s.Size.Z)}, float64(s.Radius))
	if err != nil {
		t.Fatalf("sdf.Box3D: %v", err)
	}
	return box
}

func toSDF(p math.Vec3) v3.Vec {
	return v3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name  string
		spec  Spec
		field string
	}{
		{"zero subdivisions", Spec{Size: math.Splat(1), Radius: 0.1, Subdivisions: 0}, "subdivisions"},
		{"negative size", Spec{Size: math.Vec3{X: 1, Y: -1, Z: 1}, Radius: 0.1, Subdivisions: 2}, "size"},
		{"zero size", Spec{Size: math.Vec3{X: 1, Y: 1, Z: 0}, Radius: 0.1, Subdivisions: 2}, "size"},
		{"zero radius", Spec{Size: math.Splat(1), Radius: 0, Subdivisions: 2}, "radius"},
		{"negative radius", Spec{Size: math.Splat(1), Radius: -0.5, Subdivisions: 2}, "radius"},
		{"radius too large", Spec{Size: math.Vec3{X: 1, Y: 0.4, Z: 1}, Radius: 0.21, Subdivisions: 2}, "radius"},
		{"nan radius", Spec{Size: math.Splat(1), Radius: float32(stdmath.NaN()), Subdivisions: 2}, "radius"},
		{"nan size", Spec{Size: math.Vec3{X: float32(stdmath.NaN()), Y: 1, Z: 1}, Radius: 0.1, Subdivisions: 2}, "size"},
		{"infinite size", Spec{Size: math.Vec3{X: 1, Y: float32(stdmath.Inf(1)), Z: 1}, Radius: 0.1, Subdivisions: 2}, "size"},
		{"all sizes infinite", Spec{Size: math.Splat(float32(stdmath.Inf(1))), Radius: 1, Subdivisions: 2}, "size"},
		{"infinite radius", Spec{Size: math.Splat(1), Radius: float32(stdmath.Inf(1)), Subdivisions: 2}, "radius"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Generate(tt.spec)
			if m != nil {
				t.Error("expected no mesh for invalid spec")
			}
			if !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("error = %v, want ErrInvalidSpec", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error %T is not a *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("ConfigError.Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestValidateAcceptsLimits(t *testing.T) {
	s := Spec{Size: math.Vec3{X: 2, Y: 3, Z: 4}, Radius: 1, Subdivisions: 1}
	if err := s.Validate(); err != nil {
		t.Errorf("radius at half the smallest size rejected: %v", err)
	}
}

func TestWorkedExamples(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		vertices  int
		triangles int
	}{
		{"plain", Options{}, 106, 208},
		{"uv", Options{GenerateUV: true}, 258, 336},
		{"face ids", Options{GenerateFaceID: true}, 258, 336},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustGenerate(t, cubeSpec(3, tt.opts))
			if m.VertexCount() != tt.vertices {
				t.Errorf("VertexCount() = %d, want %d", m.VertexCount(), tt.vertices)
			}
			if m.TriangleCount() != tt.triangles {
				t.Errorf("TriangleCount() = %d, want %d", m.TriangleCount(), tt.triangles)
			}
		})
	}
}

func TestChannelsAligned(t *testing.T) {
	for _, opts := range allOptions() {
		for n := 1; n <= 5; n++ {
			m := mustGenerate(t, cubeSpec(n, opts))
			v := m.VertexCount()
			if len(m.Normals) != v {
				t.Errorf("%+v n=%d: %d normals for %d vertices", opts, n, len(m.Normals), v)
			}
			if opts.GenerateUV != (m.UVs != nil) {
				t.Errorf("%+v n=%d: uv channel presence = %v", opts, n, m.UVs != nil)
			}
			if opts.GenerateUV && len(m.UVs) != v {
				t.Errorf("%+v n=%d: %d uvs for %d vertices", opts, n, len(m.UVs), v)
			}
			if opts.GenerateFaceID != (m.FaceIDs != nil) {
				t.Errorf("%+v n=%d: face id channel presence = %v", opts, n, m.FaceIDs != nil)
			}
			if opts.GenerateFaceID && len(m.FaceIDs) != v {
				t.Errorf("%+v n=%d: %d face ids for %d vertices", opts, n, len(m.FaceIDs), v)
			}
			for _, i := range m.Indices {
				if int(i) >= v {
					t.Fatalf("%+v n=%d: index %d out of range", opts, n, i)
				}
			}
		}
	}
}

func TestVerticesOnSurface(t *testing.T) {
	specs := []Spec{
		cubeSpec(4, Options{}),
		cubeSpec(5, Options{GenerateUV: true}),
		{Size: math.Vec3{X: 2, Y: 1, Z: 0.5}, Radius: 0.2, Subdivisions: 3},
		{Size: math.Vec3{X: 0.3, Y: 4, Z: 1}, Radius: 0.15, Subdivisions: 6, Options: Options{GenerateFaceID: true}},
	}
	for _, s := range specs {
		field := roundedBoxSDF(t, s)
		m := mustGenerate(t, s)
		half := s.Size.Scale(0.5)
		for i, p := range m.Positions {
			if d := field.Evaluate(toSDF(p)); stdmath.Abs(d) > 1e-5 {
				t.Fatalf("%+v: vertex %d at %v is %g off the surface", s, i, p, d)
			}
			a := p.Abs()
			if a.X > half.X+1e-5 || a.Y > half.Y+1e-5 || a.Z > half.Z+1e-5 {
				t.Fatalf("%+v: vertex %d at %v outside the box", s, i, p)
			}
		}
		if !m.Bounds.Size().ApproxEqual(s.Size, 1e-5) {
			t.Errorf("%+v: bounds size %v, want %v", s, m.Bounds.Size(), s.Size)
		}
	}
}

func TestNormalsAreUnitAndOutward(t *testing.T) {
	s := Spec{Size: math.Vec3{X: 1.5, Y: 1, Z: 0.8}, Radius: 0.25, Subdivisions: 4, Options: Options{GenerateUV: true}}
	m := mustGenerate(t, s)
	half := s.CoreSize().Scale(0.5)
	for i, n := range m.Normals {
		if l := n.Length(); l < 0.9999 || l > 1.0001 {
			t.Fatalf("normal %d has length %v", i, l)
		}
		// The fillet centre is the position pulled back along the normal;
		// it must lie within the core box.
		c := m.Positions[i].Sub(n.Scale(s.Radius)).Abs()
		if c.X > half.X+1e-5 || c.Y > half.Y+1e-5 || c.Z > half.Z+1e-5 {
			t.Fatalf("vertex %d: normal %v does not point away from the core", i, n)
		}
	}
}

func TestWindingEnclosesVolume(t *testing.T) {
	s := Spec{Size: math.Vec3{X: 1, Y: 1.3, Z: 0.7}, Radius: 0.1, Subdivisions: 8}
	m := mustGenerate(t, s)

	var vol float64
	for i := 0; i < len(m.Indices); i += 3 {
		a := toSDF(m.Positions[m.Indices[i]])
		b := toSDF(m.Positions[m.Indices[i+1]])
		c := toSDF(m.Positions[m.Indices[i+2]])
		vol += a.Dot(b.Cross(c)) / 6
	}

	core := s.CoreSize()
	cx, cy, cz, r := float64(core.X), float64(core.Y), float64(core.Z), float64(s.Radius)
	want := cx*cy*cz + 2*r*(cx*cy+cy*cz+cx*cz) + stdmath.Pi*r*r*(cx+cy+cz) + 4.0/3.0*stdmath.Pi*r*r*r
	if vol <= 0 {
		t.Fatalf("signed volume %g, triangles wind inward", vol)
	}
	if vol > want || vol < 0.99*want {
		t.Errorf("signed volume %g, want close to %g", vol, want)
	}
}

func TestSplitMeshIsClosedByPosition(t *testing.T) {
	type edge struct{ a, b math.Vec3 }
	m := mustGenerate(t, Spec{Size: math.Vec3{X: 1, Y: 2, Z: 3}, Radius: 0.3, Subdivisions: 4,
		Options: Options{GenerateUV: true, GenerateFaceID: true}})
	edges := make(map[edge]int)
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Positions[m.Indices[i]], m.Positions[m.Indices[i+1]], m.Positions[m.Indices[i+2]]
		edges[edge{a, b}]++
		edges[edge{b, c}]++
		edges[edge{c, a}]++
	}
	for e, count := range edges {
		if count != 1 || edges[edge{e.b, e.a}] != 1 {
			t.Fatalf("edge %v: used %d times, opposite %d times", e, count, edges[edge{e.b, e.a}])
		}
	}
}

// sameVertexSet reports whether every point of a has a counterpart in b
// within eps and vice versa.
func sameVertexSet(a, b []math.Vec3, eps float32) bool {
	covers := func(xs, ys []math.Vec3) bool {
		for _, x := range xs {
			found := false
			for _, y := range ys {
				if x.ApproxEqual(y, eps) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	return covers(a, b) && covers(b, a)
}

func rotate(r mgl32.Mat3, ps []math.Vec3) []math.Vec3 {
	out := make([]math.Vec3, len(ps))
	for i, p := range ps {
		q := r.Mul3x1(mgl32.Vec3{p.X, p.Y, p.Z})
		out[i] = math.Vec3{X: q[0], Y: q[1], Z: q[2]}
	}
	return out
}

// cubeRotations returns the 24 proper rotations of the cube: the signed
// permutation matrices with determinant +1.
func cubeRotations() []mgl32.Mat3 {
	perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	var out []mgl32.Mat3
	for _, p := range perms {
		for signs := 0; signs < 8; signs++ {
			var r mgl32.Mat3
			for col := 0; col < 3; col++ {
				s := float32(1)
				if signs&(1<<col) != 0 {
					s = -1
				}
				r.Set(p[col], col, s)
			}
			if r.Det() > 0 {
				out = append(out, r)
			}
		}
	}
	return out
}

func TestCubeRotationsKeepSurface(t *testing.T) {
	rots := cubeRotations()
	if len(rots) != 24 {
		t.Fatalf("built %d cube rotations, want 24", len(rots))
	}
	for _, opts := range []Options{{}, {GenerateUV: true}} {
		s := cubeSpec(4, opts)
		field := roundedBoxSDF(t, s)
		m := mustGenerate(t, s)
		for ri, r := range rots {
			for i, p := range rotate(r, m.Positions) {
				if d := field.Evaluate(toSDF(p)); stdmath.Abs(d) > 1e-5 {
					t.Fatalf("%+v rotation %d: vertex %d leaves the surface by %g", opts, ri, i, d)
				}
			}
		}
	}
}

func TestPoleAxisSymmetry(t *testing.T) {
	var rots []mgl32.Mat3
	for k := 0; k < 4; k++ {
		rz := mgl32.Rotate3DZ(float32(k) * stdmath.Pi / 2)
		rots = append(rots, rz, mgl32.Rotate3DX(stdmath.Pi).Mul3(rz))
	}
	for _, opts := range allOptions() {
		for _, n := range []int{1, 2, 3, 4} {
			m := mustGenerate(t, cubeSpec(n, opts))
			for i, r := range rots {
				if !sameVertexSet(m.Positions, rotate(r, m.Positions), 1e-5) {
					t.Errorf("%+v n=%d: vertex set not invariant under rotation %d", opts, n, i)
				}
			}
		}
	}
}

func TestSphereLimit(t *testing.T) {
	s := Spec{Size: math.Splat(2), Radius: 1, Subdivisions: 6, Options: Options{GenerateUV: true}}
	m := mustGenerate(t, s)
	for i, p := range m.Positions {
		if l := p.Length(); l < 0.9999 || l > 1.0001 {
			t.Fatalf("vertex %d at distance %v from centre, want 1", i, l)
		}
		if !p.ApproxEqual(m.Normals[i], 1e-5) {
			t.Fatalf("vertex %d: normal %v differs from position %v", i, m.Normals[i], p)
		}
	}
}

func TestSharpBoxLimit(t *testing.T) {
	s := Spec{Size: math.Vec3{X: 1, Y: 2, Z: 3}, Radius: 1e-4, Subdivisions: 3}
	box, err := sdf.Box3D(toSDF(s.Size), 0)
	if err != nil {
		t.Fatal(err)
	}
	m := mustGenerate(t, s)
	for i, p := range m.Positions {
		if d := box.Evaluate(toSDF(p)); stdmath.Abs(d) > 2e-4 {
			t.Fatalf("vertex %d at %v is %g away from the sharp box", i, p, d)
		}
	}
	if !m.Bounds.Size().ApproxEqual(s.Size, 1e-5) {
		t.Errorf("bounds size %v, want %v", m.Bounds.Size(), s.Size)
	}
}

func TestUVRange(t *testing.T) {
	for _, n := range []int{1, 2, 5, 8} {
		s := Spec{Size: math.Vec3{X: 1.2, Y: 0.6, Z: 2}, Radius: 0.2, Subdivisions: n, Options: Options{GenerateUV: true}}
		m := mustGenerate(t, s)
		for i, uv := range m.UVs {
			if uv.X < -1e-5 || uv.X > 1+1e-5 || uv.Y < -1e-5 || uv.Y > 1+1e-5 {
				t.Fatalf("n=%d: uv %d = %v outside [0,1]", n, i, uv)
			}
		}
		// Both poles map to the cap centre.
		for _, i := range []int{0, m.VertexCount() - 1} {
			if uv := m.UVs[i]; uv.Sub(math.Vec2{X: 0.5, Y: 0.5}).Length() > 1e-6 {
				t.Errorf("n=%d: pole %d uv = %v, want (0.5, 0.5)", n, i, uv)
			}
		}
	}
}

func TestTrianglesStayOnOneFace(t *testing.T) {
	s := Spec{Size: math.Vec3{X: 1, Y: 1.5, Z: 0.5}, Radius: 0.2, Subdivisions: 4,
		Options: Options{GenerateUV: true, GenerateFaceID: true}}
	m := mustGenerate(t, s)
	perFace := make(map[uint32]int)
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		f := m.FaceIDs[a]
		if m.FaceIDs[b] != f || m.FaceIDs[c] != f {
			t.Fatalf("triangle %d spans faces %d/%d/%d", i/3, f, m.FaceIDs[b], m.FaceIDs[c])
		}
		perFace[f]++

		// UVs wind the same way as the surface seen from outside, with v
		// pointing down the texture.
		ua, ub, uc := m.UVs[a], m.UVs[b], m.UVs[c]
		e1 := math.Vec2{X: ub.X - ua.X, Y: ua.Y - ub.Y}
		e2 := math.Vec2{X: uc.X - ua.X, Y: ua.Y - uc.Y}
		if e1.Cross(e2) <= 0 {
			t.Fatalf("triangle %d on face %s has mirrored uvs", i/3, Face(f))
		}
	}
	if len(perFace) != FaceCount {
		t.Errorf("triangles cover %d faces, want %d", len(perFace), FaceCount)
	}
}

func TestFaceIDsMatchNormals(t *testing.T) {
	m := mustGenerate(t, cubeSpec(4, Options{GenerateFaceID: true}))
	const eps = 1e-4
	for i, f := range m.FaceIDs {
		n := m.Normals[i]
		a := n.Abs()
		xy := math.Vec2{X: n.X, Y: n.Y}.Length()

		var want Face
		switch {
		case a.Z-xy > eps && n.Z > 0:
			want = FaceTop
		case a.Z-xy > eps:
			want = FaceBottom
		case xy-a.Z < eps:
			continue // fillet midpoint between cap and side
		case a.X-a.Y > eps && n.X > 0:
			want = FacePosX
		case a.X-a.Y > eps:
			want = FaceNegX
		case a.Y-a.X > eps && n.Y > 0:
			want = FacePosY
		case a.Y-a.X > eps:
			want = FaceNegY
		default:
			continue // corner arc midpoint between two sides
		}
		if Face(f) != want {
			t.Errorf("vertex %d normal %v: face %s, want %s", i, n, Face(f), want)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	for _, opts := range allOptions() {
		s := Spec{Size: math.Vec3{X: 3, Y: 2, Z: 1}, Radius: 0.4, Subdivisions: 7, Options: opts}
		want := mustGenerate(t, s)

		g := Generator{Logger: zap.NewNop(), Workers: 4}
		got, err := g.Generate(s)
		if err != nil {
			t.Fatalf("parallel Generate: %v", err)
		}
		if len(got.Positions) != len(want.Positions) || len(got.Indices) != len(want.Indices) {
			t.Fatalf("%+v: parallel mesh has different sizes", opts)
		}
		for i := range want.Positions {
			if got.Positions[i] != want.Positions[i] || got.Normals[i] != want.Normals[i] {
				t.Fatalf("%+v: vertex %d differs", opts, i)
			}
			if want.UVs != nil && got.UVs[i] != want.UVs[i] {
				t.Fatalf("%+v: uv %d differs", opts, i)
			}
			if want.FaceIDs != nil && got.FaceIDs[i] != want.FaceIDs[i] {
				t.Fatalf("%+v: face id %d differs", opts, i)
			}
		}
		for i := range want.Indices {
			if got.Indices[i] != want.Indices[i] {
				t.Fatalf("%+v: index %d differs", opts, i)
			}
		}
	}
}

func TestParallelWorkerCounts(t *testing.T) {
	opts := Options{GenerateUV: true, GenerateFaceID: true}
	for _, n := range []int{1, 2, 5} {
		s := Spec{Size: math.Vec3{X: 1, Y: 2, Z: 3}, Radius: 0.3, Subdivisions: n, Options: opts}
		want := mustGenerate(t, s)
		for _, workers := range []int{2, 3, 16, 64} {
			t.Run(fmt.Sprintf("n=%d/workers=%d", n, workers), func(t *testing.T) {
				g := Generator{Logger: zap.NewNop(), Workers: workers}
				for run := 0; run < 3; run++ {
					got, err := g.Generate(s)
					if err != nil {
						t.Fatalf("run %d: %v", run, err)
					}
					if !slices.Equal(got.Positions, want.Positions) || !slices.Equal(got.Normals, want.Normals) {
						t.Fatalf("run %d: vertices differ from sequential", run)
					}
					if !slices.Equal(got.UVs, want.UVs) || !slices.Equal(got.FaceIDs, want.FaceIDs) {
						t.Fatalf("run %d: attributes differ from sequential", run)
					}
					if !slices.Equal(got.Indices, want.Indices) {
						t.Fatalf("run %d: indices differ from sequential", run)
					}
				}
			})
		}
	}
}

func TestMeshValidate(t *testing.T) {
	base := func() *Mesh {
		return &Mesh{
			Positions: make([]math.Vec3, 3),
			Normals:   make([]math.Vec3, 3),
			Indices:   []uint32{0, 1, 2},
		}
	}
	tests := []struct {
		name   string
		modify func(m *Mesh)
	}{
		{"normals misaligned", func(m *Mesh) { m.Normals = m.Normals[:2] }},
		{"uvs misaligned", func(m *Mesh) { m.UVs = make([]math.Vec2, 1) }},
		{"face ids misaligned", func(m *Mesh) { m.FaceIDs = make([]uint32, 4) }},
		{"partial triangle", func(m *Mesh) { m.Indices = append(m.Indices, 0) }},
		{"index out of range", func(m *Mesh) { m.Indices[2] = 3 }},
		{"degenerate", func(m *Mesh) { m.Indices[2] = 0 }},
		{"bad face id", func(m *Mesh) { m.FaceIDs = []uint32{0, 1, 6} }},
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("valid mesh rejected: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.modify(m)
			if err := m.Validate(); !errors.Is(err, ErrInvariant) {
				t.Errorf("Validate() = %v, want ErrInvariant", err)
			}
		})
	}
}

func TestBuildUploadsOnce(t *testing.T) {
	calls := 0
	sink := SinkFunc(func(m *Mesh) error {
		calls++
		if m.VertexCount() != 258 {
			t.Errorf("uploaded %d vertices, want 258", m.VertexCount())
		}
		return nil
	})
	if _, err := Build(cubeSpec(3, Options{GenerateUV: true}), sink); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if calls != 1 {
		t.Errorf("sink called %d times, want 1", calls)
	}

	calls = 0
	if _, err := Build(cubeSpec(0, Options{}), sink); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("Build with invalid spec: %v", err)
	}
	if calls != 0 {
		t.Errorf("sink called %d times for invalid spec", calls)
	}

	failure := errors.New("device lost")
	_, err := Build(cubeSpec(2, Options{}), SinkFunc(func(*Mesh) error { return failure }))
	if !errors.Is(err, failure) {
		t.Errorf("Build error = %v, want wrapped sink error", err)
	}
}

func TestChannels(t *testing.T) {
	m := mustGenerate(t, cubeSpec(2, Options{GenerateFaceID: true}))
	ch := m.Channels()
	names := make([]string, len(ch))
	for i, a := range ch {
		names[i] = a.Name()
	}
	want := []string{"Vertex_Position", "Vertex_Normal", "Vertex_FaceId"}
	if len(names) != len(want) {
		t.Fatalf("Channels() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Channels()[%d] = %s, want %s", i, names[i], want[i])
		}
	}
	if got := len(m.Floats(ch[0])); got != 3*m.VertexCount() {
		t.Errorf("position data has %d floats, want %d", got, 3*m.VertexCount())
	}
	if got := len(m.Uint32s(ch[2])); got != m.VertexCount() {
		t.Errorf("face id data has %d values, want %d", got, m.VertexCount())
	}
}
