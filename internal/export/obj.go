// Package export writes generated rounded box meshes to interchange formats
// and renders previews of their texture unwrap.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/roundbox/pkg/roundbox"
)

// WriteOBJ writes m as a Wavefront OBJ object called name. Texture
// coordinates are flipped to the bottom-left origin OBJ expects.
func WriteOBJ(w io.Writer, m *roundbox.Mesh, name string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# roundbox: %d vertices, %d triangles\n", m.VertexCount(), m.TriangleCount())
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}
	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	for _, uv := range m.UVs {
		fmt.Fprintf(bw, "vt %g %g\n", uv.X, 1-uv.Y)
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
	}

	hasUV := m.UVs != nil
	group := uint32(roundbox.FaceCount)
	for i := 0; i < len(m.Indices); i += 3 {
		if m.FaceIDs != nil {
			if f := m.FaceIDs[m.Indices[i]]; f != group {
				group = f
				fmt.Fprintf(bw, "g %s\n", roundbox.Face(f))
			}
		}
		bw.WriteString("f")
		for _, idx := range m.Indices[i : i+3] {
			// OBJ indices are 1-based.
			k := idx + 1
			if hasUV {
				fmt.Fprintf(bw, " %d/%d/%d", k, k, k)
			} else {
				fmt.Fprintf(bw, " %d//%d", k, k)
			}
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

// SaveOBJ writes m to an OBJ file at path.
func SaveOBJ(path string, m *roundbox.Mesh, name string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteOBJ(f, m, name); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
