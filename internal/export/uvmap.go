package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/gg"

	"github.com/Faultbox/roundbox/pkg/roundbox"
)

// ErrNoUVs is returned when a UV map is requested for a mesh without
// texture coordinates or face ids.
var ErrNoUVs = errors.New("mesh has no texture coordinates or face ids")

// FaceColors is the preview colour of each face, indexed by face id.
var FaceColors = [roundbox.FaceCount][3]float32{
	roundbox.FaceTop:    {0.95, 0.95, 0.95},
	roundbox.FacePosX:   {0.90, 0.25, 0.25},
	roundbox.FacePosY:   {0.30, 0.80, 0.30},
	roundbox.FaceNegX:   {0.25, 0.45, 0.90},
	roundbox.FaceNegY:   {0.95, 0.80, 0.20},
	roundbox.FaceBottom: {0.55, 0.30, 0.75},
}

// atlasCell places each face chart in a 3x2 grid: top, +X, +Y on the first
// row and -X, -Y, bottom on the second.
var atlasCell = [roundbox.FaceCount][2]int{
	roundbox.FaceTop:    {0, 0},
	roundbox.FacePosX:   {1, 0},
	roundbox.FacePosY:   {2, 0},
	roundbox.FaceNegX:   {0, 1},
	roundbox.FaceNegY:   {1, 1},
	roundbox.FaceBottom: {2, 1},
}

// UVMapOptions controls the UV layout preview.
type UVMapOptions struct {
	// CellSize is the edge length in pixels of one face chart.
	CellSize int
	// Edges outlines every triangle.
	Edges bool
}

// DrawUVMap rasterises the UV layout of m into a 3x2 atlas of face charts.
// Triangles are filled with their face colour. The caller must Close the
// returned context.
func DrawUVMap(m *roundbox.Mesh, opts UVMapOptions) (*gg.Context, error) {
	if m.UVs == nil || m.FaceIDs == nil {
		return nil, ErrNoUVs
	}
	if opts.CellSize <= 0 {
		return nil, fmt.Errorf("invalid uv map cell size %d", opts.CellSize)
	}

	cell := float64(opts.CellSize)
	dc := gg.NewContext(3*opts.CellSize, 2*opts.CellSize)
	dc.ClearWithColor(gg.RGB(0.08, 0.08, 0.08))

	project := func(face roundbox.Face, i uint32) (float64, float64) {
		uv := m.UVs[i]
		c := atlasCell[face]
		return (float64(c[0]) + float64(uv.X)) * cell, (float64(c[1]) + float64(uv.Y)) * cell
	}

	for i := 0; i < len(m.Indices); i += 3 {
		tri := m.Indices[i : i+3]
		face := roundbox.Face(m.FaceIDs[tri[0]])

		for _, idx := range tri {
			x, y := project(face, idx)
			if idx == tri[0] {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()

		col := FaceColors[face]
		dc.SetRGB(float64(col[0]), float64(col[1]), float64(col[2]))
		if !opts.Edges {
			if err := dc.Fill(); err != nil {
				dc.Close()
				return nil, fmt.Errorf("fill triangle %d: %w", i/3, err)
			}
			continue
		}
		if err := dc.FillPreserve(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("fill triangle %d: %w", i/3, err)
		}
		dc.SetRGB(0.1, 0.1, 0.1)
		dc.SetLineWidth(1)
		if err := dc.Stroke(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("stroke triangle %d: %w", i/3, err)
		}
	}
	return dc, nil
}

// WriteUVMap renders the UV layout of m as PNG to w.
func WriteUVMap(w io.Writer, m *roundbox.Mesh, opts UVMapOptions) error {
	dc, err := DrawUVMap(m, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// SaveUVMap renders the UV layout of m to a PNG file at path.
func SaveUVMap(path string, m *roundbox.Mesh, opts UVMapOptions) error {
	dc, err := DrawUVMap(m, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save uv map %s: %w", path, err)
	}
	return nil
}
