// Package texture loads and generates the viewer's surface textures.
package texture

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"

	"github.com/gogpu/gg"
	_ "golang.org/x/image/bmp" // BMP decoder registration
)

// Load decodes a PNG, JPEG or BMP file into RGBA.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ToRGBA(img), nil
}

// ToRGBA converts any image to *image.RGBA with a zero origin.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Checker cells per side of the orientation texture.
const checkerCells = 8

// Orientation draws a size x size test texture: a checker board with a red
// disc in the top-left corner and a large "F" in the middle. Both marks are
// chiral, so a mirrored or rotated unwrap shows on every face.
func Orientation(size int) (*image.RGBA, error) {
	if size < checkerCells {
		return nil, fmt.Errorf("orientation texture size %d too small", size)
	}
	s := float64(size)
	dc := gg.NewContext(size, size)
	defer dc.Close()

	dc.ClearWithColor(gg.RGB(0.82, 0.82, 0.80))
	cell := s / checkerCells
	dc.SetRGB(0.55, 0.57, 0.62)
	for y := 0; y < checkerCells; y++ {
		for x := (y + 1) % 2; x < checkerCells; x += 2 {
			dc.DrawRectangle(float64(x)*cell, float64(y)*cell, cell, cell)
		}
	}
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("fill checker: %w", err)
	}

	// F: stem, top bar, middle bar
	dc.SetRGB(0.12, 0.22, 0.55)
	dc.DrawRectangle(0.35*s, 0.25*s, 0.10*s, 0.50*s)
	dc.DrawRectangle(0.35*s, 0.25*s, 0.35*s, 0.10*s)
	dc.DrawRectangle(0.35*s, 0.45*s, 0.25*s, 0.10*s)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("fill marker: %w", err)
	}

	dc.SetRGB(0.85, 0.15, 0.12)
	dc.DrawCircle(0.15*s, 0.15*s, 0.07*s)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("fill corner: %w", err)
	}

	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return ToRGBA(dc.Image()), nil
}
