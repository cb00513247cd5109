// Package roundbox generates triangle meshes of rounded boxes: boxes whose
// edges and corners are replaced by circular fillets, i.e. the Minkowski sum
// of a box and a sphere.
//
// The surface is parameterised like a UV sphere around the +Z axis. Each
// quarter turn of the sphere is assigned to one box corner and the flat faces
// are inserted between quarters by translating the vertices of each quadrant
// by half the core box size. Rings close to the poles collapse onto a handful
// of vertices, and when texture coordinates or face ids are requested the
// seams between the six faces are split so those attributes can be
// discontinuous.
package roundbox

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/roundbox/pkg/math"
)

var (
	// ErrInvalidSpec is wrapped by every configuration error.
	ErrInvalidSpec = errors.New("invalid rounded box spec")

	// ErrInvariant reports generated geometry that breaks a mesh invariant.
	// It indicates a defect in the generator, never a bad input.
	ErrInvariant = errors.New("rounded box invariant violated")
)

// ConfigError identifies the constraint a Spec failed.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %v: %s", ErrInvalidSpec, e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidSpec.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidSpec
}

// Options selects the optional vertex channels.
type Options struct {
	// GenerateUV adds a per-face texture unwrap.
	GenerateUV bool
	// GenerateFaceID adds the face label of every vertex.
	GenerateFaceID bool
}

// SplitSeams reports whether face seams need their own vertices.
func (o Options) SplitSeams() bool {
	return o.GenerateUV || o.GenerateFaceID
}

// Spec describes one rounded box.
type Spec struct {
	// Size is the full extent of the box along each axis.
	Size math.Vec3
	// Radius is the fillet radius of every edge and corner.
	Radius float32
	// Subdivisions is the number of segments per quarter-circle arc.
	Subdivisions int
	Options      Options
}

// Validate checks the spec without allocating any geometry.
func (s Spec) Validate() error {
	if s.Subdivisions < 1 {
		return &ConfigError{Field: "subdivisions", Value: s.Subdivisions, Reason: "must be at least 1"}
	}
	if !(s.Size.X > 0 && s.Size.Y > 0 && s.Size.Z > 0) {
		return &ConfigError{Field: "size", Value: s.Size, Reason: "all components must be positive"}
	}
	if math32.IsInf(s.Size.X, 0) || math32.IsInf(s.Size.Y, 0) || math32.IsInf(s.Size.Z, 0) {
		return &ConfigError{Field: "size", Value: s.Size, Reason: "all components must be finite"}
	}
	if !(s.Radius > 0) {
		return &ConfigError{Field: "radius", Value: s.Radius, Reason: "must be positive"}
	}
	if limit := s.Size.MinComponent() / 2; s.Radius > limit {
		return &ConfigError{
			Field:  "radius",
			Value:  s.Radius,
			Reason: fmt.Sprintf("must not exceed half the smallest size component (%g)", limit),
		}
	}
	return nil
}

// CoreSize returns the size of the box the sphere is swept along.
func (s Spec) CoreSize() math.Vec3 {
	return s.Size.Sub(math.Splat(2 * s.Radius))
}

// Grid returns the index grid used for the spec.
func (s Spec) Grid() (Grid, error) {
	return NewGrid(s.Subdivisions, s.Options.SplitSeams())
}
