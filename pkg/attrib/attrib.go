// Package attrib is the process-wide registry of named vertex attribute
// channels. Every channel is registered once during package initialisation
// and the registry is read-only afterwards, so rendering code can resolve a
// channel by name without depending on the generator's buffer layout.
package attrib

import (
	"fmt"
	"sort"
)

// Format describes the element type of one vertex of a channel.
type Format uint8

const (
	Float32x2 Format = iota + 1
	Float32x3
	Uint32
)

// Components returns the number of scalar components per vertex.
func (f Format) Components() int {
	switch f {
	case Float32x2:
		return 2
	case Float32x3:
		return 3
	case Uint32:
		return 1
	default:
		return 0
	}
}

// Size returns the size in bytes of one vertex of the format.
func (f Format) Size() int {
	return f.Components() * 4
}

// Integer reports whether the components are integers rather than floats.
func (f Format) Integer() bool {
	return f == Uint32
}

func (f Format) String() string {
	switch f {
	case Float32x2:
		return "float32x2"
	case Float32x3:
		return "float32x3"
	case Uint32:
		return "uint32"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Attribute is an opaque handle to a registered channel.
type Attribute struct {
	name     string
	id       uint64
	format   Format
	location uint32
}

// Name returns the stable lookup name.
func (a Attribute) Name() string { return a.name }

// ID returns the stable numeric identifier.
func (a Attribute) ID() uint64 { return a.id }

// Format returns the per-vertex element format.
func (a Attribute) Format() Format { return a.format }

// Location returns the shader input location conventionally bound to the channel.
func (a Attribute) Location() uint32 { return a.location }

// Valid reports whether a refers to a registered channel.
func (a Attribute) Valid() bool { return a.name != "" }

func (a Attribute) String() string {
	return fmt.Sprintf("%s(%#x, %s)", a.name, a.id, a.format)
}

var registry = map[string]Attribute{}

func register(name string, id uint64, format Format, location uint32) Attribute {
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("attrib: %q registered twice", name))
	}
	for _, a := range registry {
		if a.id == id {
			panic(fmt.Sprintf("attrib: id %#x of %q already used by %q", id, name, a.name))
		}
	}
	a := Attribute{name: name, id: id, format: format, location: location}
	registry[name] = a
	return a
}

// Built-in channels.
var (
	Position = register("Vertex_Position", 0, Float32x3, 0)
	Normal   = register("Vertex_Normal", 1, Float32x3, 1)
	UV       = register("Vertex_Uv", 2, Float32x2, 2)

	// FaceID carries the rounded box face label (0..5) of each vertex.
	FaceID = register("Vertex_FaceId", 0x5eed_f4ce_1d00_0001, Uint32, 3)
)

// Lookup resolves a channel by name.
func Lookup(name string) (Attribute, bool) {
	a, ok := registry[name]
	return a, ok
}

// All returns every registered channel ordered by shader location.
func All() []Attribute {
	out := make([]Attribute, 0, len(registry))
	for _, a := range registry {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].location < out[j].location
	})
	return out
}
