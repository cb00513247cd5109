package roundbox

import "fmt"

// Sink receives a finished mesh, typically to upload it to a renderer.
type Sink interface {
	Upload(m *Mesh) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(m *Mesh) error

// Upload calls f(m).
func (f SinkFunc) Upload(m *Mesh) error { return f(m) }

// Build generates the mesh of s and hands it to sink exactly once. Nothing is
// uploaded when generation fails.
func Build(s Spec, sink Sink) (*Mesh, error) {
	var g Generator
	return g.Build(s, sink)
}

// Build is like the package-level Build but uses g to generate the mesh.
func (g *Generator) Build(s Spec, sink Sink) (*Mesh, error) {
	m, err := g.Generate(s)
	if err != nil {
		return nil, err
	}
	if err := sink.Upload(m); err != nil {
		return nil, fmt.Errorf("upload rounded box: %w", err)
	}
	return m, nil
}
