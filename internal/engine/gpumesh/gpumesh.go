// Package gpumesh uploads rounded box meshes to OpenGL buffers.
package gpumesh

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/roundbox/internal/logger"
	"github.com/Faultbox/roundbox/pkg/attrib"
	"github.com/Faultbox/roundbox/pkg/roundbox"
)

// ErrEmpty is returned when uploading a mesh without triangles.
var ErrEmpty = errors.New("gpumesh: empty mesh")

// Mesh is a vertex array with one buffer per attribute channel and an index
// buffer. It implements roundbox.Sink; each Upload replaces the previous
// contents. Requires a current OpenGL context.
type Mesh struct {
	vao        uint32
	vbos       []uint32
	ebo        uint32
	indexCount int32
	channels   []attrib.Attribute
}

var _ roundbox.Sink = (*Mesh)(nil)

// channelBuffer is the host data of one channel. Exactly one of floats and
// uints is set, depending on the channel format.
type channelBuffer struct {
	attr   attrib.Attribute
	floats []float32
	uints  []uint32
}

// channelBuffers collects the data of every channel of m, failing if any
// channel is present without data.
func channelBuffers(m *roundbox.Mesh) ([]channelBuffer, error) {
	if len(m.Indices) == 0 || m.VertexCount() == 0 {
		return nil, ErrEmpty
	}
	channels := m.Channels()
	bufs := make([]channelBuffer, len(channels))
	for i, a := range channels {
		bufs[i].attr = a
		if a.Format().Integer() {
			bufs[i].uints = m.Uint32s(a)
			if len(bufs[i].uints) == 0 {
				return nil, fmt.Errorf("channel %s: no data", a.Name())
			}
		} else {
			bufs[i].floats = m.Floats(a)
			if len(bufs[i].floats) == 0 {
				return nil, fmt.Errorf("channel %s: no data", a.Name())
			}
		}
	}
	return bufs, nil
}

// Upload copies every channel of m into GPU buffers bound at the channel's
// shader location. A mesh that fails validation leaves the previous upload
// untouched.
func (g *Mesh) Upload(m *roundbox.Mesh) error {
	bufs, err := channelBuffers(m)
	if err != nil {
		return err
	}
	g.Delete()

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	g.vbos = make([]uint32, len(bufs))
	gl.GenBuffers(int32(len(g.vbos)), &g.vbos[0])

	channels := make([]attrib.Attribute, len(bufs))
	for i, b := range bufs {
		channels[i] = b.attr
		gl.BindBuffer(gl.ARRAY_BUFFER, g.vbos[i])
		loc := b.attr.Location()
		size := int32(b.attr.Format().Components())

		if b.uints != nil {
			gl.BufferData(gl.ARRAY_BUFFER, len(b.uints)*4, unsafe.Pointer(&b.uints[0]), gl.STATIC_DRAW)
			gl.VertexAttribIPointer(loc, size, gl.UNSIGNED_INT, 0, nil)
		} else {
			gl.BufferData(gl.ARRAY_BUFFER, len(b.floats)*4, unsafe.Pointer(&b.floats[0]), gl.STATIC_DRAW)
			gl.VertexAttribPointerWithOffset(loc, size, gl.FLOAT, false, 0, 0)
		}
		gl.EnableVertexAttribArray(loc)
	}

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	g.indexCount = int32(len(m.Indices))
	g.channels = channels
	gl.BindVertexArray(0)

	names := make([]string, len(channels))
	for i, a := range channels {
		names[i] = a.Name()
	}
	logger.Debug("mesh uploaded",
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
		zap.Strings("channels", names),
	)
	return nil
}

// Has reports whether the uploaded mesh carries channel a.
func (g *Mesh) Has(a attrib.Attribute) bool {
	for _, c := range g.channels {
		if c == a {
			return true
		}
	}
	return false
}

// IndexCount returns the number of uploaded indices.
func (g *Mesh) IndexCount() int32 { return g.indexCount }

// Draw draws the mesh as a triangle list with the current program.
func (g *Mesh) Draw() {
	if g.vao == 0 {
		return
	}
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Delete releases the GPU buffers.
func (g *Mesh) Delete() {
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
		g.ebo = 0
	}
	if len(g.vbos) > 0 {
		gl.DeleteBuffers(int32(len(g.vbos)), &g.vbos[0])
		g.vbos = nil
	}
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		g.vao = 0
	}
	g.indexCount = 0
	g.channels = nil
}
