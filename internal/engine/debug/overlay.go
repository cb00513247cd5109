package debug

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roundbox/internal/engine/shader"
	"github.com/Faultbox/roundbox/pkg/attrib"
)

const lineVertexShader = `#version 410 core
in vec3 Vertex_Position;
uniform mat4 uMVP;
void main() {
    gl_Position = uMVP * vec4(Vertex_Position, 1.0);
}
`

const lineFragmentShader = `#version 410 core
uniform vec3 uColor;
out vec4 FragColor;
void main() {
    FragColor = vec4(uColor, 1.0);
}
`

// Lines draws flat-coloured line lists. Requires a current OpenGL context.
type Lines struct {
	program *shader.Program
	vao     uint32
	vbo     uint32
	count   int32
}

// NewLines compiles the line shader.
func NewLines() (*Lines, error) {
	p, err := shader.CompileProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}
	l := &Lines{program: p}
	gl.GenVertexArrays(1, &l.vao)
	gl.GenBuffers(1, &l.vbo)
	return l, nil
}

// Set replaces the line vertices, [x, y, z] per vertex, two per segment.
func (l *Lines) Set(vertices []float32) {
	l.count = int32(len(vertices) / 3)
	if l.count == 0 {
		return
	}
	loc := attrib.Position.Location()
	gl.BindVertexArray(l.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
	gl.VertexAttribPointerWithOffset(loc, 3, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(loc)
	gl.BindVertexArray(0)
}

// Draw draws the lines transformed by mvp.
func (l *Lines) Draw(mvp mgl32.Mat4, color mgl32.Vec3) {
	if l.count == 0 {
		return
	}
	l.program.Use()
	l.program.SetMat4("uMVP", mvp)
	l.program.SetVec3("uColor", color)
	gl.BindVertexArray(l.vao)
	gl.DrawArrays(gl.LINES, 0, l.count)
	gl.BindVertexArray(0)
}

// Delete releases the GL objects.
func (l *Lines) Delete() {
	if l.vbo != 0 {
		gl.DeleteBuffers(1, &l.vbo)
		l.vbo = 0
	}
	if l.vao != 0 {
		gl.DeleteVertexArrays(1, &l.vao)
		l.vao = 0
	}
	l.program.Delete()
}
