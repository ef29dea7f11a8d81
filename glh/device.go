// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import (
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"

	"sectorgl/batch"
	"sectorgl/math/vec"
)

// Frame is the per frame state shared by all devices.
type Frame struct {
	Projection *Matrix
	ModelView  *Matrix
	Eye        vec.Vec3
	// Frac interpolates between the previous and the current tick.
	Frac float32
}

type program struct {
	*Program
	projection int32
	modelview  int32
	frac       int32
	eye        int32
	tex        int32
}

func newProgram(vertex, fragment string) (*program, error) {
	p, err := NewProgram(vertex, fragment)
	if err != nil {
		return nil, err
	}
	return &program{
		Program:    p,
		projection: p.GetUniformLocation("projection"),
		modelview:  p.GetUniformLocation("modelview"),
		frac:       p.GetUniformLocation("frac"),
		eye:        p.GetUniformLocation("eye"),
		tex:        p.GetUniformLocation("tex"),
	}, nil
}

func (p *program) use(f *Frame) {
	p.Use()
	f.Projection.SetAsUniform(p.projection)
	f.ModelView.SetAsUniform(p.modelview)
	gl.Uniform1f(p.frac, f.Frac)
	gl.Uniform3f(p.eye, f.Eye.X, f.Eye.Y, f.Eye.Z)
	gl.Uniform1i(p.tex, 0)
	gl.ActiveTexture(gl.TEXTURE0)
}

// Device draws batch buffers with one shader program.
type Device[V any] struct {
	prog     *program
	textures *Textures
	frame    *Frame
	layout   func()
}

func (d *Device[V]) NewBuffer() batch.Buffer[V] {
	return &buffer[V]{
		d:   d,
		vao: NewVertexArray(),
		vbo: NewBuffer(ArrayBuffer),
	}
}

// Begin binds the program for the next draw calls.
func (d *Device[V]) Begin() {
	d.prog.use(d.frame)
}

type buffer[V any] struct {
	d   *Device[V]
	vao *VertexArray
	vbo *Buffer
}

func (b *buffer[V]) Upload(vs []V) {
	var v V
	b.vao.Bind()
	b.vbo.Bind()
	b.vbo.SetData(len(vs)*int(unsafe.Sizeof(v)), gl.Ptr(vs))
	b.d.layout()
}

func (b *buffer[V]) Draw(texture int, count int) {
	b.d.textures.Bind(texture)
	b.vao.Bind()
	gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
}

func worldLayout() {
	const stride = 8 * 4
	gl.EnableVertexAttribArray(0)
	gl.EnableVertexAttribArray(1)
	gl.EnableVertexAttribArray(2)
	gl.EnableVertexAttribArray(3)
	gl.EnableVertexAttribArray(4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.VertexAttribPointerWithOffset(1, 1, gl.FLOAT, false, stride, 3*4)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 4*4)
	gl.VertexAttribPointerWithOffset(3, 1, gl.FLOAT, false, stride, 6*4)
	gl.VertexAttribPointerWithOffset(4, 1, gl.FLOAT, false, stride, 7*4)
}

func skyLayout() {
	const stride = 4 * 4
	gl.EnableVertexAttribArray(0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.VertexAttribPointerWithOffset(1, 1, gl.FLOAT, false, stride, 3*4)
}

// Devices are the three programs a frame of batches needs.
type Devices struct {
	World *Device[batch.Vertex]
	Flood *Device[batch.Vertex]
	Sky   *Device[batch.SkyVertex]
}

func NewDevices(textures *Textures) (*Devices, error) {
	w, err := newProgram(vertexWorldSource, fragmentWorldSource)
	if err != nil {
		return nil, err
	}
	f, err := newProgram(vertexFloodSource, fragmentFloodSource)
	if err != nil {
		return nil, err
	}
	s, err := newProgram(vertexSkySource, fragmentSkySource)
	if err != nil {
		return nil, err
	}
	return &Devices{
		World: &Device[batch.Vertex]{prog: w, textures: textures, layout: worldLayout},
		Flood: &Device[batch.Vertex]{prog: f, textures: textures, layout: worldLayout},
		Sky:   &Device[batch.SkyVertex]{prog: s, textures: textures, layout: skyLayout},
	}, nil
}

// SetFrame sets the view of the next draw.
func (ds *Devices) SetFrame(f *Frame) {
	ds.World.frame = f
	ds.Flood.frame = f
	ds.Sky.frame = f
}
