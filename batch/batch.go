// SPDX-License-Identifier: GPL-2.0-or-later

// Package batch accumulates per texture triangle lists for drawing.
package batch

// Vertex is a world vertex as uploaded to the GPU.
type Vertex struct {
	X, Y, Z    float32
	PrevZ      float32
	U, V       float32
	LightLevel float32
	Alpha      float32
}

// SkyVertex only carries a position, the sky shader projects the texture.
type SkyVertex struct {
	X, Y, Z float32
	PrevZ   float32
}

// Buffer is a GPU side vertex buffer.
type Buffer[V any] interface {
	Upload(vertices []V)
	Draw(texture int, count int)
}

// Device creates GPU buffers. A nil Device keeps batches CPU only.
type Device[V any] interface {
	NewBuffer() Buffer[V]
}

// Beginner is implemented by devices that bind state before a manager draws
// its batches.
type Beginner interface {
	Begin()
}

// RenderGeometryData holds all triangles of one texture for the current
// frame.
type RenderGeometryData[V any] struct {
	Texture  int
	Vertices []V
	buffer   Buffer[V]
}

func (r *RenderGeometryData[V]) Add(vs ...V) {
	r.Vertices = append(r.Vertices, vs...)
}

func (r *RenderGeometryData[V]) Len() int {
	return len(r.Vertices)
}

func (r *RenderGeometryData[V]) Clear() {
	r.Vertices = r.Vertices[:0]
}

// Draw uploads the accumulated vertices and issues the draw call.
func (r *RenderGeometryData[V]) Draw(d Device[V]) {
	if len(r.Vertices) == 0 || d == nil {
		return
	}
	if r.buffer == nil {
		r.buffer = d.NewBuffer()
	}
	r.buffer.Upload(r.Vertices)
	r.buffer.Draw(r.Texture, len(r.Vertices))
}

// Manager maps dense texture handles to their geometry data.
type Manager[V any] struct {
	data   []*RenderGeometryData[V]
	active []bool
	// used lists handles requested this frame in first use order.
	used []int
}

func NewManager[V any]() *Manager[V] {
	return &Manager[V]{}
}

// Get returns the batch for a texture, creating it on first use.
func (m *Manager[V]) Get(texture int) *RenderGeometryData[V] {
	if texture >= len(m.data) {
		n := make([]*RenderGeometryData[V], texture+1)
		copy(n, m.data)
		m.data = n
		a := make([]bool, texture+1)
		copy(a, m.active)
		m.active = a
	}
	d := m.data[texture]
	if d == nil {
		d = &RenderGeometryData[V]{Texture: texture}
		m.data[texture] = d
	}
	if !m.active[texture] {
		m.active[texture] = true
		m.used = append(m.used, texture)
	}
	return d
}

func (m *Manager[V]) Add(texture int, vs ...V) {
	if len(vs) == 0 {
		return
	}
	m.Get(texture).Add(vs...)
}

// Clear empties all batches but keeps their storage.
func (m *Manager[V]) Clear() {
	for _, t := range m.used {
		m.data[t].Clear()
		m.active[t] = false
	}
	m.used = m.used[:0]
}

// Used returns the batches with vertices in first use order.
func (m *Manager[V]) Used() []*RenderGeometryData[V] {
	r := make([]*RenderGeometryData[V], 0, len(m.used))
	for _, t := range m.used {
		if d := m.data[t]; d.Len() > 0 {
			r = append(r, d)
		}
	}
	return r
}

// Count returns the number of vertices over all batches.
func (m *Manager[V]) Count() int {
	c := 0
	for _, t := range m.used {
		c += m.data[t].Len()
	}
	return c
}

func (m *Manager[V]) Draw(d Device[V]) {
	if d == nil || len(m.used) == 0 {
		return
	}
	if b, ok := d.(Beginner); ok {
		b.Begin()
	}
	for _, t := range m.used {
		m.data[t].Draw(d)
	}
}

// Set is the full output of a render pass.
type Set struct {
	Normal *Manager[Vertex]
	Alpha  *Manager[Vertex]
	Flood  *Manager[Vertex]
	Sky    *Manager[SkyVertex]
}

func NewSet() *Set {
	return &Set{
		Normal: NewManager[Vertex](),
		Alpha:  NewManager[Vertex](),
		Flood:  NewManager[Vertex](),
		Sky:    NewManager[SkyVertex](),
	}
}

func (s *Set) Clear() {
	s.Normal.Clear()
	s.Alpha.Clear()
	s.Flood.Clear()
	s.Sky.Clear()
}

// Draw submits the frame. Opaque geometry goes first, translucent last.
func (s *Set) Draw(world, flood Device[Vertex], sky Device[SkyVertex]) {
	s.Normal.Draw(world)
	s.Flood.Draw(flood)
	s.Sky.Draw(sky)
	s.Alpha.Draw(world)
}
