// SPDX-License-Identifier: GPL-2.0-or-later

package batch

import (
	"testing"
)

type fakeBuffer struct {
	d *fakeDevice
}

func (b *fakeBuffer) Upload(vs []Vertex) {
	b.d.uploaded += len(vs)
}

func (b *fakeBuffer) Draw(texture int, count int) {
	b.d.draws = append(b.d.draws, texture)
}

type fakeDevice struct {
	buffers  int
	uploaded int
	draws    []int
	begins   int
}

func (d *fakeDevice) Begin() {
	d.begins++
}

func (d *fakeDevice) NewBuffer() Buffer[Vertex] {
	d.buffers++
	return &fakeBuffer{d: d}
}

func TestManagerOrderAndClear(t *testing.T) {
	m := NewManager[Vertex]()
	m.Add(7, Vertex{}, Vertex{})
	m.Add(2, Vertex{})
	m.Add(7, Vertex{})
	m.Add(3)
	used := m.Used()
	if len(used) != 2 || used[0].Texture != 7 || used[1].Texture != 2 {
		t.Fatalf("Used() = %v entries", len(used))
	}
	if m.Count() != 4 {
		t.Errorf("Count() = %v, want 4", m.Count())
	}
	m.Clear()
	if m.Count() != 0 || len(m.Used()) != 0 {
		t.Errorf("Clear() left %v vertices", m.Count())
	}
	m.Add(2, Vertex{})
	if used := m.Used(); len(used) != 1 || used[0].Texture != 2 {
		t.Errorf("Used() after clear = %v", used)
	}
}

func TestDrawReusesBuffer(t *testing.T) {
	d := &fakeDevice{}
	m := NewManager[Vertex]()
	for i := 0; i < 3; i++ {
		m.Clear()
		m.Add(1, make([]Vertex, 6)...)
		m.Draw(d)
	}
	if d.buffers != 1 {
		t.Errorf("buffers created = %v, want 1", d.buffers)
	}
	if d.uploaded != 18 || len(d.draws) != 3 {
		t.Errorf("uploaded %v draws %v", d.uploaded, d.draws)
	}
}

func TestDrawEmpty(t *testing.T) {
	d := &fakeDevice{}
	r := &RenderGeometryData[Vertex]{Texture: 1}
	r.Draw(d)
	if d.buffers != 0 {
		t.Errorf("empty batch created a buffer")
	}
}

func TestDrawBegins(t *testing.T) {
	d := &fakeDevice{}
	m := NewManager[Vertex]()
	m.Draw(d)
	if d.begins != 0 {
		t.Errorf("Draw() of an empty manager began %v times", d.begins)
	}
	m.Add(1, make([]Vertex, 3)...)
	m.Add(2, make([]Vertex, 3)...)
	m.Draw(d)
	if d.begins != 1 || len(d.draws) != 2 {
		t.Errorf("Draw() began %v times with draws %v, want 1 and 2 draws", d.begins, d.draws)
	}
}
