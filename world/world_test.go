// SPDX-License-Identifier: GPL-2.0-or-later

package world

import (
	"testing"

	"sectorgl/batch"
	"sectorgl/bsp"
	"sectorgl/cvar"
	"sectorgl/cvars"
	"sectorgl/geometry"
	"sectorgl/level"
	"sectorgl/math/vec"
	"sectorgl/texture"
)

type testLevel struct {
	textures   *texture.Table
	stone      int
	floor      int
	level      *level.Level
	tree       *bsp.Tree
	west, east *level.Sector
}

// newTestLevel builds two 64 unit rooms joined at x=64. eastCeiling 0
// closes the joining line like a shut door.
func newTestLevel(t *testing.T, eastCeiling float64) *testLevel {
	tl := &testLevel{textures: texture.NewTable()}
	tl.stone = tl.textures.Add(texture.Texture{Name: "STONE", Kind: texture.KindWall, Width: 64, Height: 128})
	tl.floor = tl.textures.Add(texture.Texture{Name: "FLOOR", Kind: texture.KindFlat, Width: 64, Height: 64})

	b := level.NewBuilder()
	room := func(ceiling float64) *level.Sector {
		return b.Sector(level.SectorDef{Ceiling: ceiling, FloorTexture: tl.floor, CeilingTexture: tl.floor, Light: 160})
	}
	tl.west, tl.east = room(128), room(eastCeiling)
	one := func(a, c vec.Vec2, s *level.Sector) *level.Side {
		return b.Line(a, c, level.SideDef{Sector: s, Middle: tl.stone}, nil).Front
	}
	joint := b.Line(vec.Vec2{64, 64}, vec.Vec2{64, 0},
		level.SideDef{Sector: tl.west, Upper: tl.stone},
		&level.SideDef{Sector: tl.east})
	westSS := b.SubsectorFromSides(tl.west,
		one(vec.Vec2{0, 0}, vec.Vec2{0, 64}, tl.west),
		one(vec.Vec2{0, 64}, vec.Vec2{64, 64}, tl.west),
		joint.Front,
		one(vec.Vec2{64, 0}, vec.Vec2{0, 0}, tl.west))
	eastSS := b.SubsectorFromSides(tl.east,
		joint.Back,
		one(vec.Vec2{64, 64}, vec.Vec2{128, 64}, tl.east),
		one(vec.Vec2{128, 64}, vec.Vec2{128, 0}, tl.east),
		one(vec.Vec2{128, 0}, vec.Vec2{64, 0}, tl.east))
	tl.level = b.Build()

	root := bsp.NewNode(vec.Segment{Start: vec.Vec2{64, 0}, End: vec.Vec2{64, 64}}, &bsp.Leaf{Subsector: eastSS}, &bsp.Leaf{Subsector: westSS})
	tree, err := bsp.New(root)
	if err != nil {
		t.Fatalf("bsp.New: %v", err)
	}
	tl.tree = tree
	return tl
}

func (tl *testLevel) world(opts geometry.Options) *World {
	return New(tl.level, tl.tree, tl.textures, opts)
}

func setCvar(t *testing.T, cv *cvar.Cvar, v float32) {
	old := cv.Value()
	cv.SetValue(v)
	t.Cleanup(func() { cv.SetValue(old) })
}

func count(m *batch.Manager[batch.Vertex], handle int) int {
	for _, d := range m.Used() {
		if d.Texture == handle {
			return d.Len()
		}
	}
	return 0
}

func TestRenderOpen(t *testing.T) {
	tl := newTestLevel(t, 128)
	w := tl.world(geometry.Options{})
	st := w.Render(w.ViewAt(vec.Vec2{32, 32}, 41), 1, 1)
	if st.Subsectors != 2 || st.Culled != 0 {
		t.Errorf("Render() = %v, want 2 subsectors and none culled", st)
	}
	if got := count(w.Batches().Normal, tl.stone); got != 36 {
		t.Errorf("stone vertices = %v, want 36", got)
	}
	if got := count(w.Batches().Normal, tl.floor); got != 24 {
		t.Errorf("flat vertices = %v, want 24", got)
	}
	if st.Vertices != 60 {
		t.Errorf("Vertices = %v, want 60", st.Vertices)
	}
}

func TestRenderClosedDoor(t *testing.T) {
	tl := newTestLevel(t, 0)
	w := tl.world(geometry.Options{})
	st := w.Render(w.ViewAt(vec.Vec2{32, 32}, 41), 1, 1)
	if st.Subsectors != 1 || st.Culled != 1 {
		t.Errorf("Render() = %v, want 1 subsector and 1 culled", st)
	}

	setCvar(t, cvars.RendererOcclusion, 0)
	st = w.Render(w.ViewAt(vec.Vec2{32, 32}, 41), 2, 1)
	if st.Subsectors != 2 || st.Culled != 0 {
		t.Errorf("Render() without occlusion = %v, want 2 subsectors", st)
	}
}

func TestOccludedContainsViewer(t *testing.T) {
	tl := newTestLevel(t, 0)
	w := tl.world(geometry.Options{})
	w.Render(w.ViewAt(vec.Vec2{32, 32}, 41), 1, 1)
	box := vec.Box{Min: vec.Vec2{0, 0}, Max: vec.Vec2{64, 64}}
	if w.Occluded(box) {
		t.Errorf("Occluded(%v) = true for the box around the viewer", box)
	}
}

func TestRenderIsRepeatable(t *testing.T) {
	tl := newTestLevel(t, 128)
	w := tl.world(geometry.Options{})
	v := w.ViewAt(vec.Vec2{32, 32}, 41)
	first := w.Render(v, 1, 1)
	allocated := w.Renderer().Stats().Total()
	for tick := 2; tick < 10; tick++ {
		st := w.Render(v, tick, 1)
		if st != first {
			t.Errorf("Render() at tick %d = %v, want %v", tick, st, first)
		}
	}
	if got := w.Renderer().Stats().Total(); got != allocated {
		t.Errorf("cache entries = %v after repeated frames, want %v", got, allocated)
	}
}

func TestRenderSectors(t *testing.T) {
	tl := newTestLevel(t, 0)
	w := tl.world(geometry.Options{})
	w.RenderSectors(w.ViewAt(vec.Vec2{32, 32}, 41), 1, 1)
	// The closed east room is drawn without occlusion.
	if got := count(w.Batches().Normal, tl.stone); got < 36 {
		t.Errorf("stone vertices = %v, want at least 36", got)
	}
}

func TestIdleFlush(t *testing.T) {
	setCvar(t, cvars.RendererFlushInterval, 3)
	tl := newTestLevel(t, 128)
	w := tl.world(geometry.Options{Static: true})
	tl.west.SetLightLevel(96, 2)

	for i, want := range []int{0, 0, 1, 0} {
		if got := w.Idle(2 + i); got != want {
			t.Errorf("Idle(%d) = %v, want %v", 2+i, got, want)
		}
	}
}

func TestRenderFlushesStatic(t *testing.T) {
	tl := newTestLevel(t, 128)
	w := tl.world(geometry.Options{Static: true})
	tl.west.SetLightLevel(96, 2)
	st := w.Render(w.ViewAt(vec.Vec2{32, 32}, 41), 2, 1)
	if st.Flushed != 1 {
		t.Errorf("Flushed = %v, want 1", st.Flushed)
	}
	if got := count(w.Batches().Normal, tl.stone); got != 36 {
		t.Errorf("stone vertices = %v, want 36", got)
	}
}
