// SPDX-License-Identifier: GPL-2.0-or-later

package geometry

import (
	"testing"

	"sectorgl/batch"
	"sectorgl/cvar"
	"sectorgl/level"
	"sectorgl/math/vec"
	"sectorgl/texture"
)

type fixture struct {
	textures *texture.Table
	batches  *batch.Set
	clip     *clipRecorder

	stone  int
	lower  int
	grate  int
	tall   int
	floor  int
	skyF   int
	skyTex int
}

type clipRecorder struct {
	lines [][2]vec.Vec2
}

func (c *clipRecorder) AddLine(a, b vec.Vec2) {
	c.lines = append(c.lines, [2]vec.Vec2{a, b})
}

func newFixture() *fixture {
	t := texture.NewTable()
	f := &fixture{
		textures: t,
		batches:  batch.NewSet(),
		clip:     &clipRecorder{},
	}
	f.stone = t.Add(texture.Texture{Name: "STONE", Kind: texture.KindWall, Width: 64, Height: 128})
	f.lower = t.Add(texture.Texture{Name: "LOWER", Kind: texture.KindWall, Width: 64, Height: 64})
	f.grate = t.Add(texture.Texture{Name: "GRATE", Kind: texture.KindWall, Width: 64, Height: 192, TransparentPixels: 10})
	f.tall = t.Add(texture.Texture{Name: "TALL", Kind: texture.KindWall, Width: 64, Height: 192})
	f.skyTex = t.Add(texture.Texture{Name: "SKY1", Kind: texture.KindWall, Width: 256, Height: 128})
	f.floor = t.Add(texture.Texture{Name: "FLOOR4_8", Kind: texture.KindFlat, Width: 64, Height: 64})
	f.skyF = t.Add(texture.Texture{Name: "F_SKY1", Kind: texture.KindFlat, Width: 64, Height: 64, Sky: true})
	return f
}

func (f *fixture) renderer(l *level.Level, opts Options) *Renderer {
	r := NewRenderer(f.textures, f.batches, f.clip, opts)
	r.UpdateTo(l)
	return r
}

func (f *fixture) builder() *level.Builder {
	b := level.NewBuilder()
	b.SetSky(f.skyTex)
	return b
}

func (f *fixture) room(b *level.Builder, floor, ceiling float64) *level.Sector {
	return b.Sector(level.SectorDef{
		Floor:          floor,
		Ceiling:        ceiling,
		FloorTexture:   f.floor,
		CeilingTexture: f.floor,
		Light:          160,
	})
}

// frame starts a pass on a cleared batch set.
func (f *fixture) frame(r *Renderer, tick int) {
	f.batches.Clear()
	f.clip.lines = f.clip.lines[:0]
	r.Clear(1, tick)
}

func vertices[V any](m *batch.Manager[V], handle int) []V {
	for _, d := range m.Used() {
		if d.Texture == handle {
			return d.Vertices
		}
	}
	return nil
}

type xyz struct {
	x, y, z float32
}

func positions(vs []batch.Vertex) []xyz {
	p := make([]xyz, 0, len(vs))
	for _, v := range vs {
		p = append(p, xyz{v.X, v.Y, v.Z})
	}
	return p
}

// twoRooms builds west (0..64) with floor 0 and east (64..128) with floor
// 16 joined by a two sided line whose front faces west. Both sides of the
// joining line carry a lower texture.
type twoRooms struct {
	level      *level.Level
	west, east *level.Sector
	joint      *level.Line
	westSS     *level.Subsector
	eastSS     *level.Subsector
}

func (f *fixture) twoRooms() *twoRooms {
	b := f.builder()
	w := f.room(b, 0, 128)
	e := f.room(b, 16, 128)
	one := func(a, c vec.Vec2, s *level.Sector) *level.Side {
		return b.Line(a, c, level.SideDef{Sector: s, Middle: f.stone}, nil).Front
	}
	wSides := []*level.Side{
		one(vec.Vec2{0, 0}, vec.Vec2{0, 64}, w),
		one(vec.Vec2{0, 64}, vec.Vec2{64, 64}, w),
	}
	joint := b.Line(vec.Vec2{64, 64}, vec.Vec2{64, 0},
		level.SideDef{Sector: w, Lower: f.lower},
		&level.SideDef{Sector: e, Lower: f.lower})
	wSides = append(wSides, joint.Front, one(vec.Vec2{64, 0}, vec.Vec2{0, 0}, w))
	eSides := []*level.Side{
		joint.Back,
		one(vec.Vec2{64, 64}, vec.Vec2{128, 64}, e),
		one(vec.Vec2{128, 64}, vec.Vec2{128, 0}, e),
		one(vec.Vec2{128, 0}, vec.Vec2{64, 0}, e),
	}
	wss := b.SubsectorFromSides(w, wSides...)
	ess := b.SubsectorFromSides(e, eSides...)
	return &twoRooms{
		level:  b.Build(),
		west:   w,
		east:   e,
		joint:  joint,
		westSS: wss,
		eastSS: ess,
	}
}

func westView(r *twoRooms) View {
	p := vec.Vec2{X: 32, Y: 32}
	return View{Pos: p, PrevPos: p, Z: 41, PrevZ: 41, Sector: r.west}
}

// setCvar changes a cvar for the duration of a test.
func setCvar(t *testing.T, cv *cvar.Cvar, v float32) {
	old := cv.Value()
	cv.SetValue(v)
	t.Cleanup(func() { cv.SetValue(old) })
}
