// SPDX-License-Identifier: GPL-2.0-or-later

package geometry

import (
	"testing"

	"sectorgl/cvars"
	"sectorgl/level"
	"sectorgl/math/vec"
)

type grateRoom struct {
	level        *level.Level
	outer, inner *level.Sector
}

// grateRoom builds a square room (0..256) around a square pillar sector
// (64..192) fenced by two sided lines carrying middle.
func (f *fixture) grateRoom(middle int, alpha float64) *grateRoom {
	b := f.builder()
	o := f.room(b, 0, 128)
	in := f.room(b, 0, 128)
	loop := func(min, max float64, each func(a, c vec.Vec2)) {
		p := []vec.Vec2{{min, min}, {min, max}, {max, max}, {max, min}}
		for i := range p {
			each(p[i], p[(i+1)%len(p)])
		}
	}
	loop(0, 256, func(a, c vec.Vec2) {
		b.Line(a, c, level.SideDef{Sector: o, Middle: f.stone}, nil)
	})
	loop(64, 192, func(a, c vec.Vec2) {
		line := b.Line(a, c, level.SideDef{Sector: in, Middle: middle}, &level.SideDef{Sector: o})
		line.Flags.LowerUnpegged = true
		line.Alpha = alpha
	})
	return &grateRoom{level: b.Build(), outer: o, inner: in}
}

func floodSides(l *level.Level, flags level.FloodFlags) []*level.Side {
	var sides []*level.Side
	for _, s := range l.Sides {
		if s.MidTextureFlood&flags != 0 {
			sides = append(sides, s)
		}
	}
	return sides
}

func TestMidTextureHack(t *testing.T) {
	f := newFixture()
	g := f.grateRoom(f.grate, 1)
	r := f.renderer(g.level, Options{})

	// The grate is 192 high in a 128 high opening.
	for _, s := range []*level.Sector{g.inner, g.outer} {
		if !s.Ceiling.NoRender || !s.Ceiling.MidTextureHack {
			t.Errorf("sector %d ceiling NoRender = %v, MidTextureHack = %v, want true",
				s.ID, s.Ceiling.NoRender, s.Ceiling.MidTextureHack)
		}
		if s.Floor.NoRender || s.Floor.MidTextureHack {
			t.Errorf("sector %d floor is hacked", s.ID)
		}
	}
	if n := len(floodSides(g.level, level.FloodFloor)); n != 0 {
		t.Errorf("%v sides flood the floor, want 0", n)
	}
	sides := floodSides(g.level, level.FloodCeiling)
	if len(sides) == 0 {
		t.Fatalf("no side floods the ceiling")
	}

	f.frame(r, 1)
	r.RenderSide(View{Sector: sides[0].Sector, Z: 41, PrevZ: 41}, sides[0])
	flood := vertices(f.batches.Flood, f.floor)
	if len(flood) != 6 {
		t.Fatalf("flood vertices = %v, want 6", len(flood))
	}
	for _, v := range flood {
		if v.PrevZ != 128 {
			t.Errorf("flood plane = %v, want 128", v.PrevZ)
		}
	}

	// Hidden ceilings are not drawn.
	f.frame(r, 2)
	r.RenderFlat(View{Sector: g.inner, Z: 41, PrevZ: 41}, g.inner, level.Ceiling)
	if got := len(vertices(f.batches.Normal, f.floor)); got != 0 {
		t.Errorf("hidden ceiling emitted %v vertices", got)
	}
}

func TestMidTextureHackOpaque(t *testing.T) {
	f := newFixture()
	g := f.grateRoom(f.tall, 1)
	f.renderer(g.level, Options{})
	for _, s := range g.level.Sectors {
		if s.Ceiling.NoRender || s.Floor.NoRender {
			t.Errorf("sector %d is hacked behind an opaque middle", s.ID)
		}
	}
	if n := len(floodSides(g.level, level.FloodFloor|level.FloodCeiling)); n != 0 {
		t.Errorf("%v flood sides, want 0", n)
	}
}

func TestMidTextureHackAlpha(t *testing.T) {
	f := newFixture()
	g := f.grateRoom(f.tall, 0.5)
	f.renderer(g.level, Options{})
	if !g.inner.Ceiling.NoRender {
		t.Errorf("translucent middle did not hide the ceiling")
	}
}

func TestMidTextureHackDisabled(t *testing.T) {
	setCvar(t, cvars.RendererMidTextureHack, 0)
	f := newFixture()
	g := f.grateRoom(f.grate, 1)
	f.renderer(g.level, Options{})
	if g.inner.Ceiling.NoRender || g.outer.Ceiling.NoRender {
		t.Errorf("mid texture hack ran while disabled")
	}
}

func TestMidTextureHackAlphaWithoutTransparency(t *testing.T) {
	setCvar(t, cvars.RendererTextureTransparency, 0)
	f := newFixture()
	g := f.grateRoom(f.tall, 0.5)
	f.renderer(g.level, Options{})
	if !g.inner.Ceiling.NoRender {
		t.Errorf("translucent middle did not hide the ceiling with r_texturetransparency 0")
	}
}

// A grate between the two inner sectors of three nested squares hides their
// ceilings but leaves the enclosing room alone.
func TestMidTextureHackNested(t *testing.T) {
	f := newFixture()
	b := f.builder()
	room := f.room(b, 0, 128)
	ring := f.room(b, 0, 128)
	center := f.room(b, 0, 128)
	loop := func(min, max float64, each func(a, c vec.Vec2)) {
		p := []vec.Vec2{{min, min}, {min, max}, {max, max}, {max, min}}
		for i := range p {
			each(p[i], p[(i+1)%len(p)])
		}
	}
	loop(0, 512, func(a, c vec.Vec2) {
		b.Line(a, c, level.SideDef{Sector: room, Middle: f.stone}, nil)
	})
	loop(64, 448, func(a, c vec.Vec2) {
		b.Line(a, c, level.SideDef{Sector: ring}, &level.SideDef{Sector: room})
	})
	loop(128, 384, func(a, c vec.Vec2) {
		line := b.Line(a, c, level.SideDef{Sector: center, Middle: f.grate}, &level.SideDef{Sector: ring})
		line.Flags.LowerUnpegged = true
		line.Alpha = 1
	})
	l := b.Build()
	f.renderer(l, Options{})

	for _, s := range []*level.Sector{center, ring} {
		if !s.Ceiling.NoRender {
			t.Errorf("sector %d ceiling NoRender = false, want true", s.ID)
		}
	}
	if room.Ceiling.NoRender || room.Ceiling.MidTextureHack {
		t.Errorf("enclosing room ceiling is hacked")
	}
	if ring.ContainsSector(room) {
		t.Errorf("ring.ContainsSector(room) = true")
	}
	if !room.ContainsSector(ring) {
		t.Errorf("room.ContainsSector(ring) = false")
	}
}
