// SPDX-License-Identifier: GPL-2.0-or-later

package geometry

import (
	"fmt"
	"testing"

	"sectorgl/level"
	"sectorgl/math/vec"
)

const sentinel = 999

type cacheCase struct {
	offset, sector, light, override, allocated bool
}

func (c cacheCase) String() string {
	return fmt.Sprintf("offset=%v sector=%v light=%v override=%v allocated=%v",
		c.offset, c.sector, c.light, c.override, c.allocated)
}

func allCacheCases() []cacheCase {
	var cs []cacheCase
	for i := 0; i < 32; i++ {
		cs = append(cs, cacheCase{
			offset:    i&1 != 0,
			sector:    i&2 != 0,
			light:     i&4 != 0,
			override:  i&8 != 0,
			allocated: i&16 != 0,
		})
	}
	return cs
}

// runCacheCase renders a one sided wall in a transfer heights sector and
// checks the persistent slot against the emitted vertices.
func runCacheCase(t *testing.T, c cacheCase) {
	f := newFixture()
	b := f.builder()
	s := f.room(b, 0, 128)
	ctrl := f.room(b, 32, 96)
	line := b.Line(vec.Vec2{0, 0}, vec.Vec2{0, 64}, level.SideDef{Sector: s, Middle: f.stone}, nil)
	b.TransferHeights(s, ctrl)
	lvl := b.Build()
	r := f.renderer(lvl, Options{})
	side := line.Front
	a := &r.caches.walls[level.Middle]
	middle := View{Sector: s, Z: 64, PrevZ: 64}

	if c.allocated {
		f.frame(r, 1)
		r.RenderSide(middle, side)
		lvl.ClearDirtyFlags()
		a.slot(side.ID)[0].U = sentinel
	}

	if c.offset {
		side.SetOffset(vec.Vec2{X: 8}, 2)
	}
	if c.sector {
		ctrl.Ceiling.SetZ(112, 2)
	}
	if c.light {
		s.SetLightLevel(200, 2)
		ctrl.SetLightLevel(200, 2)
	}

	view := middle
	if c.override {
		view.Z, view.PrevZ = 120, 120
	}
	f.frame(r, 2)
	r.RenderSide(view, side)

	emitted := vertices(f.batches.Normal, f.stone)
	if len(emitted) != 6 {
		t.Fatalf("%v: emitted %v vertices, want 6", c, len(emitted))
	}
	wantLight := float32(176)
	if c.light {
		wantLight = 216
	}
	if emitted[0].LightLevel != wantLight {
		t.Errorf("%v: emitted light = %v, want %v", c, emitted[0].LightLevel, wantLight)
	}

	switch {
	case c.override:
		if a.has(side.ID) != c.allocated {
			t.Errorf("%v: override changed the allocation", c)
		}
		if c.allocated && a.slot(side.ID)[0].U != sentinel {
			t.Errorf("%v: override wrote the persistent slot", c)
		}
		if c.allocated && a.slot(side.ID)[0].LightLevel != 176 {
			t.Errorf("%v: override patched the persistent light", c)
		}
	case !c.allocated:
		if !a.has(side.ID) {
			t.Errorf("%v: slot not allocated", c)
		}
	case c.offset || c.sector:
		if a.slot(side.ID)[0].U == sentinel {
			t.Errorf("%v: slot was not regenerated", c)
		}
	default:
		if a.slot(side.ID)[0].U != sentinel {
			t.Errorf("%v: slot was regenerated", c)
		}
	}
	if !c.override {
		return
	}

	// Back on the middle view the persistent slot picks up what changed
	// while the scratch slot was in use.
	lvl.ClearDirtyFlags()
	f.frame(r, 3)
	r.RenderSide(middle, side)
	d := a.slot(side.ID)
	wantTop := float32(96)
	if c.sector {
		wantTop = 112
	}
	if d[0].Z != wantTop {
		t.Errorf("%v: middle view top after override = %v, want %v", c, d[0].Z, wantTop)
	}
	if d[0].LightLevel != wantLight {
		t.Errorf("%v: middle view light after override = %v, want %v", c, d[0].LightLevel, wantLight)
	}
	if c.allocated {
		regenerated := d[0].U != sentinel
		if want := c.offset || c.sector; regenerated != want {
			t.Errorf("%v: regenerated after override = %v, want %v", c, regenerated, want)
		}
	}
}

func TestInvalidationMatrix(t *testing.T) {
	for _, c := range allCacheCases() {
		runCacheCase(t, c)
	}
}

func TestUnchangedSideIsReused(t *testing.T) {
	f := newFixture()
	rooms := f.twoRooms()
	r := f.renderer(rooms.level, Options{})
	side := rooms.joint.Front
	a := &r.caches.walls[level.Lower]

	f.frame(r, 1)
	r.RenderSide(westView(rooms), side)
	first := a.slot(side.ID)
	before := append([]float32(nil), first[0].X, first[0].Y, first[0].Z, first[0].U, first[0].V, first[0].LightLevel)

	f.frame(r, 2)
	r.RenderSide(westView(rooms), side)
	second := a.slot(side.ID)
	if &first[0] != &second[0] {
		t.Errorf("slot moved between frames")
	}
	after := []float32{second[0].X, second[0].Y, second[0].Z, second[0].U, second[0].V, second[0].LightLevel}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("vertex field %d = %v, want %v", i, after[i], before[i])
		}
	}
}

func TestLightOnlyPatch(t *testing.T) {
	f := newFixture()
	rooms := f.twoRooms()
	r := f.renderer(rooms.level, Options{})
	side := rooms.joint.Front
	a := &r.caches.walls[level.Lower]

	f.frame(r, 1)
	r.RenderSide(westView(rooms), side)
	old := append(a.slot(side.ID)[:0:0], a.slot(side.ID)...)
	rooms.level.ClearDirtyFlags()

	rooms.west.SetLightLevel(96, 2)
	f.frame(r, 2)
	r.RenderSide(westView(rooms), side)
	for i, v := range a.slot(side.ID) {
		o := old[i]
		if v.X != o.X || v.Y != o.Y || v.Z != o.Z || v.U != o.U || v.V != o.V {
			t.Errorf("vertex %d moved from %+v to %+v", i, o, v)
		}
		// The joint is vertical, fake contrast adds 16.
		if v.LightLevel != 112 {
			t.Errorf("vertex %d LightLevel = %v, want 112", i, v.LightLevel)
		}
	}
}

func TestMovingPlaneRegenerates(t *testing.T) {
	f := newFixture()
	rooms := f.twoRooms()
	r := f.renderer(rooms.level, Options{})
	side := rooms.joint.Front

	f.frame(r, 1)
	r.RenderSide(westView(rooms), side)
	rooms.level.ClearDirtyFlags()

	rooms.east.Floor.SetZ(24, 2)
	rooms.level.ClearDirtyFlags()
	f.frame(r, 3)
	r.RenderSide(westView(rooms), side)
	d := r.caches.walls[level.Lower].slot(side.ID)
	if d[0].Z != 24 || d[0].PrevZ != 16 {
		t.Errorf("lower top = %v (prev %v), want 24 (prev 16)", d[0].Z, d[0].PrevZ)
	}
}

func TestFlatLightPatch(t *testing.T) {
	f := newFixture()
	rooms := f.twoRooms()
	r := f.renderer(rooms.level, Options{})
	a := &r.caches.flats[level.TransferViewMiddle][level.Floor]
	v := westView(rooms)

	f.frame(r, 1)
	r.RenderSubsector(v, rooms.westSS)
	a.slot(rooms.west.ID)[0].U = sentinel
	rooms.level.ClearDirtyFlags()

	rooms.west.SetLightLevel(64, 2)
	f.frame(r, 2)
	r.RenderSubsector(v, rooms.westSS)
	d := a.slot(rooms.west.ID)
	if d[0].U != sentinel {
		t.Errorf("light change regenerated the flat")
	}
	if d[0].LightLevel != 64 {
		t.Errorf("flat LightLevel = %v, want 64", d[0].LightLevel)
	}

	rooms.west.Floor.SetTexture(f.lower, 3)
	f.frame(r, 3)
	r.RenderSubsector(v, rooms.westSS)
	if a.slot(rooms.west.ID)[0].U == sentinel {
		t.Errorf("texture change did not regenerate the flat")
	}
}

func TestSkyFlat(t *testing.T) {
	f := newFixture()
	rooms := f.twoRooms()
	rooms.west.Ceiling.TextureHandle = f.skyF
	r := f.renderer(rooms.level, Options{})

	f.frame(r, 1)
	r.RenderSubsector(westView(rooms), rooms.westSS)
	sky := vertices(f.batches.Sky, f.skyTex)
	// Sky sides of the walls plus the ceiling.
	if len(sky) < 6 {
		t.Fatalf("sky vertices = %v, want the ceiling", len(sky))
	}
	found := false
	for _, v := range sky {
		if v.Z == 16384 {
			found = true
		}
	}
	if !found {
		t.Errorf("sky ceiling is not at max sky")
	}
	if st := r.Stats(); st.SkyFlats != 1 {
		t.Errorf("Stats().SkyFlats = %v, want 1", st.SkyFlats)
	}
}
