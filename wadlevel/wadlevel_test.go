// SPDX-License-Identifier: GPL-2.0-or-later

package wadlevel

import (
	"testing"

	"sectorgl/geometry"
	"sectorgl/level"
	"sectorgl/math/vec"
	"sectorgl/texture"
	"sectorgl/wad"
	"sectorgl/world"
)

func testTextures() *texture.Table {
	t := texture.NewTable()
	t.Add(texture.Texture{Name: "STONE", Kind: texture.KindWall, Width: 64, Height: 128})
	t.Add(texture.Texture{Name: "SKY1", Kind: texture.KindWall, Width: 256, Height: 128})
	t.Add(texture.Texture{Name: "FLOOR4_8", Kind: texture.KindFlat, Width: 64, Height: 64})
	t.Add(texture.Texture{Name: wad.SkyFlatName, Kind: texture.KindFlat, Width: 64, Height: 64, Sky: true})
	return t
}

// twoRooms is west (0..64) and east (64..128, floor 16) split by a node at
// x=64.
func twoRooms() *wad.Level {
	side := func(sector int, middle, lower string) wad.Side {
		return wad.Side{Sector: sector, Middle: middle, Lower: lower, Upper: "-"}
	}
	return &wad.Level{
		Name:     "MAP01",
		Vertexes: []wad.Vertex{{0, 0}, {0, 64}, {64, 64}, {64, 0}, {128, 64}, {128, 0}},
		Lines: []wad.Line{
			{Start: 0, End: 1, Right: 0, Left: wad.NoSide},
			{Start: 1, End: 2, Right: 1, Left: wad.NoSide},
			{Start: 2, End: 3, Flags: wad.LineTwoSided, Right: 2, Left: 3},
			{Start: 3, End: 0, Right: 4, Left: wad.NoSide},
			{Start: 2, End: 4, Right: 5, Left: wad.NoSide},
			{Start: 4, End: 5, Right: 6, Left: wad.NoSide, Flags: wad.LineLowerUnpegged},
			{Start: 5, End: 3, Right: 7, Left: wad.NoSide},
		},
		Sides: []wad.Side{
			side(0, "STONE", "-"), side(0, "STONE", "-"), side(0, "-", "STONE"), side(1, "-", "-"),
			side(0, "STONE", "-"), side(1, "STONE", "-"), side(1, "STONE", "-"), side(1, "STONE", "-"),
		},
		Sectors: []wad.Sector{
			{Floor: 0, Ceiling: 128, FloorFlat: "FLOOR4_8", CeilingFlat: "FLOOR4_8", Light: 160},
			{Floor: 16, Ceiling: 128, FloorFlat: "FLOOR4_8", CeilingFlat: "FLOOR4_8", Light: 160},
		},
		Segs: []wad.Seg{
			{Start: 0, End: 1, Line: 0}, {Start: 1, End: 2, Line: 1}, {Start: 2, End: 3, Line: 2}, {Start: 3, End: 0, Line: 3},
			{Start: 3, End: 2, Line: 2, Back: true}, {Start: 2, End: 4, Line: 4}, {Start: 4, End: 5, Line: 5}, {Start: 5, End: 3, Line: 6},
		},
		Subsectors: []wad.Subsector{{First: 0, Count: 4}, {First: 4, Count: 4}},
		Nodes: []wad.Node{{
			X: 64, Y: 0, DX: 0, DY: 64,
			Boxes:    [2]wad.Box{{Top: 64, Bottom: 0, Left: 64, Right: 128}, {Top: 64, Bottom: 0, Left: 0, Right: 64}},
			Children: [2]int{1, 0},
			Leaf:     [2]bool{true, true},
		}},
	}
}

func TestConvert(t *testing.T) {
	textures := testTextures()
	r, err := Convert(twoRooms(), textures)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	l := r.Level
	if len(l.Lines) != 7 || len(l.Sides) != 8 || len(l.Sectors) != 2 || len(l.Subsectors) != 2 {
		t.Fatalf("Convert() = %d lines %d sides %d sectors %d subsectors",
			len(l.Lines), len(l.Sides), len(l.Sectors), len(l.Subsectors))
	}
	sky, _ := textures.Lookup(texture.KindWall, "SKY1")
	if l.SkyTextureHandle != sky {
		t.Errorf("SkyTextureHandle = %v, want %v", l.SkyTextureHandle, sky)
	}
	if !l.Lines[5].Flags.LowerUnpegged {
		t.Errorf("line 5 is not lower unpegged")
	}
	joint := l.Lines[2]
	if joint.Back == nil || joint.Back.Sector != l.Sectors[1] {
		t.Errorf("joint back = %v, want east", joint.Back)
	}
	if joint.Front.Walls[level.Middle].TextureHandle != texture.NoTexture {
		t.Errorf("\"-\" middle = %v, want no texture", joint.Front.Walls[level.Middle].TextureHandle)
	}
	if got := r.Tree.PointInSubsector(vec.Vec2{X: 32, Y: 32}).Sector; got != l.Sectors[0] {
		t.Errorf("PointInSubsector(32,32) in sector %d, want 0", got.ID)
	}
	if got := r.Tree.PointInSubsector(vec.Vec2{X: 96, Y: 32}).Sector; got != l.Sectors[1] {
		t.Errorf("PointInSubsector(96,32) in sector %d, want 1", got.ID)
	}
	// no things: the middle of the first subsector
	if r.Start != (vec.Vec2{X: 32, Y: 32}) {
		t.Errorf("Start = %v, want (32,32)", r.Start)
	}
	for _, ss := range r.Subsectors {
		if len(ss.Edges) != 4 {
			t.Errorf("subsector %d has %d edges, want 4", ss.ID, len(ss.Edges))
		}
	}
}

func TestConvertRenders(t *testing.T) {
	textures := testTextures()
	r, err := Convert(twoRooms(), textures)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	w := world.New(r.Level, r.Tree, textures, geometry.Options{})
	st := w.Render(w.ViewAt(vec.Vec2{X: 32, Y: 32}, 41), 1, 1)
	if st.Subsectors != 2 {
		t.Errorf("Render() visited %v subsectors, want 2", st.Subsectors)
	}
	stone, _ := textures.Lookup(texture.KindWall, "STONE")
	if got := w.Batches().Normal.Get(stone).Len(); got != 42 {
		t.Errorf("stone vertices = %v, want 42", got)
	}
}

func TestTransferHeightsSpecial(t *testing.T) {
	src := twoRooms()
	src.Sectors[0].Tag = 5
	src.Lines[5].Special = SpecialTransferHeights
	src.Lines[5].Tag = 5
	r, err := Convert(src, testTextures())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	th := r.Level.Sectors[0].TransferHeights
	if th == nil || th.ControlSector != r.Level.Sectors[1] {
		t.Errorf("TransferHeights = %v, want control sector 1", th)
	}
	if r.Level.Sectors[1].TransferHeights != nil {
		t.Errorf("untagged sector has transfer heights")
	}
}

func TestPlayerStart(t *testing.T) {
	src := twoRooms()
	src.Things = []wad.Thing{{X: 96, Y: 40, Angle: 270, Type: wad.ThingPlayer1}}
	r, err := Convert(src, testTextures())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if r.Start != (vec.Vec2{X: 96, Y: 40}) || r.Angle != 270 {
		t.Errorf("Start = %v angle %v, want (96,40) 270", r.Start, r.Angle)
	}
}

func TestConvertBadBack(t *testing.T) {
	src := twoRooms()
	src.Segs[4].Line = 0
	if _, err := Convert(src, testTextures()); err == nil {
		t.Errorf("Convert() with a seg on a missing back succeeded")
	}
}

func TestClip(t *testing.T) {
	square := []vec.Vec2{{0, 0}, {0, 64}, {64, 64}, {64, 0}}
	up := vec.Segment{Start: vec.Vec2{32, 0}, End: vec.Vec2{32, 64}}
	right := clip(square, partition{splitter: up, right: true})
	left := clip(square, partition{splitter: up, right: false})
	for _, p := range right {
		if p.X < 32 {
			t.Errorf("right half has %v", p)
		}
	}
	for _, p := range left {
		if p.X > 32 {
			t.Errorf("left half has %v", p)
		}
	}
	if len(right) != 4 || len(left) != 4 {
		t.Errorf("clip() = %v and %v, want two quads", right, left)
	}
}

func TestGapFollowsPolygon(t *testing.T) {
	square := []vec.Vec2{{0, 0}, {0, 64}, {64, 64}, {64, 0}}
	edges := gap(square, vec.Vec2{0, 32}, vec.Vec2{32, 0})
	want := []vec.Vec2{{0, 32}, {0, 64}, {64, 64}, {64, 0}, {32, 0}}
	if len(edges) != len(want)-1 {
		t.Fatalf("gap() = %v edges, want %v", len(edges), len(want)-1)
	}
	for i, e := range edges {
		if e.Start != want[i] || e.End != want[i+1] || e.Side != nil {
			t.Errorf("gap()[%d] = %v, want %v -> %v", i, e, want[i], want[i+1])
		}
	}
}

func TestSkyTextureName(t *testing.T) {
	for _, c := range []struct{ name, want string }{
		{"E1M1", "SKY1"}, {"e3m4", "SKY3"}, {"MAP01", "SKY1"}, {"MAP12", "SKY2"}, {"MAP21", "SKY3"}, {"TEST", "SKY1"},
	} {
		if got := SkyTextureName(c.name); got != c.want {
			t.Errorf("SkyTextureName(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}
