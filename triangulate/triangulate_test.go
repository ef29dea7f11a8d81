// SPDX-License-Identifier: GPL-2.0-or-later

package triangulate

import (
	"testing"

	"sectorgl/level"
	"sectorgl/math/vec"
)

func oneSidedSide(flags level.LineFlags) *level.Side {
	b := level.NewBuilder()
	s := b.Sector(level.SectorDef{Floor: 0, Ceiling: 128})
	l := b.Line(vec.Vec2{0, 0}, vec.Vec2{64, 0}, level.SideDef{Sector: s, Middle: 1}, nil)
	l.Flags = flags
	b.Build()
	return l.Front
}

func TestOneSidedCorners(t *testing.T) {
	side := oneSidedSide(level.LineFlags{})
	w := OneSided(side, Fixed(0), Fixed(128), 1.0/64, 1.0/128)
	if w.TopLeft.X != 0 || w.TopLeft.Z != 128 || w.BottomRight.X != 64 || w.BottomRight.Z != 0 {
		t.Errorf("OneSided() = %+v", w)
	}
	if w.TopLeft.U != 0 || w.TopRight.U != 1 || w.TopLeft.V != 0 || w.BottomLeft.V != 1 {
		t.Errorf("OneSided() uv = %+v", w)
	}
}

func TestOneSidedLowerUnpegged(t *testing.T) {
	side := oneSidedSide(level.LineFlags{LowerUnpegged: true})
	w := OneSided(side, Fixed(0), Fixed(64), 1.0/64, 1.0/128)
	if w.BottomLeft.V != 1 || w.TopLeft.V != 0.5 {
		t.Errorf("OneSided(lower unpegged) v = %v, %v, want 0.5, 1", w.TopLeft.V, w.BottomLeft.V)
	}
}

func TestBackSideOrientation(t *testing.T) {
	b := level.NewBuilder()
	s0 := b.Sector(level.SectorDef{Ceiling: 128})
	s1 := b.Sector(level.SectorDef{Floor: 32, Ceiling: 128})
	l := b.Line(vec.Vec2{0, 0}, vec.Vec2{64, 0}, level.SideDef{Sector: s0}, &level.SideDef{Sector: s1})
	b.Build()
	w := TwoSidedLower(l.Back, Fixed(0), Fixed(32), 128, 1.0/64, 1.0/64)
	if w.TopLeft.X != 64 || w.TopRight.X != 0 {
		t.Errorf("back side wall runs %v -> %v, want 64 -> 0", w.TopLeft.X, w.TopRight.X)
	}
}

func TestUpperPegging(t *testing.T) {
	side := oneSidedSide(level.LineFlags{})
	w := TwoSidedUpper(side, Fixed(96), Fixed(128), 1.0/64, 1.0/64)
	if w.BottomLeft.V != 1 || w.TopLeft.V != 0.5 {
		t.Errorf("TwoSidedUpper() v = %v, %v, want 0.5, 1", w.TopLeft.V, w.BottomLeft.V)
	}
	side.Line.Flags.UpperUnpegged = true
	w = TwoSidedUpper(side, Fixed(96), Fixed(128), 1.0/64, 1.0/64)
	if w.TopLeft.V != 0 || w.BottomLeft.V != 0.5 {
		t.Errorf("TwoSidedUpper(unpegged) v = %v, %v, want 0, 0.5", w.TopLeft.V, w.BottomLeft.V)
	}
}

func TestMiddleSpanClamp(t *testing.T) {
	side := oneSidedSide(level.LineFlags{})
	op := level.Opening{FloorZ: 0, CeilingZ: 64}
	w, ok := TwoSidedMiddle(side, op, 128, 1.0/64, 1.0/128, 0)
	if !ok {
		t.Fatalf("TwoSidedMiddle() not visible")
	}
	// No upper or lower texture, the texture hangs from the ceiling.
	if w.TopLeft.Z != 64 || w.BottomLeft.Z != -64 {
		t.Errorf("TwoSidedMiddle() z = %v..%v, want -64..64", w.BottomLeft.Z, w.TopLeft.Z)
	}
	side.Lower().TextureHandle = 2
	w, _ = TwoSidedMiddle(side, op, 128, 1.0/64, 1.0/128, 0)
	if w.BottomLeft.Z != 0 || w.BottomLeft.V != 0.5 || w.TopLeft.V != 0 {
		t.Errorf("TwoSidedMiddle(lower) = %+v", w)
	}
	if _, ok := TwoSidedMiddle(side, level.Opening{FloorZ: 64, CeilingZ: 64}, 128, 1, 1, 0); ok {
		t.Errorf("TwoSidedMiddle() visible for a closed opening")
	}
}

func TestSubsectorFan(t *testing.T) {
	b := level.NewBuilder()
	s := b.Sector(level.SectorDef{Ceiling: 128})
	p := []vec.Vec2{{0, 0}, {0, 64}, {64, 64}, {64, 0}}
	var edges []level.Edge
	for i := range p {
		edges = append(edges, level.Edge{Start: p[i], End: p[(i+1)%4]})
	}
	ss := b.Subsector(s, edges...)
	b.Build()
	ceil := Subsector(ss, level.Ceiling, Fixed(128), 64, 64, nil)
	floor := Subsector(ss, level.Floor, Fixed(0), 64, 64, nil)
	if len(ceil) != 4 || len(floor) != 4 {
		t.Fatalf("Subsector() lengths = %v, %v", len(ceil), len(floor))
	}
	if ceil[1].Y != 64 || floor[0].X != 0 || floor[0].Y != 0 || floor[1].X != 64 || floor[1].Y != 0 {
		t.Errorf("Subsector() order ceil %+v floor %+v", ceil, floor)
	}
	if ceil[2].U != 1 || ceil[2].V != -1 {
		t.Errorf("Subsector() uv = %v, %v, want 1, -1", ceil[2].U, ceil[2].V)
	}
	tris := Fan(ceil, nil)
	if len(tris) != FanCount(4) || len(tris) != 6 {
		t.Errorf("Fan() = %v vertices, want 6", len(tris))
	}
	if FanCount(2) != 0 {
		t.Errorf("FanCount(2) = %v", FanCount(2))
	}
}
