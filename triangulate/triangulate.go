// SPDX-License-Identifier: GPL-2.0-or-later

// Package triangulate turns walls and subsectors into corner positions and
// texture coordinates.
package triangulate

import (
	"github.com/chewxy/math32"

	"sectorgl/level"
)

// Corner is a triangulated vertex. PrevZ is the height one tick ago so the
// GPU can interpolate moving planes.
type Corner struct {
	X, Y  float32
	Z     float32
	PrevZ float32
	U, V  float32
}

type Wall struct {
	TopLeft     Corner
	TopRight    Corner
	BottomLeft  Corner
	BottomRight Corner
}

// Height is a plane height together with its previous tick value.
type Height struct {
	Z     float64
	PrevZ float64
}

func PlaneHeight(p level.PlaneView) Height {
	return Height{Z: p.Z, PrevZ: p.PrevZ}
}

// Fixed returns a height that does not move.
func Fixed(z float64) Height {
	return Height{Z: z, PrevZ: z}
}

type uv struct {
	left, right float32
	top, bottom float32
}

func quad(side *level.Side, bottom, top Height, t uv) Wall {
	seg := side.Segment()
	l, r := seg.Start, seg.End
	lx, ly := float32(l.X), float32(l.Y)
	rx, ry := float32(r.X), float32(r.Y)
	tz, tp := float32(top.Z), float32(top.PrevZ)
	bz, bp := float32(bottom.Z), float32(bottom.PrevZ)
	return Wall{
		TopLeft:     Corner{lx, ly, tz, tp, t.left, t.top},
		TopRight:    Corner{rx, ry, tz, tp, t.right, t.top},
		BottomLeft:  Corner{lx, ly, bz, bp, t.left, t.bottom},
		BottomRight: Corner{rx, ry, bz, bp, t.right, t.bottom},
	}
}

func offsetUV(side *level.Side, uInv, vInv float32) (float32, float32) {
	return float32(side.Offset.X) * uInv, float32(side.Offset.Y) * vInv
}

func horizontal(side *level.Side, uInv, vInv float32) (float32, float32, float32) {
	ou, ov := offsetUV(side, uInv, vInv)
	span := float32(side.Line.Segment.Length()) * uInv
	return ou, ou + span, ov
}

// OneSided spans the facing sector from floor to ceiling.
func OneSided(side *level.Side, floor, ceiling Height, uInv, vInv float32) Wall {
	left, right, ov := horizontal(side, uInv, vInv)
	spanV := float32(ceiling.Z-floor.Z) * vInv
	t := uv{left: left, right: right}
	if side.Line.Flags.LowerUnpegged {
		t.bottom = 1 + ov
		t.top = t.bottom - spanV
	} else {
		t.top = ov
		t.bottom = ov + spanV
	}
	return quad(side, floor, ceiling, t)
}

// TwoSidedLower spans from the facing floor (bottom) to the partner floor
// (top). Lower unpegged textures are aligned to the facing ceiling.
func TwoSidedLower(side *level.Side, bottom, top Height, facingCeiling float64, uInv, vInv float32) Wall {
	left, right, ov := horizontal(side, uInv, vInv)
	t := uv{left: left, right: right}
	if side.Line.Flags.LowerUnpegged {
		t.top = ov + float32(facingCeiling-top.Z)*vInv
		t.bottom = ov + float32(facingCeiling-bottom.Z)*vInv
	} else {
		t.top = ov
		t.bottom = ov + float32(top.Z-bottom.Z)*vInv
	}
	return quad(side, bottom, top, t)
}

// TwoSidedUpper spans from the partner ceiling (bottom) to the facing
// ceiling (top).
func TwoSidedUpper(side *level.Side, bottom, top Height, uInv, vInv float32) Wall {
	left, right, ov := horizontal(side, uInv, vInv)
	spanV := float32(top.Z-bottom.Z) * vInv
	t := uv{left: left, right: right}
	if side.Line.Flags.UpperUnpegged {
		t.top = ov
		t.bottom = ov + spanV
	} else {
		t.bottom = 1 + ov
		t.top = t.bottom - spanV
	}
	return quad(side, bottom, top, t)
}

// MiddleSpan is the part of a middle texture that gets drawn.
type MiddleSpan struct {
	Bottom, Top               float64
	VisibleBottom, VisibleTop float64
}

func (m MiddleSpan) Visible() bool {
	return m.VisibleBottom < m.VisibleTop
}

// CalculateMiddleSpan places one texture height into the opening. The
// texture may only extend past the opening where no upper or lower texture
// covers it.
func CalculateMiddleSpan(side *level.Side, opening level.Opening, textureHeight int, offset float64) MiddleSpan {
	top := opening.CeilingZ
	bottom := top - float64(textureHeight)
	if side.Line.Flags.LowerUnpegged {
		bottom = opening.FloorZ
		top = bottom + float64(textureHeight)
	}
	top += side.Offset.Y + offset
	bottom += side.Offset.Y + offset

	m := MiddleSpan{Bottom: bottom, Top: top, VisibleBottom: bottom, VisibleTop: top}
	if side.Upper().TextureHandle != 0 {
		m.VisibleTop = min(top, opening.CeilingZ)
	}
	if side.Lower().TextureHandle != 0 {
		m.VisibleBottom = max(bottom, opening.FloorZ)
	}
	return m
}

// TwoSidedMiddle returns the middle wall and whether any of it is visible.
func TwoSidedMiddle(side *level.Side, opening level.Opening, textureHeight int, uInv, vInv float32, offset float64) (Wall, bool) {
	if opening.Height() <= 0 {
		return Wall{}, false
	}
	span := CalculateMiddleSpan(side, opening, textureHeight, offset)
	if !span.Visible() {
		return Wall{}, false
	}
	left, right, _ := horizontal(side, uInv, vInv)
	h := span.Top - span.Bottom
	t := uv{
		left:   left,
		right:  right,
		top:    1 - float32((span.VisibleTop-span.Bottom)/h),
		bottom: 1 - float32((span.VisibleBottom-span.Bottom)/h),
	}
	return quad(side, Fixed(span.VisibleBottom), Fixed(span.VisibleTop), t), true
}

// Sky is an untextured wall used for sky projection.
func Sky(side *level.Side, bottom, top Height) Wall {
	return quad(side, bottom, top, uv{})
}

// Subsector writes the polygon of a subsector at the plane height. Ceilings
// use the clockwise edge starts, floors the edge ends in reverse so both
// face the viewer counter clockwise.
func Subsector(ss *level.Subsector, face level.Face, h Height, texWidth, texHeight int, dst []Corner) []Corner {
	z, pz := float32(h.Z), float32(h.PrevZ)
	w, ht := float32(texWidth), float32(texHeight)
	add := func(x, y float64) {
		fx, fy := float32(x), float32(y)
		dst = append(dst, Corner{X: fx, Y: fy, Z: z, PrevZ: pz, U: fx / w, V: -(fy / ht)})
	}
	if face == level.Ceiling {
		for _, e := range ss.Edges {
			add(e.Start.X, e.Start.Y)
		}
		return dst
	}
	for i := len(ss.Edges) - 1; i >= 0; i-- {
		add(ss.Edges[i].End.X, ss.Edges[i].End.Y)
	}
	return dst
}

// FanCount returns the number of triangle list vertices for a polygon.
func FanCount(corners int) int {
	if corners < 3 {
		return 0
	}
	return (corners - 2) * 3
}

// Fan appends the triangle list of a convex polygon.
func Fan(poly []Corner, dst []Corner) []Corner {
	for i := 1; i+1 < len(poly); i++ {
		dst = append(dst, poly[0], poly[i], poly[i+1])
	}
	return dst
}

// Length returns the horizontal length of a wall.
func (w Wall) Length() float32 {
	dx := w.TopRight.X - w.TopLeft.X
	dy := w.TopRight.Y - w.TopLeft.Y
	return math32.Sqrt(dx*dx + dy*dy)
}
