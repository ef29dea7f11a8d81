// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"sectorgl/math/vec"
)

// Indices into the coordinates of a box as top, bottom, left, right.
var checkCoord = [12][4]int{
	{3, 0, 2, 1},
	{3, 0, 2, 0},
	{3, 1, 2, 0},
	{0, 0, 0, 0},
	{2, 0, 2, 1},
	{0, 0, 0, 0},
	{3, 1, 3, 0},
	{0, 0, 0, 0},
	{2, 0, 3, 1},
	{2, 1, 3, 1},
	{2, 1, 3, 0},
	{0, 0, 0, 0},
}

// SpanningEdge returns the two box corners spanning the widest view angle
// as seen from p. ok is false if p is inside the box.
func SpanningEdge(b vec.Box, p vec.Vec2) (vec.Vec2, vec.Vec2, bool) {
	bx := 2
	switch {
	case p.X <= b.Min.X:
		bx = 0
	case p.X < b.Max.X:
		bx = 1
	}
	by := 2
	switch {
	case p.Y >= b.Max.Y:
		by = 0
	case p.Y > b.Min.Y:
		by = 1
	}
	pos := by<<2 + bx
	if pos == 5 {
		return vec.Vec2{}, vec.Vec2{}, false
	}
	coords := [4]float64{b.Max.Y, b.Min.Y, b.Min.X, b.Max.X}
	c := checkCoord[pos]
	return vec.Vec2{X: coords[c[0]], Y: coords[c[1]]}, vec.Vec2{X: coords[c[2]], Y: coords[c[3]]}, true
}
