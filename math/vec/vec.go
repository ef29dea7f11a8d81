// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"math"
)

// Vec2 is a map space position. Map coordinates keep double precision.
type Vec2 struct {
	X, Y float64
}

func Add2(a, b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func Sub2(a, b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

func Dot2(a, b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

func Distance(a, b Vec2) float64 {
	return Sub2(a, b).Length()
}

// Segment is a directed line segment from Start to End.
type Segment struct {
	Start, End Vec2
}

func (s Segment) Delta() Vec2 {
	return Sub2(s.End, s.Start)
}

func (s Segment) Length() float64 {
	return s.Delta().Length()
}

// PerpDot is negative for points right of the segment.
func (s Segment) PerpDot(p Vec2) float64 {
	d := s.Delta()
	return d.X*(p.Y-s.Start.Y) - d.Y*(p.X-s.Start.X)
}

// OnRight reports whether p is on the right side (front side) of the segment.
// Points on the segment count as right.
func (s Segment) OnRight(p Vec2) bool {
	return s.PerpDot(p) <= 0
}

// Lerp returns the point at fraction t along the segment.
func (s Segment) Lerp(t float64) Vec2 {
	d := s.Delta()
	return Vec2{s.Start.X + d.X*t, s.Start.Y + d.Y*t}
}

// Box is an axis aligned bounding box.
type Box struct {
	Min, Max Vec2
}

func EmptyBox() Box {
	return Box{
		Min: Vec2{math.Inf(1), math.Inf(1)},
		Max: Vec2{math.Inf(-1), math.Inf(-1)},
	}
}

func (b Box) Add(p Vec2) Box {
	return Box{
		Min: Vec2{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)},
		Max: Vec2{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)},
	}
}

func (b Box) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// ContainsBox reports whether o lies completely inside b.
func (b Box) ContainsBox(o Box) bool {
	return o.Min.X >= b.Min.X && o.Max.X <= b.Max.X && o.Min.Y >= b.Min.Y && o.Max.Y <= b.Max.Y
}

// Corners returns the corners in counter clockwise order starting at Min.
func (b Box) Corners() [4]Vec2 {
	return [4]Vec2{
		b.Min,
		{b.Max.X, b.Min.Y},
		b.Max,
		{b.Min.X, b.Max.Y},
	}
}

// Vec3 is a vertex position as it is sent to the GPU.
type Vec3 struct {
	X, Y, Z float32
}

// Lerp computes a weighted average between two points
func Lerp(a, b Vec3, frac float32) Vec3 {
	fi := 1 - frac
	return Vec3{
		fi*a.X + frac*b.X,
		fi*a.Y + frac*b.Y,
		fi*a.Z + frac*b.Z,
	}
}

// To3 lifts a map position to a vertex position at height z.
func (v Vec2) To3(z float64) Vec3 {
	return Vec3{float32(v.X), float32(v.Y), float32(z)}
}
