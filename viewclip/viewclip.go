// SPDX-License-Identifier: GPL-2.0-or-later

// Package viewclip tracks which view angles are fully blocked by solid
// walls. Angles are diamond angles around the view center.
package viewclip

import (
	"math"

	qmath "sectorgl/math"
	"sectorgl/math/vec"
)

type span struct {
	start, end uint32
}

func (s span) contains(a uint32) bool {
	return s.start <= a && a <= s.end
}

func (s span) containsRange(a, b uint32) bool {
	return s.start <= a && b <= s.end
}

// Clipper keeps sorted, non overlapping spans.
type Clipper struct {
	center vec.Vec2
	spans  []span
}

func New() *Clipper {
	return &Clipper{}
}

// Reset clears all spans and moves the center.
func (c *Clipper) Reset(center vec.Vec2) {
	c.center = center
	c.spans = c.spans[:0]
}

func (c *Clipper) angle(p vec.Vec2) uint32 {
	return qmath.DiamondAngle(p.X-c.center.X, p.Y-c.center.Y)
}

func (c *Clipper) minMax(a, b vec.Vec2) (uint32, uint32) {
	x, y := c.angle(a), c.angle(b)
	if x > y {
		return y, x
	}
	return x, y
}

// spansOrigin reports whether the shorter arc between the angles crosses
// angle zero.
func spansOrigin(small, large uint32) bool {
	if small >= qmath.DiamondPi {
		return false
	}
	return small+qmath.DiamondPi < large
}

// AddLine blocks the angles covered by the segment start-end.
func (c *Clipper) AddLine(start, end vec.Vec2) {
	small, large := c.minMax(start, end)
	if spansOrigin(small, large) {
		c.addRange(0, small)
		c.addRange(large, math.MaxUint32)
		return
	}
	c.addRange(small, large)
}

// InsideAnyRange reports whether the segment start-end is completely hidden.
func (c *Clipper) InsideAnyRange(start, end vec.Vec2) bool {
	if len(c.spans) == 0 {
		return false
	}
	small, large := c.minMax(start, end)
	if spansOrigin(small, large) {
		return c.inside(0, small) && c.inside(large, math.MaxUint32)
	}
	return c.inside(small, large)
}

func (c *Clipper) inside(a, b uint32) bool {
	for _, s := range c.spans {
		if s.containsRange(a, b) {
			return true
		}
		if b < s.start {
			return false
		}
	}
	return false
}

func (c *Clipper) addRange(start, end uint32) {
	if start >= end {
		return
	}
	// first span that ends at or after start
	i := 0
	for i < len(c.spans) && c.spans[i].end < start {
		i++
	}
	if i == len(c.spans) {
		c.spans = append(c.spans, span{start, end})
		return
	}
	if end < c.spans[i].start {
		c.spans = append(c.spans, span{})
		copy(c.spans[i+1:], c.spans[i:])
		c.spans[i] = span{start, end}
		return
	}
	merged := span{min(start, c.spans[i].start), max(end, c.spans[i].end)}
	j := i + 1
	for j < len(c.spans) && c.spans[j].start <= merged.end {
		merged.end = max(merged.end, c.spans[j].end)
		j++
	}
	c.spans[i] = merged
	c.spans = append(c.spans[:i+1], c.spans[j:]...)
}

// Len returns the number of disjoint blocked spans.
func (c *Clipper) Len() int {
	return len(c.spans)
}

// Full reports whether every angle is blocked.
func (c *Clipper) Full() bool {
	return len(c.spans) == 1 && c.spans[0].start == 0 && c.spans[0].end == math.MaxUint32
}
