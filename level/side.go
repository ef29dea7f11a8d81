// SPDX-License-Identifier: GPL-2.0-or-later

package level

import (
	"sectorgl/math/vec"
)

type WallLocation int

const (
	Lower WallLocation = iota
	Middle
	Upper
)

func (w WallLocation) String() string {
	switch w {
	case Lower:
		return "lower"
	case Middle:
		return "middle"
	case Upper:
		return "upper"
	}
	return "unknown"
}

type Wall struct {
	Location      WallLocation
	TextureHandle int
	// Static walls are owned by a static geometry cache and skipped by the
	// whole sector render mode.
	Static bool
}

type FloodFlags int

const (
	FloodFloor FloodFlags = 1 << iota
	FloodCeiling
)

type Side struct {
	ID     int
	Line   *Line
	Sector *Sector
	Offset vec.Vec2
	Walls  [3]Wall

	OffsetChanged  bool
	offsetTick     int
	LastRenderTick int

	// MidTextureFlood marks planes this side has to flood for the mid texture
	// hack.
	MidTextureFlood FloodFlags
}

func (s *Side) Lower() *Wall {
	return &s.Walls[Lower]
}

func (s *Side) Middle() *Wall {
	return &s.Walls[Middle]
}

func (s *Side) Upper() *Wall {
	return &s.Walls[Upper]
}

func (s *Side) IsFront() bool {
	return s.Line.Front == s
}

// Partner returns the other side of a two sided line, or nil.
func (s *Side) Partner() *Side {
	if s.Line.Front == s {
		return s.Line.Back
	}
	return s.Line.Front
}

// Segment returns the line segment oriented so the side is on its right.
func (s *Side) Segment() vec.Segment {
	if s.IsFront() {
		return s.Line.Segment
	}
	return vec.Segment{Start: s.Line.Segment.End, End: s.Line.Segment.Start}
}

func (s *Side) SetOffset(o vec.Vec2, tick int) {
	s.Offset = o
	s.OffsetChanged = true
	s.offsetTick = tick
}

func (s *Side) CheckOffsetChanged(since int) bool {
	return s.OffsetChanged || s.offsetTick > since
}
