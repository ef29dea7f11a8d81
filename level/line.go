// SPDX-License-Identifier: GPL-2.0-or-later

package level

import (
	"fmt"

	"sectorgl/math/vec"
)

type LineFlags struct {
	UpperUnpegged bool
	LowerUnpegged bool
	Secret        bool
	NeverMap      bool
}

type Line struct {
	ID      int
	Segment vec.Segment
	Front   *Side
	Back    *Side
	Flags   LineFlags
	Special int
	Tag     int
	// Alpha is the translucency of the middle texture, 1 is opaque.
	Alpha float64
	// Sky is set during a pass when the line let sky through and must not
	// clip the view.
	Sky bool
	// Seen is sticky automap bookkeeping.
	Seen bool
}

func (l *Line) OneSided() bool {
	return l.Back == nil
}

func (l *Line) TwoSided() bool {
	return l.Back != nil
}

// Side returns the front or back side. Asking a one sided line for its back
// is a programming error.
func (l *Line) Side(front bool) *Side {
	if front {
		return l.Front
	}
	if l.Back == nil {
		panic(fmt.Sprintf("Trying to draw the wrong side of a one sided line (line %d)", l.ID))
	}
	return l.Back
}

// IsRenderingBlocked reports a two sided line with no vertical opening, like
// a closed door. One sided lines are always blocked.
func (l *Line) IsRenderingBlocked() bool {
	if l.Back == nil {
		return true
	}
	return NewOpening(l.Front.Sector, l.Back.Sector).Height() <= 0
}

// Opening is the vertical gap between two sectors.
type Opening struct {
	FloorZ   float64
	CeilingZ float64
}

func NewOpening(front, back *Sector) Opening {
	return Opening{
		FloorZ:   max(front.Floor.Z, back.Floor.Z),
		CeilingZ: min(front.Ceiling.Z, back.Ceiling.Z),
	}
}

func (o Opening) Height() float64 {
	return o.CeilingZ - o.FloorZ
}

// ViewOpening is the opening between two resolved sectors.
func ViewOpening(front, back SectorView) Opening {
	return Opening{
		FloorZ:   max(front.Floor.Z, back.Floor.Z),
		CeilingZ: min(front.Ceiling.Z, back.Ceiling.Z),
	}
}
