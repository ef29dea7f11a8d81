// SPDX-License-Identifier: GPL-2.0-or-later

package level

import (
	"sectorgl/math/vec"
)

// Island is a connected group of lines bounding a sector. Loops around
// holes in the sector are not islands.
type Island struct {
	Lines []*Line
	Box   vec.Box

	// twice the signed area enclosed by the sides facing the sector,
	// negative for an outer boundary
	area float64
}

func buildIslands(s *Sector) []*Island {
	n := len(s.Lines)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	byPoint := make(map[vec.Vec2]int)
	join := func(p vec.Vec2, i int) {
		if j, ok := byPoint[p]; ok {
			parent[find(i)] = find(j)
			return
		}
		byPoint[p] = i
	}
	for i, l := range s.Lines {
		join(l.Segment.Start, i)
		join(l.Segment.End, i)
	}

	var islands []*Island
	index := make(map[int]*Island)
	for i, l := range s.Lines {
		r := find(i)
		is, ok := index[r]
		if !ok {
			is = &Island{Box: vec.EmptyBox()}
			index[r] = is
			islands = append(islands, is)
		}
		is.Lines = append(is.Lines, l)
		is.Box = is.Box.Add(l.Segment.Start).Add(l.Segment.End)
		for _, side := range [2]*Side{l.Front, l.Back} {
			if side != nil && side.Sector == s {
				seg := side.Segment()
				is.area += seg.Start.X*seg.End.Y - seg.End.X*seg.Start.Y
			}
		}
	}

	// The sector lies right of its sides, so a hole loop winds counter
	// clockwise.
	outer := islands[:0:0]
	for _, is := range islands {
		if is.area <= 0 {
			outer = append(outer, is)
		}
	}
	if len(outer) == 0 {
		return islands
	}
	return outer
}

// ContainsSector reports whether one of the islands of s encloses any island
// of o.
func (s *Sector) ContainsSector(o *Sector) bool {
	for _, outer := range s.Islands {
		for _, inner := range o.Islands {
			if outer.Box.ContainsBox(inner.Box) {
				return true
			}
		}
	}
	return false
}
