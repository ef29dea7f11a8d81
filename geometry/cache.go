// SPDX-License-Identifier: GPL-2.0-or-later

package geometry

import (
	"sectorgl/batch"
	"sectorgl/level"
	"sectorgl/triangulate"
)

// WallVertexCount is the size of one wall quad as a triangle list.
const WallVertexCount = 6

// arena is one contiguous block of fixed size vertex slots indexed by a
// dense id.
type arena[V any] struct {
	vertices  []V
	allocated []bool
	count     int
}

func (a *arena[V]) reset(slots int) {
	n := slots * WallVertexCount
	if cap(a.vertices) >= n {
		a.vertices = a.vertices[:n]
	} else {
		a.vertices = make([]V, n)
	}
	if cap(a.allocated) >= slots {
		a.allocated = a.allocated[:slots]
		clear(a.allocated)
	} else {
		a.allocated = make([]bool, slots)
	}
	a.count = 0
}

func (a *arena[V]) has(id int) bool {
	return a.allocated[id]
}

func (a *arena[V]) slot(id int) []V {
	i := id * WallVertexCount
	return a.vertices[i : i+WallVertexCount : i+WallVertexCount]
}

func (a *arena[V]) allocate(id int) []V {
	if !a.allocated[id] {
		a.allocated[id] = true
		a.count++
	}
	return a.slot(id)
}

// flatArena stores the triangles of all subsectors of a sector for one view
// and face. Offsets are computed once per level, the storage is allocated
// on first use.
type flatArena[V any] struct {
	vertices  []V
	offsets   []int
	counts    []int
	allocated []bool
	stamp     []int
	count     int
}

func (a *flatArena[V]) reset(offsets, counts []int) {
	a.vertices = a.vertices[:0]
	a.offsets = offsets
	a.counts = counts
	a.allocated = a.allocated[:0]
	a.stamp = a.stamp[:0]
	a.count = 0
}

func (a *flatArena[V]) init() {
	total := 0
	if n := len(a.offsets); n > 0 {
		total = a.offsets[n-1] + a.counts[n-1]
	}
	if cap(a.vertices) >= total {
		a.vertices = a.vertices[:total]
	} else {
		a.vertices = make([]V, total)
	}
	sectors := len(a.offsets)
	if cap(a.allocated) >= sectors {
		a.allocated = a.allocated[:sectors]
		clear(a.allocated)
		a.stamp = a.stamp[:sectors]
	} else {
		a.allocated = make([]bool, sectors)
		a.stamp = make([]int, sectors)
	}
	for i := range a.stamp {
		a.stamp[i] = -1
	}
}

func (a *flatArena[V]) ready() bool {
	return len(a.allocated) == len(a.offsets)
}

func (a *flatArena[V]) has(sector int) bool {
	return a.ready() && a.allocated[sector]
}

func (a *flatArena[V]) slot(sector int) []V {
	i := a.offsets[sector]
	n := a.counts[sector]
	return a.vertices[i : i+n : i+n]
}

func (a *flatArena[V]) allocate(sector int) []V {
	if !a.ready() {
		a.init()
	}
	if !a.allocated[sector] {
		a.allocated[sector] = true
		a.count++
	}
	return a.slot(sector)
}

// flatLayout returns the per sector offsets and vertex counts of the flat
// arenas.
func flatLayout(l *level.Level) ([]int, []int) {
	offsets := make([]int, len(l.Sectors))
	counts := make([]int, len(l.Sectors))
	next := 0
	for id, subsectors := range l.SectorSubsectors {
		n := 0
		for _, ss := range subsectors {
			n += triangulate.FanCount(len(ss.Edges))
		}
		offsets[id] = next
		counts[id] = n
		next += n
	}
	return offsets, counts
}

type wallCaches struct {
	walls    [3]arena[batch.Vertex]
	skyLower arena[batch.SkyVertex]
	skyUpper arena[batch.SkyVertex]
	flats    [level.TransferViewCount][2]flatArena[batch.Vertex]
	skyFlats [level.TransferViewCount][2]flatArena[batch.SkyVertex]
}

func (c *wallCaches) reset(l *level.Level) {
	sides := len(l.Sides)
	for i := range c.walls {
		c.walls[i].reset(sides)
	}
	c.skyLower.reset(sides)
	c.skyUpper.reset(sides)
	offsets, counts := flatLayout(l)
	for v := range c.flats {
		for f := range c.flats[v] {
			c.flats[v][f].reset(offsets, counts)
			c.skyFlats[v][f].reset(offsets, counts)
		}
	}
}

// Stats counts allocated cache entries.
type Stats struct {
	Walls    int
	SkyWalls int
	Flats    int
	SkyFlats int
}

func (s Stats) Total() int {
	return s.Walls + s.SkyWalls + s.Flats + s.SkyFlats
}

func (c *wallCaches) stats() Stats {
	var s Stats
	for i := range c.walls {
		s.Walls += c.walls[i].count
	}
	s.SkyWalls = c.skyLower.count + c.skyUpper.count
	for v := range c.flats {
		for f := range c.flats[v] {
			s.Flats += c.flats[v][f].count
			s.SkyFlats += c.skyFlats[v][f].count
		}
	}
	return s
}
