// SPDX-License-Identifier: GPL-2.0-or-later

package geometry

import (
	"cmp"

	"golang.org/x/exp/slices"

	"sectorgl/level"
	"sectorgl/math/vec"
)

// alphaSide is a translucent middle texture waiting for the alpha pass.
type alphaSide struct {
	side *level.Side
	view View
	// since is the render tick of the side before the pass touched it.
	since int
	dist  float64
}

func (r *Renderer) addAlphaSide(v View, side *level.Side) {
	center := side.Line.Segment.Lerp(0.5)
	d := vec.Sub2(center, v.Pos)
	r.alphaSides = append(r.alphaSides, alphaSide{
		side:  side,
		view:  v,
		since: side.LastRenderTick,
		dist:  d.X*d.X + d.Y*d.Y,
	})
}

// AlphaSides returns the number of collected translucent sides.
func (r *Renderer) AlphaSides() int {
	return len(r.alphaSides)
}

// RenderAlphaSides emits the collected translucent middles far to near into
// the alpha batch.
func (r *Renderer) RenderAlphaSides() {
	slices.SortStableFunc(r.alphaSides, func(a, b alphaSide) int {
		return cmp.Compare(b.dist, a.dist)
	})
	for _, a := range r.alphaSides {
		ctx := r.newContext(a.view)
		sc := r.sideContext(&ctx, a.side, a.since)
		r.emit(&ctx, r.twoSidedMiddle(sc, true))
	}
	r.alphaSides = r.alphaSides[:0]
}
