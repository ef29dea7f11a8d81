// SPDX-License-Identifier: GPL-2.0-or-later

// Package world runs the render passes of a loaded level.
package world

import (
	"fmt"

	"sectorgl/batch"
	"sectorgl/bsp"
	"sectorgl/cvars"
	"sectorgl/geometry"
	"sectorgl/level"
	"sectorgl/math/vec"
	"sectorgl/texture"
	"sectorgl/viewclip"
)

// FrameStats describes the last pass.
type FrameStats struct {
	Subsectors int
	Culled     int
	Vertices   int
	Flushed    int
}

func (s FrameStats) String() string {
	return fmt.Sprintf("subsectors: %d, culled: %d, vertices: %d, flushed: %d",
		s.Subsectors, s.Culled, s.Vertices, s.Flushed)
}

type World struct {
	level    *level.Level
	tree     *bsp.Tree
	batches  *batch.Set
	clipper  *viewclip.Clipper
	renderer *geometry.Renderer

	view  geometry.View
	stats FrameStats
	// idleFrames counts frames without a normal pass since the last flush.
	idleFrames int
}

func New(l *level.Level, tree *bsp.Tree, textures texture.Manager, opts geometry.Options) *World {
	w := &World{
		level:   l,
		tree:    tree,
		batches: batch.NewSet(),
		clipper: viewclip.New(),
	}
	w.renderer = geometry.NewRenderer(textures, w.batches, w.clipper, opts)
	w.renderer.UpdateTo(l)
	return w
}

func (w *World) Level() *level.Level {
	return w.level
}

func (w *World) Renderer() *geometry.Renderer {
	return w.renderer
}

func (w *World) Batches() *batch.Set {
	return w.batches
}

func (w *World) Stats() FrameStats {
	return w.stats
}

// ViewAt returns a view standing in the sector below pos.
func (w *World) ViewAt(pos vec.Vec2, z float64) geometry.View {
	return geometry.View{
		Pos:     pos,
		PrevPos: pos,
		Z:       z,
		PrevZ:   z,
		Sector:  w.tree.PointInSubsector(pos).Sector,
	}
}

func (w *World) begin(v geometry.View, tick int, frac float64) {
	if v.Sector == nil {
		v.Sector = w.tree.PointInSubsector(v.Pos).Sector
	}
	w.view = v
	w.stats = FrameStats{}
	w.batches.Clear()
	w.renderer.Clear(frac, tick)
	w.clipper.Reset(v.Pos)
	if g := w.renderer.Static(); g != nil {
		g.Scan(tick)
		w.stats.Flushed = w.renderer.FlushPending()
		w.renderer.RenderStatic()
	}
	w.idleFrames = 0
}

func (w *World) end() {
	w.renderer.RenderAlphaSides()
	w.stats.Vertices = w.batches.Normal.Count() + w.batches.Alpha.Count() +
		w.batches.Flood.Count() + w.batches.Sky.Count()
}

// Render fills the batches for a view by walking the tree near to far.
func (w *World) Render(v geometry.View, tick int, frac float64) FrameStats {
	w.begin(v, tick, frac)
	w.tree.Walk(w.view.Pos, w)
	w.end()
	return w.stats
}

// RenderSectors fills the batches with every sector of the level without
// occlusion.
func (w *World) RenderSectors(v geometry.View, tick int, frac float64) FrameStats {
	w.begin(v, tick, frac)
	for _, s := range w.level.Sectors {
		w.renderer.RenderSector(w.view, s)
	}
	w.stats.Subsectors = len(w.level.Subsectors)
	w.end()
	return w.stats
}

// Occluded reports whether a node box is hidden behind the solid walls
// rendered so far. A box containing the viewer is never hidden.
func (w *World) Occluded(box vec.Box) bool {
	if !cvars.RendererOcclusion.Bool() {
		return false
	}
	a, b, ok := bsp.SpanningEdge(box, w.view.Pos)
	if !ok {
		return false
	}
	if w.clipper.InsideAnyRange(a, b) {
		w.stats.Culled++
		return true
	}
	return false
}

func (w *World) Visit(ss *level.Subsector) {
	w.stats.Subsectors++
	w.renderer.RenderSubsector(w.view, ss)
}

// Idle is called for frames that skip the normal pass, for example while
// the automap covers the screen. Buffered static updates are written every
// r_flushinterval frames so they do not pile up.
func (w *World) Idle(tick int) int {
	g := w.renderer.Static()
	if g == nil {
		return 0
	}
	g.Scan(tick)
	w.idleFrames++
	if w.idleFrames < int(cvars.RendererFlushInterval.Value()) {
		return 0
	}
	w.idleFrames = 0
	return w.renderer.FlushPending()
}

// Draw submits the batches of the last pass.
func (w *World) Draw(walls, flood batch.Device[batch.Vertex], sky batch.Device[batch.SkyVertex]) {
	w.batches.Draw(walls, flood, sky)
}
