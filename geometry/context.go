// SPDX-License-Identifier: GPL-2.0-or-later

package geometry

import (
	"sectorgl/level"
	"sectorgl/math/vec"
)

// View is the viewer for one render call. Prev values are from the last
// tick and used together with the tick fraction.
type View struct {
	Pos     vec.Vec2
	PrevPos vec.Vec2
	Z       float64
	PrevZ   float64
	// Sector is the sector the viewer is in.
	Sector *level.Sector
}

// renderContext carries the per call state through the classifier.
type renderContext struct {
	tick         int
	tickFraction float64
	view         View
	// transfer is the transfer heights view of the viewer sector.
	transfer level.TransferHeightView
	// cacheOverride routes walls through scratch storage so off middle views
	// never reach the persistent caches.
	cacheOverride bool
	emit          bool
}

func (r *Renderer) newContext(v View) renderContext {
	ctx := renderContext{
		tick:         r.tick,
		tickFraction: r.tickFraction,
		view:         v,
		emit:         true,
	}
	ctx.transfer = level.ViewFor(v.Sector, v.Z)
	ctx.cacheOverride = ctx.transfer != level.TransferViewMiddle
	return ctx
}

// planeChanged reports geometry changes for a face of a sector, including the
// control sector of transfer heights.
func planeChanged(s *level.Sector, f level.Face, since int) bool {
	if s.Plane(f).CheckRenderingChanged(since) {
		return true
	}
	if th := s.TransferHeights; th != nil {
		return th.ControlSector.CheckRenderingChanged(since)
	}
	return false
}

// sectorChanged includes the control sector of transfer heights.
func sectorChanged(s *level.Sector, since int) bool {
	if s.CheckRenderingChanged(since) {
		return true
	}
	if th := s.TransferHeights; th != nil {
		return th.ControlSector.CheckRenderingChanged(since)
	}
	return false
}

func lightingChanged(s *level.Sector, since int) bool {
	if s.CheckLightingChanged(since) {
		return true
	}
	if th := s.TransferHeights; th != nil {
		return th.ControlSector.CheckLightingChanged(since)
	}
	return false
}

// sideContext is the state for rendering the walls of one side.
type sideContext struct {
	ctx    *renderContext
	side   *level.Side
	facing level.SectorView
	// other is only valid for two sided lines.
	other level.SectorView
	// changed forces new geometry, lightChanged a light patch.
	changed      bool
	lightChanged bool
	lightAdd     int
}
