// SPDX-License-Identifier: GPL-2.0-or-later

package geometry

import (
	"sectorgl/level"
	"sectorgl/texture"
	"sectorgl/triangulate"
)

// midTextureHack hides floors and ceilings that transparent middle textures
// would otherwise clip into.
type midTextureHack struct {
	r           *Renderer
	level       *level.Level
	floodLines  []bool
	hackSectors []bool
}

func (r *Renderer) applyMidTextureHack(l *level.Level) {
	h := &midTextureHack{
		r:           r,
		level:       l,
		floodLines:  make([]bool, len(l.Lines)),
		hackSectors: make([]bool, len(l.Sectors)),
	}
	for _, s := range l.Sectors {
		h.applyToSector(s)
	}
}

func (h *midTextureHack) applyToSector(s *level.Sector) {
	if s.TransferHeights != nil {
		return
	}
	clippedFloor, clippedCeiling := false, false
	for _, line := range s.Lines {
		if line.Back == nil {
			continue
		}
		side := line.Front
		if side.Walls[level.Middle].TextureHandle == texture.NoTexture {
			side = line.Back
		}
		handle := side.Walls[level.Middle].TextureHandle
		if handle == texture.NoTexture {
			continue
		}
		tex := h.r.textures.Texture(handle)
		if !tex.HasTransparentPixels() && line.Alpha >= 1 {
			continue
		}

		opening := level.NewOpening(side.Sector, side.Partner().Sector)
		uInv, vInv := tex.UVInverse()
		w, visible := triangulate.TwoSidedMiddle(side, opening, tex.Height, uInv, vInv, 0)
		if !visible {
			continue
		}
		front, back := line.Front.Sector, line.Back.Sector
		if float64(w.BottomRight.Z) < s.Floor.Z && front.Floor.Z == back.Floor.Z {
			clippedFloor = true
		}
		if float64(w.TopLeft.Z) > s.Ceiling.Z && front.Ceiling.Z == back.Ceiling.Z {
			clippedCeiling = true
		}
	}

	if clippedFloor {
		h.floodSectorLines(s, level.Floor)
	}
	if clippedCeiling {
		h.floodSectorLines(s, level.Ceiling)
	}
	if !clippedFloor && !clippedCeiling {
		return
	}
	h.hackSectors[s.ID] = true
	markMidTextureHack(s, clippedFloor, clippedCeiling)
	for _, c := range h.containingFloodSectors(s, clippedFloor, clippedCeiling) {
		markMidTextureHack(c, clippedFloor, clippedCeiling)
	}
}

func markMidTextureHack(s *level.Sector, floor, ceiling bool) {
	s.Floor.MidTextureHack = s.Floor.MidTextureHack || floor
	s.Ceiling.MidTextureHack = s.Ceiling.MidTextureHack || ceiling
	s.Floor.NoRender = s.Floor.NoRender || floor
	s.Ceiling.NoRender = s.Ceiling.NoRender || ceiling
}

// containingFloodSectors returns the sectors with a matching plane whose
// islands enclose s.
func (h *midTextureHack) containingFloodSectors(s *level.Sector, floor, ceiling bool) []*level.Sector {
	var found []*level.Sector
	for _, c := range h.level.Sectors {
		if c == s {
			continue
		}
		if floor && (c.Floor.Z != s.Floor.Z || c.Floor.TextureHandle != s.Floor.TextureHandle) {
			continue
		}
		if ceiling && (c.Ceiling.Z != s.Ceiling.Z || c.Ceiling.TextureHandle != s.Ceiling.TextureHandle) {
			continue
		}
		if s.ContainsSector(c) {
			found = append(found, c)
		}
	}
	return found
}

// floodSectorLines flags the sides bounding s to flood the hidden plane.
func (h *midTextureHack) floodSectorLines(s *level.Sector, f level.Face) {
	for _, line := range s.Lines {
		if line.Back != nil && line.Front.Sector == line.Back.Sector {
			continue
		}
		if line.Front.Sector.Plane(f).NoRender || h.r.textures.IsSky(s.Plane(f).TextureHandle) {
			continue
		}
		if h.floodLines[line.ID] {
			continue
		}
		if h.hackSectors[line.Front.Sector.ID] || line.Back != nil && h.hackSectors[line.Back.Sector.ID] {
			continue
		}
		facing := line.Front
		if line.Back != nil && line.Front.Sector != s {
			facing = line.Back
		}
		if line.Back != nil && f == level.Floor && facing.Walls[level.Lower].TextureHandle == texture.NoTexture {
			continue
		}
		h.floodLines[line.ID] = true
		if f == level.Floor {
			facing.MidTextureFlood |= level.FloodFloor
		} else {
			facing.MidTextureFlood |= level.FloodCeiling
		}
	}
}
