// SPDX-License-Identifier: GPL-2.0-or-later

package level

import (
	"sectorgl/math"
)

type Face int

const (
	Floor Face = iota
	Ceiling
)

func (f Face) String() string {
	if f == Floor {
		return "floor"
	}
	return "ceiling"
}

type SectorPlane struct {
	Sector        *Sector
	Face          Face
	Z             float64
	PrevZ         float64
	TextureHandle int
	LightLevel    int

	RenderingChanged bool
	changeTick       int

	Static bool
	// MidTextureHack and NoRender are set by the mid texture flood hack.
	MidTextureHack bool
	NoRender       bool
}

// SetZ moves the plane. The previous height is kept for interpolation.
func (p *SectorPlane) SetZ(z float64, tick int) {
	p.PrevZ = p.Z
	p.Z = z
	p.markChanged(tick)
}

func (p *SectorPlane) SetTexture(handle int, tick int) {
	p.TextureHandle = handle
	p.markChanged(tick)
}

func (p *SectorPlane) markChanged(tick int) {
	p.RenderingChanged = true
	p.changeTick = tick
}

func (p *SectorPlane) CheckRenderingChanged(since int) bool {
	return p.RenderingChanged || p.changeTick > since
}

func (p *SectorPlane) InterpolatedZ(frac float64) float64 {
	return math.Lerp(p.PrevZ, p.Z, frac)
}

type Sector struct {
	ID      int
	Tag     int
	Floor   SectorPlane
	Ceiling SectorPlane

	LightLevel      int
	LightingChanged bool
	lightTick       int

	SkyTextureHandle int
	TransferHeights  *TransferHeights
	Lines            []*Line
	Islands          []*Island
}

func (s *Sector) Plane(f Face) *SectorPlane {
	if f == Floor {
		return &s.Floor
	}
	return &s.Ceiling
}

// SetLightLevel changes the sector light, planes follow the sector.
func (s *Sector) SetLightLevel(l int, tick int) {
	s.LightLevel = l
	s.Floor.LightLevel = l
	s.Ceiling.LightLevel = l
	s.LightingChanged = true
	s.lightTick = tick
}

func (s *Sector) CheckRenderingChanged(since int) bool {
	return s.Floor.CheckRenderingChanged(since) || s.Ceiling.CheckRenderingChanged(since)
}

func (s *Sector) CheckLightingChanged(since int) bool {
	return s.LightingChanged || s.lightTick > since
}

func (s *Sector) AreFlatsStatic() bool {
	return s.Floor.Static && s.Ceiling.Static
}

// PlaneView is a read only snapshot of a plane as seen from the viewer.
type PlaneView struct {
	Z             float64
	PrevZ         float64
	TextureHandle int
	LightLevel    int
	Source        *SectorPlane
}

func (p PlaneView) InterpolatedZ(frac float64) float64 {
	return math.Lerp(p.PrevZ, p.Z, frac)
}

func viewOf(p *SectorPlane) PlaneView {
	return PlaneView{
		Z:             p.Z,
		PrevZ:         p.PrevZ,
		TextureHandle: p.TextureHandle,
		LightLevel:    p.LightLevel,
		Source:        p,
	}
}

// SectorView is the sector the renderer draws. It equals the physical sector
// unless transfer heights substitute a virtual one.
type SectorView struct {
	ID               int
	Source           *Sector
	Floor            PlaneView
	Ceiling          PlaneView
	LightLevel       int
	SkyTextureHandle int
}

func (v SectorView) Plane(f Face) PlaneView {
	if f == Floor {
		return v.Floor
	}
	return v.Ceiling
}

// RenderSector resolves the sector for a transfer heights view. It does not
// modify any sector.
func (s *Sector) RenderSector(view TransferHeightView) SectorView {
	if s.TransferHeights == nil {
		return SectorView{
			ID:               s.ID,
			Source:           s,
			Floor:            viewOf(&s.Floor),
			Ceiling:          viewOf(&s.Ceiling),
			LightLevel:       s.LightLevel,
			SkyTextureHandle: s.SkyTextureHandle,
		}
	}
	return s.TransferHeights.RenderSector(view)
}
