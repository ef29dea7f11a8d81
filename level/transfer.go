// SPDX-License-Identifier: GPL-2.0-or-later

package level

type TransferHeightView int

const (
	TransferViewMiddle TransferHeightView = iota
	TransferViewTop
	TransferViewBottom
)

// TransferViewCount is the number of distinct views.
const TransferViewCount = 3

func (v TransferHeightView) String() string {
	switch v {
	case TransferViewTop:
		return "top"
	case TransferViewBottom:
		return "bottom"
	}
	return "middle"
}

// TransferHeights lets Parent borrow heights, textures and light of
// ControlSector depending on where the viewer is.
type TransferHeights struct {
	Parent        *Sector
	ControlSector *Sector
}

// View selects the view for a viewer at viewZ inside the parent sector.
func (t *TransferHeights) View(viewZ float64) TransferHeightView {
	c := t.ControlSector
	if viewZ > c.Ceiling.Z {
		return TransferViewTop
	}
	if viewZ > c.Floor.Z {
		return TransferViewMiddle
	}
	return TransferViewBottom
}

// ViewFor returns the view for a viewer standing in viewSector. Sectors
// without transfer heights always give the middle view.
func ViewFor(viewSector *Sector, viewZ float64) TransferHeightView {
	if viewSector == nil || viewSector.TransferHeights == nil {
		return TransferViewMiddle
	}
	return viewSector.TransferHeights.View(viewZ)
}

// RenderSector builds the virtual sector for a view.
func (t *TransferHeights) RenderSector(view TransferHeightView) SectorView {
	p := t.Parent
	c := t.ControlSector
	switch view {
	case TransferViewTop:
		ceiling := viewOf(&p.Ceiling)
		ceiling.TextureHandle = c.Ceiling.TextureHandle
		ceiling.LightLevel = c.Ceiling.LightLevel
		floor := viewOf(&c.Ceiling)
		floor.TextureHandle = c.Floor.TextureHandle
		floor.LightLevel = c.Floor.LightLevel
		return SectorView{
			ID:               c.ID,
			Source:           p,
			Floor:            floor,
			Ceiling:          ceiling,
			LightLevel:       c.LightLevel,
			SkyTextureHandle: p.SkyTextureHandle,
		}
	case TransferViewBottom:
		ceiling := viewOf(&c.Floor)
		ceiling.TextureHandle = c.Ceiling.TextureHandle
		ceiling.LightLevel = c.Ceiling.LightLevel
		floor := viewOf(&p.Floor)
		floor.TextureHandle = c.Floor.TextureHandle
		floor.LightLevel = c.Floor.LightLevel
		return SectorView{
			ID:               c.ID,
			Source:           p,
			Floor:            floor,
			Ceiling:          ceiling,
			LightLevel:       c.LightLevel,
			SkyTextureHandle: p.SkyTextureHandle,
		}
	}
	ceiling := viewOf(&c.Ceiling)
	ceiling.TextureHandle = p.Ceiling.TextureHandle
	ceiling.LightLevel = p.Ceiling.LightLevel
	floor := viewOf(&c.Floor)
	floor.TextureHandle = p.Floor.TextureHandle
	floor.LightLevel = p.Floor.LightLevel
	return SectorView{
		ID:               p.ID,
		Source:           p,
		Floor:            floor,
		Ceiling:          ceiling,
		LightLevel:       p.LightLevel,
		SkyTextureHandle: p.SkyTextureHandle,
	}
}
