// SPDX-License-Identifier: GPL-2.0-or-later

package geometry

import (
	"sectorgl/batch"
	"sectorgl/level"
	"sectorgl/texture"
	"sectorgl/triangulate"
)

// renderSectorFlats emits the floor and ceiling of a whole sector once per
// pass.
func (r *Renderer) renderSectorFlats(ctx *renderContext, s *level.Sector) {
	if r.flatStamp[s.ID] == r.pass {
		return
	}
	r.flatStamp[s.ID] = r.pass

	view := level.TransferViewMiddle
	if s.TransferHeights != nil {
		view = ctx.transfer
	}
	rs := s.RenderSector(view)
	v := ctx.view
	floorVisible := v.Z >= rs.Floor.Z || v.PrevZ >= rs.Floor.Z
	ceilingVisible := v.Z <= rs.Ceiling.Z || v.PrevZ <= rs.Ceiling.Z
	if floorVisible {
		r.renderFlat(ctx, s, view, rs, level.Floor)
	}
	if ceilingVisible {
		r.renderFlat(ctx, s, view, rs, level.Ceiling)
	}
}

// RenderFlat emits one plane of a sector regardless of the viewer height.
func (r *Renderer) RenderFlat(v View, s *level.Sector, f level.Face) {
	ctx := r.newContext(v)
	view := level.TransferViewMiddle
	if s.TransferHeights != nil {
		view = ctx.transfer
	}
	r.renderFlat(&ctx, s, view, s.RenderSector(view), f)
}

func (r *Renderer) renderFlat(ctx *renderContext, s *level.Sector, view level.TransferHeightView, rs level.SectorView, f level.Face) {
	phys := s.Plane(f)
	if phys.Static {
		return
	}
	plane := rs.Plane(f)
	if plane.TextureHandle == texture.NoTexture {
		return
	}
	if r.textures.IsSky(plane.TextureHandle) {
		r.renderSkyFlat(ctx, s, view, rs, f)
		return
	}
	if phys.NoRender {
		return
	}

	a := &r.caches.flats[view][f]
	var data []batch.Vertex
	switch {
	case !a.has(s.ID):
		data = a.allocate(s.ID)
		r.flatVertices(s, f, plane, data)
	case planeChanged(s, f, a.stamp[s.ID]):
		data = a.slot(s.ID)
		r.flatVertices(s, f, plane, data)
	default:
		data = a.slot(s.ID)
		if lightingChanged(s, a.stamp[s.ID]) {
			l := lightLevel(plane.LightLevel, 0)
			for i := range data {
				data[i].LightLevel = l
			}
		}
	}
	a.stamp[s.ID] = ctx.tick
	if ctx.emit {
		r.batches.Normal.Add(plane.TextureHandle, data...)
	}
}

func (r *Renderer) renderSkyFlat(ctx *renderContext, s *level.Sector, view level.TransferHeightView, rs level.SectorView, f level.Face) {
	a := &r.caches.skyFlats[view][f]
	plane := rs.Plane(f)
	var data []batch.SkyVertex
	switch {
	case !a.has(s.ID):
		data = a.allocate(s.ID)
	case planeChanged(s, f, a.stamp[s.ID]):
		data = a.slot(s.ID)
	default:
		data = a.slot(s.ID)
		a.stamp[s.ID] = ctx.tick
		if ctx.emit {
			r.batches.Sky.Add(rs.SkyTextureHandle, data...)
		}
		return
	}

	h := triangulate.PlaneHeight(plane)
	if f == level.Ceiling {
		h = triangulate.Fixed(r.maxSky())
	}
	i := 0
	for _, ss := range r.level.SectorSubsectors[s.ID] {
		r.corners = triangulate.Subsector(ss, f, h, 1, 1, r.corners[:0])
		r.fan = triangulate.Fan(r.corners, r.fan[:0])
		for _, c := range r.fan {
			data[i] = batch.SkyVertex{X: c.X, Y: c.Y, Z: c.Z, PrevZ: c.PrevZ}
			i++
		}
	}
	a.stamp[s.ID] = ctx.tick
	if ctx.emit {
		r.batches.Sky.Add(rs.SkyTextureHandle, data...)
	}
}

// flatVertices triangulates every subsector of a sector into dst.
func (r *Renderer) flatVertices(s *level.Sector, f level.Face, plane level.PlaneView, dst []batch.Vertex) {
	tex := r.textures.Texture(plane.TextureHandle)
	light := lightLevel(plane.LightLevel, 0)
	h := triangulate.PlaneHeight(plane)
	i := 0
	for _, ss := range r.level.SectorSubsectors[s.ID] {
		r.corners = triangulate.Subsector(ss, f, h, tex.Width, tex.Height, r.corners[:0])
		r.fan = triangulate.Fan(r.corners, r.fan[:0])
		for _, c := range r.fan {
			dst[i] = batch.Vertex{
				X: c.X, Y: c.Y, Z: c.Z, PrevZ: c.PrevZ,
				U: c.U, V: c.V,
				LightLevel: light,
				Alpha:      1,
			}
			i++
		}
	}
}
