// SPDX-License-Identifier: GPL-2.0-or-later

package geometry

import (
	"sectorgl/batch"
	"sectorgl/level"
	"sectorgl/texture"
)

type staticRange struct {
	texture int
	start   int
	count   int
}

// StaticGeometry holds the walls and flats of sectors that can never move.
// They are built once per level. Light and offset changes are queued and
// written by FlushPending.
type StaticGeometry struct {
	r     *Renderer
	level *level.Level
	// vertices are indexed by texture handle.
	vertices    [][]batch.Vertex
	walls       []staticRange
	flats       []staticRange
	sectorSides [][]*level.Side

	lightQueued    []bool
	offsetQueued   []bool
	pendingLights  []*level.Sector
	pendingOffsets []*level.Side
	scanTick       int
}

func newStaticGeometry(r *Renderer) *StaticGeometry {
	return &StaticGeometry{r: r}
}

// staticSectors marks sectors that no special can move or that do not
// depend on the viewer.
func staticSectors(l *level.Level, textures texture.Manager) []bool {
	controls := make([]bool, len(l.Sectors))
	for _, s := range l.Sectors {
		if th := s.TransferHeights; th != nil {
			controls[th.ControlSector.ID] = true
		}
	}
	static := make([]bool, len(l.Sectors))
	for _, s := range l.Sectors {
		static[s.ID] = s.Tag == 0 && s.TransferHeights == nil && !controls[s.ID] &&
			!textures.IsSky(s.Floor.TextureHandle) && !textures.IsSky(s.Ceiling.TextureHandle)
	}
	return static
}

func (g *StaticGeometry) build(l *level.Level) {
	g.level = l
	g.walls = make([]staticRange, len(l.Sides)*3)
	g.flats = make([]staticRange, len(l.Sectors)*2)
	g.sectorSides = make([][]*level.Side, len(l.Sectors))
	g.lightQueued = make([]bool, len(l.Sectors))
	g.offsetQueued = make([]bool, len(l.Sides))
	g.scanTick = 0

	static := staticSectors(l, g.r.textures)
	ctx := g.r.newContext(View{})
	ctx.cacheOverride = true
	ctx.emit = false

	for _, side := range l.Sides {
		if !static[side.Sector.ID] {
			continue
		}
		p := side.Partner()
		if p != nil && !static[p.Sector.ID] {
			continue
		}
		g.sectorSides[side.Sector.ID] = append(g.sectorSides[side.Sector.ID], side)
		sc := g.r.sideContext(&ctx, side, -1)
		sc.ctx = &ctx
		if p == nil {
			g.addWall(side, level.Middle, g.r.oneSided(sc))
			continue
		}
		if lowerIsVisible(sc) {
			g.addWall(side, level.Lower, g.r.twoSidedLower(sc))
		} else {
			side.Walls[level.Lower].Static = true
		}
		if !g.r.isAlpha(side.Line) {
			g.addWall(side, level.Middle, g.r.twoSidedMiddle(sc, false))
		}
		if g.r.upperOrSkySideIsVisible(sc) {
			surfaces, skyOverride := g.r.twoSidedUpper(sc)
			if !skyOverride && surfaces[1].Kind == SurfaceNone {
				g.addWall(side, level.Upper, surfaces[0])
			}
		} else {
			side.Walls[level.Upper].Static = true
		}
	}

	for _, s := range l.Sectors {
		if !static[s.ID] {
			continue
		}
		rs := s.RenderSector(level.TransferViewMiddle)
		for _, f := range []level.Face{level.Floor, level.Ceiling} {
			plane := rs.Plane(f)
			phys := s.Plane(f)
			phys.Static = true
			if plane.TextureHandle == texture.NoTexture || phys.NoRender {
				continue
			}
			n := len(g.r.caches.flats[level.TransferViewMiddle][f].counts)
			if n == 0 {
				continue
			}
			count := g.r.caches.flats[level.TransferViewMiddle][f].counts[s.ID]
			dst := g.grow(plane.TextureHandle, count)
			g.r.flatVertices(s, f, plane, dst.slice(g))
			g.flats[s.ID*2+int(f)] = dst
		}
	}
}

// grow reserves count vertices for a texture.
func (g *StaticGeometry) grow(handle, count int) staticRange {
	if handle >= len(g.vertices) {
		n := make([][]batch.Vertex, handle+1)
		copy(n, g.vertices)
		g.vertices = n
	}
	start := len(g.vertices[handle])
	g.vertices[handle] = append(g.vertices[handle], make([]batch.Vertex, count)...)
	return staticRange{texture: handle, start: start, count: count}
}

func (s staticRange) slice(g *StaticGeometry) []batch.Vertex {
	return g.vertices[s.texture][s.start : s.start+s.count]
}

func (g *StaticGeometry) addWall(side *level.Side, loc level.WallLocation, s Surface) {
	switch s.Kind {
	case SurfaceNone:
		side.Walls[loc].Static = true
	case SurfaceNormal:
		if s.Alpha {
			return
		}
		rng := g.grow(s.Texture, len(s.Vertices))
		copy(rng.slice(g), s.Vertices)
		g.walls[side.ID*3+int(loc)] = rng
		side.Walls[loc].Static = true
	}
}

// Walls returns the number of static walls with geometry.
func (g *StaticGeometry) Walls() int {
	n := 0
	for _, w := range g.walls {
		if w.count > 0 {
			n++
		}
	}
	return n
}

// Emit adds all static geometry to the normal batches.
func (g *StaticGeometry) Emit(set *batch.Set) {
	for handle, vs := range g.vertices {
		set.Normal.Add(handle, vs...)
	}
}

// Scan queues light and offset changes since the last scan.
func (g *StaticGeometry) Scan(tick int) {
	for _, s := range g.level.Sectors {
		if !g.lightQueued[s.ID] && s.CheckLightingChanged(g.scanTick) && g.hasSector(s) {
			g.lightQueued[s.ID] = true
			g.pendingLights = append(g.pendingLights, s)
		}
	}
	for _, side := range g.level.Sides {
		if !g.offsetQueued[side.ID] && side.CheckOffsetChanged(g.scanTick) && g.hasSide(side) {
			g.offsetQueued[side.ID] = true
			g.pendingOffsets = append(g.pendingOffsets, side)
		}
	}
	g.scanTick = tick
}

func (g *StaticGeometry) hasSector(s *level.Sector) bool {
	return len(g.sectorSides[s.ID]) > 0 || g.flats[s.ID*2].count > 0 || g.flats[s.ID*2+1].count > 0
}

func (g *StaticGeometry) hasSide(side *level.Side) bool {
	for loc := range 3 {
		if g.walls[side.ID*3+loc].count > 0 {
			return true
		}
	}
	return false
}

// Pending returns the number of queued updates.
func (g *StaticGeometry) Pending() int {
	return len(g.pendingLights) + len(g.pendingOffsets)
}

// FlushPending writes all queued updates and returns how many were applied.
func (g *StaticGeometry) FlushPending() int {
	n := g.Pending()
	for _, s := range g.pendingLights {
		g.lightQueued[s.ID] = false
		for _, side := range g.sectorSides[s.ID] {
			l := lightLevel(s.LightLevel, fakeContrast(side))
			for loc := range 3 {
				rng := g.walls[side.ID*3+loc]
				if rng.count == 0 {
					continue
				}
				setLight(rng.slice(g), l)
			}
		}
		for f := range 2 {
			rng := g.flats[s.ID*2+f]
			if rng.count == 0 {
				continue
			}
			setLight(rng.slice(g), lightLevel(s.Plane(level.Face(f)).LightLevel, 0))
		}
	}
	g.pendingLights = g.pendingLights[:0]

	if len(g.pendingOffsets) > 0 {
		ctx := g.r.newContext(View{})
		ctx.cacheOverride = true
		ctx.emit = false
		for _, side := range g.pendingOffsets {
			g.offsetQueued[side.ID] = false
			g.rebuildSide(&ctx, side)
		}
	}
	g.pendingOffsets = g.pendingOffsets[:0]
	return n
}

func (g *StaticGeometry) rebuildSide(ctx *renderContext, side *level.Side) {
	sc := g.r.sideContext(ctx, side, -1)
	sc.ctx = ctx
	for loc := range 3 {
		rng := g.walls[side.ID*3+loc]
		if rng.count == 0 {
			continue
		}
		var s Surface
		switch {
		case side.Line.OneSided():
			s = g.r.oneSided(sc)
		case level.WallLocation(loc) == level.Lower:
			s = g.r.twoSidedLower(sc)
		case level.WallLocation(loc) == level.Middle:
			s = g.r.twoSidedMiddle(sc, false)
		default:
			surfaces, _ := g.r.twoSidedUpper(sc)
			s = surfaces[0]
		}
		if s.Kind == SurfaceNormal && len(s.Vertices) == rng.count {
			copy(rng.slice(g), s.Vertices)
		}
	}
}

func setLight(vs []batch.Vertex, l float32) {
	for i := range vs {
		vs[i].LightLevel = l
	}
}
