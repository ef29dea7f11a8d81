// SPDX-License-Identifier: GPL-2.0-or-later

// Package geometry decides which walls and flats of a level are visible,
// triangulates them and fills the render batches. Generated vertices are
// cached per side and sector and only rebuilt when the level reports a
// change.
package geometry

import (
	"fmt"

	"sectorgl/batch"
	"sectorgl/cvars"
	"sectorgl/level"
	"sectorgl/math/vec"
	"sectorgl/texture"
	"sectorgl/triangulate"
)

// LineClipper receives lines that block the view.
type LineClipper interface {
	AddLine(start, end vec.Vec2)
}

type Options struct {
	// Static builds a static geometry cache for walls and flats that can
	// never move.
	Static bool
	// Prewarm fills the wall caches at level load.
	Prewarm bool
}

type Renderer struct {
	textures texture.Manager
	batches  *batch.Set
	clipper  LineClipper
	opts     Options

	level   *level.Level
	tracker LineDrawnTracker
	caches  wallCaches
	static  *StaticGeometry

	tick         int
	tickFraction float64

	// pass stamps dedup sides and sector flats within one pass.
	pass         int
	sideStamp    []int
	flatStamp    []int
	alphaSides   []alphaSide
	scratch      [WallVertexCount]batch.Vertex
	skyScratch   [WallVertexCount]batch.SkyVertex
	skySideBuf   [WallVertexCount]batch.SkyVertex
	floodScratch [WallVertexCount]batch.Vertex
	corners      []triangulate.Corner
	fan          []triangulate.Corner
}

func NewRenderer(textures texture.Manager, batches *batch.Set, clipper LineClipper, opts Options) *Renderer {
	return &Renderer{
		textures: textures,
		batches:  batches,
		clipper:  clipper,
		opts:     opts,
	}
}

// UpdateTo resets all caches for a new level. Storage is reused when it is
// large enough.
func (r *Renderer) UpdateTo(l *level.Level) {
	r.level = l
	r.tracker.UpdateToLevel(l)
	r.caches.reset(l)
	r.sideStamp = resetStamps(r.sideStamp, len(l.Sides))
	r.flatStamp = resetStamps(r.flatStamp, len(l.Sectors))
	r.pass = 0
	r.tick = 0
	r.tickFraction = 1
	r.alphaSides = r.alphaSides[:0]

	if cvars.RendererMidTextureHack.Bool() {
		r.applyMidTextureHack(l)
	}
	r.static = nil
	if r.opts.Static {
		r.static = newStaticGeometry(r)
		r.static.build(l)
	}
	if r.opts.Prewarm {
		r.prewarm(l)
	}
}

func resetStamps(s []int, n int) []int {
	if cap(s) >= n {
		s = s[:n]
	} else {
		s = make([]int, n)
	}
	for i := range s {
		s[i] = -1
	}
	return s
}

// prewarm fills the caches of sectors that do not depend on the viewer.
func (r *Renderer) prewarm(l *level.Level) {
	ctx := r.newContext(View{})
	ctx.emit = false
	for _, s := range l.Sides {
		if s.Sector.TransferHeights != nil {
			continue
		}
		if p := s.Partner(); p != nil && p.Sector.TransferHeights != nil {
			continue
		}
		r.renderSide(&ctx, s)
	}
}

func (r *Renderer) Level() *level.Level {
	return r.level
}

func (r *Renderer) Static() *StaticGeometry {
	return r.static
}

// RenderStatic adds the static geometry cache to the batches.
func (r *Renderer) RenderStatic() {
	if r.static != nil {
		r.static.Emit(r.batches)
	}
}

// FlushPending writes buffered static light and offset updates. It returns
// the number of updates written.
func (r *Renderer) FlushPending() int {
	if r.static == nil {
		return 0
	}
	return r.static.FlushPending()
}

func (r *Renderer) Stats() Stats {
	return r.caches.stats()
}

// Clear starts a new pass. tick is the simulation tick the level state
// belongs to, tickFraction the interpolation between the previous and the
// current tick.
func (r *Renderer) Clear(tickFraction float64, tick int) {
	if r.level == nil {
		panic("geometry: render pass before UpdateTo")
	}
	r.tracker.Validate(r.level)
	r.tracker.ClearDrawnLines()
	r.tick = tick
	r.tickFraction = tickFraction
	r.pass++
	r.alphaSides = r.alphaSides[:0]
}

// HasDrawn reports whether a line was emitted in the current pass.
func (r *Renderer) HasDrawn(l *level.Line) bool {
	return r.tracker.HasDrawn(l)
}

// RenderSubsector emits the walls of one BSP leaf and the flats of its
// sector.
func (r *Renderer) RenderSubsector(v View, ss *level.Subsector) {
	ctx := r.newContext(v)
	for _, e := range ss.Edges {
		if e.Side == nil {
			continue
		}
		line := e.Side.Line
		if r.tracker.HasDrawn(line) {
			if !line.Sky {
				r.addLineClip(line)
			}
			continue
		}

		onFront := line.Segment.OnRight(v.Pos)
		if line.OneSided() && !onFront {
			continue
		}
		side := line.Side(onFront)
		if side.Walls[level.Middle].TextureHandle != texture.NoTexture && line.TwoSided() &&
			r.isAlpha(line) && !side.Walls[level.Middle].Static {
			r.addAlphaSide(v, side)
		}

		skyOverride := r.renderSide(&ctx, side)
		r.tracker.MarkDrawn(line)
		line.Sky = skyOverride
		line.Seen = true
		if !skyOverride {
			r.addLineClip(line)
		}
	}
	r.renderSectorFlats(&ctx, ss.Sector)
}

func (r *Renderer) addLineClip(l *level.Line) {
	if r.clipper == nil {
		return
	}
	if l.OneSided() || l.IsRenderingBlocked() {
		r.clipper.AddLine(l.Segment.Start, l.Segment.End)
	}
}

// RenderSector emits every wall and flat of a sector in one go. Sides seen
// from both positions of an interpolated move are rendered on both faces.
func (r *Renderer) RenderSector(v View, s *level.Sector) {
	ctx := r.newContext(v)
	for _, line := range s.Lines {
		onFront := line.Segment.OnRight(v.Pos)
		onBoth := onFront != line.Segment.OnRight(v.PrevPos)
		if onFront || onBoth {
			r.renderSectorSide(&ctx, v, line.Front)
		}
		if line.Back != nil && (!onFront || onBoth) {
			r.renderSectorSide(&ctx, v, line.Back)
		}
	}
	r.renderSectorFlats(&ctx, s)
}

func (r *Renderer) renderSectorSide(ctx *renderContext, v View, side *level.Side) {
	if r.sideStamp[side.ID] == r.pass {
		return
	}
	r.sideStamp[side.ID] = r.pass
	line := side.Line
	if line.TwoSided() && r.isAlpha(line) &&
		side.Walls[level.Middle].TextureHandle != texture.NoTexture && !side.Walls[level.Middle].Static {
		r.addAlphaSide(v, side)
	}
	line.Sky = r.renderSide(ctx, side)
	line.Seen = true
}

func (r *Renderer) isAlpha(l *level.Line) bool {
	return cvars.RendererTextureTransparency.Bool() && l.Alpha < 1
}

func (r *Renderer) maxSky() float64 {
	return float64(cvars.RendererMaxSky.Value())
}

// RenderSide renders the walls of a single side outside of a pass walk. It
// returns whether the line lets sky through.
func (r *Renderer) RenderSide(v View, side *level.Side) bool {
	ctx := r.newContext(v)
	return r.renderSide(&ctx, side)
}

// renderSide classifies and emits the walls of a side and reports whether
// the neighbour has to show uncapped sky.
func (r *Renderer) renderSide(ctx *renderContext, side *level.Side) bool {
	sc := r.sideContext(ctx, side, side.LastRenderTick)
	// The stamp belongs to the persistent slots; scratch renders keep it.
	if !sc.ctx.cacheOverride {
		defer func() { side.LastRenderTick = ctx.tick }()
	}

	if side.MidTextureFlood != 0 {
		r.renderFlood(sc)
	}
	if side.Line.OneSided() {
		r.emit(ctx, r.skySide(sc, false))
		if !side.Walls[level.Middle].Static {
			r.emit(ctx, r.oneSided(sc))
		}
		return false
	}

	skyOverride := false
	if lower := &side.Walls[level.Lower]; !lower.Static && lowerIsVisible(sc) {
		r.emit(ctx, r.twoSidedLower(sc))
	}
	if middle := &side.Walls[level.Middle]; !middle.Static &&
		middle.TextureHandle != texture.NoTexture && !r.isAlpha(side.Line) {
		r.emit(ctx, r.twoSidedMiddle(sc, false))
	}
	if upper := &side.Walls[level.Upper]; !upper.Static && r.upperOrSkySideIsVisible(sc) {
		var surfaces [2]Surface
		surfaces, skyOverride = r.twoSidedUpper(sc)
		for _, s := range surfaces {
			r.emit(ctx, s)
		}
	}
	return skyOverride
}

// sideContext resolves the sectors of a side. since is the tick the side
// was last rendered at.
func (r *Renderer) sideContext(ctx *renderContext, side *level.Side, since int) *sideContext {
	sc := &sideContext{
		ctx:          ctx,
		side:         side,
		changed:      side.CheckOffsetChanged(since) || sectorChanged(side.Sector, since),
		lightChanged: lightingChanged(side.Sector, since),
		lightAdd:     fakeContrast(side),
	}
	override := side.Sector.TransferHeights != nil
	sc.facing = side.Sector.RenderSector(ctx.transfer)
	if p := side.Partner(); p != nil {
		sc.other = p.Sector.RenderSector(ctx.transfer)
		sc.changed = sc.changed || sectorChanged(p.Sector, since)
		override = override || p.Sector.TransferHeights != nil
	}
	scOverride := ctx.cacheOverride && override
	if scOverride != ctx.cacheOverride {
		local := *ctx
		local.cacheOverride = scOverride
		sc.ctx = &local
	}
	return sc
}

func fakeContrast(side *level.Side) int {
	if !cvars.RendererFakeContrast.Bool() {
		return 0
	}
	seg := side.Line.Segment
	if seg.Start.Y == seg.End.Y {
		return -16
	}
	if seg.Start.X == seg.End.X {
		return 16
	}
	return 0
}

func lightLevel(base, add int) float32 {
	l := base + add
	if l < 0 {
		l = 0
	}
	if l > 255 {
		l = 255
	}
	return float32(l)
}

// wallSlot returns the storage for a wall and whether it needs new
// geometry. A slot that is kept gets its light patched if needed.
func (r *Renderer) wallSlot(sc *sideContext, a *arena[batch.Vertex]) ([]batch.Vertex, bool) {
	if sc.ctx.cacheOverride {
		return r.scratch[:], true
	}
	id := sc.side.ID
	if !a.has(id) {
		return a.allocate(id), true
	}
	data := a.slot(id)
	if sc.changed {
		return data, true
	}
	if sc.lightChanged {
		l := lightLevel(sc.facing.LightLevel, sc.lightAdd)
		for i := range data {
			data[i].LightLevel = l
		}
	}
	return data, false
}

func setWallVertices(dst []batch.Vertex, w triangulate.Wall, light float32, alpha float32) {
	corner := func(c triangulate.Corner) batch.Vertex {
		return batch.Vertex{
			X: c.X, Y: c.Y, Z: c.Z, PrevZ: c.PrevZ,
			U: c.U, V: c.V,
			LightLevel: light,
			Alpha:      alpha,
		}
	}
	dst[0] = corner(w.TopLeft)
	dst[1] = corner(w.BottomLeft)
	dst[2] = corner(w.TopRight)
	dst[3] = corner(w.TopRight)
	dst[4] = corner(w.BottomLeft)
	dst[5] = corner(w.BottomRight)
}

func setSkyWallVertices(dst []batch.SkyVertex, w triangulate.Wall) {
	corner := func(c triangulate.Corner) batch.SkyVertex {
		return batch.SkyVertex{X: c.X, Y: c.Y, Z: c.Z, PrevZ: c.PrevZ}
	}
	dst[0] = corner(w.TopLeft)
	dst[1] = corner(w.BottomLeft)
	dst[2] = corner(w.TopRight)
	dst[3] = corner(w.TopRight)
	dst[4] = corner(w.BottomLeft)
	dst[5] = corner(w.BottomRight)
}

// skyWallSlot is wallSlot for sky walls, which carry no light.
func (r *Renderer) skyWallSlot(sc *sideContext, a *arena[batch.SkyVertex]) ([]batch.SkyVertex, bool) {
	if sc.ctx.cacheOverride {
		return r.skyScratch[:], true
	}
	id := sc.side.ID
	if !a.has(id) {
		return a.allocate(id), true
	}
	return a.slot(id), sc.changed
}

func (r *Renderer) oneSided(sc *sideContext) Surface {
	side := sc.side
	handle := side.Walls[level.Middle].TextureHandle
	if handle == texture.NoTexture {
		return noSurface
	}
	tex := r.textures.Texture(handle)
	data, regen := r.wallSlot(sc, &r.caches.walls[level.Middle])
	if regen {
		uInv, vInv := tex.UVInverse()
		w := triangulate.OneSided(side,
			triangulate.PlaneHeight(sc.facing.Floor),
			triangulate.PlaneHeight(sc.facing.Ceiling),
			uInv, vInv)
		setWallVertices(data, w, lightLevel(sc.facing.LightLevel, sc.lightAdd), 1)
	}
	return normalSurface(handle, data)
}

func lowerIsVisible(sc *sideContext) bool {
	return sc.facing.Floor.Z < sc.other.Floor.Z || sc.facing.Floor.PrevZ < sc.other.Floor.PrevZ
}

func (r *Renderer) twoSidedLower(sc *sideContext) Surface {
	side := sc.side
	partner := side.Partner()
	handle := side.Walls[level.Lower].TextureHandle
	isSky := r.textures.IsSky(partner.Sector.Floor.TextureHandle) && handle == texture.NoTexture
	if handle == texture.NoTexture && !isSky {
		return noSurface
	}

	top := sc.other.Floor
	bottom := sc.facing.Floor
	if isSky {
		data, regen := r.skyWallSlot(sc, &r.caches.skyLower)
		if regen {
			w := triangulate.Sky(side, triangulate.PlaneHeight(bottom), triangulate.PlaneHeight(top))
			setSkyWallVertices(data, w)
		}
		return skySurface(partner.Sector.SkyTextureHandle, data)
	}

	data, regen := r.wallSlot(sc, &r.caches.walls[level.Lower])
	if regen {
		// A lower reaching into the upper stops at the other ceiling.
		if top.Z > sc.other.Ceiling.Z && !r.textures.IsSky(sc.other.Ceiling.TextureHandle) {
			top = sc.other.Ceiling
		}
		uInv, vInv := r.textures.Texture(handle).UVInverse()
		w := triangulate.TwoSidedLower(side, triangulate.PlaneHeight(bottom), triangulate.PlaneHeight(top),
			sc.facing.Ceiling.Z, uInv, vInv)
		setWallVertices(data, w, lightLevel(sc.facing.LightLevel, sc.lightAdd), 1)
	}
	return normalSurface(handle, data)
}

// transferHeightOffset moves middle textures next to transfer heights
// sectors so they stay aligned to the physical opening.
func transferHeightOffset(side *level.Side, opening level.Opening) float64 {
	partner := side.Partner()
	if side.Sector.TransferHeights == nil && partner.Sector.TransferHeights == nil {
		return 0
	}
	orig := level.NewOpening(side.Sector, partner.Sector)
	if side.Line.Flags.LowerUnpegged {
		return orig.FloorZ - opening.FloorZ
	}
	return orig.CeilingZ - opening.CeilingZ
}

func (r *Renderer) twoSidedMiddle(sc *sideContext, alpha bool) Surface {
	side := sc.side
	handle := side.Walls[level.Middle].TextureHandle
	if handle == texture.NoTexture {
		return noSurface
	}
	tex := r.textures.Texture(handle)
	a := float32(1)
	if alpha {
		a = float32(side.Line.Alpha)
	}

	data, regen := r.wallSlot(sc, &r.caches.walls[level.Middle])
	if regen {
		opening := level.ViewOpening(sc.facing, sc.other)
		offset := transferHeightOffset(side, opening)
		uInv, vInv := tex.UVInverse()
		w, visible := triangulate.TwoSidedMiddle(side, opening, tex.Height, uInv, vInv, offset)
		if !visible {
			// An empty quad keeps the slot valid and is never drawn.
			w = triangulate.Wall{}
		}
		setWallVertices(data, w, lightLevel(sc.facing.LightLevel, sc.lightAdd), a)
	} else if data[0].Alpha != a {
		for i := range data {
			data[i].Alpha = a
		}
	}
	if emptyQuad(data) {
		return noSurface
	}
	s := normalSurface(handle, data)
	s.Alpha = alpha && a < 1
	return s
}

func (r *Renderer) upperOrSkySideIsVisible(sc *sideContext) bool {
	facingZ, otherZ := sc.facing.Ceiling.Z, sc.other.Ceiling.Z
	prevFacingZ, prevOtherZ := sc.facing.Ceiling.PrevZ, sc.other.Ceiling.PrevZ
	facingSky := r.textures.IsSky(sc.facing.Ceiling.TextureHandle)
	otherSky := r.textures.IsSky(sc.other.Ceiling.TextureHandle)

	if facingSky && otherSky {
		// Only a closed line draws sky, open ones show the sky flats.
		return sc.side.Line.IsRenderingBlocked() && facingZ != otherZ
	}
	if facingSky {
		if sc.side.Walls[level.Upper].TextureHandle == texture.NoTexture {
			return facingZ <= otherZ || prevFacingZ <= prevOtherZ
		}
		return true
	}
	return facingZ > otherZ || prevFacingZ > prevOtherZ
}

// twoSidedUpper returns the upper wall and sky side surfaces and whether the
// line lets sky through.
func (r *Renderer) twoSidedUpper(sc *sideContext) ([2]Surface, bool) {
	var out [2]Surface
	side := sc.side
	partner := side.Partner()
	handle := side.Walls[level.Upper].TextureHandle
	facingSky := r.textures.IsSky(sc.facing.Ceiling.TextureHandle)
	otherSky := r.textures.IsSky(sc.other.Ceiling.TextureHandle)

	if !facingSky && handle == texture.NoTexture {
		if otherSky {
			out[0] = suppressed
			return out, true
		}
		return out, false
	}

	out[1] = r.skySide(sc, true)

	if facingSky && otherSky {
		if r.textures.IsSky(partner.Sector.Ceiling.TextureHandle) {
			out[0] = suppressed
			return out, true
		}
		data, regen := r.skyWallSlot(sc, &r.caches.skyUpper)
		if regen {
			w := triangulate.Sky(side, triangulate.PlaneHeight(sc.other.Ceiling), triangulate.Fixed(r.maxSky()))
			setSkyWallVertices(data, w)
		}
		out[0] = skySurface(partner.Sector.SkyTextureHandle, data)
		return out, false
	}

	upperVisible := sc.facing.Ceiling.Z > sc.other.Ceiling.Z || sc.facing.Ceiling.PrevZ > sc.other.Ceiling.PrevZ
	if handle == texture.NoTexture && out[1].Kind == SurfaceSky || !upperVisible {
		return out, false
	}

	data, regen := r.wallSlot(sc, &r.caches.walls[level.Upper])
	if regen {
		uInv, vInv := r.textures.Texture(handle).UVInverse()
		w := triangulate.TwoSidedUpper(side,
			triangulate.PlaneHeight(sc.other.Ceiling),
			triangulate.PlaneHeight(sc.facing.Ceiling),
			uInv, vInv)
		setWallVertices(data, w, lightLevel(sc.facing.LightLevel, sc.lightAdd), 1)
	}
	out[0] = normalSurface(handle, data)
	return out, false
}

// skySide projects the sky above a sky ceiling. Closed lines without an
// upper texture start at the partner floor.
func (r *Renderer) skySide(sc *sideContext, twoSided bool) Surface {
	facingSky := r.textures.IsSky(sc.facing.Ceiling.TextureHandle)
	if !twoSided {
		if !facingSky {
			return noSurface
		}
	} else if !facingSky && !r.textures.IsSky(sc.other.Ceiling.TextureHandle) {
		return noSurface
	}

	side := sc.side
	bottom := triangulate.PlaneHeight(sc.facing.Ceiling)
	if twoSided && side.Line.IsRenderingBlocked() && r.skyFromFloor(sc) {
		bottom = triangulate.Fixed(side.Partner().Sector.Floor.Z)
	}
	w := triangulate.Sky(side, bottom, triangulate.Fixed(r.maxSky()))
	setSkyWallVertices(r.skySideBuf[:], w)
	return skySurface(side.Sector.SkyTextureHandle, r.skySideBuf[:])
}

func emptyQuad(data []batch.Vertex) bool {
	return data[0] == data[5]
}

func (r *Renderer) skyFromFloor(sc *sideContext) bool {
	if sc.side.Walls[level.Upper].TextureHandle == texture.NoTexture {
		return true
	}
	return r.textures.IsSky(sc.facing.Ceiling.TextureHandle) && r.textures.IsSky(sc.other.Ceiling.TextureHandle)
}

// renderFlood draws the walls that fill planes hidden by the mid texture
// hack.
func (r *Renderer) renderFlood(sc *sideContext) {
	if !sc.ctx.emit {
		return
	}
	side := sc.side
	for _, f := range []level.Face{level.Floor, level.Ceiling} {
		if f == level.Floor && side.MidTextureFlood&level.FloodFloor == 0 {
			continue
		}
		if f == level.Ceiling && side.MidTextureFlood&level.FloodCeiling == 0 {
			continue
		}
		plane := sc.facing.Plane(f)
		if plane.TextureHandle == texture.NoTexture {
			continue
		}
		var w triangulate.Wall
		if f == level.Floor {
			w = triangulate.Sky(side, triangulate.Fixed(plane.Z-r.maxSky()), triangulate.PlaneHeight(plane))
		} else {
			w = triangulate.Sky(side, triangulate.PlaneHeight(plane), triangulate.Fixed(plane.Z+r.maxSky()))
		}
		tex := r.textures.Texture(plane.TextureHandle)
		setWallVertices(r.floodScratch[:], w, lightLevel(plane.LightLevel, 0), 1)
		for i := range r.floodScratch {
			v := &r.floodScratch[i]
			v.U = v.X / float32(tex.Width)
			v.V = -v.Y / float32(tex.Height)
			// The flood shader projects the plane at this height.
			v.PrevZ = float32(plane.Z)
		}
		r.batches.Flood.Add(plane.TextureHandle, r.floodScratch[:]...)
	}
}

func (r *Renderer) String() string {
	if r.level == nil {
		return "geometry.Renderer{}"
	}
	return fmt.Sprintf("geometry.Renderer{sides: %d, sectors: %d, pass: %d}",
		len(r.level.Sides), len(r.level.Sectors), r.pass)
}
