// SPDX-License-Identifier: GPL-2.0-or-later

package level

import (
	"github.com/google/uuid"

	"sectorgl/math/vec"
)

// Edge is a boundary edge of a subsector. Side is nil for mini segments
// created by the node builder.
type Edge struct {
	Start vec.Vec2
	End   vec.Vec2
	Side  *Side
}

func (e Edge) Line() *Line {
	if e.Side == nil {
		return nil
	}
	return e.Side.Line
}

// Subsector is a convex BSP leaf. Edges are in clockwise order.
type Subsector struct {
	ID     int
	Sector *Sector
	Edges  []Edge
	Box    vec.Box
}

// Level is the geometry the renderer draws. All ids are dense and zero based.
type Level struct {
	// ID changes whenever a level is built, so derived state can detect
	// a reload.
	ID               uuid.UUID
	Lines            []*Line
	Sides            []*Side
	Sectors          []*Sector
	Subsectors       []*Subsector
	SkyTextureHandle int
	// SectorSubsectors lists the subsectors of each sector by sector id.
	SectorSubsectors [][]*Subsector
}

// ClearDirtyFlags resets all change flags. The simulation calls it at the end
// of a tick once the change ticks are recorded.
func (l *Level) ClearDirtyFlags() {
	for _, s := range l.Sides {
		s.OffsetChanged = false
	}
	for _, s := range l.Sectors {
		s.LightingChanged = false
		s.Floor.RenderingChanged = false
		s.Ceiling.RenderingChanged = false
	}
}

// MaxLineID returns the highest line id or -1 without lines.
func (l *Level) MaxLineID() int {
	return len(l.Lines) - 1
}

type SectorDef struct {
	Floor          float64
	Ceiling        float64
	FloorTexture   int
	CeilingTexture int
	Light          int
	Tag            int
}

type SideDef struct {
	Sector *Sector
	Offset vec.Vec2
	Lower  int
	Middle int
	Upper  int
}

type Builder struct {
	lvl *Level
}

func NewBuilder() *Builder {
	return &Builder{lvl: &Level{}}
}

func (b *Builder) SetSky(handle int) {
	b.lvl.SkyTextureHandle = handle
}

func (b *Builder) Sector(d SectorDef) *Sector {
	s := &Sector{
		ID:         len(b.lvl.Sectors),
		Tag:        d.Tag,
		LightLevel: d.Light,
	}
	s.Floor = SectorPlane{
		Sector:        s,
		Face:          Floor,
		Z:             d.Floor,
		PrevZ:         d.Floor,
		TextureHandle: d.FloorTexture,
		LightLevel:    d.Light,
	}
	s.Ceiling = SectorPlane{
		Sector:        s,
		Face:          Ceiling,
		Z:             d.Ceiling,
		PrevZ:         d.Ceiling,
		TextureHandle: d.CeilingTexture,
		LightLevel:    d.Light,
	}
	b.lvl.Sectors = append(b.lvl.Sectors, s)
	return s
}

func (b *Builder) side(l *Line, d SideDef) *Side {
	s := &Side{
		ID:     len(b.lvl.Sides),
		Line:   l,
		Sector: d.Sector,
		Offset: d.Offset,
		Walls: [3]Wall{
			{Location: Lower, TextureHandle: d.Lower},
			{Location: Middle, TextureHandle: d.Middle},
			{Location: Upper, TextureHandle: d.Upper},
		},
		LastRenderTick: -1,
	}
	b.lvl.Sides = append(b.lvl.Sides, s)
	return s
}

// Line adds a line from start to end. The front side faces right.
func (b *Builder) Line(start, end vec.Vec2, front SideDef, back *SideDef) *Line {
	l := &Line{
		ID:      len(b.lvl.Lines),
		Segment: vec.Segment{Start: start, End: end},
		Alpha:   1,
	}
	l.Front = b.side(l, front)
	if back != nil {
		l.Back = b.side(l, *back)
	}
	b.lvl.Lines = append(b.lvl.Lines, l)
	return l
}

// Subsector adds a convex leaf.
func (b *Builder) Subsector(sector *Sector, edges ...Edge) *Subsector {
	ss := &Subsector{
		ID:     len(b.lvl.Subsectors),
		Sector: sector,
		Edges:  edges,
		Box:    vec.EmptyBox(),
	}
	for _, e := range edges {
		ss.Box = ss.Box.Add(e.Start).Add(e.End)
	}
	b.lvl.Subsectors = append(b.lvl.Subsectors, ss)
	return ss
}

// SubsectorFromSides is a helper for closed loops of sides, each edge
// taken in the direction that keeps its side on the right.
func (b *Builder) SubsectorFromSides(sector *Sector, sides ...*Side) *Subsector {
	edges := make([]Edge, 0, len(sides))
	for _, s := range sides {
		seg := s.Segment()
		edges = append(edges, Edge{Start: seg.Start, End: seg.End, Side: s})
	}
	return b.Subsector(sector, edges...)
}

func (b *Builder) TransferHeights(parent, control *Sector) {
	parent.TransferHeights = &TransferHeights{
		Parent:        parent,
		ControlSector: control,
	}
}

// Build finishes the level. The builder must not be used afterwards.
func (b *Builder) Build() *Level {
	l := b.lvl
	l.ID = uuid.New()
	for _, s := range l.Sectors {
		s.Lines = s.Lines[:0]
		if s.SkyTextureHandle == 0 {
			s.SkyTextureHandle = l.SkyTextureHandle
		}
	}
	for _, line := range l.Lines {
		fs := line.Front.Sector
		fs.Lines = append(fs.Lines, line)
		if line.Back != nil && line.Back.Sector != fs {
			line.Back.Sector.Lines = append(line.Back.Sector.Lines, line)
		}
	}
	for _, s := range l.Sectors {
		s.Islands = buildIslands(s)
	}
	l.SectorSubsectors = make([][]*Subsector, len(l.Sectors))
	for _, ss := range l.Subsectors {
		l.SectorSubsectors[ss.Sector.ID] = append(l.SectorSubsectors[ss.Sector.ID], ss)
	}
	b.lvl = nil
	return l
}
