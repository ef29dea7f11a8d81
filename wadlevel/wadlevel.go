// SPDX-License-Identifier: GPL-2.0-or-later

// Package wadlevel turns the map lumps of a WAD into a renderable level and
// its BSP tree.
package wadlevel

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"sectorgl/bsp"
	"sectorgl/level"
	"sectorgl/math/vec"
	"sectorgl/texture"
	"sectorgl/wad"
)

// SpecialTransferHeights is the Boom linedef special that lets tagged
// sectors take their heights from the sector in front of the line.
const SpecialTransferHeights = 242

// Result is a converted map.
type Result struct {
	Level    *level.Level
	Tree     *bsp.Tree
	Textures *texture.Table
	// Subsectors are indexed like the SSECTORS lump.
	Subsectors []*level.Subsector
	// Start is the player 1 start or the middle of the first subsector.
	Start vec.Vec2
	// Angle of the start in degrees.
	Angle float64
}

// LoadTextures fills a table with the wall textures and flats of w.
func LoadTextures(w *wad.WAD) (*texture.Table, error) {
	ts, err := w.Textures()
	if err != nil {
		return nil, errors.Wrap(err, "loading textures")
	}
	t := texture.NewTable()
	for _, wt := range ts {
		t.Add(texture.Texture{
			Name:              wt.Name,
			Kind:              texture.KindWall,
			Width:             wt.Width,
			Height:            wt.Height,
			TransparentPixels: wt.TransparentPixels,
			Data:              wt.Data,
			Mask:              wt.Mask,
		})
	}
	for _, name := range w.Flats() {
		data, err := w.Flat(name)
		if err != nil {
			return nil, err
		}
		t.Add(texture.Texture{
			Name:   name,
			Kind:   texture.KindFlat,
			Width:  wad.FlatSize,
			Height: wad.FlatSize,
			Sky:    name == wad.SkyFlatName,
			Data:   data,
		})
	}
	return t, nil
}

// SkyTextureName returns the sky of a map, following the episode and map
// number conventions.
func SkyTextureName(mapName string) string {
	var e, m int
	if _, err := fmt.Sscanf(strings.ToUpper(mapName), "E%dM%d", &e, &m); err == nil {
		return fmt.Sprintf("SKY%d", e)
	}
	if _, err := fmt.Sscanf(strings.ToUpper(mapName), "MAP%d", &m); err == nil {
		switch {
		case m < 12:
			return "SKY1"
		case m < 21:
			return "SKY2"
		}
		return "SKY3"
	}
	return "SKY1"
}

type converter struct {
	src      *wad.Level
	textures *texture.Table
	b        *level.Builder
	sectors  []*level.Sector
	lines    []*level.Line
	missing  map[string]bool
}

// Load reads and converts one map.
func Load(w *wad.WAD, name string, textures *texture.Table) (*Result, error) {
	src, err := w.ReadLevel(name)
	if err != nil {
		return nil, err
	}
	return Convert(src, textures)
}

// Convert builds the level. Unknown texture names are logged and left
// empty.
func Convert(src *wad.Level, textures *texture.Table) (*Result, error) {
	c := &converter{
		src:      src,
		textures: textures,
		b:        level.NewBuilder(),
		missing:  make(map[string]bool),
	}
	if sky, ok := textures.Lookup(texture.KindWall, SkyTextureName(src.Name)); ok {
		c.b.SetSky(sky)
	} else {
		slog.Warn("no sky texture", "level", src.Name, "name", SkyTextureName(src.Name))
	}

	for _, s := range src.Sectors {
		c.sectors = append(c.sectors, c.b.Sector(level.SectorDef{
			Floor:          s.Floor,
			Ceiling:        s.Ceiling,
			FloorTexture:   c.lookup(texture.KindFlat, s.FloorFlat),
			CeilingTexture: c.lookup(texture.KindFlat, s.CeilingFlat),
			Light:          s.Light,
			Tag:            s.Tag,
		}))
	}
	for i, l := range src.Lines {
		front := c.sideDef(src.Sides[l.Right])
		var back *level.SideDef
		if l.Left != wad.NoSide {
			d := c.sideDef(src.Sides[l.Left])
			back = &d
		}
		start, end := src.Vertexes[l.Start], src.Vertexes[l.End]
		line := c.b.Line(vec.Vec2{X: start.X, Y: start.Y}, vec.Vec2{X: end.X, Y: end.Y}, front, back)
		line.Special = l.Special
		line.Tag = l.Tag
		line.Flags = level.LineFlags{
			UpperUnpegged: l.Flags&wad.LineUpperUnpegged != 0,
			LowerUnpegged: l.Flags&wad.LineLowerUnpegged != 0,
		}
		if back == nil && l.Flags&wad.LineTwoSided != 0 {
			slog.Warn("two sided flag without a back side", "line", i)
		}
		c.lines = append(c.lines, line)
	}
	c.transferHeights()

	subsectors, err := c.subsectors()
	if err != nil {
		return nil, errors.Wrapf(err, "level %s", src.Name)
	}
	tree, err := c.tree(subsectors)
	if err != nil {
		return nil, errors.Wrapf(err, "level %s", src.Name)
	}
	r := &Result{
		Level:      c.b.Build(),
		Tree:       tree,
		Textures:   textures,
		Subsectors: subsectors,
	}
	if t, ok := src.PlayerStart(); ok {
		r.Start = vec.Vec2{X: t.X, Y: t.Y}
		r.Angle = float64(t.Angle)
	} else {
		slog.Warn("no player start", "level", src.Name)
		r.Start = centroid(subsectors[0])
	}
	return r, nil
}

func centroid(ss *level.Subsector) vec.Vec2 {
	var c vec.Vec2
	for _, e := range ss.Edges {
		c = vec.Add2(c, e.Start)
	}
	if n := len(ss.Edges); n > 0 {
		c = c.Scale(1 / float64(n))
	}
	return c
}

func (c *converter) lookup(k texture.Kind, name string) int {
	if name == "" || name == "-" {
		return texture.NoTexture
	}
	h, ok := c.textures.Lookup(k, name)
	if !ok && !c.missing[name] {
		c.missing[name] = true
		slog.Warn("unknown texture", "name", name, "level", c.src.Name)
	}
	return h
}

func (c *converter) sideDef(s wad.Side) level.SideDef {
	return level.SideDef{
		Sector: c.sectors[s.Sector],
		Offset: vec.Vec2{X: s.XOffset, Y: s.YOffset},
		Upper:  c.lookup(texture.KindWall, s.Upper),
		Middle: c.lookup(texture.KindWall, s.Middle),
		Lower:  c.lookup(texture.KindWall, s.Lower),
	}
}

func (c *converter) transferHeights() {
	for _, line := range c.lines {
		if line.Special != SpecialTransferHeights {
			continue
		}
		if line.Tag == 0 {
			slog.Warn("transfer heights without a tag", "line", line.ID)
			continue
		}
		for _, s := range c.sectors {
			if s.Tag == line.Tag {
				c.b.TransferHeights(s, line.Front.Sector)
			}
		}
	}
}
