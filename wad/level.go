// SPDX-License-Identifier: GPL-2.0-or-later

package wad

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// NoSide marks a missing side of a linedef.
const NoSide = -1

// Linedef flags.
const (
	LineBlocking      = 0x0001
	LineTwoSided      = 0x0004
	LineUpperUnpegged = 0x0008
	LineLowerUnpegged = 0x0010
)

// ThingPlayer1 is the thing type of the first player start.
const ThingPlayer1 = 1

// childLeaf marks a node child that is a subsector.
const childLeaf = 0x8000

type binThing struct {
	X, Y  int16
	Angle int16
	Type  int16
	Flags int16
}

type binVertex struct {
	X, Y int16
}

type binLine struct {
	Start, End  uint16
	Flags       uint16
	Special     int16
	Tag         int16
	Right, Left uint16
}

type binSide struct {
	XOffset, YOffset     int16
	Upper, Lower, Middle name8
	Sector               int16
}

type binSector struct {
	Floor, Ceiling         int16
	FloorFlat, CeilingFlat name8
	Light, Special, Tag    int16
}

type binSeg struct {
	Start, End uint16
	Angle      int16
	Line       uint16
	Direction  int16
	Offset     int16
}

type binSubsector struct {
	Count, First uint16
}

type binNode struct {
	X, Y, DX, DY int16
	// top, bottom, left, right of the right and the left child
	Boxes    [2][4]int16
	Children [2]uint16
}

// Thing is a map object. Only player starts matter to the renderer.
type Thing struct {
	X, Y  float64
	Angle int
	Type  int
	Flags int
}

type Vertex struct {
	X, Y float64
}

type Line struct {
	Start, End int
	Flags      int
	Special    int
	Tag        int
	// Right and Left are sidedef numbers or NoSide.
	Right, Left int
}

func (l *Line) TwoSided() bool {
	return l.Left != NoSide
}

type Side struct {
	XOffset, YOffset     float64
	Upper, Lower, Middle string
	Sector               int
}

type Sector struct {
	Floor, Ceiling         float64
	FloorFlat, CeilingFlat string
	Light                  int
	Special                int
	Tag                    int
}

type Seg struct {
	Start, End int
	Line       int
	// Back is set when the seg runs along the left side of its line.
	Back   bool
	Offset float64
}

type Subsector struct {
	First, Count int
}

type Box struct {
	Top, Bottom, Left, Right float64
}

type Node struct {
	X, Y, DX, DY float64
	// Index 0 is the right child, 1 the left child.
	Boxes    [2]Box
	Children [2]int
	Leaf     [2]bool
}

type Level struct {
	Name       string
	Things     []Thing
	Vertexes   []Vertex
	Lines      []Line
	Sides      []Side
	Sectors    []Sector
	Segs       []Seg
	Subsectors []Subsector
	Nodes      []Node
}

// PlayerStart returns the first player 1 start.
func (l *Level) PlayerStart() (Thing, bool) {
	for _, t := range l.Things {
		if t.Type == ThingPlayer1 {
			return t, true
		}
	}
	return Thing{}, false
}

var levelLumps = map[string]bool{
	"THINGS": true, "LINEDEFS": true, "SIDEDEFS": true, "VERTEXES": true, "SEGS": true,
	"SSECTORS": true, "NODES": true, "SECTORS": true, "REJECT": true, "BLOCKMAP": true,
	"BEHAVIOR": true,
}

func readSlice[T any](lump []byte) ([]T, error) {
	var zero T
	size := binary.Size(zero)
	if len(lump)%size != 0 {
		return nil, errors.Errorf("lump size %d is not a multiple of %d", len(lump), size)
	}
	out := make([]T, len(lump)/size)
	if err := binary.Read(bytes.NewReader(lump), binary.LittleEndian, out); err != nil {
		return nil, err
	}
	return out, nil
}

func side(n uint16) int {
	if n == 0xffff {
		return NoSide
	}
	return int(n)
}

// ReadLevel reads the map lumps following the marker lump called name.
func (w *WAD) ReadLevel(name string) (*Level, error) {
	marker, ok := w.LumpNum(name)
	if !ok {
		return nil, errors.Errorf("level %s not found", name)
	}
	logger.Printf("Reading level %s", name)
	lumps := make(map[string][]byte)
	for i := marker + 1; i < len(w.lumps) && levelLumps[w.lumps[i].Name]; i++ {
		lumps[w.lumps[i].Name] = w.LumpData(i)
	}
	for _, need := range []string{"VERTEXES", "LINEDEFS", "SIDEDEFS", "SECTORS", "SEGS", "SSECTORS", "NODES"} {
		if _, ok := lumps[need]; !ok {
			return nil, errors.Errorf("level %s has no %s", name, need)
		}
	}

	l := &Level{Name: name}
	things, err := readSlice[binThing](lumps["THINGS"])
	if err != nil {
		return nil, errors.Wrapf(err, "reading lump %s", "THINGS")
	}
	for _, b := range things {
		l.Things = append(l.Things, Thing{
			X:     float64(b.X),
			Y:     float64(b.Y),
			Angle: int(b.Angle),
			Type:  int(b.Type),
			Flags: int(b.Flags),
		})
	}
	vs, err := readSlice[binVertex](lumps["VERTEXES"])
	if err != nil {
		return nil, errors.Wrapf(err, "reading lump %s", "VERTEXES")
	}
	for _, v := range vs {
		l.Vertexes = append(l.Vertexes, Vertex{X: float64(v.X), Y: float64(v.Y)})
	}

	lines, err := readSlice[binLine](lumps["LINEDEFS"])
	if err != nil {
		return nil, errors.Wrapf(err, "reading lump %s", "LINEDEFS")
	}
	for _, b := range lines {
		l.Lines = append(l.Lines, Line{
			Start:   int(b.Start),
			End:     int(b.End),
			Flags:   int(b.Flags),
			Special: int(b.Special),
			Tag:     int(b.Tag),
			Right:   side(b.Right),
			Left:    side(b.Left),
		})
	}

	sides, err := readSlice[binSide](lumps["SIDEDEFS"])
	if err != nil {
		return nil, errors.Wrapf(err, "reading lump %s", "SIDEDEFS")
	}
	for _, b := range sides {
		l.Sides = append(l.Sides, Side{
			XOffset: float64(b.XOffset),
			YOffset: float64(b.YOffset),
			Upper:   b.Upper.String(),
			Lower:   b.Lower.String(),
			Middle:  b.Middle.String(),
			Sector:  int(b.Sector),
		})
	}

	sectors, err := readSlice[binSector](lumps["SECTORS"])
	if err != nil {
		return nil, errors.Wrapf(err, "reading lump %s", "SECTORS")
	}
	for _, b := range sectors {
		l.Sectors = append(l.Sectors, Sector{
			Floor:       float64(b.Floor),
			Ceiling:     float64(b.Ceiling),
			FloorFlat:   b.FloorFlat.String(),
			CeilingFlat: b.CeilingFlat.String(),
			Light:       int(b.Light),
			Special:     int(b.Special),
			Tag:         int(b.Tag),
		})
	}

	segs, err := readSlice[binSeg](lumps["SEGS"])
	if err != nil {
		return nil, errors.Wrapf(err, "reading lump %s", "SEGS")
	}
	for _, b := range segs {
		l.Segs = append(l.Segs, Seg{
			Start:  int(b.Start),
			End:    int(b.End),
			Line:   int(b.Line),
			Back:   b.Direction != 0,
			Offset: float64(b.Offset),
		})
	}

	subsectors, err := readSlice[binSubsector](lumps["SSECTORS"])
	if err != nil {
		return nil, errors.Wrapf(err, "reading lump %s", "SSECTORS")
	}
	for _, b := range subsectors {
		l.Subsectors = append(l.Subsectors, Subsector{First: int(b.First), Count: int(b.Count)})
	}

	nodes, err := readSlice[binNode](lumps["NODES"])
	if err != nil {
		return nil, errors.Wrapf(err, "reading lump %s", "NODES")
	}
	for _, b := range nodes {
		n := Node{X: float64(b.X), Y: float64(b.Y), DX: float64(b.DX), DY: float64(b.DY)}
		for i := range 2 {
			bb := b.Boxes[i]
			n.Boxes[i] = Box{Top: float64(bb[0]), Bottom: float64(bb[1]), Left: float64(bb[2]), Right: float64(bb[3])}
			n.Leaf[i] = b.Children[i]&childLeaf != 0
			n.Children[i] = int(b.Children[i] &^ childLeaf)
		}
		l.Nodes = append(l.Nodes, n)
	}

	if err := l.validate(); err != nil {
		return nil, errors.Wrapf(err, "level %s", name)
	}
	logger.Printf("Level %s: %d lines, %d sectors, %d subsectors", name, len(l.Lines), len(l.Sectors), len(l.Subsectors))
	return l, nil
}

func (l *Level) validate() error {
	for i, line := range l.Lines {
		if line.Start >= len(l.Vertexes) || line.End >= len(l.Vertexes) {
			return errors.Errorf("linedef %d references a missing vertex", i)
		}
		if line.Right == NoSide || line.Right >= len(l.Sides) || line.Left >= len(l.Sides) {
			return errors.Errorf("linedef %d references a missing sidedef", i)
		}
	}
	for i, s := range l.Sides {
		if s.Sector < 0 || s.Sector >= len(l.Sectors) {
			return errors.Errorf("sidedef %d references missing sector %d", i, s.Sector)
		}
	}
	for i, s := range l.Segs {
		if s.Start >= len(l.Vertexes) || s.End >= len(l.Vertexes) || s.Line >= len(l.Lines) {
			return errors.Errorf("seg %d is out of range", i)
		}
	}
	for i, ss := range l.Subsectors {
		if ss.Count == 0 || ss.First+ss.Count > len(l.Segs) {
			return errors.Errorf("subsector %d has bad segs %d+%d", i, ss.First, ss.Count)
		}
	}
	for i, n := range l.Nodes {
		for c := range 2 {
			if n.Leaf[c] && n.Children[c] >= len(l.Subsectors) || !n.Leaf[c] && n.Children[c] >= len(l.Nodes) {
				return errors.Errorf("node %d has a bad child %d", i, n.Children[c])
			}
		}
	}
	return nil
}
