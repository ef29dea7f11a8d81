// SPDX-License-Identifier: GPL-2.0-or-later

package wad

import (
	"bytes"
	"encoding/binary"
)

// Writer assembles a PWAD in memory.
type Writer struct {
	data bytes.Buffer
	dir  []dirEntry
}

func NewWriter() *Writer {
	w := &Writer{}
	// header is written by Bytes
	w.data.Write(make([]byte, binary.Size(header{})))
	return w
}

func (w *Writer) AddLump(name string, data []byte) {
	w.dir = append(w.dir, dirEntry{Offset: int32(w.data.Len()), Size: int32(len(data)), Name: newName8(name)})
	w.data.Write(data)
}

func (w *Writer) addStructs(name string, v any) {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, v)
	w.AddLump(name, b.Bytes())
}

func uside(n int) uint16 {
	if n == NoSide {
		return 0xffff
	}
	return uint16(n)
}

// AddLevel writes the map lumps of l after a marker lump.
func (w *Writer) AddLevel(l *Level) {
	w.AddLump(l.Name, nil)
	things := make([]binThing, len(l.Things))
	for i, t := range l.Things {
		things[i] = binThing{
			X:     int16(t.X),
			Y:     int16(t.Y),
			Angle: int16(t.Angle),
			Type:  int16(t.Type),
			Flags: int16(t.Flags),
		}
	}
	w.addStructs("THINGS", things)

	lines := make([]binLine, len(l.Lines))
	for i, line := range l.Lines {
		lines[i] = binLine{
			Start:   uint16(line.Start),
			End:     uint16(line.End),
			Flags:   uint16(line.Flags),
			Special: int16(line.Special),
			Tag:     int16(line.Tag),
			Right:   uside(line.Right),
			Left:    uside(line.Left),
		}
	}
	w.addStructs("LINEDEFS", lines)

	sides := make([]binSide, len(l.Sides))
	for i, s := range l.Sides {
		sides[i] = binSide{
			XOffset: int16(s.XOffset),
			YOffset: int16(s.YOffset),
			Upper:   newName8(s.Upper),
			Lower:   newName8(s.Lower),
			Middle:  newName8(s.Middle),
			Sector:  int16(s.Sector),
		}
	}
	w.addStructs("SIDEDEFS", sides)

	vs := make([]binVertex, len(l.Vertexes))
	for i, v := range l.Vertexes {
		vs[i] = binVertex{X: int16(v.X), Y: int16(v.Y)}
	}
	w.addStructs("VERTEXES", vs)

	segs := make([]binSeg, len(l.Segs))
	for i, s := range l.Segs {
		segs[i] = binSeg{Start: uint16(s.Start), End: uint16(s.End), Line: uint16(s.Line), Offset: int16(s.Offset)}
		if s.Back {
			segs[i].Direction = 1
		}
	}
	w.addStructs("SEGS", segs)

	subsectors := make([]binSubsector, len(l.Subsectors))
	for i, ss := range l.Subsectors {
		subsectors[i] = binSubsector{Count: uint16(ss.Count), First: uint16(ss.First)}
	}
	w.addStructs("SSECTORS", subsectors)

	nodes := make([]binNode, len(l.Nodes))
	for i, n := range l.Nodes {
		b := binNode{X: int16(n.X), Y: int16(n.Y), DX: int16(n.DX), DY: int16(n.DY)}
		for c := range 2 {
			box := n.Boxes[c]
			b.Boxes[c] = [4]int16{int16(box.Top), int16(box.Bottom), int16(box.Left), int16(box.Right)}
			b.Children[c] = uint16(n.Children[c])
			if n.Leaf[c] {
				b.Children[c] |= childLeaf
			}
		}
		nodes[i] = b
	}
	w.addStructs("NODES", nodes)

	sectors := make([]binSector, len(l.Sectors))
	for i, s := range l.Sectors {
		sectors[i] = binSector{
			Floor:       int16(s.Floor),
			Ceiling:     int16(s.Ceiling),
			FloorFlat:   newName8(s.FloorFlat),
			CeilingFlat: newName8(s.CeilingFlat),
			Light:       int16(s.Light),
			Special:     int16(s.Special),
			Tag:         int16(s.Tag),
		}
	}
	w.addStructs("SECTORS", sectors)
}

// Bytes returns the finished PWAD. The writer must not be used afterwards.
func (w *Writer) Bytes() []byte {
	dirOffset := w.data.Len()
	binary.Write(&w.data, binary.LittleEndian, w.dir)
	b := w.data.Bytes()
	var h bytes.Buffer
	binary.Write(&h, binary.LittleEndian, header{
		Magic:     [4]byte{'P', 'W', 'A', 'D'},
		NumLumps:  int32(len(w.dir)),
		DirOffset: int32(dirOffset),
	})
	copy(b, h.Bytes())
	return b
}
