// SPDX-License-Identifier: GPL-2.0-or-later

// Package wad reads Doom IWAD and PWAD archives.
package wad

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

type header struct {
	Magic     [4]byte
	NumLumps  int32
	DirOffset int32
}

type dirEntry struct {
	Offset int32
	Size   int32
	Name   name8
}

// name8 is a zero padded lump or texture name.
type name8 [8]byte

func (n name8) String() string {
	i := bytes.IndexByte(n[:], 0)
	if i == -1 {
		i = len(n)
	}
	return strings.ToUpper(string(n[:i]))
}

func newName8(s string) name8 {
	var n name8
	copy(n[:], strings.ToUpper(s))
	return n
}

type Lump struct {
	Name   string
	Offset int
	Size   int
}

type WAD struct {
	data  []byte
	lumps []Lump
	// index holds the last lump of each name, so PWAD lumps win.
	index  map[string]int
	levels []string
}

// Open reads a WAD file.
func Open(filename string) (*WAD, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading wad")
	}
	w, err := New(data)
	if err != nil {
		return nil, errors.Wrapf(err, "wad %s", filename)
	}
	return w, nil
}

// New parses the directory of an in memory WAD.
func New(data []byte) (*WAD, error) {
	r := bytes.NewReader(data)
	h := header{}
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "header")
	}
	if m := string(h.Magic[:]); m != "IWAD" && m != "PWAD" {
		return nil, errors.Errorf("bad magic %q", m)
	}
	if h.NumLumps < 0 || h.DirOffset < 0 {
		return nil, errors.Errorf("bad directory %d@%d", h.NumLumps, h.DirOffset)
	}
	if _, err := r.Seek(int64(h.DirOffset), io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "directory")
	}
	entries := make([]dirEntry, h.NumLumps)
	if err := binary.Read(r, binary.LittleEndian, entries); err != nil {
		return nil, errors.Wrap(err, "directory")
	}

	w := &WAD{
		data:  data,
		lumps: make([]Lump, len(entries)),
		index: make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		l := Lump{Name: e.Name.String(), Offset: int(e.Offset), Size: int(e.Size)}
		if l.Offset < 0 || l.Size < 0 || l.Offset+l.Size > len(data) {
			return nil, errors.Errorf("lump %s outside of the file", l.Name)
		}
		w.lumps[i] = l
		w.index[l.Name] = i
		if l.Name == "THINGS" && i > 0 {
			w.levels = append(w.levels, w.lumps[i-1].Name)
		}
	}
	slices.Sort(w.levels)
	w.levels = slices.Compact(w.levels)
	logger.Printf("WAD with %d lumps and %d levels", len(w.lumps), len(w.levels))
	return w, nil
}

func (w *WAD) Lumps() []Lump {
	return w.lumps
}

// LumpNum returns the index of the last lump called name.
func (w *WAD) LumpNum(name string) (int, bool) {
	i, ok := w.index[strings.ToUpper(name)]
	return i, ok
}

// LumpData returns the content of the lump at index i.
func (w *WAD) LumpData(i int) []byte {
	l := w.lumps[i]
	return w.data[l.Offset : l.Offset+l.Size]
}

// ReadLump returns the content of the last lump called name.
func (w *WAD) ReadLump(name string) ([]byte, error) {
	i, ok := w.LumpNum(name)
	if !ok {
		return nil, errors.Errorf("lump %s not found", name)
	}
	return w.LumpData(i), nil
}

// Levels returns the sorted map names.
func (w *WAD) Levels() []string {
	return w.levels
}
