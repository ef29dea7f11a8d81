// SPDX-License-Identifier: GPL-2.0-or-later

package wad

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	FlatSize = 64
	// SkyFlatName is the flat that marks sky planes.
	SkyFlatName = "F_SKY1"
)

type textureHeader struct {
	Name       name8
	Masked     int32
	Width      int16
	Height     int16
	Columns    int32
	NumPatches int16
}

type texturePatch struct {
	XOffset  int16
	YOffset  int16
	Patch    int16
	StepDir  int16
	ColorMap int16
}

type pictureHeader struct {
	Width      int16
	Height     int16
	LeftOffset int16
	TopOffset  int16
}

// Texture is a composite wall texture.
type Texture struct {
	Name   string
	Width  int
	Height int
	Masked bool
	// TransparentPixels counts the pixels no patch covers.
	TransparentPixels int
	// Data holds palette indices in row major order. Mask is set where a
	// patch covers the pixel.
	Data []byte
	Mask []bool
}

// Picture is a decoded patch in column major order. A pixel is opaque where
// Mask is set.
type Picture struct {
	Width, Height int
	Pixels        [][]byte
	Mask          [][]bool
}

// ReadPicture decodes the column posts of a patch lump.
func ReadPicture(lump []byte) (*Picture, error) {
	r := bytes.NewReader(lump)
	h := pictureHeader{}
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "picture header")
	}
	if h.Width <= 0 || h.Height <= 0 {
		return nil, errors.Errorf("bad picture size %dx%d", h.Width, h.Height)
	}
	offsets := make([]int32, h.Width)
	if err := binary.Read(r, binary.LittleEndian, offsets); err != nil {
		return nil, errors.Wrap(err, "column offsets")
	}
	p := &Picture{
		Width:  int(h.Width),
		Height: int(h.Height),
		Pixels: make([][]byte, h.Width),
		Mask:   make([][]bool, h.Width),
	}
	for x, off := range offsets {
		col := make([]bool, h.Height)
		pixels := make([]byte, h.Height)
		p.Mask[x] = col
		p.Pixels[x] = pixels
		i := int(off)
		for {
			if i >= len(lump) {
				return nil, errors.Errorf("column %d runs past the lump", x)
			}
			top := int(lump[i])
			if top == 0xff {
				break
			}
			if i+1 >= len(lump) {
				return nil, errors.Errorf("column %d runs past the lump", x)
			}
			n := int(lump[i+1])
			if i+3+n > len(lump) {
				return nil, errors.Errorf("column %d runs past the lump", x)
			}
			for j, y := 0, top; j < n && y < len(col); j, y = j+1, y+1 {
				col[y] = true
				pixels[y] = lump[i+3+j]
			}
			// top, length, pad, pixels, pad
			i += 4 + n
		}
	}
	return p, nil
}

func (w *WAD) patchNames() ([]string, error) {
	lump, err := w.ReadLump("PNAMES")
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(lump)
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrap(err, "PNAMES")
	}
	names := make([]name8, count)
	if err := binary.Read(r, binary.LittleEndian, names); err != nil {
		return nil, errors.Wrap(err, "PNAMES")
	}
	out := make([]string, count)
	for i, n := range names {
		out[i] = n.String()
	}
	return out, nil
}

// Textures reads TEXTURE1 and TEXTURE2. Missing patches only make the
// texture more transparent.
func (w *WAD) Textures() ([]Texture, error) {
	pnames, err := w.patchNames()
	if err != nil {
		return nil, err
	}
	pictures := make(map[string]*Picture)
	picture := func(name string) *Picture {
		if p, ok := pictures[name]; ok {
			return p
		}
		var p *Picture
		if lump, err := w.ReadLump(name); err != nil {
			logger.Printf("patch %s: %v", name, err)
		} else if p, err = ReadPicture(lump); err != nil {
			logger.Printf("patch %s: %v", name, err)
		}
		pictures[name] = p
		return p
	}

	var textures []Texture
	for _, lumpName := range []string{"TEXTURE1", "TEXTURE2"} {
		lump, err := w.ReadLump(lumpName)
		if err != nil {
			continue
		}
		ts, err := readTextureLump(lump, pnames, picture)
		if err != nil {
			return nil, errors.Wrapf(err, "reading lump %s", lumpName)
		}
		textures = append(textures, ts...)
	}
	logger.Printf("Loaded %d textures", len(textures))
	return textures, nil
}

func readTextureLump(lump []byte, pnames []string, picture func(string) *Picture) ([]Texture, error) {
	r := bytes.NewReader(lump)
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	offsets := make([]int32, count)
	if err := binary.Read(r, binary.LittleEndian, offsets); err != nil {
		return nil, err
	}
	textures := make([]Texture, 0, count)
	for _, off := range offsets {
		if off < 0 || int(off) >= len(lump) {
			return nil, errors.Errorf("texture offset %d outside of the lump", off)
		}
		tr := bytes.NewReader(lump[off:])
		h := textureHeader{}
		if err := binary.Read(tr, binary.LittleEndian, &h); err != nil {
			return nil, err
		}
		patches := make([]texturePatch, h.NumPatches)
		if err := binary.Read(tr, binary.LittleEndian, patches); err != nil {
			return nil, errors.Wrapf(err, "texture %s", h.Name)
		}
		t := Texture{Name: h.Name.String(), Width: int(h.Width), Height: int(h.Height), Masked: h.Masked != 0}
		if t.Width <= 0 || t.Height <= 0 {
			return nil, errors.Errorf("texture %s has size %dx%d", t.Name, t.Width, t.Height)
		}
		t.Data = make([]byte, t.Width*t.Height)
		t.Mask = make([]bool, t.Width*t.Height)
		for _, tp := range patches {
			if int(tp.Patch) < 0 || int(tp.Patch) >= len(pnames) {
				return nil, errors.Errorf("texture %s uses patch %d of %d", t.Name, tp.Patch, len(pnames))
			}
			p := picture(pnames[tp.Patch])
			if p == nil {
				continue
			}
			for px := range p.Width {
				x := int(tp.XOffset) + px
				if x < 0 || x >= t.Width {
					continue
				}
				for py, opaque := range p.Mask[px] {
					y := int(tp.YOffset) + py
					if opaque && y >= 0 && y < t.Height {
						t.Mask[y*t.Width+x] = true
						t.Data[y*t.Width+x] = p.Pixels[px][py]
					}
				}
			}
		}
		for _, c := range t.Mask {
			if !c {
				t.TransparentPixels++
			}
		}
		textures = append(textures, t)
	}
	return textures, nil
}

// Flat returns the palette indices of a flat in row major order.
func (w *WAD) Flat(name string) ([]byte, error) {
	data, err := w.ReadLump(name)
	if err != nil {
		return nil, err
	}
	if len(data) != FlatSize*FlatSize {
		return nil, errors.Errorf("flat %s has %d bytes", name, len(data))
	}
	return data, nil
}

// Flats returns the names of all flats between the F_START and F_END
// markers.
func (w *WAD) Flats() []string {
	var flats []string
	inside := false
	for _, l := range w.lumps {
		switch l.Name {
		case "F_START", "FF_START":
			inside = true
			continue
		case "F_END", "FF_END":
			inside = false
			continue
		}
		if inside && l.Size == FlatSize*FlatSize {
			flats = append(flats, l.Name)
		}
	}
	return flats
}
