// SPDX-License-Identifier: GPL-2.0-or-later

package texture

import (
	"strings"
)

// NoTexture is the handle of surfaces without an assigned texture.
const NoTexture = 0

type Kind int

const (
	KindWall Kind = iota
	KindFlat
)

type Texture struct {
	Handle int
	Name   string
	Kind   Kind
	Width  int
	Height int
	// TransparentPixels counts fully transparent texels.
	TransparentPixels int
	Sky               bool
	// Data holds palette indexed texels in row major order, if loaded.
	Data []byte
	// Mask marks transparent texels, parallel to Data.
	Mask []bool
}

// UVInverse returns the factors turning map units into texture coordinates.
func (t *Texture) UVInverse() (float32, float32) {
	return 1 / float32(t.Width), 1 / float32(t.Height)
}

func (t *Texture) HasTransparentPixels() bool {
	return t.TransparentPixels > 0
}

// Manager resolves texture handles for the renderer.
type Manager interface {
	// Texture never returns nil. Unknown handles resolve to a placeholder.
	Texture(handle int) *Texture
	IsSky(handle int) bool
}

// Table is a dense handle table. Handle 0 is reserved for NoTexture.
type Table struct {
	list  []*Texture
	walls map[string]int
	flats map[string]int
}

func NewTable() *Table {
	return &Table{
		list: []*Texture{{
			Handle: NoTexture,
			Name:   "-",
			Width:  64,
			Height: 64,
		}},
		walls: make(map[string]int),
		flats: make(map[string]int),
	}
}

func (t *Table) names(k Kind) map[string]int {
	if k == KindFlat {
		return t.flats
	}
	return t.walls
}

// Add registers a texture and returns its handle. Adding an existing name
// replaces the stored texture but keeps the handle.
func (t *Table) Add(tex Texture) int {
	n := strings.ToUpper(tex.Name)
	m := t.names(tex.Kind)
	if h, ok := m[n]; ok {
		tex.Handle = h
		t.list[h] = &tex
		return h
	}
	tex.Handle = len(t.list)
	t.list = append(t.list, &tex)
	m[n] = tex.Handle
	return tex.Handle
}

// Lookup returns the handle for a name. "-" and "" map to NoTexture.
func (t *Table) Lookup(k Kind, name string) (int, bool) {
	if name == "" || name == "-" {
		return NoTexture, true
	}
	h, ok := t.names(k)[strings.ToUpper(name)]
	return h, ok
}

func (t *Table) Texture(handle int) *Texture {
	if handle <= NoTexture || handle >= len(t.list) {
		return t.list[NoTexture]
	}
	return t.list[handle]
}

func (t *Table) IsSky(handle int) bool {
	if handle <= NoTexture || handle >= len(t.list) {
		return false
	}
	return t.list[handle].Sky
}

// Len returns the number of handles including NoTexture.
func (t *Table) Len() int {
	return len(t.list)
}

func (t *Table) All() []*Texture {
	return t.list[1:]
}
