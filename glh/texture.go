// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import (
	"runtime"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gopxl/mainthread/v2"

	"sectorgl/palette"
	"sectorgl/texture"
)

type Texture2D struct {
	id uint32
}

func NewTexture2D() *Texture2D {
	t := &Texture2D{}
	gl.GenTextures(1, &t.id)
	runtime.AddCleanup(t, deleteTexture, t.id)
	return t
}

func deleteTexture(id uint32) {
	mainthread.CallNonBlock(func() {
		gl.DeleteTextures(1, &id)
	})
}

func (t *Texture2D) Bind() {
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// Upload sets repeating RGBA texels. The texture needs to be bound first.
func (t *Texture2D) Upload(width, height int, rgba []byte) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	gl.GenerateMipmap(gl.TEXTURE_2D)
}

// Textures uploads texture handles on first use.
type Textures struct {
	manager  texture.Manager
	palette  *palette.Palette
	uploaded []*Texture2D
}

func NewTextures(m texture.Manager, p *palette.Palette) *Textures {
	if p == nil {
		p = palette.Gray()
	}
	return &Textures{manager: m, palette: p}
}

func (ts *Textures) Bind(handle int) {
	if handle < 0 {
		handle = texture.NoTexture
	}
	if handle >= len(ts.uploaded) {
		n := make([]*Texture2D, handle+1)
		copy(n, ts.uploaded)
		ts.uploaded = n
	}
	if t := ts.uploaded[handle]; t != nil {
		t.Bind()
		return
	}
	tex := ts.manager.Texture(handle)
	w, h := tex.Width, tex.Height
	var rgba []byte
	if len(tex.Data) >= w*h && w > 0 && h > 0 {
		rgba = ts.palette.RGBA(w, h, tex.Data, tex.Mask)
	} else {
		w, h = 2, 2
		rgba = checker()
	}
	t := NewTexture2D()
	t.Bind()
	t.Upload(w, h, rgba)
	ts.uploaded[handle] = t
}

// checker stands in for textures without texels.
func checker() []byte {
	return []byte{
		255, 0, 255, 255, 0, 0, 0, 255,
		0, 0, 0, 255, 255, 0, 255, 255,
	}
}
