// SPDX-License-Identifier: GPL-2.0-or-later

// Package palette turns palette indexed texels into RGBA.
package palette

import (
	"github.com/pkg/errors"
)

// Lump is the WAD lump holding the game palettes. Only the first one is used.
const Lump = "PLAYPAL"

// Palette is 256 RGBA entries.
type Palette [256 * 4]uint8

// New reads the first palette of a PLAYPAL lump.
func New(b []byte) (*Palette, error) {
	if len(b) < 256*3 {
		return nil, errors.Errorf("palette has wrong size: %v", len(b))
	}
	p := &Palette{}
	for i := range 256 {
		p[i*4] = b[i*3]
		p[i*4+1] = b[i*3+1]
		p[i*4+2] = b[i*3+2]
		p[i*4+3] = 255
	}
	return p, nil
}

// Gray is used when a WAD carries no palette.
func Gray() *Palette {
	p := &Palette{}
	for i := range 256 {
		c := uint8(i)
		p[i*4], p[i*4+1], p[i*4+2], p[i*4+3] = c, c, c, 255
	}
	return p
}

// RGBA converts texels of a width x height image. Texels outside of mask get
// alpha 0 and the color of their opaque neighbours. A nil mask is fully
// opaque.
func (p *Palette) RGBA(width, height int, indices []byte, mask []bool) []byte {
	d := make([]byte, width*height*4)
	for i := range width * height {
		if i >= len(indices) {
			break
		}
		c := int(indices[i]) * 4
		copy(d[i*4:i*4+3], p[c:c+3])
		d[i*4+3] = 255
		if mask != nil && !mask[i] {
			d[i*4+3] = 0
		}
	}
	if mask != nil {
		AlphaEdgeFix(width, height, d)
	}
	return d
}
