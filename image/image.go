// SPDX-License-Identifier: GPL-2.0-or-later

// Package image writes screenshots.
package image

import (
	"image"
	"image/png"
	"os"

	"github.com/pkg/errors"
)

// Write expects RGBA 8bit data
func Write(name string, data []byte, width, height int) error {
	if len(data) < width*height*4 {
		return errors.New("tried to write an image but there is not enough data")
	}
	r := image.Rect(0, 0, width, height)
	img := &image.NRGBA{
		Pix:    data,
		Stride: 4 * width,
		Rect:   r,
	}

	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "screenshot")
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrap(err, "screenshot")
	}
	return f.Close()
}

// FlipRows turns bottom up RGBA rows as read from the framebuffer into top
// down rows.
func FlipRows(data []byte, width, height int) {
	stride := 4 * width
	tmp := make([]byte, stride)
	for y := 0; y < height/2; y++ {
		a := data[y*stride : (y+1)*stride]
		b := data[(height-1-y)*stride : (height-y)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
