// SPDX-License-Identifier: GPL-2.0-or-later

package geometry

import (
	"sectorgl/batch"
)

// SurfaceKind classifies what a wall sub surface turned into.
type SurfaceKind int

const (
	// SurfaceNone means nothing is drawn.
	SurfaceNone SurfaceKind = iota
	SurfaceNormal
	SurfaceSky
	// SurfaceSuppressed means the neighbour shows uncapped sky instead.
	SurfaceSuppressed
)

func (k SurfaceKind) String() string {
	switch k {
	case SurfaceNormal:
		return "normal"
	case SurfaceSky:
		return "sky"
	case SurfaceSuppressed:
		return "suppressed"
	}
	return "none"
}

// Surface is the outcome of classifying one sub surface. Vertices and
// SkyVertices may point into the renderer caches or a scratch buffer and are
// only valid until the next render call.
type Surface struct {
	Kind        SurfaceKind
	Texture     int
	Alpha       bool
	Vertices    []batch.Vertex
	SkyVertices []batch.SkyVertex
}

var noSurface = Surface{}

var suppressed = Surface{Kind: SurfaceSuppressed}

func normalSurface(texture int, vs []batch.Vertex) Surface {
	return Surface{Kind: SurfaceNormal, Texture: texture, Vertices: vs}
}

func skySurface(texture int, vs []batch.SkyVertex) Surface {
	return Surface{Kind: SurfaceSky, Texture: texture, SkyVertices: vs}
}

// emit hands a surface to the batches.
func (r *Renderer) emit(ctx *renderContext, s Surface) {
	if !ctx.emit {
		return
	}
	switch s.Kind {
	case SurfaceNormal:
		if s.Alpha {
			r.batches.Alpha.Add(s.Texture, s.Vertices...)
			return
		}
		r.batches.Normal.Add(s.Texture, s.Vertices...)
	case SurfaceSky:
		r.batches.Sky.Add(s.Texture, s.SkyVertices...)
	}
}
