// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"sectorgl/cvar"
)

var (
	RendererFakeContrast        *cvar.Cvar
	RendererTextureTransparency *cvar.Cvar
	RendererMidTextureHack      *cvar.Cvar
	RendererMaxSky              *cvar.Cvar
	RendererFlushInterval       *cvar.Cvar
	RendererNearClip            *cvar.Cvar
	RendererFov                 *cvar.Cvar
	RendererOcclusion           *cvar.Cvar
	VideoWidth                  *cvar.Cvar
	VideoHeight                 *cvar.Cvar
	VideoVSync                  *cvar.Cvar
	ViewerSpeed                 *cvar.Cvar
)

func init() {
	RendererFakeContrast = cvar.MustRegister("r_fakecontrast", "1", cvar.ARCHIVE)
	RendererTextureTransparency = cvar.MustRegister("r_texturetransparency", "1", cvar.ARCHIVE)
	RendererMidTextureHack = cvar.MustRegister("r_midtexturehack", "1", cvar.ARCHIVE)
	RendererMaxSky = cvar.MustRegister("r_maxsky", "16384", cvar.NONE)
	RendererFlushInterval = cvar.MustRegister("r_flushinterval", "35", cvar.NONE)
	RendererNearClip = cvar.MustRegister("r_nearclip", "4", cvar.NONE)
	RendererFov = cvar.MustRegister("r_fov", "90", cvar.ARCHIVE)
	RendererOcclusion = cvar.MustRegister("r_occlusion", "1", cvar.NONE)
	VideoWidth = cvar.MustRegister("vid_width", "1280", cvar.ARCHIVE)
	VideoHeight = cvar.MustRegister("vid_height", "720", cvar.ARCHIVE)
	VideoVSync = cvar.MustRegister("vid_vsync", "1", cvar.ARCHIVE)
	ViewerSpeed = cvar.MustRegister("viewer_speed", "8", cvar.ARCHIVE)
}
