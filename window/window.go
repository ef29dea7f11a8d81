// SPDX-License-Identifier: GPL-2.0-or-later

// Package window owns the SDL window and its GL context.
package window

import (
	"log"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"

	"sectorgl/cvar"
	"sectorgl/cvars"
)

var (
	window  *sdl.Window
	context sdl.GLContext
)

func Init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return errors.Wrap(err, "sdl init")
	}
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 6)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_DEBUG_FLAG)
	return nil
}

func Get() *sdl.Window {
	return window
}

func Size() (int, int) {
	w, h := window.GetSize()
	return int(w), int(h)
}

func Shutdown() {
	if context != nil {
		sdl.GLDeleteContext(context)
		context = nil
	}
	if window != nil {
		window.Destroy()
		window = nil
	}
	sdl.Quit()
}

func Fullscreen() bool {
	return window.GetFlags()&sdl.WINDOW_FULLSCREEN != 0
}

func InputFocus() bool {
	return window.GetFlags()&(sdl.WINDOW_MOUSE_FOCUS|sdl.WINDOW_INPUT_FOCUS) != 0
}

// SetMode creates the window on first use and applies size, fullscreen and
// vsync. A width or height <= 0 takes the vid_ cvar.
func SetMode(width, height int, fullscreen bool) error {
	if width <= 0 {
		width = int(cvars.VideoWidth.Value())
	}
	if height <= 0 {
		height = int(cvars.VideoHeight.Value())
	}
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 8)

	if window == nil {
		flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_HIDDEN)
		w, err := sdl.CreateWindow("sectorgl", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(width), int32(height), flags)
		if err != nil {
			sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 16)
			sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 0)
			w, err = sdl.CreateWindow("sectorgl", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(width), int32(height), flags)
		}
		if err != nil {
			return errors.Wrap(err, "couldn't create window")
		}
		window = w
	}
	if Fullscreen() {
		if err := window.SetFullscreen(0); err != nil {
			return errors.Wrap(err, "couldn't leave fullscreen")
		}
	}
	window.SetSize(int32(width), int32(height))
	window.SetPosition(sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED)
	if fullscreen {
		if err := window.SetFullscreen(sdl.WINDOW_FULLSCREEN_DESKTOP); err != nil {
			return errors.Wrap(err, "couldn't set fullscreen state mode")
		}
	}

	window.Show()

	if context == nil {
		var err error
		context, err = window.GLCreateContext()
		if err != nil {
			return errors.Wrap(err, "couldn't create GL context")
		}
		if err := gl.Init(); err != nil {
			return errors.Wrap(err, "couldn't init gl")
		}
		gl.DebugMessageCallback(debugCb, unsafe.Pointer(nil))
		// vid_vsync may only change on the main thread from here on.
		cvars.VideoVSync.SetCallback(func(cv *cvar.Cvar) {
			setSwapInterval(cv.Bool())
		})
	}
	setSwapInterval(cvars.VideoVSync.Bool())
	return nil
}

func setSwapInterval(vsync bool) {
	interval := 0
	if vsync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		log.Printf("Couldn't set swap interval: %v", err)
	}
}

func debugCb(
	source uint32,
	gltype uint32,
	id uint32,
	severity uint32,
	length int32,
	message string,
	userParam unsafe.Pointer) {
	if severity == gl.DEBUG_SEVERITY_HIGH {
		log.Panicf("[GL_DEBUG] source %d gltype %d id %d severity %d length %d: %s", source, gltype, id, severity, length, message)
	} else if severity != gl.DEBUG_SEVERITY_NOTIFICATION {
		log.Printf("[GL_DEBUG] source %d gltype %d id %d severity %d length %d: %s", source, gltype, id, severity, length, message)
	}
}

func EndRendering() {
	window.GLSwap()
}
