// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/gopxl/mainthread/v2"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"

	"sectorgl/capture"
	"sectorgl/commandline"
	"sectorgl/conlog"
	"sectorgl/cvar"
	"sectorgl/cvars"
	"sectorgl/filesystem"
	"sectorgl/gametime"
	"sectorgl/geometry"
	"sectorgl/glh"
	"sectorgl/image"
	"sectorgl/input"
	"sectorgl/palette"
	"sectorgl/texture"
	"sectorgl/wad"
	"sectorgl/wadlevel"
	"sectorgl/window"
	"sectorgl/world"
)

// ticRate is the Doom simulation rate.
const ticRate = 35

func main() {
	flag.Parse()
	mainthread.Run(func() {
		if err := run(); err != nil {
			log.Printf("%v", err)
			os.Exit(1)
		}
	})
}

type viewer struct {
	wad      *wad.WAD
	textures *texture.Table
	level    *wadlevel.Result
	world    *world.World
	camera   *camera
	overlay  bool
}

func load() (*viewer, error) {
	path, err := filesystem.Find(commandline.WAD(), filesystem.SearchPath(commandline.BaseDirectory()))
	if err != nil {
		return nil, err
	}
	w, err := wad.Open(path)
	if err != nil {
		return nil, err
	}
	textures, err := wadlevel.LoadTextures(w)
	if err != nil {
		return nil, err
	}
	name := commandline.Map()
	if name == "" {
		levels := w.Levels()
		if len(levels) == 0 {
			return nil, errors.Errorf("%s has no levels", commandline.WAD())
		}
		name = levels[0]
	}
	start := time.Now()
	res, err := wadlevel.Load(w, name, textures)
	if err != nil {
		return nil, err
	}
	wd := world.New(res.Level, res.Tree, textures, geometry.Options{
		Static:  commandline.Static(),
		Prewarm: true,
	})
	log.Printf("Loaded %s: %d sectors, %d lines, %d subsectors in %v",
		name, len(res.Level.Sectors), len(res.Level.Lines), len(res.Level.Subsectors), time.Since(start))
	floor := wd.ViewAt(res.Start, 0).Sector.Floor.Z
	return &viewer{
		wad:      w,
		textures: textures,
		level:    res,
		world:    wd,
		camera:   newCamera(res.Start, floor+eyeHeight, res.Angle),
	}, nil
}

func run() error {
	wad.SetLogger(log.Default())
	conlog.SetPrintf(log.Printf)
	for _, c := range commandline.Commands(flag.Args()) {
		ok, err := cvar.Execute(c)
		if err != nil {
			log.Printf("%v", err)
		} else if !ok {
			log.Printf("Unknown command %q", c[0])
		}
	}

	v, err := load()
	if err != nil {
		return err
	}
	if commandline.Benchmark() {
		return v.benchmark(commandline.BenchmarkFrames())
	}

	if err := mainthread.CallErr(func() error {
		if err := window.Init(); err != nil {
			return err
		}
		return window.SetMode(commandline.Width(), commandline.Height(), commandline.Fullscreen())
	}); err != nil {
		return err
	}
	defer mainthread.Call(window.Shutdown)
	return v.loop()
}

func (v *viewer) writeCapture(tick int) error {
	name := commandline.Capture()
	if name == "" {
		return nil
	}
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "capture")
	}
	frame := capture.FromSet(v.level.Level.ID, tick, v.world.Batches(), func(h int) string {
		return v.textures.Texture(h).Name
	})
	if err := capture.Write(f, frame); err != nil {
		f.Close()
		return err
	}
	log.Printf("Wrote capture %s: %d batches", name, len(frame.Batches))
	return f.Close()
}

// benchmark renders frames of a turning camera without a window.
func (v *viewer) benchmark(frames int) error {
	var total world.FrameStats
	start := time.Now()
	for i := range frames {
		v.camera.tick(input.Move{Yaw: 1}, 0)
		st := v.world.Render(v.camera.view(), i, 1)
		if i == 0 {
			if err := v.writeCapture(i); err != nil {
				return err
			}
		}
		total.Subsectors += st.Subsectors
		total.Culled += st.Culled
		total.Vertices += st.Vertices
		total.Flushed += st.Flushed
	}
	d := time.Since(start)
	log.Printf("%d frames in %v (%v per frame), %v", frames, d, d/time.Duration(max(frames, 1)), total)
	return nil
}

func bindKeys() {
	input.Bind(int(sdl.K_w), &input.Forward)
	input.Bind(int(sdl.K_UP), &input.Forward)
	input.Bind(int(sdl.K_s), &input.Back)
	input.Bind(int(sdl.K_DOWN), &input.Back)
	input.Bind(int(sdl.K_a), &input.MoveLeft)
	input.Bind(int(sdl.K_d), &input.MoveRight)
	input.Bind(int(sdl.K_LEFT), &input.Left)
	input.Bind(int(sdl.K_RIGHT), &input.Right)
	input.Bind(int(sdl.K_PAGEUP), &input.LookUp)
	input.Bind(int(sdl.K_PAGEDOWN), &input.LookDown)
	input.Bind(int(sdl.K_SPACE), &input.Up)
	input.Bind(int(sdl.K_c), &input.Down)
	input.Bind(int(sdl.K_LSHIFT), &input.Speed)
}

// events returns false once the viewer should quit. Tab toggles the
// overlay, which freezes the view the way an automap would. F5 toggles
// vsync.
func (v *viewer) events() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch e := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if e.Keysym.Sym == sdl.K_ESCAPE {
				return false
			}
			if e.Repeat != 0 {
				continue
			}
			if e.Keysym.Sym == sdl.K_TAB {
				if e.Type == sdl.KEYDOWN {
					v.overlay = !v.overlay
				}
				continue
			}
			if e.Keysym.Sym == sdl.K_F5 {
				if e.Type == sdl.KEYDOWN {
					cvars.VideoVSync.Toggle()
				}
				continue
			}
			if e.Type == sdl.KEYDOWN {
				input.KeyDown(int(e.Keysym.Sym))
			} else {
				input.KeyUp(int(e.Keysym.Sym))
			}
		}
	}
	return true
}

func (v *viewer) loop() error {
	bindKeys()
	var (
		devices *glh.Devices
		err     error
	)
	mainthread.Call(func() {
		glh.SetupState()
		pal := palette.Gray()
		if data, perr := v.wad.ReadLump(palette.Lump); perr == nil {
			if p, perr := palette.New(data); perr == nil {
				pal = p
			}
		}
		devices, err = glh.NewDevices(glh.NewTextures(v.textures, pal))
	})
	if err != nil {
		return err
	}

	clock := gametime.New(ticRate)
	lastStats := time.Now()
	for {
		var running bool
		mainthread.Call(func() { running = v.events() })
		if !running {
			return nil
		}
		for range clock.UpdateTime() {
			v.camera.tick(input.ConsumeMove(), float64(cvars.ViewerSpeed.Value()))
		}
		tick, frac := clock.Tick(), clock.Frac()
		frames := clock.FrameCount()

		var st world.FrameStats
		if v.overlay && frames > 0 {
			if n := v.world.Idle(tick); n > 0 {
				conlog.Printf("flushed %d static updates\n", n)
			}
		} else {
			st = v.world.Render(v.camera.view(), tick, frac)
		}
		if frames == 0 {
			if err := v.writeCapture(tick); err != nil {
				return err
			}
		}
		mainthread.Call(func() {
			width, height := window.Size()
			glh.Viewport(width, height)
			glh.Clear()
			devices.SetFrame(v.camera.frame(frac, cvars.RendererFov.Value(), width, height, cvars.RendererNearClip.Value()))
			v.world.Draw(devices.World, devices.Flood, devices.Sky)
			if frames == 0 && commandline.Screenshot() != "" {
				d := glh.ReadPixels(width, height)
				image.FlipRows(d, width, height)
				if err := image.Write(commandline.Screenshot(), d, width, height); err != nil {
					log.Printf("%v", err)
				}
			}
			window.EndRendering()
		})
		clock.FrameIncrease()
		if time.Since(lastStats) > 5*time.Second {
			lastStats = time.Now()
			log.Printf("%v", st)
		}
	}
}
