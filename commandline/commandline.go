// SPDX-License-Identifier: GPL-2.0-or-later

// Package commandline holds the viewer flags.
package commandline

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	fullscreen bool
	static     bool

	benchmark = boolInt{false, 200}

	width  int
	height int

	basedir    string
	wadFile    string
	mapName    string
	capture    string
	screenshot string
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

func init() {
	flag.BoolVar(&fullscreen, "f", false, "")
	flag.BoolVar(&fullscreen, "fullscreen", false, "")
	flag.BoolVar(&static, "static", true, "cache walls and flats that can never move")

	flag.Var(&benchmark, "benchmark", "render frames without input and print the stats, optional number of frames")

	flag.IntVar(&height, "height", -1, "window height, negative is unset")
	flag.IntVar(&width, "width", -1, "window width, negative is unset")

	flag.StringVar(&basedir, "basedir", "", "first directory searched for WAD files")
	flag.StringVar(&wadFile, "wad", "doom2.wad", "WAD file to load")
	flag.StringVar(&mapName, "map", "", "map to show, the first map of the WAD if empty")
	flag.StringVar(&capture, "capture", "", "write the batches of the first frame to this file")
	flag.StringVar(&screenshot, "screenshot", "", "write the first frame as PNG to this file")
}

func Height() int {
	return height
}

func Width() int {
	return width
}

func Fullscreen() bool {
	return fullscreen
}

func Static() bool {
	return static
}

func Benchmark() bool {
	return benchmark.set
}

func BenchmarkFrames() int {
	return benchmark.num
}

func BaseDirectory() string {
	return basedir
}

func WAD() string {
	return wadFile
}

func Map() string {
	return mapName
}

func Capture() string {
	return capture
}

func Screenshot() string {
	return screenshot
}

// Commands splits trailing arguments like "+set r_fov 100 +set vid_vsync 0"
// into commands without the leading +.
func Commands(args []string) [][]string {
	var cmds [][]string
	for _, a := range args {
		if strings.HasPrefix(a, "+") {
			cmds = append(cmds, []string{strings.TrimPrefix(a, "+")})
			continue
		}
		if len(cmds) == 0 {
			continue
		}
		last := len(cmds) - 1
		cmds[last] = append(cmds[last], a)
	}
	return cmds
}
