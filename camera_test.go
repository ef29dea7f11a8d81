// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"math"
	"testing"

	"sectorgl/input"
	"sectorgl/math/vec"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCameraForward(t *testing.T) {
	c := newCamera(vec.Vec2{X: 0, Y: 0}, 41, 90)
	c.tick(input.Move{Forward: 1}, 8)
	if !near(c.pos.X, 0) || !near(c.pos.Y, 8) {
		t.Errorf("forward at yaw 90 = %v, want (0,8)", c.pos)
	}
	if c.prevPos != (vec.Vec2{}) {
		t.Errorf("prevPos = %v, want origin", c.prevPos)
	}
	c.tick(input.Move{Side: 1, Fast: true}, 8)
	if !near(c.pos.X, 16) || !near(c.pos.Y, 8) {
		t.Errorf("fast strafe right at yaw 90 = %v, want (16,8)", c.pos)
	}
}

func TestCameraPitchClamp(t *testing.T) {
	c := newCamera(vec.Vec2{}, 0, 0)
	for range 100 {
		c.tick(input.Move{Pitch: 1}, 8)
	}
	if c.pitch != maxPitch {
		t.Errorf("pitch = %v, want %v", c.pitch, maxPitch)
	}
}

func TestCameraView(t *testing.T) {
	c := newCamera(vec.Vec2{X: 10, Y: 20}, 41, 0)
	c.tick(input.Move{Up: 1}, 8)
	v := c.view()
	if v.Z != 49 || v.PrevZ != 41 || v.Pos != (vec.Vec2{X: 10, Y: 20}) {
		t.Errorf("view() = %+v", v)
	}
	f := c.frame(0.5, 90, 640, 480, 4)
	if f.Eye.Z != 45 || f.Frac != 0.5 {
		t.Errorf("frame(0.5) eye %v frac %v, want z 45", f.Eye, f.Frac)
	}
}

func TestCameraYawWrap(t *testing.T) {
	c := newCamera(vec.Vec2{}, 0, 358)
	c.tick(input.Move{Yaw: 1}, 8)
	if c.yaw != 2 || c.prevYaw != -2 {
		t.Errorf("yaw %v prevYaw %v, want 2 and -2", c.yaw, c.prevYaw)
	}
}
