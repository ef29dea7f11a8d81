// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"math"

	"sectorgl/geometry"
	"sectorgl/glh"
	"sectorgl/input"
	qmath "sectorgl/math"
	"sectorgl/math/vec"
)

const (
	eyeHeight = 41
	// degrees per tick
	turnSpeed  = 4
	pitchSpeed = 3
	maxPitch   = 89
)

// camera is a free flying viewer. It keeps the previous tick for
// interpolation.
type camera struct {
	pos, prevPos     vec.Vec2
	z, prevZ         float64
	yaw, prevYaw     float64
	pitch, prevPitch float64
}

func newCamera(pos vec.Vec2, z, yaw float64) *camera {
	return &camera{
		pos: pos, prevPos: pos,
		z: z, prevZ: z,
		yaw: yaw, prevYaw: yaw,
	}
}

func (c *camera) tick(m input.Move, speed float64) {
	c.prevPos, c.prevZ, c.prevYaw, c.prevPitch = c.pos, c.z, c.yaw, c.pitch
	if m.Fast {
		speed *= 2
	}
	c.yaw += float64(m.Yaw) * turnSpeed
	if c.yaw < 0 || c.yaw >= 360 {
		// keep prevYaw on the same branch so lerp does not spin
		w := qmath.AngleMod(c.yaw)
		c.prevYaw += w - c.yaw
		c.yaw = w
	}
	c.pitch = max(-maxPitch, min(maxPitch, c.pitch+float64(m.Pitch)*pitchSpeed))
	s, co := math.Sincos(c.yaw * math.Pi / 180)
	forward := vec.Vec2{X: co, Y: s}
	right := vec.Vec2{X: s, Y: -co}
	c.pos = vec.Add2(c.pos, forward.Scale(float64(m.Forward)*speed))
	c.pos = vec.Add2(c.pos, right.Scale(float64(m.Side)*speed))
	c.z += float64(m.Up) * speed
}

func (c *camera) view() geometry.View {
	return geometry.View{
		Pos:     c.pos,
		PrevPos: c.prevPos,
		Z:       c.z,
		PrevZ:   c.prevZ,
	}
}

func lerp(a, b, frac float64) float64 {
	return a + (b-a)*frac
}

// frame returns the GL view between the previous and the current tick.
func (c *camera) frame(frac float64, fov float32, width, height int, near float32) *glh.Frame {
	eye := vec.Lerp(c.prevPos.To3(c.prevZ), c.pos.To3(c.z), float32(frac))
	yaw := float32(lerp(c.prevYaw, c.yaw, frac))
	pitch := float32(lerp(c.prevPitch, c.pitch, frac))
	return &glh.Frame{
		Projection: glh.Perspective(fov, float32(width)/float32(height), near, 65536),
		ModelView:  glh.View(eye.X, eye.Y, eye.Z, pitch, yaw),
		Eye:        eye,
		Frac:       float32(frac),
	}
}
