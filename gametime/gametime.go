// SPDX-License-Identifier: GPL-2.0-or-later

// Package gametime turns wall clock time into fixed rate ticks.
package gametime

import (
	"time"

	"sectorgl/math"
)

// maxTicks limits the ticks run for one frame after a stall.
const maxTicks = 10

type GameTime struct {
	rate       float64
	start      time.Time
	now        func() time.Time
	tick       int
	frac       float64
	time       float64
	oldTime    float64
	frameTime  float64
	frameCount int
	// skipped ticks are not simulated after a stall
	skipped int
}

// New starts a clock running rate ticks per second.
func New(rate float64) *GameTime {
	return newWithClock(rate, time.Now)
}

func newWithClock(rate float64, now func() time.Time) *GameTime {
	return &GameTime{
		rate:      rate,
		start:     now(),
		now:       now,
		frameTime: 0.1,
	}
}

func (h *GameTime) Tick() int          { return h.tick }
func (h *GameTime) Frac() float64      { return h.frac }
func (h *GameTime) Time() float64      { return h.time }
func (h *GameTime) FrameTime() float64 { return h.frameTime }
func (h *GameTime) FrameCount() int    { return h.frameCount }
func (h *GameTime) FrameIncrease()     { h.frameCount++ }

// UpdateTime advances the clock and returns how many ticks have to run
// before the next frame. Frac is the position between the last and the
// next tick.
func (h *GameTime) UpdateTime() int {
	h.time = h.now().Sub(h.start).Seconds()
	h.frameTime = math.Clamp(0.001, h.time-h.oldTime, 0.1)
	h.oldTime = h.time

	total := h.time * h.rate
	whole := int(total) - h.skipped
	n := whole - h.tick
	if n > maxTicks {
		h.skipped += n - maxTicks
		n = maxTicks
	}
	h.tick += n
	h.frac = math.Clamp(0, total-float64(h.tick+h.skipped), 1)
	return n
}
