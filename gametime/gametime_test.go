// SPDX-License-Identifier: GPL-2.0-or-later

package gametime

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestUpdateTime(t *testing.T) {
	c := &fakeClock{t: time.Unix(100, 0)}
	g := newWithClock(10, c.now)
	if n := g.UpdateTime(); n != 0 || g.Tick() != 0 {
		t.Errorf("UpdateTime() at start = %v, tick %v, want 0", n, g.Tick())
	}
	c.advance(250 * time.Millisecond)
	if n := g.UpdateTime(); n != 2 {
		t.Errorf("UpdateTime() after 250ms = %v, want 2", n)
	}
	if f := g.Frac(); f < 0.49 || f > 0.51 {
		t.Errorf("Frac() = %v, want 0.5", f)
	}
	if ft := g.FrameTime(); ft != 0.1 {
		t.Errorf("FrameTime() = %v, want clamped 0.1", ft)
	}
	c.advance(50 * time.Millisecond)
	if n := g.UpdateTime(); n != 1 || g.Tick() != 3 {
		t.Errorf("UpdateTime() after 300ms = %v, tick %v, want 1 and 3", n, g.Tick())
	}
}

func TestUpdateTimeStall(t *testing.T) {
	c := &fakeClock{t: time.Unix(100, 0)}
	g := newWithClock(10, c.now)
	c.advance(5 * time.Second)
	if n := g.UpdateTime(); n != maxTicks {
		t.Errorf("UpdateTime() after a stall = %v, want %v", n, maxTicks)
	}
	c.advance(100 * time.Millisecond)
	if n := g.UpdateTime(); n != 1 {
		t.Errorf("UpdateTime() after the stall = %v, want 1", n)
	}
}
