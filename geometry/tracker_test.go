// SPDX-License-Identifier: GPL-2.0-or-later

package geometry

import (
	"testing"

	"sectorgl/level"
	"sectorgl/math/vec"
)

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	f()
}

func lineLevel(n int) *level.Level {
	b := level.NewBuilder()
	s := b.Sector(level.SectorDef{Ceiling: 128, Light: 160})
	for i := range n {
		x := float64(i * 64)
		b.Line(vec.Vec2{X: x}, vec.Vec2{X: x + 64}, level.SideDef{Sector: s}, nil)
	}
	return b.Build()
}

func TestTrackerSizing(t *testing.T) {
	var tr LineDrawnTracker
	for _, n := range []int{1, 63, 64, 65, 200} {
		l := lineLevel(n)
		tr.UpdateToLevel(l)
		if tr.Len() != n {
			t.Errorf("Len() = %v, want %v", tr.Len(), n)
		}
		last := l.Lines[n-1]
		if tr.HasDrawn(last) {
			t.Errorf("HasDrawn(%d) = true after update", last.ID)
		}
		tr.MarkDrawn(last)
		if !tr.HasDrawn(last) {
			t.Errorf("HasDrawn(%d) = false after MarkDrawn", last.ID)
		}
	}
}

func TestTrackerClear(t *testing.T) {
	l := lineLevel(100)
	var tr LineDrawnTracker
	tr.UpdateToLevel(l)
	for _, line := range l.Lines {
		if line.ID%3 == 0 {
			tr.MarkDrawn(line)
		}
	}
	for _, line := range l.Lines {
		if got, want := tr.HasDrawn(line), line.ID%3 == 0; got != want {
			t.Errorf("HasDrawn(%d) = %v, want %v", line.ID, got, want)
		}
	}
	tr.ClearDrawnLines()
	for _, line := range l.Lines {
		if tr.HasDrawn(line) {
			t.Errorf("HasDrawn(%d) = true after ClearDrawnLines", line.ID)
		}
	}
}

func TestTrackerOutOfRange(t *testing.T) {
	small := lineLevel(2)
	big := lineLevel(10)
	var tr LineDrawnTracker
	tr.UpdateToLevel(small)
	expectPanic(t, "HasDrawn", func() { tr.HasDrawn(big.Lines[9]) })
	expectPanic(t, "MarkDrawn", func() { tr.MarkDrawn(big.Lines[2]) })
}

func TestTrackerStale(t *testing.T) {
	a := lineLevel(4)
	b := lineLevel(4)
	var tr LineDrawnTracker
	tr.UpdateToLevel(a)
	tr.Validate(a)
	expectPanic(t, "Validate", func() { tr.Validate(b) })

	f := newFixture()
	r := f.renderer(a, Options{})
	r.level = b
	expectPanic(t, "Clear", func() { r.Clear(1, 1) })
}

func TestClearBeforeUpdate(t *testing.T) {
	f := newFixture()
	r := NewRenderer(f.textures, f.batches, f.clip, Options{})
	expectPanic(t, "Clear", func() { r.Clear(1, 1) })
}

func TestWrongSideOfOneSidedLine(t *testing.T) {
	l := lineLevel(1)
	expectPanic(t, "Side(false)", func() { l.Lines[0].Side(false) })
}
