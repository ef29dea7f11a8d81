// SPDX-License-Identifier: GPL-2.0-or-later

package geometry

import (
	"fmt"

	"github.com/google/uuid"

	"sectorgl/level"
)

// LineDrawnTracker remembers which lines were emitted during a pass.
type LineDrawnTracker struct {
	bits  []uint64
	lines int
	level uuid.UUID
}

// UpdateToLevel sizes the tracker to max line id + 1 and clears it.
func (t *LineDrawnTracker) UpdateToLevel(l *level.Level) {
	t.lines = l.MaxLineID() + 1
	words := (t.lines + 63) / 64
	if cap(t.bits) >= words {
		t.bits = t.bits[:words]
	} else {
		t.bits = make([]uint64, words)
	}
	t.level = l.ID
	t.ClearDrawnLines()
}

func (t *LineDrawnTracker) ClearDrawnLines() {
	clear(t.bits)
}

// Len returns the number of tracked lines.
func (t *LineDrawnTracker) Len() int {
	return t.lines
}

// Validate panics if the tracker was sized for another level.
func (t *LineDrawnTracker) Validate(l *level.Level) {
	if t.level != l.ID {
		panic(fmt.Sprintf("line tracker is stale: tracking level %v, rendering %v", t.level, l.ID))
	}
}

func (t *LineDrawnTracker) check(id int) {
	if id < 0 || id >= t.lines {
		panic(fmt.Sprintf("line %d outside of tracked range %d", id, t.lines))
	}
}

func (t *LineDrawnTracker) HasDrawn(l *level.Line) bool {
	t.check(l.ID)
	return t.bits[l.ID>>6]&(1<<(uint(l.ID)&63)) != 0
}

func (t *LineDrawnTracker) MarkDrawn(l *level.Line) {
	t.check(l.ID)
	t.bits[l.ID>>6] |= 1 << (uint(l.ID) & 63)
}
