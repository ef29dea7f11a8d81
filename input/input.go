// SPDX-License-Identifier: GPL-2.0-or-later

// Package input tracks the viewer's movement buttons.
package input

type button struct {
	// key nums holding it down, can handle 2 keys with the same action
	holdingDown [2]int
	down        bool
	impulseDown bool
	impulseUp   bool
}

var (
	Left      button
	Right     button
	Forward   button
	Back      button
	LookUp    button
	LookDown  button
	MoveLeft  button
	MoveRight button
	Speed     button
	Up        button
	Down      button

	bindings = map[int]*button{}
)

func (b button) Down() bool {
	return b.down
}

func (b *button) WentDown() bool {
	// return down + impulse down
	// reset impulse down
	r := b.down || b.impulseDown
	b.impulseDown = false
	return r
}

// Returns 0.25 if a button was pressed and released during the frame,
// 0.5 if it was pressed and held
// 0 if held then released, and
// 1 if held for the entire time
func (b button) GetImpulse() float32 {
	if b.impulseDown && b.impulseUp {
		if b.down {
			return 0.75
		}
		return 0.25
	}
	if !b.impulseDown && !b.impulseUp {
		if b.down {
			return 1
		}
		return 0
	}
	if b.impulseUp && !b.impulseDown {
		return 0
	}
	if b.impulseDown && !b.impulseUp {
		if b.down {
			return 0.5
		}
		return 0
	}
	return 0 // unreachable
}

func (b *button) ResetImpulse() {
	b.impulseDown = false
	b.impulseUp = false
}

func (b *button) ConsumeImpulse() float32 {
	i := b.GetImpulse()
	b.ResetImpulse()
	return i
}

func (b *button) upKey(k int) {
	if b.holdingDown[0] == k {
		b.holdingDown[0] = 0
	} else if b.holdingDown[1] == k {
		b.holdingDown[1] = 0
	} else {
		return
	}
	if b.holdingDown[0] != 0 || b.holdingDown[1] != 0 {
		// some other key is still holding it down
		return
	}
	if !b.down {
		return
	}
	b.down = false
	b.impulseUp = true
}

func (b *button) downKey(k int) {
	if b.holdingDown[0] == 0 {
		b.holdingDown[0] = k
	} else if b.holdingDown[1] == 0 {
		b.holdingDown[1] = k
	} else {
		// Con_Printf("three key down for a button!\n")
		return
	}
	if b.down {
		return
	}
	b.down = true
	b.impulseDown = true
}

// Bind lets key drive b. Keys are non zero key codes of the window system.
func Bind(key int, b *button) {
	bindings[key] = b
}

func ClearBindings() {
	clear(bindings)
}

// KeyDown reports whether the key is bound.
func KeyDown(key int) bool {
	b, ok := bindings[key]
	if ok {
		b.downKey(key)
	}
	return ok
}

func KeyUp(key int) bool {
	b, ok := bindings[key]
	if ok {
		b.upKey(key)
	}
	return ok
}

// Move is the movement of one frame, each in [-1, 1].
type Move struct {
	Forward, Side, Up float32
	Yaw, Pitch        float32
	Fast              bool
}

// ConsumeMove reads all buttons and resets their impulses.
func ConsumeMove() Move {
	m := Move{
		Forward: Forward.ConsumeImpulse() - Back.ConsumeImpulse(),
		Side:    MoveRight.ConsumeImpulse() - MoveLeft.ConsumeImpulse(),
		Up:      Up.ConsumeImpulse() - Down.ConsumeImpulse(),
		Yaw:     Left.ConsumeImpulse() - Right.ConsumeImpulse(),
		Pitch:   LookDown.ConsumeImpulse() - LookUp.ConsumeImpulse(),
		Fast:    Speed.Down(),
	}
	Speed.ResetImpulse()
	return m
}
