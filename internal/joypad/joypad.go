// Package joypad implements the eight-button Game Boy input matrix and
// its high-to-low edge-triggered interrupt.
package joypad

import (
	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/types"
)

// Button identifies one of the eight physical buttons.
type Button uint8

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// action buttons occupy the low nibble, direction buttons occupy bits 0-3
// of the "direction" row - both rows share the same four bit positions,
// selected by JOYP bits 4/5.
const (
	bitA      = 0
	bitB      = 1
	bitSelect = 2
	bitStart  = 3
	bitRight  = 0
	bitLeft   = 1
	bitUp     = 2
	bitDown   = 3
)

// State is the joypad register (0xFF00) controller.
type State struct {
	selectDirections bool
	selectActions    bool

	directions uint8 // low nibble, 1 = released
	actions    uint8 // low nibble, 1 = released

	irq *interrupts.Controller
}

func New(irq *interrupts.Controller) *State {
	return &State{directions: 0x0F, actions: 0x0F, irq: irq}
}

func buttonBit(b Button) (uint8, bool) {
	switch b {
	case A:
		return bitA, true
	case B:
		return bitB, true
	case Select:
		return bitSelect, true
	case Start:
		return bitStart, true
	case Right:
		return bitRight, false
	case Left:
		return bitLeft, false
	case Up:
		return bitUp, false
	case Down:
		return bitDown, false
	}
	return 0, false
}

// Press pulls a button's line low, raising the joypad interrupt on the
// high-to-low edge if that row is currently selected.
func (j *State) Press(b Button) {
	bit, isAction := buttonBit(b)
	if isAction {
		before := j.actions
		j.actions &^= 1 << bit
		if before != j.actions && j.selectActions {
			j.irq.Request(types.InterruptJoypad)
		}
	} else {
		before := j.directions
		j.directions &^= 1 << bit
		if before != j.directions && j.selectDirections {
			j.irq.Request(types.InterruptJoypad)
		}
	}
}

// Release returns a button's line to high (released).
func (j *State) Release(b Button) {
	bit, isAction := buttonBit(b)
	if isAction {
		j.actions |= 1 << bit
	} else {
		j.directions |= 1 << bit
	}
}

// ReleaseAll resets every button to the released state.
func (j *State) ReleaseAll() {
	j.directions = 0x0F
	j.actions = 0x0F
}

// Read returns the current JOYP byte for whichever row(s) are selected.
func (j *State) Read() uint8 {
	v := uint8(0xC0)
	if !j.selectDirections {
		v |= 0x10
	}
	if !j.selectActions {
		v |= 0x20
	}
	row := uint8(0x0F)
	if j.selectActions && j.selectDirections {
		row = j.actions & j.directions
	} else if j.selectActions {
		row = j.actions
	} else if j.selectDirections {
		row = j.directions
	}
	return v | row
}

// Write updates which row(s) of the matrix are selected (bits 4/5, active-low).
func (j *State) Write(v uint8) {
	j.selectDirections = v&0x10 == 0
	j.selectActions = v&0x20 == 0
}

func (j *State) Save(s *types.State) {
	s.WriteBool(j.selectDirections)
	s.WriteBool(j.selectActions)
	s.Write8(j.directions)
	s.Write8(j.actions)
}

func (j *State) Load(s *types.State) {
	j.selectDirections = s.ReadBool()
	j.selectActions = s.ReadBool()
	j.directions = s.Read8()
	j.actions = s.Read8()
}
