// Package cpu implements the Sharp LR35902 instruction pipeline as a
// micro-stepped state machine: one call to Step consumes exactly one
// machine cycle (4 dots), so a mid-instruction memory write is visible
// to the rest of the system before the instruction as a whole retires.
package cpu

import (
	"github.com/sirupsen/logrus"

	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/types"
)

// Bus is the minimal address space the CPU needs. The owning facade
// supplies a concrete implementation that fans out to VRAM/WRAM/HRAM,
// cartridge and I/O registers.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, v uint8)
}

// CPU is the Sharp LR35902 core: registers, program counter, stack
// pointer and the in-flight micro-step queue for the instruction
// currently executing.
type CPU struct {
	Registers
	PC, SP uint16

	Halted  bool
	Stopped bool
	Locked  bool // hit an illegal opcode; the real chip hard-locks

	haltBugNoIncrement bool
	haltWaitingIME     bool

	doubleSpeed        bool
	prepareSpeedSwitch bool

	bus Bus
	irq *interrupts.Controller
	log *logrus.Entry

	queue  []step
	opcode uint8

	// scratch shared across the steps of whichever instruction is
	// currently in flight; meaningless between instructions.
	tmp8  uint8
	tmp16 uint16
	addr  uint16
	cbX uint8
	cbY uint8

	eiDelay uint8
}

// New constructs a CPU wired to bus for memory access and irq for
// interrupt request/enable state. Registers power on in the DMG boot
// post-state so ROMs that skip the boot ROM still see the values
// real hardware leaves behind.
func New(bus Bus, irq *interrupts.Controller, log *logrus.Entry) *CPU {
	c := &CPU{
		Registers: Registers{A: 0x01, F: 0xB0, B: 0x00, C: 0x13, D: 0x00, E: 0xD8, H: 0x01, L: 0x4D},
		PC:        0x0100,
		SP:        0xFFFE,
		bus:       bus,
		irq:       irq,
		log:       log,
	}
	return c
}

// DoubleSpeed reports whether the GBC speed-switch is currently active.
func (c *CPU) DoubleSpeed() bool { return c.doubleSpeed }

// Step advances the CPU by exactly one machine cycle. It is the unit
// the owning facade schedules PPU/APU/timer ticks around.
func (c *CPU) Step() {
	if c.Locked {
		return
	}

	if c.Stopped {
		c.stepStopped()
		return
	}

	if c.Halted {
		c.stepHalted()
		return
	}

	if len(c.queue) == 0 {
		c.beginInstruction()
		return
	}

	c.runQueue()
}

func (c *CPU) stepHalted() {
	if c.irq.Pending() {
		c.Halted = false
		// the exiting cycle is itself consumed; dispatch/fetch happens
		// on the following Step call.
	}
}

func (c *CPU) stepStopped() {
	if c.prepareSpeedSwitch {
		c.doubleSpeed = !c.doubleSpeed
		c.prepareSpeedSwitch = false
		c.Stopped = false
		return
	}
	if c.irq.WakeFromStop() {
		c.Stopped = false
	}
}

// beginInstruction runs once the micro-step queue has drained: it
// either starts the synthetic interrupt-dispatch sequence or fetches
// and decodes the next opcode. Either way this call spends the tick.
func (c *CPU) beginInstruction() {
	c.resolveEIDelay()
	if c.irq.Ready() {
		c.beginISR()
		return
	}
	c.fetchOpcode()
}

func (c *CPU) fetchOpcode() {
	var op uint8
	if c.haltBugNoIncrement {
		op = c.bus.Read(c.PC)
		c.haltBugNoIncrement = false
	} else {
		op = c.readPC()
	}
	c.opcode = op
	if op == 0xCB {
		c.push(cbDispatch)
		return
	}
	c.push(c.decode(op)...)
}

// RequestSpeedSwitch is invoked by the KEY1 write path in the owning
// bus; armed here so STOP can toggle it.
func (c *CPU) RequestSpeedSwitch(v uint8) { c.prepareSpeedSwitch = v&1 != 0 }

func (c *CPU) Save(st *types.State) {
	st.Write8(c.A)
	st.Write8(c.F)
	st.Write8(c.B)
	st.Write8(c.C)
	st.Write8(c.D)
	st.Write8(c.E)
	st.Write8(c.H)
	st.Write8(c.L)
	st.Write16(c.PC)
	st.Write16(c.SP)
	st.WriteBool(c.Halted)
	st.WriteBool(c.Stopped)
	st.WriteBool(c.Locked)
	st.WriteBool(c.doubleSpeed)
	st.WriteBool(c.prepareSpeedSwitch)
	st.Write8(c.eiDelay)
}

func (c *CPU) Load(st *types.State) {
	c.A = st.Read8()
	c.F = st.Read8()
	c.B = st.Read8()
	c.C = st.Read8()
	c.D = st.Read8()
	c.E = st.Read8()
	c.H = st.Read8()
	c.L = st.Read8()
	c.PC = st.Read16()
	c.SP = st.Read16()
	c.Halted = st.ReadBool()
	c.Stopped = st.ReadBool()
	c.Locked = st.ReadBool()
	c.doubleSpeed = st.ReadBool()
	c.prepareSpeedSwitch = st.ReadBool()
	c.eiDelay = st.Read8()
	c.queue = nil
}
