// Package timer implements the Game Boy's DIV/TIMA/TMA/TAC divider and
// programmable timer, including the falling-edge TIMA-increment quirk
// and the one-cycle-delayed overflow reload.
package timer

import (
	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/types"
)

// tacBit maps the two-bit clock select in TAC to the bit of the 16-bit
// internal divider that is sampled for falling-edge detection.
var tacBit = [4]uint16{9, 3, 5, 7}

// Controller is the DIV/TIMA/TMA/TAC timer. Step must be called once
// per machine cycle (4 dots) from the facade's fixed tick order.
type Controller struct {
	div uint16 // internal 16-bit divider; DIV is its upper 8 bits
	tima uint8
	tma  uint8
	tac  uint8

	overflowed    bool // TIMA overflowed last cycle; reload due this cycle
	reloadedCycle bool // TIMA was reloaded this cycle (writes to TIMA during this window are ignored)

	irq *interrupts.Controller
}

func New(irq *interrupts.Controller) *Controller {
	return &Controller{div: 0xABCC, irq: irq}
}

// Step advances the timer by one machine cycle (4 dots).
func (c *Controller) Step() {
	for i := 0; i < 4; i++ {
		c.tick()
	}
}

func (c *Controller) tick() {
	// the TIMA reload is delayed by one M-cycle relative to the overflow;
	// a write to TIMA during that window is dropped, which is handled in
	// WriteTIMA. here we just perform the scheduled reload.
	if c.overflowed {
		c.overflowed = false
		c.tima = c.tma
		c.irq.Request(types.InterruptTimer)
		c.reloadedCycle = true
	} else if c.div&0x3 == 0 {
		// first dot of the next machine cycle: the reload window closes.
		c.reloadedCycle = false
	}

	before := c.div
	c.div++
	c.checkFallingEdge(before, c.div)
}

func (c *Controller) checkFallingEdge(before, after uint16) {
	if c.tac&0x04 == 0 {
		return
	}
	bit := tacBit[c.tac&0x03]
	mask := uint16(1) << bit
	if before&mask != 0 && after&mask == 0 {
		c.incrementTIMA()
	}
}

func (c *Controller) incrementTIMA() {
	c.tima++
	if c.tima == 0 {
		c.overflowed = true
	}
}

func (c *Controller) ReadDIV() uint8 { return uint8(c.div >> 8) }

// WriteDIV resets the internal divider to zero. Because this can clear
// a bit that was feeding TIMA's falling-edge detector, it can itself
// trigger a spurious TIMA increment - a well known hardware quirk.
func (c *Controller) WriteDIV() {
	before := c.div
	c.div = 0
	c.checkFallingEdge(before, 0)
}

func (c *Controller) ReadTIMA() uint8 { return c.tima }

func (c *Controller) WriteTIMA(v uint8) {
	// writing during the reload cycle is ignored - the reloaded value wins.
	if c.reloadedCycle {
		return
	}
	c.tima = v
	c.overflowed = false
}

func (c *Controller) ReadTMA() uint8 { return c.tma }
func (c *Controller) WriteTMA(v uint8) {
	c.tma = v
	if c.reloadedCycle {
		c.tima = v
	}
}

func (c *Controller) ReadTAC() uint8 { return c.tac | 0xF8 }
func (c *Controller) WriteTAC(v uint8) {
	before := c.tac
	c.tac = v & 0x07
	// disabling the timer, or changing the selected bit, can itself
	// cause a falling edge on the old bit.
	if before&0x04 != 0 {
		oldMask := uint16(1) << tacBit[before&0x03]
		stillHigh := c.tac&0x04 != 0 && tacBit[c.tac&0x03] == tacBit[before&0x03]
		if c.div&oldMask != 0 && !stillHigh {
			c.incrementTIMA()
		}
	}
}

func (c *Controller) Save(s *types.State) {
	s.Write16(c.div)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
	s.WriteBool(c.overflowed)
	s.WriteBool(c.reloadedCycle)
}

func (c *Controller) Load(s *types.State) {
	c.div = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()
	c.overflowed = s.ReadBool()
	c.reloadedCycle = s.ReadBool()
}
