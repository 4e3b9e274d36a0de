// Package serial stubs the Game Boy's link-cable shift register. No
// link partner is ever attached and no transfer is ever performed: SB
// keeps the last byte written, SC keeps its written control bits, and
// the serial interrupt is never raised. A Tap lets a host (or a test ROM
// harness) observe bytes written to SB without implementing the cable.
package serial

import "github.com/thelolagemann/gomeboy/internal/types"

type Tap func(b byte)

// Controller stubs SB (0xFF01) and SC (0xFF02).
type Controller struct {
	sb uint8
	sc uint8

	tap Tap
}

func New() *Controller {
	return &Controller{sc: 0x7E}
}

// SetTap installs (or clears, with nil) the byte observer used by hosts
// and test ROM harnesses that poll the serial port for pass/fail text.
func (c *Controller) SetTap(tap Tap) { c.tap = tap }

func (c *Controller) ReadSB() uint8 { return c.sb }
func (c *Controller) WriteSB(v uint8) {
	c.sb = v
	if c.tap != nil {
		c.tap(v)
	}
}

func (c *Controller) ReadSC() uint8 { return c.sc | 0x7C }
func (c *Controller) WriteSC(v uint8) {
	c.sc = v & 0x83
	// no transfer starts: SB is left as it is, the start bit stays set
	// and the serial interrupt is never raised.
}

func (c *Controller) Save(s *types.State) {
	s.Write8(c.sb)
	s.Write8(c.sc)
}

func (c *Controller) Load(s *types.State) {
	c.sb = s.Read8()
	c.sc = s.Read8()
}
