// Package interrupts implements the Game Boy's IE/IF interrupt
// controller: the five-bit enable and flag registers, the tri-state
// IME (master enable) the CPU drives, and the fixed vector table.
package interrupts

import "github.com/thelolagemann/gomeboy/internal/types"

// IME models the CPU's interrupt master enable, including the single
// instruction of latency EI introduces before interrupts actually fire.
type IME uint8

const (
	Disabled IME = iota
	Enabled
	Pending // EI was executed; becomes Enabled after the next instruction completes
)

// Controller owns the IE (0xFFFF) and IF (0xFF0F) registers.
type Controller struct {
	Enable uint8 // IE, only the low 5 bits are meaningful
	Flag   uint8 // IF, only the low 5 bits are meaningful; upper bits read as 1

	IME IME
}

// New returns a Controller with IF reset to the DMG/CGB post-boot value.
func New() *Controller {
	return &Controller{Flag: 0xE1}
}

// Request sets the given interrupt's flag bit.
func (c *Controller) Request(bit uint8) {
	c.Flag |= bit
}

// Clear clears the given interrupt's flag bit.
func (c *Controller) Clear(bit uint8) {
	c.Flag &^= bit
}

// Pending reports whether any enabled interrupt has its flag set,
// independent of IME - used to wake the CPU from HALT/STOP.
func (c *Controller) Pending() bool {
	return c.Enable&c.Flag&0x1F != 0
}

// Ready reports whether an interrupt should be dispatched this cycle:
// pending, and the CPU has its master enable on.
func (c *Controller) Ready() bool {
	return c.IME == Enabled && c.Pending()
}

// WakeFromStop reports whether a joypad edge has been latched - the
// condition that wakes the CPU from STOP even when IME is disabled or
// the joypad interrupt itself is masked out in IE.
func (c *Controller) WakeFromStop() bool {
	return c.Flag&types.InterruptJoypad != 0
}

// NextVector returns the vector address and bit of the
// highest-priority pending, enabled interrupt, or (0, 0xFF) if none.
func (c *Controller) NextVector() (uint16, uint8) {
	active := c.Enable & c.Flag & 0x1F
	for bit := uint8(0); bit < 5; bit++ {
		if active&(1<<bit) != 0 {
			return types.InterruptVectors[bit], bit
		}
	}
	return 0, 0xFF
}

func (c *Controller) ReadIE() uint8 { return c.Enable }
func (c *Controller) WriteIE(v uint8) {
	c.Enable = v
}

func (c *Controller) ReadIF() uint8 { return c.Flag | 0xE0 }
func (c *Controller) WriteIF(v uint8) {
	c.Flag = v & 0x1F
}

func (c *Controller) Save(s *types.State) {
	s.Write8(c.Enable)
	s.Write8(c.Flag)
	s.Write8(uint8(c.IME))
}

func (c *Controller) Load(s *types.State) {
	c.Enable = s.Read8()
	c.Flag = s.Read8()
	c.IME = IME(s.Read8())
}
