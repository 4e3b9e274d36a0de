package cpu

// Flag bit positions within F. The low nibble of F is always zero.
const (
	FlagCarry     = 1 << 4
	FlagHalfCarry = 1 << 5
	FlagSubtract  = 1 << 6
	FlagZero      = 1 << 7
)

func (c *CPU) setFlag(f uint8, v bool) {
	if v {
		c.F |= f
	} else {
		c.F &^= f
	}
	c.F &= 0xF0
}

func (c *CPU) flag(f uint8) bool { return c.F&f != 0 }

func (c *CPU) setZ(v uint8)           { c.setFlag(FlagZero, v == 0) }
func (c *CPU) flagsAfterLogic(v uint8, h bool) {
	c.setFlag(FlagZero, v == 0)
	c.setFlag(FlagSubtract, false)
	c.setFlag(FlagHalfCarry, h)
	c.setFlag(FlagCarry, false)
}
