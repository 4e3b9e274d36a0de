package cpu

// cbDispatch reads the second byte of a CB-prefixed instruction and
// either applies it immediately (register operand: 2 total cycles,
// matching real hardware) or arms the continuation steps needed when
// the operand is (HL), which costs an extra read (and, for
// rotate/shift/RES/SET, an extra write).
func cbDispatch(c *CPU) stepResult {
	v := c.readPC()
	x := (v >> 6) & 3
	y := (v >> 3) & 7
	z := v & 7
	r := reg8(z)

	if r != regHLInd {
		applyCB(c, x, y, r)
		return finished
	}

	c.cbX, c.cbY = x, y
	if x == 1 { // BIT b,(HL): no write-back
		c.push(cbReadHLBit)
	} else {
		c.push(cbReadHL, cbWriteHL)
	}
	return inProgress
}

func applyCB(c *CPU, x, y uint8, r reg8) {
	switch x {
	case 0:
		c.set8(r, c.rotateShift(y, c.get8(r)))
	case 1:
		c.testBit(c.get8(r), y)
	case 2:
		c.set8(r, c.get8(r)&^(1<<y))
	default:
		c.set8(r, c.get8(r)|(1<<y))
	}
}

func cbReadHLBit(c *CPU) stepResult {
	c.testBit(c.bus.Read(c.HL()), c.cbY)
	return finished
}

func cbReadHL(c *CPU) stepResult {
	c.tmp8 = c.bus.Read(c.HL())
	return inProgress
}

func cbWriteHL(c *CPU) stepResult {
	switch c.cbX {
	case 0:
		c.tmp8 = c.rotateShift(c.cbY, c.tmp8)
	case 2:
		c.tmp8 &^= 1 << c.cbY
	default:
		c.tmp8 |= 1 << c.cbY
	}
	c.bus.Write(c.HL(), c.tmp8)
	return finished
}
