package cpu

import "github.com/thelolagemann/gomeboy/internal/interrupts"

// This file builds the micro-step sequences for every unprefixed
// instruction shape. Each builder's queue length is one shorter than
// the instruction's total M-cycle count, since the opcode fetch that
// selected it already spent the first cycle.

func ldNNSP() []step {
	return []step{
		func(c *CPU) stepResult { c.tmp16 = uint16(c.readPC()); return inProgress },
		func(c *CPU) stepResult { c.tmp16 |= uint16(c.readPC()) << 8; return inProgress },
		func(c *CPU) stepResult { c.bus.Write(c.tmp16, uint8(c.SP)); return inProgress },
		func(c *CPU) stepResult { c.bus.Write(c.tmp16+1, uint8(c.SP>>8)); return finished },
	}
}

func jrUnconditional() []step {
	return []step{
		func(c *CPU) stepResult { c.tmp8 = c.readPC(); return inProgress },
		func(c *CPU) stepResult { c.PC = uint16(int32(c.PC) + int32(int8(c.tmp8))); return finished },
	}
}

// jrConditional reads the offset unconditionally (it must, to advance
// PC past it either way) and only spends the extra jump cycle when the
// condition holds: 2 total cycles untaken, 3 taken.
func jrConditional(cc uint8) []step {
	return []step{
		func(c *CPU) stepResult {
			c.tmp8 = c.readPC()
			if !c.condTrue(cc) {
				return branchNotTaken
			}
			return inProgress
		},
		func(c *CPU) stepResult {
			c.PC = uint16(int32(c.PC) + int32(int8(c.tmp8)))
			return finished
		},
	}
}

func ldRPNN(r reg16) []step {
	return []step{
		func(c *CPU) stepResult { c.tmp16 = uint16(c.readPC()); return inProgress },
		func(c *CPU) stepResult {
			c.tmp16 |= uint16(c.readPC()) << 8
			c.set16(r, c.tmp16)
			return finished
		},
	}
}

func addHLRP(r reg16) []step {
	return []step{
		func(c *CPU) stepResult { c.SetHL(c.addHL(c.get16(r))); return finished },
	}
}

func ldIndirectAcc(p, q uint8) []step {
	return []step{
		func(c *CPU) stepResult {
			switch {
			case p == 0 && q == 0:
				c.bus.Write(c.BC(), c.A)
			case p == 0 && q == 1:
				c.A = c.bus.Read(c.BC())
			case p == 1 && q == 0:
				c.bus.Write(c.DE(), c.A)
			case p == 1 && q == 1:
				c.A = c.bus.Read(c.DE())
			case p == 2 && q == 0:
				c.bus.Write(c.HL(), c.A)
				c.SetHL(c.HL() + 1)
			case p == 2 && q == 1:
				c.A = c.bus.Read(c.HL())
				c.SetHL(c.HL() + 1)
			case p == 3 && q == 0:
				c.bus.Write(c.HL(), c.A)
				c.SetHL(c.HL() - 1)
			default:
				c.A = c.bus.Read(c.HL())
				c.SetHL(c.HL() - 1)
			}
			return finished
		},
	}
}

func incRP(r reg16) []step {
	return []step{func(c *CPU) stepResult { c.set16(r, c.get16(r)+1); return finished }}
}

func decRP(r reg16) []step {
	return []step{func(c *CPU) stepResult { c.set16(r, c.get16(r)-1); return finished }}
}

func (c *CPU) incR8(r reg8) []step {
	if r == regHLInd {
		return []step{
			func(c *CPU) stepResult { c.tmp8 = c.bus.Read(c.HL()); return inProgress },
			func(c *CPU) stepResult { c.bus.Write(c.HL(), c.inc8(c.tmp8)); return finished },
		}
	}
	c.set8(r, c.inc8(c.get8(r)))
	return nil
}

func (c *CPU) decR8(r reg8) []step {
	if r == regHLInd {
		return []step{
			func(c *CPU) stepResult { c.tmp8 = c.bus.Read(c.HL()); return inProgress },
			func(c *CPU) stepResult { c.bus.Write(c.HL(), c.dec8(c.tmp8)); return finished },
		}
	}
	c.set8(r, c.dec8(c.get8(r)))
	return nil
}

func ldRN(r reg8) []step {
	if r == regHLInd {
		return []step{
			func(c *CPU) stepResult { c.tmp8 = c.readPC(); return inProgress },
			func(c *CPU) stepResult { c.bus.Write(c.HL(), c.tmp8); return finished },
		}
	}
	return []step{func(c *CPU) stepResult { c.set8(r, c.readPC()); return finished }}
}

func (c *CPU) accumulatorOp(y uint8) {
	switch y {
	case 0: // RLCA
		c.A = c.rotateShift(rotRLC, c.A)
		c.setFlag(FlagZero, false)
	case 1: // RRCA
		c.A = c.rotateShift(rotRRC, c.A)
		c.setFlag(FlagZero, false)
	case 2: // RLA
		c.A = c.rotateShift(rotRL, c.A)
		c.setFlag(FlagZero, false)
	case 3: // RRA
		c.A = c.rotateShift(rotRR, c.A)
		c.setFlag(FlagZero, false)
	case 4: // DAA
		c.daa()
	case 5: // CPL
		c.A = ^c.A
		c.setFlag(FlagSubtract, true)
		c.setFlag(FlagHalfCarry, true)
	case 6: // SCF
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, false)
		c.setFlag(FlagCarry, true)
	case 7: // CCF
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, false)
		c.setFlag(FlagCarry, !c.flag(FlagCarry))
	}
}

func (c *CPU) ldRR(dst, src reg8) []step {
	if dst == regHLInd {
		return []step{func(c *CPU) stepResult { c.bus.Write(c.HL(), c.get8(src)); return finished }}
	}
	if src == regHLInd {
		return []step{func(c *CPU) stepResult { c.set8(dst, c.bus.Read(c.HL())); return finished }}
	}
	c.set8(dst, c.get8(src))
	return nil
}

func (c *CPU) aluR(op uint8, r reg8) []step {
	if r == regHLInd {
		return []step{func(c *CPU) stepResult { c.alu(op, c.bus.Read(c.HL())); return finished }}
	}
	c.alu(op, c.get8(r))
	return nil
}

func aluN(op uint8) []step {
	return []step{func(c *CPU) stepResult { c.alu(op, c.readPC()); return finished }}
}

// retCC spends one internal cycle testing the condition before ever
// touching the stack: 2 cycles total untaken, 5 taken.
func retCC(cc uint8) []step {
	return []step{
		func(c *CPU) stepResult {
			if !c.condTrue(cc) {
				return branchNotTaken
			}
			return inProgress
		},
		func(c *CPU) stepResult { c.tmp16 = uint16(c.bus.Read(c.SP)); c.SP++; return inProgress },
		func(c *CPU) stepResult { c.tmp16 |= uint16(c.bus.Read(c.SP)) << 8; c.SP++; return inProgress },
		func(c *CPU) stepResult { c.PC = c.tmp16; return finished },
	}
}

func retSteps() []step {
	return []step{
		func(c *CPU) stepResult { c.tmp16 = uint16(c.bus.Read(c.SP)); c.SP++; return inProgress },
		func(c *CPU) stepResult { c.tmp16 |= uint16(c.bus.Read(c.SP)) << 8; c.SP++; return inProgress },
		func(c *CPU) stepResult { c.PC = c.tmp16; return finished },
	}
}

func retiSteps() []step {
	return []step{
		func(c *CPU) stepResult { c.tmp16 = uint16(c.bus.Read(c.SP)); c.SP++; return inProgress },
		func(c *CPU) stepResult { c.tmp16 |= uint16(c.bus.Read(c.SP)) << 8; c.SP++; return inProgress },
		func(c *CPU) stepResult {
			c.PC = c.tmp16
			c.irq.IME = interrupts.Enabled
			return finished
		},
	}
}

func ldSPHL() []step {
	return []step{func(c *CPU) stepResult { c.SP = c.HL(); return finished }}
}

func jpCC(y uint8) []step {
	return []step{
		func(c *CPU) stepResult { c.tmp16 = uint16(c.readPC()); return inProgress },
		func(c *CPU) stepResult {
			c.tmp16 |= uint16(c.readPC()) << 8
			if !c.condTrue(y) {
				return branchNotTaken
			}
			return inProgress
		},
		func(c *CPU) stepResult { c.PC = c.tmp16; return finished },
	}
}

func ldCIndA() []step {
	return []step{func(c *CPU) stepResult { c.bus.Write(0xFF00+uint16(c.C), c.A); return finished }}
}

func ldACInd() []step {
	return []step{func(c *CPU) stepResult { c.A = c.bus.Read(0xFF00 + uint16(c.C)); return finished }}
}

func ldNNA() []step {
	return []step{
		func(c *CPU) stepResult { c.tmp16 = uint16(c.readPC()); return inProgress },
		func(c *CPU) stepResult { c.tmp16 |= uint16(c.readPC()) << 8; return inProgress },
		func(c *CPU) stepResult { c.bus.Write(c.tmp16, c.A); return finished },
	}
}

func ldANN() []step {
	return []step{
		func(c *CPU) stepResult { c.tmp16 = uint16(c.readPC()); return inProgress },
		func(c *CPU) stepResult { c.tmp16 |= uint16(c.readPC()) << 8; return inProgress },
		func(c *CPU) stepResult { c.A = c.bus.Read(c.tmp16); return finished },
	}
}

func jpNN() []step {
	return []step{
		func(c *CPU) stepResult { c.tmp16 = uint16(c.readPC()); return inProgress },
		func(c *CPU) stepResult { c.tmp16 |= uint16(c.readPC()) << 8; return inProgress },
		func(c *CPU) stepResult { c.PC = c.tmp16; return finished },
	}
}

func ldhNA() []step {
	return []step{
		func(c *CPU) stepResult { c.tmp8 = c.readPC(); return inProgress },
		func(c *CPU) stepResult { c.bus.Write(0xFF00+uint16(c.tmp8), c.A); return finished },
	}
}

func ldhAN() []step {
	return []step{
		func(c *CPU) stepResult { c.tmp8 = c.readPC(); return inProgress },
		func(c *CPU) stepResult { c.A = c.bus.Read(0xFF00 + uint16(c.tmp8)); return finished },
	}
}

func addSPE() []step {
	return []step{
		func(c *CPU) stepResult { c.tmp8 = c.readPC(); return inProgress },
		func(c *CPU) stepResult { c.tmp16 = c.addSPSigned(int8(c.tmp8)); return inProgress },
		func(c *CPU) stepResult { c.SP = c.tmp16; return finished },
	}
}

func ldHLSPE() []step {
	return []step{
		func(c *CPU) stepResult { c.tmp8 = c.readPC(); return inProgress },
		func(c *CPU) stepResult { c.SetHL(c.addSPSigned(int8(c.tmp8))); return finished },
	}
}

func popRP2(r reg16Stack) []step {
	return []step{
		func(c *CPU) stepResult { c.tmp16 = uint16(c.bus.Read(c.SP)); c.SP++; return inProgress },
		func(c *CPU) stepResult {
			c.tmp16 |= uint16(c.bus.Read(c.SP)) << 8
			c.SP++
			c.set16Stack(r, c.tmp16)
			return finished
		},
	}
}

func pushRP2(r reg16Stack) []step {
	return []step{
		func(c *CPU) stepResult { return inProgress }, // internal delay
		func(c *CPU) stepResult {
			c.SP--
			c.bus.Write(c.SP, uint8(c.get16Stack(r)>>8))
			return inProgress
		},
		func(c *CPU) stepResult {
			c.SP--
			c.bus.Write(c.SP, uint8(c.get16Stack(r)))
			return finished
		},
	}
}

// callCC reads both operand bytes unconditionally (the PC must clear
// them regardless), then only pays the push cost if taken: 3 cycles
// total untaken, 6 taken.
func callCC(y uint8) []step {
	return []step{
		func(c *CPU) stepResult { c.tmp16 = uint16(c.readPC()); return inProgress },
		func(c *CPU) stepResult {
			c.tmp16 |= uint16(c.readPC()) << 8
			if !c.condTrue(y) {
				return branchNotTaken
			}
			return inProgress
		},
		func(c *CPU) stepResult { return inProgress }, // internal delay
		func(c *CPU) stepResult {
			c.SP--
			c.bus.Write(c.SP, uint8(c.PC>>8))
			return inProgress
		},
		func(c *CPU) stepResult {
			c.SP--
			c.bus.Write(c.SP, uint8(c.PC))
			c.PC = c.tmp16
			return finished
		},
	}
}

func callSteps() []step {
	return []step{
		func(c *CPU) stepResult { c.tmp16 = uint16(c.readPC()); return inProgress },
		func(c *CPU) stepResult { c.tmp16 |= uint16(c.readPC()) << 8; return inProgress },
		func(c *CPU) stepResult { return inProgress }, // internal delay
		func(c *CPU) stepResult {
			c.SP--
			c.bus.Write(c.SP, uint8(c.PC>>8))
			return inProgress
		},
		func(c *CPU) stepResult {
			c.SP--
			c.bus.Write(c.SP, uint8(c.PC))
			c.PC = c.tmp16
			return finished
		},
	}
}

func rstSteps(vector uint8) []step {
	return []step{
		func(c *CPU) stepResult { return inProgress }, // internal delay
		func(c *CPU) stepResult {
			c.SP--
			c.bus.Write(c.SP, uint8(c.PC>>8))
			return inProgress
		},
		func(c *CPU) stepResult {
			c.SP--
			c.bus.Write(c.SP, uint8(c.PC))
			c.PC = uint16(vector)
			return finished
		},
	}
}
