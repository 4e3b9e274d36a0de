package cpu

// decode turns an opcode byte into the sequence of micro-steps still
// needed to complete the instruction, using the standard x/y/z/p/q
// bit-field partition (x=op>>6&3, y=op>>3&7, z=op&7, p=y>>1, q=y&1)
// confirmed against the disassembler in the reference Rust port of
// this same core. Forms that complete within the opcode fetch's own
// cycle (register-only ALU, 8-bit loads between registers, the
// accumulator rotate group) are executed here directly and return no
// further steps; everything that needs another bus access or internal
// delay cycle returns the steps for it.
func (c *CPU) decode(op uint8) []step {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		switch z {
		case 0:
			switch y {
			case 0:
				return nil // NOP
			case 1:
				return ldNNSP()
			case 2:
				c.stop()
				return nil
			case 3:
				return jrUnconditional()
			default:
				return jrConditional(y - 4)
			}
		case 1:
			if q == 0 {
				return ldRPNN(reg16(p))
			}
			return addHLRP(reg16(p))
		case 2:
			return ldIndirectAcc(p, q)
		case 3:
			if q == 0 {
				return incRP(reg16(p))
			}
			return decRP(reg16(p))
		case 4:
			return c.incR8(reg8(y))
		case 5:
			return c.decR8(reg8(y))
		case 6:
			return ldRN(reg8(y))
		case 7:
			c.accumulatorOp(y)
			return nil
		}
	case 1:
		if z == 6 && y == 6 {
			c.halt()
			return nil
		}
		return c.ldRR(reg8(y), reg8(z))
	case 2:
		return c.aluR(y, reg8(z))
	case 3:
		switch z {
		case 0:
			switch {
			case y <= 3:
				return retCC(y)
			case y == 4:
				return ldhNA()
			case y == 5:
				return addSPE()
			case y == 6:
				return ldhAN()
			default:
				return ldHLSPE()
			}
		case 1:
			if q == 0 {
				return popRP2(reg16Stack(p))
			}
			switch p {
			case 0:
				return retSteps()
			case 1:
				return retiSteps()
			case 2:
				c.PC = c.HL()
				return nil
			default:
				return ldSPHL()
			}
		case 2:
			switch {
			case y <= 3:
				return jpCC(y)
			case y == 4:
				return ldCIndA()
			case y == 5:
				return ldNNA()
			case y == 6:
				return ldACInd()
			default:
				return ldANN()
			}
		case 3:
			switch y {
			case 0:
				return jpNN()
			case 6:
				c.di()
				return nil
			case 7:
				c.ei()
				return nil
			}
			c.lock(op)
			return nil
		case 4:
			if y <= 3 {
				return callCC(y)
			}
			c.lock(op)
			return nil
		case 5:
			if q == 0 {
				return pushRP2(reg16Stack(p))
			}
			if p == 0 {
				return callSteps()
			}
			c.lock(op)
			return nil
		case 6:
			return aluN(y)
		case 7:
			return rstSteps(y * 8)
		}
	}
	c.lock(op)
	return nil
}

// lock enters the terminal locked state an illegal opcode causes on real
// hardware: non-CPU components keep ticking but no further instruction
// executes. Logged here since it is an invariant violation rather than
// routine I/O - the one core call site that uses the CPU's logger.
func (c *CPU) lock(op uint8) {
	c.Locked = true
	if c.log != nil {
		c.log.WithField("opcode", op).Error("illegal opcode, CPU locked")
	}
}

func (c *CPU) condTrue(cc uint8) bool {
	switch cc {
	case 0:
		return !c.flag(FlagZero)
	case 1:
		return c.flag(FlagZero)
	case 2:
		return !c.flag(FlagCarry)
	default:
		return c.flag(FlagCarry)
	}
}
