package cpu

import "github.com/thelolagemann/gomeboy/internal/interrupts"

// beginISR starts the five-M-cycle interrupt dispatch sequence in place
// of an opcode fetch: two internal delay cycles, a two-cycle push of PC
// onto the stack, and a final cycle that clears the flag and jumps to
// the vector. This tick (the call itself) is the first of the five.
func (c *CPU) beginISR() {
	c.irq.IME = interrupts.Disabled
	c.push(isrDelay, isrPushHigh, isrPushLow, isrJump)
}

func isrDelay(c *CPU) stepResult { return inProgress }

func isrPushHigh(c *CPU) stepResult {
	c.SP--
	c.bus.Write(c.SP, uint8(c.PC>>8))
	return inProgress
}

func isrPushLow(c *CPU) stepResult {
	c.SP--
	c.bus.Write(c.SP, uint8(c.PC))
	return inProgress
}

func isrJump(c *CPU) stepResult {
	// IE/IF are re-sampled here rather than latched back at beginISR:
	// the two push cycles above can themselves write IE if SP wrapped
	// into 0xFFFF, and software can also clear IF mid-dispatch. If
	// nothing is pending by this final cycle, the push still happened
	// but PC ends up at 0x0000 instead of any vector (the documented
	// ie_push corner case) and no flag bit is cleared.
	vector, bit := c.irq.NextVector()
	if bit == 0xFF {
		c.PC = 0x0000
		return finished
	}
	c.irq.Clear(1 << bit)
	c.PC = vector
	return finished
}

// halt puts the CPU to sleep until an interrupt is pending. When IME is
// disabled and an interrupt is already pending at the moment HALT
// executes, the documented hardware bug fires instead: the CPU does
// not actually halt, and the byte following HALT is fetched twice
// (PC fails to advance on the first fetch).
func (c *CPU) halt() {
	if c.irq.IME != interrupts.Enabled && c.irq.Pending() {
		c.haltBugNoIncrement = true
		return
	}
	c.Halted = true
}

func (c *CPU) stop() {
	// a pending speed switch is resolved in stepStopped on the next Step.
	c.Stopped = true
}

// ei schedules IME to become Enabled after the instruction following
// EI completes, not immediately - a delay counter of 2 instruction
// boundaries reproduces that: one boundary for EI's own completion,
// one for the following instruction's.
func (c *CPU) ei() {
	c.irq.IME = interrupts.Pending
	c.eiDelay = 2
}

func (c *CPU) di() { c.irq.IME = interrupts.Disabled }

// resolveEIDelay runs at every instruction boundary, before deciding
// whether to dispatch an interrupt or fetch the next opcode.
func (c *CPU) resolveEIDelay() {
	if c.eiDelay == 0 {
		return
	}
	c.eiDelay--
	if c.eiDelay == 0 && c.irq.IME == interrupts.Pending {
		c.irq.IME = interrupts.Enabled
	}
}
