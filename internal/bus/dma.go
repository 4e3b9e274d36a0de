package bus

import "github.com/thelolagemann/gomeboy/internal/types"

// oamDMA copies 160 bytes from (src<<8)+i to OAM over 160 machine
// cycles, one byte per cycle. While active the CPU only sees HRAM and
// IE/IF; everything else reads 0xFF.
type oamDMA struct {
	active bool
	src    uint16
	index  uint8
}

// start begins a new transfer, retriggering (restarting from byte 0)
// if one was already in progress - real hardware allows this.
func (d *oamDMA) start(v uint8) {
	d.active = true
	d.src = uint16(v) << 8
	d.index = 0
}

func (d *oamDMA) step(b *Bus) {
	if !d.active {
		return
	}
	v := d.sourceByte(b, d.src+uint16(d.index))
	b.ppu.WriteOAMRaw(d.index, v)
	d.index++
	if d.index == 160 {
		d.active = false
	}
}

// sourceByte reads the DMA source directly, bypassing the bus's own
// DMA-active gating (the DMA engine is the one reader allowed to see
// through its own lockout) and the cheat ROM-patch layer, which only
// applies to CPU-issued fetches.
func (d *oamDMA) sourceByte(b *Bus, addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return b.cart.ReadROM(addr)
	case addr < 0xA000:
		return b.ppu.VRAM(int(b.ppu.ReadRegister(types.VBK) & 1))[addr-0x8000]
	case addr < 0xC000:
		return b.cart.ReadRAM(addr)
	case addr < 0xE000:
		bank, off := b.wramIndex(addr)
		return b.wram[bank][off]
	default:
		bank, off := b.wramIndex(addr - 0x2000)
		return b.wram[bank][off]
	}
}

func (d *oamDMA) save(st *types.State) {
	st.WriteBool(d.active)
	st.Write16(d.src)
	st.Write8(d.index)
}

func (d *oamDMA) load(st *types.State) {
	d.active = st.ReadBool()
	d.src = st.Read16()
	d.index = st.Read8()
}

// hdmaController implements the GBC VRAM-DMA unit (HDMA1-5): a
// general-purpose mode that stalls the CPU for the whole transfer, and
// an HBlank mode that copies 16 bytes at the start of each HBlank.
type hdmaController struct {
	srcHigh, srcLow uint8 // as last written to HDMA1/2, for register read-back
	dstHigh, dstLow uint8 // as last written to HDMA3/4

	src uint16 // live cursor, advanced as bytes are copied
	dst uint16

	active    bool
	hblank    bool
	remaining uint16 // in 16-byte units, post-decrement; only meaningful while active

	pendingStall int
}

func (h *hdmaController) writeSrcHigh(v uint8) { h.srcHigh = v }
func (h *hdmaController) writeSrcLow(v uint8)  { h.srcLow = v & 0xF0 }
func (h *hdmaController) writeDstHigh(v uint8) { h.dstHigh = v & 0x1F }
func (h *hdmaController) writeDstLow(v uint8)  { h.dstLow = v & 0xF0 }

func (h *hdmaController) source() uint16 {
	return uint16(h.srcHigh)<<8 | uint16(h.srcLow)
}

func (h *hdmaController) dest() uint16 {
	return 0x8000 | uint16(h.dstHigh)<<8 | uint16(h.dstLow)
}

// readHDMA5 implements the redesigned bit-7 semantics: 0 while an
// HBlank transfer is active, 1 once completed or cancelled, with the
// lower 7 bits showing remaining 16-byte units minus one while active.
func (h *hdmaController) readHDMA5() uint8 {
	if h.active && h.hblank {
		return uint8(h.remaining & 0x7F)
	}
	return 0xFF
}

func (h *hdmaController) writeHDMA5(v uint8, b *Bus) {
	length := uint16(v&0x7F) + 1
	mode := v&0x80 != 0

	if h.active && h.hblank && !mode {
		// bit 7 = 0 written during an active HBlank transfer cancels it.
		h.active = false
		return
	}

	h.remaining = length - 1
	h.active = true
	h.hblank = mode
	h.src = h.source()
	h.dst = h.dest()
	if !mode {
		h.runGeneralPurpose(b, length)
	}
}

// runGeneralPurpose performs the whole transfer immediately and arms
// the CPU stall the facade must honor: (length/16)*8 cycles per spec.
func (h *hdmaController) runGeneralPurpose(b *Bus, length16 uint16) {
	h.copy(b, length16*16)
	h.active = false
	h.pendingStall = int(length16) * 8
}

func (h *hdmaController) stepGeneralPurpose(b *Bus) {
	// runGeneralPurpose performs the copy synchronously on trigger and
	// reports its stall through consumeStall; nothing to do per-cycle.
}

// stepHBlank copies one 16-byte block; called once per HBlank entry.
func (h *hdmaController) stepHBlank(b *Bus) {
	if !h.active || !h.hblank {
		return
	}
	h.copy(b, 16)
	if h.remaining == 0 {
		h.active = false
		return
	}
	h.remaining--
}

// copy moves n bytes straight through the PPU's raw VRAM banks for the
// destination, bypassing the mode-gated ReadVRAM/WriteVRAM a CPU
// access would get: HDMA has its own exclusive bus ownership for the
// duration of the transfer, independent of the current PPU mode.
func (h *hdmaController) copy(b *Bus, n uint16) {
	for i := uint16(0); i < n; i++ {
		v := h.readSrc(b, h.src)
		b.ppu.VRAM(int(b.ppu.ReadRegister(types.VBK) & 1))[h.dst-0x8000] = v
		h.src++
		h.dst++
		if h.dst > 0x9FFF {
			h.dst = 0x8000
		}
	}
	h.srcHigh = uint8(h.src >> 8)
	h.srcLow = uint8(h.src & 0xF0)
	h.dstHigh = uint8((h.dst >> 8) & 0x1F)
	h.dstLow = uint8(h.dst & 0xF0)
}

func (h *hdmaController) readSrc(b *Bus, addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return b.cart.ReadROM(addr)
	case addr < 0xA000:
		return b.ppu.VRAM(int(b.ppu.ReadRegister(types.VBK) & 1))[addr-0x8000]
	case addr < 0xC000:
		return b.cart.ReadRAM(addr)
	case addr < 0xE000:
		bank, off := b.wramIndex(addr)
		return b.wram[bank][off]
	default:
		bank, off := b.wramIndex(addr - 0x2000)
		return b.wram[bank][off]
	}
}

func (h *hdmaController) consumeStall() int {
	v := h.pendingStall
	h.pendingStall = 0
	return v
}

func (h *hdmaController) save(st *types.State) {
	st.Write8(h.srcHigh)
	st.Write8(h.srcLow)
	st.Write8(h.dstHigh)
	st.Write8(h.dstLow)
	st.Write16(h.src)
	st.Write16(h.dst)
	st.WriteBool(h.active)
	st.WriteBool(h.hblank)
	st.Write16(h.remaining)
}

func (h *hdmaController) load(st *types.State) {
	h.srcHigh = st.Read8()
	h.srcLow = st.Read8()
	h.dstHigh = st.Read8()
	h.dstLow = st.Read8()
	h.src = st.Read16()
	h.dst = st.Read16()
	h.active = st.ReadBool()
	h.hblank = st.ReadBool()
	h.remaining = st.Read16()
}
