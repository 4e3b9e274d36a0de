// Package ppu implements the scanline-mode pixel processing unit: the
// Mode 2/3/0/1 timing state machine, background/window/sprite
// rendering and DMG/GBC palettes. Rendering computes a full scanline's
// worth of pixels at the Mode 3 -> Mode 0 boundary rather than
// interleaving two hardware FIFOs dot-by-dot; timing, STAT interrupt
// edges and LCD-disable behavior still follow real hardware.
package ppu

import (
	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/types"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// Mode is one of the four values the STAT register's low two bits report.
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMScan
	ModeDraw
)

const (
	oamScanDots = 80
	drawDots    = 172
	lineDots    = 456
	vblankLine  = 144
	lastLine    = 153
)

// PPU owns VRAM, OAM, the LCD/palette registers and the framebuffer.
type PPU struct {
	LCDC, STAT             uint8
	SCY, SCX, WY, WX       uint8
	LY, LYC                uint8
	BGP, OBP0, OBP1        uint8

	mode  Mode
	dot   uint16
	wline uint8 // internal window line counter, independent of LY

	vram     [2][0x2000]uint8
	vramBank uint8
	oam      [160]uint8

	bgPalette  cgbPalette
	objPalette cgbPalette

	cgb bool
	irq *interrupts.Controller

	Framebuffer [ScreenHeight][ScreenWidth][3]uint8
	drawFlag    bool
	statLine    bool
}

func New(model types.Model, irq *interrupts.Controller) *PPU {
	return &PPU{
		irq: irq,
		cgb: model == types.ModelCGB,
		STAT: 0x80,
	}
}

// Tick advances the PPU by the given number of dots (always real
// dots, regardless of GBC double-speed mode - the facade accounts for
// that before calling in).
func (p *PPU) Tick(dots uint8) {
	if p.LCDC&0x80 == 0 {
		return
	}
	for i := uint8(0); i < dots; i++ {
		p.tickOne()
	}
}

func (p *PPU) tickOne() {
	p.dot++
	if p.LY < vblankLine {
		switch p.dot {
		case 1:
			p.setMode(ModeOAMScan)
		case oamScanDots + 1:
			p.setMode(ModeDraw)
		case oamScanDots + drawDots + 1:
			p.renderScanline()
			p.setMode(ModeHBlank)
		}
	}
	if p.dot == lineDots {
		p.dot = 0
		p.LY++
		switch {
		case p.LY == vblankLine:
			p.setMode(ModeVBlank)
			p.irq.Request(types.InterruptVBlank)
			p.drawFlag = true
		case p.LY > lastLine:
			p.LY = 0
			p.wline = 0
		}
	}
	p.checkStatInterrupts()
}

func (p *PPU) setMode(m Mode) {
	p.mode = m
	p.checkStatInterrupts()
}

func (p *PPU) lycMatch() bool { return p.LY == p.LYC }

// checkStatInterrupts implements the classic "STAT IRQ is the OR of
// four independently-enabled conditions, edge-triggered" behavior:
// the interrupt fires only on the line->line transition, not on every
// cycle the condition holds.
func (p *PPU) checkStatInterrupts() {
	line := false
	if p.STAT&0x40 != 0 && p.lycMatch() {
		line = true
	}
	switch p.mode {
	case ModeHBlank:
		line = line || p.STAT&0x08 != 0
	case ModeVBlank:
		line = line || p.STAT&0x10 != 0
	case ModeOAMScan:
		line = line || p.STAT&0x20 != 0
	}
	if line && !p.statLine {
		p.irq.Request(types.InterruptSTAT)
	}
	p.statLine = line
}

// Mode reports the current scanline mode, so the bus-owning facade can
// detect the Mode 3 -> Mode 0 edge and pace HBlank-mode HDMA.
func (p *PPU) Mode() Mode { return p.mode }

// ConsumeDrawFlag reports and clears whether a new frame completed.
func (p *PPU) ConsumeDrawFlag() bool {
	v := p.drawFlag
	p.drawFlag = false
	return v
}

func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case types.LCDC:
		return p.LCDC
	case types.STAT:
		v := p.STAT & 0x78
		if p.lycMatch() {
			v |= 0x04
		}
		return v | uint8(p.mode) | 0x80
	case types.SCY:
		return p.SCY
	case types.SCX:
		return p.SCX
	case types.LY:
		return p.LY
	case types.LYC:
		return p.LYC
	case types.BGP:
		return p.BGP
	case types.OBP0:
		return p.OBP0
	case types.OBP1:
		return p.OBP1
	case types.WY:
		return p.WY
	case types.WX:
		return p.WX
	case types.VBK:
		return p.vramBank | 0xFE
	case types.BCPS:
		return p.bgPalette.readIndex()
	case types.BCPD:
		return p.bgPalette.readData()
	case types.OCPS:
		return p.objPalette.readIndex()
	case types.OCPD:
		return p.objPalette.readData()
	}
	return 0xFF
}

func (p *PPU) WriteRegister(addr uint16, v uint8) {
	switch addr {
	case types.LCDC:
		wasOn := p.LCDC&0x80 != 0
		p.LCDC = v
		if wasOn && v&0x80 == 0 {
			p.LY = 0
			p.dot = 0
			p.mode = ModeHBlank
			p.Framebuffer = [ScreenHeight][ScreenWidth][3]uint8{}
			p.drawFlag = true
		}
	case types.STAT:
		p.STAT = (p.STAT & 0x87) | (v & 0x78)
	case types.SCY:
		p.SCY = v
	case types.SCX:
		p.SCX = v
	case types.LYC:
		p.LYC = v
		p.checkStatInterrupts()
	case types.BGP:
		p.BGP = v
	case types.OBP0:
		p.OBP0 = v
	case types.OBP1:
		p.OBP1 = v
	case types.WY:
		p.WY = v
	case types.WX:
		p.WX = v
	case types.VBK:
		if p.cgb {
			p.vramBank = v & 1
		}
	case types.BCPS:
		p.bgPalette.writeIndex(v)
	case types.BCPD:
		if p.cgb {
			p.bgPalette.writeData(v)
		}
	case types.OCPS:
		p.objPalette.writeIndex(v)
	case types.OCPD:
		if p.cgb {
			p.objPalette.writeData(v)
		}
	}
}

func (p *PPU) ReadVRAM(addr uint16) uint8 {
	if p.mode == ModeDraw {
		return 0xFF
	}
	return p.vram[p.vramBank][addr-0x8000]
}

func (p *PPU) WriteVRAM(addr uint16, v uint8) {
	if p.mode == ModeDraw {
		return
	}
	p.vram[p.vramBank][addr-0x8000] = v
}

// VRAM exposes the raw bank array for the bus's HDMA controller, which
// copies directly without going through the forbidden-region checks a
// CPU-issued write would get.
func (p *PPU) VRAM(bank int) *[0x2000]uint8 { return &p.vram[bank] }

func (p *PPU) ReadOAM(addr uint16) uint8 {
	if p.mode == ModeOAMScan || p.mode == ModeDraw {
		return 0xFF
	}
	return p.oam[addr-0xFE00]
}

func (p *PPU) WriteOAM(addr uint16, v uint8) {
	if p.mode == ModeOAMScan || p.mode == ModeDraw {
		return
	}
	p.oam[addr-0xFE00] = v
}

// WriteOAMRaw bypasses mode gating: used by OAM DMA, which has
// exclusive bus access regardless of the PPU's current mode.
func (p *PPU) WriteOAMRaw(offset uint8, v uint8) { p.oam[offset] = v }

func (p *PPU) Save(st *types.State) {
	st.Write8(p.LCDC)
	st.Write8(p.STAT)
	st.Write8(p.SCY)
	st.Write8(p.SCX)
	st.Write8(p.WY)
	st.Write8(p.WX)
	st.Write8(p.LY)
	st.Write8(p.LYC)
	st.Write8(p.BGP)
	st.Write8(p.OBP0)
	st.Write8(p.OBP1)
	st.Write8(uint8(p.mode))
	st.Write16(p.dot)
	st.Write8(p.wline)
	st.Write8(p.vramBank)
	st.WriteData(p.vram[0][:])
	st.WriteData(p.vram[1][:])
	st.WriteData(p.oam[:])
	st.WriteData(p.bgPalette.ram[:])
	st.Write8(p.bgPalette.index)
	st.WriteBool(p.bgPalette.incrementing)
	st.WriteData(p.objPalette.ram[:])
	st.Write8(p.objPalette.index)
	st.WriteBool(p.objPalette.incrementing)
	st.WriteBool(p.statLine)
}

func (p *PPU) Load(st *types.State) {
	p.LCDC = st.Read8()
	p.STAT = st.Read8()
	p.SCY = st.Read8()
	p.SCX = st.Read8()
	p.WY = st.Read8()
	p.WX = st.Read8()
	p.LY = st.Read8()
	p.LYC = st.Read8()
	p.BGP = st.Read8()
	p.OBP0 = st.Read8()
	p.OBP1 = st.Read8()
	p.mode = Mode(st.Read8())
	p.dot = st.Read16()
	p.wline = st.Read8()
	p.vramBank = st.Read8()
	st.ReadData(p.vram[0][:])
	st.ReadData(p.vram[1][:])
	st.ReadData(p.oam[:])
	st.ReadData(p.bgPalette.ram[:])
	p.bgPalette.index = st.Read8()
	p.bgPalette.incrementing = st.ReadBool()
	st.ReadData(p.objPalette.ram[:])
	p.objPalette.index = st.Read8()
	p.objPalette.incrementing = st.ReadBool()
	p.statLine = st.ReadBool()
}
