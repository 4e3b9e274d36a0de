// Package bus implements the central address decoder: work RAM, HRAM,
// the boot ROM overlay, OAM DMA and GBC HDMA, and the I/O register
// directory that routes 0xFF00-0xFF7F (plus IE/IF) to every other
// subsystem. It is the single shared mutable object the CPU, PPU and
// APU observe each other's writes through.
package bus

import (
	"github.com/thelolagemann/gomeboy/internal/apu"
	"github.com/thelolagemann/gomeboy/internal/cartridge"
	"github.com/thelolagemann/gomeboy/internal/cheats"
	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/joypad"
	"github.com/thelolagemann/gomeboy/internal/ppu"
	"github.com/thelolagemann/gomeboy/internal/serial"
	"github.com/thelolagemann/gomeboy/internal/timer"
	"github.com/thelolagemann/gomeboy/internal/types"
)

// SpeedSwitcher is implemented by the CPU: KEY1 writes arm a pending
// double-speed toggle that the CPU itself resolves on the next STOP.
type SpeedSwitcher interface {
	RequestSpeedSwitch(v uint8)
	DoubleSpeed() bool
}

// Bus owns every addressable byte of the machine outside the CPU's
// own registers.
type Bus struct {
	cart  *cartridge.Cartridge
	ppu   *ppu.PPU
	apu   *apu.APU
	timer *timer.Controller
	pad   *joypad.State
	ser   *serial.Controller
	irq   *interrupts.Controller
	cheat *cheats.Set
	cpu   SpeedSwitcher

	cgb bool

	wram     [8][0x1000]uint8
	wramBank uint8 // SVBK low 3 bits, 0 treated as 1

	hram [127]uint8

	bootROM       []byte
	bootROMMapped bool

	dma  oamDMA
	hdma hdmaController
}

// Config bundles the already-constructed subsystems a Bus wires
// together; the builder assembles these independently so each package
// stays free of the others' imports.
type Config struct {
	Cart    *cartridge.Cartridge
	PPU     *ppu.PPU
	APU     *apu.APU
	Timer   *timer.Controller
	Joypad  *joypad.State
	Serial  *serial.Controller
	IRQ     *interrupts.Controller
	Cheats  *cheats.Set
	CPU     SpeedSwitcher
	CGB     bool
	BootROM []byte
}

func New(cfg Config) *Bus {
	b := &Bus{
		cart:    cfg.Cart,
		ppu:     cfg.PPU,
		apu:     cfg.APU,
		timer:   cfg.Timer,
		pad:     cfg.Joypad,
		ser:     cfg.Serial,
		irq:     cfg.IRQ,
		cheat:   cfg.Cheats,
		cpu:     cfg.CPU,
		cgb:     cfg.CGB,
		bootROM: cfg.BootROM,
	}
	b.bootROMMapped = len(cfg.BootROM) > 0
	b.wramBank = 1
	return b
}

// Step advances the DMA engines by one machine cycle. Called before
// the CPU's own step each tick, per the fixed per-tick ordering.
func (b *Bus) Step() {
	b.dma.step(b)
	b.hdma.stepGeneralPurpose(b)
	b.cart.Tick()
}

// StartHBlankDMA is called by the PPU-driving facade at the start of
// every HBlank; a no-op unless an HBlank-mode HDMA transfer is active.
func (b *Bus) StartHBlankDMA() {
	b.hdma.stepHBlank(b)
}

// DMAActive reports whether OAM DMA currently owns the bus (CPU reads
// outside HRAM/IE/IF return 0xFF, writes are dropped).
func (b *Bus) DMAActive() bool { return b.dma.active }

// GPHDMAStallCycles returns the number of machine cycles a just-
// triggered general-purpose HDMA transfer stalls the CPU for, or 0 if
// none was just triggered. The facade checks this once per tick.
func (b *Bus) GPHDMAStallCycles() int {
	return b.hdma.consumeStall()
}

func (b *Bus) wramIndex(addr uint16) (bank int, off uint16) {
	if addr < 0xD000 {
		return 0, addr - 0xC000
	}
	n := int(b.wramBank)
	if n == 0 {
		n = 1
	}
	return n, addr - 0xD000
}

func (b *Bus) Read(addr uint16) uint8 {
	if b.dma.active && !dmaExempt(addr) {
		return 0xFF
	}
	switch {
	case addr < 0x8000:
		if b.bootROMMapped && inBootROM(addr, b.cgb) {
			return b.bootROM[addr]
		}
		return b.cheat.Apply(addr, b.cart.ReadROM(addr))
	case addr < 0xA000:
		return b.ppu.ReadVRAM(addr)
	case addr < 0xC000:
		return b.cart.ReadRAM(addr)
	case addr < 0xD000:
		bank, off := b.wramIndex(addr)
		return b.wram[bank][off]
	case addr < 0xE000:
		bank, off := b.wramIndex(addr)
		return b.wram[bank][off]
	case addr < 0xFE00: // echo RAM mirrors 0xC000-0xDDFF
		return b.Read(addr - 0x2000)
	case addr < 0xFEA0:
		return b.ppu.ReadOAM(addr)
	case addr < 0xFF00:
		return 0xFF // unusable region
	case addr < 0xFF80:
		return b.readIO(addr)
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	default:
		return b.irq.ReadIE()
	}
}

func (b *Bus) Write(addr uint16, v uint8) {
	if b.dma.active && !dmaExempt(addr) {
		return
	}
	switch {
	case addr < 0x8000:
		b.cart.WriteROM(addr, v)
	case addr < 0xA000:
		b.ppu.WriteVRAM(addr, v)
	case addr < 0xC000:
		b.cart.WriteRAM(addr, v)
	case addr < 0xD000:
		bank, off := b.wramIndex(addr)
		b.wram[bank][off] = v
	case addr < 0xE000:
		bank, off := b.wramIndex(addr)
		b.wram[bank][off] = v
	case addr < 0xFE00:
		b.Write(addr-0x2000, v)
	case addr < 0xFEA0:
		b.ppu.WriteOAM(addr, v)
	case addr < 0xFF00:
		// unusable region, writes dropped
	case addr < 0xFF80:
		b.writeIO(addr, v)
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = v
	default:
		b.irq.WriteIE(v)
	}
}

// dmaExempt reports whether addr remains accessible to the CPU while
// OAM DMA owns the rest of the bus: HRAM, IE/IF, and DMA's own
// trigger register (which hardware allows retriggering).
func dmaExempt(addr uint16) bool {
	return addr >= 0xFF80 && addr <= 0xFFFE || addr == types.IE || addr == types.IF || addr == types.DMA
}

func inBootROM(addr uint16, cgb bool) bool {
	if cgb {
		return addr < 0x100 || (addr >= 0x200 && addr < 0x900)
	}
	return addr < 0x100
}

func (b *Bus) readIO(addr uint16) uint8 {
	switch {
	case addr == types.JOYP:
		return b.pad.Read()
	case addr == types.SB:
		return b.ser.ReadSB()
	case addr == types.SC:
		return b.ser.ReadSC()
	case addr == types.DIV:
		return b.timer.ReadDIV()
	case addr == types.TIMA:
		return b.timer.ReadTIMA()
	case addr == types.TMA:
		return b.timer.ReadTMA()
	case addr == types.TAC:
		return b.timer.ReadTAC()
	case addr == types.IF:
		return b.irq.ReadIF()
	case addr >= types.NR10 && addr <= types.NR52:
		return b.apu.ReadRegister(addr)
	case addr >= types.WaveRAMStart && addr <= types.WaveRAMEnd:
		return b.apu.ReadRegister(addr)
	case addr >= types.LCDC && addr <= types.WX:
		return b.ppu.ReadRegister(addr)
	case addr == types.KEY1:
		v := uint8(0x7E)
		if b.cpu != nil && b.cpu.DoubleSpeed() {
			v |= 0x80
		}
		return v
	case addr == types.VBK, addr == types.BCPS, addr == types.BCPD, addr == types.OCPS, addr == types.OCPD:
		return b.ppu.ReadRegister(addr)
	case addr == types.BDIS:
		return 0xFF
	case addr == types.HDMA5:
		return b.hdma.readHDMA5()
	case addr == types.SVBK:
		if !b.cgb {
			return 0xFF
		}
		return b.wramBank | 0xF8
	default:
		return 0xFF
	}
}

func (b *Bus) writeIO(addr uint16, v uint8) {
	switch {
	case addr == types.JOYP:
		b.pad.Write(v)
	case addr == types.SB:
		b.ser.WriteSB(v)
	case addr == types.SC:
		b.ser.WriteSC(v)
	case addr == types.DIV:
		b.timer.WriteDIV()
	case addr == types.TIMA:
		b.timer.WriteTIMA(v)
	case addr == types.TMA:
		b.timer.WriteTMA(v)
	case addr == types.TAC:
		b.timer.WriteTAC(v)
	case addr == types.IF:
		b.irq.WriteIF(v)
	case addr == types.DMA:
		b.dma.start(v)
	case addr >= types.NR10 && addr <= types.NR52:
		b.apu.WriteRegister(addr, v)
	case addr >= types.WaveRAMStart && addr <= types.WaveRAMEnd:
		b.apu.WriteRegister(addr, v)
	case addr >= types.LCDC && addr <= types.WX:
		b.ppu.WriteRegister(addr, v)
	case addr == types.KEY1:
		if b.cpu != nil {
			b.cpu.RequestSpeedSwitch(v)
		}
	case addr == types.VBK, addr == types.BCPS, addr == types.BCPD, addr == types.OCPS, addr == types.OCPD:
		b.ppu.WriteRegister(addr, v)
	case addr == types.BDIS:
		if v != 0 {
			b.bootROMMapped = false
		}
	case addr == types.HDMA1:
		b.hdma.writeSrcHigh(v)
	case addr == types.HDMA2:
		b.hdma.writeSrcLow(v)
	case addr == types.HDMA3:
		b.hdma.writeDstHigh(v)
	case addr == types.HDMA4:
		b.hdma.writeDstLow(v)
	case addr == types.HDMA5:
		b.hdma.writeHDMA5(v, b)
	case addr == types.SVBK:
		if b.cgb {
			b.wramBank = v & 0x07
		}
	}
}

func (b *Bus) Save(st *types.State) {
	st.WriteBool(b.bootROMMapped)
	for i := range b.wram {
		st.WriteData(b.wram[i][:])
	}
	st.Write8(b.wramBank)
	st.WriteData(b.hram[:])
	b.dma.save(st)
	b.hdma.save(st)
}

func (b *Bus) Load(st *types.State) {
	b.bootROMMapped = st.ReadBool()
	for i := range b.wram {
		st.ReadData(b.wram[i][:])
	}
	b.wramBank = st.Read8()
	st.ReadData(b.hram[:])
	b.dma.load(st)
	b.hdma.load(st)
}
