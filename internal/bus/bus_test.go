package bus

import (
	"testing"

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

func romOnlyImage() []byte {
	rom := make([]byte, 0x8000)
	rom[0x147] = 0x00 // ROM only
	rom[0x148] = 0x00 // 32 KiB
	rom[0x149] = 0x00 // no RAM
	return rom
}

func newTestBus(t *testing.T, cgb bool) *Bus {
	t.Helper()
	cart, err := cartridge.New(romOnlyImage())
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	irq := interrupts.New()
	model := types.ModelDMG
	if cgb {
		model = types.ModelCGB
	}
	return New(Config{
		Cart:   cart,
		PPU:    ppu.New(model, irq),
		APU:    apu.New(44100),
		Timer:  timer.New(irq),
		Joypad: joypad.New(irq),
		Serial: serial.New(),
		IRQ:    irq,
		Cheats: &cheats.Set{},
		CGB:    cgb,
	})
}

func TestWRAMFixedBankAndEcho(t *testing.T) {
	b := newTestBus(t, false)
	b.Write(0xC010, 0x42)
	if got := b.Read(0xC010); got != 0x42 {
		t.Fatalf("WRAM bank 0 read = %#02x, want 0x42", got)
	}
	if got := b.Read(0xE010); got != 0x42 {
		t.Errorf("echo RAM read = %#02x, want 0x42 (mirrors 0xC010)", got)
	}
}

func TestWRAMBankSwitchDMGStaysFixed(t *testing.T) {
	b := newTestBus(t, false)
	b.Write(0xD000, 0x11)
	b.writeIO(types.SVBK, 0x05) // SVBK is a no-op on DMG
	if got := b.Read(0xD000); got != 0x11 {
		t.Errorf("DMG bank-1 WRAM read after ignored SVBK write = %#02x, want 0x11", got)
	}
}

func TestWRAMBankSwitchCGB(t *testing.T) {
	b := newTestBus(t, true)
	b.writeIO(types.SVBK, 0x02)
	b.Write(0xD000, 0xAA)
	b.writeIO(types.SVBK, 0x03)
	if got := b.Read(0xD000); got == 0xAA {
		t.Fatalf("bank 3 should not see bank 2's write")
	}
	b.writeIO(types.SVBK, 0x02)
	if got := b.Read(0xD000); got != 0xAA {
		t.Errorf("switching back to bank 2 lost its data: got %#02x", got)
	}
}

func TestOAMDMACopiesAndLocksBus(t *testing.T) {
	b := newTestBus(t, false)
	b.Write(0xC000, 0x12)
	b.Write(0xC001, 0x34)
	b.writeIO(types.DMA, 0xC0) // source 0xC000

	if !b.DMAActive() {
		t.Fatalf("DMA did not start")
	}
	// writes elsewhere are dropped while active, HRAM still works
	b.Write(0xFF80, 0x99)
	if got := b.Read(0xFF80); got != 0x99 {
		t.Errorf("HRAM inaccessible during OAM DMA: got %#02x", got)
	}
	if got := b.Read(0xC002); got != 0xFF {
		t.Errorf("non-exempt read during OAM DMA = %#02x, want 0xFF", got)
	}

	for i := 0; i < 160; i++ {
		b.Step()
	}
	if b.DMAActive() {
		t.Fatalf("DMA still active after 160 steps")
	}
	if got := b.ppu.ReadOAM(0xFE00); got != 0x12 {
		t.Errorf("OAM[0] = %#02x, want 0x12", got)
	}
	if got := b.ppu.ReadOAM(0xFE01); got != 0x34 {
		t.Errorf("OAM[1] = %#02x, want 0x34", got)
	}
}

func TestGeneralPurposeHDMACopiesImmediatelyAndStalls(t *testing.T) {
	b := newTestBus(t, true)
	// place 16 bytes of source data in WRAM bank 0
	for i := 0; i < 16; i++ {
		b.Write(0xC100+uint16(i), uint8(i+1))
	}
	b.writeIO(types.HDMA1, 0xC1) // src high
	b.writeIO(types.HDMA2, 0x00) // src low
	b.writeIO(types.HDMA3, 0x80) // dst high (0x8000)
	b.writeIO(types.HDMA4, 0x00)
	b.writeIO(types.HDMA5, 0x00) // length = 1*16 bytes, GP mode

	vram := b.ppu.VRAM(0)
	for i := 0; i < 16; i++ {
		if vram[i] != uint8(i+1) {
			t.Fatalf("VRAM[%d] = %#02x, want %#02x", i, vram[i], i+1)
		}
	}
	if got := b.GPHDMAStallCycles(); got != 8 {
		t.Errorf("GP HDMA stall = %d, want 8", got)
	}
	if got := b.readIO(types.HDMA5); got != 0xFF {
		t.Errorf("HDMA5 after GP completion = %#02x, want 0xFF", got)
	}
}

func TestHBlankHDMATransfersOneBlockAtATime(t *testing.T) {
	b := newTestBus(t, true)
	for i := 0; i < 32; i++ {
		b.Write(0xC200+uint16(i), uint8(0x50+i))
	}
	b.writeIO(types.HDMA1, 0xC2)
	b.writeIO(types.HDMA2, 0x00)
	b.writeIO(types.HDMA3, 0x80)
	b.writeIO(types.HDMA4, 0x00)
	b.writeIO(types.HDMA5, 0x81) // 2*16 bytes, HBlank mode

	if got := b.readIO(types.HDMA5); got != 0x01 {
		t.Fatalf("HDMA5 before any HBlank = %#02x, want 0x01 (1 block remaining)", got)
	}

	b.StartHBlankDMA() // copies block 1 of 2, one block still remains
	vram := b.ppu.VRAM(0)
	if vram[0] != 0x50 || vram[15] != 0x5F {
		t.Fatalf("first HBlank block not copied: vram[0]=%#02x vram[15]=%#02x", vram[0], vram[15])
	}
	if got := b.readIO(types.HDMA5); got != 0x00 {
		t.Errorf("HDMA5 after one of two blocks = %#02x, want 0x00 (0 remaining after this one)", got)
	}

	b.StartHBlankDMA() // copies block 2 of 2, transfer completes
	if vram[16] != 0x60 || vram[31] != 0x6F {
		t.Fatalf("second HBlank block not copied: vram[16]=%#02x vram[31]=%#02x", vram[16], vram[31])
	}
	if got := b.readIO(types.HDMA5); got != 0xFF {
		t.Errorf("HDMA5 after final block = %#02x, want 0xFF (completed)", got)
	}
}

func TestUnusableRegionReadsFF(t *testing.T) {
	b := newTestBus(t, false)
	if got := b.Read(0xFEA5); got != 0xFF {
		t.Errorf("unusable region read = %#02x, want 0xFF", got)
	}
}
