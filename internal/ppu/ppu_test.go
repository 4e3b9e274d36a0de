package ppu

import (
	"testing"

	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/types"
)

func newTestPPU() *PPU {
	return New(types.ModelDMG, interrupts.New())
}

func TestModeSequence(t *testing.T) {
	p := newTestPPU()
	p.LCDC = 0x80

	if p.mode != ModeHBlank {
		t.Fatalf("initial mode = %d, want ModeHBlank (matches real hardware's reset state)", p.mode)
	}

	p.Tick(1) // first dot of line 0 selects OAM scan
	if p.mode != ModeOAMScan {
		t.Fatalf("mode at dot 1 = %d, want ModeOAMScan", p.mode)
	}

	p.Tick(oamScanDots - 1) // dots 2..80: still scanning
	if p.mode != ModeOAMScan {
		t.Fatalf("mode at dot %d = %d, want ModeOAMScan", oamScanDots, p.mode)
	}

	p.Tick(1) // dot 81: drawing begins
	if p.mode != ModeDraw {
		t.Fatalf("mode at dot %d = %d, want ModeDraw", oamScanDots+1, p.mode)
	}

	p.Tick(drawDots) // dot 82..253: HBlank begins
	if p.mode != ModeHBlank {
		t.Fatalf("mode at dot %d = %d, want ModeHBlank", oamScanDots+drawDots+1, p.mode)
	}

	p.Tick(lineDots - (oamScanDots + drawDots + 1))
	if p.LY != 1 {
		t.Fatalf("LY after one full line = %d, want 1", p.LY)
	}
}

func TestVBlankEntryRequestsInterrupt(t *testing.T) {
	p := newTestPPU()
	p.LCDC = 0x80
	irq := p.irq
	for p.LY < vblankLine {
		p.Tick(1)
	}
	if p.mode != ModeVBlank {
		t.Fatalf("mode at LY=%d = %d, want ModeVBlank", p.LY, p.mode)
	}
	if irq.Flag&types.InterruptVBlank == 0 {
		t.Errorf("VBlank interrupt flag not set on entering line 144")
	}
}

func TestLCDDisableResetsLY(t *testing.T) {
	p := newTestPPU()
	p.LCDC = 0x80
	p.LY = 50
	p.WriteRegister(types.LCDC, 0x00)
	if p.LY != 0 {
		t.Errorf("LY after LCD disable = %d, want 0", p.LY)
	}
	if p.mode != ModeHBlank {
		t.Errorf("mode after LCD disable = %d, want ModeHBlank", p.mode)
	}
}

func TestStatInterruptIsEdgeTriggered(t *testing.T) {
	p := newTestPPU()
	p.LCDC = 0x80
	p.STAT = 0x20 // Mode2 (OAM) STAT interrupt enabled
	p.irq.Clear(types.InterruptSTAT)

	p.Tick(1) // enters OAM scan, rising edge
	if p.irq.Flag&types.InterruptSTAT == 0 {
		t.Fatalf("expected STAT interrupt on entering OAM scan")
	}
	p.irq.Clear(types.InterruptSTAT)

	p.Tick(1) // still in OAM scan, condition still true but already reported
	if p.irq.Flag&types.InterruptSTAT != 0 {
		t.Errorf("STAT interrupt refired without a falling/rising edge")
	}
}

func TestMonoPaletteDecode(t *testing.T) {
	shades := monoPalette(0xE4) // 11 10 01 00, the standard identity palette
	want := [4]uint8{0, 1, 2, 3}
	if shades != want {
		t.Errorf("monoPalette(0xE4) = %v, want %v", shades, want)
	}
}

func TestCGBPaletteRoundTrip(t *testing.T) {
	var p cgbPalette
	p.writeIndex(0x80) // auto-increment, index 0
	p.writeData(0xFF)  // low byte of color 0
	p.writeData(0x7F)  // high byte -> full white (0x7FFF)
	rgb := p.rgb(0, 0)
	if rgb != [3]uint8{0xF8, 0xF8, 0xF8} {
		t.Errorf("rgb(0,0) = %v, want near-white (5-bit channels shifted up)", rgb)
	}
}
