// Package gameboy provides the Builder and the GameBoy facade: the
// single entry point that owns every subsystem and drives them all
// through tick() in the fixed per-cycle order the rest of the core
// depends on (timer -> DMA -> CPU micro-step -> PPU -> APU).
package gameboy

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/thelolagemann/gomeboy/internal/apu"
	"github.com/thelolagemann/gomeboy/internal/bus"
	"github.com/thelolagemann/gomeboy/internal/cartridge"
	"github.com/thelolagemann/gomeboy/internal/cheats"
	"github.com/thelolagemann/gomeboy/internal/cpu"
	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/joypad"
	"github.com/thelolagemann/gomeboy/internal/ppu"
	"github.com/thelolagemann/gomeboy/internal/serial"
	"github.com/thelolagemann/gomeboy/internal/timer"
	"github.com/thelolagemann/gomeboy/internal/types"
)

// Key identifies one of the eight physical buttons a host injects
// events for.
type Key = joypad.Button

const (
	KeyRight  = joypad.Right
	KeyLeft   = joypad.Left
	KeyUp     = joypad.Up
	KeyDown   = joypad.Down
	KeyA      = joypad.A
	KeyB      = joypad.B
	KeySelect = joypad.Select
	KeyStart  = joypad.Start
)

const snapshotMagic = "GMBY"
const snapshotVersion = uint16(1)

// busAdapter breaks the CPU<->Bus construction cycle: the CPU needs a
// Bus at construction time, but the Bus needs the CPU (as a
// SpeedSwitcher) at its own construction time. The adapter is built
// first and handed to the CPU; its target is filled in once the real
// Bus exists.
type busAdapter struct{ bus *bus.Bus }

func (a *busAdapter) Read(addr uint16) uint8     { return a.bus.Read(addr) }
func (a *busAdapter) Write(addr uint16, v uint8) { a.bus.Write(addr, v) }

// GameBoy is a fully constructed machine: every subsystem plus the
// fixed tick ordering that advances them all in lockstep.
type GameBoy struct {
	cpu    *cpu.CPU
	bus    *bus.Bus
	ppu    *ppu.PPU
	apu    *apu.APU
	timer  *timer.Controller
	pad    *joypad.State
	ser    *serial.Controller
	irq    *interrupts.Controller
	cart   *cartridge.Cartridge
	cheats *cheats.Set

	model types.Model
	log   *logrus.Entry

	gpStall int // machine cycles remaining in a just-triggered GP-HDMA stall
}

// New parses rom's header, builds the matching MBC and every other
// subsystem, and returns a machine ready to tick. The model (DMG/CGB)
// is taken from the cartridge header's GBC flag unless overridden by
// WithModel.
func New(rom []byte, opts ...Option) (*GameBoy, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(rom) < 0x150 {
		return nil, newError(InvalidHeader, "rom shorter than the 0x150-byte header region", nil)
	}

	cart, err := cartridge.New(rom)
	if err != nil {
		var unsupported cartridge.UnsupportedMBCError
		if errors.As(err, &unsupported) {
			return nil, newError(UnsupportedMBC, "cartridge type byte names an unimplemented MBC", err)
		}
		return nil, newError(InvalidHeader, "malformed cartridge header", err)
	}
	if cart.Header.ROMSize > len(rom) {
		return nil, newError(RomSizeMismatch, "rom shorter than the header's own size field", nil)
	}

	if cfg.bootROM != nil && len(cfg.bootROM) != 0x100 && len(cfg.bootROM) != 0x900 {
		return nil, newError(BiosSizeMismatch, "boot rom must be 256 bytes (DMG) or 2304 bytes (CGB)", nil)
	}

	model := resolveModel(cfg.model, cart.Header)

	irq := interrupts.New()
	pad := joypad.New(irq)
	ser := serial.New()
	if cfg.serialTap != nil {
		ser.SetTap(cfg.serialTap)
	}
	tim := timer.New(irq)
	snd := apu.New(cfg.sampleRate)
	vid := ppu.New(model, irq)
	cheatSet := &cheats.Set{}

	adapter := &busAdapter{}
	cpuCore := cpu.New(adapter, irq, cfg.log)

	busCore := bus.New(bus.Config{
		Cart:    cart,
		PPU:     vid,
		APU:     snd,
		Timer:   tim,
		Joypad:  pad,
		Serial:  ser,
		IRQ:     irq,
		Cheats:  cheatSet,
		CPU:     cpuCore,
		CGB:     model == types.ModelCGB,
		BootROM: cfg.bootROM,
	})
	adapter.bus = busCore

	if cfg.saveRAM != nil {
		cart.LoadRAM(cfg.saveRAM)
	}

	if cfg.bootROM == nil {
		applyPowerOnRegisters(busCore)
	}

	if cfg.bootROM != nil {
		cpuCore.PC, cpuCore.SP = 0, 0
		cpuCore.A, cpuCore.F = 0, 0
		cpuCore.B, cpuCore.C = 0, 0
		cpuCore.D, cpuCore.E = 0, 0
		cpuCore.H, cpuCore.L = 0, 0
	} else if model == types.ModelCGB {
		cpuCore.A, cpuCore.F = 0x11, 0x80
		cpuCore.B, cpuCore.C = 0x00, 0x00
		cpuCore.D, cpuCore.E = 0xFF, 0x56
		cpuCore.H, cpuCore.L = 0x00, 0x0D
	}
	// DMG post-boot values are already cpu.New's zero-arg default.

	return &GameBoy{
		cpu:    cpuCore,
		bus:    busCore,
		ppu:    vid,
		apu:    snd,
		timer:  tim,
		pad:    pad,
		ser:    ser,
		irq:    irq,
		cart:   cart,
		cheats: cheatSet,
		model:  model,
		log:    cfg.log,
	}, nil
}

// applyPowerOnRegisters writes the values real hardware leaves behind
// once the boot ROM finishes, for the common case of skipping it
// entirely and jumping straight to 0x100. NR52 is written first so it
// powers the APU on before the rest of the NRxx writes reach it - this
// module's APU drops its non-NR52 register writes while it is powered
// off, so the order here is load-bearing, not cosmetic.
func applyPowerOnRegisters(b *bus.Bus) {
	b.Write(types.NR52, 0xF1)
	b.Write(types.NR10, 0x80)
	b.Write(types.NR11, 0xBF)
	b.Write(types.NR12, 0xF3)
	b.Write(types.NR14, 0xBF)
	b.Write(types.NR21, 0x3F)
	b.Write(types.NR22, 0x00)
	b.Write(types.NR24, 0xBF)
	b.Write(types.NR30, 0x7F)
	b.Write(types.NR31, 0xFF)
	b.Write(types.NR32, 0x9F)
	b.Write(types.NR33, 0xBF)
	b.Write(types.NR41, 0xFF)
	b.Write(types.NR42, 0x00)
	b.Write(types.NR43, 0x00)
	b.Write(types.NR50, 0x77)
	b.Write(types.NR51, 0xF3)
	b.Write(types.LCDC, 0x91)
	b.Write(types.STAT, 0x80)
	b.Write(types.BGP, 0xFC)
}

func resolveModel(requested types.Model, h cartridge.Header) types.Model {
	if requested != types.ModelAutomatic {
		return requested
	}
	if h.SupportsCGB() {
		return types.ModelCGB
	}
	return types.ModelDMG
}

// Tick advances the machine by exactly one machine cycle (4 dot clocks
// at normal speed, 2 at GBC double speed - PPU/APU always advance by
// real dots, so the facade halves the count it hands them while
// double speed is active). Must be called 1048576 times per emulated
// second (normal) or 2097152 (double speed). While a DMG CPU is in
// STOP, only the timer and bus advance.
func (g *GameBoy) Tick() {
	g.timer.Step()
	g.bus.Step()

	if g.gpStall > 0 {
		g.gpStall--
	} else {
		g.cpu.Step()
		if s := g.bus.GPHDMAStallCycles(); s > 0 {
			g.gpStall = s
		}
	}
	if g.cpu.Stopped && g.model != types.ModelCGB {
		return
	}

	dots := uint8(4)
	if g.cpu.DoubleSpeed() {
		dots = 2
	}
	prevMode := g.ppu.Mode()
	g.ppu.Tick(dots)
	if g.ppu.Mode() == ppu.ModeHBlank && prevMode != ppu.ModeHBlank {
		g.bus.StartHBlankDMA()
	}
	g.apu.Tick(dots)
}

// ConsumeDrawFlag reports, and clears, whether a new frame finished
// rendering since the last call.
func (g *GameBoy) ConsumeDrawFlag() bool { return g.ppu.ConsumeDrawFlag() }

// Framebuffer returns the most recently rendered 160x144 frame as
// row-major 24-bit RGB triples.
func (g *GameBoy) Framebuffer() *[ppu.ScreenHeight][ppu.ScreenWidth][3]uint8 {
	return &g.ppu.Framebuffer
}

// AudioSamples drains and returns every stereo sample produced since
// the last call, at the rate the Builder was configured with.
func (g *GameBoy) AudioSamples() []apu.Sample { return g.apu.DrainSamples() }

// KeyDown presses a button, raising the joypad interrupt on the
// high-to-low edge if its row is currently selected.
func (g *GameBoy) KeyDown(k Key) { g.pad.Press(k) }

// KeyUp releases a button.
func (g *GameBoy) KeyUp(k Key) { g.pad.Release(k) }

// ReleaseAllKeys returns every button to the released state.
func (g *GameBoy) ReleaseAllKeys() { g.pad.ReleaseAll() }

// DumpSaveRAM returns the cartridge's battery-backed RAM (and, for
// MBC3, its RTC registers), or nil if the cartridge has no battery.
func (g *GameBoy) DumpSaveRAM() []byte { return g.cart.SaveRAM() }

// LoadSaveRAM restores a previous DumpSaveRAM dump.
func (g *GameBoy) LoadSaveRAM(data []byte) { g.cart.LoadRAM(data) }

// AddCheat activates a Game Genie or GameShark code.
func (g *GameBoy) AddCheat(code string) error { return g.cheats.Add(code) }

// RemoveCheat deactivates every active code targeting address.
func (g *GameBoy) RemoveCheat(address uint16) { g.cheats.Remove(address) }

// Model reports which hardware this machine is emulating.
func (g *GameBoy) Model() types.Model { return g.model }

// Snapshot captures every byte of machine state - CPU, bus (WRAM/HRAM/
// DMA), PPU, APU, timer, joypad, serial, interrupts and cartridge RAM -
// into a self-describing, version-tagged blob.
func (g *GameBoy) Snapshot() []byte {
	st := types.NewState()
	for _, c := range g.components() {
		c.Save(st)
	}
	payload := st.Bytes()

	out := make([]byte, 0, len(snapshotMagic)+2+4+len(payload))
	out = append(out, snapshotMagic...)
	out = append(out, byte(snapshotVersion), byte(snapshotVersion>>8))
	length := uint32(len(payload))
	out = append(out, byte(length), byte(length>>8), byte(length>>16), byte(length>>24))
	out = append(out, payload...)
	return out
}

// LoadSnapshot restores state previously produced by Snapshot. It
// fails cleanly - leaving the machine untouched - on a version
// mismatch or a corrupted length prefix. A payload too short for the
// components' state returns SnapshotCorrupted, with the components
// read before the shortfall already overwritten.
func (g *GameBoy) LoadSnapshot(data []byte) (err error) {
	header := len(snapshotMagic) + 2 + 4
	if len(data) < header || string(data[:len(snapshotMagic)]) != snapshotMagic {
		return newError(SnapshotCorrupted, "missing or unrecognised magic", nil)
	}
	off := len(snapshotMagic)
	version := uint16(data[off]) | uint16(data[off+1])<<8
	off += 2
	if version != snapshotVersion {
		return newError(SnapshotVersionMismatch, "snapshot was written by a different version", nil)
	}
	length := uint32(data[off]) | uint32(data[off+1])<<8 | uint32(data[off+2])<<16 | uint32(data[off+3])<<24
	off += 4
	if int(length) != len(data)-off {
		return newError(SnapshotCorrupted, "length prefix doesn't match payload size", nil)
	}

	st := types.StateFromBytes(data[off:])
	defer func() {
		if recover() != nil {
			err = newError(SnapshotCorrupted, "payload ended before every component was restored", nil)
		}
	}()
	for _, c := range g.components() {
		c.Load(st)
	}
	return nil
}

func (g *GameBoy) components() []types.Stater {
	return []types.Stater{g.cpu, g.bus, g.ppu, g.apu, g.timer, g.pad, g.ser, g.irq, g.cart}
}
