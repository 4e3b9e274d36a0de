// Package cartridge parses the ROM header and dispatches reads/writes of
// 0x0000-0x7FFF and 0xA000-0xBFFF to the appropriate memory bank
// controller.
package cartridge

import "github.com/thelolagemann/gomeboy/internal/types"

// Cartridge owns the ROM image and the selected MBC.
type Cartridge struct {
	Header Header
	rom    []byte
	mbc    MBC
}

// New parses rom's header and constructs the matching MBC. An error is
// returned for a malformed header or unsupported cartridge type.
func New(rom []byte) (*Cartridge, error) {
	h, err := parseHeader(rom)
	if err != nil {
		return nil, err
	}
	mbc, err := newMBC(h, rom)
	if err != nil {
		return nil, err
	}
	return &Cartridge{Header: h, rom: rom, mbc: mbc}, nil
}

func (c *Cartridge) ReadROM(addr uint16) uint8  { return c.mbc.ReadROM(addr) }
func (c *Cartridge) WriteROM(addr uint16, v uint8) { c.mbc.WriteROM(addr, v) }
func (c *Cartridge) ReadRAM(addr uint16) uint8  { return c.mbc.ReadRAM(addr) }
func (c *Cartridge) WriteRAM(addr uint16, v uint8) { c.mbc.WriteRAM(addr, v) }

// Tick advances any MBC-internal clock (MBC3's RTC). Harmless no-op for
// every other variant.
func (c *Cartridge) Tick() {
	if t, ok := c.mbc.(interface{ Tick() }); ok {
		t.Tick()
	}
}

// HasBattery reports whether this cartridge's RAM should be persisted.
func (c *Cartridge) HasBattery() bool {
	switch c.Header.Type {
	case MBC1RAMBattery, MBC2Battery, MBC3TimerBattery, MBC3TimerRAMBatt,
		MBC3RAMBattery, MBC5RAMBattery, MBC5RumbleRAMBatt:
		_, ok := c.mbc.(BatteryBacked)
		return ok
	}
	return false
}

// SaveRAM returns the cartridge's battery-backed RAM (and RTC registers,
// for MBC3), or nil if the cartridge has no battery.
func (c *Cartridge) SaveRAM() []byte {
	if !c.HasBattery() {
		return nil
	}
	return c.mbc.(BatteryBacked).SaveRAM()
}

// LoadRAM restores previously dumped battery RAM.
func (c *Cartridge) LoadRAM(data []byte) {
	if bb, ok := c.mbc.(BatteryBacked); ok {
		bb.LoadRAM(data)
	}
}

func (c *Cartridge) Save(s *types.State) { c.mbc.Save(s) }
func (c *Cartridge) Load(s *types.State) { c.mbc.Load(s) }
