package cartridge

import "github.com/thelolagemann/gomeboy/internal/types"

// mbc0 is a ROM-only cartridge: no banking, and RAM (if present at all,
// which is rare) is a single fixed 8 KiB window with no enable gate.
type mbc0 struct {
	rom []byte
	ram []byte
}

func newMBC0(rom []byte) *mbc0 {
	return &mbc0{rom: rom, ram: make([]byte, 0x2000)}
}

func (m *mbc0) ReadROM(addr uint16) uint8 {
	if int(addr) >= len(m.rom) {
		return 0xFF
	}
	return m.rom[addr]
}

func (m *mbc0) WriteROM(addr uint16, v uint8) {} // no control registers

func (m *mbc0) ReadRAM(addr uint16) uint8  { return m.ram[addr-0xA000] }
func (m *mbc0) WriteRAM(addr uint16, v uint8) { m.ram[addr-0xA000] = v }

func (m *mbc0) Save(s *types.State) { s.WriteData(m.ram) }
func (m *mbc0) Load(s *types.State) { s.ReadData(m.ram) }
