package cartridge

import "github.com/thelolagemann/gomeboy/internal/types"

// mbc5 has a full 9-bit ROM bank (bank 0 is a valid, selectable bank -
// unlike MBC1/3, there is no promote-0-to-1 quirk) and a 4-bit RAM bank.
type mbc5 struct {
	rom []byte
	ram []byte

	ramEnable bool
	romBankLo uint8
	romBankHi uint8 // bit 8 of the ROM bank
	ramBank   uint8
}

func newMBC5(rom, ram []byte) *mbc5 {
	return &mbc5{rom: rom, ram: ram, romBankLo: 1}
}

func (m *mbc5) romBank() int {
	return int(m.romBankHi)<<8 | int(m.romBankLo)
}

func (m *mbc5) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return romBank(m.rom, 0, addr)
	}
	return romBank(m.rom, m.romBank(), addr-0x4000)
}

func (m *mbc5) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnable = v&0x0F == 0x0A
	case addr < 0x3000:
		m.romBankLo = v
	case addr < 0x4000:
		m.romBankHi = v & 0x01
	case addr < 0x6000:
		m.ramBank = v & 0x0F
	}
}

func (m *mbc5) ReadRAM(addr uint16) uint8 {
	if !m.ramEnable || len(m.ram) == 0 {
		return 0xFF
	}
	off := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *mbc5) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnable || len(m.ram) == 0 {
		return
	}
	off := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if off < len(m.ram) {
		m.ram[off] = v
	}
}

func (m *mbc5) SaveRAM() []byte     { return m.ram }
func (m *mbc5) LoadRAM(data []byte) { copy(m.ram, data) }

func (m *mbc5) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnable)
	s.Write8(m.romBankLo)
	s.Write8(m.romBankHi)
	s.Write8(m.ramBank)
}

func (m *mbc5) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramEnable = s.ReadBool()
	m.romBankLo = s.Read8()
	m.romBankHi = s.Read8()
	m.ramBank = s.Read8()
}
