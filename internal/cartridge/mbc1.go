package cartridge

import "github.com/thelolagemann/gomeboy/internal/types"

// mbc1 implements the classic 5-bit ROM bank / 2-bit RAM-or-upper-ROM-bank
// controller: bank-0 promotion to 1, and the mode-dependent meaning of
// bank2 (extra ROM bank bits, or a RAM bank select).
type mbc1 struct {
	rom []byte
	ram []byte

	ramEnable bool
	bank1     uint8 // 5 bits, 0 promoted to 1
	bank2     uint8 // 2 bits
	mode      bool  // false = ROM banking mode, true = RAM banking mode
}

func newMBC1(rom, ram []byte) *mbc1 {
	return &mbc1{rom: rom, ram: ram, bank1: 1}
}

func (m *mbc1) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		bank := 0
		if m.mode {
			bank = int(m.bank2) << 5
		}
		return romBank(m.rom, bank, addr)
	}
	bank := int(m.bank1) | int(m.bank2)<<5
	return romBank(m.rom, bank, addr-0x4000)
}

func (m *mbc1) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnable = v&0x0F == 0x0A
	case addr < 0x4000:
		v &= 0x1F
		if v == 0 {
			v = 1
		}
		m.bank1 = v
	case addr < 0x6000:
		m.bank2 = v & 0x03
	default:
		m.mode = v&0x01 == 1
	}
}

func (m *mbc1) ramBank() int {
	if m.mode {
		return int(m.bank2)
	}
	return 0
}

func (m *mbc1) ReadRAM(addr uint16) uint8 {
	if !m.ramEnable || len(m.ram) == 0 {
		return 0xFF
	}
	off := m.ramBank()*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *mbc1) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnable || len(m.ram) == 0 {
		return
	}
	off := m.ramBank()*0x2000 + int(addr-0xA000)
	if off < len(m.ram) {
		m.ram[off] = v
	}
}

func (m *mbc1) SaveRAM() []byte     { return m.ram }
func (m *mbc1) LoadRAM(data []byte) { copy(m.ram, data) }

func (m *mbc1) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnable)
	s.Write8(m.bank1)
	s.Write8(m.bank2)
	s.WriteBool(m.mode)
}

func (m *mbc1) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramEnable = s.ReadBool()
	m.bank1 = s.Read8()
	m.bank2 = s.Read8()
	m.mode = s.ReadBool()
}
