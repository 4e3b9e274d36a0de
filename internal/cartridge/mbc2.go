package cartridge

import "github.com/thelolagemann/gomeboy/internal/types"

// mbc2 has 4-bit ROM banking and 512x4-bit built-in RAM (no external RAM
// chip); address bit 8 of a 0x0000-0x3FFF write selects RAM-enable vs.
// ROM-bank-select, and only the low nibble of every RAM byte is wired.
type mbc2 struct {
	rom []byte
	ram [512]uint8 // only low nibble of each byte is meaningful

	ramEnable bool
	romBank   uint8 // 4 bits, 0 promoted to 1
}

func newMBC2(rom []byte) *mbc2 {
	return &mbc2{rom: rom, romBank: 1}
}

func (m *mbc2) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return romBank(m.rom, 0, addr)
	}
	return romBank(m.rom, int(m.romBank), addr-0x4000)
}

func (m *mbc2) WriteROM(addr uint16, v uint8) {
	if addr >= 0x4000 {
		return
	}
	if addr&0x100 == 0 {
		m.ramEnable = v&0x0F == 0x0A
		return
	}
	v &= 0x0F
	if v == 0 {
		v = 1
	}
	m.romBank = v
}

func (m *mbc2) ReadRAM(addr uint16) uint8 {
	if !m.ramEnable {
		return 0xFF
	}
	return m.ram[(addr-0xA000)&0x1FF] | 0xF0
}

func (m *mbc2) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnable {
		return
	}
	m.ram[(addr-0xA000)&0x1FF] = v & 0x0F
}

func (m *mbc2) SaveRAM() []byte {
	out := make([]byte, len(m.ram))
	copy(out, m.ram[:])
	return out
}

func (m *mbc2) LoadRAM(data []byte) { copy(m.ram[:], data) }

func (m *mbc2) Save(s *types.State) {
	s.WriteData(m.ram[:])
	s.WriteBool(m.ramEnable)
	s.Write8(m.romBank)
}

func (m *mbc2) Load(s *types.State) {
	s.ReadData(m.ram[:])
	m.ramEnable = s.ReadBool()
	m.romBank = s.Read8()
}
