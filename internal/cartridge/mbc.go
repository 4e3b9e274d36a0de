package cartridge

import "github.com/thelolagemann/gomeboy/internal/types"

// MBC is implemented by each memory bank controller variant. Go has no
// sum types, so the "tagged variant dispatch" the design favours over a
// virtual method table is expressed as one interface with one
// implementing struct per distinct state layout (mbc0, mbc1, mbc2, mbc3,
// mbc5) - no shared base struct, no reflection, a type switch only where
// a capability (battery RAM, RTC) needs to be queried.
type MBC interface {
	ReadROM(addr uff16) uint8
	WriteROM(addr uff16, v uint8)
	ReadRAM(addr uff16) uint8
	WriteRAM(addr uff16, v uint8)

	types.Stater
}

// uff16 is a local alias kept tiny on purpose: every MBC address passed
// in is already bus-relative (0x0000-0x7FFF for ROM, 0xA000-0xBFFF for
// RAM), never the full 16-bit space.
type uff16 = uint16

// BatteryBacked is implemented by MBCs whose RAM should be persisted.
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM([]byte)
}

func newMBC(h Header, rom []byte) (MBC, error) {
	ram := make([]byte, h.RAMSize)
	switch h.Type {
	case ROMOnly:
		return newMBC0(rom), nil
	case MBC1, MBC1RAM, MBC1RAMBattery:
		return newMBC1(rom, ram), nil
	case MBC2, MBC2Battery:
		return newMBC2(rom), nil
	case MBC3Type, MBC3RAM, MBC3RAMBattery, MBC3TimerBattery, MBC3TimerRAMBatt:
		hasRTC := h.Type == MBC3TimerBattery || h.Type == MBC3TimerRAMBatt
		return newMBC3(rom, ram, hasRTC), nil
	case MBC5Type, MBC5RAM, MBC5RAMBattery, MBC5Rumble, MBC5RumbleRAM, MBC5RumbleRAMBatt:
		return newMBC5(rom, ram), nil
	default:
		return nil, UnsupportedMBCError(h.Type)
	}
}

// UnsupportedMBCError is returned by New when the header's cartridge
// type byte names an MBC this module doesn't implement; callers can
// match it with errors.As to distinguish it from a malformed header.
type UnsupportedMBCError Type

func (e UnsupportedMBCError) Error() string {
	return "cartridge: unsupported MBC type 0x" + hexByte(uint8(e))
}

func hexByte(b uint8) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0xF]})
}

// romBank returns the bank-relative offset for a bank-switched ROM read,
// wrapping the requested bank to the cartridge's actual size.
func romBank(rom []byte, bank int, addr uint16) uint8 {
	banks := len(rom) / 0x4000
	if banks == 0 {
		return 0xFF
	}
	bank %= banks
	off := bank*0x4000 + int(addr)
	if off >= len(rom) {
		return 0xFF
	}
	return rom[off]
}
