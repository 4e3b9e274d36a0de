package cartridge

import "fmt"

// Type is the cartridge hardware byte at ROM offset 0x147.
type Type uint8

const (
	ROMOnly           Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBattery    Type = 0x03
	MBC2              Type = 0x05
	MBC2Battery       Type = 0x06
	MBC3TimerBattery  Type = 0x0F
	MBC3TimerRAMBatt  Type = 0x10
	MBC3Type          Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBattery    Type = 0x13
	MBC5Type          Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBattery    Type = 0x1B
	MBC5Rumble        Type = 0x1C
	MBC5RumbleRAM     Type = 0x1D
	MBC5RumbleRAMBatt Type = 0x1E
)

var ramSizeCodes = map[uint8]int{
	0x00: 0,
	0x01: 2 * 1024, // unofficial, seen in the wild
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// GBCFlag reflects ROM byte 0x143.
type GBCFlag uint8

const (
	GBCNone GBCFlag = iota
	GBCDual
	GBCOnly
)

// Header is the parsed 0x0100-0x014F cartridge header.
type Header struct {
	Title   string
	GBC     GBCFlag
	Type    Type
	ROMSize int
	RAMSize int
}

func parseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, fmt.Errorf("cartridge: rom too small for header: %d bytes", len(rom))
	}
	h := Header{}
	switch rom[0x143] {
	case 0x80:
		h.GBC = GBCDual
	case 0xC0:
		h.GBC = GBCOnly
	default:
		h.GBC = GBCNone
	}
	if h.GBC == GBCOnly || h.GBC == GBCDual {
		h.Title = trimTitle(rom[0x134:0x143])
	} else {
		h.Title = trimTitle(rom[0x134:0x144])
	}
	h.Type = Type(rom[0x147])
	h.ROMSize = (32 * 1024) << rom[0x148]
	size, ok := ramSizeCodes[rom[0x149]]
	if !ok {
		return Header{}, fmt.Errorf("cartridge: unknown RAM size code 0x%02X", rom[0x149])
	}
	h.RAMSize = size
	return h, nil
}

func trimTitle(b []byte) string {
	end := len(b)
	for i, c := range b {
		if c == 0 {
			end = i
			break
		}
	}
	return string(b[:end])
}

// SupportsCGB reports whether the cartridge can run in CGB mode.
func (h Header) SupportsCGB() bool { return h.GBC == GBCOnly || h.GBC == GBCDual }

// RequiresCGB reports whether the cartridge refuses to run on DMG hardware.
func (h Header) RequiresCGB() bool { return h.GBC == GBCOnly }

func (h Header) String() string {
	return fmt.Sprintf("%s (type=0x%02X rom=%dKiB ram=%dKiB gbc=%v)",
		h.Title, h.Type, h.ROMSize/1024, h.RAMSize/1024, h.GBC)
}
