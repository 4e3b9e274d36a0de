// Package types holds small value types shared across every core package:
// the hardware model enum, I/O address constants and the snapshot codec.
// It exists so that leaf packages (cpu, ppu, apu, ...) don't need to
// import each other just to agree on an address or a model byte.
package types

// Model selects which hardware the core emulates.
type Model uint8

const (
	// ModelAutomatic selects DMG or CGB based on the cartridge header.
	ModelAutomatic Model = iota
	// ModelDMG forces original Game Boy behaviour, even on a CGB-aware cartridge.
	ModelDMG
	// ModelCGB forces Game Boy Color behaviour, even on a DMG-only cartridge.
	ModelCGB
)

func (m Model) String() string {
	switch m {
	case ModelDMG:
		return "DMG"
	case ModelCGB:
		return "CGB"
	default:
		return "Automatic"
	}
}
