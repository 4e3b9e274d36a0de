package ppu

// spriteAttr mirrors one 4-byte OAM entry.
type spriteAttr struct {
	y, x   uint8
	tile   uint8
	behind bool // bit 7: OBJ behind BG colors 1-3
	flipY  bool
	flipX  bool
	dmgPal uint8 // bit 4: OBP0/OBP1 select
	bank   uint8 // bit 3: CGB VRAM bank
	cgbPal uint8 // bits 0-2
}

func decodeSprite(raw [4]uint8) spriteAttr {
	attr := raw[3]
	return spriteAttr{
		y:      raw[0],
		x:      raw[1],
		tile:   raw[2],
		behind: attr&0x80 != 0,
		flipY:  attr&0x40 != 0,
		flipX:  attr&0x20 != 0,
		dmgPal: (attr >> 4) & 1,
		bank:   (attr >> 3) & 1,
		cgbPal: attr & 7,
	}
}
