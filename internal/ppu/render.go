package ppu

import "sort"

// renderScanline computes Framebuffer[LY] from the background, window
// and sprite layers. It runs once per line at the Mode 3 -> Mode 0
// boundary.
func (p *PPU) renderScanline() {
	y := p.LY
	if y >= ScreenHeight {
		return
	}

	var colorIdx [ScreenWidth]uint8 // raw 2-bit index, before palette
	var bgAttr [ScreenWidth]uint8   // CGB tile attribute byte, for sprite priority

	bgEnabled := p.LCDC&0x01 != 0 || p.cgb // on CGB, bit 0 means "BG loses priority", never fully off
	windowEnabled := p.LCDC&0x20 != 0 && p.WY <= y

	for x := uint8(0); x < ScreenWidth; x++ {
		useWindow := windowEnabled && int(x)+7 >= int(p.WX)
		var idx, attr uint8
		if useWindow {
			idx, attr = p.fetchBG(x+7-p.WX, p.wline, true)
		} else if bgEnabled {
			idx, attr = p.fetchBG(p.SCX+x, p.SCY+y, false)
		}
		colorIdx[x] = idx
		bgAttr[x] = attr
		p.Framebuffer[y][x] = p.bgColor(idx, attr)
	}
	if windowEnabled {
		p.wline++
	}

	if p.LCDC&0x02 != 0 {
		p.renderSprites(y, &colorIdx, &bgAttr)
	}
}

// fetchBG returns the 2-bit color index and CGB attribute byte for the
// background or window tile covering pixel (px,py). useWindow picks
// the window's tile map bit instead of the background's.
func (p *PPU) fetchBG(px, py uint8, useWindow bool) (uint8, uint8) {
	mapBase := uint16(0x1800)
	bit := uint8(0x08)
	if useWindow {
		bit = 0x40
	}
	if p.LCDC&bit != 0 {
		mapBase = 0x1C00
	}
	tileCol := uint16(px/8) % 32
	tileRow := uint16(py/8) % 32
	mapIdx := mapBase + tileRow*32 + tileCol

	tileID := p.vram[0][mapIdx]
	attr := uint8(0)
	if p.cgb {
		attr = p.vram[1][mapIdx]
	}

	bank := 0
	flipX, flipY := false, false
	if p.cgb {
		bank = int((attr >> 3) & 1)
		flipY = attr&0x40 != 0
		flipX = attr&0x20 != 0
	}

	row := py % 8
	if flipY {
		row = 7 - row
	}
	col := px % 8
	if flipX {
		col = 7 - col
	}

	var tileAddr uint16
	if p.LCDC&0x10 != 0 {
		tileAddr = uint16(tileID) * 16
	} else {
		tileAddr = uint16(0x1000 + int(int8(tileID))*16)
	}

	lo := p.vram[bank][tileAddr+uint16(row)*2]
	hi := p.vram[bank][tileAddr+uint16(row)*2+1]
	shift := 7 - col
	idx := (hi>>shift)&1<<1 | (lo>>shift)&1
	return idx, attr
}

func (p *PPU) bgColor(idx, attr uint8) [3]uint8 {
	if p.cgb {
		return p.bgPalette.rgb(attr&0x07, idx)
	}
	shades := monoPalette(p.BGP)
	return dmgShades[shades[idx]]
}

func (p *PPU) renderSprites(y uint8, colorIdx, bgAttr *[ScreenWidth]uint8) {
	height := uint8(8)
	if p.LCDC&0x04 != 0 {
		height = 16
	}

	var visible []spriteAttr
	for i := 0; i < 40 && len(visible) < 10; i++ {
		var raw [4]uint8
		copy(raw[:], p.oam[i*4:i*4+4])
		s := decodeSprite(raw)
		spriteY := int(s.y) - 16
		if int(y) < spriteY || int(y) >= spriteY+int(height) {
			continue
		}
		visible = append(visible, s)
	}

	// DMG priority is by X coordinate, OAM index breaking ties; CGB
	// priority is OAM index alone, so the scan order above is already
	// correct and no sort is needed there.
	if !p.cgb {
		sort.SliceStable(visible, func(i, j int) bool { return visible[i].x < visible[j].x })
	}

	for x := uint8(0); x < ScreenWidth; x++ {
		var best *spriteAttr
		for i := range visible {
			s := &visible[i]
			spriteX := int(s.x) - 8
			if int(x) < spriteX || int(x) >= spriteX+8 {
				continue
			}
			if best == nil {
				best = s
			}
		}
		if best == nil {
			continue
		}
		spriteX := int(best.x) - 8
		spriteY := int(best.y) - 16
		col := uint8(int(x) - spriteX)
		row := uint8(int(y) - spriteY)
		if best.flipX {
			col = 7 - col
		}
		if best.flipY {
			row = height - 1 - row
		}
		tile := best.tile
		if height == 16 {
			tile &^= 1
			if row >= 8 {
				tile |= 1
				row -= 8
			}
		}
		bank := 0
		if p.cgb {
			bank = int(best.bank)
		}
		tileAddr := uint16(tile) * 16
		lo := p.vram[bank][tileAddr+uint16(row)*2]
		hi := p.vram[bank][tileAddr+uint16(row)*2+1]
		shift := 7 - col
		idx := (hi>>shift)&1<<1 | (lo>>shift)&1
		if idx == 0 {
			continue // transparent
		}
		if best.behind && colorIdx[x] != 0 {
			continue // BG colors 1-3 win when the sprite is behind
		}
		if p.cgb && bgAttr[x]&0x80 != 0 && colorIdx[x] != 0 {
			continue // BG-over-OBJ master priority bit
		}
		var rgb [3]uint8
		if p.cgb {
			rgb = p.objPalette.rgb(best.cgbPal, idx)
		} else {
			obp := p.OBP0
			if best.dmgPal == 1 {
				obp = p.OBP1
			}
			shades := monoPalette(obp)
			rgb = dmgShades[shades[idx]]
		}
		p.Framebuffer[y][x] = rgb
	}
}
