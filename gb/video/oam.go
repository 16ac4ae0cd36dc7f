package video

import "github.com/markwinap/dmgcore/gb/addr"

const (
	maxSpritesPerScanline = 10
	oamEntrySize          = 4
	oamEntryCount         = 40
)

// sprite is one decoded OAM entry. oamIndex is the entry's position within
// OAM (0-39): spec.md §4.6 uses it, not screen X, to break ties between
// overlapping sprites.
type sprite struct {
	oamIndex int
	y, x     int
	tile     uint8
	priority bool // true = behind non-zero background colors
	flipY    bool
	flipX    bool
	useOBP1  bool
}

func readSprite(mem vramReader, index int) sprite {
	base := addr.OAMStart + uint16(index*oamEntrySize)
	yByte := mem.ReadOAM(base)
	xByte := mem.ReadOAM(base + 1)
	tile := mem.ReadOAM(base + 2)
	attrs := mem.ReadOAM(base + 3)
	return sprite{
		oamIndex: index,
		y:        int(yByte) - 16,
		x:        int(xByte) - 8,
		tile:     tile,
		priority: attrs&0x80 != 0,
		flipY:    attrs&0x40 != 0,
		flipX:    attrs&0x20 != 0,
		useOBP1:  attrs&0x10 != 0,
	}
}

// scanSprites selects up to 10 sprites (OAM order, spec's cap) whose
// vertical span contains line, given height (8 or 16).
func scanSprites(mem vramReader, line, height int) []sprite {
	selected := make([]sprite, 0, maxSpritesPerScanline)
	for i := 0; i < oamEntryCount && len(selected) < maxSpritesPerScanline; i++ {
		s := readSprite(mem, i)
		if line >= s.y && line < s.y+height {
			selected = append(selected, s)
		}
	}
	return selected
}
