package video

import "github.com/markwinap/dmgcore/gb/bit"

// tileRow is one 8-pixel row of a tile, stored as the two VRAM bitplane
// bytes it was fetched from (bit 7 = leftmost pixel).
type tileRow struct {
	low, high uint8
}

// pixel returns the 2-bit color index (0-3) at x (0=leftmost, 7=rightmost).
func (t tileRow) pixel(x int) uint8 {
	bitIndex := uint8(7 - x)
	var v uint8
	if bit.IsSet(bitIndex, t.low) {
		v |= 1
	}
	if bit.IsSet(bitIndex, t.high) {
		v |= 2
	}
	return v
}

// pixelFlipped is pixel with the row read right-to-left, for horizontally
// flipped sprites.
func (t tileRow) pixelFlipped(x int) uint8 {
	bitIndex := uint8(x)
	var v uint8
	if bit.IsSet(bitIndex, t.low) {
		v |= 1
	}
	if bit.IsSet(bitIndex, t.high) {
		v |= 2
	}
	return v
}

// fetchTileRow reads the bitplane pair for one row of the tile at base
// (base already points at the first byte of the tile; row is 0-7).
func fetchTileRow(mem vramReader, base uint16, row int) tileRow {
	a := base + uint16(row*2)
	return tileRow{low: mem.ReadVRAM(a), high: mem.ReadVRAM(a + 1)}
}

// vramReader is the minimal surface the tile/sprite fetchers need from the
// bus; satisfied by *memory.Bus.
type vramReader interface {
	ReadVRAM(addr uint16) uint8
	ReadOAM(addr uint16) uint8
}
