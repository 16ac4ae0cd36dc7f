package video

import "github.com/markwinap/dmgcore/gb/addr"

// Mode is the PPU's current rendering stage, matching STAT bits 1-0.
type Mode uint8

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeVRAM   Mode = 3
)

const (
	oamCycles      = 80
	vramCycles     = 172
	hblankCycles   = 204
	scanlineCycles = oamCycles + vramCycles + hblankCycles // 456
	visibleLines   = 144
	totalLines     = 154

	lcdcEnable     = 0x80
	lcdcWindowMap  = 0x40
	lcdcWindowOn   = 0x20
	lcdcBGAddr     = 0x10
	lcdcBGMap      = 0x08
	lcdcOBJSize    = 0x04
	lcdcOBJOn      = 0x02
	lcdcBGOn       = 0x01

	statCoincidence = 0x04
	statHBlankInt   = 0x08
	statOAMInt      = 0x10
	statVBlankInt   = 0x20
	statLYCInt      = 0x40
)

// Bus is the surface the PPU needs from the memory bus: VRAM/OAM access,
// the LCD register bank, and interrupt requests. gb/memory.Bus satisfies
// this without either package importing the other.
type Bus interface {
	vramReader
	WriteVRAM(addr uint16, v uint8)
	ReadLCDReg(addr uint16) uint8
	WriteLCDReg(addr uint16, v uint8)
	RequestInterrupt(line addr.Interrupt)
}

// PPU is the DMG picture processing unit: the scanline/mode state machine
// of spec.md §4.6.
type PPU struct {
	bus    Bus
	screen Screen

	mode       Mode
	lineCycle  int
	windowLine int

	bgPriorityMask [160]bool
}

// New returns a PPU driving screen through bus's registers/VRAM/OAM.
func New(bus Bus, screen Screen) *PPU {
	if screen == nil {
		screen = NullScreen{}
	}
	return &PPU{bus: bus, screen: screen, mode: ModeVBlank}
}

// Step advances the PPU by cycles T-cycles.
func (p *PPU) Step(cycles int) {
	lcdc := p.bus.ReadLCDReg(addr.LCDC)
	if lcdc&lcdcEnable == 0 {
		if p.mode != ModeVBlank || p.bus.ReadLCDReg(addr.LY) != 0 {
			p.mode = ModeVBlank
			p.lineCycle = 0
			p.windowLine = 0
			p.writeLY(0)
		}
		return
	}

	p.lineCycle += cycles
	for p.lineCycle >= scanlineCycles {
		p.lineCycle -= scanlineCycles
		p.advanceLine()
	}
	p.updateMode()
}

func (p *PPU) advanceLine() {
	ly := int(p.bus.ReadLCDReg(addr.LY)) + 1

	if ly == visibleLines {
		p.bus.RequestInterrupt(addr.VBlank)
		if p.bus.ReadLCDReg(addr.STAT)&statVBlankInt != 0 {
			p.bus.RequestInterrupt(addr.LCDStat)
		}
	}
	if ly == totalLines {
		ly = 0
		p.windowLine = 0
		p.screen.Draw(false)
	}

	p.writeLY(ly)
	if ly < visibleLines {
		p.renderScanline(ly)
	}
}

func (p *PPU) writeLY(ly int) {
	p.bus.WriteLCDReg(addr.LY, uint8(ly))
	p.updateCoincidence()
}

func (p *PPU) updateCoincidence() {
	ly := p.bus.ReadLCDReg(addr.LY)
	lyc := p.bus.ReadLCDReg(addr.LYC)
	stat := p.bus.ReadLCDReg(addr.STAT)
	was := stat&statCoincidence != 0
	coincide := ly == lyc

	newStat := stat &^ statCoincidence
	if coincide {
		newStat |= statCoincidence
	}
	p.bus.WriteLCDReg(addr.STAT, newStat)

	if coincide && !was && stat&statLYCInt != 0 {
		p.bus.RequestInterrupt(addr.LCDStat)
	}
}

func (p *PPU) updateMode() {
	ly := int(p.bus.ReadLCDReg(addr.LY))
	var newMode Mode
	switch {
	case ly >= visibleLines:
		newMode = ModeVBlank
	case p.lineCycle < oamCycles:
		newMode = ModeOAM
	case p.lineCycle < oamCycles+vramCycles:
		newMode = ModeVRAM
	default:
		newMode = ModeHBlank
	}
	if newMode == p.mode {
		return
	}
	p.mode = newMode

	stat := p.bus.ReadLCDReg(addr.STAT)
	p.bus.WriteLCDReg(addr.STAT, stat&^0x03|uint8(newMode))

	switch newMode {
	case ModeHBlank:
		if stat&statHBlankInt != 0 {
			p.bus.RequestInterrupt(addr.LCDStat)
		}
	case ModeOAM:
		if stat&statOAMInt != 0 {
			p.bus.RequestInterrupt(addr.LCDStat)
		}
	}
}

// renderScanline draws line ly (0..143) per spec.md §4.6's background/
// window/sprite algorithm.
func (p *PPU) renderScanline(ly int) {
	for i := range p.bgPriorityMask {
		p.bgPriorityMask[i] = false
	}

	lcdc := p.bus.ReadLCDReg(addr.LCDC)
	if lcdc&lcdcBGOn != 0 {
		p.renderBackground(ly, lcdc)
	} else {
		for x := 0; x < 160; x++ {
			p.screen.SetPixel(x, ly, 0xFF, 0xFF, 0xFF)
		}
	}

	if lcdc&lcdcOBJOn != 0 {
		p.renderSprites(ly, lcdc)
	}

	p.screen.ScanlineComplete(ly, false)
}

func (p *PPU) renderBackground(ly int, lcdc uint8) {
	bgp := p.bus.ReadLCDReg(addr.BGP)
	scx := int(p.bus.ReadLCDReg(addr.SCX))
	scy := int(p.bus.ReadLCDReg(addr.SCY))
	wx := int(p.bus.ReadLCDReg(addr.WX))
	wy := int(p.bus.ReadLCDReg(addr.WY))
	windowOn := lcdc&lcdcWindowOn != 0

	usedWindow := false
	for x := 0; x < 160; x++ {
		var mapBase uint16
		var tileX, tileY int

		if windowOn && wy <= ly && wx-7 <= x {
			mapBase = tileMapBase(lcdc&lcdcWindowMap != 0)
			tileX = x - (wx - 7)
			tileY = p.windowLine
			usedWindow = true
		} else {
			mapBase = tileMapBase(lcdc&lcdcBGMap != 0)
			tileX = (x + scx) % 256
			tileY = (ly + scy) % 256
		}

		col, row := tileX/8, tileY/8
		tileIndex := p.bus.ReadVRAM(mapBase + uint16(row*32+col))
		base := tileDataAddress(lcdc, tileIndex)
		trow := fetchTileRow(p.bus, base, tileY%8)

		colorIndex := trow.pixel(tileX % 8)
		sh := applyPalette(colorIndex, bgp)
		r, g, b := sh.rgb()
		p.screen.SetPixel(x, ly, r, g, b)
		p.bgPriorityMask[x] = sh != 0
	}
	if usedWindow {
		p.windowLine++
	}
}

func (p *PPU) renderSprites(ly int, lcdc uint8) {
	height := 8
	if lcdc&lcdcOBJSize != 0 {
		height = 16
	}
	sprites := scanSprites(p.bus, ly, height)

	// Reverse OAM order: the earliest (lowest-index) sprite is drawn last
	// so it overdraws later sprites on overlap, per spec.md §4.6.
	for i := len(sprites) - 1; i >= 0; i-- {
		s := sprites[i]
		line := ly - s.y
		if s.flipY {
			line = height - 1 - line
		}

		tile := s.tile
		rowInTile := line
		base := uint16(addr.TileData0) + uint16(tile)*16
		if height == 16 {
			if line < 8 {
				base = uint16(addr.TileData0) + uint16(tile&0xFE)*16
			} else {
				base = uint16(addr.TileData0) + uint16(tile|0x01)*16
				rowInTile = line - 8
			}
		}
		trow := fetchTileRow(p.bus, base, rowInTile)

		obp := p.bus.ReadLCDReg(addr.OBP0)
		if s.useOBP1 {
			obp = p.bus.ReadLCDReg(addr.OBP1)
		}

		for px := 0; px < 8; px++ {
			x := s.x + px
			if x < 0 || x >= 160 {
				continue
			}
			var colorIndex uint8
			if s.flipX {
				colorIndex = trow.pixelFlipped(px)
			} else {
				colorIndex = trow.pixel(px)
			}
			if colorIndex == 0 {
				continue
			}
			if s.priority && p.bgPriorityMask[x] {
				continue
			}
			sh := applyPalette(colorIndex, obp)
			r, g, b := sh.rgb()
			p.screen.SetPixel(x, ly, r, g, b)
		}
	}
}

func tileMapBase(high bool) uint16 {
	if high {
		return addr.TileMap1
	}
	return addr.TileMap0
}

// tileDataAddress resolves LCDC.BG_ADDR's two tile-addressing modes: an
// unsigned index from $8000, or a signed index (+128) based at $9000.
func tileDataAddress(lcdc, index uint8) uint16 {
	if lcdc&lcdcBGAddr != 0 {
		return addr.TileData0 + uint16(index)*16
	}
	return uint16(int32(addr.TileData2) + int32(int8(index))*16)
}
