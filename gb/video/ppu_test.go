package video

import (
	"testing"

	"github.com/markwinap/dmgcore/gb/addr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBus is a minimal in-memory stand-in for *memory.Bus, enough to drive
// the PPU deterministically.
type fakeBus struct {
	vram      [0x2000]uint8
	oam       [0xA0]uint8
	lcdRegs   map[uint16]uint8
	requested []addr.Interrupt
}

func newFakeBus() *fakeBus {
	return &fakeBus{lcdRegs: make(map[uint16]uint8)}
}

func (b *fakeBus) ReadVRAM(a uint16) uint8     { return b.vram[a-0x8000] }
func (b *fakeBus) WriteVRAM(a uint16, v uint8) { b.vram[a-0x8000] = v }
func (b *fakeBus) ReadOAM(a uint16) uint8      { return b.oam[a-addr.OAMStart] }
func (b *fakeBus) ReadLCDReg(a uint16) uint8   { return b.lcdRegs[a] }
func (b *fakeBus) WriteLCDReg(a uint16, v uint8) { b.lcdRegs[a] = v }
func (b *fakeBus) RequestInterrupt(line addr.Interrupt) {
	b.requested = append(b.requested, line)
}

func (b *fakeBus) hasInterrupt(line addr.Interrupt) bool {
	for _, l := range b.requested {
		if l == line {
			return true
		}
	}
	return false
}

// captureScreen records every SetPixel call for assertions.
type captureScreen struct {
	pixels [144][160][3]uint8
	drawn  int
}

func (c *captureScreen) TurnOn()  {}
func (c *captureScreen) TurnOff() {}
func (c *captureScreen) SetPixel(x, y int, r, g, b uint8) {
	c.pixels[y][x] = [3]uint8{r, g, b}
}
func (c *captureScreen) ScanlineComplete(int, bool) {}
func (c *captureScreen) Draw(bool)                  { c.drawn++ }
func (c *captureScreen) FrameRate() uint8           { return 60 }

func newTestPPU() (*PPU, *fakeBus, *captureScreen) {
	bus := newFakeBus()
	screen := &captureScreen{}
	bus.WriteLCDReg(addr.LCDC, lcdcEnable|lcdcBGOn)
	ppu := New(bus, screen)
	return ppu, bus, screen
}

func TestPPUModeSequenceWithinOneScanline(t *testing.T) {
	ppu, bus, _ := newTestPPU()

	ppu.Step(1)
	assert.Equal(t, ModeOAM, ppu.mode)

	ppu.Step(oamCycles)
	assert.Equal(t, ModeVRAM, ppu.mode)

	ppu.Step(vramCycles)
	assert.Equal(t, ModeHBlank, ppu.mode)

	assert.Equal(t, uint8(0), bus.ReadLCDReg(addr.LY))
}

func TestPPUAdvancesLYAfterFullScanline(t *testing.T) {
	ppu, bus, _ := newTestPPU()
	ppu.Step(scanlineCycles)
	assert.Equal(t, uint8(1), bus.ReadLCDReg(addr.LY))
}

func TestPPURequestsVBlankAtLine144(t *testing.T) {
	ppu, bus, _ := newTestPPU()
	for i := 0; i < visibleLines; i++ {
		ppu.Step(scanlineCycles)
	}
	assert.Equal(t, uint8(visibleLines), bus.ReadLCDReg(addr.LY))
	assert.True(t, bus.hasInterrupt(addr.VBlank))
}

func TestPPUWrapsLYAndDrawsAtFrameEnd(t *testing.T) {
	ppu, bus, screen := newTestPPU()
	for i := 0; i < totalLines; i++ {
		ppu.Step(scanlineCycles)
	}
	require.Equal(t, 1, screen.drawn)
	assert.Equal(t, uint8(0), bus.ReadLCDReg(addr.LY))
}

func TestPPULYCCoincidenceRequestsLCDStatWhenEnabled(t *testing.T) {
	ppu, bus, _ := newTestPPU()
	bus.WriteLCDReg(addr.LYC, 1)
	bus.WriteLCDReg(addr.STAT, statLYCInt)

	ppu.Step(scanlineCycles) // LY becomes 1, matching LYC
	assert.True(t, bus.hasInterrupt(addr.LCDStat))
	assert.True(t, bus.ReadLCDReg(addr.STAT)&statCoincidence != 0)
}

func TestPPUDisabledLCDHoldsLYAtZero(t *testing.T) {
	ppu, bus, _ := newTestPPU()
	bus.WriteLCDReg(addr.LCDC, 0) // disable
	ppu.Step(scanlineCycles * 3)
	assert.Equal(t, uint8(0), bus.ReadLCDReg(addr.LY))
}

func TestPPUBackgroundRendersPaletteShade(t *testing.T) {
	ppu, bus, screen := newTestPPU()
	bus.WriteLCDReg(addr.LCDC, lcdcEnable|lcdcBGOn|lcdcBGAddr) // unsigned tile addressing, base $8000
	bus.WriteLCDReg(addr.BGP, 0xE4)                            // identity palette: color index N maps to shade N

	// Tile 0 at map origin, row 1 plane bytes forming color index 3 (both bits set) for every pixel.
	bus.vram[2] = 0xFF // tile 0 row 1, low plane
	bus.vram[3] = 0xFF // high plane

	ppu.Step(scanlineCycles) // LY advances to 1 and line 1 is rendered
	assert.Equal(t, [3]uint8{0x00, 0x00, 0x00}, screen.pixels[1][0], "color index 3 under an identity palette is the darkest shade")
}

func TestPPUSpritesDrawInReverseOAMOrderForOverlapPriority(t *testing.T) {
	ppu, bus, screen := newTestPPU()
	bus.WriteLCDReg(addr.LCDC, lcdcEnable|lcdcOBJOn) // background off
	bus.WriteLCDReg(addr.OBP0, 0xE4)

	// sprite 0: opaque at x=10, tile 1
	bus.oam[0] = 17     // y -> screen y 1
	bus.oam[1] = 18     // x -> screen x 10
	bus.oam[2] = 1      // tile 1
	bus.oam[3] = 0x00

	// sprite 1 (later OAM index): also at x=10, tile 2
	bus.oam[4] = 17
	bus.oam[5] = 18
	bus.oam[6] = 2
	bus.oam[7] = 0x00

	// tile 1 row 0: color index 1 everywhere
	bus.vram[16] = 0xFF
	bus.vram[17] = 0x00
	// tile 2 row 0: color index 2 everywhere
	bus.vram[32] = 0x00
	bus.vram[33] = 0xFF

	ppu.Step(scanlineCycles) // LY advances to 1 and line 1 (tile row 0 of both sprites) is rendered
	// sprite 0 (lower OAM index) must win the overlap, per spec's reverse-draw rule.
	assert.Equal(t, applyPaletteRGB(1, 0xE4), screen.pixels[1][10])
}

func applyPaletteRGB(colorIndex, palette uint8) [3]uint8 {
	sh := applyPalette(colorIndex, palette)
	r, g, b := sh.rgb()
	return [3]uint8{r, g, b}
}
