// Package video implements the DMG PPU: scanline timing, background/window/
// sprite rendering and the STAT/VBlank interrupt sources (spec.md §4.6).
package video

// Screen is the screen sink collaborator from spec.md §6, consumed by the
// PPU. SetPixel coordinates are (0..160, 0..144); colors are already
// resolved to RGB by the palette lookup.
type Screen interface {
	TurnOn()
	TurnOff()
	SetPixel(x, y int, r, g, b uint8)
	ScanlineComplete(y int, skip bool)
	Draw(skipNext bool)
	FrameRate() uint8
}

// NullScreen discards every frame; used when no display backend is wired.
type NullScreen struct{}

func (NullScreen) TurnOn()                        {}
func (NullScreen) TurnOff()                       {}
func (NullScreen) SetPixel(int, int, uint8, uint8, uint8) {}
func (NullScreen) ScanlineComplete(int, bool)      {}
func (NullScreen) Draw(bool)                       {}
func (NullScreen) FrameRate() uint8                { return 60 }
