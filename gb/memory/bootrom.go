package memory

// BootROM overlays the 256-byte DMG boot ROM over $0000-$00FF until the
// program writes a 1 to bit 0 of $FF50, after which cartridge ROM is
// visible at those addresses for the rest of execution. Grounded on
// original_source's Bootrom (boot_rom.rs), which is the same
// active/data/index shape.
type BootROM struct {
	data   [256]uint8
	active bool
}

// NewBootROM returns an overlay holding data (truncated/zero-padded to 256
// bytes) and active if data was non-empty.
func NewBootROM(data []byte) *BootROM {
	b := &BootROM{}
	n := copy(b.data[:], data)
	b.active = n > 0
	return b
}

// Active reports whether reads below $0100 should be served from the boot
// ROM rather than the cartridge.
func (b *BootROM) Active() bool { return b.active }

// Deactivate disables the overlay permanently; triggered by a write to
// $FF50 with bit 0 set.
func (b *BootROM) Deactivate() { b.active = false }

// Read returns the boot ROM byte at addr (0-255).
func (b *BootROM) Read(addr uint16) uint8 { return b.data[addr&0xFF] }
