// Package memory implements the DMG memory bus, the cartridge and its MBCs,
// and the timer/joypad peripherals that live behind bus-mapped registers.
package memory

import (
	"log/slog"

	"github.com/markwinap/dmgcore/gb/addr"
	"github.com/markwinap/dmgcore/gb/audio"
	"github.com/markwinap/dmgcore/gb/interrupt"
	"github.com/markwinap/dmgcore/gb/serial"
)

// region classifies an address's top byte for dispatch, mirroring the
// teacher's regionMap lookup table.
type region uint8

const (
	regionROM region = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// Bus is the DMG memory bus: a pure function of address on read, and a
// dispatch to the owning component on write (spec.md §4.2). It owns the
// peripherals addressed purely through registers (timer, joypad, serial,
// APU stub) and the interrupt controller, and defers ROM/cartridge-RAM
// access to the active MBC.
type Bus struct {
	boot *BootROM
	mbc  MBC

	vram [0x2000]uint8
	wram [0x2000]uint8
	oam  [0xA0]uint8
	hram [0x7F]uint8

	lcdRegs [addr.WX - addr.LCDC + 1]uint8 // LCDC..WX raw storage for the PPU to read/write through us

	timer   *Timer
	joypad  *Joypad
	serial  *serial.Port
	apu     *audio.APU
	ic      *interrupt.Controller
	regions [256]region
}

// New returns a bus with no cartridge loaded (ROM area reads as 0xFF) and
// the boot ROM inactive.
func New(apuSink audio.Sink) *Bus {
	b := &Bus{
		timer:  NewTimer(),
		joypad: NewJoypad(),
		serial: serial.NewPort(),
		apu:    audio.New(apuSink),
		ic:     interrupt.New(),
		boot:   NewBootROM(nil),
	}
	b.initRegions()
	return b
}

func (b *Bus) initRegions() {
	for i := 0x00; i <= 0x7F; i++ {
		b.regions[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		b.regions[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		b.regions[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		b.regions[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		b.regions[i] = regionEcho
	}
	b.regions[0xFE] = regionOAM
	b.regions[0xFF] = regionIO
}

// LoadCartridge installs a ROM/MBC pair, selected from h by NewMBC.
func (b *Bus) LoadCartridge(h Header, provider ByteProvider) error {
	mbc, err := NewMBC(h, provider)
	if err != nil {
		return err
	}
	b.mbc = mbc
	return nil
}

// LoadBootROM installs a boot ROM overlay; passing nil data leaves the
// overlay inactive (cartridge visible from $0000 immediately).
func (b *Bus) LoadBootROM(data []byte) {
	b.boot = NewBootROM(data)
}

// Interrupts returns the bus's interrupt controller, for the CPU to consult
// directly and for peripherals to request lines on.
func (b *Bus) Interrupts() *interrupt.Controller { return b.ic }

// Joypad returns the joypad, for the host to report button state changes.
func (b *Bus) Joypad() *Joypad { return b.joypad }

// Step advances the joypad, then the timer, then the APU stub by cycles
// T-cycles. The serial stub is not stepped (its transfers complete on the
// SC write), and the cartridge RTC is advanced separately via the
// cartridge's own latch mechanism, not on a cycle schedule. Interrupts
// raised become visible to the next CPU step.
func (b *Bus) Step(cycles int) {
	if b.joypad.Step() {
		b.ic.Request(addr.Joypad)
	}
	if b.timer.Step(cycles) {
		b.ic.Request(addr.Timer)
	}
	b.apu.Step(cycles)
}

// VRAM/OAM accessors, used by the PPU package (which holds a *Bus).

func (b *Bus) ReadVRAM(a uint16) uint8    { return b.vram[a-0x8000] }
func (b *Bus) WriteVRAM(a uint16, v uint8) { b.vram[a-0x8000] = v }
func (b *Bus) ReadOAM(a uint16) uint8     { return b.oam[a-addr.OAMStart] }
func (b *Bus) WriteOAM(a uint16, v uint8) { b.oam[a-addr.OAMStart] = v }

// LCD register accessors, used by the PPU package so that LCDC/STAT/SCX/…
// remain addressable through the bus like any other I/O register while the
// PPU owns their semantics.
func (b *Bus) ReadLCDReg(a uint16) uint8     { return b.lcdRegs[a-addr.LCDC] }
func (b *Bus) WriteLCDReg(a uint16, v uint8) { b.lcdRegs[a-addr.LCDC] = v }

// RequestInterrupt lets the PPU (or any other external component) raise an
// interrupt line.
func (b *Bus) RequestInterrupt(line addr.Interrupt) { b.ic.Request(line) }

func (b *Bus) Read(address uint16) uint8 {
	if b.boot.Active() && address < 0x0100 {
		return b.boot.Read(address)
	}
	switch b.regions[address>>8] {
	case regionROM:
		if b.mbc == nil {
			return 0xFF
		}
		return b.mbc.ReadROM(address)
	case regionVRAM:
		return b.ReadVRAM(address)
	case regionExtRAM:
		if b.mbc == nil {
			return 0xFF
		}
		return b.mbc.ReadRAM(address)
	case regionWRAM:
		return b.wram[address-0xC000]
	case regionEcho:
		return b.wram[address-0xE000]
	case regionOAM:
		if address <= addr.OAMEnd {
			return b.ReadOAM(address)
		}
		return 0xFF // $FEA0-$FEFF unused
	case regionIO:
		return b.readIO(address)
	default:
		return 0xFF
	}
}

func (b *Bus) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return b.joypad.P1()
	case address == addr.SB || address == addr.SC:
		return b.serial.Read(address)
	case address == addr.DIV:
		return b.timer.DIV()
	case address == addr.TIMA:
		return b.timer.TIMA()
	case address == addr.TMA:
		return b.timer.TMA()
	case address == addr.TAC:
		return b.timer.TAC()
	case address == addr.IF:
		return b.ic.IF()
	case address == addr.IE:
		return b.ic.IE()
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return b.apu.ReadRegister(address)
	case address == addr.STAT:
		return b.ReadLCDReg(address) | 0x80 // unused top bit always reads 1
	case address >= addr.LCDC && address <= addr.WX:
		return b.ReadLCDReg(address)
	case address >= 0xFF80 && address <= 0xFFFE:
		return b.hram[address-0xFF80]
	default:
		return 0xFF
	}
}

func (b *Bus) Write(address uint16, value uint8) {
	switch b.regions[address>>8] {
	case regionROM:
		if b.mbc != nil {
			b.mbc.WriteROM(address, value)
		}
	case regionVRAM:
		b.WriteVRAM(address, value)
	case regionExtRAM:
		if b.mbc != nil {
			b.mbc.WriteRAM(address, value)
		}
	case regionWRAM:
		b.wram[address-0xC000] = value
	case regionEcho:
		b.wram[address-0xE000] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			b.WriteOAM(address, value)
		}
	case regionIO:
		b.writeIO(address, value)
	}
}

func (b *Bus) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		b.joypad.SetP1(value)
	case address == addr.SB || address == addr.SC:
		b.serial.Write(address, value)
	case address == addr.DIV:
		b.timer.ResetDIV()
	case address == addr.TIMA:
		b.timer.SetTIMA(value)
	case address == addr.TMA:
		b.timer.SetTMA(value)
	case address == addr.TAC:
		b.timer.SetTAC(value)
	case address == addr.IF:
		b.ic.SetIF(value)
	case address == addr.IE:
		b.ic.SetIE(value)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		b.apu.WriteRegister(address, value)
	case address == addr.DMA:
		b.oamDMA(value)
	case address == addr.BootROMDisable:
		if value&0x01 != 0 {
			b.boot.Deactivate()
		}
	case address == addr.LY:
		b.WriteLCDReg(address, 0) // writes reset the current line to 0
	case address == addr.STAT:
		current := b.ReadLCDReg(address)
		b.WriteLCDReg(address, (value&0xF8)|(current&0x07)) // low 3 bits (mode+coincidence) are read-only
	case address >= addr.LCDC && address <= addr.WX:
		b.WriteLCDReg(address, value)
	case address >= 0xFF80 && address <= 0xFFFE:
		b.hram[address-0xFF80] = value
	default:
		// Unhandled I/O register: no-op, per spec.md §7.
	}
}

// oamDMA performs the atomic 160-byte copy from (value<<8) into OAM,
// triggered by a write to $FF46, per spec.md §4.2.
func (b *Bus) oamDMA(value uint8) {
	source := uint16(value) << 8
	for i := uint16(0); i < 0xA0; i++ {
		b.oam[i] = b.Read(source + i)
	}
	slog.Debug("OAM DMA", "source", source)
}
