package memory

import (
	"log/slog"

	"github.com/markwinap/dmgcore/gb/gberr"
)

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
)

// MBC is the cartridge's polymorphic memory-bank-controller contract from
// spec.md §4.7: read_rom/write_rom (bank-select side effects) and
// read_ram/write_ram.
type MBC interface {
	ReadROM(addr uint16) uint8
	WriteROM(addr uint16, value uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, value uint8)
}

// NewMBC selects and constructs the MBC implementation named by h.CartType,
// wiring provider as both the ROM byte source and the save/load/clock
// collaborator. It returns UnsupportedMBC for any cartridge type code this
// core doesn't implement.
func NewMBC(h Header, provider ByteProvider) (MBC, error) {
	switch h.CartType {
	case cartTypeROMOnly:
		return newROMOnly(provider), nil
	case cartTypeMBC1, cartTypeMBC1RAMBattery:
		return newMBC1(h, provider), nil
	case cartTypeMBC3RAMBattery:
		return newMBC3(h, provider), nil
	default:
		return nil, &gberr.UnsupportedMBC{Code: h.CartType}
	}
}

// romOnly is the no-banking controller: ROM reads pass straight through,
// writes are ignored, and there is no cartridge RAM.
type romOnly struct {
	provider ByteProvider
}

func newROMOnly(provider ByteProvider) *romOnly {
	return &romOnly{provider: provider}
}

func (m *romOnly) ReadROM(addr uint16) uint8 {
	return m.provider.ReadFromOffset(0, addr, 0)
}
func (m *romOnly) WriteROM(uint16, uint8)      {}
func (m *romOnly) ReadRAM(uint16) uint8        { return 0xFF }
func (m *romOnly) WriteRAM(uint16, uint8) {}

// loadRAMBanks fills count banks of ramBankSize bytes each from provider's
// persisted state, logging but not failing on a load error (an empty save
// is a legitimate first run).
func loadRAMBanks(provider ByteProvider, title string, count int) [][]uint8 {
	banks := make([][]uint8, count)
	for i := range banks {
		bank := make([]uint8, ramBankSize)
		if err := provider.LoadToBank(title, i, bank); err != nil {
			slog.Debug("no persisted RAM bank", "title", title, "bank", i, "err", err)
		}
		banks[i] = bank
	}
	return banks
}
