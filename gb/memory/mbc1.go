package memory

import "log/slog"

// mbc1 implements spec.md §4.7's MBC1: 5-bit low ROM bank register, 2-bit
// upper register shared between the ROM bank's high bits and the RAM bank
// index depending on mode, and a mode latch selecting which role the upper
// register plays.
type mbc1 struct {
	title    string
	provider ByteProvider

	ramEnabled bool
	romBankLow uint8 // 5 bits, 0 rewritten to 1 on write
	upperBits  uint8 // 2 bits
	ramMode    bool  // false = ROM banking mode, true = RAM banking mode

	romBanks int
	ramBanks [][]uint8
}

func newMBC1(h Header, provider ByteProvider) *mbc1 {
	return &mbc1{
		title:      h.Title,
		provider:   provider,
		romBankLow: 1,
		romBanks:   h.ROMBanks,
		ramBanks:   loadRAMBanks(provider, h.Title, h.RAMBanks),
	}
}

// romBank returns the effective bank mapped at $4000-$7FFF.
func (m *mbc1) romBank() int {
	bank := int(m.upperBits<<5 | m.romBankLow)
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	return bank
}

// ramBank returns the effective RAM bank: the upper register in RAM-banking
// mode, always bank 0 in ROM-banking mode.
func (m *mbc1) ramBank() int {
	if !m.ramMode {
		return 0
	}
	return int(m.upperBits)
}

func (m *mbc1) ReadROM(addr uint16) uint8 {
	if addr <= 0x3FFF {
		return m.provider.ReadFromOffset(0, addr, 0)
	}
	bank := m.romBank()
	return m.provider.ReadFromOffset(uint32(bank)*romBankSize, addr-0x4000, bank)
}

func (m *mbc1) WriteROM(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		wasEnabled := m.ramEnabled
		m.ramEnabled = value&0x0F == 0x0A
		if wasEnabled && !m.ramEnabled {
			m.persistCurrentBank()
		}
	case addr <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBankLow = bank
	case addr <= 0x5FFF:
		m.upperBits = value & 0x03
	case addr <= 0x7FFF:
		m.ramMode = value&0x01 != 0
	}
}

func (m *mbc1) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled || len(m.ramBanks) == 0 {
		return 0xFF
	}
	bank := m.ramBank() % len(m.ramBanks)
	return m.ramBanks[bank][addr-0xA000]
}

func (m *mbc1) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled || len(m.ramBanks) == 0 {
		return
	}
	bank := m.ramBank() % len(m.ramBanks)
	m.ramBanks[bank][addr-0xA000] = value
}

// persistCurrentBank invokes the save callback for the bank that was active
// while RAM was enabled, per spec.md §4.7's save protocol.
func (m *mbc1) persistCurrentBank() {
	if len(m.ramBanks) == 0 {
		return
	}
	bank := m.ramBank() % len(m.ramBanks)
	if err := m.provider.Save(m.title, bank, m.ramBanks[bank]); err != nil {
		slog.Warn("cartridge RAM save failed", "title", m.title, "bank", bank, "err", err)
	}
}
