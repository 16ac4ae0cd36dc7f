package memory

import "log/slog"

// RTC register select codes written to $4000-$5FFF, per spec.md §4.7.
const (
	rtcSeconds    = 0x08
	rtcMinutes    = 0x09
	rtcHours      = 0x0A
	rtcDaysLow    = 0x0B
	rtcDaysHigh   = 0x0C
	rtcDayOverflowBit = 0x80
	rtcHaltBit        = 0x40
	rtcDayHighBit     = 0x01
)

// rtc models MBC3's real-time clock: seconds/minutes/hours plus a 9-bit day
// counter split across DL and DH, a halt bit that freezes the clock, and a
// sticky day-overflow bit set when the day counter wraps.
type rtc struct {
	provider ByteProvider

	seconds, minutes, hours uint8
	days                    uint16 // 9 bits significant
	halt                    bool
	dayOverflow             bool

	lastLatchMicros uint64
}

func newRTC(provider ByteProvider) *rtc {
	return &rtc{provider: provider, lastLatchMicros: provider.Clock()}
}

// Latch advances the clock by the wall-time elapsed since the previous
// latch (unless halted) and resets the baseline, per spec.md §4.7: "On
// latch, the RTC registers are updated from wall-clock elapsed seconds
// since the last latch (unless DH bit 6, halt, is set)."
func (r *rtc) Latch() {
	now := r.provider.Clock()
	if !r.halt {
		elapsedSeconds := (now - r.lastLatchMicros) / 1_000_000
		r.advance(elapsedSeconds)
	}
	r.lastLatchMicros = now
}

func (r *rtc) advance(elapsedSeconds uint64) {
	total := uint64(r.seconds) + uint64(r.minutes)*60 + uint64(r.hours)*3600 + uint64(r.days)*86400 + elapsedSeconds
	r.seconds = uint8(total % 60)
	total /= 60
	r.minutes = uint8(total % 60)
	total /= 60
	r.hours = uint8(total % 24)
	total /= 24
	if total >= 512 {
		r.dayOverflow = true
		slog.Debug("RTC day counter overflow")
	}
	r.days = uint16(total % 512)
}

func (r *rtc) Read(reg uint8) uint8 {
	switch reg {
	case rtcSeconds:
		return r.seconds
	case rtcMinutes:
		return r.minutes
	case rtcHours:
		return r.hours
	case rtcDaysLow:
		return uint8(r.days)
	case rtcDaysHigh:
		v := uint8(r.days>>8) & rtcDayHighBit
		if r.halt {
			v |= rtcHaltBit
		}
		if r.dayOverflow {
			v |= rtcDayOverflowBit
		}
		return v
	default:
		return 0xFF
	}
}

func (r *rtc) Write(reg, value uint8) {
	switch reg {
	case rtcSeconds:
		r.seconds = value
	case rtcMinutes:
		r.minutes = value
	case rtcHours:
		r.hours = value
	case rtcDaysLow:
		r.days = r.days&0x100 | uint16(value)
	case rtcDaysHigh:
		if value&rtcDayHighBit != 0 {
			r.days |= 0x100
		} else {
			r.days &^= 0x100
		}
		wasHalted := r.halt
		r.halt = value&rtcHaltBit != 0
		r.dayOverflow = value&rtcDayOverflowBit != 0
		if wasHalted && !r.halt {
			r.lastLatchMicros = r.provider.Clock()
		}
	}
}

// mbc3 implements spec.md §4.7's MBC3: up to 127 switchable ROM banks, up
// to 4 RAM banks, and the RTC register bank selected via the same index as
// RAM banks ($08-$0C instead of $00-$03).
type mbc3 struct {
	title    string
	provider ByteProvider

	enabled      bool
	romBank      uint8
	bankSelect   uint8 // 0x00-0x03 RAM bank, 0x08-0x0C RTC register
	latchPending bool  // saw a $00 write, awaiting $01 to latch

	romBanks int
	ramBanks [][]uint8
	clock    *rtc
}

func newMBC3(h Header, provider ByteProvider) *mbc3 {
	return &mbc3{
		title:    h.Title,
		provider: provider,
		romBank:  1,
		romBanks: h.ROMBanks,
		ramBanks: loadRAMBanks(provider, h.Title, h.RAMBanks),
		clock:    newRTC(provider),
	}
}

func (m *mbc3) ReadROM(addr uint16) uint8 {
	if addr <= 0x3FFF {
		return m.provider.ReadFromOffset(0, addr, 0)
	}
	bank := int(m.romBank)
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	return m.provider.ReadFromOffset(uint32(bank)*romBankSize, addr-0x4000, bank)
}

func (m *mbc3) WriteROM(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		wasEnabled := m.enabled
		m.enabled = value&0x0F == 0x0A
		if wasEnabled && !m.enabled {
			m.persistCurrentBank()
		}
	case addr <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr <= 0x5FFF:
		m.bankSelect = value
	case addr <= 0x7FFF:
		switch {
		case value == 0x00:
			m.latchPending = true
		case value == 0x01 && m.latchPending:
			m.clock.Latch()
			m.latchPending = false
		default:
			m.latchPending = false
		}
	}
}

func (m *mbc3) isRTCSelected() bool {
	return m.bankSelect >= rtcSeconds && m.bankSelect <= rtcDaysHigh
}

func (m *mbc3) ReadRAM(addr uint16) uint8 {
	if !m.enabled {
		return 0xFF
	}
	if m.isRTCSelected() {
		return m.clock.Read(m.bankSelect)
	}
	if len(m.ramBanks) == 0 {
		return 0xFF
	}
	bank := int(m.bankSelect) % len(m.ramBanks)
	return m.ramBanks[bank][addr-0xA000]
}

func (m *mbc3) WriteRAM(addr uint16, value uint8) {
	if !m.enabled {
		return
	}
	if m.isRTCSelected() {
		m.clock.Write(m.bankSelect, value)
		return
	}
	if len(m.ramBanks) == 0 {
		return
	}
	bank := int(m.bankSelect) % len(m.ramBanks)
	m.ramBanks[bank][addr-0xA000] = value
}

func (m *mbc3) persistCurrentBank() {
	if m.isRTCSelected() || len(m.ramBanks) == 0 {
		return
	}
	bank := int(m.bankSelect) % len(m.ramBanks)
	if err := m.provider.Save(m.title, bank, m.ramBanks[bank]); err != nil {
		slog.Warn("cartridge RAM save failed", "title", m.title, "bank", bank, "err", err)
	}
}
