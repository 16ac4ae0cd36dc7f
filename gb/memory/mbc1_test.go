package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestMBC1(romBanks, ramBanks int) (*mbc1, *fakeProvider) {
	provider := newFakeProvider(romBanks)
	h := Header{Title: "MARIO", CartType: cartTypeMBC1RAMBattery, ROMBanks: romBanks, RAMBanks: ramBanks}
	return newMBC1(h, provider), provider
}

func TestMBC1LowerROMRegionIsAlwaysBank0(t *testing.T) {
	mbc, provider := newTestMBC1(4, 1)
	provider.rom[0] = 0x7A

	mbc.WriteROM(0x2000, 0x03) // selects bank 3 for $4000-$7FFF, not $0000-$3FFF
	assert.Equal(t, uint8(0x7A), mbc.ReadROM(0x0000))
}

func TestMBC1BankZeroWriteIsPromotedToOne(t *testing.T) {
	mbc, provider := newTestMBC1(4, 1)
	provider.rom[1*romBankSize] = 0x55

	mbc.WriteROM(0x2000, 0x00)
	assert.Equal(t, uint8(0x55), mbc.ReadROM(0x4000))
}

func TestMBC1UpperBitsExtendROMBankInROMMode(t *testing.T) {
	mbc, provider := newTestMBC1(128, 1)
	provider.rom[0x21*romBankSize] = 0x11

	mbc.WriteROM(0x2000, 0x01) // low 5 bits = 1
	mbc.WriteROM(0x4000, 0x01) // upper 2 bits = 1 -> bank 0x01 | (1<<5) = 0x21
	assert.Equal(t, uint8(0x11), mbc.ReadROM(0x4000))
}

func TestMBC1RAMBankFixedToZeroInROMMode(t *testing.T) {
	mbc, _ := newTestMBC1(4, 4)
	mbc.WriteROM(0x0000, 0x0A) // enable RAM
	mbc.WriteROM(0x4000, 0x02) // upper bits set, but ROM-banking mode still active
	mbc.WriteRAM(0xA000, 0x99)

	assert.Equal(t, uint8(0x99), mbc.ramBanks[0][0], "write must land in bank 0 while in ROM mode")
}

func TestMBC1RAMBankSelectedInRAMMode(t *testing.T) {
	mbc, _ := newTestMBC1(4, 4)
	mbc.WriteROM(0x0000, 0x0A)
	mbc.WriteROM(0x6000, 0x01) // switch to RAM-banking mode
	mbc.WriteROM(0x4000, 0x02)
	mbc.WriteRAM(0xA000, 0x77)

	assert.Equal(t, uint8(0x77), mbc.ramBanks[2][0])
}

func TestMBC1RAMDisabledReadsOpenBus(t *testing.T) {
	mbc, _ := newTestMBC1(4, 1)
	assert.Equal(t, uint8(0xFF), mbc.ReadRAM(0xA000))
}

func TestMBC1DisablingRAMPersistsCurrentBank(t *testing.T) {
	mbc, provider := newTestMBC1(4, 1)
	mbc.WriteROM(0x0000, 0x0A)
	mbc.WriteRAM(0xA000, 0x42)

	var saved []byte
	provider.onSave = func(title string, bank int, data []byte) {
		saved = append([]byte(nil), data...)
	}

	mbc.WriteROM(0x0000, 0x00) // disable: 0x0A -> anything else
	assert.Equal(t, uint8(0x42), saved[0])
}
