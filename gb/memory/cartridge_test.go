package memory

import (
	"testing"

	"github.com/markwinap/dmgcore/gb/gberr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func romWithHeader(t *testing.T, mutate func(rom []byte)) []byte {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[romSizeAddress] = 0x01 // 4 banks
	rom[ramSizeAddress] = 0x02 // 1 bank
	rom[cartTypeAddress] = cartTypeMBC1
	copy(rom[titleAddress:], "TESTROM")
	if mutate != nil {
		mutate(rom)
	}
	return rom
}

func TestParseHeaderOldStyleTitleUsesFullFifteenBytes(t *testing.T) {
	rom := romWithHeader(t, nil)
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, "TESTROM", h.Title)
	assert.Equal(t, 4, h.ROMBanks)
	assert.Equal(t, 1, h.RAMBanks)
}

func TestParseHeaderNewStyleTitleIsElevenBytes(t *testing.T) {
	rom := romWithHeader(t, func(rom []byte) {
		rom[newCartridgeMarker] = newCartridgeMagic
		for i := titleAddress; i < titleAddress+titleLength; i++ {
			rom[i] = 0
		}
		copy(rom[titleAddress:], "SHORTGAME")
	})
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, "SHORTGAME", h.Title)
}

func TestParseHeaderRejectsTruncatedROM(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x10))
	require.Error(t, err)
	assert.IsType(t, &gberr.MalformedROM{}, err)
}

func TestParseHeaderRejectsUnknownROMSizeCode(t *testing.T) {
	rom := romWithHeader(t, func(rom []byte) { rom[romSizeAddress] = 0xFF })
	_, err := ParseHeader(rom)
	require.Error(t, err)
	assert.IsType(t, &gberr.MalformedROM{}, err)
}

func TestParseHeaderRejectsUnknownRAMSizeCode(t *testing.T) {
	rom := romWithHeader(t, func(rom []byte) { rom[ramSizeAddress] = 0xFF })
	_, err := ParseHeader(rom)
	require.Error(t, err)
	assert.IsType(t, &gberr.MalformedROM{}, err)
}

func TestParseHeaderRejectsInvalidUTF8Title(t *testing.T) {
	rom := romWithHeader(t, func(rom []byte) {
		rom[titleAddress] = 0xFF
		rom[titleAddress+1] = 0xFE
	})
	_, err := ParseHeader(rom)
	require.Error(t, err)
	assert.IsType(t, &gberr.MalformedROM{}, err)
}
