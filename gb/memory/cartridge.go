package memory

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/markwinap/dmgcore/gb/gberr"
)

// Header field offsets within the cartridge ROM, per spec.md §6.
const (
	titleAddress         = 0x0134
	titleAddressNew      = 0x0134 // title is $0134-$013E when newMarker == $33
	titleLength          = 15
	titleLengthNew       = 11
	cgbFlagAddress       = 0x0143
	cartTypeAddress      = 0x0147
	romSizeAddress       = 0x0148
	ramSizeAddress       = 0x0149
	destinationAddress   = 0x014A
	newCartridgeMarker   = 0x014B
	newCartridgeMagic    = 0x33
)

// Cartridge type codes this core supports (spec.md §6).
const (
	cartTypeROMOnly           = 0x00
	cartTypeMBC1              = 0x01
	cartTypeMBC1RAMBattery    = 0x03
	cartTypeMBC3RAMBattery    = 0x13
)

// romBankCounts maps the ROM size header code to a bank count (16KB banks).
var romBankCounts = map[uint8]int{
	0x00: 2, 0x01: 4, 0x02: 8, 0x03: 16,
	0x04: 32, 0x05: 64, 0x06: 128, 0x07: 256, 0x08: 512,
}

// ramBankCounts maps the RAM size header code to a bank count (8KB banks).
var ramBankCounts = map[uint8]int{
	0x00: 0, 0x01: 1, 0x02: 1, 0x03: 4, 0x04: 16, 0x05: 8,
}

// Header holds the parsed fixed-offset cartridge header fields from
// spec.md §6.
type Header struct {
	Title       string
	CGBFlag     uint8
	CartType    uint8
	ROMBanks    int
	RAMBanks    int
	Destination uint8
}

// ParseHeader validates and parses rom's header. It returns MalformedROM if
// rom is too short to contain a header, the size codes are out of range, or
// the title bytes are not valid UTF-8.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, &gberr.MalformedROM{Reason: "ROM shorter than header region"}
	}

	romSizeCode := rom[romSizeAddress]
	ramSizeCode := rom[ramSizeAddress]

	romBanks, ok := romBankCounts[romSizeCode]
	if !ok {
		return Header{}, &gberr.MalformedROM{Reason: "unrecognized ROM size code"}
	}
	ramBanks, ok := ramBankCounts[ramSizeCode]
	if !ok {
		return Header{}, &gberr.MalformedROM{Reason: "unrecognized RAM size code"}
	}

	n := titleLength
	if rom[newCartridgeMarker] == newCartridgeMagic {
		n = titleLengthNew
	}
	titleBytes := rom[titleAddress : titleAddress+n]
	if !utf8.Valid(titleBytes) {
		return Header{}, &gberr.MalformedROM{Reason: "title is not valid UTF-8"}
	}
	title := strings.TrimRight(string(titleBytes), "\x00")

	h := Header{
		Title:       title,
		CGBFlag:     rom[cgbFlagAddress],
		CartType:    rom[cartTypeAddress],
		ROMBanks:    romBanks,
		RAMBanks:    ramBanks,
		Destination: rom[destinationAddress],
	}
	slog.Info("parsed cartridge header", "title", h.Title, "cartType", h.CartType, "romBanks", h.ROMBanks, "ramBanks", h.RAMBanks)
	return h, nil
}
