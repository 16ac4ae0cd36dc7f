package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// diskProvider is the host-side memory.ByteProvider: ROM bytes held in
// memory, battery RAM persisted one file per bank to
// savePath/<title>.bank<N>.sav.
type diskProvider struct {
	rom      []byte
	savePath string
}

func newDiskProvider(rom []byte, savePath string) *diskProvider {
	return &diskProvider{rom: rom, savePath: savePath}
}

func (p *diskProvider) ReadFromOffset(baseOffset uint32, withinOffset uint16, _ int) uint8 {
	idx := int(baseOffset) + int(withinOffset)
	if idx < 0 || idx >= len(p.rom) {
		return 0xFF
	}
	return p.rom[idx]
}

func (p *diskProvider) Clock() uint64 {
	return uint64(time.Now().UnixMicro())
}

func (p *diskProvider) Save(title string, bankIndex int, data []byte) error {
	if p.savePath == "" {
		return nil
	}
	if err := os.MkdirAll(p.savePath, 0o755); err != nil {
		return err
	}
	path := p.saveFilePath(title, bankIndex)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	slog.Debug("saved cartridge RAM bank", "path", path, "bytes", len(data))
	return nil
}

func (p *diskProvider) LoadToBank(title string, bankIndex int, dest []byte) error {
	if p.savePath == "" {
		return nil
	}
	path := p.saveFilePath(title, bankIndex)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	copy(dest, data)
	return nil
}

func (p *diskProvider) saveFilePath(title string, bankIndex int) string {
	return filepath.Join(p.savePath, title+".bank"+strconv.Itoa(bankIndex)+".sav")
}
