// Package serial provides a minimal SB/SC stub: it logs completed outgoing
// bytes as text (useful for Blargg-style test ROMs that print results over
// the link cable) without modeling cable transfer timing or raising the
// serial interrupt. Grounded on the teacher's LogSink, trimmed to match
// this core's scope, which excludes link-cable protocol emulation.
package serial

import (
	"log/slog"

	"github.com/markwinap/dmgcore/gb/addr"
	"github.com/markwinap/dmgcore/gb/bit"
)

// Port implements the SB/SC register pair. Writes that set SC's start and
// internal-clock bits are treated as an instantaneous transfer: the
// outgoing byte is appended to a line buffer and flushed to the logger on
// a newline or NUL byte. SB reads back 0, per spec.md §6.
type Port struct {
	sb, sc uint8
	line   []byte
	logger *slog.Logger
}

// NewPort returns a serial stub logging through the default slog logger.
func NewPort() *Port {
	return &Port{logger: slog.Default()}
}

func (p *Port) Write(address uint16, value uint8) {
	switch address {
	case addr.SB:
		p.sb = value
	case addr.SC:
		p.sc = value
		p.maybeTransfer()
	}
}

func (p *Port) Read(address uint16) uint8 {
	switch address {
	case addr.SB:
		return 0
	case addr.SC:
		return p.sc
	default:
		return 0xFF
	}
}

func (p *Port) maybeTransfer() {
	if !bit.IsSet(7, p.sc) || !bit.IsSet(0, p.sc) {
		return
	}

	b := p.sb
	if b == 0 || b == '\n' || b == '\r' {
		if len(p.line) > 0 {
			p.logger.Info("serial", "line", string(p.line))
			p.line = p.line[:0]
		}
	} else {
		p.line = append(p.line, b)
	}

	p.sc = bit.Reset(7, p.sc)
}
