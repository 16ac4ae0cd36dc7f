// Package audio provides a register-writable APU stub. Per this core's
// scope, no channel is synthesized: writes to the NRxx/wave-RAM bank are
// stored and read back verbatim, but no audio is generated and the APU
// never raises an interrupt. The register layout mirrors a real APU so a
// host UI can still display them.
package audio

import "github.com/markwinap/dmgcore/gb/addr"

const waveRAMSize = 16

// Sink is the audio sink collaborator from spec.md §6, consumed by the APU
// stub. Play may be called with an empty slice.
type Sink interface {
	Play(samples []uint16)
	SampleRate() uint32
	Underflowed() bool
}

// NullSink discards everything; used when no audio backend is configured.
type NullSink struct{}

func (NullSink) Play([]uint16)        {}
func (NullSink) SampleRate() uint32   { return 44100 }
func (NullSink) Underflowed() bool    { return false }

// stepCyclesPerPoll is an arbitrary cadence at which the stub calls
// Sink.Play with an empty buffer, so a host can still observe "the APU is
// alive" without this core ever producing samples.
const stepCyclesPerPoll = 8192

// APU holds the raw NRxx/wave-RAM register bank. It performs no synthesis.
type APU struct {
	sink Sink

	nr10, nr11, nr12, nr13, nr14 uint8
	nr21, nr22, nr23, nr24       uint8
	nr30, nr31, nr32, nr33, nr34 uint8
	nr41, nr42, nr43, nr44       uint8
	nr50, nr51, nr52             uint8
	waveRAM                      [waveRAMSize]uint8

	cycles int
}

// New returns an APU stub that plays nothing to sink.
func New(sink Sink) *APU {
	if sink == nil {
		sink = NullSink{}
	}
	return &APU{sink: sink}
}

// Step consumes cycles T-cycles; it never requests an interrupt.
func (a *APU) Step(cycles int) {
	a.cycles += cycles
	for a.cycles >= stepCyclesPerPoll {
		a.cycles -= stepCyclesPerPoll
		a.sink.Play(nil)
	}
}

// ReadRegister returns the raw register value at address (must be within
// addr.AudioStart..addr.AudioEnd).
func (a *APU) ReadRegister(address uint16) uint8 {
	switch address {
	case addr.NR10:
		return a.nr10
	case addr.NR11:
		return a.nr11
	case addr.NR12:
		return a.nr12
	case addr.NR13:
		return a.nr13
	case addr.NR14:
		return a.nr14
	case addr.NR21:
		return a.nr21
	case addr.NR22:
		return a.nr22
	case addr.NR23:
		return a.nr23
	case addr.NR24:
		return a.nr24
	case addr.NR30:
		return a.nr30
	case addr.NR31:
		return a.nr31
	case addr.NR32:
		return a.nr32
	case addr.NR33:
		return a.nr33
	case addr.NR34:
		return a.nr34
	case addr.NR41:
		return a.nr41
	case addr.NR42:
		return a.nr42
	case addr.NR43:
		return a.nr43
	case addr.NR44:
		return a.nr44
	case addr.NR50:
		return a.nr50
	case addr.NR51:
		return a.nr51
	case addr.NR52:
		return a.nr52
	default:
		if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
			return a.waveRAM[address-addr.WaveRAMStart]
		}
		return 0xFF
	}
}

// WriteRegister stores value verbatim; the stub has no side effects.
func (a *APU) WriteRegister(address uint16, value uint8) {
	switch address {
	case addr.NR10:
		a.nr10 = value
	case addr.NR11:
		a.nr11 = value
	case addr.NR12:
		a.nr12 = value
	case addr.NR13:
		a.nr13 = value
	case addr.NR14:
		a.nr14 = value
	case addr.NR21:
		a.nr21 = value
	case addr.NR22:
		a.nr22 = value
	case addr.NR23:
		a.nr23 = value
	case addr.NR24:
		a.nr24 = value
	case addr.NR30:
		a.nr30 = value
	case addr.NR31:
		a.nr31 = value
	case addr.NR32:
		a.nr32 = value
	case addr.NR33:
		a.nr33 = value
	case addr.NR34:
		a.nr34 = value
	case addr.NR41:
		a.nr41 = value
	case addr.NR42:
		a.nr42 = value
	case addr.NR43:
		a.nr43 = value
	case addr.NR44:
		a.nr44 = value
	case addr.NR50:
		a.nr50 = value
	case addr.NR51:
		a.nr51 = value
	case addr.NR52:
		a.nr52 = value
	default:
		if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
			a.waveRAM[address-addr.WaveRAMStart] = value
		}
	}
}
