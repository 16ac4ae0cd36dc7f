// Package gb wires the CPU, memory bus and PPU into the top-level emulator
// described in spec.md §4.8: per tick, step the CPU, then hand its cycle
// count to the peripherals in the fixed order the spec names.
package gb

import (
	"log/slog"

	"github.com/markwinap/dmgcore/gb/audio"
	"github.com/markwinap/dmgcore/gb/config"
	"github.com/markwinap/dmgcore/gb/cpu"
	"github.com/markwinap/dmgcore/gb/gberr"
	"github.com/markwinap/dmgcore/gb/memory"
	"github.com/markwinap/dmgcore/gb/timing"
	"github.com/markwinap/dmgcore/gb/video"
)

// GameBoy is the top-level emulator: a single owning handle for the CPU,
// bus and PPU, ticked synchronously by the host (spec.md §5).
type GameBoy struct {
	cpu *cpu.CPU
	bus *memory.Bus
	ppu *video.PPU

	cfg config.Config
}

// New constructs a GameBoy from rom bytes, a cartridge byte provider
// (supplying persistence/clock), and the host's screen/audio sinks. bootROM
// may be nil, in which case execution starts directly at the cartridge
// entry point ($0100) instead of running the boot ROM.
func New(cfg config.Config, rom []byte, provider memory.ByteProvider, bootROM []byte, screen video.Screen, apuSink audio.Sink) (*GameBoy, error) {
	header, err := memory.ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	bus := memory.New(apuSink)
	if err := bus.LoadCartridge(header, provider); err != nil {
		return nil, err
	}

	gbSystem := &GameBoy{
		bus: bus,
		ppu: video.New(bus, screen),
		cfg: cfg,
	}

	if len(bootROM) > 0 {
		bus.LoadBootROM(bootROM)
		gbSystem.cpu = cpu.New(bus)
		gbSystem.cpu.ResetToBootROM()
	} else {
		gbSystem.cpu = cpu.New(bus)
	}

	slog.Info("gameboy initialized", "title", header.Title, "cartType", header.CartType, "bootROM", len(bootROM) > 0)
	return gbSystem, nil
}

// Tick steps the CPU once and feeds its cycle count to the peripherals:
// the bus steps the joypad, timer and audio stub, then the PPU runs, so
// the audio stub is stepped before the PPU, not after it. The cartridge
// RTC is not ticked; it only advances on an explicit latch.
func (g *GameBoy) Tick() error {
	cycles, err := g.cpu.Step()
	if err != nil {
		return err
	}
	g.bus.Step(cycles)
	g.ppu.Step(cycles)
	return nil
}

// RunFrame ticks until at least one frame's worth of cycles (spec.md's
// ≈70224 T-cycles) has been consumed.
func (g *GameBoy) RunFrame() error {
	consumed := 0
	for consumed < timing.CyclesPerFrame {
		before := g.cpu.Cycles()
		if err := g.Tick(); err != nil {
			return err
		}
		consumed += int(g.cpu.Cycles() - before)
	}
	return nil
}

// Run repeatedly calls RunFrame, pacing with limiter and stopping after
// cfg.FrameLimit frames if set (0 means run until an error or the host
// stops calling it).
func (g *GameBoy) Run(limiter timing.Limiter) error {
	frame := 0
	for {
		if err := g.RunFrame(); err != nil {
			return err
		}
		frame++
		if g.cfg.FrameLimit > 0 && frame >= g.cfg.FrameLimit {
			return nil
		}
		limiter.WaitForNextFrame()
	}
}

// PressButton / ReleaseButton forward to the joypad, for the host to call
// with the ButtonEvents a backend's Update returns.
func (g *GameBoy) PressButton(b memory.Button)   { g.bus.Joypad().Press(b) }
func (g *GameBoy) ReleaseButton(b memory.Button) { g.bus.Joypad().Release(b) }

var (
	_ error = (*gberr.InvalidOpcode)(nil)
	_ error = (*gberr.UnsupportedMBC)(nil)
	_ error = (*gberr.MalformedROM)(nil)
	_ error = (*gberr.PersistenceError)(nil)
	_ error = (*gberr.Stopped)(nil)
)
