package gb

import "github.com/markwinap/dmgcore/gb/cpu"

// Snapshot is a point-in-time debug view of the emulator's visible state
// (spec.md §6's persistence/introspection ask), independent of any
// particular backend's rendering.
type Snapshot struct {
	CPU             cpu.Registers
	CPUState        cpu.State
	InterruptEnable uint8
	InterruptFlags  uint8
}

// Snapshot captures the current CPU registers and interrupt state.
func (g *GameBoy) Snapshot() Snapshot {
	ic := g.bus.Interrupts()
	return Snapshot{
		CPU:             g.cpu.Snapshot(),
		CPUState:        g.cpu.State(),
		InterruptEnable: ic.IE(),
		InterruptFlags:  ic.IF(),
	}
}

// ReadMemory exposes a single byte for debug tooling (disassemblers,
// memory viewers) without giving callers a reference to the bus.
func (g *GameBoy) ReadMemory(address uint16) uint8 {
	return g.bus.Read(address)
}
