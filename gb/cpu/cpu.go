// Package cpu implements the Sharp LR35902 core: registers, the fetch/
// decode/execute loop, interrupt dispatch and the HALT/HALT-bug/EI-delay
// state machine described in spec.md §4.1.
package cpu

import (
	"log/slog"

	"github.com/markwinap/dmgcore/gb/gberr"
	"github.com/markwinap/dmgcore/gb/interrupt"
)

// State is one of the five execution states spec.md §4.1 names.
type State uint8

const (
	Running State = iota
	DispatchingInterrupt
	Halted
	HaltBug
	Stopped
)

// Bus is the surface the CPU needs from the memory bus.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Interrupts() *interrupt.Controller
}

// CPU is the Sharp LR35902 register file plus the fetch/execute loop.
type CPU struct {
	a, f, b, c, d, e, h, l uint8
	sp, pc                 uint16

	bus   Bus
	state State

	cycles uint64
}

// New returns a CPU wired to bus, in the post-boot-ROM register state used
// when no boot ROM is loaded (matching the teacher's cold-boot defaults).
func New(bus Bus) *CPU {
	return &CPU{
		bus: bus,
		a:   0x01, f: 0xB0,
		b: 0x00, c: 0x13,
		d: 0x00, e: 0xD8,
		h: 0x01, l: 0x4D,
		sp: 0xFFFE, pc: 0x0100,
	}
}

// ResetToBootROM points PC at the boot ROM entry point ($0000) for a cold
// boot that starts by running the boot ROM rather than skipping it.
func (c *CPU) ResetToBootROM() {
	c.pc = 0x0000
	c.sp = 0xFFFE
	c.a, c.f, c.b, c.c, c.d, c.e, c.h, c.l = 0, 0, 0, 0, 0, 0, 0, 0
}

// State reports the CPU's current execution state.
func (c *CPU) State() State { return c.state }

// PC returns the program counter (for debug snapshots).
func (c *CPU) PC() uint16 { return c.pc }

// Cycles returns the running T-cycle count since construction.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Registers is a point-in-time copy of the register file, for debug
// snapshots (spec.md §6).
type Registers struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	IME                    bool
}

// Snapshot returns the current register file.
func (c *CPU) Snapshot() Registers {
	return Registers{
		A: c.a, F: c.f, B: c.b, C: c.c, D: c.d, E: c.e, H: c.h, L: c.l,
		SP: c.sp, PC: c.pc, IME: c.bus.Interrupts().IME(),
	}
}

// Step executes one unit of work — either an interrupt dispatch, a HALT
// spin cycle, or one instruction — and returns the T-cycles it consumed.
func (c *CPU) Step() (int, error) {
	ic := c.bus.Interrupts()

	if c.state == Stopped {
		return 0, &gberr.Stopped{PC: c.pc}
	}

	if c.state == Halted {
		if !ic.Pending() {
			return c.tick(4), nil
		}
		if ic.IME() {
			return c.tick(c.dispatchInterrupt()), nil
		}
		c.state = Running
	}

	if c.state == Running && ic.IME() && ic.Pending() {
		return c.tick(c.dispatchInterrupt()), nil
	}

	haltBug := c.state == HaltBug
	c.state = Running

	cycles, err := c.decodeAndExecute(haltBug)
	ic.ApplyEIDelay()
	return c.tick(cycles), err
}

func (c *CPU) tick(cycles int) int {
	c.cycles += uint64(cycles)
	return cycles
}

func (c *CPU) decodeAndExecute(haltBug bool) (int, error) {
	fetchPC := c.pc
	opcode := c.fetch8()
	cycles, err := c.execute(opcode)
	if haltBug {
		// The HALT bug: PC fails to advance past the byte following HALT,
		// so it is fetched and executed twice.
		c.pc = fetchPC
	}
	return cycles, err
}

// enterHalt is called by the HALT instruction handler.
func (c *CPU) enterHalt() {
	ic := c.bus.Interrupts()
	if !ic.IME() && ic.Pending() {
		c.state = HaltBug
		slog.Debug("HALT entered with IME clear and interrupt pending: HALT bug armed")
		return
	}
	c.state = Halted
}

// enterStop is called by the STOP instruction handler; per spec.md §4.1
// STOP is fatal in this core's scope.
func (c *CPU) enterStop() {
	c.state = Stopped
}

// dispatchInterrupt performs the fixed 20-cycle interrupt entry sequence.
func (c *CPU) dispatchInterrupt() int {
	ic := c.bus.Interrupts()
	line, ok := ic.HighestPriority()
	if !ok {
		return 0
	}
	ic.SetIME(false)
	c.push16(c.pc)
	ic.Acknowledge(line)
	c.pc = line.Vector()
	return 20
}

func (c *CPU) fetch8() uint8 {
	v := c.bus.Read(c.pc)
	c.pc++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(v uint16) {
	c.sp--
	c.bus.Write(c.sp, uint8(v>>8))
	c.sp--
	c.bus.Write(c.sp, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.bus.Read(c.sp)
	c.sp++
	hi := c.bus.Read(c.sp)
	c.sp++
	return uint16(hi)<<8 | uint16(lo)
}
