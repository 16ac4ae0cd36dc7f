// Package interrupt implements the DMG interrupt controller: the IME master
// flag plus the IF (request) and IE (enable) register pair, and the fixed
// VBlank/LCDStat/Timer/Serial/Joypad priority ordering used to pick which
// line to service at an instruction boundary.
//
// It is deliberately separate from the memory bus (spec.md §4.3 lists it as
// its own component) so the CPU can consult it directly without routing
// through a Read/Write call, while the bus still exposes IF/IE at their
// fixed addresses for code that addresses them as ordinary registers.
package interrupt

import "github.com/markwinap/dmgcore/gb/addr"

// unusedIFIEBits is OR'd into every read of IF/IE: the top 3 bits of both
// registers are unimplemented and always read back as 1.
const unusedIFIEBits = 0xE0

// Controller holds IME/IF/IE state and the request/acknowledge/dispatch
// logic described in spec.md §4.3.
type Controller struct {
	ime   bool
	ie    uint8
	iflag uint8

	// eiDelay counts down the instruction boundaries until a pending EI
	// takes effect: 2 means "set by EI, not yet applied"; it is decremented
	// once per ApplyEIDelay call (once per CPU Step), and IME is set when
	// it reaches 0 — i.e. after the instruction *following* EI has run, not
	// EI's own instruction.
	eiDelay int
}

// New returns a controller with interrupts disabled and no pending requests,
// matching the cold-boot reset state in spec.md §3.
func New() *Controller {
	return &Controller{}
}

// Request sets the IF bit for line.
func (c *Controller) Request(line addr.Interrupt) {
	c.iflag |= line.Bit()
}

// Acknowledge clears the IF bit for line, as done when dispatch begins.
func (c *Controller) Acknowledge(line addr.Interrupt) {
	c.iflag &^= line.Bit()
}

// IE returns the current interrupt-enable register, with the unused upper
// bits forced to 1.
func (c *Controller) IE() uint8 {
	return c.ie | unusedIFIEBits
}

// SetIE writes the interrupt-enable register; only the low 5 bits are
// meaningful.
func (c *Controller) SetIE(value uint8) {
	c.ie = value & 0x1F
}

// IF returns the current interrupt-flag register, with the unused upper
// bits forced to 1.
func (c *Controller) IF() uint8 {
	return c.iflag | unusedIFIEBits
}

// SetIF writes the interrupt-flag register; only the low 5 bits are
// meaningful.
func (c *Controller) SetIF(value uint8) {
	c.iflag = value & 0x1F
}

// IME reports whether the interrupt master enable flag is currently set.
func (c *Controller) IME() bool {
	return c.ime
}

// SetIME sets IME immediately, as DI and RETI do.
func (c *Controller) SetIME(v bool) {
	c.ime = v
	c.eiDelay = 0
}

// RequestEnable arms the one-instruction-delayed IME set performed by EI;
// the delay is applied by calling ApplyEIDelay once per instruction until
// the instruction following EI has completed.
func (c *Controller) RequestEnable() {
	c.eiDelay = 2
}

// ApplyEIDelay must be called once after each instruction completes; it
// turns a pending EI into an actual IME=1 transition exactly one
// instruction after EI itself, not at the end of EI's own instruction.
func (c *Controller) ApplyEIDelay() {
	if c.eiDelay == 0 {
		return
	}
	c.eiDelay--
	if c.eiDelay == 0 {
		c.ime = true
	}
}

// Pending reports whether any enabled interrupt is currently requested,
// i.e. (IE & IF) != 0. This is also what wakes the CPU out of HALT,
// independent of IME.
func (c *Controller) Pending() bool {
	return (c.ie & c.iflag & 0x1F) != 0
}

// HighestPriority returns the lowest-numbered requested-and-enabled line (in
// VBlank, LCDStat, Timer, Serial, Joypad order) and true, or false if none is
// pending.
func (c *Controller) HighestPriority() (addr.Interrupt, bool) {
	pending := c.ie & c.iflag & 0x1F
	if pending == 0 {
		return 0, false
	}
	for _, line := range []addr.Interrupt{addr.VBlank, addr.LCDStat, addr.Timer, addr.Serial, addr.Joypad} {
		if pending&line.Bit() != 0 {
			return line, true
		}
	}
	return 0, false
}
