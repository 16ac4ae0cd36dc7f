package cpu

import (
	"testing"

	"github.com/markwinap/dmgcore/gb/gberr"
	"github.com/markwinap/dmgcore/gb/interrupt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBus is a minimal in-memory Bus for CPU unit tests.
type fakeBus struct {
	mem [0x10000]uint8
	ic  *interrupt.Controller
}

func newFakeBus() *fakeBus {
	return &fakeBus{ic: interrupt.New()}
}

func (b *fakeBus) Read(addr uint16) uint8         { return b.mem[addr] }
func (b *fakeBus) Write(addr uint16, value uint8) { b.mem[addr] = value }
func (b *fakeBus) Interrupts() *interrupt.Controller { return b.ic }

func newTestCPU() (*CPU, *fakeBus) {
	bus := newFakeBus()
	return New(bus), bus
}

func TestNewDefaultsToPostBootState(t *testing.T) {
	c, _ := newTestCPU()
	assert.Equal(t, uint16(0x0100), c.PC())
	assert.Equal(t, uint16(0xFFFE), c.sp)
	assert.Equal(t, Running, c.State())
}

func TestResetToBootROMZeroesRegisters(t *testing.T) {
	c, _ := newTestCPU()
	c.ResetToBootROM()
	assert.Equal(t, uint16(0x0000), c.PC())
	assert.Equal(t, uint8(0), c.a)
}

func TestInvalidOpcodeTraps(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x0100] = 0xD3 // invalid opcode
	_, err := c.Step()
	require.Error(t, err)
	var invalidOp *gberr.InvalidOpcode
	require.ErrorAs(t, err, &invalidOp)
	assert.Equal(t, uint8(0xD3), invalidOp.Opcode)
}

func TestHaltWithIMEDispatchesOnPendingInterrupt(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x0100] = 0x76 // HALT
	c.bus.Interrupts().SetIME(true)
	c.bus.Interrupts().SetIE(0x01)

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, 4, cycles)
	assert.Equal(t, Halted, c.State())

	c.bus.Interrupts().Request(0) // VBlank
	cycles, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, 20, cycles)
	assert.Equal(t, uint16(0x0040), c.PC(), "VBlank vector")
	assert.False(t, c.bus.Interrupts().IME(), "IME cleared on dispatch")
}

func TestHaltBugReexecutesNextByte(t *testing.T) {
	c, bus := newTestCPU()
	// IME off but an interrupt is already pending: triggers the HALT bug.
	c.bus.Interrupts().SetIE(0x01)
	c.bus.Interrupts().Request(0)

	bus.mem[0x0100] = 0x76 // HALT
	bus.mem[0x0101] = 0x3C // INC A

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, HaltBug, c.State())

	startA := c.a
	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, startA+1, c.a)
	assert.Equal(t, uint16(0x0101), c.PC(), "PC rewound so the same byte is fetched again")
}

func TestStopEntersFatalState(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x0100] = 0x10 // STOP
	bus.mem[0x0101] = 0x00

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, Stopped, c.State())

	_, err = c.Step()
	require.Error(t, err)
	var stopped *gberr.Stopped
	require.ErrorAs(t, err, &stopped)
}

func TestEIDelaysIMEByOneInstruction(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x0100] = 0xFB // EI
	bus.mem[0x0101] = 0x00 // NOP

	_, err := c.Step()
	require.NoError(t, err)
	assert.False(t, c.bus.Interrupts().IME(), "IME not yet set right after EI")

	_, err = c.Step()
	require.NoError(t, err)
	assert.True(t, c.bus.Interrupts().IME())
}

func TestRETIPopsAndEnablesIME(t *testing.T) {
	c, bus := newTestCPU()
	c.sp = 0xFFFC
	bus.mem[0xFFFC] = 0x34
	bus.mem[0xFFFD] = 0x12
	bus.mem[0x0100] = 0xD9 // RETI

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), c.PC())
	assert.True(t, c.bus.Interrupts().IME())
}
