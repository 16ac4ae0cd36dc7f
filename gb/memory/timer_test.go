package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimerDIVIncrementsEvery256Cycles(t *testing.T) {
	timer := NewTimer()
	timer.ResetDIV()

	timer.Step(255)
	assert.Equal(t, uint8(0), timer.DIV())

	timer.Step(1)
	assert.Equal(t, uint8(1), timer.DIV())
}

func TestTimerDisabledByDefault(t *testing.T) {
	timer := NewTimer()
	overflow := timer.Step(10000)
	assert.False(t, overflow)
	assert.Equal(t, uint8(0), timer.TIMA())
}

func TestTimerTIMAOverflowReloadsFromTMAAndRequests(t *testing.T) {
	timer := NewTimer()
	timer.SetTAC(0x05) // enabled, clock select 1 (every 16 cycles)
	timer.SetTMA(0x10)
	timer.SetTIMA(0xFF)

	overflow := timer.Step(16)
	assert.True(t, overflow)
	assert.Equal(t, uint8(0x10), timer.TIMA())
}

func TestTimerTACReadsUnusedBitsAsOne(t *testing.T) {
	timer := NewTimer()
	timer.SetTAC(0x01)
	assert.Equal(t, uint8(0xF9), timer.TAC())
}

func TestTimerResetDIVAlwaysZeroesRegardlessOfWrittenValue(t *testing.T) {
	timer := NewTimer()
	timer.Step(1000)
	before := timer.DIV()
	assert.NotEqual(t, uint8(0), before)

	timer.ResetDIV()
	assert.Equal(t, uint8(0), timer.DIV())
}
