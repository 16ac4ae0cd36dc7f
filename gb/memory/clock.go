package memory

import "time"

// monotonicMicros returns the current wall-clock time in microseconds since
// the Unix epoch, used by InMemoryProvider's Clock() to drive MBC3's RTC
// when no host-supplied provider overrides it.
func monotonicMicros() uint64 {
	return uint64(time.Now().UnixMicro())
}
