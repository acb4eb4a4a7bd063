// Package fastant provides a drop-in alternative to the standard monotonic
// clock for latency-sensitive instrumentation. Reading the current time costs
// a few nanoseconds instead of a syscall: on supported platforms an Instant is
// a raw CPU timestamp counter (TSC) reading, converted to a duration with a
// conversion factor calibrated once at process start.
//
//	start := fastant.Now()
//	// ... work ...
//	elapsed := start.Elapsed()
//
// The TSC does not necessarily tick at a constant rate and is not always
// synchronized across CPU cores. Calibration correlates it against the wall
// clock and verifies both properties; if either check fails, the library
// silently falls back to the coarse OS monotonic clock, observable only via
// IsTSCAvailable. Either way every operation keeps working with the same
// semantics, at coarser precision under the fallback.
//
// Calibration runs during package initialization, before application logic,
// so steady-state timing calls never pay for it.
package fastant

import (
	"github.com/fast/fastant/internal/timekit"
	"github.com/fast/fastant/internal/tsc"
)

// Process-global calibration result. Written exactly once during package
// initialization, read-only afterwards.
var (
	tscAvailable bool
	cycleToNanos float64
)

func init() {
	tsc.Init()
	tscAvailable = tsc.Available()
	cycleToNanos = tsc.NanosPerCycle()
}

// IsTSCAvailable reports whether the CPU timestamp counter is used as the time
// source, meaning the platform supports it and the calibration succeeded.
// The result is the same for the whole lifetime of the process.
func IsTSCAvailable() bool {
	return tscAvailable
}

func currentCycle() uint64 {
	if tscAvailable {
		return tsc.Cycles()
	}
	return timekit.MonotonicNanos()
}
