package timekit

import (
	_ "unsafe" // for go:linkname
)

// Go's time.Now() issues two separate syscalls on Linux: CLOCK_REALTIME and
// CLOCK_MONOTONIC. Calibration and anchoring each need exactly one of the two
// clocks per reading, so the readings are linked separately to avoid paying
// for both on every call.

//go:linkname nanotime runtime.nanotime
func nanotime() int64

//go:linkname timeNow time.now
func timeNow() (sec int64, nsec int32, mono int64)

// MonotonicNanos returns the OS monotonic clock reading in nanoseconds since
// an unspecified start point. Equivalent to clock_gettime(CLOCK_MONOTONIC) on Linux.
func MonotonicNanos() uint64 {
	return uint64(nanotime())
}

// WallNanos returns the current wall clock time in nanoseconds since the unix epoch.
// Equivalent to clock_gettime(CLOCK_REALTIME) on Linux. Unlike MonotonicNanos,
// the reading can go backward if the wall clock is adjusted.
func WallNanos() uint64 {
	sec, nsec, _ := timeNow()
	return uint64(sec)*1e9 + uint64(nsec)
}
