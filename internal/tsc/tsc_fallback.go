//go:build !(linux && amd64)

package tsc

// The timestamp counter strategy is implemented for linux/amd64 only.
// Everywhere else calibration is a no-op: Available reports false and callers
// route timing reads through the coarse OS clock.

func calibrate() {}

// Cycles is never consulted when Available reports false.
func Cycles() uint64 {
	return 0
}
