// Package tsc owns the one-shot calibration that correlates the CPU timestamp
// counter (TSC) with the wall clock. Calibration runs at most once per process;
// its result (the nanoseconds-per-cycle factor and the availability flag) is
// immutable afterwards and shared read-only with the rest of the library.
//
// The hardware strategy is implemented for linux/amd64 only. On other platforms,
// or when calibration fails, Available reports false and callers are expected to
// route timing reads through a coarse OS clock instead.
package tsc

import "sync"

// Calibration tuning. The thresholds are empirical: tight enough to reject a
// counter that drifts or is not synchronized across cores, lax enough to survive
// ordinary scheduling jitter on a loaded host.
const (
	// calibrationRounds is the number of paired (cycle, wall) samples taken
	// after the initial one. Factors are computed between consecutive samples.
	calibrationRounds = 8

	// calibrationSleepMs is how long to sleep between paired samples, in
	// milliseconds. Longer intervals reduce the relative weight of the
	// sampling jitter in each per-round factor.
	calibrationSleepMs = 1

	// minValidSamples is the minimum number of per-round factors that must
	// survive the plausibility filter for calibration to succeed.
	minValidSamples = calibrationRounds / 2

	// maxFactorSpread is the maximum allowed relative spread
	// (max-min)/mean of the surviving per-round factors.
	maxFactorSpread = 0.02

	// maxCrossCoreSkewNanos bounds how far a TSC reading taken on one core may
	// deviate from the value projected from a reading on another core. A larger
	// deviation means the counter is not synchronized across cores.
	maxCrossCoreSkewNanos = 100_000

	// pairedReadAttempts is how many times a cycle-wall-cycle read is retried
	// when the two cycle readings come back out of order.
	pairedReadAttempts = 5
)

var (
	initOnce      sync.Once
	available     bool
	nanosPerCycle = 1.0
)

// Init triggers the calibration. It is safe to call from any number of
// goroutines: only one calibration executes, the rest block until it completes
// and then observe the same result.
func Init() {
	initOnce.Do(calibrate)
}

// Available reports whether the timestamp counter passed calibration.
// The result never changes during the process lifetime.
func Available() bool {
	Init()
	return available
}

// NanosPerCycle returns the calibrated nanoseconds-per-cycle conversion factor.
// It is 1.0 when Available reports false: the fallback source already counts
// in nanoseconds.
func NanosPerCycle() float64 {
	Init()
	return nanosPerCycle
}

// sample is one paired reading of the cycle counter and the wall clock,
// taken as close together as the hardware allows.
type sample struct {
	cycles    uint64
	wallNanos uint64
}

// factorFromSamples derives the nanoseconds-per-cycle factor from consecutive
// paired samples. Per-round factors with a non-positive wall or cycle delta are
// discarded (the wall clock stepped backward, or the counter reads were
// reordered). It fails if too few factors survive or if their relative spread
// exceeds maxFactorSpread.
func factorFromSamples(samples []sample) (float64, bool) {
	factors := make([]float64, 0, len(samples))
	for i := 1; i < len(samples); i++ {
		cycleDelta := int64(samples[i].cycles - samples[i-1].cycles)
		wallDelta := int64(samples[i].wallNanos - samples[i-1].wallNanos)
		if cycleDelta <= 0 || wallDelta <= 0 {
			continue
		}
		factors = append(factors, float64(wallDelta)/float64(cycleDelta))
	}
	if len(factors) < minValidSamples {
		return 0, false
	}

	minF, maxF, sum := factors[0], factors[0], 0.0
	for _, f := range factors {
		if f < minF {
			minF = f
		}
		if f > maxF {
			maxF = f
		}
		sum += f
	}
	mean := sum / float64(len(factors))
	if (maxF-minF)/mean > maxFactorSpread {
		return 0, false
	}
	return mean, true
}
