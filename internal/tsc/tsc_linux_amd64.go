package tsc

import (
	"os"
	"runtime"
	"time"

	"golang.org/x/sys/unix"

	"github.com/fast/fastant/internal/timekit"
)

// rdtsc reads the timestamp counter with a preceding LFENCE so the read cannot
// be hoisted above earlier loads by the CPU. Implemented in tsc_linux_amd64.s.
//
//go:noescape
func rdtsc() uint64

// Cycles returns the current timestamp counter reading.
// Meaningless unless Available reports true.
func Cycles() uint64 {
	return rdtsc()
}

func calibrate() {
	cpuinfo, err := os.ReadFile("/proc/cpuinfo")
	if err != nil || !hasTSCFlags(cpuinfo) {
		return
	}
	factor, ok := factorFromSamples(collectSamples())
	if !ok {
		return
	}
	if !coresInSync(factor) {
		return
	}
	nanosPerCycle = factor
	available = true
}

func collectSamples() []sample {
	samples := make([]sample, 0, calibrationRounds+1)
	if s, ok := pairedReading(); ok {
		samples = append(samples, s)
	}
	for i := 0; i < calibrationRounds; i++ {
		time.Sleep(calibrationSleepMs * time.Millisecond)
		if s, ok := pairedReading(); ok {
			samples = append(samples, s)
		}
	}
	return samples
}

// pairedReading takes a cycle-wall-cycle reading and reports the midpoint of
// the two cycle readings, so the wall reading corresponds to the middle of the
// interval. A reordered (descending) pair is retried: it signals a migration
// between unsynchronized cores or a virtualization artifact.
func pairedReading() (sample, bool) {
	for attempt := 0; attempt < pairedReadAttempts; attempt++ {
		c1 := rdtsc()
		w := timekit.WallNanos()
		c2 := rdtsc()
		if c2 >= c1 {
			return sample{cycles: c1 + (c2-c1)/2, wallNanos: w}, true
		}
	}
	return sample{}, false
}

// coresInSync pins the calibrating thread to each CPU in its affinity mask in
// turn and takes a paired reading on each. With a synchronized counter, the
// cycle delta between consecutive readings (converted via factor) must agree
// with the wall clock delta; a disagreement beyond maxCrossCoreSkewNanos means
// per-core counters are offset from each other and cannot be trusted.
// If the affinity syscalls are unavailable the check fails closed: an
// unverifiable counter is treated the same as an unsynchronized one.
func coresInSync(factor float64) bool {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var orig unix.CPUSet
	if err := unix.SchedGetaffinity(0, &orig); err != nil {
		return false
	}
	defer unix.SchedSetaffinity(0, &orig)

	var prev sample
	havePrev := false
	for cpu := 0; cpu < len(orig)*64; cpu++ {
		if !orig.IsSet(cpu) {
			continue
		}
		var one unix.CPUSet
		one.Set(cpu)
		if err := unix.SchedSetaffinity(0, &one); err != nil {
			return false
		}
		s, ok := pairedReading()
		if !ok {
			return false
		}
		if havePrev {
			cycleDelta := int64(s.cycles - prev.cycles)
			wallDelta := int64(s.wallNanos - prev.wallNanos)
			if cycleDelta <= 0 || wallDelta <= 0 {
				return false
			}
			skew := float64(cycleDelta)*factor - float64(wallDelta)
			if skew < 0 {
				skew = -skew
			}
			if skew > maxCrossCoreSkewNanos {
				return false
			}
		}
		prev, havePrev = s, true
	}
	return true
}
