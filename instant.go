package fastant

import "time"

// Instant is an opaque point in time: a raw reading of the selected cycle
// source. Instants are immutable, comparable and cheap to copy. They are only
// meaningful relative to other Instants produced by the same process under the
// same calibration; there is no cross-process or cross-machine guarantee.
type Instant struct {
	cycles uint64
}

// Now returns the current Instant by reading the cycle source.
// Within one goroutine, successive calls yield non-decreasing Instants.
func Now() Instant {
	return Instant{cycles: currentCycle()}
}

// DurationSince returns the time elapsed from earlier to i.
// A negative delta (earlier was actually taken later, or a cross-core skew
// edge case) is clamped to zero rather than producing a negative Duration.
func (i Instant) DurationSince(earlier Instant) time.Duration {
	delta := int64(i.cycles - earlier.cycles)
	if delta <= 0 {
		return 0
	}
	return time.Duration(float64(delta) * cycleToNanos)
}

// Elapsed returns the time elapsed since i. Shorthand for Now().DurationSince(i).
func (i Instant) Elapsed() time.Duration {
	return Now().DurationSince(i)
}

// Before reports whether i is earlier than other.
func (i Instant) Before(other Instant) bool {
	return int64(i.cycles-other.cycles) < 0
}

// After reports whether i is later than other.
func (i Instant) After(other Instant) bool {
	return int64(i.cycles-other.cycles) > 0
}

// UnixNanos projects i into absolute unix time using anchor.
// Shorthand for anchor.Project(i).
func (i Instant) UnixNanos(anchor Anchor) uint64 {
	return anchor.Project(i)
}
