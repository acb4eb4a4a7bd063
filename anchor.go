package fastant

import "github.com/fast/fastant/internal/timekit"

// Anchor correlates one cycle source reading with one wall clock reading, and
// projects any Instant of the same process into absolute unix time. Multiple
// Anchors may coexist and each is independently valid.
//
// The projection accumulates floating-point error proportional to the distance
// between the Instant and the Anchor; callers that project Instants hours away
// from the Anchor and care about sub-microsecond accuracy should capture a
// fresh one. This is a documented limitation, not a defect.
type Anchor struct {
	cycles        uint64
	wallNanos     uint64
	nanosPerCycle float64
}

// NewAnchor captures a fresh correlation point by reading the cycle source and
// the wall clock back to back.
func NewAnchor() Anchor {
	return Anchor{
		cycles:        currentCycle(),
		wallNanos:     timekit.WallNanos(),
		nanosPerCycle: cycleToNanos,
	}
}

// Project converts i into nanoseconds since the unix epoch. If i predates the
// anchor by more than the anchor's absolute time, the result saturates at zero
// instead of underflowing.
func (a Anchor) Project(i Instant) uint64 {
	if delta := int64(i.cycles - a.cycles); delta >= 0 {
		return a.wallNanos + uint64(float64(delta)*a.nanosPerCycle)
	}
	back := uint64(float64(a.cycles-i.cycles) * a.nanosPerCycle)
	if back >= a.wallNanos {
		return 0
	}
	return a.wallNanos - back
}
