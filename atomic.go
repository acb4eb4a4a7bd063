package fastant

import "sync/atomic"

// Atomic is a lock-free cell holding one Instant, letting one goroutine publish
// a time point and others read it without locking. The payload is a single
// machine word, so a Load never observes a torn value: it is either the initial
// value or the argument of some previous Store or Swap.
//
// The zero value holds the zero Instant and is ready to use. Atomic provides no
// happens-before relationship for other memory; callers needing one must pair
// it with their own synchronization.
type Atomic struct {
	cycles atomic.Uint64
}

// NewAtomic returns an Atomic initialized to i.
func NewAtomic(i Instant) *Atomic {
	a := &Atomic{}
	a.cycles.Store(i.cycles)
	return a
}

// Store publishes i.
func (a *Atomic) Store(i Instant) {
	a.cycles.Store(i.cycles)
}

// Load returns the most recently published Instant.
func (a *Atomic) Load() Instant {
	return Instant{cycles: a.cycles.Load()}
}

// Swap publishes i and returns the previously held Instant.
func (a *Atomic) Swap(i Instant) Instant {
	return Instant{cycles: a.cycles.Swap(i.cycles)}
}
