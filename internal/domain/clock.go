package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// It feeds audit timestamps and logs only — exported data never depends on
// the wall clock, which is what makes exports bit-reproducible.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Clock exposes the current time source for packages that stamp audit
// metadata (run start/finish in logs).
func Clock() clockwork.Clock {
	return clock
}
