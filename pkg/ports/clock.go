package ports

import "time"

// Timer is a single-shot timer created by a Clock.
type Timer interface {
	// C delivers the firing time once the timer expires.
	C() <-chan time.Time
	// Stop prevents the timer from firing. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// Clock abstracts time so the dwell timers of the navigation engine can be
// driven by a virtual clock in tests.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}
