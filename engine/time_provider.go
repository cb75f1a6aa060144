package engine

import "time"

// ProgressClock is the monotonic elapsed-time source every timed transition reads
// Elapsed must never decrease
type ProgressClock interface {
	Elapsed() time.Duration
}

// Pausable is implemented by clocks the host can freeze
type Pausable interface {
	Pause()
	Resume()
	IsPaused() bool
}
