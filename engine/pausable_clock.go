package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// GameClock provides pausable game time with pause duration tracking
// Elapsed excludes paused spans, so countdowns freeze while the host is paused
type GameClock struct {
	mu sync.RWMutex

	startTime time.Time // When clock was created (real time)

	// Pause state
	isPaused        atomic.Bool
	pauseStartTime  time.Time     // When current pause started (real time)
	totalPausedTime time.Duration // Cumulative pause duration

	now func() time.Time
}

// NewGameClock creates a running clock starting at zero
func NewGameClock() *GameClock {
	return newGameClockWith(time.Now)
}

func newGameClockWith(now func() time.Time) *GameClock {
	return &GameClock{
		startTime: now(),
		now:       now,
	}
}

// Elapsed returns game time since creation (affected by pause)
func (c *GameClock) Elapsed() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isPaused.Load() {
		// During pause: frozen at pause point
		return c.pauseStartTime.Sub(c.startTime) - c.totalPausedTime
	}
	return c.now().Sub(c.startTime) - c.totalPausedTime
}

// Pause stops game time advancement
func (c *GameClock) Pause() {
	if c.isPaused.CompareAndSwap(false, true) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.pauseStartTime = c.now()
	}
}

// Resume continues game time advancement
func (c *GameClock) Resume() {
	if c.isPaused.CompareAndSwap(true, false) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.pauseStartTime.IsZero() {
			c.totalPausedTime += c.now().Sub(c.pauseStartTime)
			c.pauseStartTime = time.Time{}
		}
	}
}

// IsPaused returns current pause state
func (c *GameClock) IsPaused() bool {
	return c.isPaused.Load()
}

// TotalPauseDuration returns cumulative pause time, including a pause in progress
func (c *GameClock) TotalPauseDuration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.totalPausedTime
	if c.isPaused.Load() && !c.pauseStartTime.IsZero() {
		total += c.now().Sub(c.pauseStartTime)
	}
	return total
}
