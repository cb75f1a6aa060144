package engine

import (
	"sync"
	"time"
)

// MockClock provides a controllable ProgressClock for testing
type MockClock struct {
	mu      sync.RWMutex
	elapsed time.Duration
}

// NewMockClock creates a mock clock at the given elapsed time
func NewMockClock(start time.Duration) *MockClock {
	return &MockClock{elapsed: start}
}

// Elapsed returns the current mocked elapsed time
func (m *MockClock) Elapsed() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.elapsed
}

// Advance moves the clock forward by d; negative values are ignored
func (m *MockClock) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.elapsed += d
}
