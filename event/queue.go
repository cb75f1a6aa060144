package event

import (
	"fmt"
	"sync/atomic"
)

// Queue is a bounded lock-free MPSC ring buffer of events
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK (input goroutine, minigame hosts)
//   - Consume: Single consumer (game loop)
//   - Published flags prevent reading partial writes
//
// Overflow: Oldest events overwritten when full
type Queue struct {
	events    []GameEvent
	published []atomic.Bool // True = slot fully written
	mask      uint64
	size      uint64
	head      atomic.Uint64 // Read index
	tail      atomic.Uint64 // Write index
}

// NewQueue creates a queue holding up to size events
// Panics unless size is a power of two
func NewQueue(size int) *Queue {
	if size <= 0 || size&(size-1) != 0 {
		panic(fmt.Sprintf("event queue size %d is not a power of two", size))
	}
	return &Queue{
		events:    make([]GameEvent, size),
		published: make([]atomic.Bool, size),
		mask:      uint64(size - 1),
		size:      uint64(size),
	}
}

// Push adds event using lock-free CAS with published flags pattern
// Safe for concurrent producers. O(1) amortized
func (q *Queue) Push(ev GameEvent) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & q.mask

			q.events[idx] = ev
			q.published[idx].Store(true) // MUST be after write

			// Advance head if overwriting unread events
			currentHead := q.head.Load()
			if nextTail-currentHead > q.size {
				q.head.CompareAndSwap(currentHead, nextTail-q.size)
			}
			return
		}
	}
}

// Emit pushes an event built from its parts
func (q *Queue) Emit(et EventType, payload any, frame int64) {
	q.Push(GameEvent{Type: et, Payload: payload, Frame: frame})
}

// Consume returns all pending events in FIFO order and advances head
// Single-consumer design (game loop). Checks published flags for safety
func (q *Queue) Consume() []GameEvent {
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		maxAvailable := currentTail - currentHead
		if maxAvailable > q.size {
			maxAvailable = q.size
			currentHead = currentTail - q.size
		}

		result := make([]GameEvent, 0, maxAvailable)
		for i := uint64(0); i < maxAvailable; i++ {
			idx := (currentHead + i) & q.mask

			if !q.published[idx].Load() {
				break // Writer incomplete
			}

			result = append(result, q.events[idx])
			q.published[idx].Store(false)
		}

		newHead := currentHead + uint64(len(result))
		if q.head.CompareAndSwap(currentHead, newHead) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}

// Len returns approximate pending event count
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	diff := tail - head
	if diff > q.size {
		return int(q.size)
	}
	return int(diff)
}
