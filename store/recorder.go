package store

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/progress"
)

// Recorder persists session notifications
// HandleEvent runs on the game loop and only enqueues; a worker goroutine
// performs the writes. When the buffer is full the event is dropped and counted
type Recorder struct {
	store *Store
	jobs  chan event.GameEvent
	now   func() time.Time

	current uuid.UUID // owned by the worker
	dropped atomic.Int64
	failed  *atomic.Int64

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewRecorder creates a recorder with a job buffer of size capacity
func NewRecorder(s *Store, capacity int) *Recorder {
	return &Recorder{
		store:  s,
		jobs:   make(chan event.GameEvent, capacity),
		now:    time.Now,
		failed: new(atomic.Int64),
	}
}

// CountFailuresIn makes the recorder count write errors in c, e.g. a status
// registry cell; call before Start
func (r *Recorder) CountFailuresIn(c *atomic.Int64) {
	r.failed = c
}

// EventTypes implements event.Handler
func (r *Recorder) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventSessionBegun,
		event.EventRoundResolved,
		event.EventSessionOver,
		event.EventSessionAbandoned,
	}
}

// HandleEvent implements event.Handler
func (r *Recorder) HandleEvent(ev event.GameEvent) {
	select {
	case r.jobs <- ev:
	default:
		r.dropped.Add(1)
	}
}

// Start runs the write worker until Close
func (r *Recorder) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for ev := range r.jobs {
			if err := r.write(ctx, ev); err != nil {
				r.failed.Add(1)
				log.Printf("[STORE] %s: %v", ev.Type, err)
			}
		}
	}()
}

// Close flushes queued events and stops the worker
// No HandleEvent call may happen after Close
func (r *Recorder) Close() {
	r.stopOnce.Do(func() {
		close(r.jobs)
		r.wg.Wait()
	})
}

// Dropped returns how many events were lost to a full buffer
func (r *Recorder) Dropped() int64 { return r.dropped.Load() }

// Failed returns how many writes returned an error
func (r *Recorder) Failed() int64 { return r.failed.Load() }

func (r *Recorder) write(ctx context.Context, ev event.GameEvent) error {
	switch p := ev.Payload.(type) {
	case *event.SessionBegunPayload:
		id, err := r.store.BeginSession(ctx, r.now(), p.Snapshot.Random)
		if err != nil {
			r.current = uuid.Nil
			return err
		}
		r.current = id
		log.Printf("[STORE] session %s started", id)

	case *event.RoundResolvedPayload:
		if r.current == uuid.Nil {
			return nil
		}
		return r.store.RecordRound(ctx, r.current, RoundRecord{
			Round:      p.Snapshot.Round - 1,
			Game:       p.Game,
			Result:     p.Result,
			RecordedAt: r.now(),
		})

	case *event.SessionOverPayload:
		return r.finish(ctx, p.Snapshot, "finished")

	case *event.SessionAbandonedPayload:
		return r.finish(ctx, p.Snapshot, "abandoned")
	}
	return nil
}

// finish closes the open session row with its final ledger
func (r *Recorder) finish(ctx context.Context, snap progress.Snapshot, how string) error {
	if r.current == uuid.Nil {
		return nil
	}
	id := r.current
	r.current = uuid.Nil
	if err := r.store.FinishSession(ctx, id, snap, r.now()); err != nil {
		return err
	}
	log.Printf("[STORE] session %s %s after %d rounds", id, how, snap.Passed+snap.Failed)
	return nil
}
