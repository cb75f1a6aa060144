// Package status publishes live session metrics from the game loop to readers
// on other goroutines (HTTP, HUD) without locking the loop
package status

import "sync/atomic"

// Metric keys written by the scheduler
const (
	KeyFrames      = "engine.frames"
	KeyFaults      = "engine.faults"
	KeyCommits     = "engine.commits"
	KeyScreen      = "screen.current"
	KeyState       = "session.state"
	KeyGame        = "session.game"
	KeyActive      = "session.active"
	KeyRound       = "session.round"
	KeyPassed      = "session.passed"
	KeyFailed      = "session.failed"
	KeyLevel       = "session.level"
	KeyElapsedMs   = "session.elapsed_ms"
	KeyFever       = "session.fever"
	KeyFeverNormal = "session.fever_nominal"
	KeyCountdown   = "pregame.countdown"
	KeyHintVisible = "pregame.hint_visible"
	KeySessions    = "sessions.total"
	KeyStoreErrors = "store.errors"
	KeySpectators  = "server.spectators"
)

// Registry is the metrics facade
// Writers cache pointers at setup; per-frame updates are plain atomic stores
type Registry struct {
	Bools   *Table[atomic.Bool]
	Ints    *Table[atomic.Int64]
	Floats  *Table[Gauge]
	Strings *Table[Label]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   newTable[atomic.Bool](),
		Ints:    newTable[atomic.Int64](),
		Floats:  newTable[Gauge](),
		Strings: newTable[Label](),
	}
}

// TotalCount returns the number of metrics across all kinds
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot reads every metric into a flat map keyed by metric name
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Range(func(k string, v *atomic.Bool) { out[k] = v.Load() })
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	r.Floats.Range(func(k string, v *Gauge) { out[k] = v.Load() })
	r.Strings.Range(func(k string, v *Label) { out[k] = v.Load() })
	return out
}
