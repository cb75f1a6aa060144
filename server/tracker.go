package server

import (
	"sync"

	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/progress"
)

// SessionView is what HTTP clients see of the running session
type SessionView struct {
	Screen   string            `json:"screen"`
	State    string            `json:"state"`
	Game     games.Game        `json:"game"`
	Next     *games.GameInfo   `json:"next,omitempty"`
	Last     *games.Result     `json:"last,omitempty"`
	Active   bool              `json:"active"`
	Snapshot progress.Snapshot `json:"snapshot"`
	Frame    int64             `json:"frame"`
}

// Tracker folds notifications into a SessionView
// Observe runs on the game loop; View may be called from any goroutine
type Tracker struct {
	mu   sync.RWMutex
	view SessionView
}

func NewTracker() *Tracker {
	return &Tracker{view: SessionView{State: "None", Game: games.None}}
}

// Observe updates the view from one notification
func (t *Tracker) Observe(ev event.GameEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v := &t.view
	v.Frame = ev.Frame
	switch p := ev.Payload.(type) {
	case *event.ScreenChangePayload:
		v.Screen = p.Screen
	case *event.SessionBegunPayload:
		v.Active = true
		v.State = "None"
		v.Game = games.None
		v.Next, v.Last = nil, nil
		v.Snapshot = p.Snapshot
	case *event.PreGameEnterPayload:
		next := p.Next
		v.State = "PreGame"
		v.Game = games.Pre
		v.Next = &next
		v.Last = p.Last
	case *event.GameStartPayload:
		v.State = "Game"
		v.Game = p.Game
	case *event.RoundResolvedPayload:
		v.Snapshot = p.Snapshot
	case *event.SessionOverPayload:
		v.end(p.Snapshot)
	case *event.SessionAbandonedPayload:
		v.end(p.Snapshot)
	}
}

func (v *SessionView) end(snap progress.Snapshot) {
	v.Active = false
	v.State = "None"
	v.Game = games.None
	v.Next = nil
	v.Snapshot = snap
}

// View returns a copy of the current view
func (t *Tracker) View() SessionView {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.view
}
