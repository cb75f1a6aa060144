// Package host runs minigames in the terminal as a stand-in for real
// minigame implementations: each round is a timed prompt for the game's
// control method
package host

import (
	"sync"
	"time"

	"github.com/lixenwraith/party-fever/engine"
	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/input"
	"github.com/lixenwraith/party-fever/parameter"
)

// Round is the live minigame round as seen by the HUD
type Round struct {
	Game      games.Game
	Info      games.GameInfo
	Level     int
	Deadline  time.Duration
	Satisfied bool
}

// Terminal is an engine.Host and an event.Handler
// Input arrives on the terminal goroutine; Update and HandleEvent run on the loop
type Terminal struct {
	duration time.Duration

	mu      sync.Mutex
	armed   *event.GameStartPayload // set by EventGameStart, opened on the next Update
	round   *Round
	results [2]int
}

// NewTerminal creates a host giving each round the given time limit
func NewTerminal(duration time.Duration) *Terminal {
	return &Terminal{duration: duration}
}

// EventTypes implements event.Handler
func (t *Terminal) EventTypes() []event.EventType {
	return []event.EventType{event.EventGameStart, event.EventSessionOver, event.EventSessionAbandoned}
}

// HandleEvent arms a round on game start and drops any round when the session ends
func (t *Terminal) HandleEvent(ev event.GameEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Type {
	case event.EventGameStart:
		if p, ok := ev.Payload.(*event.GameStartPayload); ok {
			t.armed = p
		}
	case event.EventSessionOver, event.EventSessionAbandoned:
		t.armed = nil
		t.round = nil
	}
}

// Input records player input; returns true when it satisfied the live round
func (t *Terminal) Input(in input.Intent) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.round == nil || t.round.Satisfied {
		return false
	}
	if matches(t.round.Info.Controls, in.Type) {
		t.round.Satisfied = true
		return true
	}
	return false
}

func matches(c games.ControlMethod, it input.IntentType) bool {
	switch c {
	case games.ControlWasd:
		return it == input.IntentMotion
	case games.ControlMouse:
		return it == input.IntentMouseClick
	case games.ControlKeyboard:
		return it == input.IntentAction
	}
	return false
}

// Update opens armed rounds and resolves the live one, one result per round
func (t *Terminal) Update(s *engine.Session, now time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.armed != nil {
		info, err := games.Info(t.armed.Game)
		if err == nil {
			t.round = &Round{
				Game:     t.armed.Game,
				Info:     info,
				Level:    t.armed.Level,
				Deadline: now + t.window(s, t.armed.Game),
			}
		}
		t.armed = nil
	}

	r := t.round
	if r == nil {
		return
	}
	if s.State.Kind != engine.StateGame || s.Game != r.Game {
		return
	}

	switch {
	case r.Satisfied:
		t.finish(s, games.Passed)
	case now > r.Deadline:
		t.finish(s, games.Failed)
	}
}

// window is the round time limit scaled by the game's level curve
func (t *Terminal) window(s *engine.Session, g games.Game) time.Duration {
	m, ok := deadlineCurves[g]
	if !ok {
		return t.duration
	}
	return time.Duration(float64(t.duration) * s.Data.LevelScale(m))
}

// deadlineCurves holds the per-level deadline multiplier of the games that
// get harder with level; Rain speeds up, so its window shrinks by the inverse
var deadlineCurves = map[games.Game]float64{
	games.Lobster: parameter.LobsterLevelMultiplier,
	games.Rain:    1 / parameter.RainLevelMultiplier,
}

func (t *Terminal) finish(s *engine.Session, result games.Result) {
	s.Report(t.round.Game, result)
	t.results[result]++
	t.round = nil
}

// Current returns a copy of the live round, if any
func (t *Terminal) Current() (Round, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.round == nil {
		return Round{}, false
	}
	return *t.round, true
}

// Reported returns how many results of each kind were sent
func (t *Terminal) Reported(r games.Result) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.results[r]
}

// Remaining returns the time left in the live round, false when none is open
func (t *Terminal) Remaining(now time.Duration) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.round == nil {
		return 0, false
	}
	return max(t.round.Deadline-now, 0), true
}
