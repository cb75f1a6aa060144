package engine

import (
	"time"

	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/parameter"
	"github.com/lixenwraith/party-fever/progress"
)

// Session is the single owned context threaded through every frame phase
// Single-writer: only the game loop mutates it; producers on other goroutines
// touch only the Results and Events queues
type Session struct {
	// Progression ledger
	Data *progress.Data

	// Coarse state and the live-game selector (Pre during intermission)
	State GameState
	Game  games.Game

	// Current or last intermission record
	Intermission Intermission

	// Transient hint overlay, nil when none is up
	Hint *Hint

	// RoundResultChannel, drained by the Sequencer in the post-update phase
	Results *event.Queue

	// Notification bus, dispatched by the Router at the end of the frame
	Events *event.Queue

	Clock ProgressClock
	Frame int64

	// Over latches once the session-ended signal fired
	Over bool

	// Pending state, last write wins, committed once per frame
	next     *GameState
	nextGame games.Game
	commits  int
}

// Intermission records when the current PreGame began and what it announces
type Intermission struct {
	Start    time.Duration
	Info     games.GameInfo
	Last     *games.Result
	lastTick int
}

// Hint is the overlay shown between display and destroy offsets after PreGame entry
type Hint struct {
	Info      games.GameInfo
	DisplayAt time.Duration
	DestroyAt time.Duration
	Visible   bool
}

// NewSession creates an inactive session bound to a clock
func NewSession(clock ProgressClock, rules progress.Rules) *Session {
	return &Session{
		Data:    progress.New(rules),
		State:   NoneState(),
		Game:    games.None,
		Results: event.NewQueue(parameter.ResultQueueSize),
		Events:  event.NewQueue(parameter.EventQueueSize),
		Clock:   clock,
	}
}

// Report enqueues a round result; safe from any goroutine
func (s *Session) Report(game games.Game, result games.Result) {
	s.Results.Push(event.GameEvent{
		Type:    event.EventRoundResult,
		Payload: &event.RoundResultPayload{Result: result, Game: game},
	})
}

// Emit pushes a notification stamped with the current frame
func (s *Session) Emit(et event.EventType, payload any) {
	s.Events.Emit(et, payload, s.Frame)
}

// SetNext stages the state and live-game selector committed at the end of the frame
// A later call in the same frame overwrites an earlier one
func (s *Session) SetNext(state GameState, game games.Game) {
	s.next = &state
	s.nextGame = game
}

// Pending returns the staged state, if any
func (s *Session) Pending() (GameState, bool) {
	if s.next == nil {
		return GameState{}, false
	}
	return *s.next, true
}

func (s *Session) clearNext() {
	s.next = nil
}

// commit applies the staged state and reports whether one was staged
func (s *Session) commit() (GameState, bool) {
	if s.next == nil {
		return GameState{}, false
	}
	s.State = *s.next
	s.Game = s.nextGame
	s.next = nil
	s.commits++
	return s.State, true
}

// Commits returns how many state transitions were committed so far
func (s *Session) Commits() int {
	return s.commits
}

// Active reports whether a session is running and has not ended
func (s *Session) Active() bool {
	return s.State.Kind != StateNone && !s.Over
}
