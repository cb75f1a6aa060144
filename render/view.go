package render

import (
	"time"

	"github.com/lixenwraith/party-fever/engine"
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/progress"
)

// RoundTimer reports time left in the live minigame round
type RoundTimer interface {
	Remaining(now time.Duration) (time.Duration, bool)
}

// View is a frame snapshot, captured on the game loop and drawn elsewhere
type View struct {
	Screen string
	Frame  int64
	Now    time.Duration
	Paused bool
	Muted  bool

	State    engine.StateKind
	Game     games.Game
	Snapshot progress.Snapshot
	Over     bool

	// PreGame
	Next      games.GameInfo
	Last      *games.Result
	Countdown int

	Hint *games.GameInfo

	// Game
	RoundLeft time.Duration
	RoundOpen bool
}

// Capture builds a View; must run on the loop goroutine
func Capture(sc *engine.Scheduler, timer RoundTimer, muted bool) View {
	s := sc.Session()
	now := s.Clock.Elapsed()

	v := View{
		Screen:   sc.Screen(),
		Frame:    s.Frame,
		Now:      now,
		Muted:    muted,
		State:    s.State.Kind,
		Game:     s.Game,
		Snapshot: s.Data.Snapshot(),
		Over:     s.Over,
	}
	if p, ok := s.Clock.(engine.Pausable); ok {
		v.Paused = p.IsPaused()
	}

	switch s.State.Kind {
	case engine.StatePreGame:
		v.Next = s.State.Transition.Next
		if last := s.State.Transition.Last; last != nil {
			r := *last
			v.Last = &r
		}
		v.Countdown = sc.PreGame().Remaining(s, now)
	case engine.StateGame:
		if timer != nil {
			v.RoundLeft, v.RoundOpen = timer.Remaining(now)
		}
	}

	if s.Hint != nil && s.Hint.Visible {
		info := s.Hint.Info
		v.Hint = &info
	}
	return v
}
