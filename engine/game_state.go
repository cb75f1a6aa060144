package engine

import (
	"fmt"

	"github.com/lixenwraith/party-fever/games"
)

// StateKind is the coarse session state
type StateKind int

const (
	// StateNone means no session is running
	StateNone StateKind = iota
	// StatePreGame is the intermission between rounds
	StatePreGame
	// StateGame means a minigame is live
	StateGame
)

func (k StateKind) String() string {
	switch k {
	case StateNone:
		return "None"
	case StatePreGame:
		return "PreGame"
	case StateGame:
		return "Game"
	default:
		return "Unknown"
	}
}

// TransitionInfo is carried into PreGame: the game about to start and the
// outcome of the round before it (nil only for the first intermission)
type TransitionInfo struct {
	Next games.GameInfo
	Last *games.Result
}

// GameState is a tagged union over StateKind
// Transition is meaningful only for StatePreGame, Game only for StateGame
type GameState struct {
	Kind       StateKind
	Transition TransitionInfo
	Game       games.Game
}

// NoneState is the inactive session state
func NoneState() GameState {
	return GameState{Kind: StateNone}
}

// PreGameState builds an intermission state
func PreGameState(info TransitionInfo) GameState {
	return GameState{Kind: StatePreGame, Transition: info}
}

// LiveState builds the state of a running minigame
func LiveState(kind games.Game) GameState {
	return GameState{Kind: StateGame, Game: kind}
}

// Equal compares two states by value, including the Last result
func (s GameState) Equal(o GameState) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case StatePreGame:
		a, b := s.Transition, o.Transition
		if a.Next != b.Next {
			return false
		}
		if (a.Last == nil) != (b.Last == nil) {
			return false
		}
		return a.Last == nil || *a.Last == *b.Last
	case StateGame:
		return s.Game == o.Game
	}
	return true
}

func (s GameState) String() string {
	switch s.Kind {
	case StatePreGame:
		last := "none"
		if s.Transition.Last != nil {
			last = s.Transition.Last.String()
		}
		return fmt.Sprintf("PreGame(next=%s, last=%s)", s.Transition.Next.Kind, last)
	case StateGame:
		return fmt.Sprintf("Game(%s)", s.Game)
	default:
		return s.Kind.String()
	}
}

func resultRef(r games.Result) *games.Result {
	return &r
}
