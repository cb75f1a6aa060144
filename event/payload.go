package event

import (
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/progress"
)

// GameEvent is a queued event with its payload and the frame it was pushed in
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64
}

// RoundResultPayload is what a minigame reports at the end of its round
type RoundResultPayload struct {
	Result games.Result `json:"result"`
	Game   games.Game   `json:"game"` // Reporter, informational only
}

// RoundResolvedPayload describes one applied result
type RoundResolvedPayload struct {
	Game     games.Game        `json:"game"` // Game live when the batch was drained
	Result   games.Result      `json:"result"`
	Next     games.Game        `json:"next"`
	Snapshot progress.Snapshot `json:"snapshot"`
}

// PreGameEnterPayload describes a committed intermission
type PreGameEnterPayload struct {
	Next  games.GameInfo `json:"next"`
	Last  *games.Result  `json:"last,omitempty"` // nil for the first intermission of a session
	Round int            `json:"round"`
}

// GameStartPayload names the minigame that went live
type GameStartPayload struct {
	Game  games.Game `json:"game"`
	Level int        `json:"level"`
}

// CountdownTickPayload carries whole seconds left before the game starts
type CountdownTickPayload struct {
	Remaining int `json:"remaining"`
}

// HintPayload carries the hint being displayed
type HintPayload struct {
	Info games.GameInfo `json:"info"`
}

// SessionBegunPayload marks the start of a session
type SessionBegunPayload struct {
	First    games.Game        `json:"first"`
	Snapshot progress.Snapshot `json:"snapshot"`
}

// SessionOverPayload carries the final ledger
type SessionOverPayload struct {
	LastGame games.Game        `json:"last_game"`
	Snapshot progress.Snapshot `json:"snapshot"`
}

// SessionAbandonedPayload carries the ledger of a session quit before it was over
type SessionAbandonedPayload struct {
	LastGame games.Game        `json:"last_game"` // Live game at quit, Pre during intermission
	Snapshot progress.Snapshot `json:"snapshot"`
}

// ScreenChangePayload names the screen just entered
type ScreenChangePayload struct {
	Screen string `json:"screen"`
}
