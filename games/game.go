// Package games identifies the minigames of a party session and holds their
// static metadata and rotation order
package games

import "strings"

// Game identifies a minigame or one of the two pseudo-states
// None and Pre are never live minigames: None means no session, Pre is the intermission
type Game int

const (
	None Game = iota
	Pre
	Example
	Catch
	CatBonk
	Popup
	Lobster
	Rain
	Duck

	gameCount
)

var gameNames = [gameCount]string{
	None:    "None",
	Pre:     "Pre",
	Example: "Example",
	Catch:   "Catch",
	CatBonk: "CatBonk",
	Popup:   "Popup",
	Lobster: "Lobster",
	Rain:    "Rain",
	Duck:    "Duck",
}

// String returns the display name of the game
func (g Game) String() string {
	if !g.valid() {
		return "Unknown"
	}
	return gameNames[g]
}

// Playable reports whether g is a concrete minigame
func (g Game) Playable() bool {
	return g.valid() && g != None && g != Pre
}

func (g Game) valid() bool {
	return g >= 0 && g < gameCount
}

// Parse resolves a game name case-insensitively
func Parse(name string) (Game, bool) {
	for i, n := range gameNames {
		if strings.EqualFold(n, name) {
			return Game(i), true
		}
	}
	return None, false
}

// Playable returns every concrete minigame in declaration order
func Playable() []Game {
	out := make([]Game, 0, gameCount-Example)
	for g := Example; g < gameCount; g++ {
		out = append(out, g)
	}
	return out
}

// MarshalText encodes the game by name for JSON and TOML
func (g Game) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a game name
func (g *Game) UnmarshalText(text []byte) error {
	parsed, ok := Parse(string(text))
	if !ok {
		return &UnknownNameError{Name: string(text)}
	}
	*g = parsed
	return nil
}
