package games

import "fmt"

// FirstGame is the game every session opens with
const FirstGame = CatBonk

// rotation maps the game that just ended to the one that follows
// Off-rotation games (Example, Catch, Duck) and None re-enter at CatBonk
var rotation = [gameCount]Game{
	None:    CatBonk,
	Example: CatBonk,
	Catch:   CatBonk,
	CatBonk: Popup,
	Popup:   Lobster,
	Lobster: Rain,
	Rain:    CatBonk,
	Duck:    CatBonk,
}

// Next returns the game that follows current
// Pre never precedes a game: a result while in intermission is a sequencing fault
func Next(current Game) (Game, error) {
	if !current.valid() {
		return None, fmt.Errorf("next after %d: %w", int(current), ErrUnknownGame)
	}
	if current == Pre {
		return None, fmt.Errorf("next after %s: %w", current, ErrNotPlayable)
	}
	return rotation[current], nil
}
