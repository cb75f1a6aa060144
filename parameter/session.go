package parameter

import "time"

// Fever and Progression
const (
	// MaxFever is the failure count at which the session ends
	MaxFever = 4

	// RoundsPerLevel is the number of rounds per difficulty tier
	RoundsPerLevel = 5

	// RoundDuration is the fixed time credited to the ledger per round
	RoundDuration = 5 * time.Second

	// BackgroundCount is the size of the post-game background pool
	BackgroundCount = 20
)

// PreGame Transition
const (
	// PreGameCountdown is the intermission length before the next game goes live
	PreGameCountdown = 4 * time.Second

	// HintDisplayTime is the offset from PreGame entry at which the hint appears
	HintDisplayTime = 4 * time.Second

	// HintDestroyTime is how long the hint stays up once displayed
	HintDestroyTime = 2 * time.Second
)

// Level Multipliers
// Applied per level as multiplier^level by the games that scale with level
const (
	LobsterLevelMultiplier = 0.9
	RainLevelMultiplier    = 1.07
)
