package games

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotPlayable is returned for the None and Pre pseudo-states
	// Reaching it from sequencing code is a logic fault
	ErrNotPlayable = errors.New("game is not a playable minigame")

	// ErrUnknownGame is returned for values outside the Game enumeration
	ErrUnknownGame = errors.New("unknown game")
)

// UnknownNameError reports a game name that does not resolve
type UnknownNameError struct {
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("unknown game name %q", e.Name)
}

func (e *UnknownNameError) Unwrap() error { return ErrUnknownGame }

// ControlMethod is the input scheme a minigame expects
type ControlMethod int

const (
	ControlWasd ControlMethod = iota
	ControlMouse
	ControlKeyboard
)

// String returns the control method name
func (c ControlMethod) String() string {
	switch c {
	case ControlWasd:
		return "Wasd"
	case ControlMouse:
		return "Mouse"
	case ControlKeyboard:
		return "Keyboard"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the control method by name
func (c ControlMethod) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a control method name, case-insensitively
func (c *ControlMethod) UnmarshalText(text []byte) error {
	for m := ControlWasd; m <= ControlKeyboard; m++ {
		if strings.EqualFold(m.String(), string(text)) {
			*c = m
			return nil
		}
	}
	return fmt.Errorf("unknown control method %q", text)
}

// GameInfo is the static metadata shown before a game starts
type GameInfo struct {
	Kind     Game          `json:"kind"`
	Controls ControlMethod `json:"controls"`
	Hint     string        `json:"hint"`
	Color    uint32        `json:"color"` // 0xRRGGBBAA
}

// RGB splits the color into its 8-bit channels, alpha dropped
func (i GameInfo) RGB() (r, g, b uint8) {
	return uint8(i.Color >> 24), uint8(i.Color >> 16), uint8(i.Color >> 8)
}

// registry is indexed by Game; zero entries for None and Pre are never returned
var registry = [gameCount]GameInfo{
	Example: {Kind: Example, Controls: ControlWasd, Hint: "Go", Color: 0xFFFFFFFF},
	Catch:   {Kind: Catch, Controls: ControlWasd, Hint: "Catch", Color: 0xFFFFFFFF},
	CatBonk: {Kind: CatBonk, Controls: ControlMouse, Hint: "Bonk", Color: 0xFFAA55FF},
	Popup:   {Kind: Popup, Controls: ControlMouse, Hint: "Close", Color: 0x5555FFFF},
	Lobster: {Kind: Lobster, Controls: ControlKeyboard, Hint: "Grab", Color: 0xFF5555FF},
	Rain:    {Kind: Rain, Controls: ControlWasd, Hint: "Shelter", Color: 0xFFFFFFFF},
	Duck:    {Kind: Duck, Controls: ControlWasd, Hint: "Dodge", Color: 0xFFFF55FF},
}

// Info returns the metadata for a playable game
func Info(kind Game) (GameInfo, error) {
	if !kind.valid() {
		return GameInfo{}, fmt.Errorf("info for %d: %w", int(kind), ErrUnknownGame)
	}
	if !kind.Playable() {
		return GameInfo{}, fmt.Errorf("info for %s: %w", kind, ErrNotPlayable)
	}
	return registry[kind], nil
}

// MustInfo is Info for callers that have already established kind is playable
// Panics otherwise
func MustInfo(kind Game) GameInfo {
	info, err := Info(kind)
	if err != nil {
		panic(err)
	}
	return info
}
