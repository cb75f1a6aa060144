// Package config loads the balance tunables: session rules, intermission
// timings and the sequencing fault policy
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/party-fever/asset"
	"github.com/lixenwraith/party-fever/engine"
	"github.com/lixenwraith/party-fever/progress"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid balance config")

// Balance is the decoded balance file
type Balance struct {
	Session SessionConfig `toml:"session"`
	PreGame PreGameConfig `toml:"pregame"`
	Engine  EngineConfig  `toml:"engine"`
}

type SessionConfig struct {
	MaxFever       int `toml:"max_fever"`
	RoundsPerLevel int `toml:"rounds_per_level"`
}

type PreGameConfig struct {
	CountdownMs   int64 `toml:"countdown_ms"`
	HintDisplayMs int64 `toml:"hint_display_ms"`
	HintDestroyMs int64 `toml:"hint_destroy_ms"`
}

type EngineConfig struct {
	Strict bool `toml:"strict"`
}

// Default decodes the embedded balance file
func Default() Balance {
	b, err := Parse([]byte(asset.DefaultBalanceConfig))
	if err != nil {
		panic(fmt.Sprintf("embedded balance config: %v", err))
	}
	return b
}

// Parse decodes and validates TOML data; unknown keys are rejected
func Parse(data []byte) (Balance, error) {
	var b Balance
	md, err := toml.Decode(string(data), &b)
	if err != nil {
		return Balance{}, fmt.Errorf("failed to decode balance config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Balance{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if err := b.Validate(); err != nil {
		return Balance{}, err
	}
	return b, nil
}

// Validate checks value ranges
func (b Balance) Validate() error {
	switch {
	case b.Session.MaxFever <= 0:
		return fmt.Errorf("%w: session.max_fever must be positive, got %d", ErrInvalid, b.Session.MaxFever)
	case b.Session.RoundsPerLevel <= 0:
		return fmt.Errorf("%w: session.rounds_per_level must be positive, got %d", ErrInvalid, b.Session.RoundsPerLevel)
	case b.PreGame.CountdownMs <= 0:
		return fmt.Errorf("%w: pregame.countdown_ms must be positive, got %d", ErrInvalid, b.PreGame.CountdownMs)
	case b.PreGame.HintDisplayMs < 0 || b.PreGame.HintDestroyMs <= 0:
		return fmt.Errorf("%w: pregame hint offsets must be non-negative with a positive lifetime", ErrInvalid)
	}
	return nil
}

// Rules returns the progression rules
func (b Balance) Rules() progress.Rules {
	return progress.Rules{
		MaxFever:       b.Session.MaxFever,
		RoundsPerLevel: b.Session.RoundsPerLevel,
	}
}

// PreGameTimings returns the intermission timings
func (b Balance) PreGameTimings() engine.PreGame {
	return engine.PreGame{
		Countdown:   time.Duration(b.PreGame.CountdownMs) * time.Millisecond,
		HintDisplay: time.Duration(b.PreGame.HintDisplayMs) * time.Millisecond,
		HintDestroy: time.Duration(b.PreGame.HintDestroyMs) * time.Millisecond,
	}
}

// FaultPolicy returns the sequencing fault policy
func (b Balance) FaultPolicy() engine.FaultPolicy {
	if b.Engine.Strict {
		return engine.FaultStrict
	}
	return engine.FaultLenient
}

// LoadFromPath reads and parses a balance file
func LoadFromPath(path string) (Balance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Balance{}, fmt.Errorf("failed to read balance config %s: %w", path, err)
	}
	b, err := Parse(data)
	if err != nil {
		return Balance{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// LoadAuto loads with priority: customPath > defaultPath > embedded
// Returns the path actually read, empty for the embedded defaults
func LoadAuto(customPath, defaultPath string) (Balance, string, error) {
	if customPath != "" {
		b, err := LoadFromPath(customPath)
		return b, customPath, err
	}
	if defaultPath != "" {
		if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
			b, err := LoadFromPath(defaultPath)
			return b, defaultPath, err
		}
	}
	return Default(), "", nil
}

// Apply stages the balance on a scheduler; it takes effect at the next session
// Must run on the loop goroutine, see Scheduler.Post
func Apply(sc *engine.Scheduler, b Balance) {
	sc.Session().Data.SetRules(b.Rules())
	sc.StagePreGame(b.PreGameTimings())
	sc.SetFaultPolicy(b.FaultPolicy())
}
