// Package progress holds the session progression ledger: round count,
// pass/fail tallies, difficulty level, and the fever grade derived from failures
package progress

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/parameter"
)

// Rules are the tunables the ledger derives level and fever from
type Rules struct {
	MaxFever       int
	RoundsPerLevel int
}

// DefaultRules returns the compiled-in rules
func DefaultRules() Rules {
	return Rules{
		MaxFever:       parameter.MaxFever,
		RoundsPerLevel: parameter.RoundsPerLevel,
	}
}

// RandomSource draws the per-session background index
// *rand.Rand from math/rand/v2 satisfies it
type RandomSource interface {
	IntN(n int) int
}

// Data is the progression ledger for one session
// Invariant after Reset: Round == Passed + Failed + 1, Level == Round / RoundsPerLevel
type Data struct {
	Round   int
	Elapsed time.Duration
	Passed  int
	Failed  int
	Level   int
	Random  int

	rules   Rules
	pending *Rules // staged by SetRules, adopted on Reset
}

// New creates a ledger already reset with a fresh random draw
func New(rules Rules) *Data {
	d := &Data{rules: rules}
	d.Reset(nil)
	return d
}

// Rules returns the rules in effect for the current session
func (d *Data) Rules() Rules {
	return d.rules
}

// SetRules stages new rules; they take effect at the next Reset so a running
// session never changes its death threshold mid-way
func (d *Data) SetRules(r Rules) {
	d.pending = &r
}

// Reset starts a new session: counters zeroed, round 1, fresh background draw
// rng nil uses the process-wide source
func (d *Data) Reset(rng RandomSource) {
	if d.pending != nil {
		d.rules = *d.pending
		d.pending = nil
	}
	d.Round = 1
	d.Elapsed = 0
	d.Passed = 0
	d.Failed = 0
	d.Level = d.levelFor(d.Round)
	if rng != nil {
		d.Random = rng.IntN(parameter.BackgroundCount)
	} else {
		d.Random = rand.IntN(parameter.BackgroundCount)
	}
}

// ApplyResult records one finished round
// Callers guarantee a single call per round result
func (d *Data) ApplyResult(result games.Result, delta time.Duration) {
	d.Round++
	switch result {
	case games.Passed:
		d.Passed++
	case games.Failed:
		d.Failed++
	}
	d.Elapsed += delta
	d.Level = d.levelFor(d.Round)
}

func (d *Data) levelFor(round int) int {
	if d.rules.RoundsPerLevel <= 0 {
		return 0
	}
	return round / d.rules.RoundsPerLevel
}

// FeverGrade is the failure count clamped to [0, MaxFever]
func (d *Data) FeverGrade() float32 {
	maxFever := float32(d.rules.MaxFever)
	grade := float32(d.Failed)
	if grade < 0 {
		return 0
	}
	if grade > maxFever {
		return maxFever
	}
	return grade
}

// FeverGradeNominal is FeverGrade scaled to [0, 1]
func (d *Data) FeverGradeNominal() float32 {
	if d.rules.MaxFever <= 0 {
		return 1
	}
	return d.FeverGrade() / float32(d.rules.MaxFever)
}

// Dead reports whether the fever grade reached its maximum, ending the session
func (d *Data) Dead() bool {
	return d.FeverGrade() >= float32(d.rules.MaxFever)
}

// LevelScale returns multiplier^Level for games that scale tuning by level
func (d *Data) LevelScale(multiplier float64) float64 {
	return math.Pow(multiplier, float64(d.Level))
}

// Snapshot is a read-only copy of the ledger for HUD, network and storage
type Snapshot struct {
	Round             int           `json:"round"`
	Elapsed           time.Duration `json:"elapsed_ns"`
	Passed            int           `json:"passed"`
	Failed            int           `json:"failed"`
	Level             int           `json:"level"`
	Random            int           `json:"background"`
	FeverGrade        float32       `json:"fever_grade"`
	FeverGradeNominal float32       `json:"fever_grade_nominal"`
	Dead              bool          `json:"dead"`
}

// Snapshot copies the current ledger values
func (d *Data) Snapshot() Snapshot {
	return Snapshot{
		Round:             d.Round,
		Elapsed:           d.Elapsed,
		Passed:            d.Passed,
		Failed:            d.Failed,
		Level:             d.Level,
		Random:            d.Random,
		FeverGrade:        d.FeverGrade(),
		FeverGradeNominal: d.FeverGradeNominal(),
		Dead:              d.Dead(),
	}
}
