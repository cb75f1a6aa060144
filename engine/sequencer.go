package engine

import (
	"errors"
	"fmt"
	"log"

	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/parameter"
	"github.com/lixenwraith/party-fever/progress"
)

// FaultPolicy decides what happens when a round result arrives while the
// live-game selector is the intermission pseudo-state
type FaultPolicy int

const (
	// FaultLenient logs and drops the batch
	FaultLenient FaultPolicy = iota
	// FaultStrict panics, surfacing the fault during development
	FaultStrict
)

func (p FaultPolicy) String() string {
	if p == FaultStrict {
		return "strict"
	}
	return "lenient"
}

// ErrResultDuringIntermission reports a result produced while no minigame was live
var ErrResultDuringIntermission = errors.New("round result during intermission")

// Sequencer starts sessions and turns batches of round results into
// progression updates and the next intermission
type Sequencer struct {
	Policy FaultPolicy

	// Random draws the background index on SpawnFirst, nil uses the global source
	Random progress.RandomSource

	mismatched int
}

// NewSequencer creates a sequencer with the given fault policy
func NewSequencer(policy FaultPolicy) *Sequencer {
	return &Sequencer{Policy: policy}
}

// SpawnFirst resets the ledger and stages the intermission announcing the first game
func (q *Sequencer) SpawnFirst(s *Session) {
	s.Data.Reset(q.Random)
	s.Over = false
	s.Hint = nil

	info := games.MustInfo(games.FirstGame)
	s.SetNext(PreGameState(TransitionInfo{Next: info}), games.Pre)

	s.Emit(event.EventSessionBegun, &event.SessionBegunPayload{
		First:    games.FirstGame,
		Snapshot: s.Data.Snapshot(),
	})
}

// Drain consumes every pending round result in arrival order
// The successor is computed from the live game captured before the batch so a
// burst stages a single intermission
func (q *Sequencer) Drain(s *Session) error {
	batch := s.Results.Consume()
	if len(batch) == 0 {
		return nil
	}

	if s.Over || s.State.Kind == StateNone {
		log.Printf("[SEQ] discarding %d result(s), no active session", len(batch))
		return nil
	}

	current := s.Game
	next, err := games.Next(current)
	if err != nil {
		return q.fault(current, len(batch), err)
	}
	info, err := games.Info(next)
	if err != nil {
		return q.fault(current, len(batch), err)
	}

	for _, ev := range batch {
		p, ok := ev.Payload.(*event.RoundResultPayload)
		if !ok {
			continue
		}
		if p.Game != current {
			q.mismatched++
			log.Printf("[SEQ] %s reported %s while %s was live, resolving against %s", p.Game, p.Result, current, current)
		}

		s.Data.ApplyResult(p.Result, parameter.RoundDuration)

		s.Emit(event.EventRoundResolved, &event.RoundResolvedPayload{
			Game:     current,
			Result:   p.Result,
			Next:     next,
			Snapshot: s.Data.Snapshot(),
		})

		if s.Data.Dead() {
			if !s.Over {
				s.Over = true
				s.clearNext()
				log.Printf("[SEQ] session over at round %d, failed %d", s.Data.Round, s.Data.Failed)
				s.Emit(event.EventSessionOver, &event.SessionOverPayload{
					LastGame: current,
					Snapshot: s.Data.Snapshot(),
				})
			}
			continue
		}

		if s.Over {
			continue
		}
		s.SetNext(PreGameState(TransitionInfo{Next: info, Last: resultRef(p.Result)}), games.Pre)
	}
	return nil
}

// Mismatched returns how many results named a game other than the live one
func (q *Sequencer) Mismatched() int { return q.mismatched }

func (q *Sequencer) fault(current games.Game, n int, cause error) error {
	err := fmt.Errorf("%w: live game %s: %w", ErrResultDuringIntermission, current, cause)
	if q.Policy == FaultStrict {
		panic(err)
	}
	log.Printf("[SEQ] dropping %d result(s): %v", n, err)
	return err
}
