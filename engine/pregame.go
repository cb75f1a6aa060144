package engine

import (
	"time"

	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/parameter"
)

// PreGame times the intermission countdown and the hint overlay
type PreGame struct {
	Countdown   time.Duration
	HintDisplay time.Duration // Offset from intermission start
	HintDestroy time.Duration // Offset from display
}

// NewPreGame returns the compiled-in timings
func NewPreGame() *PreGame {
	return &PreGame{
		Countdown:   parameter.PreGameCountdown,
		HintDisplay: parameter.HintDisplayTime,
		HintDestroy: parameter.HintDestroyTime,
	}
}

// Enter records the intermission start and spawns the hint for the announced game
// Called once per committed PreGame state
func (p *PreGame) Enter(s *Session, now time.Duration) {
	t := s.State.Transition
	s.Intermission = Intermission{
		Start:    now,
		Info:     t.Next,
		Last:     t.Last,
		lastTick: ceilSeconds(p.Countdown),
	}

	display := now + p.HintDisplay
	s.Hint = &Hint{
		Info:      t.Next,
		DisplayAt: display,
		DestroyAt: display + p.HintDestroy,
	}

	s.Emit(event.EventPreGameEnter, &event.PreGameEnterPayload{
		Next:  t.Next,
		Last:  t.Last,
		Round: s.Data.Round,
	})
	s.Emit(event.EventCountdownTick, &event.CountdownTickPayload{
		Remaining: s.Intermission.lastTick,
	})
}

// Update stages the live game once the countdown has strictly elapsed and
// emits a tick whenever the displayed whole second changes
func (p *PreGame) Update(s *Session, now time.Duration) {
	if s.State.Kind != StatePreGame || s.Over {
		return
	}

	if now-s.Intermission.Start > p.Countdown {
		kind := s.Intermission.Info.Kind
		s.SetNext(LiveState(kind), kind)
		return
	}

	remaining := p.Remaining(s, now)
	if remaining != s.Intermission.lastTick {
		s.Intermission.lastTick = remaining
		s.Emit(event.EventCountdownTick, &event.CountdownTickPayload{Remaining: remaining})
	}
}

// Remaining returns the countdown label: whole seconds left, rounded up
func (p *PreGame) Remaining(s *Session, now time.Duration) int {
	left := p.Countdown - (now - s.Intermission.Start)
	if left <= 0 {
		return 0
	}
	return ceilSeconds(left)
}

// UpdateHint shows the hint after its display offset and removes it after the
// destroy offset; runs every frame whatever the state so the hint outlives the
// intermission
func (p *PreGame) UpdateHint(s *Session, now time.Duration) {
	h := s.Hint
	if h == nil {
		return
	}
	if !h.Visible && now > h.DisplayAt {
		h.Visible = true
		s.Emit(event.EventHintShow, &event.HintPayload{Info: h.Info})
	} else if h.Visible && now > h.DestroyAt {
		s.Hint = nil
		s.Emit(event.EventHintHide, &event.HintPayload{Info: h.Info})
	}
}

func ceilSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
