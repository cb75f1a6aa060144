package render

import (
	"testing"
	"time"

	"github.com/lixenwraith/party-fever/engine"
	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/progress"
	"github.com/lixenwraith/party-fever/status"
)

type fixedTimer time.Duration

func (f fixedTimer) Remaining(now time.Duration) (time.Duration, bool) {
	return time.Duration(f), true
}

func TestCaptureFollowsSession(t *testing.T) {
	clock := engine.NewMockClock(0)
	s := engine.NewSession(clock, progress.DefaultRules())
	sc := engine.NewScheduler(s, engine.NewSequencer(engine.FaultStrict), engine.NewPreGame(), status.NewRegistry())
	if err := sc.LoadScreens("", ""); err != nil {
		t.Fatalf("LoadScreens: %v", err)
	}
	step := func(d time.Duration) {
		clock.Advance(d)
		sc.Step()
	}

	v := Capture(sc, fixedTimer(time.Second), true)
	if v.Screen != "splash" || !v.Muted {
		t.Fatalf("initial view = %+v", v)
	}

	s.Emit(event.EventSessionStart, nil)
	step(time.Millisecond)
	step(time.Millisecond)

	v = Capture(sc, fixedTimer(time.Second), false)
	if v.Screen != "gameplay" || v.State != engine.StatePreGame {
		t.Fatalf("view = %s/%s, want gameplay/PreGame", v.Screen, v.State)
	}
	if v.Next.Kind != games.FirstGame || v.Last != nil || v.Countdown != 4 {
		t.Errorf("pregame view = next %s last %v countdown %d", v.Next.Kind, v.Last, v.Countdown)
	}
	if v.Hint != nil {
		t.Error("hint visible at intermission start")
	}

	step(4*time.Second + time.Millisecond)
	v = Capture(sc, fixedTimer(1500*time.Millisecond), false)
	if v.State != engine.StateGame || v.Game != games.FirstGame {
		t.Fatalf("view state = %s/%s, want live %s", v.State, v.Game, games.FirstGame)
	}
	if !v.RoundOpen || v.RoundLeft != 1500*time.Millisecond {
		t.Errorf("round = %v/%v", v.RoundOpen, v.RoundLeft)
	}
	if v.Hint == nil || v.Hint.Kind != games.FirstGame {
		t.Errorf("hint = %v, want %s", v.Hint, games.FirstGame)
	}
	t.Logf("✓ capture tracks pregame and live round")
}
