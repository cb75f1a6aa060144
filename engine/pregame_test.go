package engine

import (
	"testing"
	"time"

	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/progress"
)

// enterFirst spawns and commits the first intermission at the clock's current time
func enterFirst(t *testing.T, s *Session, clock *MockClock, pg *PreGame) {
	t.Helper()
	NewSequencer(FaultStrict).SpawnFirst(s)
	if _, ok := s.commit(); !ok {
		t.Fatal("SpawnFirst staged nothing")
	}
	pg.Enter(s, clock.Elapsed())
}

func TestPreGameCountdownIsStrict(t *testing.T) {
	s, clock := newTestSession(progress.DefaultRules())
	pg := NewPreGame()
	enterFirst(t, s, clock, pg)

	clock.Advance(pg.Countdown)
	pg.Update(s, clock.Elapsed())
	if _, ok := s.Pending(); ok {
		t.Fatal("live game staged at exactly the countdown")
	}

	clock.Advance(time.Millisecond)
	pg.Update(s, clock.Elapsed())
	pending, ok := s.Pending()
	if !ok || !pending.Equal(LiveState(games.CatBonk)) {
		t.Fatalf("pending = %s, want Game(CatBonk)", pending)
	}
	s.commit()
	if s.Game != games.CatBonk {
		t.Errorf("live game = %s", s.Game)
	}
	t.Logf("✓ %s after %v", s.State, clock.Elapsed())
}

func TestPreGameCountdownTicks(t *testing.T) {
	s, clock := newTestSession(progress.DefaultRules())
	pg := NewPreGame()
	enterFirst(t, s, clock, pg)

	for clock.Elapsed() < pg.Countdown {
		clock.Advance(100 * time.Millisecond)
		pg.Update(s, clock.Elapsed())
	}

	var ticks []int
	for _, ev := range s.Events.Consume() {
		if ev.Type == event.EventCountdownTick {
			ticks = append(ticks, ev.Payload.(*event.CountdownTickPayload).Remaining)
		}
	}
	want := []int{4, 3, 2, 1, 0}
	if len(ticks) != len(want) {
		t.Fatalf("ticks = %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("ticks = %v, want %v", ticks, want)
		}
	}
	t.Logf("✓ ticks %v", ticks)
}

func TestPreGameRemaining(t *testing.T) {
	s, clock := newTestSession(progress.DefaultRules())
	pg := NewPreGame()
	enterFirst(t, s, clock, pg)

	tests := []struct {
		at   time.Duration
		want int
	}{
		{0, 4},
		{500 * time.Millisecond, 4},
		{time.Second, 3},
		{3900 * time.Millisecond, 1},
		{4 * time.Second, 0},
		{9 * time.Second, 0},
	}
	for _, tt := range tests {
		if got := pg.Remaining(s, tt.at); got != tt.want {
			t.Errorf("Remaining(%v) = %d, want %d", tt.at, got, tt.want)
		}
	}
}

func TestHintLifecycleOutlivesIntermission(t *testing.T) {
	s, clock := newTestSession(progress.DefaultRules())
	pg := NewPreGame()
	enterFirst(t, s, clock, pg)

	if s.Hint == nil || s.Hint.Visible {
		t.Fatal("hint should exist hidden on entry")
	}
	if s.Hint.Info.Hint != "Bonk" {
		t.Errorf("hint text = %q", s.Hint.Info.Hint)
	}

	step := func(d time.Duration) {
		clock.Advance(d)
		pg.Update(s, clock.Elapsed())
		pg.UpdateHint(s, clock.Elapsed())
		s.commit()
	}

	step(pg.HintDisplay)
	if s.Hint.Visible {
		t.Fatal("hint visible at exactly the display offset")
	}
	step(time.Millisecond)
	if !s.Hint.Visible {
		t.Fatal("hint not shown after display offset")
	}
	if s.State.Kind != StateGame {
		t.Fatalf("state = %s, want live game", s.State)
	}

	step(pg.HintDestroy - time.Millisecond)
	if s.Hint == nil {
		t.Fatal("hint destroyed early")
	}
	step(time.Millisecond)
	if s.Hint != nil {
		t.Fatal("hint still present after destroy offset")
	}

	evs := s.Events.Consume()
	if countEvents(evs, event.EventHintShow) != 1 || countEvents(evs, event.EventHintHide) != 1 {
		t.Errorf("hint events show=%d hide=%d", countEvents(evs, event.EventHintShow), countEvents(evs, event.EventHintHide))
	}
	t.Logf("✓ hint shown during %s and removed at %v", LiveState(games.CatBonk), clock.Elapsed())
}

func TestPausedClockFreezesCountdown(t *testing.T) {
	wall := &fakeWall{now: time.Unix(0, 0)}
	clock := newGameClockWith(wall.Now)
	s := NewSession(clock, progress.DefaultRules())
	pg := NewPreGame()

	NewSequencer(FaultStrict).SpawnFirst(s)
	s.commit()
	pg.Enter(s, clock.Elapsed())

	wall.Add(time.Second)
	clock.Pause()
	wall.Add(time.Minute)
	pg.Update(s, clock.Elapsed())
	if _, ok := s.Pending(); ok {
		t.Fatal("countdown advanced while paused")
	}
	if got := pg.Remaining(s, clock.Elapsed()); got != 3 {
		t.Errorf("remaining = %d, want 3", got)
	}

	clock.Resume()
	wall.Add(3*time.Second + time.Millisecond)
	pg.Update(s, clock.Elapsed())
	if _, ok := s.Pending(); !ok {
		t.Fatal("countdown did not finish after resume")
	}
	t.Logf("✓ countdown frozen across a %v pause", time.Minute)
}
