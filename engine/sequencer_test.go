package engine

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/progress"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func newTestSession(rules progress.Rules) (*Session, *MockClock) {
	clock := NewMockClock(0)
	return NewSession(clock, rules), clock
}

// goLive puts the session straight into a running minigame
func goLive(s *Session, g games.Game) {
	s.State = LiveState(g)
	s.Game = g
}

func countEvents(evs []event.GameEvent, et event.EventType) int {
	n := 0
	for _, ev := range evs {
		if ev.Type == et {
			n++
		}
	}
	return n
}

func TestSpawnFirstStagesCatBonkIntermission(t *testing.T) {
	s, _ := newTestSession(progress.DefaultRules())
	seq := NewSequencer(FaultStrict)
	seq.Random = fixedRand(7)

	seq.SpawnFirst(s)

	pending, ok := s.Pending()
	if !ok {
		t.Fatal("no pending state after SpawnFirst")
	}
	want := PreGameState(TransitionInfo{Next: games.MustInfo(games.CatBonk)})
	if !pending.Equal(want) {
		t.Fatalf("pending = %s, want %s", pending, want)
	}
	if s.Data.Round != 1 || s.Data.Random != 7 {
		t.Errorf("ledger not reset: round=%d random=%d", s.Data.Round, s.Data.Random)
	}

	if _, ok := s.commit(); !ok || s.Game != games.Pre {
		t.Fatalf("commit failed, game = %s", s.Game)
	}
	evs := s.Events.Consume()
	if countEvents(evs, event.EventSessionBegun) != 1 {
		t.Error("EventSessionBegun not emitted once")
	}
	t.Logf("✓ first intermission: %s", s.State)
}

func TestFailedResultAdvancesRotation(t *testing.T) {
	s, _ := newTestSession(progress.DefaultRules())
	seq := NewSequencer(FaultStrict)
	seq.SpawnFirst(s)
	s.commit()
	goLive(s, games.CatBonk)

	s.Report(games.CatBonk, games.Failed)
	if err := seq.Drain(s); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	if s.Data.Failed != 1 || s.Data.Round != 2 || s.Data.Passed != 0 {
		t.Errorf("ledger = %+v", s.Data.Snapshot())
	}
	if s.Data.Elapsed != 5*time.Second {
		t.Errorf("elapsed = %v, want 5s", s.Data.Elapsed)
	}

	pending, ok := s.Pending()
	want := PreGameState(TransitionInfo{Next: games.MustInfo(games.Popup), Last: resultRef(games.Failed)})
	if !ok || !pending.Equal(want) {
		t.Fatalf("pending = %s, want %s", pending, want)
	}

	evs := s.Events.Consume()
	for _, ev := range evs {
		if ev.Type != event.EventRoundResolved {
			continue
		}
		p := ev.Payload.(*event.RoundResolvedPayload)
		if p.Game != games.CatBonk || p.Next != games.Popup || p.Result != games.Failed {
			t.Errorf("resolved payload = %+v", p)
		}
	}
	t.Logf("✓ %s after failed CatBonk", pending)
}

func TestFeverDeathEndsSessionOnce(t *testing.T) {
	s, _ := newTestSession(progress.DefaultRules())
	seq := NewSequencer(FaultStrict)
	seq.SpawnFirst(s)
	s.commit()
	s.Events.Consume()

	overs := 0
	g := games.CatBonk
	for i := 0; i < s.Data.Rules().MaxFever; i++ {
		goLive(s, g)
		s.Report(g, games.Failed)
		if err := seq.Drain(s); err != nil {
			t.Fatalf("Drain %d: %v", i, err)
		}
		overs += countEvents(s.Events.Consume(), event.EventSessionOver)
		if next, ok := s.Pending(); ok {
			g = next.Transition.Next.Kind
			s.commit()
		}
	}

	if !s.Over || !s.Data.Dead() {
		t.Fatalf("session not over: failed=%d", s.Data.Failed)
	}
	if _, ok := s.Pending(); ok {
		t.Error("intermission staged after death")
	}

	// Late results are dropped and never fire a second end signal
	s.Report(g, games.Failed)
	if err := seq.Drain(s); err != nil {
		t.Fatalf("late Drain: %v", err)
	}
	overs += countEvents(s.Events.Consume(), event.EventSessionOver)
	if overs != 1 {
		t.Errorf("EventSessionOver fired %d times, want 1", overs)
	}
	if s.Data.Failed != s.Data.Rules().MaxFever {
		t.Errorf("failed = %d after late result", s.Data.Failed)
	}
	t.Logf("✓ session over at round %d", s.Data.Round)
}

func TestBurstCommitsSingleIntermission(t *testing.T) {
	s, _ := newTestSession(progress.DefaultRules())
	seq := NewSequencer(FaultStrict)
	seq.SpawnFirst(s)
	s.commit()
	goLive(s, games.CatBonk)
	before := s.Commits()

	s.Report(games.CatBonk, games.Passed)
	s.Report(games.CatBonk, games.Failed)
	if err := seq.Drain(s); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	if s.Data.Round != 3 || s.Data.Passed != 1 || s.Data.Failed != 1 {
		t.Errorf("ledger = %+v", s.Data.Snapshot())
	}

	state, ok := s.commit()
	if !ok {
		t.Fatal("nothing committed")
	}
	if _, again := s.commit(); again {
		t.Error("second commit in the same frame")
	}
	if s.Commits()-before != 1 {
		t.Errorf("commits = %d, want 1", s.Commits()-before)
	}
	want := PreGameState(TransitionInfo{Next: games.MustInfo(games.Popup), Last: resultRef(games.Failed)})
	if !state.Equal(want) {
		t.Errorf("committed %s, want %s", state, want)
	}
	t.Logf("✓ burst of 2 → one commit %s", state)
}

func TestResultFromOtherGameResolvesAgainstLive(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	s, _ := newTestSession(progress.DefaultRules())
	seq := NewSequencer(FaultStrict)
	seq.SpawnFirst(s)
	s.commit()
	goLive(s, games.CatBonk)

	s.Report(games.Rain, games.Passed)
	s.Report(games.CatBonk, games.Passed)
	if err := seq.Drain(s); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	if seq.Mismatched() != 1 {
		t.Errorf("mismatched = %d, want 1", seq.Mismatched())
	}
	if s.Data.Passed != 2 {
		t.Errorf("passed = %d, want 2", s.Data.Passed)
	}
	state, _ := s.Pending()
	if state.Transition.Next.Kind != games.Popup {
		t.Errorf("next = %s, want Popup", state.Transition.Next.Kind)
	}
	if out := buf.String(); !strings.Contains(out, "[SEQ] Rain reported") || strings.Contains(out, "CatBonk reported") {
		t.Errorf("log = %q", out)
	}
	t.Logf("✓ stray Rain result applied against CatBonk")
}

func TestDeathMidBurstKeepsCounting(t *testing.T) {
	s, _ := newTestSession(progress.Rules{MaxFever: 1, RoundsPerLevel: 5})
	seq := NewSequencer(FaultStrict)
	seq.SpawnFirst(s)
	s.commit()
	goLive(s, games.CatBonk)
	s.Events.Consume()

	s.Report(games.CatBonk, games.Failed)
	s.Report(games.CatBonk, games.Passed)
	if err := seq.Drain(s); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	if s.Data.Round != 3 || s.Data.Passed != 1 {
		t.Errorf("ledger = %+v", s.Data.Snapshot())
	}
	if _, ok := s.Pending(); ok {
		t.Error("intermission staged after death")
	}
	if n := countEvents(s.Events.Consume(), event.EventSessionOver); n != 1 {
		t.Errorf("EventSessionOver fired %d times", n)
	}
}

func TestResultDuringIntermission(t *testing.T) {
	t.Run("strict panics", func(t *testing.T) {
		s, _ := newTestSession(progress.DefaultRules())
		seq := NewSequencer(FaultStrict)
		seq.SpawnFirst(s)
		s.commit()

		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.Is(err, ErrResultDuringIntermission) || !errors.Is(err, games.ErrNotPlayable) {
				t.Fatalf("recovered %v, want intermission fault", r)
			}
			t.Logf("✓ strict: %v", err)
		}()
		s.Report(games.CatBonk, games.Passed)
		seq.Drain(s)
		t.Fatal("Drain did not panic")
	})

	t.Run("lenient drops batch", func(t *testing.T) {
		s, _ := newTestSession(progress.DefaultRules())
		seq := NewSequencer(FaultLenient)
		seq.SpawnFirst(s)
		s.commit()
		before := s.Data.Snapshot()

		s.Report(games.CatBonk, games.Passed)
		s.Report(games.CatBonk, games.Failed)
		err := seq.Drain(s)
		if !errors.Is(err, ErrResultDuringIntermission) {
			t.Fatalf("err = %v", err)
		}
		if s.Data.Snapshot() != before {
			t.Error("ledger changed by dropped batch")
		}
		if _, ok := s.Pending(); ok {
			t.Error("state staged by dropped batch")
		}
		if s.Results.Len() != 0 {
			t.Error("batch left in queue")
		}
	})
}

func TestDrainWithoutSessionDiscards(t *testing.T) {
	s, _ := newTestSession(progress.DefaultRules())
	seq := NewSequencer(FaultStrict)

	s.Report(games.Rain, games.Passed)
	if err := seq.Drain(s); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if s.Data.Round != 1 {
		t.Errorf("round = %d, want 1", s.Data.Round)
	}
}

func TestFaultPolicyString(t *testing.T) {
	if FaultStrict.String() != "strict" || FaultLenient.String() != "lenient" {
		t.Error("unexpected policy names")
	}
}
