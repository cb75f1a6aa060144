package main

import (
	"testing"
	"time"

	"github.com/lixenwraith/party-fever/engine"
	"github.com/lixenwraith/party-fever/progress"
	"github.com/lixenwraith/party-fever/status"
)

func TestConfirmAndEscapeNavigateScreens(t *testing.T) {
	clock := engine.NewMockClock(0)
	sc := engine.NewScheduler(engine.NewSession(clock, progress.DefaultRules()),
		engine.NewSequencer(engine.FaultLenient), engine.NewPreGame(), status.NewRegistry())
	if err := sc.LoadScreens("", ""); err != nil {
		t.Fatalf("LoadScreens: %v", err)
	}
	step := func(d time.Duration) {
		clock.Advance(d)
		sc.Step()
	}

	steps := []struct {
		name   string
		action func(*engine.Scheduler) bool
		want   string
	}{
		{"splash times out", nil, "Title"},
		{"confirm starts", func(sc *engine.Scheduler) bool { confirm(sc); return true }, "Gameplay"},
		{"escape backs out", escape, "Title"},
	}

	step(2 * time.Second)
	for _, st := range steps {
		if st.action != nil && !st.action(sc) {
			t.Fatalf("%s: action refused", st.name)
		}
		step(time.Millisecond)
		if got := sc.ScreenState(); got != st.want {
			t.Fatalf("%s: screen = %s, want %s", st.name, got, st.want)
		}
	}

	if escape(sc) {
		t.Error("escape on title should leave the game")
	}
	t.Logf("✓ title → gameplay → title")
}
