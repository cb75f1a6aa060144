package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/party-fever/engine"
	"github.com/lixenwraith/party-fever/parameter"
	"github.com/lixenwraith/party-fever/progress"
)

const customBalance = `
[session]
max_fever = 2
rounds_per_level = 3

[pregame]
countdown_ms = 1500
hint_display_ms = 500
hint_destroy_ms = 750

[engine]
strict = true
`

func TestDefaultMatchesParameters(t *testing.T) {
	b := Default()
	if b.Rules() != progress.DefaultRules() {
		t.Errorf("rules = %+v, want %+v", b.Rules(), progress.DefaultRules())
	}
	pg := b.PreGameTimings()
	if pg.Countdown != parameter.PreGameCountdown ||
		pg.HintDisplay != parameter.HintDisplayTime ||
		pg.HintDestroy != parameter.HintDestroyTime {
		t.Errorf("pregame = %+v", pg)
	}
	if b.FaultPolicy() != engine.FaultLenient {
		t.Error("default policy should be lenient")
	}
	t.Logf("✓ embedded balance: %+v", b)
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero fever", "[session]\nmax_fever = 0\nrounds_per_level = 5\n[pregame]\ncountdown_ms = 1\nhint_destroy_ms = 1\n"},
		{"zero rounds", "[session]\nmax_fever = 1\nrounds_per_level = 0\n[pregame]\ncountdown_ms = 1\nhint_destroy_ms = 1\n"},
		{"no countdown", "[session]\nmax_fever = 1\nrounds_per_level = 1\n[pregame]\nhint_destroy_ms = 1\n"},
		{"unknown key", customBalance + "\n[extra]\nfoo = 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}

	if _, err := Parse([]byte("[session")); err == nil || errors.Is(err, ErrInvalid) {
		t.Errorf("syntax error = %v", err)
	}
}

func TestLoadAutoPriority(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom.toml")
	def := filepath.Join(dir, "balance.toml")
	if err := os.WriteFile(custom, []byte(customBalance), 0o644); err != nil {
		t.Fatal(err)
	}

	b, from, err := LoadAuto("", def)
	if err != nil || from != "" || b.Session.MaxFever != parameter.MaxFever {
		t.Fatalf("missing default path: from=%q err=%v", from, err)
	}

	if err := os.WriteFile(def, []byte(strings.Replace(customBalance, "max_fever = 2", "max_fever = 3", 1)), 0o644); err != nil {
		t.Fatal(err)
	}
	b, from, err = LoadAuto("", def)
	if err != nil || from != def || b.Session.MaxFever != 3 {
		t.Fatalf("default path: from=%q fever=%d err=%v", from, b.Session.MaxFever, err)
	}

	b, from, err = LoadAuto(custom, def)
	if err != nil || from != custom || b.Session.MaxFever != 2 {
		t.Fatalf("custom path: from=%q fever=%d err=%v", from, b.Session.MaxFever, err)
	}
	if b.FaultPolicy() != engine.FaultStrict || b.PreGameTimings().Countdown != 1500*time.Millisecond {
		t.Errorf("custom values not decoded: %+v", b)
	}

	if _, _, err := LoadAuto(filepath.Join(dir, "missing.toml"), def); err == nil {
		t.Error("missing custom path should fail")
	}
	t.Logf("✓ custom > default > embedded")
}

func TestApplyStagesForNextSession(t *testing.T) {
	s := engine.NewSession(engine.NewMockClock(0), progress.DefaultRules())
	sc := engine.NewScheduler(s, engine.NewSequencer(engine.FaultLenient), engine.NewPreGame(), nil)

	b, err := Parse([]byte(customBalance))
	if err != nil {
		t.Fatal(err)
	}
	Apply(sc, b)

	if s.Data.Rules().MaxFever != parameter.MaxFever {
		t.Error("rules changed mid-session")
	}
	s.Data.Reset(nil)
	if s.Data.Rules().MaxFever != 2 {
		t.Errorf("rules after reset = %+v", s.Data.Rules())
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "balance.toml")
	if err := os.WriteFile(path, []byte(customBalance), 0o644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan Balance, 4)
	failures := make(chan error, 4)
	w, err := NewWatcher(path, func(b Balance) { changes <- b }, func(err error) { failures <- err })
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	updated := strings.Replace(customBalance, "max_fever = 2", "max_fever = 6", 1)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case b := <-changes:
			if b.Session.MaxFever == 6 {
				t.Logf("✓ reload picked up max_fever=%d", b.Session.MaxFever)
				return
			}
		case <-failures:
			// Partial writes can surface as parse errors before the final event
		case <-deadline:
			t.Fatal("no reload within 2s")
		}
	}
}
