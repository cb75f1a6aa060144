package fsm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/party-fever/event"
)

type trace struct {
	calls []string
}

const testConfig = `
initial = "Idle"

[states.Idle]
on_enter = [{ action = "Record", screen = "unused" }]
transitions = [{ trigger = "EventSessionStart", target = "Playing" }]

[states.Active]
on_exit = [{ action = "Record" }]
transitions = [{ trigger = "EventSessionQuit", target = "Idle" }]

[states.Playing]
parent = "Active"
on_enter = [{ action = "ShowScreen", screen = "Playing" }]
transitions = [{ trigger = "EventSessionOver", target = "Done" }]

[states.Done]
parent = "Active"
on_enter = [{ action = "EmitEvent", event = "EventScreenChange" }]
transitions = [{ trigger = "Tick", target = "Idle", guard = "StateTimeExceeds", guard_args = { ms = 500 } }]
`

func newTestMachine(t *testing.T) (*Machine[*trace], *trace) {
	t.Helper()
	m := NewMachine[*trace]()
	m.RegisterAction("Record", func(tr *trace, args any) {
		tr.calls = append(tr.calls, "record:"+m.CurrentState())
	})
	m.RegisterAction("ShowScreen", func(tr *trace, args any) {
		tr.calls = append(tr.calls, "show:"+args.(*ShowScreenArgs).Screen)
	})
	m.RegisterAction("EmitEvent", func(tr *trace, args any) {
		tr.calls = append(tr.calls, "emit:"+args.(*EmitEventArgs).Type.String())
	})
	m.RegisterGuardFactory("StateTimeExceeds", StateTimeExceeds[*trace])

	if err := m.LoadConfig([]byte(testConfig)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	tr := &trace{}
	if err := m.Init(tr); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return m, tr
}

func TestMachineEventTransitions(t *testing.T) {
	m, tr := newTestMachine(t)

	if m.CurrentState() != "Idle" {
		t.Fatalf("initial state = %s, want Idle", m.CurrentState())
	}

	if !m.HandleEvent(tr, event.EventSessionStart) {
		t.Fatal("EventSessionStart not handled in Idle")
	}
	if m.CurrentState() != "Playing" || !m.InState("Active") {
		t.Fatalf("state = %s, want Playing under Active", m.CurrentState())
	}

	// Unhandled event leaves state alone
	if m.HandleEvent(tr, event.EventSessionRestart) {
		t.Error("EventSessionRestart should not be handled in Playing")
	}

	m.HandleEvent(tr, event.EventSessionOver)
	if m.CurrentState() != "Done" {
		t.Fatalf("state = %s, want Done", m.CurrentState())
	}

	// Sibling transition under Active must not run Active's exit
	for _, c := range tr.calls {
		if c == "record:Playing" || c == "record:Done" {
			t.Errorf("Active exited on sibling transition: %v", tr.calls)
		}
	}
	t.Logf("✓ calls: %v", tr.calls)
}

func TestMachineBubblesToParent(t *testing.T) {
	m, tr := newTestMachine(t)
	m.HandleEvent(tr, event.EventSessionStart)

	if !m.HandleEvent(tr, event.EventSessionQuit) {
		t.Fatal("EventSessionQuit should bubble from Playing to Active")
	}
	if m.CurrentState() != "Idle" {
		t.Errorf("state = %s, want Idle", m.CurrentState())
	}

	// Active's exit action ran while the leaf was still committed as Playing
	found := false
	for _, c := range tr.calls {
		if strings.HasPrefix(c, "record:") && c != "record:Idle" {
			found = true
		}
	}
	if !found {
		t.Errorf("Active OnExit not executed: %v", tr.calls)
	}
}

func TestMachineTickGuard(t *testing.T) {
	m, tr := newTestMachine(t)
	m.HandleEvent(tr, event.EventSessionStart)
	m.HandleEvent(tr, event.EventSessionOver)

	m.Update(tr, 300*time.Millisecond)
	if m.CurrentState() != "Done" {
		t.Fatalf("left Done after 300ms")
	}
	m.Update(tr, 300*time.Millisecond)
	if m.CurrentState() != "Idle" {
		t.Fatalf("state = %s after 600ms, want Idle", m.CurrentState())
	}
	if m.TimeInState() != 0 {
		t.Errorf("TimeInState = %v after transition, want 0", m.TimeInState())
	}
}

func TestLoadConfigRejectsBadReferences(t *testing.T) {
	cases := map[string]string{
		"unknown target":  "initial = \"A\"\n[states.A]\ntransitions = [{ trigger = \"Tick\", target = \"B\" }]\n",
		"unknown event":   "initial = \"A\"\n[states.A]\ntransitions = [{ trigger = \"EventNope\", target = \"A\" }]\n",
		"unknown action":  "initial = \"A\"\n[states.A]\non_enter = [{ action = \"Nope\" }]\n",
		"unknown parent":  "initial = \"A\"\n[states.A]\nparent = \"Z\"\n",
		"missing initial": "initial = \"Q\"\n[states.A]\n",
		"unknown guard":   "initial = \"A\"\n[states.A]\ntransitions = [{ trigger = \"Tick\", target = \"A\", guard = \"Nope\" }]\n",
		"parent cycle":    "initial = \"A\"\n[states.A]\nparent = \"B\"\n[states.B]\nparent = \"A\"\n",
	}

	for name, cfg := range cases {
		m := NewMachine[*trace]()
		if err := m.LoadConfig([]byte(cfg)); err == nil {
			t.Errorf("%s: expected error", name)
		} else {
			t.Logf("✓ %s: %v", name, err)
		}
	}
}

func TestLoadConfigAutoPriority(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(custom, []byte("initial = \"Custom\"\n[states.Custom]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	embedded := "initial = \"Embedded\"\n[states.Embedded]\n"

	m := NewMachine[*trace]()
	if err := LoadConfigAuto(m, custom, "", embedded); err != nil {
		t.Fatalf("custom load: %v", err)
	}
	if err := m.Init(&trace{}); err != nil || m.CurrentState() != "Custom" {
		t.Errorf("custom path not preferred: %s, %v", m.CurrentState(), err)
	}

	m = NewMachine[*trace]()
	if err := LoadConfigAuto(m, "", filepath.Join(dir, "missing.toml"), embedded); err != nil {
		t.Fatalf("embedded load: %v", err)
	}
	if err := m.Init(&trace{}); err != nil || m.CurrentState() != "Embedded" {
		t.Errorf("embedded fallback not used: %s, %v", m.CurrentState(), err)
	}

	if err := LoadConfigAuto(m, filepath.Join(dir, "nope.toml"), "", embedded); err == nil {
		t.Error("missing custom path should fail, not fall back")
	}
}

func TestMachineResetAndUnloaded(t *testing.T) {
	if err := NewMachine[*trace]().Init(&trace{}); err != ErrNotLoaded {
		t.Errorf("Init before load = %v, want ErrNotLoaded", err)
	}

	m, tr := newTestMachine(t)
	m.HandleEvent(tr, event.EventSessionStart)
	tr.calls = nil

	if err := m.Reset(tr); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if m.CurrentState() != "Idle" || m.InState("Active") {
		t.Fatalf("state after reset = %s", m.CurrentState())
	}
	want := []string{"record:Playing", "record:Idle"}
	if strings.Join(tr.calls, ",") != strings.Join(want, ",") {
		t.Errorf("reset calls = %v, want %v", tr.calls, want)
	}
}
