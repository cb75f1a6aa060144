package engine

import (
	"github.com/lixenwraith/party-fever/engine/fsm"
	"github.com/lixenwraith/party-fever/event"
)

// registerScreenComponents binds the action and guard names the screen flow
// config refers to
func registerScreenComponents(m *fsm.Machine[*Scheduler]) {
	m.RegisterGuardFactory("StateTimeExceeds", fsm.StateTimeExceeds[*Scheduler])

	m.RegisterAction("ShowScreen", func(sc *Scheduler, args any) {
		a, ok := args.(*fsm.ShowScreenArgs)
		if !ok {
			return
		}
		sc.screenName = a.Screen
		sc.session.Emit(event.EventScreenChange, &event.ScreenChangePayload{Screen: a.Screen})
	})

	m.RegisterAction("EmitEvent", func(sc *Scheduler, args any) {
		if a, ok := args.(*fsm.EmitEventArgs); ok {
			sc.session.Emit(a.Type, nil)
		}
	})

	m.RegisterAction("SpawnFirst", func(sc *Scheduler, _ any) {
		sc.spawnFirst()
	})

	m.RegisterAction("EndSession", func(sc *Scheduler, _ any) {
		sc.endSession()
	})
}

// screenHandler feeds session lifecycle events into the screen FSM
type screenHandler struct {
	sc *Scheduler
}

func (h *screenHandler) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventSessionStart,
		event.EventSessionOver,
		event.EventSessionRestart,
		event.EventSessionQuit,
	}
}

func (h *screenHandler) HandleEvent(ev event.GameEvent) {
	h.sc.screen.HandleEvent(h.sc, ev.Type)
}
