package event

import "strings"

var (
	nameToType = make(map[string]EventType)
	typeToName = make(map[EventType]string)
)

func init() {
	RegisterType("EventRoundResult", EventRoundResult)
	RegisterType("EventRoundResolved", EventRoundResolved)
	RegisterType("EventPreGameEnter", EventPreGameEnter)
	RegisterType("EventGameStart", EventGameStart)
	RegisterType("EventCountdownTick", EventCountdownTick)
	RegisterType("EventHintShow", EventHintShow)
	RegisterType("EventHintHide", EventHintHide)
	RegisterType("EventSessionStart", EventSessionStart)
	RegisterType("EventSessionBegun", EventSessionBegun)
	RegisterType("EventSessionOver", EventSessionOver)
	RegisterType("EventSessionRestart", EventSessionRestart)
	RegisterType("EventSessionQuit", EventSessionQuit)
	RegisterType("EventSessionAbandoned", EventSessionAbandoned)
	RegisterType("EventScreenChange", EventScreenChange)
}

// RegisterType maps a config-facing name to an EventType
func RegisterType(name string, et EventType) {
	nameToType[name] = et
	typeToName[et] = name
}

// GetEventType returns the EventType for a given name
// "Tick" resolves to EventTick for FSM auto-transitions
func GetEventType(name string) (EventType, bool) {
	if strings.EqualFold(name, "Tick") {
		return EventTick, true
	}
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the string name for an EventType
func GetEventName(et EventType) string {
	if et == EventTick {
		return "Tick"
	}
	return typeToName[et]
}
