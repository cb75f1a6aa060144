package event

// EventType represents the type of session event
type EventType int

const (
	// EventTick is the FSM auto-transition trigger, never queued
	EventTick EventType = iota

	// === Round Events ===

	// EventRoundResult reports the outcome of the live minigame
	// Trigger: minigame win/lose logic, once per round
	// Consumer: Sequencer (post-update drain) | Payload: *RoundResultPayload
	EventRoundResult

	// EventRoundResolved signals a result was applied to the ledger
	// Trigger: Sequencer, once per drained result
	// Consumer: Recorder, SoundManager, spectators | Payload: *RoundResolvedPayload
	EventRoundResolved

	// === Transition Events ===

	// EventPreGameEnter signals the intermission before a game was committed
	// Trigger: Scheduler.applyTransitions
	// Consumer: spectators | Payload: *PreGameEnterPayload
	EventPreGameEnter

	// EventGameStart signals a minigame went live
	// Trigger: Scheduler.applyTransitions after the countdown
	// Consumer: minigame host | Payload: *GameStartPayload
	EventGameStart

	// EventCountdownTick fires once per whole second left in the countdown
	// Trigger: PreGame.Update
	// Consumer: SoundManager | Payload: *CountdownTickPayload
	EventCountdownTick

	// EventHintShow signals the hint overlay became visible
	// Trigger: PreGame.UpdateHint | Payload: *HintPayload
	EventHintShow

	// EventHintHide signals the hint overlay was torn down
	// Trigger: PreGame.UpdateHint, session end | Payload: *HintPayload
	EventHintHide

	// === Session Events ===

	// EventSessionStart requests a new session from the title screen
	// Trigger: input | Consumer: Screen FSM | Payload: nil
	EventSessionStart

	// EventSessionBegun signals the ledger was reset and the first intermission scheduled
	// Trigger: Sequencer.SpawnFirst
	// Consumer: Recorder, spectators | Payload: *SessionBegunPayload
	EventSessionBegun

	// EventSessionOver signals the fever grade reached its maximum
	// Trigger: Sequencer, exactly once per session
	// Consumer: Screen FSM, Recorder, SoundManager, host | Payload: *SessionOverPayload
	EventSessionOver

	// EventSessionRestart requests another session from the post-game screen
	// Trigger: input | Consumer: Screen FSM | Payload: nil
	EventSessionRestart

	// EventSessionQuit returns to the title screen from anywhere
	// Trigger: input | Consumer: Screen FSM | Payload: nil
	EventSessionQuit

	// EventSessionAbandoned signals a running session was left before it was over
	// Trigger: Scheduler.endSession on quit
	// Consumer: Recorder, host, spectators | Payload: *SessionAbandonedPayload
	EventSessionAbandoned

	// EventScreenChange signals the Screen FSM entered a new screen
	// Trigger: Screen FSM action | Consumer: spectators | Payload: *ScreenChangePayload
	EventScreenChange

	eventTypeCount
)

// String returns the registered name of the event type
func (e EventType) String() string {
	if name := GetEventName(e); name != "" {
		return name
	}
	return "EventUnknown"
}
