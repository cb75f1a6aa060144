package server

import (
	"strings"

	"github.com/stoewer/go-strcase"

	"github.com/lixenwraith/party-fever/event"
)

// Message is the websocket envelope for every broadcast notification
type Message struct {
	Type    string `json:"type"`
	Frame   int64  `json:"frame"`
	Payload any    `json:"payload,omitempty"`
}

// wireName maps EventRoundResolved to "round_resolved"
func wireName(et event.EventType) string {
	return strcase.SnakeCase(strings.TrimPrefix(event.GetEventName(et), "Event"))
}

func newMessage(ev event.GameEvent) Message {
	return Message{Type: wireName(ev.Type), Frame: ev.Frame, Payload: ev.Payload}
}
