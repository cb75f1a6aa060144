package parameter

import "time"

// Event Queues
const (
	// ResultQueueSize bounds round results buffered between two drains
	// MUST be power of 2
	ResultQueueSize = 64

	// EventQueueSize bounds notifications buffered between two dispatches
	// MUST be power of 2
	EventQueueSize = 256
)

// Frame Timing
const (
	// FrameUpdateInterval is the host loop tick (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond
)

// Persistence and Network
const (
	DefaultDatabasePath = "party.db"
	DefaultListenAddr   = "127.0.0.1:8077"
	HistoryDefaultLimit = 20
	HistoryMaxLimit     = 200

	// RecorderQueueSize bounds session events waiting for the database writer
	RecorderQueueSize = 128

	// SpectatorSendBuffer is the per-client outbound backlog before a slow client is dropped
	SpectatorSendBuffer = 64
	SpectatorWriteWait  = 10 * time.Second
)
