package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/games"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// SoundManager plays session cues through the speaker
// Every method is a no-op until Initialize succeeds, so a machine without an
// audio device runs silently
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
	played      map[Cue]int
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		played: make(map[Cue]int),
	}
}

// Initialize opens the speaker
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// SetMuted toggles output without releasing the device
func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	sm.muted = muted
	sm.mu.Unlock()
}

// Muted reports the mute flag
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// Play mixes in a cue
func (sm *SoundManager) Play(c Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.played[c]++
	if !sm.initialized || sm.muted {
		return
	}
	s := streamerFor(c)
	if s == nil {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// Played returns how many times a cue was requested, sounding or not
func (sm *SoundManager) Played(c Cue) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.played[c]
}

// EventTypes implements event.Handler
func (sm *SoundManager) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventRoundResolved,
		event.EventSessionOver,
		event.EventCountdownTick,
	}
}

// HandleEvent maps session notifications to cues
func (sm *SoundManager) HandleEvent(ev event.GameEvent) {
	if c, ok := cueFor(ev); ok {
		sm.Play(c)
	}
}

func cueFor(ev event.GameEvent) (Cue, bool) {
	switch ev.Type {
	case event.EventRoundResolved:
		p, ok := ev.Payload.(*event.RoundResolvedPayload)
		if !ok {
			return 0, false
		}
		// The end-of-session sweep replaces the fail buzz on the fatal round
		if p.Snapshot.Dead {
			return 0, false
		}
		if p.Result == games.Passed {
			return CuePass, true
		}
		return CueFail, true
	case event.EventSessionOver:
		return CueOver, true
	case event.EventCountdownTick:
		p, ok := ev.Payload.(*event.CountdownTickPayload)
		if !ok || p.Remaining <= 0 {
			return 0, false
		}
		return CueTick, true
	}
	return 0, false
}
