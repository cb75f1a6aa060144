package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/party-fever/asset"
	"github.com/lixenwraith/party-fever/core"
	"github.com/lixenwraith/party-fever/engine/fsm"
	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/status"
)

// Host runs the live minigame; it reads the session and reports results
// through Session.Report
type Host interface {
	Update(s *Session, now time.Duration)
}

// Scheduler owns the session and runs one frame per Step in a fixed phase order:
// screen FSM tick, intermission and hint update, hosts, result drain,
// transition commit, event dispatch
type Scheduler struct {
	session *Session
	seq     *Sequencer
	pregame *PreGame
	staged  *PreGame // adopted at the next SpawnFirst

	router *event.Router
	screen *fsm.Machine[*Scheduler]
	hosts  []Host

	screenName string
	last       time.Duration

	// Control functions run on the loop goroutine at frame start
	control chan func(*Scheduler)

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Cached metric pointers
	statusReg   *status.Registry
	statFrames  *atomic.Int64
	statFaults  *atomic.Int64
	statCommits *atomic.Int64
	statRound   *atomic.Int64
	statPassed  *atomic.Int64
	statFailed  *atomic.Int64
	statLevel   *atomic.Int64
	statElapsed *atomic.Int64
	statCount   *atomic.Int64
	statSession *atomic.Int64
	statActive  *atomic.Bool
	statHint    *atomic.Bool
	statFever   *status.Gauge
	statNominal *status.Gauge
	statScreen  *status.Label
	statState   *status.Label
	statGame    *status.Label
}

// NewScheduler wires a scheduler around an existing session
// reg may be nil when metrics are not needed
func NewScheduler(session *Session, seq *Sequencer, pregame *PreGame, reg *status.Registry) *Scheduler {
	if reg == nil {
		reg = status.NewRegistry()
	}
	sc := &Scheduler{
		session:     session,
		seq:         seq,
		pregame:     pregame,
		router:      event.NewRouter(session.Events),
		screen:      fsm.NewMachine[*Scheduler](),
		control:     make(chan func(*Scheduler), 16),
		stopChan:    make(chan struct{}),
		last:        session.Clock.Elapsed(),
		statusReg:   reg,
		statFrames:  reg.Ints.Get(status.KeyFrames),
		statFaults:  reg.Ints.Get(status.KeyFaults),
		statCommits: reg.Ints.Get(status.KeyCommits),
		statRound:   reg.Ints.Get(status.KeyRound),
		statPassed:  reg.Ints.Get(status.KeyPassed),
		statFailed:  reg.Ints.Get(status.KeyFailed),
		statLevel:   reg.Ints.Get(status.KeyLevel),
		statElapsed: reg.Ints.Get(status.KeyElapsedMs),
		statCount:   reg.Ints.Get(status.KeyCountdown),
		statSession: reg.Ints.Get(status.KeySessions),
		statActive:  reg.Bools.Get(status.KeyActive),
		statHint:    reg.Bools.Get(status.KeyHintVisible),
		statFever:   reg.Floats.Get(status.KeyFever),
		statNominal: reg.Floats.Get(status.KeyFeverNormal),
		statScreen:  reg.Strings.Get(status.KeyScreen),
		statState:   reg.Strings.Get(status.KeyState),
		statGame:    reg.Strings.Get(status.KeyGame),
	}
	return sc
}

// Session returns the owned session; only the loop goroutine may mutate it
func (sc *Scheduler) Session() *Session { return sc.session }

// PreGame returns the intermission timings in effect
func (sc *Scheduler) PreGame() *PreGame { return sc.pregame }

// Status returns the metric registry the scheduler publishes to
func (sc *Scheduler) Status() *status.Registry { return sc.statusReg }

// Router returns the notification router
func (sc *Scheduler) Router() *event.Router { return sc.router }

// Screen returns the name of the screen currently shown
func (sc *Scheduler) Screen() string { return sc.screenName }

// ScreenState returns the active screen FSM state name
func (sc *Scheduler) ScreenState() string { return sc.screen.CurrentState() }

// AddHost registers a minigame host, must be called before Start()
func (sc *Scheduler) AddHost(h Host) {
	sc.hosts = append(sc.hosts, h)
}

// RegisterEventHandler adds an event handler to router, must be called before Start()
func (sc *Scheduler) RegisterEventHandler(h event.Handler) {
	sc.router.Register(h)
}

// StagePreGame replaces the intermission timings from the next session on
func (sc *Scheduler) StagePreGame(p PreGame) {
	sc.staged = &p
}

// SetFaultPolicy switches how sequencing faults are handled
func (sc *Scheduler) SetFaultPolicy(p FaultPolicy) {
	sc.seq.Policy = p
}

// Post queues fn to run on the loop goroutine before the next frame
// Returns false when the control queue is full
func (sc *Scheduler) Post(fn func(*Scheduler)) bool {
	select {
	case sc.control <- fn:
		return true
	default:
		return false
	}
}

// LoadScreens registers the screen actions, loads the flow graph with priority
// customPath > defaultPath > embedded, and enters the initial screen
func (sc *Scheduler) LoadScreens(customPath, defaultPath string) error {
	registerScreenComponents(sc.screen)

	if err := fsm.LoadConfigAuto(sc.screen, customPath, defaultPath, asset.DefaultScreenFSMConfig); err != nil {
		return fmt.Errorf("failed to load screen FSM config: %w", err)
	}
	if err := sc.screen.Init(sc); err != nil {
		return fmt.Errorf("failed to init screen FSM: %w", err)
	}

	sc.router.Register(&screenHandler{sc: sc})
	return nil
}

// Step runs one frame
func (sc *Scheduler) Step() {
	s := sc.session
	sc.runControl()

	now := s.Clock.Elapsed()
	dt := now - sc.last
	if dt < 0 {
		dt = 0
	}
	sc.last = now
	s.Frame++

	sc.screen.Update(sc, dt)

	sc.pregame.Update(s, now)
	sc.pregame.UpdateHint(s, now)

	if s.Active() {
		for _, h := range sc.hosts {
			h.Update(s, now)
		}
	}

	if err := sc.seq.Drain(s); err != nil {
		sc.statFaults.Add(1)
	}

	sc.applyTransitions(now)
	sc.router.DispatchAll()
	sc.publish(now)
}

// applyTransitions commits the staged state and runs its entry work
func (sc *Scheduler) applyTransitions(now time.Duration) {
	s := sc.session
	state, ok := s.commit()
	if !ok {
		return
	}
	switch state.Kind {
	case StatePreGame:
		sc.pregame.Enter(s, now)
	case StateGame:
		s.Emit(event.EventGameStart, &event.GameStartPayload{
			Game:  state.Game,
			Level: s.Data.Level,
		})
	}
}

func (sc *Scheduler) runControl() {
	for {
		select {
		case fn := <-sc.control:
			fn(sc)
		default:
			return
		}
	}
}

func (sc *Scheduler) publish(now time.Duration) {
	s := sc.session
	snap := s.Data.Snapshot()

	sc.statFrames.Store(s.Frame)
	sc.statCommits.Store(int64(s.Commits()))
	sc.statRound.Store(int64(snap.Round))
	sc.statPassed.Store(int64(snap.Passed))
	sc.statFailed.Store(int64(snap.Failed))
	sc.statLevel.Store(int64(snap.Level))
	sc.statElapsed.Store(snap.Elapsed.Milliseconds())
	sc.statFever.Store(float64(snap.FeverGrade))
	sc.statNominal.Store(float64(snap.FeverGradeNominal))
	sc.statActive.Store(s.Active())
	sc.statHint.Store(s.Hint != nil && s.Hint.Visible)
	sc.statScreen.Store(sc.screenName)
	sc.statState.Store(s.State.Kind.String())
	sc.statGame.Store(s.Game.String())

	if s.State.Kind == StatePreGame {
		sc.statCount.Store(int64(sc.pregame.Remaining(s, now)))
	} else {
		sc.statCount.Store(0)
	}
}

// Start runs Step every interval on its own goroutine
// onFrame, if set, runs on the loop goroutine after each Step
func (sc *Scheduler) Start(interval time.Duration, onFrame func(*Scheduler)) {
	if !sc.running.CompareAndSwap(false, true) {
		return
	}
	sc.wg.Add(1)
	core.Go(func() { sc.loop(interval, onFrame) })
}

// Run blocks stepping frames until ctx is done
func (sc *Scheduler) Run(ctx context.Context, interval time.Duration, onFrame func(*Scheduler)) {
	sc.Start(interval, onFrame)
	select {
	case <-ctx.Done():
	case <-sc.stopChan:
	}
	sc.Stop()
}

// Stop halts the loop and waits for the current frame to finish
func (sc *Scheduler) Stop() {
	sc.stopOnce.Do(func() {
		close(sc.stopChan)
		if sc.running.CompareAndSwap(true, false) {
			sc.wg.Wait()
		}
	})
}

func (sc *Scheduler) loop(interval time.Duration, onFrame func(*Scheduler)) {
	defer sc.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sc.stopChan:
			return
		case <-ticker.C:
			sc.Step()
			if onFrame != nil {
				onFrame(sc)
			}
		}
	}
}

// TogglePause freezes or resumes the session clock when it supports pausing
func (sc *Scheduler) TogglePause() bool {
	p, ok := sc.session.Clock.(Pausable)
	if !ok {
		return false
	}
	if p.IsPaused() {
		p.Resume()
		return false
	}
	p.Pause()
	return true
}

// spawnFirst starts a session, adopting staged intermission timings
func (sc *Scheduler) spawnFirst() {
	if sc.staged != nil {
		*sc.pregame = *sc.staged
		sc.staged = nil
	}
	sc.seq.SpawnFirst(sc.session)
	sc.statSession.Add(1)
}

// endSession clears the session back to the inactive state, keeping the ledger
// for the post-game screen
func (sc *Scheduler) endSession() {
	s := sc.session
	_, pending := s.Pending()
	if !s.Over && (s.State.Kind != StateNone || pending) {
		log.Printf("[SEQ] session abandoned at round %d", s.Data.Round)
		s.Emit(event.EventSessionAbandoned, &event.SessionAbandonedPayload{
			LastGame: s.Game,
			Snapshot: s.Data.Snapshot(),
		})
	}
	s.clearNext()
	s.State = NoneState()
	s.Game = games.None
	if s.Hint != nil && s.Hint.Visible {
		s.Emit(event.EventHintHide, &event.HintPayload{Info: s.Hint.Info})
	}
	s.Hint = nil
	if n := len(s.Results.Consume()); n > 0 {
		log.Printf("[SEQ] session ended with %d unread result(s)", n)
	}
}
