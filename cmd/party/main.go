package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/gookit/color"
	"github.com/lixenwraith/party-fever/audio"
	"github.com/lixenwraith/party-fever/config"
	"github.com/lixenwraith/party-fever/core"
	"github.com/lixenwraith/party-fever/engine"
	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/host"
	"github.com/lixenwraith/party-fever/input"
	"github.com/lixenwraith/party-fever/parameter"
	"github.com/lixenwraith/party-fever/render"
	"github.com/lixenwraith/party-fever/server"
	"github.com/lixenwraith/party-fever/status"
	"github.com/lixenwraith/party-fever/store"
)

const (
	defaultScreensPath = "config/screens.toml"
	defaultBalancePath = "config/balance.toml"
)

var (
	screensFlag = flag.String("config", "", "Screen flow FSM file (default: "+defaultScreensPath+" if present, else embedded)")
	balanceFlag = flag.String("balance", "", "Balance file, hot reloaded (default: "+defaultBalancePath+" if present, else embedded)")
	debugFlag   = flag.Bool("debug", false, "Write logs to "+logDir+"/"+logFileName)
	dbFlag      = flag.String("db", parameter.DefaultDatabasePath, "Session history database, empty disables")
	listenFlag  = flag.String("listen", "", "Spectator HTTP address, e.g. "+parameter.DefaultListenAddr)
	strictFlag  = flag.Bool("strict", false, "Panic on out-of-order round results")
)

func main() {
	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	reg := status.NewRegistry()
	if err := run(reg); err != nil {
		color.Printf("<red>party-fever:</> %v\n", err)
		os.Exit(1)
	}

	color.Printf("<green>party-fever</> <cyan>%d</> sessions, <cyan>%d</> frames\n",
		reg.Ints.Get(status.KeySessions).Load(),
		reg.Ints.Get(status.KeyFrames).Load())
}

func run(reg *status.Registry) error {
	balance, balancePath, err := config.LoadAuto(*balanceFlag, defaultBalancePath)
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}
	if *strictFlag {
		balance.Engine.Strict = true
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	core.SetCleanup(screen.Fini)
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := engine.NewGameClock()
	session := engine.NewSession(clock, balance.Rules())
	pregame := balance.PreGameTimings()
	sc := engine.NewScheduler(session, engine.NewSequencer(balance.FaultPolicy()), &pregame, reg)
	if err := sc.LoadScreens(*screensFlag, defaultScreensPath); err != nil {
		return fmt.Errorf("screens: %w", err)
	}

	sound := audio.NewSoundManager()
	if err := sound.Initialize(); err != nil {
		log.Printf("audio unavailable: %v (continuing without audio)", err)
	} else {
		defer sound.Cleanup()
	}
	sc.RegisterEventHandler(sound)

	minigames := host.NewTerminal(parameter.RoundDuration)
	sc.AddHost(minigames)
	sc.RegisterEventHandler(minigames)

	var history server.History
	if *dbFlag != "" {
		st, err := store.Open(ctx, *dbFlag)
		if err != nil {
			log.Printf("[STORE] history disabled: %v", err)
		} else {
			defer st.Close()
			rec := store.NewRecorder(st, parameter.RecorderQueueSize)
			rec.CountFailuresIn(reg.Ints.Get(status.KeyStoreErrors))
			rec.Start(ctx)
			defer rec.Close()
			sc.RegisterEventHandler(rec)
			history = st
		}
	}

	if *listenFlag != "" {
		srv := server.NewServer(reg, history)
		sc.Router().Tap(srv.Observe)
		addr := *listenFlag
		core.Go(func() {
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				log.Printf("[HTTP] %v", err)
			}
		})
	}

	if balancePath != "" {
		w, err := config.NewWatcher(balancePath, func(b config.Balance) {
			if *strictFlag {
				b.Engine.Strict = true
			}
			sc.Post(func(sc *engine.Scheduler) { config.Apply(sc, b) })
		}, nil)
		if err != nil {
			log.Printf("[CONFIG] hot reload disabled: %v", err)
		} else {
			defer w.Close()
			core.Go(func() { w.Run(ctx) })
		}
	}

	renderer := render.NewTerminalRenderer(screen)
	sc.Start(parameter.FrameUpdateInterval, func(sc *engine.Scheduler) {
		renderer.RenderFrame(render.Capture(sc, minigames, sound.Muted()))
	})
	defer sc.Stop()

	return pollInput(screen, sc, sound, minigames, renderer)
}

// pollInput routes terminal input until the player quits
func pollInput(screen tcell.Screen, sc *engine.Scheduler, sound *audio.SoundManager, minigames *host.Terminal, renderer *render.TerminalRenderer) error {
	quit := make(chan struct{})
	var quitOnce sync.Once
	leave := func() { quitOnce.Do(func() { close(quit) }) }

	events := make(chan tcell.Event, 256)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				leave()
				return
			}
			events <- ev
		}
	})

	keys := input.DefaultKeyTable()
	for {
		select {
		case <-quit:
			return nil
		case ev := <-events:
			in := keys.Translate(ev)
			switch in.Type {
			case input.IntentNone:
			case input.IntentQuit:
				return nil
			case input.IntentResize:
				sc.Post(func(*engine.Scheduler) {
					screen.Sync()
					renderer.Resize()
				})
			case input.IntentToggleMute:
				sound.SetMuted(!sound.Muted())
			case input.IntentPause:
				sc.Post(func(sc *engine.Scheduler) { sc.TogglePause() })
			case input.IntentConfirm:
				sc.Post(confirm)
			case input.IntentEscape:
				sc.Post(func(sc *engine.Scheduler) {
					if !escape(sc) {
						leave()
					}
				})
			default:
				minigames.Input(in)
			}
		}
	}
}

// confirm starts a session from the splash or title screens and restarts from post-game
func confirm(sc *engine.Scheduler) {
	switch sc.Screen() {
	case "splash", "title":
		sc.Session().Emit(event.EventSessionStart, nil)
	case "post_game":
		sc.Session().Emit(event.EventSessionRestart, nil)
	}
}

// escape backs out to the title screen; returns false when already there
func escape(sc *engine.Scheduler) bool {
	switch sc.Screen() {
	case "splash", "title":
		return false
	}
	sc.Session().Emit(event.EventSessionQuit, nil)
	return true
}
