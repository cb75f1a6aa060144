// Package server exposes the running session to spectators over HTTP and
// websocket
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/parameter"
	"github.com/lixenwraith/party-fever/status"
	"github.com/lixenwraith/party-fever/store"
)

// History is the read side of the session store
type History interface {
	Recent(ctx context.Context, limit int) ([]store.SessionRecord, error)
	Best(ctx context.Context, limit int) ([]store.SessionRecord, error)
}

// Server handles HTTP requests
type Server struct {
	hub       *Hub
	tracker   *Tracker
	status    *status.Registry
	history   History
	logger    *log.Logger
	upgrader  websocket.Upgrader
	startTime time.Time
}

// NewServer creates a server; history may be nil when persistence is disabled
func NewServer(reg *status.Registry, history History) *Server {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Server{
		hub:     NewHub(reg.Ints.Get(status.KeySpectators)),
		tracker: NewTracker(),
		status:  reg,
		history: history,
		logger:  log.New(log.Writer(), "[HTTP] ", log.LstdFlags),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		startTime: time.Now(),
	}
}

// SetLogger replaces the request logger
func (s *Server) SetLogger(l *log.Logger) { s.logger = l }

// Hub returns the spectator hub
func (s *Server) Hub() *Hub { return s.hub }

// Observe feeds one notification to the tracker and the spectators
// Register with event.Router.Tap so it runs on the game loop
func (s *Server) Observe(ev event.GameEvent) {
	s.tracker.Observe(ev)
	s.hub.Broadcast(ev)
}

// Routes sets up the HTTP routes with middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Get("/ws", s.handleWebsocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))
		r.Get("/session", s.handleSession)
		r.Get("/games", s.handleGames)
		r.Get("/games/{name}", s.handleGame)
		r.Get("/history", s.handleHistory)
	})

	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          s.logger,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"uptime_s":   int64(time.Since(s.startTime).Seconds()),
		"spectators": s.hub.Len(),
		"store":      s.history != nil,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.status.Snapshot())
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.tracker.View())
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	playable := games.Playable()
	out := make([]games.GameInfo, 0, len(playable))
	for _, g := range playable {
		out = append(out, games.MustInfo(g))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	g, ok := games.Parse(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown game "+strconv.Quote(name))
		return
	}
	info, err := games.Info(g)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	next, _ := games.Next(g)
	s.writeJSON(w, http.StatusOK, map[string]any{"info": info, "next": next})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "history disabled")
		return
	}

	limit := parameter.HistoryDefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, parameter.HistoryMaxLimit)
	}

	var (
		records []store.SessionRecord
		err     error
	)
	switch order := r.URL.Query().Get("order"); order {
	case "", "recent":
		records, err = s.history.Recent(r.Context(), limit)
	case "best":
		records, err = s.history.Best(r.Context(), limit)
	default:
		s.writeError(w, http.StatusBadRequest, "order must be recent or best")
		return
	}
	if err != nil {
		s.logger.Printf("history: %v", err)
		s.writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if records == nil {
		records = []store.SessionRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	// Late joiners get the current view first
	hello, err := json.Marshal(Message{Type: "session", Payload: s.tracker.View()})
	if err == nil {
		conn.SetWriteDeadline(time.Now().Add(parameter.SpectatorWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
			conn.Close()
			return
		}
	}

	sub := s.hub.subscribe(conn)
	go s.hub.writePump(sub)
	s.hub.readPump(sub)
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	s.writeJSON(w, code, map[string]string{"error": message})
}
