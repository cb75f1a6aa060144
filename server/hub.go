package server

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/party-fever/event"
	"github.com/lixenwraith/party-fever/parameter"
)

// Hub fans notifications out to spectator connections
// Broadcast never blocks: each spectator has a bounded send buffer and is
// disconnected when it falls behind
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	count       *atomic.Int64 // optional published gauge
	sent        atomic.Int64
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// NewHub creates a hub; gauge, if non-nil, tracks the spectator count
func NewHub(gauge *atomic.Int64) *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		count:       gauge,
	}
}

// Broadcast encodes ev and queues it for every spectator
func (h *Hub) Broadcast(ev event.GameEvent) {
	data, err := json.Marshal(newMessage(ev))
	if err != nil {
		log.Printf("[HTTP] failed to marshal %s: %v", ev.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		select {
		case sub.send <- data:
			h.sent.Add(1)
		default:
			log.Printf("[HTTP] spectator %s too slow, disconnecting", sub.conn.RemoteAddr())
			h.removeLocked(sub)
		}
	}
}

// Len returns the number of connected spectators
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Sent returns the number of queued messages across all spectators
func (h *Hub) Sent() int64 { return h.sent.Load() }

func (h *Hub) subscribe(conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn, send: make(chan []byte, parameter.SpectatorSendBuffer)}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.publishLocked()
	h.mu.Unlock()
	return sub
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	h.removeLocked(sub)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(sub *subscriber) {
	if _, ok := h.subscribers[sub]; !ok {
		return
	}
	delete(h.subscribers, sub)
	sub.close()
	h.publishLocked()
}

func (h *Hub) publishLocked() {
	if h.count != nil {
		h.count.Store(int64(len(h.subscribers)))
	}
}

// CloseAll disconnects every spectator
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		h.removeLocked(sub)
	}
}

// writePump drains the send buffer to the connection until it closes
func (h *Hub) writePump(sub *subscriber) {
	defer sub.conn.Close()
	for data := range sub.send {
		sub.conn.SetWriteDeadline(time.Now().Add(parameter.SpectatorWriteWait))
		if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.unsubscribe(sub)
			return
		}
	}
	sub.conn.SetWriteDeadline(time.Now().Add(parameter.SpectatorWriteWait))
	sub.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump discards client frames and unsubscribes on disconnect
func (h *Hub) readPump(sub *subscriber) {
	defer h.unsubscribe(sub)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}
