package server

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Hub fans game-state snapshots out to WebSocket subscribers, keyed by game
// id. Slow subscribers have stale frames dropped rather than blocking the
// broadcast.
type Hub struct {
	logger      *log.Logger
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]bool
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		logger:      logger.WithPrefix("hub"),
		subscribers: make(map[string]map[*subscriber]bool),
	}
}

// Subscribe registers conn for gameID updates and services it until the
// client disconnects. Blocks for the life of the connection.
func (h *Hub) Subscribe(gameID string, conn *websocket.Conn) {
	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, 8),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.subscribers[gameID] == nil {
		h.subscribers[gameID] = make(map[*subscriber]bool)
	}
	h.subscribers[gameID][sub] = true
	h.mu.Unlock()
	h.logger.Debug("Client subscribed", "game", gameID)

	defer func() {
		h.mu.Lock()
		delete(h.subscribers[gameID], sub)
		if len(h.subscribers[gameID]) == 0 {
			delete(h.subscribers, gameID)
		}
		h.mu.Unlock()
		sub.close()
		_ = conn.Close()
		h.logger.Debug("Client unsubscribed", "game", gameID)
	}()

	go sub.writePump()

	// Drain the connection to observe close frames; clients never send.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends a snapshot to every subscriber of gameID.
func (h *Hub) Broadcast(gameID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast", "game", gameID, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers[gameID] {
		select {
		case sub.send <- data:
		default:
			// Subscriber is backed up; it will catch up on the next frame.
		}
	}
}

// SubscriberCount returns the number of live subscribers for gameID.
func (h *Hub) SubscriberCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[gameID])
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.done) })
}

func (s *subscriber) writePump() {
	for {
		select {
		case data := <-s.send:
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
