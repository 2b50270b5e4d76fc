package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/game"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server -> client message types
const (
	MsgView         MessageType = "view"
	MsgTimer        MessageType = "timer"
	MsgAnswerResult MessageType = "answer_result"
	MsgError        MessageType = "error"
	MsgFatal        MessageType = "fatal"
)

// Client -> server action types
const (
	ActStartGame      MessageType = "start_game"
	ActSelectCategory MessageType = "select_category"
	ActAnswer         MessageType = "answer"
	ActRestart        MessageType = "restart"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Connection is one client's WebSocket link plus the game session bound to
// it. Fan-out across clients happens in the store's push subscription, not
// here; the hub only tracks live connections so the server can drain them
// on shutdown.
type Connection struct {
	RoomCode string
	Nickname string
	Send     chan []byte
	Session  *game.Session

	mu     sync.Mutex
	closed bool
}

// Push enqueues an envelope for the write pump, dropping it if the client
// has fallen too far behind. Safe against a concurrent teardown: session
// observer callbacks (timer ticks, late pushes) can still be in flight when
// the connection unregisters, so the Send close and every send are serialized
// behind the connection mutex.
func (c *Connection) Push(msgType MessageType, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	envelope, err := json.Marshal(&Message{Type: msgType, Payload: data})
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- envelope:
	default:
	}
}

// shutdown closes Send exactly once. Push calls arriving after this are
// no-ops.
func (c *Connection) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// Hub is the registry of live game connections.
type Hub struct {
	mu    sync.Mutex
	conns map[*Connection]struct{}
}

// NewHub creates a new connection registry
func NewHub() *Hub {
	return &Hub{conns: make(map[*Connection]struct{})}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
	log.Printf("Player %s connected to room %s", conn.Nickname, conn.RoomCode)
}

// Unregister removes a connection and tears down its session.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	if ok {
		delete(h.conns, conn)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	conn.Session.Close()
	conn.shutdown()
	log.Printf("Player %s disconnected from room %s", conn.Nickname, conn.RoomCode)
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Shutdown closes every live session. Called when the server drains.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		h.Unregister(conn)
	}
}
