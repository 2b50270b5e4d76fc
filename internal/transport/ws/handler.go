package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/game"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/question"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/service"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/stats"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	actionTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler upgrades game connections and binds each one to a session.
type Handler struct {
	hub       *Hub
	authSvc   *service.AuthService
	store     store.Client
	source    question.Source
	matchSize int
	tracker   *stats.Tracker
}

// NewHandler creates a new WebSocket handler. tracker may be nil when no
// archive is configured.
func NewHandler(hub *Hub, authSvc *service.AuthService, st store.Client, src question.Source, matchSize int, tracker *stats.Tracker) *Handler {
	return &Handler{
		hub:       hub,
		authSvc:   authSvc,
		store:     st,
		source:    src,
		matchSize: matchSize,
		tracker:   tracker,
	}
}

// GameWS handles GET /v1/ws/rooms/{code}. The token carries the nickname;
// missing or invalid session state never reaches the game page.
func (h *Handler) GameWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.authSvc.ValidatePlayerToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	doc, err := h.store.Get(r.Context(), "rooms/"+code)
	if err != nil {
		http.Error(w, "store unavailable", http.StatusBadGateway)
		return
	}
	if doc == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	session := game.NewSession(h.store, h.source, code, claims.Nickname, h.matchSize)
	conn := &Connection{
		RoomCode: code,
		Nickname: claims.Nickname,
		Send:     make(chan []byte, 256),
		Session:  session,
	}

	session.OnView(func(v game.View) {
		conn.Push(MsgView, v)
	})
	session.OnTimer(func(remaining int) {
		conn.Push(MsgTimer, map[string]int{"remaining": remaining})
	})
	session.OnAnswer(func(ev model.AnswerEvent) {
		conn.Push(MsgAnswerResult, ev)
	})
	session.OnFatal(func(err error) {
		conn.Push(MsgFatal, map[string]string{"error": err.Error()})
	})
	if h.tracker != nil {
		session.OnMatchFinished(h.tracker.HandleMatchFinished)
	}

	if err := session.Start(context.Background()); err != nil {
		log.Printf("session start error for %s in %s: %v", claims.Nickname, code, err)
		wsConn.Close()
		return
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// readPump dispatches client actions into the session. Action failures are
// recoverable: they go back to this client only, and the client re-invokes.
func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.Push(MsgError, map[string]string{"error": "malformed message"})
			continue
		}
		h.dispatch(conn, &msg)
	}
}

func (h *Handler) dispatch(conn *Connection, msg *Message) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	var err error
	switch msg.Type {
	case ActStartGame:
		err = conn.Session.StartGame(ctx)

	case ActSelectCategory:
		var payload struct {
			Category string `json:"category"`
		}
		if jsonErr := json.Unmarshal(msg.Payload, &payload); jsonErr != nil || payload.Category == "" {
			conn.Push(MsgError, map[string]string{"error": "malformed category"})
			return
		}
		err = conn.Session.SelectCategory(ctx, payload.Category)

	case ActAnswer:
		var payload struct {
			Option int `json:"option"`
		}
		if jsonErr := json.Unmarshal(msg.Payload, &payload); jsonErr != nil {
			conn.Push(MsgError, map[string]string{"error": "malformed answer"})
			return
		}
		err = conn.Session.Answer(ctx, payload.Option)

	case ActRestart:
		err = conn.Session.Restart(ctx)

	default:
		conn.Push(MsgError, map[string]string{"error": "unknown action"})
		return
	}

	if err != nil {
		conn.Push(MsgError, map[string]string{"error": err.Error()})
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
