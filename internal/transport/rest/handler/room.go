package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/game"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/transport/rest/middleware"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	lobby *game.Lobby
	store store.Client
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(lobby *game.Lobby, st store.Client) *RoomHandler {
	return &RoomHandler{lobby: lobby, store: st}
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Mode model.RoomMode `json:"mode,omitempty"`
}

// Create handles POST /v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	nickname := middleware.GetNickname(r.Context())
	if nickname == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, err := h.lobby.CreateRoom(r.Context(), nickname, req.Mode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"roomCode": code})
}

// Join handles POST /v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	nickname := middleware.GetNickname(r.Context())
	if nickname == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	code := mux.Vars(r)["code"]

	if err := h.lobby.JoinRoom(r.Context(), code, nickname); err != nil {
		if errors.Is(err, game.ErrRoomNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"roomCode": code})
}

// Get handles GET /v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	doc, err := h.store.Get(r.Context(), "rooms/"+code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	raw, ok := doc.(store.Document)
	if !ok {
		writeError(w, http.StatusInternalServerError, "malformed room document")
		return
	}
	room, err := model.DecodeRoom(raw)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, room)
}
