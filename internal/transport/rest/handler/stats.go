package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/stats"
)

const defaultHistoryLimit = 20

// StatsHandler serves archived match aggregates and history.
type StatsHandler struct {
	repo stats.Repo
}

func NewStatsHandler(repo stats.Repo) *StatsHandler {
	return &StatsHandler{repo: repo}
}

// Get handles GET /v1/stats/{nickname}
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	nickname := mux.Vars(r)["nickname"]

	playerStats, err := h.repo.PlayerStats(r.Context(), nickname)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, playerStats)
}

// History handles GET /v1/stats/{nickname}/history
func (h *StatsHandler) History(w http.ResponseWriter, r *http.Request) {
	nickname := mux.Vars(r)["nickname"]

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	history, err := h.repo.History(r.Context(), nickname, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, history)
}
