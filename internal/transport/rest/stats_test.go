package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/game"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/question"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/service"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/transport/ws"
)

type fakeStatsRepo struct {
	saved     []model.MatchSummary
	lastLimit int
}

func (r *fakeStatsRepo) SaveSummary(ctx context.Context, summary *model.MatchSummary) error {
	r.saved = append(r.saved, *summary)
	return nil
}

func (r *fakeStatsRepo) PlayerStats(ctx context.Context, nickname string) (*model.PlayerStats, error) {
	out := &model.PlayerStats{Nickname: nickname}
	for _, m := range r.saved {
		if m.Nickname != nickname {
			continue
		}
		out.GamesPlayed++
		out.TotalScore += m.Score
		out.TotalQuestions += m.TotalQuestions
		if m.Score > out.BestScore {
			out.BestScore = m.Score
		}
	}
	if out.TotalQuestions > 0 {
		out.Accuracy = float64(out.TotalScore) / float64(out.TotalQuestions)
	}
	return out, nil
}

func (r *fakeStatsRepo) History(ctx context.Context, nickname string, limit int) ([]model.MatchSummary, error) {
	r.lastLimit = limit
	var out []model.MatchSummary
	for _, m := range r.saved {
		if m.Nickname == nickname {
			out = append(out, m)
		}
	}
	return out, nil
}

func statsRouter(t *testing.T, repo *fakeStatsRepo) http.Handler {
	t.Helper()
	st := store.NewMemoryStore()
	authSvc := service.NewAuthService()
	hub := ws.NewHub()
	t.Cleanup(hub.Shutdown)

	return NewRouter(&Container{
		AuthService: authSvc,
		Lobby:       game.NewLobby(st),
		Store:       st,
		StatsRepo:   repo,
		WSHandler:   ws.NewHandler(hub, authSvc, st, question.NewStaticSource(), 2, nil),
	})
}

func TestStatsEndpoints(t *testing.T) {
	t.Parallel()

	repo := &fakeStatsRepo{saved: []model.MatchSummary{
		{RoomCode: "111111", Nickname: "ana", Category: "filmes", Score: 8, TotalQuestions: 10, FinishedAt: 2},
		{RoomCode: "222222", Nickname: "ana", Category: "esportes", Score: 4, TotalQuestions: 10, FinishedAt: 1},
		{RoomCode: "333333", Nickname: "bob", Category: "filmes", Score: 10, TotalQuestions: 10, FinishedAt: 3},
	}}
	router := statsRouter(t, repo)

	t.Run("aggregates cover only the requested player", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/stats/ana", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got model.PlayerStats
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 2, got.GamesPlayed)
		assert.Equal(t, 12, got.TotalScore)
		assert.Equal(t, 8, got.BestScore)
		assert.InDelta(t, 0.6, got.Accuracy, 1e-9)
	})

	t.Run("history honors the limit query param", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/stats/ana/history?limit=5", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, repo.lastLimit)

		var got []model.MatchSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("bad limit is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/stats/ana/history?limit=zero", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
