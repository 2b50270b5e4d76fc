// Package stats archives finished matches and serves per-player aggregates.
// It consumes the session's match-finished observer; the game core never
// imports it.
package stats

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
)

type Repo interface {
	SaveSummary(ctx context.Context, summary *model.MatchSummary) error
	PlayerStats(ctx context.Context, nickname string) (*model.PlayerStats, error)
	History(ctx context.Context, nickname string, limit int) ([]model.MatchSummary, error)
}

type mongoRepo struct {
	matches *mongo.Collection
}

func NewRepo(db *mongo.Database) Repo {
	return &mongoRepo{matches: db.Collection("matches")}
}

func (r *mongoRepo) SaveSummary(ctx context.Context, summary *model.MatchSummary) error {
	_, err := r.matches.InsertOne(ctx, summary)
	if err != nil {
		return fmt.Errorf("stats: save summary: %w", err)
	}
	return nil
}

func (r *mongoRepo) PlayerStats(ctx context.Context, nickname string) (*model.PlayerStats, error) {
	cursor, err := r.matches.Find(ctx, bson.M{"nickname": nickname})
	if err != nil {
		return nil, fmt.Errorf("stats: fetch matches: %w", err)
	}
	defer cursor.Close(ctx)

	out := &model.PlayerStats{Nickname: nickname}
	for cursor.Next(ctx) {
		var m model.MatchSummary
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		out.GamesPlayed++
		out.TotalScore += m.Score
		out.TotalQuestions += m.TotalQuestions
		if m.Score > out.BestScore {
			out.BestScore = m.Score
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	if out.TotalQuestions > 0 {
		out.Accuracy = float64(out.TotalScore) / float64(out.TotalQuestions)
	}
	return out, nil
}

func (r *mongoRepo) History(ctx context.Context, nickname string, limit int) ([]model.MatchSummary, error) {
	opts := options.Find().
		SetSort(bson.M{"finishedAt": -1}).
		SetLimit(int64(limit))
	cursor, err := r.matches.Find(ctx, bson.M{"nickname": nickname}, opts)
	if err != nil {
		return nil, fmt.Errorf("stats: fetch history: %w", err)
	}
	defer cursor.Close(ctx)

	var out []model.MatchSummary
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
