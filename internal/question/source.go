// Package question supplies the question list snapshotted into a room at
// category-selection time.
package question

import (
	"context"
	"errors"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
)

// ErrNotEnoughQuestions is returned when a source cannot recover as many
// questions as the match requests. The host's category selection surfaces it
// and rolls back so the host can retry.
var ErrNotEnoughQuestions = errors.New("question: not enough questions for category")

// Source yields n questions for a category. Implementations are the static
// embedded table and the catalog-sampled source.
type Source interface {
	Questions(ctx context.Context, category string, n int) ([]model.Question, error)
}
