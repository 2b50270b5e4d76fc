// Package catalog exposes the remote question catalog: a per-category record
// count plus 1-based question records, the shape the sampling question
// source draws from.
package catalog

import (
	"context"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
)

type Catalog interface {
	// TotalQuestions returns the number of records in a category, 0 when the
	// category does not exist.
	TotalQuestions(ctx context.Context, category string) (int, error)

	// QuestionAt fetches the n-th (1-based) record of a category, (nil, nil)
	// when no record exists at that index.
	QuestionAt(ctx context.Context, category string, n int) (*model.Question, error)
}
