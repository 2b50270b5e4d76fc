package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
)

// StoreCatalog reads the catalog out of the shared document store under
// categories/categories/<key>/totalQuestions and
// categories/categories/<key>/questions/q<N>.
type StoreCatalog struct {
	client store.Client
}

func NewStoreCatalog(client store.Client) *StoreCatalog {
	return &StoreCatalog{client: client}
}

func (c *StoreCatalog) TotalQuestions(ctx context.Context, category string) (int, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf("categories/categories/%s/totalQuestions", category))
	if err != nil {
		return 0, fmt.Errorf("catalog: fetch totalQuestions for %s: %w", category, err)
	}
	total, ok := val.(float64)
	if !ok {
		return 0, nil
	}
	return int(total), nil
}

func (c *StoreCatalog) QuestionAt(ctx context.Context, category string, n int) (*model.Question, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf("categories/categories/%s/questions/q%d", category, n))
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch question %d of %s: %w", n, category, err)
	}
	if val == nil {
		return nil, nil
	}
	data, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}
	var q model.Question
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("catalog: malformed question %d of %s: %w", n, category, err)
	}
	return &q, nil
}
