package question

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/catalog"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
)

// SampledSource draws a uniform random sample of distinct records from a
// remote catalog. The draw is capped at the catalog size, so a category
// smaller than the match size yields every record it has, and then fails,
// because fewer questions than requested were recovered.
type SampledSource struct {
	catalog catalog.Catalog
	intn    func(n int) int
}

func NewSampledSource(cat catalog.Catalog) *SampledSource {
	return &SampledSource{
		catalog: cat,
		intn:    rand.Intn,
	}
}

func (s *SampledSource) Questions(ctx context.Context, category string, n int) ([]model.Question, error) {
	total, err := s.catalog.TotalQuestions(ctx, category)
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNotEnoughQuestions, category)
	}

	target := n
	if target > total {
		target = total
	}

	// Draw 1-based indices until the set reaches the target size. Capping
	// the target at the catalog size keeps this loop finite.
	picked := make(map[int]bool, target)
	order := make([]int, 0, target)
	for len(order) < target {
		id := s.intn(total) + 1
		if picked[id] {
			continue
		}
		picked[id] = true
		order = append(order, id)
	}

	questions := make([]model.Question, 0, target)
	for _, id := range order {
		q, err := s.catalog.QuestionAt(ctx, category, id)
		if err != nil {
			return nil, err
		}
		if q == nil {
			// Stale counter: the index resolved to no record. Drop it.
			continue
		}
		questions = append(questions, *q)
	}

	if len(questions) < n {
		return nil, fmt.Errorf("%w: %s has %d of %d requested", ErrNotEnoughQuestions, category, len(questions), n)
	}
	return questions, nil
}
