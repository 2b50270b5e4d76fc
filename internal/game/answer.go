package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
)

// Recorder captures at most one answer per player per question. The first
// selection locks the question locally, so a second click is a no-op before
// anything touches the store; the shared counters are then bumped through
// transactions so concurrent increments are never lost.
type Recorder struct {
	store    store.Client
	code     string
	nickname string

	mu          sync.Mutex
	lockedIndex int
}

func NewRecorder(st store.Client, code, nickname string) *Recorder {
	return &Recorder{
		store:       st,
		code:        code,
		nickname:    nickname,
		lockedIndex: -1,
	}
}

// Locked reports whether an answer for question index was already recorded
// by this client.
func (r *Recorder) Locked(index int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lockedIndex >= index
}

// Unlock clears the local guard for a new match.
func (r *Recorder) Unlock() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lockedIndex = -1
}

// Record registers the player's option for the current question. It returns
// (correct, recorded): recorded is false when the question was already
// locally locked or already counted in questionsAnswered.
func (r *Recorder) Record(ctx context.Context, room *model.Room, option int) (correct bool, recorded bool, err error) {
	index := room.QuestionIndex()
	question := room.CurrentQuestion()
	if question == nil {
		return false, false, nil
	}

	r.mu.Lock()
	if r.lockedIndex >= index {
		r.mu.Unlock()
		return false, false, nil
	}
	if me, ok := room.Players[r.nickname]; ok && me.QuestionsAnswered > index {
		// Answered before this snapshot arrived; keep controls suppressed.
		r.lockedIndex = index
		r.mu.Unlock()
		return false, false, nil
	}
	r.lockedIndex = index
	r.mu.Unlock()

	correct = question.IsCorrect(option)
	if correct {
		path := playerPath(r.code, r.nickname) + "/score"
		if err := increment(ctx, r.store, path); err != nil {
			return correct, true, fmt.Errorf("record score: %w", err)
		}
	}

	path := playerPath(r.code, r.nickname) + "/questionsAnswered"
	if err := increment(ctx, r.store, path); err != nil {
		return correct, true, fmt.Errorf("record answer count: %w", err)
	}
	return correct, true, nil
}

// increment transactionally adds 1 to the counter at path, treating an
// absent counter as 0.
func increment(ctx context.Context, st store.Client, path string) error {
	return st.Transaction(ctx, path, func(current interface{}) (interface{}, error) {
		count, _ := current.(float64)
		return count + 1, nil
	})
}
