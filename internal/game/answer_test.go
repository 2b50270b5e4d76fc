package game

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
)

func TestRecorderRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("correct answer bumps score and count", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		room := playingRoom(0, 1000)
		seedRoom(t, st, "200001", room)

		r := NewRecorder(st, "200001", "bob")
		correct, recorded, err := r.Record(ctx, room, 0)
		require.NoError(t, err)
		assert.True(t, correct)
		assert.True(t, recorded)

		after := fetchRoom(t, st, "200001")
		assert.Equal(t, 1, after.Players["bob"].Score)
		assert.Equal(t, 1, after.Players["bob"].QuestionsAnswered)
	})

	t.Run("wrong answer bumps only the count", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		room := playingRoom(0, 1000)
		seedRoom(t, st, "200002", room)

		r := NewRecorder(st, "200002", "bob")
		correct, recorded, err := r.Record(ctx, room, 1)
		require.NoError(t, err)
		assert.False(t, correct)
		assert.True(t, recorded)

		after := fetchRoom(t, st, "200002")
		assert.Equal(t, 0, after.Players["bob"].Score)
		assert.Equal(t, 1, after.Players["bob"].QuestionsAnswered)
	})

	t.Run("second answer for the same question is dropped", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		room := playingRoom(0, 1000)
		seedRoom(t, st, "200003", room)

		r := NewRecorder(st, "200003", "bob")
		_, recorded, err := r.Record(ctx, room, 0)
		require.NoError(t, err)
		require.True(t, recorded)

		_, recorded, err = r.Record(ctx, room, 1)
		require.NoError(t, err)
		assert.False(t, recorded)

		after := fetchRoom(t, st, "200003")
		assert.Equal(t, 1, after.Players["bob"].QuestionsAnswered)
	})

	t.Run("concurrent clicks record exactly once", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		room := playingRoom(0, 1000)
		seedRoom(t, st, "200004", room)

		r := NewRecorder(st, "200004", "bob")
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, _ = r.Record(ctx, room, 0)
			}()
		}
		wg.Wait()

		after := fetchRoom(t, st, "200004")
		assert.Equal(t, 1, after.Players["bob"].Score)
		assert.Equal(t, 1, after.Players["bob"].QuestionsAnswered)
	})

	t.Run("snapshot already counting the answer suppresses the record", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		room := playingRoom(0, 1000)
		player := room.Players["bob"]
		player.QuestionsAnswered = 1
		room.Players["bob"] = player
		seedRoom(t, st, "200005", room)

		r := NewRecorder(st, "200005", "bob")
		_, recorded, err := r.Record(ctx, room, 0)
		require.NoError(t, err)
		assert.False(t, recorded)
		assert.True(t, r.Locked(0))
	})

	t.Run("no current question is a no-op", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		room := twoPlayerRoom(model.StatusWaiting)
		seedRoom(t, st, "200006", room)

		r := NewRecorder(st, "200006", "bob")
		_, recorded, err := r.Record(ctx, room, 0)
		require.NoError(t, err)
		assert.False(t, recorded)
	})

	t.Run("unlock reopens earlier questions for a rematch", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		room := playingRoom(1, 1000)
		seedRoom(t, st, "200007", room)

		r := NewRecorder(st, "200007", "bob")
		_, recorded, err := r.Record(ctx, room, 1)
		require.NoError(t, err)
		require.True(t, recorded)

		// Locked for 1 implies locked for 0 as well.
		assert.True(t, r.Locked(0))
		r.Unlock()
		assert.False(t, r.Locked(0))
	})
}
