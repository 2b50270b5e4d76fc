package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/question"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
)

type viewLog struct {
	mu    sync.Mutex
	views []View
}

func (l *viewLog) record(v View) {
	l.mu.Lock()
	l.views = append(l.views, v)
	l.mu.Unlock()
}

func (l *viewLog) last() (View, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.views) == 0 {
		return View{}, false
	}
	return l.views[len(l.views)-1], true
}

func (l *viewLog) waitScreen(t *testing.T, screen Screen) View {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v, ok := l.last(); ok && v.Screen == screen {
			return v
		}
		time.Sleep(10 * time.Millisecond)
	}
	v, _ := l.last()
	t.Fatalf("screen %q not reached, last view: %+v", screen, v)
	return View{}
}

func startSession(t *testing.T, st *store.MemoryStore, code, nickname string) (*Session, *viewLog) {
	t.Helper()
	log := &viewLog{}
	s := NewSession(st, question.NewStaticSource(), code, nickname, 2)
	s.OnView(log.record)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Close)
	return s, log
}

func TestSessionGameFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("host walks the room from lobby to quiz", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		code, err := NewLobby(st).CreateRoom(ctx, "ana", "")
		require.NoError(t, err)
		require.NoError(t, NewLobby(st).JoinRoom(ctx, code, "bob"))

		host, hostLog := startSession(t, st, code, "ana")
		_, guestLog := startSession(t, st, code, "bob")

		hostView := hostLog.waitScreen(t, ScreenWaiting)
		assert.True(t, hostView.IsHost)
		assert.Len(t, hostView.Players, 2)

		require.NoError(t, host.StartGame(ctx))
		hostLog.waitScreen(t, ScreenCategory)
		// Guests stay on the waiting screen during category selection.
		guestLog.waitScreen(t, ScreenWaiting)

		require.NoError(t, host.SelectCategory(ctx, "filmes"))
		quiz := guestLog.waitScreen(t, ScreenQuiz)
		assert.Equal(t, 0, quiz.QuestionIndex)
		assert.Equal(t, 2, quiz.QuestionTotal)
		assert.Equal(t, "filmes", quiz.Category)
		assert.NotEmpty(t, quiz.QuestionText)
		assert.Len(t, quiz.Options, 4)
		assert.False(t, quiz.Answered)
	})

	t.Run("guest actions are silent no-ops", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		code, err := NewLobby(st).CreateRoom(ctx, "ana", "")
		require.NoError(t, err)
		require.NoError(t, NewLobby(st).JoinRoom(ctx, code, "bob"))

		guest, guestLog := startSession(t, st, code, "bob")
		guestLog.waitScreen(t, ScreenWaiting)

		require.NoError(t, guest.StartGame(ctx))
		require.NoError(t, guest.SelectCategory(ctx, "filmes"))
		require.NoError(t, guest.Restart(ctx))

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, model.StatusWaiting, fetchRoom(t, st, code).Status)
	})

	t.Run("unknown category fails without touching the room", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		code, err := NewLobby(st).CreateRoom(ctx, "ana", "")
		require.NoError(t, err)

		host, hostLog := startSession(t, st, code, "ana")
		hostLog.waitScreen(t, ScreenWaiting)
		require.NoError(t, host.StartGame(ctx))
		hostLog.waitScreen(t, ScreenCategory)

		err = host.SelectCategory(ctx, "nope")
		assert.ErrorIs(t, err, question.ErrNotEnoughQuestions)
		assert.Equal(t, model.StatusSelectingCategory, fetchRoom(t, st, code).Status)
	})

	t.Run("answered question hides the controls in the view", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		code, err := NewLobby(st).CreateRoom(ctx, "ana", "")
		require.NoError(t, err)

		host, hostLog := startSession(t, st, code, "ana")
		hostLog.waitScreen(t, ScreenWaiting)
		require.NoError(t, host.StartGame(ctx))
		hostLog.waitScreen(t, ScreenCategory)
		require.NoError(t, host.SelectCategory(ctx, "filmes"))
		hostLog.waitScreen(t, ScreenQuiz)

		var events []model.AnswerEvent
		var mu sync.Mutex
		host.OnAnswer(func(e model.AnswerEvent) {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		})

		require.NoError(t, host.Answer(ctx, 0))
		require.NoError(t, host.Answer(ctx, 1)) // dropped

		waitUntil(t, func() bool {
			v, ok := hostLog.last()
			return ok && v.Answered
		})
		v, _ := hostLog.last()
		assert.Empty(t, v.QuestionText)
		assert.Empty(t, v.Options)

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, events, 1)
		assert.Equal(t, 0, events[0].QuestionIndex)
	})

	t.Run("finished delivers a score-sorted leaderboard and a summary", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		st.SetClock(func() int64 { return 50000 })
		room := playingRoom(1, 40000)
		ana := room.Players["ana"]
		ana.Score = 1
		room.Players["ana"] = ana
		bob := room.Players["bob"]
		bob.Score = 2
		room.Players["bob"] = bob
		seedRoom(t, st, "400001", room)

		s, log := startSession(t, st, "400001", "ana")
		var summaries []model.MatchSummary
		var mu sync.Mutex
		s.OnMatchFinished(func(sum model.MatchSummary) {
			mu.Lock()
			summaries = append(summaries, sum)
			mu.Unlock()
		})

		log.waitScreen(t, ScreenQuiz)
		require.NoError(t, Advance(ctx, st, "400001", 1))

		result := log.waitScreen(t, ScreenResult)
		require.Len(t, result.Leaderboard, 2)
		assert.Equal(t, "bob", result.Leaderboard[0].Nickname)
		assert.Equal(t, 2, result.Leaderboard[0].Score)
		assert.Equal(t, "ana", result.Leaderboard[1].Nickname)

		waitUntil(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(summaries) == 1
		})
		mu.Lock()
		sum := summaries[0]
		mu.Unlock()
		assert.Equal(t, "400001", sum.RoomCode)
		assert.Equal(t, "ana", sum.Nickname)
		assert.Equal(t, 1, sum.Score)
		assert.Equal(t, 2, sum.TotalQuestions)
		assert.Equal(t, int64(50000), sum.FinishedAt)
	})

	t.Run("restart returns everyone to the lobby with zeroed scores", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemoryStore()
		room := twoPlayerRoom(model.StatusFinished)
		ana := room.Players["ana"]
		ana.Score = 2
		ana.QuestionsAnswered = 2
		room.Players["ana"] = ana
		seedRoom(t, st, "400002", room)

		s, log := startSession(t, st, "400002", "ana")
		log.waitScreen(t, ScreenResult)

		require.NoError(t, s.Restart(ctx))
		lobby := log.waitScreen(t, ScreenWaiting)
		for _, p := range lobby.Players {
			assert.Zero(t, p.Score)
		}
		assert.Equal(t, model.StatusWaiting, fetchRoom(t, st, "400002").Status)
	})
}

func TestSessionRoomVanishes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := store.NewMemoryStore()
	seedRoom(t, st, "500001", playingRoom(0, 1000))

	s, log := startSession(t, st, "500001", "bob")
	fatal := make(chan error, 1)
	s.OnFatal(func(err error) { fatal <- err })

	log.waitScreen(t, ScreenQuiz)
	require.NoError(t, st.Delete(ctx, roomPath("500001")))

	select {
	case err := <-fatal:
		assert.ErrorIs(t, err, ErrRoomVanished)
	case <-time.After(2 * time.Second):
		t.Fatal("fatal callback never fired")
	}

	// A closed session ignores further actions.
	assert.NoError(t, s.Answer(ctx, 0))
}

func TestSessionVersusReveal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := store.NewMemoryStore()
	code, err := NewLobby(st).CreateRoom(ctx, "ana", model.ModeVersus)
	require.NoError(t, err)
	require.NoError(t, NewLobby(st).JoinRoom(ctx, code, "bob"))

	host, hostLog := startSession(t, st, code, "ana")
	_, guestLog := startSession(t, st, code, "bob")

	hostLog.waitScreen(t, ScreenWaiting)
	require.NoError(t, host.StartGame(ctx))
	hostLog.waitScreen(t, ScreenCategory)
	require.NoError(t, host.SelectCategory(ctx, "esportes"))

	versus := guestLog.waitScreen(t, ScreenVersus)
	assert.Len(t, versus.Players, 2)
	// Slots are seat order, not score order: the creator joined first.
	assert.Equal(t, "ana", versus.Players[0].Nickname)

	// After the reveal delay the host flips the room into playing.
	deadline := time.Now().Add(VersusRevealDelay + 2*time.Second)
	for time.Now().Before(deadline) {
		if v, ok := guestLog.last(); ok && v.Screen == ScreenQuiz {
			break
		}
		time.Sleep(25 * time.Millisecond)
	}
	quiz, _ := guestLog.last()
	assert.Equal(t, ScreenQuiz, quiz.Screen)
	assert.Equal(t, model.StatusPlaying, fetchRoom(t, st, code).Status)
}
