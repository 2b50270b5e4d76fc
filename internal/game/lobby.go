package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
)

func roomPath(code string) string {
	return "rooms/" + code
}

func playerPath(code, nickname string) string {
	return fmt.Sprintf("rooms/%s/players/%s", code, nickname)
}

// Lobby performs the room operations available before a game session is
// bound: creating a room and joining one.
type Lobby struct {
	store store.Client
}

func NewLobby(st store.Client) *Lobby {
	return &Lobby{store: st}
}

// newRoomCode draws a 6-digit code uniformly in [100000, 999999]. There is
// no uniqueness check against existing rooms; a colliding create merges into
// the existing room.
func newRoomCode() string {
	return fmt.Sprintf("%d", 100000+rand.Intn(900000))
}

// CreateRoom creates a waiting room with the creator as its only player and
// permanent host, and returns the room code.
func (l *Lobby) CreateRoom(ctx context.Context, nickname string, mode model.RoomMode) (string, error) {
	if mode == "" {
		mode = model.ModeClassic
	}
	now, err := l.store.Now(ctx)
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}

	code := newRoomCode()
	fields := store.Document{
		"status":    string(model.StatusWaiting),
		"mode":      string(mode),
		"host":      nickname,
		"createdAt": now,
		"players": store.Document{
			nickname: store.Document{
				"nickname": nickname,
				"score":    0,
				"isHost":   true,
				"joinedAt": now,
			},
		},
	}
	if err := l.store.Update(ctx, roomPath(code), fields); err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	return code, nil
}

// JoinRoom adds a player to an existing room. The write targets only the
// joiner's own record, an uncontended path, so a plain update suffices.
func (l *Lobby) JoinRoom(ctx context.Context, code, nickname string) error {
	doc, err := l.store.Get(ctx, roomPath(code))
	if err != nil {
		return fmt.Errorf("join room: %w", err)
	}
	if doc == nil {
		return ErrRoomNotFound
	}
	now, err := l.store.Now(ctx)
	if err != nil {
		return fmt.Errorf("join room: %w", err)
	}
	fields := store.Document{
		"nickname": nickname,
		"score":    0,
		"isHost":   false,
		"joinedAt": now,
	}
	if err := l.store.Update(ctx, playerPath(code, nickname), fields); err != nil {
		return fmt.Errorf("join room: %w", err)
	}
	return nil
}

// ResetRoom returns a room to the waiting lobby: scores zeroed, questions
// and question tracking cleared, players kept.
func ResetRoom(ctx context.Context, st store.Client, code string) error {
	return st.Transaction(ctx, roomPath(code), func(current interface{}) (interface{}, error) {
		doc, ok := current.(store.Document)
		if !ok {
			return nil, nil
		}
		room, err := model.DecodeRoom(doc)
		if err != nil {
			return nil, err
		}
		for nick, p := range room.Players {
			p.Score = 0
			p.QuestionsAnswered = 0
			room.Players[nick] = p
		}
		room.Status = model.StatusWaiting
		room.Category = ""
		room.Questions = nil
		room.CurrentQuestionIndex = nil
		room.QuestionStartTime = 0
		return room.Doc()
	})
}
