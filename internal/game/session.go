package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/question"
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/store"
)

const actionTimeout = 10 * time.Second

// Session is one client's view of one room: it owns the store subscription,
// the countdown timer, the host advancer and the answer recorder, and tears
// all of them down on Close. It exists so nothing about the active game
// lives in package-level state.
type Session struct {
	ID       string
	Code     string
	Nickname string

	store     store.Client
	source    question.Source
	matchSize int

	machine  *Machine
	timer    *Timer
	advancer *Advancer
	recorder *Recorder

	onView     func(View)
	onTimer    func(remaining int)
	onAnswer   func(model.AnswerEvent)
	onFinished func(model.MatchSummary)
	onFatal    func(error)

	mu          sync.Mutex
	cancelSub   func()
	versusTimer *time.Timer
	lastRoom    *model.Room
	lastView    View
	closed      bool
}

// NewSession builds an unstarted session. Register observers, then Start.
func NewSession(st store.Client, src question.Source, code, nickname string, matchSize int) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Code:      code,
		Nickname:  nickname,
		store:     st,
		source:    src,
		matchSize: matchSize,
		machine:   NewMachine(nickname),
		advancer:  NewAdvancer(st, code),
		recorder:  NewRecorder(st, code, nickname),
	}
	s.timer = NewTimer(s.handleTick)
	return s
}

// OnView registers the full-view observer (fired on every processed push).
func (s *Session) OnView(fn func(View)) { s.onView = fn }

// OnTimer registers the countdown observer (fired once per second).
func (s *Session) OnTimer(fn func(int)) { s.onTimer = fn }

// OnAnswer registers the answer observer.
func (s *Session) OnAnswer(fn func(model.AnswerEvent)) { s.onAnswer = fn }

// OnMatchFinished registers the match-summary observer.
func (s *Session) OnMatchFinished(fn func(model.MatchSummary)) { s.onFinished = fn }

// OnFatal registers the observer for errors that end the session (the room
// vanishing mid-match). The session is already closed when it fires.
func (s *Session) OnFatal(fn func(error)) { s.onFatal = fn }

// Start subscribes to the room document. Every push re-evaluates the state
// machine; the session stays live until Close or a fatal push.
func (s *Session) Start(ctx context.Context) error {
	cancel, err := s.store.Subscribe(ctx, roomPath(s.Code), s.handlePush)
	if err != nil {
		return fmt.Errorf("session start: %w", err)
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return ErrSessionClosed
	}
	s.cancelSub = cancel
	s.mu.Unlock()
	return nil
}

// Close cancels the subscription and every pending local timer. Required on
// navigation away from the room; late callbacks against a dead screen are
// leaks.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancel := s.cancelSub
	s.cancelSub = nil
	if s.versusTimer != nil {
		s.versusTimer.Stop()
		s.versusTimer = nil
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.timer.Stop()
	s.advancer.Cancel()
}

// handlePush runs on the subscription goroutine, one push at a time.
func (s *Session) handlePush(val interface{}) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	var room *model.Room
	if doc, ok := val.(store.Document); ok {
		if decoded, err := model.DecodeRoom(doc); err == nil {
			room = decoded
		}
	}

	step := s.machine.Step(room)
	if step.Fatal {
		s.mu.Unlock()
		s.Close()
		if s.onFatal != nil {
			s.onFatal(ErrRoomVanished)
		}
		return
	}
	if step.Screen == ScreenNone {
		s.mu.Unlock()
		return
	}
	s.lastRoom = room

	view := s.buildView(room, step)

	switch step.Screen {
	case ScreenWaiting, ScreenCategory, ScreenResult:
		s.timer.Stop()
		s.advancer.Disarm()
		s.recorder.Unlock()
	}

	if step.SyncTimer {
		s.timer.Sync(step.StartTime)
	}
	if step.ScheduleAdvance {
		s.advancer.Schedule(step.Index, step.StartTime)
	}
	if step.ScheduleVersusStart {
		s.scheduleVersusStartLocked()
	}

	var summary *model.MatchSummary
	if step.FetchLeaderboard {
		view.Leaderboard = s.fetchLeaderboard()
		summary = s.buildSummary(room, step)
	}
	view.TimerRemaining = s.timer.Remaining()
	s.lastView = view
	s.mu.Unlock()

	if s.onView != nil {
		s.onView(view)
	}
	if summary != nil && s.onFinished != nil {
		s.onFinished(*summary)
	}
}

func (s *Session) buildView(room *model.Room, step Step) View {
	view := View{
		Screen:   step.Screen,
		RoomCode: s.Code,
		IsHost:   step.IsHost,
		Players:  playerViews(model.SortedBySlot(room.Players)),
		Category: room.Category,
		Score:    step.Score,
	}
	if step.Screen == ScreenQuiz || step.Screen == ScreenVersus {
		view.QuestionIndex = step.Index
		view.QuestionTotal = len(room.Questions)
	}
	if step.Screen == ScreenQuiz {
		answered := step.AlreadyAnswered || s.recorder.Locked(step.Index)
		view.Answered = answered
		if !answered && step.Question != nil {
			view.QuestionText = step.Question.Text
			view.Options = append([]string(nil), step.Question.Options...)
		}
	}
	return view
}

// fetchLeaderboard reads the players once and sorts them by score. Runs at
// most once per finished match.
func (s *Session) fetchLeaderboard() []PlayerView {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	val, err := s.store.Get(ctx, roomPath(s.Code)+"/players")
	if err != nil {
		return nil
	}
	raw, ok := val.(store.Document)
	if !ok {
		return nil
	}
	players := make(map[string]model.Player, len(raw))
	for nick, v := range raw {
		doc, ok := v.(store.Document)
		if !ok {
			continue
		}
		p := model.Player{Nickname: nick}
		if sc, ok := doc["score"].(float64); ok {
			p.Score = int(sc)
		}
		if h, ok := doc["isHost"].(bool); ok {
			p.IsHost = h
		}
		players[nick] = p
	}
	return playerViews(model.SortedByScore(players))
}

func (s *Session) buildSummary(room *model.Room, step Step) *model.MatchSummary {
	me, ok := room.Players[s.Nickname]
	if !ok {
		return nil
	}
	now, err := s.store.Now(context.Background())
	if err != nil {
		now = time.Now().UnixMilli()
	}
	var duration int64
	if step.MatchStart > 0 {
		duration = now - step.MatchStart
	}
	return &model.MatchSummary{
		RoomCode:       s.Code,
		Nickname:       s.Nickname,
		Category:       room.Category,
		Score:          me.Score,
		TotalQuestions: len(room.Questions),
		DurationMillis: duration,
		FinishedAt:     now,
	}
}

// isHost reads the machine's host flag under the session lock. A closed
// session is never the host; its actions must stop writing to the room.
func (s *Session) isHost() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.machine.IsHost()
}

func (s *Session) handleTick(remaining int) {
	if s.onTimer != nil {
		s.onTimer(remaining)
	}
}

// scheduleVersusStartLocked arms the host's delayed versus → playing
// transition. Caller holds s.mu.
func (s *Session) scheduleVersusStartLocked() {
	if s.versusTimer != nil {
		s.versusTimer.Stop()
	}
	s.versusTimer = time.AfterFunc(VersusRevealDelay, func() {
		if !s.isHost() {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		s.store.Transaction(ctx, roomPath(s.Code), func(current interface{}) (interface{}, error) {
			doc, ok := current.(store.Document)
			if !ok {
				return nil, nil
			}
			room, err := model.DecodeRoom(doc)
			if err != nil {
				return nil, err
			}
			if room.Status != model.StatusVersus {
				return nil, nil
			}
			now, err := s.store.Now(ctx)
			if err != nil {
				return nil, err
			}
			room.Status = model.StatusPlaying
			room.QuestionStartTime = now
			return room.Doc()
		})
	})
}

// StartGame moves the room from the waiting lobby into category selection.
// Silently ignored for non-hosts.
func (s *Session) StartGame(ctx context.Context) error {
	if !s.isHost() {
		return nil
	}
	fields := store.Document{"status": string(model.StatusSelectingCategory)}
	if err := s.store.Update(ctx, roomPath(s.Code), fields); err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	return nil
}

// SelectCategory resolves the question set and starts the match. Host only;
// a non-host invocation is a silent no-op. The transition is one atomic
// write: no subscriber can observe the new status with a stale question
// list or unreset answer counters.
func (s *Session) SelectCategory(ctx context.Context, category string) error {
	if !s.isHost() {
		return nil
	}

	questions, err := s.source.Questions(ctx, category, s.matchSize)
	if err != nil {
		return fmt.Errorf("select category %s: %w", category, err)
	}

	return s.store.Transaction(ctx, roomPath(s.Code), func(current interface{}) (interface{}, error) {
		doc, ok := current.(store.Document)
		if !ok {
			return nil, nil
		}
		room, err := model.DecodeRoom(doc)
		if err != nil {
			return nil, err
		}
		now, err := s.store.Now(ctx)
		if err != nil {
			return nil, err
		}
		for nick, p := range room.Players {
			p.QuestionsAnswered = 0
			room.Players[nick] = p
		}
		room.Category = category
		room.Questions = questions
		room.CurrentQuestionIndex = model.IntPtr(0)
		room.QuestionStartTime = now
		if room.Mode == model.ModeVersus {
			room.Status = model.StatusVersus
		} else {
			room.Status = model.StatusPlaying
		}
		return room.Doc()
	})
}

// Answer records the player's option for the current question. The second
// invocation for the same question is a no-op.
func (s *Session) Answer(ctx context.Context, option int) error {
	s.mu.Lock()
	room := s.lastRoom
	if s.closed {
		room = nil
	}
	s.mu.Unlock()
	if room == nil || room.Status != model.StatusPlaying {
		return nil
	}

	correct, recorded, err := s.recorder.Record(ctx, room, option)
	if !recorded {
		return err
	}
	if s.onAnswer != nil {
		s.onAnswer(model.AnswerEvent{
			RoomCode:      s.Code,
			Nickname:      s.Nickname,
			QuestionIndex: room.QuestionIndex(),
			Option:        option,
			Correct:       correct,
		})
	}
	return err
}

// Restart resets the room back to the waiting lobby. Host only.
func (s *Session) Restart(ctx context.Context) error {
	if !s.isHost() {
		return nil
	}
	return ResetRoom(ctx, s.store, s.Code)
}

// View returns the last rendered view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastView
}
