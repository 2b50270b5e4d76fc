package game

import (
	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
)

// Screen is what a client renders for the current room state.
type Screen string

const (
	ScreenNone     Screen = ""
	ScreenWaiting  Screen = "waiting"
	ScreenCategory Screen = "category"
	ScreenVersus   Screen = "versus"
	ScreenQuiz     Screen = "quiz"
	ScreenResult   Screen = "result"
)

// Step is the machine's output for one pushed snapshot: the screen to show
// plus the side effects the session must run. Effects are edge-triggered:
// a duplicate push carrying the same (status, currentQuestionIndex,
// questionStartTime) triple re-renders the screen without re-arming timers
// or re-fetching the leaderboard.
type Step struct {
	Screen Screen
	IsHost bool

	// Fatal is set when the room vanished while a match was in progress.
	Fatal bool

	Index     int
	StartTime int64
	Question  *model.Question
	Score     int

	// AlreadyAnswered means this player's questionsAnswered count already
	// covers the current question; answer controls stay suppressed even if
	// the push arrived after the answer was recorded.
	AlreadyAnswered bool

	SyncTimer           bool
	ScheduleAdvance     bool
	ScheduleVersusStart bool
	FetchLeaderboard    bool

	// MatchStart is the first question's start time, carried on the finished
	// edge so the session can report match duration.
	MatchStart int64
}

// Machine interprets each pushed room snapshot. It is a Moore machine over
// the document: the screen is derived purely from the snapshot, and the only
// retained state exists to keep side effects edge-triggered.
type Machine struct {
	nickname string

	isHost     bool
	inProgress bool
	matchStart int64

	activeIndex     int
	activeStart     int64
	versusScheduled int64
	finishedHandled bool
}

func NewMachine(nickname string) *Machine {
	m := &Machine{nickname: nickname}
	m.resetTracking()
	return m
}

func (m *Machine) resetTracking() {
	m.activeIndex = -1
	m.activeStart = -1
	m.versusScheduled = -1
}

// IsHost reports whether the last processed snapshot marked this player as
// the room host.
func (m *Machine) IsHost() bool {
	return m.isHost
}

// Step processes one snapshot. A nil room is fatal only while a match is in
// progress; before that it just renders nothing (the room may not have been
// written yet when the subscription delivered its initial snapshot).
func (m *Machine) Step(room *model.Room) Step {
	if room == nil {
		if m.inProgress {
			m.inProgress = false
			return Step{Fatal: true}
		}
		return Step{Screen: ScreenNone}
	}

	me, present := room.Players[m.nickname]
	m.isHost = present && me.IsHost

	step := Step{IsHost: m.isHost}

	switch room.Status {
	case model.StatusWaiting:
		m.inProgress = false
		m.finishedHandled = false
		m.resetTracking()
		step.Screen = ScreenWaiting

	case model.StatusSelectingCategory:
		if m.isHost {
			step.Screen = ScreenCategory
		} else {
			step.Screen = ScreenWaiting
		}

	case model.StatusVersus:
		step.Screen = ScreenVersus
		if m.isHost && room.QuestionStartTime != m.versusScheduled {
			m.versusScheduled = room.QuestionStartTime
			step.ScheduleVersusStart = true
		}

	case model.StatusPlaying:
		if !m.inProgress {
			m.inProgress = true
			m.finishedHandled = false
			m.matchStart = room.QuestionStartTime
		}
		step.Screen = ScreenQuiz
		step.Index = room.QuestionIndex()
		step.StartTime = room.QuestionStartTime
		step.Question = room.CurrentQuestion()
		if present {
			step.Score = me.Score
			step.AlreadyAnswered = me.QuestionsAnswered > step.Index
		}
		if step.Index != m.activeIndex || step.StartTime != m.activeStart {
			m.activeIndex = step.Index
			m.activeStart = step.StartTime
			step.SyncTimer = true
			if m.isHost {
				step.ScheduleAdvance = true
			}
		}

	case model.StatusFinished:
		m.inProgress = false
		m.resetTracking()
		step.Screen = ScreenResult
		if present {
			step.Score = me.Score
		}
		if !m.finishedHandled {
			m.finishedHandled = true
			step.FetchLeaderboard = true
			step.MatchStart = m.matchStart
		}

	default:
		step.Screen = ScreenWaiting
	}

	return step
}
