package game

import "github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"

// PlayerView is the cosmetic slice of a player shown in lists, versus slots
// and the leaderboard.
type PlayerView struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
	IsHost   bool   `json:"isHost"`
}

// View is what a client renders after each processed snapshot. The correct
// answer never travels in a view; correctness comes back through the answer
// result.
type View struct {
	Screen   Screen       `json:"screen"`
	RoomCode string       `json:"roomCode"`
	IsHost   bool         `json:"isHost"`
	Players  []PlayerView `json:"players,omitempty"`

	Category       string   `json:"category,omitempty"`
	QuestionIndex  int      `json:"questionIndex"`
	QuestionTotal  int      `json:"questionTotal,omitempty"`
	QuestionText   string   `json:"questionText,omitempty"`
	Options        []string `json:"options,omitempty"`
	TimerRemaining int      `json:"timerRemaining"`
	Score          int      `json:"score"`
	Answered       bool     `json:"answered"`

	Leaderboard []PlayerView `json:"leaderboard,omitempty"`
}

func playerViews(players []model.Player) []PlayerView {
	out := make([]PlayerView, len(players))
	for i, p := range players {
		out[i] = PlayerView{Nickname: p.Nickname, Score: p.Score, IsHost: p.IsHost}
	}
	return out
}
