package model

import "sort"

// Player represents a participant in a room. The nickname doubles as the
// key in Room.Players, so it is unique within a room.
type Player struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
	IsHost   bool   `json:"isHost"`

	// QuestionsAnswered counts answers this player has recorded in the
	// current match. A client observing questionsAnswered > currentQuestionIndex
	// for itself treats the current question as already answered.
	QuestionsAnswered int `json:"questionsAnswered,omitempty"`

	// JoinedAt is a server-assigned millisecond timestamp used for
	// deterministic slot ordering in versus mode.
	JoinedAt int64 `json:"joinedAt,omitempty"`
}

// SortedBySlot returns the room's players ordered by join time, nickname as
// tiebreak. Versus slots ("player 1", "player 2") come from this order.
func SortedBySlot(players map[string]Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt != out[j].JoinedAt {
			return out[i].JoinedAt < out[j].JoinedAt
		}
		return out[i].Nickname < out[j].Nickname
	})
	return out
}

// SortedByScore returns the room's players ordered for the leaderboard:
// score descending, nickname ascending as tiebreak.
func SortedByScore(players map[string]Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Nickname < out[j].Nickname
	})
	return out
}
