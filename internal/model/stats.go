package model

// MatchSummary is the per-player record of one finished match, fired through
// the match-finished observer and archived for history queries.
type MatchSummary struct {
	RoomCode       string `json:"roomCode" bson:"roomCode"`
	Nickname       string `json:"nickname" bson:"nickname"`
	Category       string `json:"category" bson:"category"`
	Score          int    `json:"score" bson:"score"`
	TotalQuestions int    `json:"totalQuestions" bson:"totalQuestions"`
	DurationMillis int64  `json:"durationMillis" bson:"durationMillis"`
	FinishedAt     int64  `json:"finishedAt" bson:"finishedAt"`
}

// PlayerStats aggregates a player's archived matches.
type PlayerStats struct {
	Nickname       string  `json:"nickname"`
	GamesPlayed    int     `json:"gamesPlayed"`
	TotalScore     int     `json:"totalScore"`
	BestScore      int     `json:"bestScore"`
	TotalQuestions int     `json:"totalQuestions"`
	Accuracy       float64 `json:"accuracy"`
}

// AnswerEvent is fired through the answer observer each time this client
// records an answer.
type AnswerEvent struct {
	RoomCode      string `json:"roomCode"`
	Nickname      string `json:"nickname"`
	QuestionIndex int    `json:"questionIndex"`
	Option        int    `json:"option"`
	Correct       bool   `json:"correct"`
}
