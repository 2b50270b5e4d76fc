package model

import "encoding/json"

type RoomStatus string

const (
	StatusWaiting           RoomStatus = "waiting"
	StatusSelectingCategory RoomStatus = "selecting_category"
	StatusVersus            RoomStatus = "versus"
	StatusPlaying           RoomStatus = "playing"
	StatusFinished          RoomStatus = "finished"
)

type RoomMode string

const (
	ModeClassic RoomMode = "classic"
	ModeVersus  RoomMode = "versus"
)

// Room is the shared document representing one match's full state, keyed by
// room code. Every field is visible to every subscribed client; clients
// coordinate exclusively through it.
type Room struct {
	Status    RoomStatus        `json:"status"`
	Mode      RoomMode          `json:"mode,omitempty"`
	Host      string            `json:"host"`
	Players   map[string]Player `json:"players,omitempty"`
	Category  string            `json:"category,omitempty"`
	Questions []Question        `json:"questions,omitempty"`

	// CurrentQuestionIndex is absent outside a match and cleared on restart.
	// QuestionStartTime is a server-assigned millisecond timestamp, rewritten
	// every time the index changes.
	CurrentQuestionIndex *int  `json:"currentQuestionIndex,omitempty"`
	QuestionStartTime    int64 `json:"questionStartTime,omitempty"`

	CreatedAt int64 `json:"createdAt,omitempty"`
}

// QuestionIndex returns the current question index, or -1 when absent.
func (r *Room) QuestionIndex() int {
	if r.CurrentQuestionIndex == nil {
		return -1
	}
	return *r.CurrentQuestionIndex
}

// CurrentQuestion returns the question at the current index, or nil when the
// index is absent or out of range.
func (r *Room) CurrentQuestion() *Question {
	i := r.QuestionIndex()
	if i < 0 || i >= len(r.Questions) {
		return nil
	}
	return &r.Questions[i]
}

// DecodeRoom converts a raw store document into a Room.
func DecodeRoom(doc map[string]interface{}) (*Room, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var room Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// Doc converts the Room back into a raw store document.
func (r *Room) Doc() (map[string]interface{}, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// IntPtr is a convenience for writing CurrentQuestionIndex values.
func IntPtr(i int) *int { return &i }
