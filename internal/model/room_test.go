package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionIndex(t *testing.T) {
	t.Parallel()

	room := &Room{}
	assert.Equal(t, -1, room.QuestionIndex())
	assert.Nil(t, room.CurrentQuestion())

	room.CurrentQuestionIndex = IntPtr(0)
	room.Questions = []Question{{Text: "q", Options: []string{"a", "b"}, Answer: 1}}
	assert.Equal(t, 0, room.QuestionIndex())
	require.NotNil(t, room.CurrentQuestion())
	assert.Equal(t, "q", room.CurrentQuestion().Text)

	room.CurrentQuestionIndex = IntPtr(5)
	assert.Nil(t, room.CurrentQuestion())
}

func TestRoomDocRoundTrip(t *testing.T) {
	t.Parallel()

	room := &Room{
		Status: StatusPlaying,
		Mode:   ModeVersus,
		Host:   "ana",
		Players: map[string]Player{
			"ana": {Nickname: "ana", Score: 2, IsHost: true, QuestionsAnswered: 2, JoinedAt: 100},
		},
		Category:             "filmes",
		Questions:            []Question{{Text: "q", Options: []string{"a", "b"}, Answer: 0}},
		CurrentQuestionIndex: IntPtr(1),
		QuestionStartTime:    5000,
		CreatedAt:            1,
	}

	doc, err := room.Doc()
	require.NoError(t, err)
	back, err := DecodeRoom(doc)
	require.NoError(t, err)
	assert.Equal(t, room, back)
}

func TestRoomDocClearedIndexIsAbsent(t *testing.T) {
	t.Parallel()

	// A reset room must not carry currentQuestionIndex at all; an explicit 0
	// would read as "question 1 is live".
	room := &Room{Status: StatusWaiting, Host: "ana"}
	doc, err := room.Doc()
	require.NoError(t, err)
	_, present := doc["currentQuestionIndex"]
	assert.False(t, present)

	back, err := DecodeRoom(doc)
	require.NoError(t, err)
	assert.Equal(t, -1, back.QuestionIndex())
}

func TestIsCorrect(t *testing.T) {
	t.Parallel()

	q := Question{Text: "q", Options: []string{"a", "b", "c"}, Answer: 1}
	assert.True(t, q.IsCorrect(1))
	assert.False(t, q.IsCorrect(0))
	assert.False(t, q.IsCorrect(-1))
	assert.False(t, q.IsCorrect(3))
}
