package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startDrawingWithWord(t *testing.T, r *Room, word string) {
	t.Helper()
	require.True(t, eventually(func() bool { return r.currentPhase() == PhaseChoosing }, time.Second))
	r.enqueue(func() {
		r.offeredWords = []string{word}
	})
	require.NoError(t, r.SelectWord("host-1", word))
	require.True(t, eventually(func() bool { return r.currentPhase() == PhaseDrawing }, time.Second))
}

func TestRoom_Chat_CorrectGuessScoresAndFlagsGuesser(t *testing.T) {
	r, _ := newTestRoom("host")
	guestSender := joinPlayer(r, "p2", "guest")
	require.NoError(t, r.StartGame("host-1"))
	startDrawingWithWord(t, r, "apple")

	require.NoError(t, r.Chat("p2", "apple"))

	payload, ok := guestSender.firstPayload(EventCorrectGuess)
	require.True(t, ok)
	cg := payload.(CorrectGuessPayload)
	assert.Equal(t, "p2", cg.PlayerID)
	assert.Greater(t, cg.Points, 0)

	p, ok := r.playerSnapshotFor("p2")
	require.True(t, ok)
	assert.True(t, p.HasGuessed)
}

func TestRoom_Chat_DrawerCannotGuessOwnWord(t *testing.T) {
	r, _ := newTestRoom("host")
	joinPlayer(r, "p2", "guest")
	require.NoError(t, r.StartGame("host-1"))
	startDrawingWithWord(t, r, "apple")

	require.NoError(t, r.Chat("host-1", "apple"))

	p, ok := r.playerSnapshotFor("host-1")
	require.True(t, ok)
	assert.False(t, p.HasGuessed)
}

func TestRoom_Chat_CloseGuessPrivatelyFlagged(t *testing.T) {
	r, _ := newTestRoom("host")
	guestSender := joinPlayer(r, "p2", "guest")
	require.NoError(t, r.StartGame("host-1"))
	startDrawingWithWord(t, r, "apple")

	require.NoError(t, r.Chat("p2", "appl"))

	_, ok := guestSender.firstPayload(EventCloseGuess)
	assert.True(t, ok)
}

func TestRoom_Chat_WrongGuessBecomesOrdinaryChat(t *testing.T) {
	r, hostSender := newTestRoom("host")
	joinPlayer(r, "p2", "guest")
	require.NoError(t, r.StartGame("host-1"))
	startDrawingWithWord(t, r, "apple")

	require.NoError(t, r.Chat("p2", "hello everyone"))

	assert.True(t, eventually(func() bool { return hostSender.count(EventChatMessage) >= 1 }, time.Second))
}

func TestRoom_Chat_RejectsEmptyMessage(t *testing.T) {
	r, _ := newTestRoom("host")
	err := r.Chat("host-1", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
