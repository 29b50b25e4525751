package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom_Stroke_OnlyCurrentDrawerDuringDrawing(t *testing.T) {
	r, _ := newTestRoom("host")
	joinPlayer(r, "p2", "guest")
	require.NoError(t, r.StartGame("host-1"))
	startDrawingWithWord(t, r, "apple")

	err := r.Stroke("p2", map[string]any{"x": 1})
	assert.ErrorIs(t, err, ErrNotAuthorised)

	err = r.Stroke("host-1", map[string]any{"x": 1})
	assert.NoError(t, err)
}

func TestRoom_Stroke_ForwardsToEveryoneElse(t *testing.T) {
	r, hostSender := newTestRoom("host")
	guestSender := joinPlayer(r, "p2", "guest")
	require.NoError(t, r.StartGame("host-1"))
	startDrawingWithWord(t, r, "apple")

	require.NoError(t, r.Stroke("host-1", map[string]any{"x": 1}))

	assert.True(t, eventually(func() bool { return guestSender.count(EventDrawStroke) == 1 }, time.Second))
	assert.Equal(t, 0, hostSender.count(EventDrawStroke))
}

func TestRoom_Stroke_RejectedOutsideDrawing(t *testing.T) {
	r, _ := newTestRoom("host")
	err := r.Stroke("host-1", map[string]any{"x": 1})
	assert.ErrorIs(t, err, ErrNotAuthorised)
}
