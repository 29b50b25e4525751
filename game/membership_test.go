package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom_Disconnect_KeepsMembershipForReconnect(t *testing.T) {
	r, _ := newTestRoom("host")
	joinPlayer(r, "p2", "guest")

	r.Disconnect("p2")
	assert.True(t, eventually(func() bool {
		p, ok := r.playerSnapshotFor("p2")
		return ok && !p.IsConnected
	}, time.Second))

	newSender := newFakeSender()
	res, err := r.Reconnect("p2", newSender)
	require.NoError(t, err)
	assert.Equal(t, "p2", res.PlayerID)

	p, ok := r.playerSnapshotFor("p2")
	require.True(t, ok)
	assert.True(t, p.IsConnected)
}

func TestRoom_Reconnect_UnknownPlayerFails(t *testing.T) {
	r, _ := newTestRoom("host")
	_, err := r.Reconnect("ghost", newFakeSender())
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestRoom_Kick_OnlyHostMayKick(t *testing.T) {
	r, _ := newTestRoom("host")
	joinPlayer(r, "p2", "guest")
	joinPlayer(r, "p3", "other")

	err := r.Kick("p2", "p3")
	assert.ErrorIs(t, err, ErrNotAuthorised)
}

func TestRoom_Kick_RemovesTargetAndDeniesRejoin(t *testing.T) {
	r, _ := newTestRoom("host")
	joinPlayer(r, "p2", "guest")

	require.NoError(t, r.Kick("host-1", "p2"))

	_, ok := r.playerSnapshotFor("p2")
	assert.False(t, ok)

	sender := newFakeSender()
	_, err := r.Join(&Player{ID: "p2", Name: "guest", conn: sender})
	assert.ErrorIs(t, err, ErrBanned)
}

func TestRoom_Join_RejoinWithSameIDReconnectsInstead(t *testing.T) {
	r, _ := newTestRoom("host")
	joinPlayer(r, "p2", "guest")
	r.Disconnect("p2")

	sender := newFakeSender()
	res, err := r.Join(&Player{ID: "p2", Name: "guest", conn: sender})
	require.NoError(t, err)
	assert.Equal(t, "p2", res.PlayerID)
}
