package game

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limoondev/backend-drawly/domain"
	"github.com/limoondev/backend-drawly/idgen"
	"github.com/limoondev/backend-drawly/store"
)

func newTestRegistry() *Registry {
	codeGen := idgen.NewCodeGenerator("", 0)
	return NewRegistry(codeGen, testCatalogue(), testTunables(), nil, zerolog.Nop())
}

func TestRegistry_CreateRoom_AssignsUniqueCode(t *testing.T) {
	reg := newTestRegistry()

	host1 := &Player{ID: "h1", Name: "a", conn: newFakeSender()}
	room1, err := reg.CreateRoom(host1, Settings{MaxPlayers: 8, MaxRounds: 2, Theme: "default"})
	require.NoError(t, err)

	host2 := &Player{ID: "h2", Name: "b", conn: newFakeSender()}
	room2, err := reg.CreateRoom(host2, Settings{MaxPlayers: 8, MaxRounds: 2, Theme: "default"})
	require.NoError(t, err)

	assert.NotEqual(t, room1.Code(), room2.Code())
}

func TestRegistry_LookupByCode_FindsLiveRoom(t *testing.T) {
	reg := newTestRegistry()
	host := &Player{ID: "h1", Name: "a", conn: newFakeSender()}
	room, err := reg.CreateRoom(host, Settings{MaxPlayers: 8, MaxRounds: 2, Theme: "default"})
	require.NoError(t, err)

	found, err := reg.LookupByCode(nil, room.Code())
	require.NoError(t, err)
	assert.Equal(t, room.ID(), found.ID())
}

func TestRegistry_LookupByCode_UnknownCodeWithoutStoreFails(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.LookupByCode(nil, "ZZZZZZ")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRegistry_LookupByCode_IsCaseInsensitive(t *testing.T) {
	reg := newTestRegistry()
	host := &Player{ID: "h1", Name: "a", conn: newFakeSender()}
	room, err := reg.CreateRoom(host, Settings{MaxPlayers: 8, MaxRounds: 2, Theme: "default"})
	require.NoError(t, err)

	found, err := reg.LookupByCode(nil, strings.ToLower(room.Code()))
	require.NoError(t, err)
	assert.Equal(t, room.ID(), found.ID())
}

func TestRegistry_EvictStaleRooms_DeletesOldEmptyRoomsFromStore(t *testing.T) {
	st := newFakeStore()
	reg := NewRegistry(idgen.NewCodeGenerator("", 0), testCatalogue(), testTunables(), st, zerolog.Nop())

	_ = st.SaveRoom(nil, store.RoomRecord{
		ID: "stale-1", Code: "STALE1", PlayerCount: 0,
		LastActivity: time.Now().Add(-time.Hour),
	})
	_ = st.SaveRoom(nil, store.RoomRecord{
		ID: "fresh-1", Code: "FRESH1", PlayerCount: 0,
		LastActivity: time.Now(),
	})

	err := reg.EvictStaleRooms(nil, time.Now().Add(-30*time.Minute))
	require.NoError(t, err)

	_, err = st.GetRoom(nil, "stale-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = st.GetRoom(nil, "fresh-1")
	assert.NoError(t, err)
}

func TestRegistry_RehydrateRecent_RestoresPersistedRoomsIntoMemory(t *testing.T) {
	st := newFakeStore()
	reg := NewRegistry(idgen.NewCodeGenerator("", 0), testCatalogue(), testTunables(), st, zerolog.Nop())

	_ = st.SaveRoom(nil, store.RoomRecord{
		ID: "room-1", Code: "ROOM01", HostID: "h1", MaxPlayers: 8, MaxRounds: 2,
		LastActivity: time.Now(),
	})
	_ = st.SavePlayer(nil, store.PlayerRecord{ID: "h1", RoomID: "room-1", Name: "host"})

	n, err := reg.RehydrateRecent(nil, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	found, err := reg.LookupByCode(nil, "ROOM01")
	require.NoError(t, err)
	assert.Equal(t, "room-1", found.ID())
}

func TestRegistry_Destroy_RemovesFromBothIndices(t *testing.T) {
	reg := newTestRegistry()
	host := &Player{ID: "h1", Name: "a", conn: newFakeSender()}
	room, err := reg.CreateRoom(host, Settings{MaxPlayers: 8, MaxRounds: 2, Theme: "default"})
	require.NoError(t, err)

	reg.Destroy(room.ID())

	_, err = reg.LookupByCode(nil, room.Code())
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
