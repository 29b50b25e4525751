package game

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/limoondev/backend-drawly/idgen"
	"github.com/limoondev/backend-drawly/store"
	"github.com/limoondev/backend-drawly/words"
)

const maxCodeAttempts = 100

// Registry owns the set of live rooms, the id/code namespace, and the
// persistence and teardown plumbing around each Room: one serialising
// actor per room, a shared registry for cross-room concerns. Its own
// mutex guards only map shape, never engine state.
type Registry struct {
	mu        sync.RWMutex
	rooms     map[string]*Room // by id
	codeIndex map[string]string // code -> id

	codeGen   idgen.Code
	catalogue *words.Catalogue
	tunables  Tunables
	store     store.Store
	logger    zerolog.Logger
}

func NewRegistry(codeGen idgen.Code, catalogue *words.Catalogue, tunables Tunables, st store.Store, logger zerolog.Logger) *Registry {
	return &Registry{
		rooms:     map[string]*Room{},
		codeIndex: map[string]string{},
		codeGen:   codeGen,
		catalogue: catalogue,
		tunables:  tunables,
		store:     st,
		logger:    logger,
	}
}

// CreateRoom allocates a fresh id/code pair and starts a new room
// with host as its sole member.
func (reg *Registry) CreateRoom(host *Player, settings Settings) (*Room, error) {
	id := idgen.NewID()
	code, err := reg.allocateCode()
	if err != nil {
		return nil, err
	}

	room := NewRoom(id, code, host, settings, reg.tunables, reg.catalogue, reg.logger,
		reg.persist, reg.onEmptied, reg.onDestroy)

	reg.mu.Lock()
	reg.rooms[id] = room
	reg.codeIndex[code] = id
	reg.mu.Unlock()

	reg.persist(room.toPersisted())
	return room, nil
}

func (reg *Registry) allocateCode() (string, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for i := 0; i < maxCodeAttempts; i++ {
		c := reg.codeGen.Generate()
		if _, taken := reg.codeIndex[c]; !taken {
			return c, nil
		}
	}
	return "", ErrCodeExhaustion
}

// LookupByCode resolves a room code to a live room, rehydrating from
// the store if the code is known there but the room fell out of
// memory (process restart within the retention window). Codes are
// compared case-insensitively, upper-cased the same way idgen.Code
// generates them, so a client that typed or pasted one in lowercase
// still resolves.
func (reg *Registry) LookupByCode(ctx context.Context, code string) (*Room, error) {
	code = strings.ToUpper(code)

	reg.mu.RLock()
	if id, ok := reg.codeIndex[code]; ok {
		room := reg.rooms[id]
		reg.mu.RUnlock()
		return room, nil
	}
	reg.mu.RUnlock()

	if reg.store == nil {
		return nil, ErrRoomNotFound
	}
	rec, err := reg.store.GetRoomByCode(ctx, code)
	if err != nil {
		return nil, ErrRoomNotFound
	}
	return reg.rehydrate(ctx, rec)
}

// LookupByID resolves a room id the same way LookupByCode resolves a
// code. Nothing in this module calls it; joins and reconnects go
// through LookupByCode.
func (reg *Registry) LookupByID(ctx context.Context, id string) (*Room, error) {
	reg.mu.RLock()
	room, ok := reg.rooms[id]
	reg.mu.RUnlock()
	if ok {
		return room, nil
	}

	if reg.store == nil {
		return nil, ErrRoomNotFound
	}
	rec, err := reg.store.GetRoom(ctx, id)
	if err != nil {
		return nil, ErrRoomNotFound
	}
	return reg.rehydrate(ctx, rec)
}

// rehydrate reconstructs a room shell from its persisted record.
// Only the lobby shape survives a restart: players rejoin disconnected
// and the room starts back in PhaseLobby, never mid-turn.
func (reg *Registry) rehydrate(ctx context.Context, rec store.RoomRecord) (*Room, error) {
	playerRecs, err := reg.store.ListPlayers(ctx, rec.ID)
	if err != nil || len(playerRecs) == 0 {
		return nil, ErrRoomNotFound
	}

	var host *Player
	var rest []*Player
	for _, pr := range playerRecs {
		p := &Player{
			ID:             pr.ID,
			SessionID:      pr.SessionID,
			Name:           pr.Name,
			Avatar:         pr.Avatar,
			Score:          pr.Score,
			OptionalUserID: pr.UserID,
			connected:      false,
		}
		if pr.ID == rec.HostID {
			host = p
		} else {
			rest = append(rest, p)
		}
	}
	if host == nil {
		host = rest[0]
		rest = rest[1:]
	}

	settings := Settings{
		MaxPlayers: rec.MaxPlayers,
		DrawTime:   rec.DrawTime,
		MaxRounds:  rec.MaxRounds,
		Theme:      rec.Theme,
		IsPrivate:  rec.IsPrivate,
	}
	room := NewRoom(rec.ID, rec.Code, host, settings, reg.tunables, reg.catalogue, reg.logger,
		reg.persist, reg.onEmptied, reg.onDestroy)
	for _, p := range rest {
		_, _ = room.Join(p)
	}

	reg.mu.Lock()
	reg.rooms[rec.ID] = room
	reg.codeIndex[rec.Code] = rec.ID
	reg.mu.Unlock()

	return room, nil
}

// Destroy tears a room down: stops its actor, removes it from both
// indices, and deletes its persisted rows. Safe to call more than
// once for the same id.
func (reg *Registry) Destroy(roomID string) {
	reg.mu.Lock()
	room, ok := reg.rooms[roomID]
	if ok {
		delete(reg.rooms, roomID)
		delete(reg.codeIndex, room.code)
	}
	reg.mu.Unlock()
	if !ok {
		return
	}

	room.shutdown()

	if reg.store != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := reg.store.DeletePlayersByRoom(ctx, roomID); err != nil {
				reg.logger.Warn().Err(err).Str("room_id", roomID).Msg("delete players by room failed")
			}
			if err := reg.store.DeleteRoom(ctx, roomID); err != nil {
				reg.logger.Warn().Err(err).Str("room_id", roomID).Msg("delete room failed")
			}
		}()
	}
}

// EvictStaleRooms deletes rooms the store still holds that have had
// zero players for longer than olderThan but never came back into
// memory to be caught by the in-memory sweep (e.g. they emptied out
// and the process restarted before the in-memory empty-room timer
// fired).
func (reg *Registry) EvictStaleRooms(ctx context.Context, olderThan time.Time) error {
	if reg.store == nil {
		return nil
	}
	stale, err := reg.store.ListStaleRooms(ctx, olderThan)
	if err != nil {
		return err
	}
	for _, rec := range stale {
		reg.mu.RLock()
		_, live := reg.rooms[rec.ID]
		reg.mu.RUnlock()
		if live {
			continue
		}
		if err := reg.store.DeletePlayersByRoom(ctx, rec.ID); err != nil {
			reg.logger.Warn().Err(err).Str("room_id", rec.ID).Msg("delete stale players failed")
		}
		if err := reg.store.DeleteRoom(ctx, rec.ID); err != nil {
			reg.logger.Warn().Err(err).Str("room_id", rec.ID).Msg("delete stale room failed")
		}
	}
	return nil
}

// RehydrateRecent restores every persisted room whose lastActivity
// falls within the retention window into memory, for boot-time
// recovery after a restart. Rooms predating the window are left for
// EvictStaleRooms to reap.
func (reg *Registry) RehydrateRecent(ctx context.Context, retainedSince time.Time) (int, error) {
	if reg.store == nil {
		return 0, nil
	}
	recent, err := reg.store.ListRecentRooms(ctx, retainedSince)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rec := range recent {
		if _, err := reg.rehydrate(ctx, rec); err != nil {
			reg.logger.Warn().Err(err).Str("room_id", rec.ID).Msg("boot rehydrate failed")
			continue
		}
		n++
	}
	return n, nil
}

// Rooms returns a snapshot of the currently live rooms, used by the
// housekeeper sweep and by the process shutdown in cmd/server.
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

func (reg *Registry) onEmptied(roomID string) {}

func (reg *Registry) onDestroy(roomID string) {
	reg.Destroy(roomID)
}

// persist is the PersistFunc every room is constructed with: it never
// blocks the room's actor, writing through to the store on its own
// goroutine and folding any failure into a logged warning.
func (reg *Registry) persist(snapshot PersistedRoom) {
	if reg.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		rec := store.RoomRecord{
			ID:           snapshot.ID,
			Code:         snapshot.Code,
			HostID:       snapshot.HostID,
			IsPrivate:    snapshot.IsPrivate,
			MaxPlayers:   snapshot.MaxPlayers,
			DrawTime:     snapshot.DrawTime,
			MaxRounds:    snapshot.MaxRounds,
			Theme:        snapshot.Theme,
			Phase:        string(snapshot.Phase),
			PlayerCount:  snapshot.PlayerCount,
			LastActivity: snapshot.LastActivity,
			CreatedAt:    snapshot.CreatedAt,
		}
		if err := reg.store.SaveRoom(ctx, rec); err != nil {
			reg.logger.Warn().Err(err).Str("room_id", snapshot.ID).Msg("save room failed")
			return
		}
		for _, p := range snapshot.Players {
			pr := store.PlayerRecord{
				ID:        p.ID,
				RoomID:    snapshot.ID,
				UserID:    p.UserID,
				Name:      p.Name,
				Avatar:    p.Avatar,
				Score:     p.Score,
				IsHost:    p.IsHost,
				SessionID: p.SessionID,
			}
			if err := reg.store.SavePlayer(ctx, pr); err != nil {
				reg.logger.Warn().Err(err).Str("player_id", p.ID).Msg("save player failed")
			}
		}
	}()
}
