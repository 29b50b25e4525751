package game

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/limoondev/backend-drawly/domain"
	"github.com/limoondev/backend-drawly/store"
	"github.com/limoondev/backend-drawly/words"
)

// fakeSender records every event sent to it, standing in for a real
// websocket connection in tests.
type fakeSender struct {
	mu     sync.Mutex
	events []sentEvent
	closed bool
}

type sentEvent struct {
	Event   string
	Payload any
}

func newFakeSender() *fakeSender {
	return &fakeSender{}
}

func (f *fakeSender) Send(event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{Event: event, Payload: payload})
}

func (f *fakeSender) Close(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSender) last() (sentEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return sentEvent{}, false
	}
	return f.events[len(f.events)-1], true
}

func (f *fakeSender) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

func (f *fakeSender) firstPayload(event string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.Event == event {
			return e.Payload, true
		}
	}
	return nil, false
}

// testTunables uses short but non-zero durations so timer-driven tests
// finish quickly without racing zero-delay timers.
func testTunables() Tunables {
	return Tunables{
		MinPlayers:      2,
		HintInterval:    20 * time.Second,
		TurnEndDelay:    30 * time.Millisecond,
		StartCountdown:  10 * time.Millisecond,
		AutoPickTimeout: 50 * time.Millisecond,
		EmptyRoomGrace:  50 * time.Millisecond,
		SettleDelay:     10 * time.Millisecond,
		KickDenylistTTL: time.Minute,
		ChatHistoryCap:  50,
		MaxNameLength:   20,
		MaxChatLength:   200,
	}
}

func testCatalogue() *words.Catalogue {
	return words.NewCatalogue(map[string][]string{
		"default": {"apple", "banana", "carrot", "dragon", "elephant"},
	})
}

func newTestRoom(hostName string) (*Room, *fakeSender) {
	sender := newFakeSender()
	host := &Player{ID: "host-1", Name: hostName, conn: sender}
	settings := Settings{MaxPlayers: 8, DrawTime: 2 * time.Second, MaxRounds: 2, Theme: "default"}
	r := NewRoom("room-1", "ABC123", host, settings, testTunables(), testCatalogue(), zerolog.Nop(), nil, nil, nil)
	return r, sender
}

func joinPlayer(r *Room, id, name string) *fakeSender {
	sender := newFakeSender()
	p := &Player{ID: id, Name: name, conn: sender}
	_, _ = r.Join(p)
	return sender
}

// fakeStore is an in-memory store.Store standing in for Postgres in
// registry tests that need ListStaleRooms/ListRecentRooms
// rehydration without a real database.
type fakeStore struct {
	mu      sync.Mutex
	rooms   map[string]store.RoomRecord
	byCode  map[string]string
	players map[string][]store.PlayerRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:   map[string]store.RoomRecord{},
		byCode:  map[string]string{},
		players: map[string][]store.PlayerRecord{},
	}
}

func (s *fakeStore) SaveRoom(ctx context.Context, r store.RoomRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r
	s.byCode[r.Code] = r.ID
	return nil
}

func (s *fakeStore) GetRoom(ctx context.Context, id string) (store.RoomRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return store.RoomRecord{}, domain.ErrNotFound
	}
	return r, nil
}

func (s *fakeStore) GetRoomByCode(ctx context.Context, code string) (store.RoomRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byCode[code]
	if !ok {
		return store.RoomRecord{}, domain.ErrNotFound
	}
	return s.rooms[id], nil
}

func (s *fakeStore) DeleteRoom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		delete(s.byCode, r.Code)
	}
	delete(s.rooms, id)
	return nil
}

func (s *fakeStore) ListStaleRooms(ctx context.Context, olderThan time.Time) ([]store.RoomRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.RoomRecord
	for _, r := range s.rooms {
		if r.PlayerCount == 0 && r.LastActivity.Before(olderThan) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) ListRecentRooms(ctx context.Context, retainedSince time.Time) ([]store.RoomRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.RoomRecord
	for _, r := range s.rooms {
		if !r.LastActivity.Before(retainedSince) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) ListPublicRooms(ctx context.Context) ([]store.RoomRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.RoomRecord
	for _, r := range s.rooms {
		if !r.IsPrivate {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) SavePlayer(ctx context.Context, p store.PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.RoomID] = append(s.players[p.RoomID], p)
	return nil
}

func (s *fakeStore) ListPlayers(ctx context.Context, roomID string) ([]store.PlayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players[roomID], nil
}

func (s *fakeStore) DeletePlayer(ctx context.Context, id string) error {
	return nil
}

func (s *fakeStore) DeletePlayersByRoom(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, roomID)
	return nil
}

func (s *fakeStore) IncrementProfileStats(ctx context.Context, userID string, scoreDelta int, won bool) error {
	return nil
}

func (s *fakeStore) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	return domain.Profile{UserID: userID}, nil
}

func eventually(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
