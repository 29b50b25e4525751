// Package store defines the persistence contract for room/player/
// profile state. Only the interface is core-relevant; Postgres is one
// concrete implementation (store/postgres.go), built on pgx/v5.
package store

import (
	"context"
	"time"

	"github.com/limoondev/backend-drawly/domain"
)

// RoomRecord is the durable projection of a Room. It intentionally
// omits currentWord/timeLeft/phase-specific runtime fields: the
// engine never persists or resumes an active game across a restart.
type RoomRecord struct {
	ID           string
	Code         string
	HostID       string
	IsPrivate    bool
	MaxPlayers   int
	DrawTime     time.Duration
	MaxRounds    int
	Theme        string
	Phase        string
	PlayerCount  int
	LastActivity time.Time
	CreatedAt    time.Time
}

// PlayerRecord is the durable projection of a Player.
type PlayerRecord struct {
	ID        string
	RoomID    string
	UserID    string
	Name      string
	Avatar    string
	Score     int
	IsHost    bool
	SessionID string
}

// Store is the persistence contract the room registry and engine
// depend on. Every method is short and idempotent; the engine never
// blocks waiting on a write, so callers should run writes through a
// bounded async path (see game/persist.go).
type Store interface {
	SaveRoom(ctx context.Context, r RoomRecord) error
	GetRoom(ctx context.Context, id string) (RoomRecord, error)
	GetRoomByCode(ctx context.Context, code string) (RoomRecord, error)
	DeleteRoom(ctx context.Context, id string) error

	// ListStaleRooms returns rooms with zero players and LastActivity
	// older than olderThan, for housekeeper eviction.
	ListStaleRooms(ctx context.Context, olderThan time.Time) ([]RoomRecord, error)
	// ListRecentRooms returns rooms within the restart retention
	// window, for boot-time rehydration.
	ListRecentRooms(ctx context.Context, retainedSince time.Time) ([]RoomRecord, error)
	// ListPublicRooms returns non-private rooms for a public-room
	// listing feature.
	ListPublicRooms(ctx context.Context) ([]RoomRecord, error)

	SavePlayer(ctx context.Context, p PlayerRecord) error
	ListPlayers(ctx context.Context, roomID string) ([]PlayerRecord, error)
	DeletePlayer(ctx context.Context, id string) error
	DeletePlayersByRoom(ctx context.Context, roomID string) error

	// IncrementProfileStats applies end-of-game stat increments. won
	// adds to GamesWon as well as GamesPlayed.
	IncrementProfileStats(ctx context.Context, userID string, scoreDelta int, won bool) error
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
}
