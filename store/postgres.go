package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/limoondev/backend-drawly/domain"
)

// PostgresStore implements Store over a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) SaveRoom(ctx context.Context, r RoomRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rooms (id, code, host_id, is_private, max_players, draw_time_seconds,
			max_rounds, theme, phase, player_count, last_activity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code, host_id = EXCLUDED.host_id, is_private = EXCLUDED.is_private,
			max_players = EXCLUDED.max_players, draw_time_seconds = EXCLUDED.draw_time_seconds,
			max_rounds = EXCLUDED.max_rounds, theme = EXCLUDED.theme, phase = EXCLUDED.phase,
			player_count = EXCLUDED.player_count, last_activity = EXCLUDED.last_activity
	`, r.ID, r.Code, r.HostID, r.IsPrivate, r.MaxPlayers, int(r.DrawTime.Seconds()),
		r.MaxRounds, r.Theme, r.Phase, r.PlayerCount, r.LastActivity, r.CreatedAt)
	return wrapErr(err)
}

func (s *PostgresStore) GetRoom(ctx context.Context, id string) (RoomRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, code, host_id, is_private, max_players, draw_time_seconds,
			max_rounds, theme, phase, player_count, last_activity, created_at
		FROM rooms WHERE id = $1
	`, id)
	return scanRoom(row)
}

func (s *PostgresStore) GetRoomByCode(ctx context.Context, code string) (RoomRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, code, host_id, is_private, max_players, draw_time_seconds,
			max_rounds, theme, phase, player_count, last_activity, created_at
		FROM rooms WHERE code = $1
	`, code)
	return scanRoom(row)
}

func (s *PostgresStore) DeleteRoom(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	return wrapErr(err)
}

func (s *PostgresStore) ListStaleRooms(ctx context.Context, olderThan time.Time) ([]RoomRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, host_id, is_private, max_players, draw_time_seconds,
			max_rounds, theme, phase, player_count, last_activity, created_at
		FROM rooms WHERE player_count = 0 AND last_activity < $1
	`, olderThan)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	return scanRooms(rows)
}

func (s *PostgresStore) ListRecentRooms(ctx context.Context, retainedSince time.Time) ([]RoomRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, host_id, is_private, max_players, draw_time_seconds,
			max_rounds, theme, phase, player_count, last_activity, created_at
		FROM rooms WHERE last_activity >= $1
	`, retainedSince)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	return scanRooms(rows)
}

func (s *PostgresStore) ListPublicRooms(ctx context.Context) ([]RoomRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, host_id, is_private, max_players, draw_time_seconds,
			max_rounds, theme, phase, player_count, last_activity, created_at
		FROM rooms WHERE is_private = false
	`)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	return scanRooms(rows)
}

func (s *PostgresStore) SavePlayer(ctx context.Context, p PlayerRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO players (id, room_id, user_id, name, avatar, score, is_host, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			room_id = EXCLUDED.room_id, user_id = EXCLUDED.user_id, name = EXCLUDED.name,
			avatar = EXCLUDED.avatar, score = EXCLUDED.score, is_host = EXCLUDED.is_host,
			session_id = EXCLUDED.session_id
	`, p.ID, p.RoomID, nullableString(p.UserID), p.Name, p.Avatar, p.Score, p.IsHost, p.SessionID)
	return wrapErr(err)
}

func (s *PostgresStore) ListPlayers(ctx context.Context, roomID string) ([]PlayerRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, room_id, COALESCE(user_id, ''), name, avatar, score, is_host, session_id
		FROM players WHERE room_id = $1
	`, roomID)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var out []PlayerRecord
	for rows.Next() {
		var p PlayerRecord
		if err := rows.Scan(&p.ID, &p.RoomID, &p.UserID, &p.Name, &p.Avatar, &p.Score, &p.IsHost, &p.SessionID); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, p)
	}
	return out, wrapErr(rows.Err())
}

func (s *PostgresStore) DeletePlayer(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	return wrapErr(err)
}

func (s *PostgresStore) DeletePlayersByRoom(ctx context.Context, roomID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM players WHERE room_id = $1`, roomID)
	return wrapErr(err)
}

func (s *PostgresStore) IncrementProfileStats(ctx context.Context, userID string, scoreDelta int, won bool) error {
	if userID == "" {
		return nil
	}
	wonDelta := 0
	if won {
		wonDelta = 1
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, games_played, games_won, total_score)
		VALUES ($1, 1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			games_played = profiles.games_played + 1,
			games_won = profiles.games_won + $2,
			total_score = profiles.total_score + $3
	`, userID, wonDelta, scoreDelta)
	return wrapErr(err)
}

func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, games_played, games_won, total_score FROM profiles WHERE user_id = $1
	`, userID)

	var p domain.Profile
	err := row.Scan(&p.UserID, &p.GamesPlayed, &p.GamesWon, &p.TotalScore)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, wrapErr(err)
	}
	return p, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRoom(row scannable) (RoomRecord, error) {
	var r RoomRecord
	var drawSeconds int
	err := row.Scan(&r.ID, &r.Code, &r.HostID, &r.IsPrivate, &r.MaxPlayers, &drawSeconds,
		&r.MaxRounds, &r.Theme, &r.Phase, &r.PlayerCount, &r.LastActivity, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RoomRecord{}, domain.ErrNotFound
		}
		return RoomRecord{}, wrapErr(err)
	}
	r.DrawTime = time.Duration(drawSeconds) * time.Second
	return r, nil
}

func scanRooms(rows pgx.Rows) ([]RoomRecord, error) {
	var out []RoomRecord
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, wrapErr(rows.Err())
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// wrapErr folds any unexpected database error into domain.ErrTransient:
// the caller logs it and retries on the next state change, it never
// reaches the client directly.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %w", domain.ErrTransient, err)
}
