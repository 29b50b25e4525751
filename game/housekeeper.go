package game

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/limoondev/backend-drawly/ratelimit"
)

// Housekeeper runs the periodic sweeps as a background duty separate
// from any single room's actor: dropping abandoned rooms, evicting
// stale rate-limit counters, and pruning expired kick deny-list
// entries. Scheduled with robfig/cron/v3, the way
// AbeHiroto-watermelon-server's utils/initCronjobs.go drives its own
// background sweeps instead of a bare time.Ticker.
type Housekeeper struct {
	registry    *Registry
	rateLimiter ratelimit.Store
	logger      zerolog.Logger

	emptyRoomGrace   time.Duration
	roomRetentionTTL time.Duration
	cron             *cron.Cron
}

func NewHousekeeper(registry *Registry, rateLimiter ratelimit.Store, emptyRoomGrace, roomRetentionTTL time.Duration, logger zerolog.Logger) *Housekeeper {
	return &Housekeeper{
		registry:         registry,
		rateLimiter:      rateLimiter,
		logger:           logger,
		emptyRoomGrace:   emptyRoomGrace,
		roomRetentionTTL: roomRetentionTTL,
		cron:             cron.New(),
	}
}

// Start schedules the sweep on the given cron expression and returns
// immediately; the cron library runs sweeps on its own goroutine.
func (h *Housekeeper) Start(spec string) error {
	_, err := h.cron.AddFunc(spec, h.sweep)
	if err != nil {
		return err
	}
	h.cron.Start()
	return nil
}

func (h *Housekeeper) Stop() {
	h.cron.Stop()
}

func (h *Housekeeper) sweep() {
	now := time.Now()

	for _, room := range h.registry.Rooms() {
		room.enqueue(func() {
			room.pruneExpiredBans(now)
			if room.hasNoConnectedPlayers() && now.Sub(room.lastActivity) > h.emptyRoomGrace {
				room.logger.Info().Msg("housekeeper evicting abandoned room")
				if room.onDestroy != nil {
					room.onDestroy(room.id)
				}
			}
		})
	}

	if h.rateLimiter != nil {
		h.rateLimiter.Evict(context.Background(), now)
	}

	if err := h.registry.EvictStaleRooms(context.Background(), now.Add(-h.roomRetentionTTL)); err != nil {
		h.logger.Warn().Err(err).Msg("evict stale rooms from store failed")
	}
}

// pruneExpiredBans drops kick-denylist entries whose TTL has lapsed,
// so the map doesn't grow unbounded over a long-lived room.
func (r *Room) pruneExpiredBans(now time.Time) {
	for id, until := range r.kickDenylist {
		if now.After(until) {
			delete(r.kickDenylist, id)
		}
	}
}
