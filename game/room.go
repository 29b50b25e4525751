package game

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/limoondev/backend-drawly/words"
)

// Tunables are the process-wide, non-per-room durations and limits
// the engine is configured with.
type Tunables struct {
	MinPlayers int

	HintInterval    time.Duration
	TurnEndDelay    time.Duration
	StartCountdown  time.Duration
	AutoPickTimeout time.Duration
	EmptyRoomGrace  time.Duration
	SettleDelay     time.Duration
	KickDenylistTTL time.Duration

	ChatHistoryCap int
	MaxNameLength  int
	MaxChatLength  int
}

// PersistFunc is how the room engine asks the registry to durably
// record its current shape. It is fire-and-forget: the engine never
// blocks on the store, and a failed write is logged and retried on
// the next state change, never surfaced to a client.
type PersistFunc func(snapshot PersistedRoom)

// PersistedRoom is what the engine hands the registry to persist;
// kept separate from store.RoomRecord so this package doesn't import
// the store package directly (the registry owns that translation).
type PersistedRoom struct {
	ID, Code, HostID, Theme string
	IsPrivate                bool
	MaxPlayers, MaxRounds    int
	DrawTime                 time.Duration
	Phase                    Phase
	PlayerCount              int
	LastActivity             time.Time
	CreatedAt                time.Time
	Players                  []PersistedPlayer
}

type PersistedPlayer struct {
	ID, UserID, Name, Avatar, SessionID string
	Score                               int
	IsHost                              bool
}

// Room is the per-room state machine. All mutation happens inside
// run(), the room's single actor goroutine; every exported method
// enqueues a closure onto jobs and, where a reply is expected, blocks
// the caller on a private channel until the actor has processed it:
// one serialising task per room consuming commands and timer fires
// from a bounded inbox.
type Room struct {
	id          string
	code        string
	hostID      string
	settings    Settings
	phase       Phase
	round       int // 0-indexed; clients see round+1, range 1..MaxRounds
	turn        int
	starting    bool
	createdAt   time.Time
	lastActivity time.Time

	currentDrawerID string
	currentWord     string
	maskedWord      string
	timeLeft        int
	offeredWords    []string

	players      map[string]*Player
	drawerOrder  []string
	guessedOrder []string // arrival order of correct guessers this turn, for scoring/tie-break
	chatHistory  []ChatMessage
	kickDenylist map[string]time.Time

	timers map[string]*time.Timer

	jobs    chan func()
	stopCh  chan struct{}
	stopped bool

	tunables  Tunables
	catalogue *words.Catalogue
	logger    zerolog.Logger
	persist   PersistFunc
	onEmptied func(roomID string) // registry hook; stored but not called by the room (empty-room cleanup runs through armEmptyRoomCleanup and onDestroy)
	onDestroy func(roomID string) // registry hook: this room is gone, drop all bookkeeping
}

const (
	timerTick          = "tick"
	timerAutoPick       = "autopick"
	timerPostTurn       = "postturn"
	timerStartCountdown = "startcountdown"
	timerSettle         = "settle"
)

// NewRoom constructs a room with host as its sole member and starts
// its actor goroutine. id/code are assigned by the registry (the only
// component allowed to check cross-room uniqueness).
func NewRoom(id, code string, host *Player, settings Settings, tunables Tunables, catalogue *words.Catalogue, logger zerolog.Logger, persist PersistFunc, onEmptied, onDestroy func(roomID string)) *Room {
	now := time.Now()
	host.IsHost = true
	host.connected = host.conn != nil
	r := &Room{
		id:           id,
		code:         code,
		hostID:       host.ID,
		settings:     settings,
		phase:        PhaseLobby,
		createdAt:    now,
		lastActivity: now,
		players:      map[string]*Player{host.ID: host},
		drawerOrder:  []string{host.ID},
		kickDenylist: map[string]time.Time{},
		timers:       map[string]*time.Timer{},
		jobs:         make(chan func(), 256),
		stopCh:       make(chan struct{}),
		tunables:     tunables,
		catalogue:    catalogue,
		logger:       logger.With().Str("room_id", id).Str("room_code", code).Logger(),
		persist:      persist,
		onEmptied:    onEmptied,
		onDestroy:    onDestroy,
	}
	go r.run()
	return r
}

// run is the room's actor loop: the only goroutine that ever touches
// engine state directly.
func (r *Room) run() {
	for {
		select {
		case job, ok := <-r.jobs:
			if !ok {
				return
			}
			job()
		case <-r.stopCh:
			return
		}
	}
}

// enqueue schedules fn to run on the actor goroutine. It never blocks
// the caller past the inbox being full; a full inbox backpressures
// the transport read loop instead of the room engine itself.
func (r *Room) enqueue(fn func()) {
	select {
	case r.jobs <- fn:
	case <-r.stopCh:
	}
}

// timerFire schedules fn through the same inbox a command uses, so a
// timer fire is linearised with concurrently-arriving commands in
// arrival order.
func (r *Room) timerFire(fn func()) func() {
	return func() { r.enqueue(fn) }
}

// setTimer replaces any existing timer of the given kind (cancelling
// it first) and arms a new one. Timers are identified by kind within
// the room.
func (r *Room) setTimer(kind string, d time.Duration, fn func()) {
	r.cancelTimer(kind)
	r.timers[kind] = time.AfterFunc(d, r.timerFire(fn))
}

func (r *Room) cancelTimer(kind string) {
	if t, ok := r.timers[kind]; ok {
		t.Stop()
		delete(r.timers, kind)
	}
}

// cancelAllTimers cancels every timer the room currently owns. Used
// on destroy and, selectively, on phase transitions (transitions.go
// enumerates which kinds are illegal in each destination phase).
func (r *Room) cancelAllTimers() {
	for kind, t := range r.timers {
		t.Stop()
		delete(r.timers, kind)
	}
}

// touch marks the room active now, for the empty-room/stale-room
// retention windows.
func (r *Room) touch() {
	r.lastActivity = time.Now()
}

// shutdown stops the actor loop and cancels every timer. Called by
// the registry as part of destroy(); safe to call more than once.
func (r *Room) shutdown() {
	r.enqueue(func() {
		if r.stopped {
			return
		}
		r.cancelAllTimers()
		r.stopped = true
		close(r.stopCh)
	})
}

// Shutdown notifies every connected member the server is going away,
// then stops the room. Used for process-wide graceful shutdown, not
// by any single-room lifecycle rule.
func (r *Room) Shutdown(payload ServerShutdownPayload) {
	r.enqueue(func() {
		r.broadcast(EventServerShutdown, payload)
	})
	r.shutdown()
}

// ID and Code are read-only identifiers safe to read from any
// goroutine: they are assigned once at construction and never mutate.
func (r *Room) ID() string   { return r.id }
func (r *Room) Code() string { return r.code }

// currentPhase reads the room's phase through the actor, for callers
// outside run() (tests) that need a
// synchronised read rather than touching the field directly.
func (r *Room) currentPhase() Phase {
	out := make(chan Phase, 1)
	r.enqueue(func() { out <- r.phase })
	return <-out
}

// offeredWordsSnapshot reads the words currently offered to the
// drawer through the actor, for callers outside run().
func (r *Room) offeredWordsSnapshot() []string {
	out := make(chan []string, 1)
	r.enqueue(func() {
		words := make([]string, len(r.offeredWords))
		copy(words, r.offeredWords)
		out <- words
	})
	return <-out
}

// roomSyncSnapshot reads the full room:sync payload through the
// actor, for the same reason currentPhase exists.
func (r *Room) roomSyncSnapshot() RoomSyncPayload {
	out := make(chan RoomSyncPayload, 1)
	r.enqueue(func() { out <- r.buildSnapshot() })
	return <-out
}

// playerSnapshotFor reads one player's public state through the
// actor, for the same reason currentPhase exists.
func (r *Room) playerSnapshotFor(playerID string) (PlayerSnapshot, bool) {
	type result struct {
		snap PlayerSnapshot
		ok   bool
	}
	out := make(chan result, 1)
	r.enqueue(func() {
		p, ok := r.players[playerID]
		if !ok {
			out <- result{}
			return
		}
		out <- result{PlayerSnapshot{
			ID: p.ID, Name: p.Name, Score: p.Score, IsHost: p.IsHost,
			IsDrawing: p.IsDrawing, HasGuessed: p.HasGuessed, Avatar: p.Avatar,
			IsConnected: p.connected,
		}, true}
	})
	res := <-out
	return res.snap, res.ok
}
