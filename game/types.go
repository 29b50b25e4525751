// Package game is the room engine: the per-room state machine, its
// timer set, guess arbitration, membership/host-transfer rules, and
// the broadcast/snapshot policy of the room engine. It also carries the
// registry, housekeeper, and transport adapter that sit around the
// engine, keeping Room, Player, Lobby, and the websocket glue together
// in one package.
package game

import (
	"time"

	"golang.org/x/time/rate"
)

// Phase is the room's position in the state machine.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseChoosing Phase = "choosing"
	PhaseDrawing  Phase = "drawing"
	PhaseRoundEnd Phase = "roundEnd"
	PhaseGameEnd  Phase = "gameEnd"
)

// Settings are the host-configurable, validated room parameters.
type Settings struct {
	MaxPlayers int
	DrawTime   time.Duration
	MaxRounds  int
	Theme      string
	IsPrivate  bool
}

// Player is a room member.
type Player struct {
	ID             string
	SessionID      string
	Name           string
	Avatar         string
	Score          int
	IsHost         bool
	IsDrawing      bool
	HasGuessed     bool
	OptionalUserID string

	conn      Sender
	connected bool

	// limiter throttles chat spam from this player. Drawing
	// data is deliberately exempt: stroke volume is expected and
	// bounded by the room's inbox, not by a per-event budget.
	limiter *rate.Limiter
}

// ChatMessage is one line of the bounded chat ring.
type ChatMessage struct {
	ID         string
	PlayerID   string
	PlayerName string
	Text       string
	Timestamp  time.Time
	IsGuess    bool
	IsClose    bool
}

// Sender is the capability a connected Player's session exposes to
// the room engine: deliver one outbound event, or close the socket.
// Kept as an interface (rather than a concrete websocket type) so the
// engine is transport-agnostic and trivially mockable in tests,
// decoupling room.go from gorilla/websocket.
type Sender interface {
	Send(event string, payload any)
	Close(reason string)
}
