package game

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/limoondev/backend-drawly/identity"
	"github.com/limoondev/backend-drawly/idgen"
	"github.com/limoondev/backend-drawly/ratelimit"
)

// Session is the per-connection glue between one websocket and the
// room it joins: it decodes inbound envelopes, enforces the
// per-remote-address rate limit, gives each player its chat limiter,
// and routes each event to the right Room method. There is
// no separate player actor goroutine; the room's own actor already
// serialises everything a session can ask of it.

// RoomDefaults seeds a freshly created room's settings before any
// host-supplied override is applied "Default settings".
type RoomDefaults struct {
	MaxPlayers int
	DrawTime   time.Duration
	MaxRounds  int
	Theme      string

	ChatRateLimitPerSec float64
	ChatRateLimitBurst  int
}

type Session struct {
	conn   *websocket.Conn
	sender *socketSender

	registry     *Registry
	rateLimiter  ratelimit.Store
	roomDefaults RoomDefaults
	resolver     identity.Resolver
	authToken    string
	logger       zerolog.Logger

	room       *Room
	playerID   string
	remoteAddr string
}

func NewSession(conn *websocket.Conn, remoteAddr string, registry *Registry, rateLimiter ratelimit.Store, roomDefaults RoomDefaults, resolver identity.Resolver, authToken string, logger zerolog.Logger) *Session {
	return &Session{
		conn:         conn,
		sender:       newSocketSender(logger),
		registry:     registry,
		rateLimiter:  rateLimiter,
		roomDefaults: roomDefaults,
		resolver:     resolver,
		authToken:    authToken,
		logger:       logger,
		remoteAddr:   remoteAddr,
	}
}

// newChatLimiter builds the per-player chat limiter from the room's
// configured rate, falling back to 1 event/sec with a burst of 5 when
// left at its zero value (e.g. in tests that don't set RoomDefaults).
func (s *Session) newChatLimiter() *rate.Limiter {
	r := rate.Limit(s.roomDefaults.ChatRateLimitPerSec)
	b := s.roomDefaults.ChatRateLimitBurst
	if r <= 0 {
		r = 1
	}
	if b <= 0 {
		b = 5
	}
	return rate.NewLimiter(r, b)
}

func (s *Session) resolveUserID() string {
	if s.resolver == nil || s.authToken == "" {
		return ""
	}
	userID, err := s.resolver.ResolveUserID(s.authToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("auth token rejected, continuing as guest")
		return ""
	}
	return userID
}

// Serve blocks for the lifetime of the connection: it starts the write
// pump and reads inbound frames until the socket closes or ctx is
// cancelled.
func (s *Session) Serve(ctx context.Context) {
	go s.sender.writePump(s.conn)
	defer s.sender.Close("eof")
	defer s.detach()

	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var env envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			return
		}

		if !s.allow(env.Event) {
			s.sender.Send(EventError, ErrorPayload{Error: ErrInvalidInput.Error()})
			continue
		}

		s.dispatch(ctx, env)
	}
}

func (s *Session) allow(event string) bool {
	if s.rateLimiter == nil {
		return true
	}
	ok, err := s.rateLimiter.Allow(context.Background(), s.remoteAddr, 20, time.Second)
	if err != nil {
		s.logger.Warn().Err(err).Msg("rate limiter error, allowing by default")
		return true
	}
	return ok
}

func (s *Session) detach() {
	if s.room != nil && s.playerID != "" {
		s.room.Disconnect(s.playerID)
	}
}

func (s *Session) dispatch(ctx context.Context, env envelope) {
	switch env.Event {
	case EventRoomCreate:
		s.handleCreate(env.Payload)
	case EventRoomJoin:
		s.handleJoin(ctx, env.Payload)
	default:
		s.dispatchToRoom(env)
	}
}

func (s *Session) dispatchToRoom(env envelope) {
	if s.room == nil || s.playerID == "" {
		s.sender.Send(EventError, ErrorPayload{Error: ErrNotMember.Error()})
		return
	}

	var err error
	switch env.Event {
	case EventRoomLeave:
		s.room.Leave(s.playerID)
	case EventRoomSettings:
		var p RoomSettingsPayload
		if jsonErr := json.Unmarshal(env.Payload, &p); jsonErr != nil {
			err = ErrInvalidInput
			break
		}
		err = s.room.UpdateSettings(s.playerID, p)
	case EventGameStart:
		err = s.room.StartGame(s.playerID)
	case EventSelectWord:
		var p SelectWordPayload
		if jsonErr := json.Unmarshal(env.Payload, &p); jsonErr != nil {
			err = ErrInvalidInput
			break
		}
		err = s.room.SelectWord(s.playerID, p.Word)
	case EventPlayAgain:
		err = s.room.PlayAgain(s.playerID)
	case EventChatMessage:
		var p ChatMessagePayload
		if jsonErr := json.Unmarshal(env.Payload, &p); jsonErr != nil {
			err = ErrInvalidInput
			break
		}
		err = s.room.Chat(s.playerID, p.Message)
	case EventDrawStroke:
		err = s.room.Stroke(s.playerID, rawPayload(env.Payload))
	case EventDrawClear:
		err = s.room.Clear(s.playerID, rawPayload(env.Payload))
	case EventDrawUndo:
		err = s.room.Undo(s.playerID, rawPayload(env.Payload))
	case EventPlayerKick:
		var p KickPayload
		if jsonErr := json.Unmarshal(env.Payload, &p); jsonErr != nil {
			err = ErrInvalidInput
			break
		}
		err = s.room.Kick(s.playerID, p.PlayerID)
	default:
		err = ErrInvalidInput
	}

	if err != nil {
		s.sender.Send(EventError, ErrorPayload{Error: err.Error(), Event: env.Event})
	}
}

func rawPayload(raw json.RawMessage) any {
	var v any
	_ = json.Unmarshal(raw, &v)
	return v
}

func (s *Session) handleCreate(raw json.RawMessage) {
	var p CreateRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		s.sender.Send(EventError, ErrorPayload{Error: ErrInvalidInput.Error()})
		return
	}

	settings := defaultSettings(s.roomDefaults)
	applySettingsInput(&settings, p.Settings)

	host := &Player{
		ID:             idgen.NewID(),
		Name:           p.PlayerName,
		OptionalUserID: s.resolveUserID(),
		conn:           s.sender,
		limiter:        s.newChatLimiter(),
	}
	if p.Settings.Avatar != nil {
		host.Avatar = *p.Settings.Avatar
	}

	room, err := s.registry.CreateRoom(host, settings)
	if err != nil {
		s.sender.Send(EventError, ErrorPayload{Error: err.Error()})
		return
	}

	s.room = room
	s.playerID = host.ID
	s.sender.Send(EventRoomCreated, RoomCreatedPayload{
		Success:  true,
		RoomCode: room.Code(),
		RoomID:   room.ID(),
		PlayerID: host.ID,
	})
	s.sender.Send(EventRoomSync, room.buildSnapshot())
}

func (s *Session) handleJoin(ctx context.Context, raw json.RawMessage) {
	var p JoinRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		s.sender.Send(EventError, ErrorPayload{Error: ErrInvalidInput.Error()})
		return
	}

	room, err := s.registry.LookupByCode(ctx, p.RoomCode)
	if err != nil {
		s.sender.Send(EventError, ErrorPayload{Error: ErrRoomNotFound.Error()})
		return
	}

	playerID := idgen.NewID()
	if p.PlayerID != nil && *p.PlayerID != "" {
		playerID = *p.PlayerID
	}
	userID := s.resolveUserID()

	if s.resolver != nil && !s.resolver.CanJoin(ctx, room.ID(), userID, s.remoteAddr) {
		s.sender.Send(EventError, ErrorPayload{Error: ErrBanned.Error()})
		return
	}

	player := &Player{
		ID:             playerID,
		Name:           p.PlayerName,
		OptionalUserID: userID,
		conn:           s.sender,
		limiter:        s.newChatLimiter(),
	}
	if p.Avatar != nil {
		player.Avatar = *p.Avatar
	}

	res, err := room.Join(player)
	if err != nil {
		s.sender.Send(EventError, ErrorPayload{Error: err.Error()})
		return
	}

	s.room = room
	s.playerID = res.PlayerID

	messages := make([]ChatMessageEvent, len(res.Chat))
	for i, m := range res.Chat {
		messages[i] = toChatEvent(m)
	}
	s.sender.Send(EventRoomJoined, RoomJoinedPayload{
		Success:  true,
		RoomCode: room.Code(),
		RoomID:   room.ID(),
		PlayerID: res.PlayerID,
		Messages: messages,
	})
}

func defaultSettings(d RoomDefaults) Settings {
	return Settings{
		MaxPlayers: d.MaxPlayers,
		DrawTime:   d.DrawTime,
		MaxRounds:  d.MaxRounds,
		Theme:      d.Theme,
	}
}

func applySettingsInput(s *Settings, in SettingsInput) {
	if in.DrawTime != nil {
		s.DrawTime = time.Duration(*in.DrawTime) * time.Second
	}
	if in.Rounds != nil {
		s.MaxRounds = *in.Rounds
	}
	if in.MaxPlayers != nil {
		s.MaxPlayers = *in.MaxPlayers
	}
	if in.Theme != nil {
		s.Theme = *in.Theme
	}
	if in.IsPrivate != nil {
		s.IsPrivate = *in.IsPrivate
	}
}
