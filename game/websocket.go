package game

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// envelope is the wire shape every event travels in: one
// event name, one JSON payload, adapted from a framed
// binary/protobuf socket (no .proto definitions exist anywhere in
// this project's lineage) to a JSON text frame per connection.
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// socketSender is the Sender the engine talks to: a thin, mutex-free
// wrapper around one gorilla/websocket connection whose actual writes
// are serialised by being funneled through a single writePump
// goroutine per connection (websocket.Conn forbids concurrent writers).
type socketSender struct {
	out    chan envelope
	closed chan struct{}
	logger zerolog.Logger
}

func newSocketSender(logger zerolog.Logger) *socketSender {
	return &socketSender{
		out:    make(chan envelope, 64),
		closed: make(chan struct{}),
		logger: logger,
	}
}

func (s *socketSender) Send(event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error().Err(err).Str("event", event).Msg("marshal outbound payload failed")
		return
	}
	select {
	case s.out <- envelope{Event: event, Payload: raw}:
	case <-s.closed:
	default:
		// Outbound buffer full: this connection is the slow one, drop
		// rather than block the room actor that called Send.
		s.logger.Warn().Str("event", event).Msg("outbound buffer full, dropping event")
	}
}

func (s *socketSender) Close(reason string) {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
}

// writePump owns all writes to conn: gorilla/websocket connections are
// not safe for concurrent writers, so every Send, however many actor
// goroutines call it, funnels through this one goroutine per
// connection instead of writing directly.
func (s *socketSender) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case env, ok := <-s.out:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.closed:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closed"))
			return
		}
	}
}
