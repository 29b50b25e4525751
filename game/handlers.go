package game

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/limoondev/backend-drawly/identity"
	"github.com/limoondev/backend-drawly/ratelimit"
)

// Handler owns the single websocket-upgrade endpoint this service
// exposes. Room creation and joining live as game events exchanged
// over the socket, not separate REST routes, so this handler's only
// job is the upgrade.
type Handler struct {
	registry     *Registry
	rateLimiter  ratelimit.Store
	roomDefaults RoomDefaults
	resolver     identity.Resolver
	logger       zerolog.Logger
	upgrader     websocket.Upgrader
}

func NewHandler(registry *Registry, rateLimiter ratelimit.Store, roomDefaults RoomDefaults, resolver identity.Resolver, logger zerolog.Logger) *Handler {
	return &Handler{
		registry:     registry,
		rateLimiter:  rateLimiter,
		roomDefaults: roomDefaults,
		resolver:     resolver,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Connect upgrades the request and hands the resulting socket to a
// fresh Session, blocking until the session ends.
func (h *Handler) Connect(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	token := ctx.Query("token")
	session := NewSession(conn, ctx.ClientIP(), h.registry, h.rateLimiter, h.roomDefaults, h.resolver, token, h.logger)
	session.Serve(ctx.Request.Context())
}
