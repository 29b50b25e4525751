package game

import "github.com/gin-gonic/gin"

// RegisterRoute wires the single websocket endpoint onto the shared
// gin.Engine. Health checks and auth routes are out of scope here.
func RegisterRoute(engine *gin.Engine, handler *Handler) {
	engine.GET("/ws", handler.Connect)
}
