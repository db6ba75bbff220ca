package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"checkers-server/internal/api/ws"
)

func NewRouter(hub *ws.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Realtime protocol endpoint
	r.GET("/ws", hub.HandleWS)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
