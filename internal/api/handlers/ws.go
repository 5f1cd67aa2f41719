package handlers

import (
	"board-service/internal/ws"

	"github.com/gin-gonic/gin"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// HandleWebSocket godoc
// @Summary WebSocket connection
// @Description Establish the WebSocket connection used for all room traffic
// @Tags websocket
// @Param token query string true "JWT, raw or with Bearer prefix"
// @Success 101 "Switching Protocols - WebSocket connection established"
// @Failure 401 {object} map[string]interface{} "Unauthorized - missing or invalid token"
// @Router /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	// WSAuth already verified the token and stashed the principal
	userID := c.GetUint("user_id")
	ws.ServeWS(h.hub, c.Writer, c.Request, userID)
}
