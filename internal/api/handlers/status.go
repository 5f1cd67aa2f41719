package handlers

import (
	"board-service/internal/ws"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusHandler exposes flush and delivery counters for operators.
type StatusHandler struct {
	hub *ws.Hub
}

func NewStatusHandler(hub *ws.Hub) *StatusHandler {
	return &StatusHandler{hub: hub}
}

// GetMetrics godoc
// @Summary Delivery counters
// @Description Monotonic flush, batch and frame counters plus live connection counts
// @Tags status
// @Produce json
// @Success 200 {object} map[string]interface{} "Current counter values"
// @Router /metrics [get]
func (h *StatusHandler) GetMetrics(c *gin.Context) {
	snapshot := h.hub.MetricsSnapshot()
	c.JSON(http.StatusOK, gin.H{
		"flushes":         snapshot.Flushes,
		"messagesBatched": snapshot.MessagesBatched,
		"framesSent":      snapshot.FramesSent,
		"clients":         h.hub.ClientCount(),
		"rooms":           h.hub.RoomCount(),
	})
}
