package handlers

import (
	"board-service/internal/ws"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestGetMetricsReportsCounters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := ws.NewHub(nil, nil, time.Hour, 100)
	engine := gin.New()
	engine.GET("/metrics", NewStatusHandler(hub).GetMetrics)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal body: %v", err)
	}
	for _, key := range []string{"flushes", "messagesBatched", "framesSent", "clients", "rooms"} {
		if _, ok := body[key]; !ok {
			t.Errorf("Expected %s in response", key)
		}
	}
}
