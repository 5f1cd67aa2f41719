package main

// @title           Board Sync Service API
// @version         1.0
// @description     Real-time sync fan-out for collaborative boards
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https

import (
	"board-service/internal/adapters/kafka"
	"board-service/internal/api/routes"
	"board-service/internal/config"
	"board-service/internal/database"
	"board-service/internal/repositories/mysql"
	"board-service/internal/ws"
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting board sync server")

	// Initialize MySQL connection unless persistence is bypassed
	var store ws.Store
	if cfg.Sync.PersistenceBypass {
		slog.Warn("Persistence bypass enabled, room events will not be stored")
	} else {
		db, err := database.NewMySQLConnection(
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.DBName,
		)
		if err != nil {
			slog.Error("Failed to connect to MySQL", "error", err)
			os.Exit(1)
		}
		store = mysql.NewRoomEventRepository(db)
	}

	// Mirror flushed batches to Kafka when brokers are configured
	var sink ws.EventSink
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafka.NewBatchPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
		sink = publisher
		slog.Info("Kafka batch mirror enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	// Initialize WebSocket hub and its flush loop
	hub := ws.NewHub(store, sink, cfg.Sync.FlushInterval, cfg.Sync.MaxBatchSize)
	go hub.Run()

	// Initialize router
	router := routes.NewRouter(hub, cfg.JWT.Secret)
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop WebSocket hub
	hub.Stop()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
