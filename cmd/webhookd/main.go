package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tech4-systems/webhook-receiver/internal/config"
	"github.com/tech4-systems/webhook-receiver/internal/handlers"
	"github.com/tech4-systems/webhook-receiver/internal/logging"
	"github.com/tech4-systems/webhook-receiver/internal/server"
	"github.com/tech4-systems/webhook-receiver/internal/service"
	"github.com/tech4-systems/webhook-receiver/internal/store"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("webhook-receiver"))
	logging.SetDefault(logger)

	slog.Info("Starting webhook receiver",
		slog.Int("port", cfg.Server.Port),
		slog.String("backend", cfg.Storage.Backend),
		slog.String("shape", cfg.Storage.Shape),
		slog.String("mode", cfg.Webhook.Mode),
		slog.Int("ttl_seconds", cfg.Storage.TTLSeconds),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	// Initialize the event store
	var st store.Store
	switch cfg.Storage.Backend {
	case "redis":
		redisStore, err := store.NewRedisStore(cfg.Storage.RedisURL, cfg.Storage.Namespace)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		st = redisStore
		slog.Info("Redis store initialized",
			logging.Backend(redisStore.Name()),
			slog.String("redis_url", cfg.Storage.RedisURL),
			slog.String("namespace", cfg.Storage.Namespace),
		)
	case "memory":
		st = store.NewMemoryStore()
		slog.Info("In-memory store initialized, state is lost on restart",
			logging.Backend(st.Name()))
	default:
		log.Fatalf("Unknown storage backend: %s (supported: redis, memory)", cfg.Storage.Backend)
	}
	defer st.Close()

	// Initialize the ingestion pipeline
	svc := service.New(st, service.Options{
		Mode:       service.Mode(cfg.Webhook.Mode),
		Shape:      service.Shape(cfg.Storage.Shape),
		TTL:        cfg.Storage.TTL(),
		MaxHistory: int64(cfg.Storage.MaxHistory),
	}, logger)

	// Initialize HTTP handlers
	handler := handlers.NewWebhookHandler(svc, logger, cfg.Webhook.MaxBodyBytes)
	router := server.NewRouter(handler, cfg.Webhook.Path, logger)

	// Create server with config values
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Webhook receiver listening on %s (webhook path: %s)", srv.Addr, cfg.Webhook.Path)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
