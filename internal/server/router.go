package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tech4-systems/webhook-receiver/internal/handlers"
	"github.com/tech4-systems/webhook-receiver/internal/logging"
	"github.com/tech4-systems/webhook-receiver/internal/middleware"
)

// NewRouter constructs a ServeMux with the webhook API routes registered.
// webhookPath is the POST endpoint for inbound payloads.
func NewRouter(h *handlers.WebhookHandler, webhookPath string, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /health", h.Health)

	// Ingestion
	mux.HandleFunc("POST "+webhookPath, h.Ingest)

	// Open ('to'-keyed) query surface
	mux.HandleFunc("GET /messages/{key}/latest", h.LatestMessage)
	mux.HandleFunc("GET /messages/{key}/history", h.MessageHistory)
	mux.HandleFunc("DELETE /messages/{key}", h.DeleteMessage)

	// Structured (serviceId-keyed) query surface
	mux.HandleFunc("GET /sessions", h.ListSessions)
	mux.HandleFunc("GET /sessions/{key}/latest", h.LatestSession)
	mux.HandleFunc("GET /sessions/{key}/history", h.SessionHistory)
	mux.HandleFunc("DELETE /sessions/{key}", h.DeleteSession)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.RequestID(requestLog(logger, mux))
}
