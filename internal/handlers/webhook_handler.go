package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tech4-systems/webhook-receiver/internal/httputil"
	"github.com/tech4-systems/webhook-receiver/internal/logging"
	"github.com/tech4-systems/webhook-receiver/internal/models"
	"github.com/tech4-systems/webhook-receiver/internal/service"
	"github.com/tech4-systems/webhook-receiver/internal/store"
)

// WebhookHandler exposes the ingestion and query surface over HTTP.
type WebhookHandler struct {
	service      *service.WebhookService
	logger       *logging.Logger
	maxBodyBytes int64
}

func NewWebhookHandler(svc *service.WebhookService, logger *logging.Logger, maxBodyBytes int64) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		service:      svc,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// Ingest handles POST on the webhook path.
func (h *WebhookHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	if len(raw) == 0 {
		httputil.WriteError(w, http.StatusBadRequest, "empty request body")
		return
	}

	resp, err := h.service.Ingest(r.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPayload):
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidEnvelope):
			httputil.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.ErrorContext(r.Context(), "ingestion failed", logging.Error(err))
			httputil.WriteError(w, http.StatusServiceUnavailable, "storage backend unavailable")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// LatestMessage returns the last payload received for a 'to' key, verbatim.
func (h *WebhookHandler) LatestMessage(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	record, err := h.service.LatestMessage(r.Context(), key)
	if err != nil {
		h.writeLookupError(w, r, err, "No payload found for this 'to'")
		return
	}
	httputil.WriteRaw(w, http.StatusOK, record.Payload)
}

// MessageHistory returns the retained payload sequence for a 'to' key,
// oldest to newest.
func (h *WebhookHandler) MessageHistory(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	records, err := h.service.MessageHistory(r.Context(), key)
	if err != nil {
		h.writeLookupError(w, r, err, "No history found for this 'to'")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.HistoryResponse{
		Count:   len(records),
		Records: records,
	})
}

// DeleteMessage removes all state for a 'to' key.
func (h *WebhookHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	deleted, err := h.service.DeleteMessage(r.Context(), key)
	if err != nil {
		h.writeLookupError(w, r, err, "")
		return
	}
	if !deleted {
		httputil.WriteError(w, http.StatusNotFound, "'to' not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.DeleteResponse{
		Status:  models.StatusDeleted,
		Backend: h.service.Backend(),
		To:      key,
	})
}

// LatestSession returns the most recent stored record for a serviceId.
func (h *WebhookHandler) LatestSession(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	record, err := h.service.LatestSession(r.Context(), key)
	if err != nil {
		h.writeLookupError(w, r, err, "No messages found for this serviceId")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// SessionHistory returns the retained record sequence for a serviceId,
// oldest to newest.
func (h *WebhookHandler) SessionHistory(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	records, err := h.service.SessionHistory(r.Context(), key)
	if err != nil {
		h.writeLookupError(w, r, err, "No history found for this serviceId")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.HistoryResponse{
		Count:   len(records),
		Records: records,
	})
}

// DeleteSession removes all state for a serviceId.
func (h *WebhookHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	deleted, err := h.service.DeleteSession(r.Context(), key)
	if err != nil {
		h.writeLookupError(w, r, err, "")
		return
	}
	if !deleted {
		httputil.WriteError(w, http.StatusNotFound, "serviceId not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.DeleteResponse{
		Status:    models.StatusDeleted,
		Backend:   h.service.Backend(),
		ServiceID: key,
	})
}

// ListSessions enumerates resident session keys (in-memory backend only).
func (h *WebhookHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	keys, err := h.service.ListSessions(r.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrNotSupported) {
			httputil.WriteError(w, http.StatusNotImplemented, "session listing requires the in-memory backend")
			return
		}
		h.logger.ErrorContext(r.Context(), "session listing failed", logging.Error(err))
		httputil.WriteError(w, http.StatusServiceUnavailable, "storage backend unavailable")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.SessionList{
		Count:      len(keys),
		ServiceIDs: keys,
	})
}

// Health reports the liveness snapshot.
func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Health(r.Context()))
}

// Home is the service banner with the endpoint map.
func (h *WebhookHandler) Home(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"service": "webhook-receiver",
		"now_utc": time.Now().UTC().Format(time.RFC3339Nano),
		"endpoints": map[string]string{
			"POST {webhook path}":             "Ingest one payload",
			"GET  /messages/{key}/latest":     "Latest payload for 'to' key",
			"GET  /messages/{key}/history":    "Retained payload history for 'to' key",
			"DELETE /messages/{key}":          "Remove state for 'to' key",
			"GET  /sessions/{key}/latest":     "Latest record for serviceId",
			"GET  /sessions/{key}/history":    "Retained record history for serviceId",
			"DELETE /sessions/{key}":          "Remove state for serviceId",
			"GET  /sessions":                  "List resident session keys (memory backend)",
			"GET  /health":                    "Healthcheck",
			"GET  /metrics":                   "Prometheus metrics",
		},
	})
}

func (h *WebhookHandler) writeLookupError(w http.ResponseWriter, r *http.Request, err error, notFoundDetail string) {
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, notFoundDetail)
		return
	}
	h.logger.ErrorContext(r.Context(), "store lookup failed", logging.Error(err))
	httputil.WriteError(w, http.StatusServiceUnavailable, "storage backend unavailable")
}
