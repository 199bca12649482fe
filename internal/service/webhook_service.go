package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tech4-systems/webhook-receiver/internal/correlate"
	"github.com/tech4-systems/webhook-receiver/internal/logging"
	"github.com/tech4-systems/webhook-receiver/internal/metrics"
	"github.com/tech4-systems/webhook-receiver/internal/models"
	"github.com/tech4-systems/webhook-receiver/internal/store"
	"github.com/tech4-systems/webhook-receiver/internal/validator"
)

// Mode selects the ingestion pipeline variant.
type Mode string

const (
	// ModeOpen accepts any JSON payload and correlates by the "to" field.
	ModeOpen Mode = "open"
	// ModeCloudEvents requires the fixed envelope shape and applies the
	// idempotency gate before storing.
	ModeCloudEvents Mode = "cloudevents"
)

// Shape selects the persistence shape for webhook writes.
type Shape string

const (
	ShapeLatest  Shape = "latest"
	ShapeHistory Shape = "history"
)

// Keyspace prefixes separating the two query surfaces in the store.
const (
	keyspaceMessages = "to:"
	keyspaceSessions = "session:"
)

var (
	// ErrInvalidPayload marks input that is not parseable JSON.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrInvalidEnvelope marks structured input that does not match the
	// required CloudEvents envelope shape.
	ErrInvalidEnvelope = errors.New("invalid event envelope")
	// ErrNotSupported marks operations the configured backend cannot serve.
	ErrNotSupported = errors.New("operation not supported by backend")
)

// Options configures the ingestion pipeline.
type Options struct {
	Mode       Mode
	Shape      Shape
	TTL        time.Duration
	MaxHistory int64
}

// WebhookService orchestrates key derivation, the idempotency gate and the
// event store for inbound payloads, and serves the query surface.
type WebhookService struct {
	store  store.Store
	opts   Options
	logger *logging.Logger
	now    func() time.Time
}

func New(st store.Store, opts Options, logger *logging.Logger) *WebhookService {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookService{
		store:  st,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// TTLSeconds exposes the configured record TTL for health and responses.
func (s *WebhookService) TTLSeconds() int {
	return int(s.opts.TTL / time.Second)
}

// Backend reports the storage backend name.
func (s *WebhookService) Backend() string {
	return s.store.Name()
}

// Ingest processes one inbound payload according to the configured mode.
// Domain outcomes (stored, ignored) are values; only backend failures and
// shape violations surface as errors.
func (s *WebhookService) Ingest(ctx context.Context, raw []byte) (*models.IngestResponse, error) {
	switch s.opts.Mode {
	case ModeCloudEvents:
		return s.ingestCloudEvent(ctx, raw)
	default:
		return s.ingestOpen(ctx, raw)
	}
}

func (s *WebhookService) ingestOpen(ctx context.Context, raw []byte) (*models.IngestResponse, error) {
	obj, canonical, err := correlate.Normalize(raw)
	if err != nil {
		metrics.EventsTotal.WithLabelValues(string(ModeOpen), "rejected").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	key := correlate.Key(obj)
	record := &models.StoredRecord{
		Key:        key,
		ReceivedAt: s.now().UTC(),
		Payload:    canonical,
	}

	if err := s.write(ctx, keyspaceMessages+key, record); err != nil {
		metrics.EventsTotal.WithLabelValues(string(ModeOpen), "error").Inc()
		return nil, err
	}

	metrics.EventsTotal.WithLabelValues(string(ModeOpen), models.StatusStored).Inc()
	s.logger.InfoContext(ctx, "payload stored", logging.Key(key))

	return &models.IngestResponse{
		Status:     models.StatusStored,
		To:         key,
		TTLSeconds: s.TTLSeconds(),
	}, nil
}

func (s *WebhookService) ingestCloudEvent(ctx context.Context, raw []byte) (*models.IngestResponse, error) {
	var event models.CloudEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		metrics.EventsTotal.WithLabelValues(string(ModeCloudEvents), "rejected").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if err := validator.Envelope(&event); err != nil {
		metrics.EventsTotal.WithLabelValues(string(ModeCloudEvents), "rejected").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}

	if event.Type != models.EventTypeConversationMessage {
		return s.ignore(ctx, event.ID, models.ReasonUnsupportedType), nil
	}

	seen, err := s.store.SeenEvent(ctx, event.ID)
	if err != nil {
		metrics.StoreErrors.Inc()
		return nil, err
	}
	if seen {
		return s.ignore(ctx, event.ID, models.ReasonDuplicateEvent), nil
	}

	// Mark before the data.type check and the store write. A concurrent
	// duplicate delivered before the mark commits can still double-store;
	// that race window is accepted (there is no cross-key transaction).
	if err := s.store.MarkEvent(ctx, event.ID, s.opts.TTL); err != nil {
		metrics.StoreErrors.Inc()
		return nil, err
	}

	if event.Data.Type != models.MessageTypeText {
		return s.ignore(ctx, event.ID, models.ReasonUnsupportedDataType), nil
	}

	key := event.Data.ServiceID
	if key == "" {
		key = correlate.Sentinel
	}

	record := &models.StoredRecord{
		Key:        key,
		ReceivedAt: s.now().UTC(),
		Payload:    raw,
		EventID:    event.ID,
		MessageID:  event.Data.ID,
		Text:       event.Data.Text,
		SentBy:     event.Data.By,
		CreatedAt:  event.Data.CreatedAt,
		SentAt:     event.Data.SentAt,
		ServiceID:  event.Data.ServiceID,
	}

	if err := s.write(ctx, keyspaceSessions+key, record); err != nil {
		metrics.EventsTotal.WithLabelValues(string(ModeCloudEvents), "error").Inc()
		return nil, err
	}

	metrics.EventsTotal.WithLabelValues(string(ModeCloudEvents), models.StatusOK).Inc()
	s.logger.InfoContext(ctx, "event stored",
		logging.Key(key), logging.EventID(event.ID))

	return &models.IngestResponse{
		Status:     models.StatusOK,
		ServiceID:  key,
		TTLSeconds: s.TTLSeconds(),
	}, nil
}

func (s *WebhookService) ignore(ctx context.Context, eventID, reason string) *models.IngestResponse {
	metrics.EventsTotal.WithLabelValues(string(ModeCloudEvents), models.StatusIgnored).Inc()
	metrics.IgnoredEventsTotal.WithLabelValues(reason).Inc()
	s.logger.InfoContext(ctx, "event ignored",
		logging.EventID(eventID), logging.Reason(reason))
	return &models.IngestResponse{
		Status: models.StatusIgnored,
		Reason: reason,
	}
}

func (s *WebhookService) write(ctx context.Context, key string, record *models.StoredRecord) error {
	start := time.Now()
	var err error
	if s.opts.Shape == ShapeHistory {
		err = s.store.Append(ctx, key, record, s.opts.TTL, s.opts.MaxHistory)
	} else {
		err = s.store.PutLatest(ctx, key, record, s.opts.TTL)
	}
	metrics.StoreDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreErrors.Inc()
	}
	return err
}

// LatestMessage returns the most recent record stored under the open
// ("to"-keyed) keyspace.
func (s *WebhookService) LatestMessage(ctx context.Context, key string) (*models.StoredRecord, error) {
	return s.store.GetLatest(ctx, keyspaceMessages+key)
}

// MessageHistory returns the retained sequence for an open-keyspace key,
// oldest to newest.
func (s *WebhookService) MessageHistory(ctx context.Context, key string) ([]*models.StoredRecord, error) {
	return s.store.GetAll(ctx, keyspaceMessages+key)
}

// DeleteMessage removes all open-keyspace state for key.
func (s *WebhookService) DeleteMessage(ctx context.Context, key string) (bool, error) {
	return s.store.Delete(ctx, keyspaceMessages+key)
}

// LatestSession returns the most recent record stored under the structured
// (serviceId-keyed) keyspace.
func (s *WebhookService) LatestSession(ctx context.Context, key string) (*models.StoredRecord, error) {
	return s.store.GetLatest(ctx, keyspaceSessions+key)
}

// SessionHistory returns the retained sequence for a session key,
// oldest to newest.
func (s *WebhookService) SessionHistory(ctx context.Context, key string) ([]*models.StoredRecord, error) {
	return s.store.GetAll(ctx, keyspaceSessions+key)
}

// DeleteSession removes all session-keyspace state for key.
func (s *WebhookService) DeleteSession(ctx context.Context, key string) (bool, error) {
	return s.store.Delete(ctx, keyspaceSessions+key)
}

// ListSessions returns resident session keys in insertion order of first
// write. Only the in-memory backend supports it; limit is clamped to
// [1, 500]. An absent limit defaults to 50 at the HTTP layer.
func (s *WebhookService) ListSessions(ctx context.Context, limit int) ([]string, error) {
	lister, ok := s.store.(store.Lister)
	if !ok {
		return nil, ErrNotSupported
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 500 {
		limit = 500
	}
	return lister.ListKeys(keyspaceSessions, limit), nil
}

// Health reports the liveness snapshot: configured TTL, backend name and
// reachability, and current server time.
func (s *WebhookService) Health(ctx context.Context) *models.HealthResponse {
	reachable := s.store.Ping(ctx) == nil
	return &models.HealthResponse{
		Status:           "up",
		NowUTC:           s.now().UTC().Format(time.RFC3339Nano),
		TTLSeconds:       s.TTLSeconds(),
		Backend:          s.store.Name(),
		BackendReachable: reachable,
	}
}
