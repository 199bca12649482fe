// Package store provides the keyed persistence layer for webhook payloads.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/tech4-systems/webhook-receiver/internal/models"
)

var (
	// ErrNotFound signals that a key has no live record: never stored,
	// expired, or deleted. It is an expected outcome, not a failure.
	ErrNotFound = errors.New("record not found")
)

// Store is the keyed persistence abstraction. Keys arrive already carrying
// their keyspace prefix (for example "to:5511999999999" or "session:svc1");
// implementations add their own namespace on top.
type Store interface {
	// PutLatest overwrites the single record held for key and resets its TTL.
	PutLatest(ctx context.Context, key string, record *models.StoredRecord, ttl time.Duration) error

	// Append adds a record at the tail of the history for key, resets the
	// TTL on the whole sequence, and trims the sequence to the most recent
	// max entries (oldest evicted first).
	Append(ctx context.Context, key string, record *models.StoredRecord, ttl time.Duration, max int64) error

	// GetLatest returns the most recent record for key, whichever shape it
	// was written with. Returns ErrNotFound for unknown or expired keys.
	GetLatest(ctx context.Context, key string) (*models.StoredRecord, error)

	// GetAll returns the retained history for key, oldest to newest.
	// Returns ErrNotFound when no history exists.
	GetAll(ctx context.Context, key string) ([]*models.StoredRecord, error)

	// Delete removes all state for key and reports whether anything existed.
	Delete(ctx context.Context, key string) (bool, error)

	// MarkEvent records an idempotency mark for an event id with its own TTL.
	MarkEvent(ctx context.Context, eventID string, ttl time.Duration) error

	// SeenEvent reports whether an idempotency mark for the event id is live.
	SeenEvent(ctx context.Context, eventID string) (bool, error)

	// Ping reports backend reachability.
	Ping(ctx context.Context) error

	// Name identifies the backend ("redis" or "memory").
	Name() string

	Close() error
}

// Lister is implemented by backends that can enumerate resident keys.
// Only the in-memory backend supports it; a TTL key-value backend has no
// cheap ordered key scan.
type Lister interface {
	// ListKeys returns up to limit keys under the given keyspace prefix,
	// prefix stripped, in insertion order of first write.
	ListKeys(prefix string, limit int) []string
}
