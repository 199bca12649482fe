package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tech4-systems/webhook-receiver/internal/models"
)

type memoryEntry struct {
	records   []*models.StoredRecord
	history   bool
	expiresAt time.Time
}

// MemoryStore is the in-process backend for tests and no-durability
// deployments. TTL is enforced lazily on read against an injectable clock,
// so expiry is testable without real sleeps. Keys keep the insertion order
// of their first write so resident keys can be listed.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	order   []string
	marks   map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		marks:   make(map[string]time.Time),
		now:     time.Now,
	}
}

// SetClock replaces the time source. Tests only.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) PutLatest(ctx context.Context, key string, record *models.StoredRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = &memoryEntry{
		records:   []*models.StoredRecord{record},
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Append(ctx context.Context, key string, record *models.StoredRecord, ttl time.Duration, max int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if exists && s.now().After(entry.expiresAt) {
		exists = false
	}
	if !exists {
		if _, tracked := s.entries[key]; !tracked {
			s.order = append(s.order, key)
		}
		entry = &memoryEntry{history: true}
		s.entries[key] = entry
	}

	entry.history = true
	entry.records = append(entry.records, record)
	if max > 0 && int64(len(entry.records)) > max {
		entry.records = entry.records[int64(len(entry.records))-max:]
	}
	entry.expiresAt = s.now().Add(ttl)
	return nil
}

// live returns the entry for key if it exists and has not expired.
// Expired entries are removed on sight.
func (s *MemoryStore) live(key string) (*memoryEntry, bool) {
	entry, exists := s.entries[key]
	if !exists {
		return nil, false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		s.removeFromOrder(key)
		return nil, false
	}
	return entry, true
}

func (s *MemoryStore) GetLatest(ctx context.Context, key string) (*models.StoredRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(key)
	if !ok || len(entry.records) == 0 {
		return nil, ErrNotFound
	}
	return entry.records[len(entry.records)-1], nil
}

func (s *MemoryStore) GetAll(ctx context.Context, key string) ([]*models.StoredRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(key)
	if !ok || !entry.history || len(entry.records) == 0 {
		return nil, ErrNotFound
	}

	records := make([]*models.StoredRecord, len(entry.records))
	copy(records, entry.records)
	return records, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(key)
	if !ok || entry == nil {
		return false, nil
	}
	delete(s.entries, key)
	s.removeFromOrder(key)
	return true, nil
}

func (s *MemoryStore) MarkEvent(ctx context.Context, eventID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[eventID] = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) SeenEvent(ctx context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, exists := s.marks[eventID]
	if !exists {
		return false, nil
	}
	if s.now().After(expiry) {
		delete(s.marks, eventID)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) ListKeys(prefix string, limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	// live() evicts expired entries from s.order, so walk a snapshot.
	order := make([]string, len(s.order))
	copy(order, s.order)

	keys := make([]string, 0, limit)
	for _, key := range order {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if _, ok := s.live(key); !ok {
			continue
		}
		keys = append(keys, strings.TrimPrefix(key, prefix))
		if len(keys) >= limit {
			break
		}
	}
	return keys
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Name() string {
	return "memory"
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) removeFromOrder(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
