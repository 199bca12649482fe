package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tech4-systems/webhook-receiver/internal/models"
)

// RedisStore persists records in Redis with native TTL expiry. Latest-only
// records live at "{namespace}:{key}", history sequences at
// "{namespace}:{key}:messages", idempotency marks at
// "{namespace}:event:{id}". One flat namespace, no secondary indexes.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore connects to Redis and verifies reachability before returning.
func NewRedisStore(redisURL, namespace string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisStoreWithClient(client, namespace), nil
}

// NewRedisStoreWithClient wraps an existing client. Used by tests.
func NewRedisStoreWithClient(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) key(k string) string {
	return s.namespace + ":" + k
}

func (s *RedisStore) historyKey(k string) string {
	return s.key(k) + ":messages"
}

func (s *RedisStore) eventKey(id string) string {
	return s.namespace + ":event:" + id
}

func (s *RedisStore) PutLatest(ctx context.Context, key string, record *models.StoredRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	return nil
}

func (s *RedisStore) Append(ctx context.Context, key string, record *models.StoredRecord, ttl time.Duration, max int64) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	hk := s.historyKey(key)

	// RPUSH + LTRIM + EXPIRE issued as one pipeline so a competing append
	// never observes an untrimmed, unexpiring sequence.
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, hk, data)
	if max > 0 {
		pipe.LTrim(ctx, hk, -max, -1)
	}
	pipe.Expire(ctx, hk, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

func (s *RedisStore) GetLatest(ctx context.Context, key string) (*models.StoredRecord, error) {
	data, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		// Fall back to the tail of the history sequence.
		data, err = s.client.LIndex(ctx, s.historyKey(key), -1).Result()
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	var record models.StoredRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) GetAll(ctx context.Context, key string) ([]*models.StoredRecord, error) {
	vals, err := s.client.LRange(ctx, s.historyKey(key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if len(vals) == 0 {
		return nil, ErrNotFound
	}

	records := make([]*models.StoredRecord, 0, len(vals))
	for _, v := range vals {
		var record models.StoredRecord
		if err := json.Unmarshal([]byte(v), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, &record)
	}
	return records, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(key), s.historyKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) MarkEvent(ctx context.Context, eventID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.eventKey(eventID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark event: %w", err)
	}
	return nil
}

func (s *RedisStore) SeenEvent(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.eventKey(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check event mark: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Name() string {
	return "redis"
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
