package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech4-systems/webhook-receiver/internal/models"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisStoreWithClient(client, "tech4")
}

func record(key, payload string) *models.StoredRecord {
	return &models.StoredRecord{
		Key:        key,
		ReceivedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Payload:    json.RawMessage(payload),
	}
}

func TestRedisStore_PutLatestRoundTrip(t *testing.T) {
	_, st := setupTestRedis(t)
	ctx := context.Background()

	rec := record("to:555", `{"to":"555","message":{"text":"hey"}}`)
	require.NoError(t, st.PutLatest(ctx, "to:555", rec, time.Hour))

	got, err := st.GetLatest(ctx, "to:555")
	require.NoError(t, err)
	assert.Equal(t, "to:555", got.Key)
	assert.JSONEq(t, string(rec.Payload), string(got.Payload))
	assert.True(t, rec.ReceivedAt.Equal(got.ReceivedAt))
}

func TestRedisStore_PutLatestOverwrites(t *testing.T) {
	_, st := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, st.PutLatest(ctx, "to:555", record("to:555", `{"n":1}`), time.Hour))
	require.NoError(t, st.PutLatest(ctx, "to:555", record("to:555", `{"n":2}`), time.Hour))

	got, err := st.GetLatest(ctx, "to:555")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":2}`, string(got.Payload))
}

func TestRedisStore_GetLatestNotFound(t *testing.T) {
	_, st := setupTestRedis(t)

	_, err := st.GetLatest(context.Background(), "to:nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	mr, st := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, st.PutLatest(ctx, "to:555", record("to:555", `{"n":1}`), time.Minute))

	_, err := st.GetLatest(ctx, "to:555")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = st.GetLatest(ctx, "to:555")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_BoundedHistory(t *testing.T) {
	_, st := setupTestRedis(t)
	ctx := context.Background()

	const keep = 10
	for i := 0; i < keep+5; i++ {
		rec := record("to:555", fmt.Sprintf(`{"n":%d}`, i))
		require.NoError(t, st.Append(ctx, "to:555", rec, time.Hour, keep))
	}

	records, err := st.GetAll(ctx, "to:555")
	require.NoError(t, err)
	require.Len(t, records, keep)

	// Oldest 5 evicted, remainder oldest-to-newest.
	assert.JSONEq(t, `{"n":5}`, string(records[0].Payload))
	assert.JSONEq(t, `{"n":14}`, string(records[keep-1].Payload))

	latest, err := st.GetLatest(ctx, "to:555")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":14}`, string(latest.Payload))
}

func TestRedisStore_HistoryTTLResetOnAppend(t *testing.T) {
	mr, st := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, st.Append(ctx, "to:555", record("to:555", `{"n":1}`), time.Minute, 10))

	mr.FastForward(45 * time.Second)
	require.NoError(t, st.Append(ctx, "to:555", record("to:555", `{"n":2}`), time.Minute, 10))

	// First append would have expired by now; the second reset the TTL
	// for the whole sequence.
	mr.FastForward(30 * time.Second)

	records, err := st.GetAll(ctx, "to:555")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	mr.FastForward(time.Minute)

	_, err = st.GetAll(ctx, "to:555")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_GetAllNotFound(t *testing.T) {
	_, st := setupTestRedis(t)

	_, err := st.GetAll(context.Background(), "to:nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	_, st := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, st.PutLatest(ctx, "to:555", record("to:555", `{"n":1}`), time.Hour))

	deleted, err := st.Delete(ctx, "to:555")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = st.GetLatest(ctx, "to:555")
	assert.ErrorIs(t, err, ErrNotFound)

	// Idempotent-safe: second delete reports nothing existed.
	deleted, err = st.Delete(ctx, "to:555")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRedisStore_DeleteRemovesHistory(t *testing.T) {
	_, st := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, st.Append(ctx, "to:555", record("to:555", `{"n":1}`), time.Hour, 10))

	deleted, err := st.Delete(ctx, "to:555")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = st.GetAll(ctx, "to:555")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_EventMarks(t *testing.T) {
	mr, st := setupTestRedis(t)
	ctx := context.Background()

	seen, err := st.SeenEvent(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, st.MarkEvent(ctx, "e1", time.Minute))

	seen, err = st.SeenEvent(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, seen)

	// Marks expire on their own clock.
	mr.FastForward(2 * time.Minute)

	seen, err = st.SeenEvent(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestRedisStore_MarksIndependentOfRecords(t *testing.T) {
	mr, st := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, st.MarkEvent(ctx, "e1", time.Hour))
	require.NoError(t, st.PutLatest(ctx, "session:svc1", record("session:svc1", `{"n":1}`), time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := st.GetLatest(ctx, "session:svc1")
	assert.ErrorIs(t, err, ErrNotFound)

	seen, err := st.SeenEvent(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, seen, "record expiry must not expire the idempotency mark")
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr, st := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, st.PutLatest(ctx, "to:555", record("to:555", `{"n":1}`), time.Hour))
	require.NoError(t, st.Append(ctx, "to:666", record("to:666", `{"n":2}`), time.Hour, 10))
	require.NoError(t, st.MarkEvent(ctx, "e1", time.Hour))

	assert.True(t, mr.Exists("tech4:to:555"))
	assert.True(t, mr.Exists("tech4:to:666:messages"))
	assert.True(t, mr.Exists("tech4:event:e1"))
}

func TestRedisStore_Ping(t *testing.T) {
	_, st := setupTestRedis(t)
	assert.NoError(t, st.Ping(context.Background()))
	assert.Equal(t, "redis", st.Name())
}

func TestRedisStore_BackendUnavailable(t *testing.T) {
	mr, st := setupTestRedis(t)
	ctx := context.Background()

	mr.Close()

	_, err := st.GetLatest(ctx, "to:555")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound, "transport failures must stay distinct from not-found")

	err = st.PutLatest(ctx, "to:555", record("to:555", `{"n":1}`), time.Hour)
	require.Error(t, err)
}
