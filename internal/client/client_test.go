package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"up","backend":"memory","ttl_seconds":60}`))
	})
	mux.HandleFunc("POST /webhooks/tech4", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"stored","to":"555","ttl_seconds":60}`))
	})
	mux.HandleFunc("GET /messages/555/latest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"to":"555","message":{"text":"hey"}}`))
	})
	mux.HandleFunc("GET /messages/555/history", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":1,"records":[{"key":"555"}]}`))
	})
	mux.HandleFunc("DELETE /messages/555", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"deleted","to":"555"}`))
	})
	mux.HandleFunc("GET /sessions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("limit") == "2" {
			w.Write([]byte(`{"count":2,"service_ids":["a","b"]}`))
			return
		}
		w.Write([]byte(`{"count":0,"service_ids":[]}`))
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_Health(t *testing.T) {
	ts := newFixtureServer(t)
	c := New(ts.URL)

	out, err := c.Health()
	require.NoError(t, err)
	assert.Equal(t, "up", out["status"])
	assert.Equal(t, "memory", out["backend"])
}

func TestClient_Send(t *testing.T) {
	ts := newFixtureServer(t)
	c := New(ts.URL)

	out, err := c.Send("/webhooks/tech4", []byte(`{"to":"555"}`))
	require.NoError(t, err)
	assert.Equal(t, "stored", out["status"])
	assert.Equal(t, "555", out["to"])
}

func TestClient_Latest(t *testing.T) {
	ts := newFixtureServer(t)
	c := New(ts.URL)

	raw, err := c.Latest("messages", "555")
	require.NoError(t, err)
	assert.JSONEq(t, `{"to":"555","message":{"text":"hey"}}`, string(raw))
}

func TestClient_LatestNotFound(t *testing.T) {
	ts := newFixtureServer(t)
	c := New(ts.URL)

	_, err := c.Latest("messages", "777")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "777")
}

func TestClient_History(t *testing.T) {
	ts := newFixtureServer(t)
	c := New(ts.URL)

	out, err := c.History("messages", "555")
	require.NoError(t, err)
	assert.Equal(t, float64(1), out["count"])
}

func TestClient_Delete(t *testing.T) {
	ts := newFixtureServer(t)
	c := New(ts.URL)

	out, err := c.Delete("messages", "555")
	require.NoError(t, err)
	assert.Equal(t, "deleted", out["status"])

	_, err = c.Delete("messages", "777")
	require.Error(t, err)
}

func TestClient_Sessions(t *testing.T) {
	ts := newFixtureServer(t)
	c := New(ts.URL)

	out, err := c.Sessions(2)
	require.NoError(t, err)
	assert.Equal(t, float64(2), out["count"])

	out, err = c.Sessions(0)
	require.NoError(t, err)
	assert.Equal(t, float64(0), out["count"])
}
