package models

// Ingestion outcome statuses.
const (
	StatusStored  = "stored"
	StatusOK      = "ok"
	StatusIgnored = "ignored"
	StatusDeleted = "deleted"
)

// Ignore reasons returned by the idempotency gate.
const (
	ReasonUnsupportedType     = "unsupported type"
	ReasonDuplicateEvent      = "duplicate event"
	ReasonUnsupportedDataType = "unsupported data.type"
)

// IngestResponse is returned for every accepted POST, whether the payload
// was stored or acknowledged-and-ignored.
type IngestResponse struct {
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	To         string `json:"to,omitempty"`
	ServiceID  string `json:"service_id,omitempty"`
	TTLSeconds int    `json:"ttl_seconds,omitempty"`
}

// DeleteResponse confirms removal of all state for a correlation key.
type DeleteResponse struct {
	Status    string `json:"status"`
	Backend   string `json:"backend"`
	To        string `json:"to,omitempty"`
	ServiceID string `json:"service_id,omitempty"`
}

// HealthResponse is the liveness snapshot.
type HealthResponse struct {
	Status           string `json:"status"`
	NowUTC           string `json:"now_utc"`
	TTLSeconds       int    `json:"ttl_seconds"`
	Backend          string `json:"backend"`
	BackendReachable bool   `json:"backend_reachable"`
}

// SessionList enumerates resident correlation keys (in-memory backend only).
type SessionList struct {
	Count      int      `json:"count"`
	ServiceIDs []string `json:"service_ids"`
}

// HistoryResponse carries the retained record sequence for a key,
// oldest to newest.
type HistoryResponse struct {
	Count   int             `json:"count"`
	Records []*StoredRecord `json:"records"`
}
