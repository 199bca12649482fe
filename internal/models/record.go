package models

import (
	"encoding/json"
	"time"
)

// StoredRecord is the unit of persistence: one ingested payload bound to a
// correlation key. The open ingestion path fills only Key, ReceivedAt and
// Payload; the CloudEvents path adds the enriched message fields and keeps
// the raw envelope in Payload.
type StoredRecord struct {
	Key        string          `json:"key"`
	ReceivedAt time.Time       `json:"received_at"`
	Payload    json.RawMessage `json:"payload"`

	EventID   string `json:"event_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Text      string `json:"text,omitempty"`
	SentBy    string `json:"by,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	SentAt    string `json:"sent_at,omitempty"`
	ServiceID string `json:"service_id,omitempty"`
}
