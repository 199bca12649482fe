// Package correlate derives the storage key for an inbound webhook payload.
package correlate

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Sentinel is the key used when no candidate field yields a usable value.
const Sentinel = "unknown"

// Normalize decodes raw JSON and guarantees an object root. Non-object roots
// (arrays, scalars, null) are wrapped as {"payload": <original>} so storage
// and key derivation never see a bare non-object. The returned bytes are the
// canonical form that gets persisted: the original bytes for object roots,
// the wrapped document otherwise.
func Normalize(raw []byte) (map[string]interface{}, json.RawMessage, error) {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON payload: %w", err)
	}

	if obj, ok := decoded.(map[string]interface{}); ok {
		return obj, json.RawMessage(raw), nil
	}

	wrapped := map[string]interface{}{"payload": decoded}
	data, err := json.Marshal(wrapped)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to wrap payload: %w", err)
	}
	return wrapped, data, nil
}

// Key derives the correlation key from a normalized payload object: the
// "to" field when it holds a usable scalar, the sentinel otherwise. Other
// identifier-looking fields (id, session_id) never participate; the
// structured ingestion path keys on its own envelope field instead, so a
// payload carrying both routes consistently by "to".
func Key(obj map[string]interface{}) string {
	if v := stringValue(obj["to"]); v != "" {
		return v
	}
	return Sentinel
}

// stringValue renders a scalar JSON value as a key fragment. Objects,
// arrays, null and empty strings do not qualify.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
