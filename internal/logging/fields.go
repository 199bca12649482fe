package logging

import (
	"log/slog"
	"time"
)

// Common field names for consistent logging across the service.
const (
	FieldService  = "service"
	FieldKey      = "key"
	FieldEventID  = "event_id"
	FieldBackend  = "backend"
	FieldReason   = "reason"
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldStatus   = "status"
	FieldError    = "error"
	FieldIP       = "ip"
	FieldDuration = "duration_ms"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Key returns a slog attribute for a correlation key.
func Key(key string) slog.Attr {
	return slog.String(FieldKey, key)
}

// EventID returns a slog attribute for an event ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// Backend returns a slog attribute for the storage backend name.
func Backend(name string) slog.Attr {
	return slog.String(FieldBackend, name)
}

// Reason returns a slog attribute for an ignore reason.
func Reason(reason string) slog.Attr {
	return slog.String(FieldReason, reason)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// IP returns a slog attribute for a client address.
func IP(addr string) slog.Attr {
	return slog.String(FieldIP, addr)
}

// Duration returns a slog attribute for an elapsed time in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64(FieldDuration, d.Milliseconds())
}
