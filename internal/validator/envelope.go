// Package validator checks that structured payloads carry the fixed
// CloudEvents envelope shape before they reach the ingestion pipeline.
package validator

import (
	"fmt"

	"github.com/tech4-systems/webhook-receiver/internal/models"
)

// Envelope performs structural validation of a decoded CloudEvent.
// Every envelope field is required; data.text is the only optional field.
func Envelope(event *models.CloudEvent) error {
	if event.SpecVersion == "" {
		return fmt.Errorf("missing specversion")
	}
	if event.ID == "" {
		return fmt.Errorf("missing id")
	}
	if event.Type == "" {
		return fmt.Errorf("missing type")
	}
	if event.Source == "" {
		return fmt.Errorf("missing source")
	}
	if event.Subject == "" {
		return fmt.Errorf("missing subject")
	}
	if event.Time == "" {
		return fmt.Errorf("missing time")
	}
	if event.DataContentType == "" {
		return fmt.Errorf("missing datacontenttype")
	}
	if event.Data.ID == "" {
		return fmt.Errorf("missing data.id")
	}
	if event.Data.Type == "" {
		return fmt.Errorf("missing data.type")
	}
	if event.Data.CreatedAt == "" {
		return fmt.Errorf("missing data.createdAt")
	}
	if event.Data.SentAt == "" {
		return fmt.Errorf("missing data.sentAt")
	}
	if event.Data.By == "" {
		return fmt.Errorf("missing data.by")
	}
	if event.Data.ServiceID == "" {
		return fmt.Errorf("missing data.serviceId")
	}
	return nil
}
