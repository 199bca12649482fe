package models

// Supported discriminator values for the CloudEvents ingestion path.
const (
	EventTypeConversationMessage = "amber.service:conversation:message"
	MessageTypeText              = "text"
)

// MessageData is the inner message carried by a conversation CloudEvent.
type MessageData struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	CreatedAt string `json:"createdAt"`
	SentAt    string `json:"sentAt"`
	By        string `json:"by"`
	ServiceID string `json:"serviceId"`
	Text      string `json:"text,omitempty"`
}

// CloudEvent is the fixed envelope required by the structured ingestion path.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject"`
	Time            string      `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            MessageData `json:"data"`
}
