package live

import (
	"encoding/json"
	"time"

	"github.com/example/schedule-dashboard/internal/schedule"
)

// MessageType identifies a server to client message.
type MessageType string

const (
	TypeCatalogChanged MessageType = "catalog_changed"
	TypeNextItem       MessageType = "next_item"
	TypeNotice         MessageType = "notice"
)

// Message is the envelope of every websocket frame.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage stamps a message with the current UTC time.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// CatalogChangedPayload tells clients to reload a collection.
type CatalogChangedPayload struct {
	Collection string `json:"collection"`
	Action     string `json:"action"`
	ID         int64  `json:"id,omitempty"`
	Count      int    `json:"count,omitempty"`
}

// NextItemPayload carries the next item starting today, if any.
type NextItemPayload struct {
	Found bool           `json:"found"`
	Item  *schedule.Card `json:"item,omitempty"`
}

// NoticePayload mirrors a service notice.
type NoticePayload struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}
