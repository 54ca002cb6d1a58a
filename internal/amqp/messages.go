package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Routing key prefixes. Published keys carry the user ID as a final segment.
const (
	TopicEntryCreated     = "net_worth.entry.created"
	TopicEntryDeleted     = "net_worth.entry.deleted"
	TopicCashTotalUpdated = "net_worth.cash_total.updated"

	// BindingAll matches every net worth event of every user.
	BindingAll = "net_worth.#"
)

// UserTopic returns the routing key of topic for one user.
func UserTopic(topic string, uid int64) string {
	return fmt.Sprintf("%s.%d", topic, uid)
}

// Event is the envelope of every published message. Payload is the JSON of the composed
// entry, the deleted entry reference or the cash position.
type Event struct {
	ID        string          `json:"id"`
	Topic     string          `json:"topic"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// EntryDeleted is the payload published when an entry is removed.
type EntryDeleted struct {
	ID int64 `json:"id"`
}

// NewEvent wraps payload for publishing on topic.
func NewEvent(topic string, payload any) (*Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return &Event{
		ID:        uuid.NewString(),
		Topic:     topic,
		Timestamp: time.Now(),
		Payload:   body,
	}, nil
}

// ToJSON converts the event to JSON bytes
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON creates an event from JSON bytes
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
