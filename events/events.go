package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the order lifecycle.
const (
	OrderCreated           = "order.created"
	PaymentReceiptUploaded = "payment.receipt_uploaded"
	OrderStatusChanged     = "order.status_changed"
)

// Event is the envelope published to the configured broker.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"event_type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Key        string         `json:"-"`
	Payload    map[string]any `json:"payload"`
}

// New builds an event partitioned by key (usually the order id).
func New(eventType, key string, payload map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Key:        key,
		Payload:    payload,
	}
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers domain events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
