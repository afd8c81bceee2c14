package orders

import (
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const (
	EventOrderPlaced    = "OrderPlaced"
	EventOrderCancelled = "OrderCancelled"
)

// All order lifecycle events share one topic; the event type travels in
// the envelope and the x-event-type header.
const TopicOrderEvents = "order.events"

// PartitionKey keeps every event for one order in order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID           string `json:"order_id"`
	Total             int64  `json:"total"`
	PaymentMethod     string `json:"payment_method"`
	ItemCount         int    `json:"item_count"`
	EstimatedDelivery string `json:"estimated_delivery"`
	Email             string `json:"email"`
}

type OrderCancelledPayload struct {
	OrderID      string    `json:"order_id"`
	RefundAmount int64     `json:"refund_amount"`
	CancelledAt  time.Time `json:"cancelled_at"`
	Email        string    `json:"email"`
}

// EventPublisher is satisfied by the kafka producer; tests swap in a
// recording fake.
type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}
