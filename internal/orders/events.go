package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.statusChanged"
	EventOrderCancelled     = "order.cancelled"
	EventOrderCompleted     = "order.completed"
	EventOrderUndone        = "order.undone"
)

// Event is what observers receive. Delivery is in-process and synchronous,
// so there is no wire format; Fields carries event-specific extras.
type Event struct {
	Name       string         `json:"name"`
	OrderID    string         `json:"order_id"`
	CustomerID string         `json:"customer_id,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// ---- Kafka mirror (out-of-process notification fan-out) ----

const TopicOrderEvents = "order.events"

// Partition key = order_id so all events of one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

type Envelope struct {
	EventID       string          `json:"event_id"`   // uuid
	EventType     string          `json:"event_type"` // one of the consts above
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// StreamPayload is the Event body as it travels over Kafka.
type StreamPayload struct {
	OrderID    string         `json:"order_id"`
	CustomerID string         `json:"customer_id,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
}
