package kafka

import "time"

// OrderPlacedEvent is emitted after the storefront successfully places an
// order upstream. The admin dashboard consumes it to invalidate its
// cached metrics, replacing a push-based refresh channel.
type OrderPlacedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OrderID    string    `json:"order_id"`
	DeviceID   string    `json:"device_id"`
	ItemCount  int       `json:"item_count"`
	TotalPrice float64   `json:"total_price"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeOrderPlaced = "order.placed"
)

// Kafka topics
const (
	TopicOrderPlaced = "order-placed"
)
