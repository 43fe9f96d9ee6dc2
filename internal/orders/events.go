package orders

import (
	"encoding/json"
	"time"

	"github.com/shambadirect/shamba-market.git/internal/domain"
)

const (
	TopicOrderCreated   = "order.created"
	TopicOrderStatus    = "order.status"
	TopicOrderCancelled = "order.cancelled"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderCancelled     = "OrderCancelled"
)

// Partition key = order_id, supaya event satu order tetap berurutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type OrderCreatedPayload struct {
	OrderID    string        `json:"order_id"`
	CustomerID string        `json:"customer_id"`
	FarmerID   string        `json:"farmer_id"`
	Items      []ItemQty     `json:"items"`
	TotalCents int           `json:"total_cents"`
	Status     domain.Status `json:"status"`
}

type StatusChangedPayload struct {
	OrderID    string        `json:"order_id"`
	CustomerID string        `json:"customer_id"`
	FarmerID   string        `json:"farmer_id"`
	OldStatus  domain.Status `json:"old_status"`
	NewStatus  domain.Status `json:"new_status"`
	ActorID    string        `json:"actor_id"`
}

type OrderCancelledPayload struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	FarmerID   string    `json:"farmer_id"`
	ActorID    string    `json:"actor_id"`
	Released   []ItemQty `json:"released"`
}

func ToItemQtys(items []domain.OrderItem) []ItemQty {
	out := make([]ItemQty, 0, len(items))
	for _, it := range items {
		out = append(out, ItemQty{ProductID: it.ProductID, Qty: it.Qty})
	}
	return out
}
