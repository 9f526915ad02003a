package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderPlacedQueue = "order.placed"

	orderPlacedEventName    = "OrderPlaced"
	orderPlacedEventVersion = 1
)

type OrderPlacedItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderPlacedPayload struct {
	OrderID    string            `json:"orderId"`
	UserID     string            `json:"userId"`
	AddressID  string            `json:"addressId"`
	Items      []OrderPlacedItem `json:"items"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	PlacedAt   time.Time         `json:"placedAt"`
}

type OrderPlacedEnvelope = EventEnvelope[OrderPlacedPayload]

// BuildOrderPlacedEnvelope wraps the payload, partitioned by order id.
func BuildOrderPlacedEnvelope(p OrderPlacedPayload, correlationID string) OrderPlacedEnvelope {
	return newEnvelope(orderPlacedEventName, orderPlacedEventVersion, p.OrderID, correlationID, p)
}
