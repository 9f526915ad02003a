package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/storefront-backend/internal/address"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// Valid reports whether s is one of the known order statuses. Any valid
// status may replace any other.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type ShippingStatus string

const (
	ShippingPending    ShippingStatus = "PENDING"
	ShippingDispatched ShippingStatus = "DISPATCHED"
	ShippingInTransit  ShippingStatus = "IN_TRANSIT"
	ShippingDelivered  ShippingStatus = "DELIVERED"
)

func (s ShippingStatus) Valid() bool {
	switch s {
	case ShippingPending, ShippingDispatched, ShippingInTransit, ShippingDelivered:
		return true
	}
	return false
}

type Order struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	Items      []Item          `json:"orderItems"`
	Shipping   *Shipping       `json:"shipping"`
	Payment    *Payment        `json:"payment"`
}

// Item is a line of an order. Price is the unit price at the time the order
// was placed and never changes afterwards.
type Item struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   *ProductSummary `json:"product,omitempty"`
}

type ProductSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Shipping struct {
	ID             string           `json:"id"`
	OrderID        string           `json:"orderId"`
	AddressID      string           `json:"addressId"`
	Name           string           `json:"name"`
	Phone          string           `json:"phone"`
	ShippingNotes  string           `json:"shippingNotes"`
	Status         ShippingStatus   `json:"status"`
	TrackingNumber *string          `json:"trackingNumber"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	Address        *address.Address `json:"address,omitempty"`
}

type Payment struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Provider  string          `json:"provider"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ShippingInput is what the buyer supplies when placing an order.
type ShippingInput struct {
	AddressID     string `json:"addressId" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	ShippingNotes string `json:"shippingNotes"`
}

// CartLine is a cart item priced at the product's current effective price.
type CartLine struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}
