package order

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/wichananm65/storefront-backend/internal/events"
)

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *log.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger *log.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// Place turns the user's cart into an order. The OrderPlaced event goes out
// after the transaction commits; a failed publish is only logged.
func (s *Service) Place(ctx context.Context, userID string, in ShippingInput, correlationID string) (Order, error) {
	if uuid.Validate(in.AddressID) != nil {
		return Order{}, ErrAddressNotFound
	}
	o, err := s.repo.Place(ctx, userID, in)
	if err != nil {
		return Order{}, err
	}
	s.publishPlaced(ctx, o, correlationID)
	return o, nil
}

func (s *Service) publishPlaced(ctx context.Context, o Order, correlationID string) {
	if s.publisher == nil {
		return
	}
	p := events.OrderPlacedPayload{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Items:      make([]events.OrderPlacedItem, 0, len(o.Items)),
		TotalPrice: o.TotalPrice,
		PlacedAt:   o.CreatedAt,
	}
	if o.Shipping != nil {
		p.AddressID = o.Shipping.AddressID
	}
	for _, it := range o.Items {
		p.Items = append(p.Items, events.OrderPlacedItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	env := events.BuildOrderPlacedEnvelope(p, correlationID)
	if err := s.publisher.Publish(context.WithoutCancel(ctx), events.OrderPlacedQueue, env); err != nil && s.logger != nil {
		s.logger.Printf("publish %s for order %s: %v", events.OrderPlacedQueue, o.ID, err)
	}
}

// Get returns an order visible to the caller: its owner or an admin.
func (s *Service) Get(ctx context.Context, userID string, isAdmin bool, id string) (Order, error) {
	if uuid.Validate(id) != nil {
		return Order{}, ErrNotFound
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !isAdmin && o.UserID != userID {
		return Order{}, ErrForbidden
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, ErrInvalidStatus
	}
	if uuid.Validate(id) != nil {
		return Order{}, ErrNotFound
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// UpdateShipping sets the shipping status and tracking number together.
func (s *Service) UpdateShipping(ctx context.Context, orderID string, status ShippingStatus, trackingNumber *string) (Shipping, error) {
	if !status.Valid() {
		return Shipping{}, ErrInvalidShippingStatus
	}
	if uuid.Validate(orderID) != nil {
		return Shipping{}, ErrNotFound
	}
	return s.repo.UpdateShipping(ctx, orderID, status, trackingNumber)
}
