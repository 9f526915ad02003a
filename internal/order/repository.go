package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wichananm65/storefront-backend/internal/address"
)

var (
	ErrNotFound              = errors.New("order not found")
	ErrAddressNotFound       = errors.New("address not found")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrForbidden             = errors.New("order belongs to another user")
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrInvalidShippingStatus = errors.New("invalid shipping status")
)

// Repository persists orders. Place is atomic: either the order, its items
// and shipping exist and the cart is empty, or nothing changed.
type Repository interface {
	Place(ctx context.Context, userID string, in ShippingInput) (Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Order, error)
	UpdateShipping(ctx context.Context, orderID string, status ShippingStatus, trackingNumber *string) (Shipping, error)
}

// InMemoryRepository is used for tests and local scenarios. It owns its own
// view of addresses and carts, filled with SeedAddress and SeedCart.
type InMemoryRepository struct {
	mu        sync.RWMutex
	addresses map[string]address.Address
	carts     map[string][]CartLine // by user id
	orders    map[string]Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		addresses: make(map[string]address.Address),
		carts:     make(map[string][]CartLine),
		orders:    make(map[string]Order),
	}
}

func (r *InMemoryRepository) SeedAddress(a address.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addresses[a.ID] = a
}

func (r *InMemoryRepository) SeedCart(userID string, lines ...CartLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = append([]CartLine(nil), lines...)
}

// CartLines returns what is left in the user's cart.
func (r *InMemoryRepository) CartLines(userID string) []CartLine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]CartLine(nil), r.carts[userID]...)
}

func (r *InMemoryRepository) Place(_ context.Context, userID string, in ShippingInput) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	addr, ok := r.addresses[in.AddressID]
	if !ok || addr.UserID != userID {
		return Order{}, ErrAddressNotFound
	}
	lines := r.carts[userID]
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	now := time.Now().UTC()
	o := Order{ID: uuid.NewString(), UserID: userID, Status: StatusPending, CreatedAt: now, UpdatedAt: now}
	o.Items, o.TotalPrice = BuildItems(o.ID, lines)
	o.Shipping = &Shipping{
		ID:            uuid.NewString(),
		OrderID:       o.ID,
		AddressID:     addr.ID,
		Name:          in.Name,
		Phone:         in.Phone,
		ShippingNotes: in.ShippingNotes,
		Status:        ShippingPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		Address:       &addr,
	}
	r.orders[o.ID] = o
	delete(r.carts, userID)
	return o, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(_ context.Context, id string, status Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	r.orders[id] = o
	return o, nil
}

func (r *InMemoryRepository) UpdateShipping(_ context.Context, orderID string, status ShippingStatus, trackingNumber *string) (Shipping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Shipping == nil {
		return Shipping{}, ErrNotFound
	}
	s := *o.Shipping
	s.Status = status
	if trackingNumber != nil {
		tn := *trackingNumber
		s.TrackingNumber = &tn
	}
	s.UpdatedAt = time.Now().UTC()
	o.Shipping = &s
	r.orders[orderID] = o
	return s, nil
}
