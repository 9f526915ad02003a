package cart

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrForbidden       = errors.New("cart item belongs to another user")
	ErrProductNotFound = errors.New("product not found")
	ErrProductRequired = errors.New("product id is required")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrNotCustomer     = errors.New("caller has no customer account")
)

// Repository stores one cart per user. The cart row is created on first add.
type Repository interface {
	// AddItem inserts a line or increments an existing one for the same
	// product. created reports which of the two happened.
	AddItem(ctx context.Context, userID, productID string, qty int) (item Item, created bool, err error)
	ListItems(ctx context.Context, userID string) ([]Item, error)
	GetItem(ctx context.Context, id string) (Item, error)
	SetQuantity(ctx context.Context, id string, qty int) (Item, error)
	RemoveItem(ctx context.Context, id string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	carts    map[string]Cart // by user id
	items    map[string]Item
	products map[string]ProductSummary
}

// NewInMemoryRepository attaches the given summaries to lines of matching
// products.
func NewInMemoryRepository(products ...ProductSummary) *InMemoryRepository {
	r := &InMemoryRepository{
		carts:    make(map[string]Cart),
		items:    make(map[string]Item),
		products: make(map[string]ProductSummary, len(products)),
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *InMemoryRepository) AddItem(_ context.Context, userID, productID string, qty int) (Item, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		c = Cart{ID: uuid.NewString(), UserID: userID}
		r.carts[userID] = c
	}
	for id, it := range r.items {
		if it.CartID == c.ID && it.ProductID == productID {
			it.Quantity += qty
			r.items[id] = it
			return r.withProduct(it), false, nil
		}
	}
	it := Item{ID: uuid.NewString(), CartID: c.ID, ProductID: productID, Quantity: qty, UserID: userID}
	r.items[it.ID] = it
	return r.withProduct(it), true, nil
}

func (r *InMemoryRepository) ListItems(_ context.Context, userID string) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Item, 0)
	c, ok := r.carts[userID]
	if !ok {
		return out, nil
	}
	for _, it := range r.items {
		if it.CartID == c.ID {
			out = append(out, r.withProduct(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *InMemoryRepository) GetItem(_ context.Context, id string) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return r.withProduct(it), nil
}

func (r *InMemoryRepository) SetQuantity(_ context.Context, id string, qty int) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	it.Quantity = qty
	r.items[id] = it
	return r.withProduct(it), nil
}

func (r *InMemoryRepository) RemoveItem(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// caller holds mu
func (r *InMemoryRepository) withProduct(it Item) Item {
	if p, ok := r.products[it.ProductID]; ok {
		it.Product = &p
	}
	return it
}
