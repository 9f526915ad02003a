package wishlist

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("wishlist not found")
	ErrAlreadyInWishlist = errors.New("product already in wishlist")
	ErrNotInWishlist     = errors.New("product not in wishlist")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductRequired   = errors.New("product id is required")
)

// Repository keeps at most one wishlist per user.
type Repository interface {
	Get(ctx context.Context, userID string) (Wishlist, error)
	// Add creates the wishlist on first use.
	Add(ctx context.Context, userID, productID string) (Wishlist, error)
	Remove(ctx context.Context, userID, productID string) (Wishlist, error)
	Clear(ctx context.Context, userID string) error
}

type memWishlist struct {
	id         string
	productIDs []string
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu        sync.RWMutex
	wishlists map[string]*memWishlist // by user id
	products  map[string]ProductSummary
}

func NewInMemoryRepository(products ...ProductSummary) *InMemoryRepository {
	r := &InMemoryRepository{
		wishlists: make(map[string]*memWishlist),
		products:  make(map[string]ProductSummary, len(products)),
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *InMemoryRepository) Get(_ context.Context, userID string) (Wishlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wishlists[userID]
	if !ok {
		return Wishlist{}, ErrNotFound
	}
	return r.view(userID, w), nil
}

func (r *InMemoryRepository) Add(_ context.Context, userID, productID string) (Wishlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wishlists[userID]
	if !ok {
		w = &memWishlist{id: uuid.NewString()}
		r.wishlists[userID] = w
	}
	if slices.Contains(w.productIDs, productID) {
		return Wishlist{}, ErrAlreadyInWishlist
	}
	w.productIDs = append(w.productIDs, productID)
	return r.view(userID, w), nil
}

func (r *InMemoryRepository) Remove(_ context.Context, userID, productID string) (Wishlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wishlists[userID]
	if !ok {
		return Wishlist{}, ErrNotFound
	}
	i := slices.Index(w.productIDs, productID)
	if i < 0 {
		return Wishlist{}, ErrNotInWishlist
	}
	w.productIDs = slices.Delete(w.productIDs, i, i+1)
	return r.view(userID, w), nil
}

func (r *InMemoryRepository) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wishlists[userID]
	if !ok {
		return ErrNotFound
	}
	w.productIDs = nil
	return nil
}

func (r *InMemoryRepository) view(userID string, w *memWishlist) Wishlist {
	out := Wishlist{ID: w.id, UserID: userID, Products: make([]ProductSummary, 0, len(w.productIDs))}
	for _, id := range w.productIDs {
		p, ok := r.products[id]
		if !ok {
			p = ProductSummary{ID: id}
		}
		out.Products = append(out.Products, p)
	}
	return out
}
