package recommended

import (
	"context"
	"sort"
	"sync"
)

// Repository lists products ordered by average rating, then review count.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Item, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items []Item
}

func NewInMemoryRepository(seed []Item) *InMemoryRepository {
	items := append([]Item(nil), seed...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].AverageRating != items[j].AverageRating {
			return items[i].AverageRating > items[j].AverageRating
		}
		return items[i].ReviewCount > items[j].ReviewCount
	})
	return &InMemoryRepository{items: items}
}

func (r *InMemoryRepository) List(_ context.Context, limit, offset int) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if offset >= len(r.items) {
		return []Item{}, nil
	}
	end := min(offset+limit, len(r.items))
	return append([]Item(nil), r.items[offset:end]...), nil
}
