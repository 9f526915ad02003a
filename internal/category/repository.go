package category

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("category not found")
	ErrNameExists = errors.New("category already exists")
	ErrInUse      = errors.New("category has products")
)

// Repository provides access to categories with their products.
type Repository interface {
	List(ctx context.Context, limit int) ([]Category, error)
	GetByID(ctx context.Context, id string) (Category, error)
	Create(ctx context.Context, name string) (Category, error)
	Rename(ctx context.Context, id, name string) (Category, error)
	Delete(ctx context.Context, id string) error
}

type InMemoryRepository struct {
	mu         sync.RWMutex
	categories map[string]Category
}

func NewInMemoryRepository(seed []Category) *InMemoryRepository {
	r := &InMemoryRepository{categories: make(map[string]Category, len(seed))}
	for _, c := range seed {
		r.categories[c.ID] = c
	}
	return r
}

func (r *InMemoryRepository) List(_ context.Context, limit int) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, withProducts(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return withProducts(c), nil
}

func (r *InMemoryRepository) Create(_ context.Context, name string) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(name, "") {
		return Category{}, ErrNameExists
	}
	c := Category{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	r.categories[c.ID] = c
	return withProducts(c), nil
}

func (r *InMemoryRepository) Rename(_ context.Context, id, name string) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	if r.nameTaken(name, id) {
		return Category{}, ErrNameExists
	}
	c.Name = name
	r.categories[id] = c
	return withProducts(c), nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return ErrNotFound
	}
	if len(c.Products) > 0 {
		return ErrInUse
	}
	delete(r.categories, id)
	return nil
}

func (r *InMemoryRepository) nameTaken(name, exceptID string) bool {
	for id, c := range r.categories {
		if id != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func withProducts(c Category) Category {
	if c.Products == nil {
		c.Products = []Product{}
	}
	return c
}
