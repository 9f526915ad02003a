package product

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidInput     = errors.New("invalid product input")
	ErrInUse            = errors.New("product has orders")
	ErrNoImages         = errors.New("at least one image is required")
)

// Repository returns products with images, reviews and category attached.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id string, patch Patch) (Product, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu         sync.RWMutex
	products   map[string]Product
	categories map[string]CategoryRef
}

// NewInMemoryRepository seeds products as given. Categories referenced by the
// seed are registered implicitly.
func NewInMemoryRepository(seed []Product, categories ...CategoryRef) *InMemoryRepository {
	r := &InMemoryRepository{
		products:   make(map[string]Product, len(seed)),
		categories: make(map[string]CategoryRef),
	}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	for _, p := range seed {
		if _, ok := r.categories[p.CategoryID]; !ok && p.CategoryID != "" {
			r.categories[p.CategoryID] = CategoryRef{ID: p.CategoryID}
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *InMemoryRepository) List(_ context.Context, f Filter) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Tag != "" && !slices.Contains(p.Tags, f.Tag) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, r.decorate(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return r.decorate(p), nil
}

func (r *InMemoryRepository) Create(_ context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[p.CategoryID]; !ok {
		return Product{}, ErrCategoryNotFound
	}
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now
	for i := range p.Images {
		p.Images[i].ID = uuid.NewString()
		p.Images[i].ProductID = p.ID
	}
	r.products[p.ID] = p
	return r.decorate(p), nil
}

func (r *InMemoryRepository) Update(_ context.Context, id string, patch Patch) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	if patch.CategoryID != nil {
		if _, ok := r.categories[*patch.CategoryID]; !ok {
			return Product{}, ErrCategoryNotFound
		}
	}
	p.apply(patch)
	for i := range p.Images {
		if p.Images[i].ID == "" {
			p.Images[i].ID = uuid.NewString()
		}
	}
	p.UpdatedAt = time.Now().UTC()
	r.products[id] = p
	return r.decorate(p), nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *InMemoryRepository) decorate(p Product) Product {
	if c, ok := r.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	if p.Images == nil {
		p.Images = []Image{}
	}
	if p.Reviews == nil {
		p.Reviews = []Review{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}
