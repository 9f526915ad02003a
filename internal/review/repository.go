package review

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("product already reviewed by user")
	ErrForbidden       = errors.New("review belongs to another user")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidRating   = errors.New("rating out of range")
)

type Repository interface {
	GetByID(ctx context.Context, id string) (Review, error)
	Create(ctx context.Context, r Review) (Review, error)
	Update(ctx context.Context, id string, rating int, comment string) (Review, error)
	Delete(ctx context.Context, id string) error
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	reviews map[string]Review
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{reviews: make(map[string]Review)}
}

func (m *InMemoryRepository) GetByID(_ context.Context, id string) (Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reviews[id]
	if !ok {
		return Review{}, ErrNotFound
	}
	return r, nil
}

func (m *InMemoryRepository) Create(_ context.Context, r Review) (Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.UserID == r.UserID && existing.ProductID == r.ProductID {
			return Review{}, ErrAlreadyReviewed
		}
	}
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	m.reviews[r.ID] = r
	return r, nil
}

func (m *InMemoryRepository) Update(_ context.Context, id string, rating int, comment string) (Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return Review{}, ErrNotFound
	}
	r.Rating, r.Comment = rating, comment
	m.reviews[id] = r
	return r, nil
}

func (m *InMemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}
