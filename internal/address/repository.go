package address

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("address not found")
	ErrInUse    = errors.New("address used by an order")
)

// Repository scopes every lookup to the owning user; an address owned by
// someone else is reported as ErrNotFound.
type Repository interface {
	List(ctx context.Context, userID string) ([]Address, error)
	Get(ctx context.Context, userID, id string) (Address, error)
	Create(ctx context.Context, userID string, f Fields) (Address, error)
	Update(ctx context.Context, userID, id string, f Fields) (Address, error)
	Delete(ctx context.Context, userID, id string) error
}

// InMemoryRepository for tests
type InMemoryRepository struct {
	mu   sync.RWMutex
	data map[string]Address // keyed by address id
}

func NewInMemoryRepository(seed []Address) *InMemoryRepository {
	r := &InMemoryRepository{data: make(map[string]Address, len(seed))}
	for _, a := range seed {
		r.data[a.ID] = a
	}
	return r
}

func (r *InMemoryRepository) List(_ context.Context, userID string) ([]Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Address, 0)
	for _, a := range r.data {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) Get(_ context.Context, userID, id string) (Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.data[id]
	if !ok || a.UserID != userID {
		return Address{}, ErrNotFound
	}
	return a, nil
}

func (r *InMemoryRepository) Create(_ context.Context, userID string, f Fields) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := Address{ID: uuid.NewString(), UserID: userID, CreatedAt: time.Now().UTC()}
	a.apply(f)
	r.data[a.ID] = a
	return a, nil
}

func (r *InMemoryRepository) Update(_ context.Context, userID, id string, f Fields) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok || a.UserID != userID {
		return Address{}, ErrNotFound
	}
	a.apply(f)
	r.data[id] = a
	return a, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok || a.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (a *Address) apply(f Fields) {
	a.Address = f.Address
	a.City = f.City
	a.State = f.State
	a.PostalCode = f.PostalCode
	a.Country = f.Country
}
