package admin

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Admin struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrNotFound           = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (Admin, error)
	// Upsert inserts a by email and leaves an existing row untouched.
	Upsert(ctx context.Context, a Admin) (Admin, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	admins map[string]Admin // keyed by lower-cased email
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{admins: make(map[string]Admin)}
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.admins[strings.ToLower(email)]
	if !ok {
		return Admin{}, ErrNotFound
	}
	return a, nil
}

func (r *InMemoryRepository) Upsert(_ context.Context, a Admin) (Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(a.Email)
	if existing, ok := r.admins[key]; ok {
		return existing, nil
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	r.admins[key] = a
	return a, nil
}
