package category

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const defaultLimit = 100

// Service provides business logic for categories.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns up to limit categories; non-positive limits use the default.
func (s *Service) List(ctx context.Context, limit int) ([]Category, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.repo.List(ctx, limit)
}

func (s *Service) GetByID(ctx context.Context, id string) (Category, error) {
	if uuid.Validate(id) != nil {
		return Category{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string) (Category, error) {
	return s.repo.Create(ctx, strings.TrimSpace(name))
}

func (s *Service) Rename(ctx context.Context, id, name string) (Category, error) {
	if uuid.Validate(id) != nil {
		return Category{}, ErrNotFound
	}
	return s.repo.Rename(ctx, id, strings.TrimSpace(name))
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
