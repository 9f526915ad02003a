package address

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string) ([]Address, error) {
	return s.repo.List(ctx, userID)
}

// Get returns ErrNotFound for ids that are not even well-formed.
func (s *Service) Get(ctx context.Context, userID, id string) (Address, error) {
	if uuid.Validate(id) != nil {
		return Address{}, ErrNotFound
	}
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Create(ctx context.Context, userID string, f Fields) (Address, error) {
	return s.repo.Create(ctx, userID, f)
}

func (s *Service) Update(ctx context.Context, userID, id string, f Fields) (Address, error) {
	if uuid.Validate(id) != nil {
		return Address{}, ErrNotFound
	}
	return s.repo.Update(ctx, userID, id, f)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, userID, id)
}
