package product

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id string) (Product, error) {
	if uuid.Validate(id) != nil {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Exists lets other packages check a product reference.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	if in.ActualPrice == nil || !in.ActualPrice.IsPositive() || negative(in.DiscountedPrice.Valid, in.DiscountedPrice.Decimal) {
		return Product{}, ErrInvalidInput
	}
	if uuid.Validate(in.CategoryID) != nil {
		return Product{}, ErrCategoryNotFound
	}
	return s.repo.Create(ctx, in.toProduct())
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (Product, error) {
	if uuid.Validate(id) != nil {
		return Product{}, ErrNotFound
	}
	if patch.ActualPrice != nil && !patch.ActualPrice.IsPositive() {
		return Product{}, ErrInvalidInput
	}
	if negative(patch.DiscountedPrice.Value.Valid, patch.DiscountedPrice.Value.Decimal) {
		return Product{}, ErrInvalidInput
	}
	if patch.ImageURL != nil && !validImages(patch.ImageURL) {
		return Product{}, ErrNoImages
	}
	if patch.CategoryID != nil && uuid.Validate(*patch.CategoryID) != nil {
		return Product{}, ErrCategoryNotFound
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func validImages(urls []string) bool {
	if len(urls) == 0 {
		return false
	}
	for _, u := range urls {
		if u == "" {
			return false
		}
	}
	return true
}
