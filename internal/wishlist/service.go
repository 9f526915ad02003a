package wishlist

import (
	"context"

	"github.com/google/uuid"
)

type ProductChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo     Repository
	products ProductChecker
}

func NewService(repo Repository, products ProductChecker) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) Get(ctx context.Context, userID string) (Wishlist, error) {
	return s.repo.Get(ctx, userID)
}

func (s *Service) Add(ctx context.Context, userID, productID string) (Wishlist, error) {
	if productID == "" {
		return Wishlist{}, ErrProductRequired
	}
	if uuid.Validate(productID) != nil {
		return Wishlist{}, ErrProductNotFound
	}
	ok, err := s.products.Exists(ctx, productID)
	if err != nil {
		return Wishlist{}, err
	}
	if !ok {
		return Wishlist{}, ErrProductNotFound
	}
	return s.repo.Add(ctx, userID, productID)
}

func (s *Service) Remove(ctx context.Context, userID, productID string) (Wishlist, error) {
	if productID == "" {
		return Wishlist{}, ErrProductRequired
	}
	if uuid.Validate(productID) != nil {
		return Wishlist{}, ErrNotInWishlist
	}
	return s.repo.Remove(ctx, userID, productID)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}
