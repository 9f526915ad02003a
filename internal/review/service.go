package review

import (
	"context"

	"github.com/google/uuid"
)

// ProductChecker reports whether a product exists.
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

func (s *Service) Add(ctx context.Context, userID, productID string, rating int, comment string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, ErrInvalidRating
	}
	ok, err := s.products.Exists(ctx, productID)
	if err != nil {
		return Review{}, err
	}
	if !ok {
		return Review{}, ErrProductNotFound
	}
	return s.repo.Create(ctx, Review{UserID: userID, ProductID: productID, Rating: rating, Comment: comment})
}

// Update changes rating and/or comment; nil leaves the stored value.
func (s *Service) Update(ctx context.Context, userID, id string, rating *int, comment *string) (Review, error) {
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return Review{}, err
	}
	newRating, newComment := existing.Rating, existing.Comment
	if rating != nil {
		if *rating < 1 || *rating > 5 {
			return Review{}, ErrInvalidRating
		}
		newRating = *rating
	}
	if comment != nil {
		newComment = *comment
	}
	return s.repo.Update(ctx, id, newRating, newComment)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) owned(ctx context.Context, userID, id string) (Review, error) {
	if uuid.Validate(id) != nil {
		return Review{}, ErrNotFound
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Review{}, err
	}
	if r.UserID != userID {
		return Review{}, ErrForbidden
	}
	return r, nil
}
