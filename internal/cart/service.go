package cart

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

// Add puts qty units of a product in the user's cart. A nil qty means one.
func (s *Service) Add(ctx context.Context, userID, productID string, qty *int) (Item, bool, error) {
	if productID == "" {
		return Item{}, false, ErrProductRequired
	}
	n, err := quantity(qty)
	if err != nil {
		return Item{}, false, err
	}
	if uuid.Validate(productID) != nil {
		return Item{}, false, ErrProductNotFound
	}
	ok, err := s.products.Exists(ctx, productID)
	if err != nil {
		return Item{}, false, err
	}
	if !ok {
		return Item{}, false, ErrProductNotFound
	}
	return s.repo.AddItem(ctx, userID, productID, n)
}

func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	return s.repo.ListItems(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, itemID string, qty *int) (Item, error) {
	n, err := quantity(qty)
	if err != nil {
		return Item{}, err
	}
	if _, err := s.owned(ctx, userID, itemID); err != nil {
		return Item{}, err
	}
	return s.repo.SetQuantity(ctx, itemID, n)
}

func (s *Service) Remove(ctx context.Context, userID, itemID string) error {
	if _, err := s.owned(ctx, userID, itemID); err != nil {
		return err
	}
	return s.repo.RemoveItem(ctx, itemID)
}

func (s *Service) owned(ctx context.Context, userID, itemID string) (Item, error) {
	if uuid.Validate(itemID) != nil {
		return Item{}, ErrItemNotFound
	}
	it, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return Item{}, err
	}
	if it.UserID != userID {
		return Item{}, ErrForbidden
	}
	return it, nil
}

func quantity(qty *int) (int, error) {
	if qty == nil {
		return 1, nil
	}
	if *qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	return *qty, nil
}
