package admin

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (Admin, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Admin{}, ErrInvalidCredentials
		}
		return Admin{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) != nil {
		return Admin{}, ErrInvalidCredentials
	}
	return a, nil
}

// EnsureSeed creates the bootstrap admin if no admin with that email exists.
// An existing admin keeps its current password.
func (s *Service) EnsureSeed(ctx context.Context, name, email, password string) (Admin, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Admin{}, err
	}
	return s.repo.Upsert(ctx, Admin{Name: name, Email: email, Password: string(hashed)})
}
