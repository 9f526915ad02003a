package recommended

import "context"

const (
	defaultLimit = 12
	maxLimit     = 50
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns up to limit items starting at offset. Out of range values
// fall back to the defaults.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Item, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)
	offset = max(offset, 0)
	return s.repo.List(ctx, limit, offset)
}
