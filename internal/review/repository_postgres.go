package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wichananm65/storefront-backend/internal/db"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	reviewColumns = `id, user_id, product_id, rating, comment, created_at`

	getReviewQuery    = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	insertReviewQuery = `
		INSERT INTO reviews (id, user_id, product_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	updateReviewQuery = `
		UPDATE reviews SET rating = $2, comment = $3
		WHERE id = $1
		RETURNING ` + reviewColumns
	deleteReviewQuery = `DELETE FROM reviews WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (p *PostgresRepository) GetByID(ctx context.Context, id string) (Review, error) {
	r, err := scanReview(p.db.QueryRowContext(ctx, getReviewQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Review{}, ErrNotFound
	}
	return r, err
}

// Create relies on the (user_id, product_id) unique key to reject a second
// review of the same product.
func (p *PostgresRepository) Create(ctx context.Context, r Review) (Review, error) {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	_, err := p.db.ExecContext(ctx, insertReviewQuery, r.ID, r.UserID, r.ProductID, r.Rating, r.Comment, r.CreatedAt)
	if err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return Review{}, ErrAlreadyReviewed
		case db.IsForeignKeyViolation(err):
			return Review{}, ErrProductNotFound
		}
		return Review{}, fmt.Errorf("insert review: %w", err)
	}
	return r, nil
}

func (p *PostgresRepository) Update(ctx context.Context, id string, rating int, comment string) (Review, error) {
	r, err := scanReview(p.db.QueryRowContext(ctx, updateReviewQuery, id, rating, comment))
	if errors.Is(err, sql.ErrNoRows) {
		return Review{}, ErrNotFound
	}
	return r, err
}

func (p *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, deleteReviewQuery, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReview(s rowScanner) (Review, error) {
	var r Review
	err := s.Scan(&r.ID, &r.UserID, &r.ProductID, &r.Rating, &r.Comment, &r.CreatedAt)
	return r, err
}
