package recommended

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const listQuery = `
	SELECT p.id, p.name, p.actual_price, p.discounted_price,
		(SELECT i.image_url FROM product_images i WHERE i.product_id = p.id ORDER BY i.id LIMIT 1),
		COALESCE(AVG(r.rating), 0)::float8 AS avg_rating,
		COUNT(r.id) AS review_count
	FROM products p
	LEFT JOIN reviews r ON r.product_id = p.id
	GROUP BY p.id
	ORDER BY avg_rating DESC, review_count DESC, p.created_at DESC
	LIMIT $1 OFFSET $2
`

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, listQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recommended: %w", err)
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		var (
			it  Item
			img sql.NullString
		)
		if err := rows.Scan(&it.ProductID, &it.Name, &it.ActualPrice, &it.DiscountedPrice, &img, &it.AverageRating, &it.ReviewCount); err != nil {
			return nil, err
		}
		if img.Valid {
			it.ImageURL = &img.String
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
