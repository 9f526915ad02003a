package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wichananm65/storefront-backend/internal/db"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

const (
	listCategoriesQuery = `SELECT id, name, created_at FROM categories ORDER BY name LIMIT $1`
	getCategoryQuery    = `SELECT id, name, created_at FROM categories WHERE id = $1`
	productsByCategoriesQuery = `
		SELECT id, name, actual_price, discounted_price, category_id
		FROM products
		WHERE category_id = ANY($1::uuid[])
		ORDER BY created_at
	`
	insertCategoryQuery = `INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`
	renameCategoryQuery = `UPDATE categories SET name = $2 WHERE id = $1 RETURNING id, name, created_at`
	deleteCategoryQuery = `DELETE FROM categories WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns up to limit categories ordered by name.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, listCategoriesQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, r.attachProducts(ctx, out)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx, getCategoryQuery, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, err
	}
	out := []Category{c}
	if err := r.attachProducts(ctx, out); err != nil {
		return Category{}, err
	}
	return out[0], nil
}

func (r *PostgresRepository) Create(ctx context.Context, name string) (Category, error) {
	c := Category{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC(), Products: []Product{}}
	if _, err := r.db.ExecContext(ctx, insertCategoryQuery, c.ID, c.Name, c.CreatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			return Category{}, ErrNameExists
		}
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, id, name string) (Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx, renameCategoryQuery, id, name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Category{}, ErrNotFound
	case db.IsUniqueViolation(err):
		return Category{}, ErrNameExists
	case err != nil:
		return Category{}, fmt.Errorf("rename category: %w", err)
	}
	c.Products = []Product{}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteCategoryQuery, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) attachProducts(ctx context.Context, cats []Category) error {
	if len(cats) == 0 {
		return nil
	}
	ids := make([]string, len(cats))
	index := make(map[string]int, len(cats))
	for i := range cats {
		ids[i] = cats[i].ID
		index[cats[i].ID] = i
		cats[i].Products = []Product{}
	}

	rows, err := r.db.QueryContext(ctx, productsByCategoriesQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load category products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.ActualPrice, &p.DiscountedPrice, &p.CategoryID); err != nil {
			return err
		}
		if i, ok := index[p.CategoryID]; ok {
			cats[i].Products = append(cats[i].Products, p)
		}
	}
	return rows.Err()
}
