package wishlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wichananm65/storefront-backend/internal/db"
)

type PostgresRepository struct {
	db *sql.DB
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	getWishlistQuery    = `SELECT id FROM wishlists WHERE user_id = $1`
	ensureWishlistQuery = `
		INSERT INTO wishlists (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id
	`
	wishlistProductIDsQuery = `SELECT product_id FROM wishlist_products WHERE wishlist_id = $1 ORDER BY product_id`
	getProductsQuery        = `
		SELECT p.id, p.name, p.actual_price, p.discounted_price
		FROM products p
		WHERE p.id = ANY($1::uuid[])
		ORDER BY array_position($1::uuid[], p.id)
	`
	addProductQuery    = `INSERT INTO wishlist_products (wishlist_id, product_id) VALUES ($1, $2)`
	removeProductQuery = `DELETE FROM wishlist_products WHERE wishlist_id = $1 AND product_id = $2`
	clearQuery         = `DELETE FROM wishlist_products WHERE wishlist_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (Wishlist, error) {
	id, err := r.wishlistID(ctx, userID)
	if err != nil {
		return Wishlist{}, err
	}
	return load(ctx, r.db, id, userID)
}

func (r *PostgresRepository) Add(ctx context.Context, userID, productID string) (Wishlist, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Wishlist{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id string
	if err := tx.QueryRowContext(ctx, ensureWishlistQuery, uuid.NewString(), userID).Scan(&id); err != nil {
		return Wishlist{}, fmt.Errorf("ensure wishlist: %w", err)
	}
	if _, err := tx.ExecContext(ctx, addProductQuery, id, productID); err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return Wishlist{}, ErrAlreadyInWishlist
		case db.IsForeignKeyViolation(err):
			return Wishlist{}, ErrProductNotFound
		}
		return Wishlist{}, fmt.Errorf("add wishlist product: %w", err)
	}

	w, err := load(ctx, tx, id, userID)
	if err != nil {
		return Wishlist{}, err
	}
	if err := tx.Commit(); err != nil {
		return Wishlist{}, fmt.Errorf("commit: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, productID string) (Wishlist, error) {
	id, err := r.wishlistID(ctx, userID)
	if err != nil {
		return Wishlist{}, err
	}
	res, err := r.db.ExecContext(ctx, removeProductQuery, id, productID)
	if err != nil {
		return Wishlist{}, fmt.Errorf("remove wishlist product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Wishlist{}, ErrNotInWishlist
	}
	return load(ctx, r.db, id, userID)
}

func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	id, err := r.wishlistID(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, clearQuery, id); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}

func (r *PostgresRepository) wishlistID(ctx context.Context, userID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, getWishlistQuery, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}

func load(ctx context.Context, q querier, id, userID string) (Wishlist, error) {
	w := Wishlist{ID: id, UserID: userID, Products: []ProductSummary{}}

	rows, err := q.QueryContext(ctx, wishlistProductIDsQuery, id)
	if err != nil {
		return Wishlist{}, fmt.Errorf("list wishlist products: %w", err)
	}
	var ids []string
	for rows.Next() {
		var pid string
		if err := rows.Scan(&pid); err != nil {
			rows.Close()
			return Wishlist{}, err
		}
		ids = append(ids, pid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Wishlist{}, err
	}
	if len(ids) == 0 {
		return w, nil
	}

	prows, err := q.QueryContext(ctx, getProductsQuery, pq.Array(ids))
	if err != nil {
		return Wishlist{}, fmt.Errorf("load wishlist products: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var p ProductSummary
		if err := prows.Scan(&p.ID, &p.Name, &p.ActualPrice, &p.DiscountedPrice); err != nil {
			return Wishlist{}, err
		}
		w.Products = append(w.Products, p)
	}
	return w, prows.Err()
}
