package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wichananm65/storefront-backend/internal/db"
)

// Default names Postgres gives the inline REFERENCES clauses in 0001_init.
const (
	cartUserFK        = "carts_user_id_fkey"
	cartItemProductFK = "cart_items_product_id_fkey"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	ensureCartQuery = `
		INSERT INTO carts (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id
	`
	// xmax is zero only for a freshly inserted row.
	upsertItemQuery = `
		INSERT INTO cart_items (id, cart_id, product_id, quantity) VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, (xmax = 0)
	`
	itemSelect = `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, c.user_id,
			p.name, p.actual_price, p.discounted_price
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		JOIN products p ON p.id = ci.product_id
	`
	listItemsQuery   = itemSelect + ` WHERE c.user_id = $1 ORDER BY p.name, ci.id`
	getItemQuery     = itemSelect + ` WHERE ci.id = $1`
	setQuantityQuery = `UPDATE cart_items SET quantity = $2 WHERE id = $1`
	removeItemQuery  = `DELETE FROM cart_items WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AddItem(ctx context.Context, userID, productID string, qty int) (Item, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Item{}, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var cartID string
	if err := tx.QueryRowContext(ctx, ensureCartQuery, uuid.NewString(), userID).Scan(&cartID); err != nil {
		if db.IsForeignKeyViolation(err) && db.ConstraintName(err) == cartUserFK {
			return Item{}, false, ErrNotCustomer
		}
		return Item{}, false, fmt.Errorf("ensure cart: %w", err)
	}

	var (
		itemID  string
		created bool
	)
	err = tx.QueryRowContext(ctx, upsertItemQuery, uuid.NewString(), cartID, productID, qty).Scan(&itemID, &created)
	if err != nil {
		if db.IsForeignKeyViolation(err) && db.ConstraintName(err) == cartItemProductFK {
			return Item{}, false, ErrProductNotFound
		}
		return Item{}, false, fmt.Errorf("upsert cart item: %w", err)
	}

	it, err := scanItem(tx.QueryRowContext(ctx, getItemQuery, itemID))
	if err != nil {
		return Item{}, false, fmt.Errorf("load cart item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Item{}, false, fmt.Errorf("commit: %w", err)
	}
	return it, created, nil
}

func (r *PostgresRepository) ListItems(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, listItemsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetItem(ctx context.Context, id string) (Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, getItemQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	return it, err
}

func (r *PostgresRepository) SetQuantity(ctx context.Context, id string, qty int) (Item, error) {
	res, err := r.db.ExecContext(ctx, setQuantityQuery, id, qty)
	if err != nil {
		return Item{}, fmt.Errorf("update cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Item{}, ErrItemNotFound
	}
	return r.GetItem(ctx, id)
}

func (r *PostgresRepository) RemoveItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, removeItemQuery, id)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func scanItem(s rowScanner) (Item, error) {
	var (
		it Item
		p  ProductSummary
	)
	if err := s.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.UserID,
		&p.Name, &p.ActualPrice, &p.DiscountedPrice); err != nil {
		return Item{}, err
	}
	p.ID = it.ProductID
	it.Product = &p
	return it, nil
}
