package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wichananm65/storefront-backend/internal/address"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	findAddressQuery = `
		SELECT id, user_id, address, city, state, postal_code, country, created_at
		FROM addresses WHERE id = $1 AND user_id = $2
	`
	// Locking the cart row serialises concurrent checkouts of the same user.
	lockCartQuery  = `SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`
	cartLinesQuery = `
		SELECT ci.product_id, ci.quantity, COALESCE(p.discounted_price, p.actual_price)
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`
	insertOrderQuery = `
		INSERT INTO orders (id, user_id, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`
	insertItemQuery = `
		INSERT INTO order_items (id, order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`
	insertShippingQuery = `
		INSERT INTO shipping (id, order_id, address_id, name, phone, shipping_notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`
	clearCartQuery = `DELETE FROM cart_items WHERE cart_id = $1`

	orderColumns    = `id, user_id, total_price, status, created_at, updated_at`
	shippingColumns = `id, order_id, address_id, name, phone, shipping_notes, status, tracking_number, created_at, updated_at`

	getOrderQuery   = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	listOrdersQuery = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	itemsQuery      = `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, p.name
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1::uuid[])
		ORDER BY oi.order_id, oi.id
	`
	shippingQuery = `
		SELECT s.id, s.order_id, s.address_id, s.name, s.phone, s.shipping_notes, s.status,
			s.tracking_number, s.created_at, s.updated_at,
			a.user_id, a.address, a.city, a.state, a.postal_code, a.country, a.created_at
		FROM shipping s
		JOIN addresses a ON a.id = s.address_id
		WHERE s.order_id = ANY($1::uuid[])
	`
	paymentsQuery = `
		SELECT id, order_id, amount, status, provider, created_at
		FROM payments WHERE order_id = ANY($1::uuid[])
	`

	updateStatusQuery   = `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`
	updateShippingQuery = `
		UPDATE shipping SET status = $2, tracking_number = COALESCE($3, tracking_number), updated_at = $4
		WHERE order_id = $1
		RETURNING ` + shippingColumns
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Place(ctx context.Context, userID string, in ShippingInput) (Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var addr address.Address
	err = tx.QueryRowContext(ctx, findAddressQuery, in.AddressID, userID).Scan(
		&addr.ID, &addr.UserID, &addr.Address, &addr.City, &addr.State, &addr.PostalCode, &addr.Country, &addr.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrAddressNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("find address: %w", err)
	}

	var cartID string
	err = tx.QueryRowContext(ctx, lockCartQuery, userID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrEmptyCart
	}
	if err != nil {
		return Order{}, fmt.Errorf("lock cart: %w", err)
	}

	lines, err := readCartLines(ctx, tx, cartID)
	if err != nil {
		return Order{}, err
	}
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	now := time.Now().UTC()
	o := Order{ID: uuid.NewString(), UserID: userID, Status: StatusPending, CreatedAt: now, UpdatedAt: now}
	o.Items, o.TotalPrice = BuildItems(o.ID, lines)

	if _, err := tx.ExecContext(ctx, insertOrderQuery, o.ID, o.UserID, o.TotalPrice, o.Status, now); err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	for _, it := range o.Items {
		if _, err := tx.ExecContext(ctx, insertItemQuery, it.ID, it.OrderID, it.ProductID, it.Quantity, it.Price); err != nil {
			return Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	o.Shipping = &Shipping{
		ID:            uuid.NewString(),
		OrderID:       o.ID,
		AddressID:     addr.ID,
		Name:          in.Name,
		Phone:         in.Phone,
		ShippingNotes: in.ShippingNotes,
		Status:        ShippingPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		Address:       &addr,
	}
	s := o.Shipping
	if _, err := tx.ExecContext(ctx, insertShippingQuery,
		s.ID, s.OrderID, s.AddressID, s.Name, s.Phone, s.ShippingNotes, s.Status, now); err != nil {
		return Order{}, fmt.Errorf("insert shipping: %w", err)
	}

	if _, err := tx.ExecContext(ctx, clearCartQuery, cartID); err != nil {
		return Order{}, fmt.Errorf("clear cart: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Order{}, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

func readCartLines(ctx context.Context, tx *sql.Tx, cartID string) ([]CartLine, error) {
	rows, err := tx.QueryContext(ctx, cartLinesQuery, cartID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	defer rows.Close()

	var lines []CartLine
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, getOrderQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	orders := []Order{o}
	if err := r.attach(ctx, orders); err != nil {
		return Order{}, err
	}
	return orders[0], nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attach(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	res, err := r.db.ExecContext(ctx, updateStatusQuery, id, status, time.Now().UTC())
	if err != nil {
		return Order{}, fmt.Errorf("update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) UpdateShipping(ctx context.Context, orderID string, status ShippingStatus, trackingNumber *string) (Shipping, error) {
	s, err := scanShipping(r.db.QueryRowContext(ctx, updateShippingQuery, orderID, status, trackingNumber, time.Now().UTC()))
	if errors.Is(err, sql.ErrNoRows) {
		return Shipping{}, ErrNotFound
	}
	if err != nil {
		return Shipping{}, fmt.Errorf("update shipping: %w", err)
	}
	return s, nil
}

// attach loads items, shipping and payment for every order in one query each.
func (r *PostgresRepository) attach(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []Item{}
	}

	rows, err := r.db.QueryContext(ctx, itemsQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	for rows.Next() {
		var (
			it Item
			p  ProductSummary
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price, &p.Name); err != nil {
			rows.Close()
			return err
		}
		p.ID = it.ProductID
		it.Product = &p
		o := &orders[index[it.OrderID]]
		o.Items = append(o.Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.QueryContext(ctx, shippingQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load shipping: %w", err)
	}
	for rows.Next() {
		var (
			s Shipping
			a address.Address
		)
		if err := rows.Scan(&s.ID, &s.OrderID, &s.AddressID, &s.Name, &s.Phone, &s.ShippingNotes, &s.Status,
			&s.TrackingNumber, &s.CreatedAt, &s.UpdatedAt,
			&a.UserID, &a.Address, &a.City, &a.State, &a.PostalCode, &a.Country, &a.CreatedAt); err != nil {
			rows.Close()
			return err
		}
		a.ID = s.AddressID
		s.Address = &a
		orders[index[s.OrderID]].Shipping = &s
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.QueryContext(ctx, paymentsQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Status, &p.Provider, &p.CreatedAt); err != nil {
			return err
		}
		orders[index[p.OrderID]].Payment = &p
	}
	return rows.Err()
}

func scanOrder(s rowScanner) (Order, error) {
	var o Order
	err := s.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func scanShipping(s rowScanner) (Shipping, error) {
	var sh Shipping
	err := s.Scan(&sh.ID, &sh.OrderID, &sh.AddressID, &sh.Name, &sh.Phone, &sh.ShippingNotes, &sh.Status,
		&sh.TrackingNumber, &sh.CreatedAt, &sh.UpdatedAt)
	return sh, err
}
