package address

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
	addressColumns = `id, user_id, address, city, state, postal_code, country, created_at`

	listAddressesQuery = `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at
	`
	getAddressQuery = `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE id = $1 AND user_id = $2
	`
	insertAddressQuery = `
		INSERT INTO addresses (id, user_id, address, city, state, postal_code, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	updateAddressQuery = `
		UPDATE addresses
		SET address = $3, city = $4, state = $5, postal_code = $6, country = $7
		WHERE id = $1 AND user_id = $2
		RETURNING ` + addressColumns
	deleteAddressQuery = `DELETE FROM addresses WHERE id = $1 AND user_id = $2`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]Address, error) {
	rows, err := r.db.QueryContext(ctx, listAddressesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (Address, error) {
	a, err := scanAddress(r.db.QueryRowContext(ctx, getAddressQuery, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Address{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, f Fields) (Address, error) {
	a := Address{ID: uuid.NewString(), UserID: userID, CreatedAt: time.Now().UTC()}
	a.apply(f)
	_, err := r.db.ExecContext(ctx, insertAddressQuery,
		a.ID, a.UserID, a.Address, a.City, a.State, a.PostalCode, a.Country, a.CreatedAt)
	if err != nil {
		return Address{}, fmt.Errorf("insert address: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID, id string, f Fields) (Address, error) {
	row := r.db.QueryRowContext(ctx, updateAddressQuery,
		id, userID, f.Address, f.City, f.State, f.PostalCode, f.Country)
	a, err := scanAddress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Address{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, deleteAddressQuery, id, userID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("delete address: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAddress(s rowScanner) (Address, error) {
	var a Address
	err := s.Scan(&a.ID, &a.UserID, &a.Address, &a.City, &a.State, &a.PostalCode, &a.Country, &a.CreatedAt)
	return a, err
}
