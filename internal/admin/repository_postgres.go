package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getAdminByEmailQuery = `
		SELECT id, name, email, password, created_at
		FROM admins
		WHERE lower(email) = lower($1)
	`
	upsertAdminQuery = `
		INSERT INTO admins (id, name, email, password, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (Admin, error) {
	var a Admin
	err := r.db.QueryRowContext(ctx, getAdminByEmailQuery, email).
		Scan(&a.ID, &a.Name, &a.Email, &a.Password, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepository) Upsert(ctx context.Context, a Admin) (Admin, error) {
	_, err := r.db.ExecContext(ctx, upsertAdminQuery,
		uuid.NewString(), a.Name, a.Email, a.Password, time.Now().UTC())
	if err != nil {
		return Admin{}, fmt.Errorf("upsert admin: %w", err)
	}
	return r.GetByEmail(ctx, a.Email)
}
