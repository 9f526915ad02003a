package user

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
	userColumns = `id, name, email, password, phone, role, created_at, updated_at`

	getUserByIDQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	getUserByEmailQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1)
	`
	insertUserQuery = `
		INSERT INTO users (id, name, email, password, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	updateProfileQuery = `
		UPDATE users
		SET name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			updated_at = $4
		WHERE id = $1
		RETURNING ` + userColumns
	deleteUserQuery = `DELETE FROM users WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserByEmailQuery, email))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) Create(ctx context.Context, u User) (User, error) {
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, insertUserQuery,
		u.ID, u.Name, u.Email, u.Password, u.Phone, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrEmailExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (User, error) {
	row := r.db.QueryRowContext(ctx, updateProfileQuery, id, nullable(upd.Name), nullable(upd.Phone), time.Now().UTC())
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteUserQuery, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(s rowScanner) (User, error) {
	var u User
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
