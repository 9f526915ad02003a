package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a Postgres unique constraint
// failure, whichever driver produced it.
func IsUniqueViolation(err error) bool {
	return sqlState(err) == uniqueViolation
}

// IsForeignKeyViolation reports whether err is a Postgres foreign key
// constraint failure.
func IsForeignKeyViolation(err error) bool {
	return sqlState(err) == foreignKeyViolation
}

// ConstraintName returns the constraint a Postgres error names, or "".
func ConstraintName(err error) string {
	_, name := pgDetails(err)
	return name
}

func sqlState(err error) string {
	code, _ := pgDetails(err)
	return code
}

func pgDetails(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}
