package category

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository_ListAttachesProducts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM categories ORDER BY name LIMIT $1")).WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow("c1", "Food", time.Now()).
			AddRow("c2", "Toys", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("FROM products")).WithArgs(`{"c1","c2"}`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "actual_price", "discounted_price", "category_id"}).
			AddRow("p1", "Ball", "5.00", nil, "c2"))

	cats, err := NewPostgresRepository(db).List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	require.Empty(t, cats[0].Products)
	require.Len(t, cats[1].Products, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO categories")).
		WithArgs(sqlmock.AnyArg(), "Toys", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = NewPostgresRepository(db).Create(context.Background(), "Toys")
	require.ErrorIs(t, err, ErrNameExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_DeleteInUse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories")).WithArgs("c1").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err = NewPostgresRepository(db).Delete(context.Background(), "c1")
	require.ErrorIs(t, err, ErrInUse)
	require.NoError(t, mock.ExpectationsWereMet())
}
