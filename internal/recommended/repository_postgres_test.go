package recommended

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN reviews r")).
		WithArgs(12, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "actual_price", "discounted_price", "image_url", "avg_rating", "review_count"}).
			AddRow("p1", "Ball", "10.00", "7.50", "https://img/ball.png", 4.5, 2).
			AddRow("p2", "Bone", "3.00", nil, nil, 0.0, 0))

	items, err := NewService(NewPostgresRepository(db)).List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 4.5, items[0].AverageRating)
	require.Equal(t, "https://img/ball.png", *items[0].ImageURL)
	require.True(t, items[0].DiscountedPrice.Valid)
	require.Nil(t, items[1].ImageURL)
	require.NoError(t, mock.ExpectationsWereMet())
}
