//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/wichananm65/storefront-backend/internal/address"
	"github.com/wichananm65/storefront-backend/internal/cart"
	"github.com/wichananm65/storefront-backend/internal/category"
	"github.com/wichananm65/storefront-backend/internal/db"
	"github.com/wichananm65/storefront-backend/internal/events"
	"github.com/wichananm65/storefront-backend/internal/order"
	"github.com/wichananm65/storefront-backend/internal/product"
	"github.com/wichananm65/storefront-backend/internal/user"
)

func TestCheckoutIntegration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	pgC, dsn := startPostgres(ctx, t)
	defer terminateContainer(t, pgC)

	logger := log.New(io.Discard, "", log.LstdFlags)
	require.NoError(t, db.RunMigrations(dsn, logger))

	conn, err := db.Open(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close()

	users := user.NewService(user.NewPostgresRepository(conn))
	categories := category.NewService(category.NewPostgresRepository(conn))
	products := product.NewService(product.NewPostgresRepository(conn))
	addresses := address.NewService(address.NewPostgresRepository(conn))
	carts := cart.NewService(cart.NewPostgresRepository(conn), products)
	orders := order.NewService(order.NewPostgresRepository(conn), events.NewLogPublisher(logger), logger)

	u, err := users.Register(ctx, user.User{Name: "Jane", Email: "jane@example.com", Password: "secret123", Phone: "555-0100"})
	require.NoError(t, err)

	cat, err := categories.Create(ctx, "Toys")
	require.NoError(t, err)

	priceA := decimal.NewFromInt(100)
	a, err := products.Create(ctx, product.Input{Name: "A", ActualPrice: &priceA, CategoryID: cat.ID, ImageURL: []string{"https://img/a.png"}})
	require.NoError(t, err)
	priceB := decimal.NewFromInt(80)
	b, err := products.Create(ctx, product.Input{
		Name:            "B",
		ActualPrice:     &priceB,
		DiscountedPrice: decimal.NewNullDecimal(decimal.NewFromInt(50)),
		CategoryID:      cat.ID,
		ImageURL:        []string{"https://img/b.png"},
	})
	require.NoError(t, err)

	addr, err := addresses.Create(ctx, u.ID, address.Fields{Address: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US"})
	require.NoError(t, err)

	// empty cart first
	_, err = orders.Place(ctx, u.ID, order.ShippingInput{AddressID: addr.ID, Name: "Jane", Phone: "555-0100"}, "")
	require.ErrorIs(t, err, order.ErrEmptyCart)

	two, one := 2, 1
	_, created, err := carts.Add(ctx, u.ID, a.ID, &one)
	require.NoError(t, err)
	require.True(t, created)
	_, created, err = carts.Add(ctx, u.ID, a.ID, &one)
	require.NoError(t, err)
	require.False(t, created)
	_, _, err = carts.Add(ctx, u.ID, b.ID, nil)
	require.NoError(t, err)

	lines, err := carts.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for _, l := range lines {
		if l.ProductID == a.ID {
			require.Equal(t, two, l.Quantity)
		}
	}

	placed, err := orders.Place(ctx, u.ID, order.ShippingInput{AddressID: addr.ID, Name: "Jane", Phone: "555-0100"}, "it-1")
	require.NoError(t, err)
	require.True(t, placed.TotalPrice.Equal(decimal.NewFromInt(250)), placed.TotalPrice.String())

	lines, err = carts.List(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, lines)

	newPrice := decimal.NewFromInt(300)
	_, err = products.Update(ctx, a.ID, product.Patch{ActualPrice: &newPrice})
	require.NoError(t, err)

	got, err := orders.Get(ctx, u.ID, false, placed.ID)
	require.NoError(t, err)
	require.True(t, got.TotalPrice.Equal(decimal.NewFromInt(250)))
	require.Len(t, got.Items, 2)
	for _, it := range got.Items {
		switch it.ProductID {
		case a.ID:
			require.True(t, it.Price.Equal(decimal.NewFromInt(100)))
			require.Equal(t, 2, it.Quantity)
		case b.ID:
			require.True(t, it.Price.Equal(decimal.NewFromInt(50)))
		}
	}
	require.Equal(t, "Springfield", got.Shipping.Address.City)

	_, err = orders.UpdateStatus(ctx, placed.ID, order.Status("BOGUS"))
	require.ErrorIs(t, err, order.ErrInvalidStatus)
	shipped, err := orders.UpdateStatus(ctx, placed.ID, order.StatusShipped)
	require.NoError(t, err)
	require.Equal(t, order.StatusShipped, shipped.Status)

	tracking := "TRK-1"
	s, err := orders.UpdateShipping(ctx, placed.ID, order.ShippingInTransit, &tracking)
	require.NoError(t, err)
	require.Equal(t, "TRK-1", *s.TrackingNumber)

	mine, err := orders.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func startPostgres(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "storefront"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/storefront?sslmode=disable", host, mappedPort.Port())
	return container, dsn
}

func terminateContainer(t *testing.T, c testcontainers.Container) {
	t.Helper()
	terminateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, c.Terminate(terminateCtx))
}
