package admin

import (
	"context"
	"io"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/storefront-backend/internal/auth"
	"github.com/wichananm65/storefront-backend/internal/server"
)

func TestAdminLogin(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	_, err := svc.EnsureSeed(context.Background(), "Admin", "admin@store.test", "pw123")
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: server.ErrorHandler(nil)})
	NewHandler(svc, auth.NewIssuer("s", time.Hour)).RegisterRoutes(app.Group("/api"))

	post := func(body string) (int, string) {
		req := httptest.NewRequest("POST", "/api/auth/admin/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		res, err := app.Test(req)
		require.NoError(t, err)
		b, _ := io.ReadAll(res.Body)
		return res.StatusCode, string(b)
	}

	code, body := post(`{"email":"admin@store.test"}`)
	require.Equal(t, fiber.StatusBadRequest, code)
	require.Contains(t, body, "Email and password are required.")

	code, body = post(`{"email":"admin@store.test","password":"nope"}`)
	require.Equal(t, fiber.StatusBadRequest, code)
	require.Contains(t, body, "Invalid credentials.")

	code, body = post(`{"email":"admin@store.test","password":"pw123"}`)
	require.Equal(t, fiber.StatusOK, code)
	require.Contains(t, body, `"token"`)
	require.NotContains(t, body, "password")
}

func TestEnsureSeed_KeepsExistingAdmin(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo)
	first, err := svc.EnsureSeed(context.Background(), "Admin", "admin@store.test", "original")
	require.NoError(t, err)
	second, err := svc.EnsureSeed(context.Background(), "Admin", "ADMIN@store.test", "changed")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	_, err = svc.Authenticate(context.Background(), "admin@store.test", "original")
	require.NoError(t, err)
	_, err = svc.Authenticate(context.Background(), "admin@store.test", "changed")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPostgresRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (email) DO NOTHING")).
		WithArgs(sqlmock.AnyArg(), "Admin", "admin@store.test", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM admins")).
		WithArgs("admin@store.test").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "created_at"}).
			AddRow("a1", "Admin", "admin@store.test", "hash", time.Now()))

	a, err := NewPostgresRepository(db).Upsert(context.Background(), Admin{Name: "Admin", Email: "admin@store.test", Password: "hash"})
	require.NoError(t, err)
	require.Equal(t, "a1", a.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
