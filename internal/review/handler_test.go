package review

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/storefront-backend/internal/product"
	"github.com/wichananm65/storefront-backend/internal/server"
)

func fakeGate(c *fiber.Ctx) error {
	v := utils.CopyString(c.Get("X-User-ID"))
	if v == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Access denied. No token provided.")
	}
	c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"id": v, "role": "USER"}})
	return c.Next()
}

func makeAppWithReviewHandler(productID string) *fiber.App {
	products := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: productID, Name: "Ball", ActualPrice: decimal.NewFromInt(5), CategoryID: uuid.NewString()},
	}))
	app := fiber.New(fiber.Config{ErrorHandler: server.ErrorHandler(nil)})
	NewHandler(NewService(NewInMemoryRepository(), products)).RegisterRoutes(app.Group("/api"), fakeGate)
	return app
}

func request(t *testing.T, app *fiber.App, method, path, userID, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestReviewLifecycle(t *testing.T) {
	productID := uuid.NewString()
	app := makeAppWithReviewHandler(productID)

	code, _ := request(t, app, "POST", "/api/review", "", `{"productId":"`+productID+`","rating":5}`)
	require.Equal(t, fiber.StatusUnauthorized, code)

	code, body := request(t, app, "POST", "/api/review", "u1", `{"comment":"nice"}`)
	require.Equal(t, fiber.StatusBadRequest, code)
	require.Contains(t, body, "Product ID and rating are required.")

	code, body = request(t, app, "POST", "/api/review", "u1", `{"productId":"`+uuid.NewString()+`","rating":4}`)
	require.Equal(t, fiber.StatusNotFound, code)
	require.Contains(t, body, "Product not found.")

	code, _ = request(t, app, "POST", "/api/review", "u1", `{"productId":"`+productID+`","rating":9}`)
	require.Equal(t, fiber.StatusBadRequest, code)

	code, body = request(t, app, "POST", "/api/review", "u1", `{"productId":"`+productID+`","rating":4,"comment":"good"}`)
	require.Equal(t, fiber.StatusCreated, code, body)
	var created struct {
		Review Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	code, body = request(t, app, "POST", "/api/review", "u1", `{"productId":"`+productID+`","rating":3}`)
	require.Equal(t, fiber.StatusBadRequest, code)
	require.Contains(t, body, "You have already reviewed this product.")

	path := "/api/review/" + created.Review.ID
	code, body = request(t, app, "PUT", path, "u1", `{}`)
	require.Equal(t, fiber.StatusBadRequest, code)
	require.Contains(t, body, "Rating or comment is required.")

	code, body = request(t, app, "PUT", path, "u2", `{"rating":1}`)
	require.Equal(t, fiber.StatusForbidden, code)
	require.Contains(t, body, "You can only update your own reviews.")

	code, body = request(t, app, "PUT", path, "u1", `{"comment":"great actually"}`)
	require.Equal(t, fiber.StatusOK, code)
	require.Contains(t, body, `"rating":4`)
	require.Contains(t, body, "great actually")

	code, body = request(t, app, "DELETE", path, "u2", "")
	require.Equal(t, fiber.StatusForbidden, code)
	require.Contains(t, body, "You can only delete your own reviews.")

	code, _ = request(t, app, "DELETE", path, "u1", "")
	require.Equal(t, fiber.StatusOK, code)

	code, body = request(t, app, "DELETE", path, "u1", "")
	require.Equal(t, fiber.StatusNotFound, code)
	require.Contains(t, body, "Review not found.")
}
