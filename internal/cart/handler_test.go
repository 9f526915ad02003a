package cart

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

func makeAppWithCartHandler(productIDs ...string) *fiber.App {
	seed := make([]product.Product, 0, len(productIDs))
	summaries := make([]ProductSummary, 0, len(productIDs))
	for _, id := range productIDs {
		seed = append(seed, product.Product{ID: id, Name: "Item " + id[:4], ActualPrice: decimal.NewFromInt(10)})
		summaries = append(summaries, ProductSummary{ID: id, Name: "Item " + id[:4], ActualPrice: decimal.NewFromInt(10)})
	}
	products := product.NewService(product.NewInMemoryRepository(seed))

	app := fiber.New(fiber.Config{ErrorHandler: server.ErrorHandler(nil)})
	NewHandler(NewService(NewInMemoryRepository(summaries...), products)).RegisterRoutes(app.Group("/api"), fakeGate)
	return app
}

func request(t *testing.T, app *fiber.App, method, path, userID, body string) (int, []byte) {
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
	return res.StatusCode, b
}

type itemBody struct {
	Message  string `json:"message"`
	CartItem Item   `json:"cartItem"`
}

func TestCartRoutes_AddIncrementsExistingLine(t *testing.T) {
	pid := uuid.NewString()
	app := makeAppWithCartHandler(pid)

	code, _ := request(t, app, "GET", "/api/cart", "", "")
	require.Equal(t, fiber.StatusUnauthorized, code)

	code, b := request(t, app, "GET", "/api/cart", "u1", "")
	require.Equal(t, fiber.StatusOK, code)
	require.JSONEq(t, `{"cartItems":[]}`, string(b))

	code, b = request(t, app, "POST", "/api/cart", "u1", `{"productId":"`+pid+`"}`)
	require.Equal(t, fiber.StatusCreated, code, string(b))
	var first itemBody
	require.NoError(t, json.Unmarshal(b, &first))
	require.Equal(t, "Product added to cart.", first.Message)
	require.Equal(t, 1, first.CartItem.Quantity)

	code, b = request(t, app, "POST", "/api/cart", "u1", `{"productId":"`+pid+`","quantity":2}`)
	require.Equal(t, fiber.StatusOK, code)
	var second itemBody
	require.NoError(t, json.Unmarshal(b, &second))
	require.Equal(t, "Product quantity updated in the cart.", second.Message)
	require.Equal(t, first.CartItem.ID, second.CartItem.ID)
	require.Equal(t, 3, second.CartItem.Quantity)

	code, b = request(t, app, "GET", "/api/cart", "u1", "")
	require.Equal(t, fiber.StatusOK, code)
	var listed struct {
		CartItems []Item `json:"cartItems"`
	}
	require.NoError(t, json.Unmarshal(b, &listed))
	require.Len(t, listed.CartItems, 1)
	require.Equal(t, 3, listed.CartItems[0].Quantity)
	require.NotNil(t, listed.CartItems[0].Product)
}

func TestCartRoutes_AddValidation(t *testing.T) {
	pid := uuid.NewString()
	app := makeAppWithCartHandler(pid)

	cases := []struct {
		name string
		body string
		code int
		msg  string
	}{
		{"missing product", `{"quantity":1}`, fiber.StatusBadRequest, "Product ID is required."},
		{"zero quantity", `{"productId":"` + pid + `","quantity":0}`, fiber.StatusBadRequest, "Quantity must be a positive number."},
		{"negative quantity", `{"productId":"` + pid + `","quantity":-3}`, fiber.StatusBadRequest, "Quantity must be a positive number."},
		{"unknown product", `{"productId":"` + uuid.NewString() + `"}`, fiber.StatusNotFound, "Product not found."},
		{"malformed product id", `{"productId":"nope"}`, fiber.StatusNotFound, "Product not found."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, b := request(t, app, "POST", "/api/cart", "u1", tc.body)
			require.Equal(t, tc.code, code)
			require.Contains(t, string(b), tc.msg)
		})
	}

	_, b := request(t, app, "GET", "/api/cart", "u1", "")
	require.JSONEq(t, `{"cartItems":[]}`, string(b))
}

func TestCartRoutes_UpdateAndRemoveOwnership(t *testing.T) {
	pid := uuid.NewString()
	app := makeAppWithCartHandler(pid)

	_, b := request(t, app, "POST", "/api/cart", "u1", `{"productId":"`+pid+`","quantity":4}`)
	var added itemBody
	require.NoError(t, json.Unmarshal(b, &added))
	path := "/api/cart/" + added.CartItem.ID

	code, b := request(t, app, "PUT", path, "u2", `{"quantity":1}`)
	require.Equal(t, fiber.StatusForbidden, code)
	require.Contains(t, string(b), "You can only update your own cart items.")

	code, _ = request(t, app, "PUT", path, "u1", `{"quantity":0}`)
	require.Equal(t, fiber.StatusBadRequest, code)

	code, b = request(t, app, "PUT", path, "u1", `{}`)
	require.Equal(t, fiber.StatusOK, code)
	var updated itemBody
	require.NoError(t, json.Unmarshal(b, &updated))
	require.Equal(t, "Cart item updated successfully", updated.Message)
	require.Equal(t, 1, updated.CartItem.Quantity)

	code, b = request(t, app, "DELETE", path, "u2", "")
	require.Equal(t, fiber.StatusForbidden, code)
	require.Contains(t, string(b), "You can only remove your own cart items.")

	code, b = request(t, app, "DELETE", path, "u1", "")
	require.Equal(t, fiber.StatusOK, code)
	require.Contains(t, string(b), "Cart item removed.")

	code, b = request(t, app, "DELETE", path, "u1", "")
	require.Equal(t, fiber.StatusNotFound, code)
	require.Contains(t, string(b), "Cart item not found.")

	code, _ = request(t, app, "PUT", "/api/cart/not-a-uuid", "u1", `{"quantity":2}`)
	require.Equal(t, fiber.StatusNotFound, code)
}
