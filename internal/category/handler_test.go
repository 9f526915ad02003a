package category

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

	"github.com/wichananm65/storefront-backend/internal/server"
)

func fakeGate(c *fiber.Ctx) error {
	v := utils.CopyString(c.Get("X-User-ID"))
	if v == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Access denied. No token provided.")
	}
	c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"id": v, "role": utils.CopyString(c.Get("X-Role"))}})
	return c.Next()
}

func makeAppWithCategoryHandler(repo Repository) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: server.ErrorHandler(nil)})
	NewHandler(NewService(repo)).RegisterRoutes(app.Group("/api"), fakeGate)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("X-User-ID", "someone")
		req.Header.Set("X-Role", role)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestCategoryRoutes(t *testing.T) {
	toys := Category{ID: uuid.NewString(), Name: "Toys", Products: []Product{{ID: uuid.NewString(), Name: "Ball", ActualPrice: decimal.NewFromInt(5)}}}
	app := makeAppWithCategoryHandler(NewInMemoryRepository([]Category{toys}))

	code, body := call(t, app, "GET", "/api/category", "", "")
	if code != fiber.StatusOK || !strings.Contains(body, `"name":"Ball"`) {
		t.Fatalf("expected categories with products, got %d %s", code, body)
	}

	code, _ = call(t, app, "POST", "/api/category", "USER", `{"name":"Food"}`)
	if code != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin create, got %d", code)
	}
	code, body = call(t, app, "POST", "/api/category", "ADMIN", `{}`)
	if code != fiber.StatusBadRequest || !strings.Contains(body, "Category name is required.") {
		t.Fatalf("expected 400 for empty name, got %d %s", code, body)
	}
	code, body = call(t, app, "POST", "/api/category", "ADMIN", `{"name":"toys"}`)
	if code != fiber.StatusBadRequest || !strings.Contains(body, "Category already exists.") {
		t.Fatalf("expected duplicate rejection, got %d %s", code, body)
	}

	code, body = call(t, app, "POST", "/api/category", "ADMIN", `{"name":"Food"}`)
	if code != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d %s", code, body)
	}
	var food Category
	if err := json.Unmarshal([]byte(body), &food); err != nil {
		t.Fatalf("decode: %v", err)
	}

	code, body = call(t, app, "PUT", "/api/category/"+food.ID, "ADMIN", `{"name":"Treats"}`)
	if code != fiber.StatusOK || !strings.Contains(body, "Treats") {
		t.Fatalf("expected rename, got %d %s", code, body)
	}

	code, _ = call(t, app, "GET", "/api/category?limit=1", "", "")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 with limit, got %d", code)
	}

	code, _ = call(t, app, "DELETE", "/api/category/"+toys.ID, "ADMIN", "")
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 deleting category with products, got %d", code)
	}
	code, body = call(t, app, "DELETE", "/api/category/"+food.ID, "ADMIN", "")
	if code != fiber.StatusOK || !strings.Contains(body, "Category deleted successfully.") {
		t.Fatalf("expected delete, got %d %s", code, body)
	}
	code, body = call(t, app, "GET", "/api/category/"+food.ID, "", "")
	if code != fiber.StatusNotFound || !strings.Contains(body, "Category not found.") {
		t.Fatalf("expected 404, got %d %s", code, body)
	}
}
