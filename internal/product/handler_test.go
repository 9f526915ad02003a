package product

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/storefront-backend/internal/server"
)

// fakeGate reads X-User-ID and X-Role instead of verifying a bearer token.
func fakeGate(c *fiber.Ctx) error {
	v := utils.CopyString(c.Get("X-User-ID"))
	if v == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Access denied. No token provided.")
	}
	role := utils.CopyString(c.Get("X-Role"))
	if role == "" {
		role = "USER"
	}
	c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"id": v, "role": role}})
	return c.Next()
}

func makeAppWithProductHandler(repo Repository) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: server.ErrorHandler(nil)})
	NewHandler(NewService(repo)).RegisterRoutes(app.Group("/api"), fakeGate)
	return app
}

func send(t *testing.T, app *fiber.App, method, path, role, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("X-User-ID", uuid.NewString())
		req.Header.Set("X-Role", role)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

var (
	catToys = CategoryRef{ID: uuid.NewString(), Name: "Toys"}
	catFood = CategoryRef{ID: uuid.NewString(), Name: "Food"}
)

func seedProducts() []Product {
	now := time.Now().UTC()
	return []Product{
		{ID: uuid.NewString(), Name: "Squeaky Ball", ActualPrice: decimal.NewFromInt(10), Tags: []string{"dog", "toy"}, CategoryID: catToys.ID, CreatedAt: now},
		{ID: uuid.NewString(), Name: "Cat Tower", ActualPrice: decimal.NewFromInt(90), Tags: []string{"cat"}, CategoryID: catToys.ID, CreatedAt: now.Add(time.Second)},
		{ID: uuid.NewString(), Name: "Kibble", ActualPrice: decimal.NewFromInt(25), Tags: []string{"dog"}, CategoryID: catFood.ID, CreatedAt: now.Add(2 * time.Second)},
	}
}

func TestProductRoutes_ListFilters(t *testing.T) {
	app := makeAppWithProductHandler(NewInMemoryRepository(seedProducts(), catToys, catFood))

	count := func(query string) int {
		code, body := send(t, app, "GET", "/api/products"+query, "", "")
		if code != fiber.StatusOK {
			t.Fatalf("expected 200 for %q, got %d", query, code)
		}
		var out []Product
		if err := json.Unmarshal([]byte(body), &out); err != nil {
			t.Fatalf("decode %q: %v", body, err)
		}
		return len(out)
	}

	if n := count(""); n != 3 {
		t.Fatalf("expected 3 products, got %d", n)
	}
	if n := count("?categoryId=" + catToys.ID); n != 2 {
		t.Fatalf("expected 2 toys, got %d", n)
	}
	if n := count("?tag=dog"); n != 2 {
		t.Fatalf("expected 2 dog products, got %d", n)
	}
	if n := count("?search=KIB"); n != 1 {
		t.Fatalf("expected case-insensitive search to match 1, got %d", n)
	}
	if n := count("?tag=dog&categoryId=" + catFood.ID); n != 1 {
		t.Fatalf("expected combined filter to match 1, got %d", n)
	}
}

func TestProductRoutes_AdminWrites(t *testing.T) {
	repo := NewInMemoryRepository(nil, catToys)
	app := makeAppWithProductHandler(repo)
	create := `{"name":"Rope","actualPrice":12.5,"discountedPrice":9.99,"categoryId":"` + catToys.ID + `","tags":["dog"],"imageUrl":["/img/rope.png"]}`

	code, _ := send(t, app, "POST", "/api/products", "", create)
	if code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}
	code, _ = send(t, app, "POST", "/api/products", "USER", create)
	if code != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", code)
	}

	code, body := send(t, app, "POST", "/api/products", "ADMIN", `{"name":"Rope","actualPrice":12.5,"categoryId":"`+catToys.ID+`","imageUrl":[]}`)
	if code != fiber.StatusBadRequest || !strings.Contains(body, msgCreateRequired) {
		t.Fatalf("expected 400 without images, got %d %s", code, body)
	}
	code, _ = send(t, app, "POST", "/api/products", "ADMIN", `{"name":"Rope","actualPrice":0,"categoryId":"`+catToys.ID+`","imageUrl":["/x"]}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for zero price, got %d", code)
	}
	code, _ = send(t, app, "POST", "/api/products", "ADMIN", `{"name":"Rope","actualPrice":5,"categoryId":"`+uuid.NewString()+`","imageUrl":["/x"]}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", code)
	}

	code, body = send(t, app, "POST", "/api/products", "ADMIN", create)
	if code != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d %s", code, body)
	}
	var created struct {
		Product Product `json:"product"`
	}
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	p := created.Product
	if len(p.Images) != 1 || p.Images[0].ImageURL != "/img/rope.png" {
		t.Fatalf("expected one image, got %+v", p.Images)
	}
	if !p.EffectivePrice().Equal(decimal.RequireFromString("9.99")) {
		t.Fatalf("expected discounted effective price, got %s", p.EffectivePrice())
	}
	if p.Category == nil || p.Category.Name != "Toys" {
		t.Fatalf("expected category attached, got %+v", p.Category)
	}

	code, body = send(t, app, "PUT", "/api/products/"+p.ID, "ADMIN", `{"name":"Long Rope","imageUrl":["/a.png","/b.png"]}`)
	if code != fiber.StatusOK || !strings.Contains(body, "Long Rope") || !strings.Contains(body, "/b.png") || strings.Contains(body, "/img/rope.png") {
		t.Fatalf("expected renamed product with replaced images, got %d %s", code, body)
	}

	code, _ = send(t, app, "DELETE", "/api/products/"+p.ID, "ADMIN", "")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", code)
	}
	code, body = send(t, app, "GET", "/api/products/"+p.ID, "", "")
	if code != fiber.StatusNotFound || !strings.Contains(body, "Product not found") {
		t.Fatalf("expected 404 after delete, got %d %s", code, body)
	}
}

func TestProductRoutes_UpdateDiscountAndImages(t *testing.T) {
	repo := NewInMemoryRepository(nil, catToys)
	app := makeAppWithProductHandler(repo)

	code, body := send(t, app, "POST", "/api/products", "ADMIN", `{"name":"Leash","actualPrice":20,"discountedPrice":15,"categoryId":"`+catToys.ID+`","imageUrl":["/leash.png"]}`)
	if code != fiber.StatusCreated {
		t.Fatalf("create: %d %s", code, body)
	}
	var created struct {
		Product Product `json:"product"`
	}
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	path := "/api/products/" + created.Product.ID

	// omitted discount stays
	code, body = send(t, app, "PUT", path, "ADMIN", `{"name":"Long Leash"}`)
	if code != fiber.StatusOK {
		t.Fatalf("rename: %d %s", code, body)
	}
	p, _ := repo.GetByID(context.Background(), created.Product.ID)
	if !p.DiscountedPrice.Valid || !p.DiscountedPrice.Decimal.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected discount kept, got %+v", p.DiscountedPrice)
	}

	code, body = send(t, app, "PUT", path, "ADMIN", `{"discountedPrice":null}`)
	if code != fiber.StatusOK {
		t.Fatalf("clear discount: %d %s", code, body)
	}
	p, _ = repo.GetByID(context.Background(), created.Product.ID)
	if p.DiscountedPrice.Valid {
		t.Fatalf("expected discount cleared, got %s", p.DiscountedPrice.Decimal)
	}
	if !p.EffectivePrice().Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected actual price after clearing discount, got %s", p.EffectivePrice())
	}

	code, body = send(t, app, "PUT", path, "ADMIN", `{"imageUrl":[]}`)
	if code != fiber.StatusBadRequest || !strings.Contains(body, "At least one image URL is required.") {
		t.Fatalf("expected 400 for empty image list, got %d %s", code, body)
	}
	p, _ = repo.GetByID(context.Background(), created.Product.ID)
	if len(p.Images) != 1 || p.Images[0].ImageURL != "/leash.png" {
		t.Fatalf("expected images untouched, got %+v", p.Images)
	}
}

func TestEffectivePrice(t *testing.T) {
	p := Product{ActualPrice: decimal.NewFromInt(100)}
	if !p.EffectivePrice().Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected actual price without discount")
	}
	p.DiscountedPrice = decimal.NewNullDecimal(decimal.NewFromInt(80))
	if !p.EffectivePrice().Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected discounted price")
	}
}
