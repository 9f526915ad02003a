package product

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-backend/internal/auth"
	"github.com/wichananm65/storefront-backend/internal/server"
)

const msgCreateRequired = "Name, price, category, and at least one image URL are required."

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts public reads and admin-only writes.
func (h *Handler) RegisterRoutes(api fiber.Router, gate fiber.Handler) {
	api.Get("/products", h.getProducts)
	api.Get("/products/:id", h.getProduct)

	api.Post("/products", gate, auth.RequireAdmin, h.createProduct)
	api.Put("/products/:id", gate, auth.RequireAdmin, h.updateProduct)
	api.Delete("/products/:id", gate, auth.RequireAdmin, h.deleteProduct)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext(), Filter{
		CategoryID: c.Query("categoryId"),
		Tag:        c.Query("tag"),
		Search:     c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(p)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	var in Input
	if err := server.BindJSON(c, &in, msgCreateRequired); err != nil {
		return err
	}
	p, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"product": p,
	})
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	var patch Patch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
	}
	p, err := h.service.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{
		"message":        "Product updated successfully",
		"updatedProduct": p,
	})
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	case errors.Is(err, ErrCategoryNotFound):
		return fiber.NewError(fiber.StatusBadRequest, "Category not found.")
	case errors.Is(err, ErrNoImages):
		return fiber.NewError(fiber.StatusBadRequest, "At least one image URL is required.")
	case errors.Is(err, ErrInUse):
		return fiber.NewError(fiber.StatusBadRequest, "Product is part of an order and cannot be deleted.")
	case errors.Is(err, ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, "Prices must be positive numbers.")
	default:
		return err
	}
}
