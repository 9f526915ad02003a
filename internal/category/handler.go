package category

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-backend/internal/auth"
	"github.com/wichananm65/storefront-backend/internal/server"
)

type Handler struct {
	service *Service
}

type nameRequest struct {
	Name string `json:"name" validate:"required"`
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(api fiber.Router, gate fiber.Handler) {
	api.Get("/category", h.getCategories)
	api.Get("/category/:id", h.getCategory)

	api.Post("/category", gate, auth.RequireAdmin, h.createCategory)
	api.Put("/category/:id", gate, auth.RequireAdmin, h.updateCategory)
	api.Delete("/category/:id", gate, auth.RequireAdmin, h.deleteCategory)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), c.QueryInt("limit", defaultLimit))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *Handler) getCategory(c *fiber.Ctx) error {
	cat, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(cat)
}

func (h *Handler) createCategory(c *fiber.Ctx) error {
	var in nameRequest
	if err := server.BindJSON(c, &in, "Category name is required."); err != nil {
		return err
	}
	cat, err := h.service.Create(c.UserContext(), in.Name)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (h *Handler) updateCategory(c *fiber.Ctx) error {
	var in nameRequest
	if err := server.BindJSON(c, &in, "Category name is required."); err != nil {
		return err
	}
	cat, err := h.service.Rename(c.UserContext(), c.Params("id"), in.Name)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(cat)
}

func (h *Handler) deleteCategory(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully."})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Category not found.")
	case errors.Is(err, ErrNameExists):
		return fiber.NewError(fiber.StatusBadRequest, "Category already exists.")
	case errors.Is(err, ErrInUse):
		return fiber.NewError(fiber.StatusBadRequest, "Category still has products.")
	default:
		return err
	}
}
