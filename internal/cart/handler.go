package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-backend/internal/auth"
)

type Handler struct {
	service *Service
}

type addRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

type updateRequest struct {
	Quantity *int `json:"quantity"`
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(api fiber.Router, gate fiber.Handler) {
	g := api.Group("/cart", gate)
	g.Post("/", h.addToCart)
	g.Get("/", h.getCart)
	g.Put("/:cartItemId", h.updateItem)
	g.Delete("/:cartItemId", h.removeItem)
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var in addRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
	}

	item, created, err := h.service.Add(c.UserContext(), userID, in.ProductID, in.Quantity)
	if err != nil {
		return toHTTPError(err, "")
	}
	if created {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product added to cart.", "cartItem": item})
	}
	return c.JSON(fiber.Map{"message": "Product quantity updated in the cart.", "cartItem": item})
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"cartItems": items})
}

func (h *Handler) updateItem(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var in updateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
		}
	}

	item, err := h.service.Update(c.UserContext(), userID, c.Params("cartItemId"), in.Quantity)
	if err != nil {
		return toHTTPError(err, "You can only update your own cart items.")
	}
	return c.JSON(fiber.Map{"message": "Cart item updated successfully", "cartItem": item})
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Remove(c.UserContext(), userID, c.Params("cartItemId")); err != nil {
		return toHTTPError(err, "You can only remove your own cart items.")
	}
	return c.JSON(fiber.Map{"message": "Cart item removed."})
}

func toHTTPError(err error, forbidden string) error {
	switch {
	case errors.Is(err, ErrProductRequired):
		return fiber.NewError(fiber.StatusBadRequest, "Product ID is required.")
	case errors.Is(err, ErrInvalidQuantity):
		return fiber.NewError(fiber.StatusBadRequest, "Quantity must be a positive number.")
	case errors.Is(err, ErrProductNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Product not found.")
	case errors.Is(err, ErrItemNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Cart item not found.")
	case errors.Is(err, ErrNotCustomer):
		return fiber.NewError(fiber.StatusForbidden, "Only customer accounts have a cart.")
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, forbidden)
	default:
		return err
	}
}
