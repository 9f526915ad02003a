package wishlist

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-backend/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(api fiber.Router, gate fiber.Handler) {
	api.Get("/wishlist", gate, h.getWishlist)
	api.Post("/wishlist", gate, h.addProduct)
	api.Delete("/wishlist", gate, h.removeProduct)
	api.Delete("/clear-wishlist", gate, h.clearWishlist)
}

type wishlistRequest struct {
	ProductID string `json:"productId"`
}

func (h *Handler) addProduct(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var in wishlistRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
	}
	w, err := h.service.Add(c.UserContext(), userID, in.ProductID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product added to wishlist.", "wishlist": w})
}

func (h *Handler) removeProduct(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var in wishlistRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
		}
	}
	w, err := h.service.Remove(c.UserContext(), userID, in.ProductID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"message": "Product removed from wishlist.", "wishlist": w})
}

func (h *Handler) getWishlist(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	w, err := h.service.Get(c.UserContext(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"wishlist": w})
}

func (h *Handler) clearWishlist(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Clear(c.UserContext(), userID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"message": "Wishlist cleared."})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrProductRequired):
		return fiber.NewError(fiber.StatusBadRequest, "Product ID is required.")
	case errors.Is(err, ErrProductNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Product not found.")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Wishlist not found.")
	case errors.Is(err, ErrAlreadyInWishlist):
		return fiber.NewError(fiber.StatusBadRequest, "Product already in the wishlist.")
	case errors.Is(err, ErrNotInWishlist):
		return fiber.NewError(fiber.StatusBadRequest, "Product not in wishlist.")
	default:
		return err
	}
}
