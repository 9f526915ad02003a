package review

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-backend/internal/auth"
	"github.com/wichananm65/storefront-backend/internal/server"
)

type Handler struct {
	service *Service
}

type addRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required"`
	Comment   string `json:"comment"`
}

type updateRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(api fiber.Router, gate fiber.Handler) {
	g := api.Group("/review", gate)
	g.Post("/", h.add)
	g.Put("/:reviewId", h.update)
	g.Delete("/:reviewId", h.delete)
}

func (h *Handler) add(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var in addRequest
	if err := server.BindJSON(c, &in, "Product ID and rating are required."); err != nil {
		return err
	}
	r, err := h.service.Add(c.UserContext(), userID, in.ProductID, in.Rating, in.Comment)
	if err != nil {
		return toHTTPError(err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Review added successfully", "review": r})
}

func (h *Handler) update(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var in updateRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
	}
	if in.Rating == nil && in.Comment == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Rating or comment is required.")
	}
	r, err := h.service.Update(c.UserContext(), userID, c.Params("reviewId"), in.Rating, in.Comment)
	if err != nil {
		return toHTTPError(err, "You can only update your own reviews.")
	}
	return c.JSON(fiber.Map{"message": "Review updated successfully", "updatedReview": r})
}

func (h *Handler) delete(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), userID, c.Params("reviewId")); err != nil {
		return toHTTPError(err, "You can only delete your own reviews.")
	}
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}

func toHTTPError(err error, forbidden string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Review not found.")
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, forbidden)
	case errors.Is(err, ErrProductNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Product not found.")
	case errors.Is(err, ErrAlreadyReviewed):
		return fiber.NewError(fiber.StatusBadRequest, "You have already reviewed this product.")
	case errors.Is(err, ErrInvalidRating):
		return fiber.NewError(fiber.StatusBadRequest, "Rating must be between 1 and 5.")
	default:
		return err
	}
}
