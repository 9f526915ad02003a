package recommended

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterRoutes must run before the product routes so that
// /products/recommended is not taken as a product id.
func (h *Handler) RegisterRoutes(api fiber.Router) {
	api.Get("/products/recommended", h.getRecommended)
}

func (h *Handler) getRecommended(c *fiber.Ctx) error {
	// ?limit=12&offset=0
	limit, offset := 0, 0
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil {
			limit = v
		}
	}
	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil {
			offset = v
		}
	}
	items, err := h.service.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": items})
}
