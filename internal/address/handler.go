package address

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-backend/internal/auth"
	"github.com/wichananm65/storefront-backend/internal/server"
)

const msgFieldsRequired = "All address fields are required."

// Handler delegates address operations to the address service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(api fiber.Router, gate fiber.Handler) {
	g := api.Group("/addresses", gate)
	g.Post("/", h.create)
	g.Get("/", h.list)
	g.Get("/:addressId", h.get)
	g.Put("/:addressId", h.update)
	g.Delete("/:addressId", h.delete)
}

func (h *Handler) create(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var in Fields
	if err := server.BindJSON(c, &in, msgFieldsRequired); err != nil {
		return err
	}
	a, err := h.service.Create(c.UserContext(), userID, in)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Address created successfully.",
		"address": a,
	})
}

func (h *Handler) list(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	addrs, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"addresses": addrs})
}

func (h *Handler) get(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	a, err := h.service.Get(c.UserContext(), userID, c.Params("addressId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"address": a})
}

func (h *Handler) update(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var in Fields
	if err := server.BindJSON(c, &in, msgFieldsRequired); err != nil {
		return err
	}
	a, err := h.service.Update(c.UserContext(), userID, c.Params("addressId"), in)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{
		"message": "Address updated successfully.",
		"address": a,
	})
}

func (h *Handler) delete(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), userID, c.Params("addressId")); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"message": "Address deleted successfully."})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Address not found.")
	case errors.Is(err, ErrInUse):
		return fiber.NewError(fiber.StatusBadRequest, "Address is used by an order.")
	default:
		return err
	}
}
