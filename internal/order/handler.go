package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-backend/internal/auth"
	"github.com/wichananm65/storefront-backend/internal/server"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(api fiber.Router, gate fiber.Handler) {
	g := api.Group("/order", gate)
	g.Post("/", h.placeOrder)
	g.Get("/", h.listOrders)
	g.Get("/:orderId", h.getOrder)
	g.Patch("/:orderId/status", auth.RequireAdmin, h.updateStatus)
	g.Patch("/:orderId/shipping", auth.RequireAdmin, h.updateShipping)
}

type placeRequest struct {
	Shipping ShippingInput `json:"shipping"`
}

type statusRequest struct {
	Status Status `json:"status"`
}

type shippingRequest struct {
	Status         ShippingStatus `json:"status"`
	TrackingNumber *string        `json:"trackingNumber"`
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var in placeRequest
	if err := server.BindJSON(c, &in, "Shipping address, name and phone are required."); err != nil {
		return err
	}
	requestID, _ := c.Locals("requestid").(string)

	o, err := h.service.Place(c.UserContext(), userID, in.Shipping, requestID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Order placed successfully", "order": o})
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	o, err := h.service.Get(c.UserContext(), userID, auth.IsAdmin(c), c.Params("orderId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(o)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	orders, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	var in statusRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
	}
	o, err := h.service.UpdateStatus(c.UserContext(), c.Params("orderId"), in.Status)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"message": "Order status updated successfully", "order": o})
}

func (h *Handler) updateShipping(c *fiber.Ctx) error {
	var in shippingRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
	}
	s, err := h.service.UpdateShipping(c.UserContext(), c.Params("orderId"), in.Status, in.TrackingNumber)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"message": "Shipping status updated successfully", "shipping": s})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrAddressNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Address not found.")
	case errors.Is(err, ErrEmptyCart):
		return fiber.NewError(fiber.StatusBadRequest, "Cart is empty.")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Order not found.")
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "You can only view your own orders.")
	case errors.Is(err, ErrInvalidStatus):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order status.")
	case errors.Is(err, ErrInvalidShippingStatus):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid shipping status.")
	default:
		return err
	}
}
