package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-backend/internal/auth"
	"github.com/wichananm65/storefront-backend/internal/server"
)

type Handler struct {
	service *Service
	tokens  *auth.Issuer
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func NewHandler(s *Service, tokens *auth.Issuer) *Handler {
	return &Handler{service: s, tokens: tokens}
}

func (h *Handler) RegisterRoutes(api fiber.Router) {
	api.Post("/auth/admin/login", h.login)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := server.BindJSON(c, payload, "Email and password are required."); err != nil {
		return err
	}

	a, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid credentials.")
		}
		return err
	}

	token, err := h.tokens.Issue(a.ID, auth.RoleAdmin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"admin":   a,
		"token":   token,
	})
}
