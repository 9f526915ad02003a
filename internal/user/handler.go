package user

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-backend/internal/address"
	"github.com/wichananm65/storefront-backend/internal/auth"
	"github.com/wichananm65/storefront-backend/internal/server"
)

// AddressLister supplies the addresses embedded in the profile response.
type AddressLister interface {
	List(ctx context.Context, userID string) ([]address.Address, error)
}

type Handler struct {
	service   *Service
	tokens    *auth.Issuer
	revoked   auth.RevocationStore
	addresses AddressLister
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

type profileResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	CreatedAt time.Time         `json:"createdAt"`
	Addresses []address.Address `json:"addresses"`
}

func NewHandler(service *Service, tokens *auth.Issuer, revoked auth.RevocationStore, addresses AddressLister) *Handler {
	return &Handler{service: service, tokens: tokens, revoked: revoked, addresses: addresses}
}

func (h *Handler) RegisterRoutes(api fiber.Router, gate fiber.Handler) {
	api.Post("/auth/user/register", h.register)
	api.Post("/auth/user/login", h.login)
	api.Post("/auth/logout", gate, h.logout)

	api.Get("/profile", gate, h.getProfile)
	api.Put("/profile", gate, h.updateProfile)
	api.Delete("/profile", gate, h.deleteProfile)
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := server.BindJSON(c, payload, "All fields are required."); err != nil {
		return err
	}

	created, err := h.service.Register(c.UserContext(), User{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Phone:    payload.Phone,
	})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return fiber.NewError(fiber.StatusBadRequest, "User already exists with this email.")
		}
		return err
	}

	token, err := h.tokens.Issue(created.ID, created.Role)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    created,
		"token":   token,
	})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := server.BindJSON(c, payload, "Email and password are required."); err != nil {
		return err
	}

	u, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid credentials.")
		}
		return err
	}

	token, err := h.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    u,
		"token":   token,
	})
}

// logout revokes the presented token for the rest of its lifetime.
func (h *Handler) logout(c *fiber.Ctx) error {
	jti, exp, err := auth.TokenID(c)
	if err != nil {
		return err
	}
	if err := h.revoked.Revoke(c.UserContext(), jti, time.Until(exp)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	u, err := h.service.GetByID(c.UserContext(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	addrs, err := h.addresses.List(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(profileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		Addresses: addrs,
	})
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var payload ProfileUpdate
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
	}

	updated, err := h.service.UpdateProfile(c.UserContext(), userID, payload)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully", "user": updated})
}

func (h *Handler) deleteProfile(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), userID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"message": "Profile deleted successfully"})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	case errors.Is(err, ErrInUse):
		return fiber.NewError(fiber.StatusBadRequest, "Account has orders and cannot be deleted.")
	default:
		return err
	}
}
