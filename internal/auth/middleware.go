package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
)

const (
	msgNoToken      = "Access denied. No token provided."
	msgInvalidToken = "Invalid or expired token."
	msgAdminOnly    = "Admin access required."
)

// New returns the bearer-token gate. A verified token is placed in
// c.Locals(ContextKey); revoked tokens are rejected like expired ones.
func New(secret string, revoked RevocationStore, logger *log.Logger) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		ContextKey:    ContextKey,
		ErrorHandler:  tokenError,
		SuccessHandler: func(c *fiber.Ctx) error {
			if revoked == nil {
				return c.Next()
			}
			jti, _, err := TokenID(c)
			if err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, msgInvalidToken)
			}
			isRevoked, err := revoked.IsRevoked(c.UserContext(), jti)
			if err != nil {
				if logger != nil {
					logger.Printf("auth: revocation lookup failed: %v", err)
				}
				return fiber.NewError(fiber.StatusUnauthorized, msgInvalidToken)
			}
			if isRevoked {
				return fiber.NewError(fiber.StatusUnauthorized, msgInvalidToken)
			}
			return c.Next()
		},
	})
}

func tokenError(c *fiber.Ctx, _ error) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return fiber.NewError(fiber.StatusUnauthorized, msgNoToken)
	}
	return fiber.NewError(fiber.StatusUnauthorized, msgInvalidToken)
}

// RequireAdmin must run after the token gate.
func RequireAdmin(c *fiber.Ctx) error {
	if _, err := UserID(c); err != nil {
		return err
	}
	if !IsAdmin(c) {
		return fiber.NewError(fiber.StatusForbidden, msgAdminOnly)
	}
	return c.Next()
}
