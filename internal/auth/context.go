package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// ContextKey is where the verified token is stored in fiber locals.
const ContextKey = "user"

var errUnauthenticated = fiber.NewError(fiber.StatusUnauthorized, msgNoToken)

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, bool) {
	tok, ok := c.Locals(ContextKey).(*jwt.Token)
	if !ok || tok == nil {
		return nil, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	return claims, ok
}

// UserID returns the subject id of the authenticated caller.
func UserID(c *fiber.Ctx) (string, error) {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return "", errUnauthenticated
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return "", errUnauthenticated
	}
	return id, nil
}

// Role returns the caller's role, or "" when unauthenticated.
func Role(c *fiber.Ctx) string {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

func IsAdmin(c *fiber.Ctx) bool {
	return Role(c) == RoleAdmin
}

// TokenID returns the jti and expiry of the presented token.
func TokenID(c *fiber.Ctx) (string, time.Time, error) {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return "", time.Time{}, errUnauthenticated
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", time.Time{}, errUnauthenticated
	}
	var exp time.Time
	switch v := claims["exp"].(type) {
	case float64:
		exp = time.Unix(int64(v), 0)
	case int64:
		exp = time.Unix(v, 0)
	}
	return jti, exp, nil
}
