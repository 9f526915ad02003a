package server

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs the struct tags of v through the shared validator.
func Validate(v any) error {
	return validate.Struct(v)
}

// BindJSON parses the request body into v and validates it. Both parse and
// validation failures are reported as 400 with msg.
func BindJSON(c *fiber.Ctx, v any, msg string) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
	}
	if err := Validate(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}
	return nil
}
