package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/officevault/backend/internal/authz"
	"github.com/officevault/backend/internal/dto"
)

// Authorize gates a route on the mutation policy for operations that
// need no resource lookup (the admin-only set). Resource-bound checks
// happen in the handlers after the record is fetched.
func Authorize(op authz.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Not authorized, token failed",
			})
		}

		if err := authz.CanPerform(user.Role, user.ID, op, authz.Resource{}); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Not authorized as an admin",
			})
		}
		return c.Next()
	}
}
